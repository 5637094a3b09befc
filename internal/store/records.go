package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/internal/models"
)

// recordStore builds the generic CRUD statements. Table and column names
// are interpolated (callers validate them), values are always bound.
type recordStore struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Limit   int
}

func NewRecordStore(db *sql.DB, d dialect.Dialect, limit int) *recordStore {
	if limit <= 0 {
		limit = 100
	}
	return &recordStore{DB: db, Dialect: d, Limit: limit}
}

// List returns the first Limit rows of a table or view.
func (rs *recordStore) List(ctx context.Context, relation string) ([]models.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", rs.Dialect.QuoteIdent(relation), rs.Limit)
	rows, err := rs.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// Insert writes data and returns the stored row, including defaults the
// database filled in.
func (rs *recordStore) Insert(ctx context.Context, table, keyColumn string, data *models.Row) (*models.Row, error) {
	cols := data.Columns()
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = rs.Dialect.QuoteIdent(c)
		placeholders[i] = rs.Dialect.Placeholder(i + 1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		rs.Dialect.QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	if rs.Dialect.SupportsReturning() {
		rows, err := rs.DB.QueryContext(ctx, query+" RETURNING *", data.Values()...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return firstRow(rows)
	}

	res, err := rs.DB.ExecContext(ctx, query, data.Values()...)
	if err != nil {
		return nil, err
	}

	key, ok := data.Get(keyColumn)
	if !ok {
		id, err := res.LastInsertId()
		if err != nil || id == 0 {
			// no auto increment key to read the row back with
			return data, nil
		}
		key = id
	}
	return rs.selectByKey(ctx, table, keyColumn, key)
}

// Update sets data on the row whose keyColumn equals id. It returns
// sql.ErrNoRows when nothing matched.
func (rs *recordStore) Update(ctx context.Context, table, keyColumn string, id any, data *models.Row) (*models.Row, error) {
	cols := data.Columns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = %s", rs.Dialect.QuoteIdent(c), rs.Dialect.Placeholder(i+1))
	}
	args := append(data.Values(), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		rs.Dialect.QuoteIdent(table), strings.Join(sets, ", "),
		rs.Dialect.QuoteIdent(keyColumn), rs.Dialect.Placeholder(len(cols)+1))

	if rs.Dialect.SupportsReturning() {
		rows, err := rs.DB.QueryContext(ctx, query+" RETURNING *", args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return firstRow(rows)
	}

	res, err := rs.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	newKey, keyChanged := data.Get(keyColumn)
	if n == 0 {
		// MySQL reports zero affected rows for no-op updates, so only a
		// missing original row means not found.
		row, err := rs.selectByKey(ctx, table, keyColumn, id)
		if err != nil || !keyChanged {
			return row, err
		}
	}
	if keyChanged {
		id = newKey
	}
	return rs.selectByKey(ctx, table, keyColumn, id)
}

// Delete removes the row whose keyColumn equals id. It returns
// sql.ErrNoRows when nothing matched.
func (rs *recordStore) Delete(ctx context.Context, table, keyColumn string, id any) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		rs.Dialect.QuoteIdent(table), rs.Dialect.QuoteIdent(keyColumn), rs.Dialect.Placeholder(1))

	if rs.Dialect.SupportsReturning() {
		rows, err := rs.DB.QueryContext(ctx, query+" RETURNING *", id)
		if err != nil {
			return err
		}
		defer rows.Close()
		_, err = firstRow(rows)
		return err
	}

	res, err := rs.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (rs *recordStore) selectByKey(ctx context.Context, table, keyColumn string, key any) (*models.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s LIMIT 1",
		rs.Dialect.QuoteIdent(table), rs.Dialect.QuoteIdent(keyColumn), rs.Dialect.Placeholder(1))
	rows, err := rs.DB.QueryContext(ctx, query, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return firstRow(rows)
}

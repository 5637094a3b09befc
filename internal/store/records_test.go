package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/internal/models"
)

func rowOf(kv ...any) *models.Row {
	r := models.NewRow(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func TestRecordStore_List(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	opened := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT * FROM Branch LIMIT 25").
		WillReturnRows(sqlmock.NewRows([]string{"branch_id", "branch_name", "opened"}).
			AddRow(int64(1), []byte("Downtown Branch"), opened))

	rs := NewRecordStore(db, dialect.Postgres{}, 25)
	rows, err := rs.List(context.Background(), "Branch")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, []string{"branch_id", "branch_name", "opened"}, rows[0].Columns())
	name, _ := rows[0].Get("branch_name")
	assert.Equal(t, "Downtown Branch", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_InsertReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO customer (first_name, credit_score) VALUES ($1, $2) RETURNING *").
		WithArgs("Jane", int64(720)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "first_name", "credit_score"}).
			AddRow(int64(9), "Jane", int64(720)))

	rs := NewRecordStore(db, dialect.Postgres{}, 100)
	row, err := rs.Insert(context.Background(), "customer", "customer_id", rowOf("first_name", "Jane", "credit_score", int64(720)))
	require.NoError(t, err)

	id, _ := row.Get("customer_id")
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_InsertQuotesReservedColumns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`INSERT INTO payment ("order") VALUES ($1) RETURNING *`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "order"}).AddRow(int64(1), int64(1)))

	rs := NewRecordStore(db, dialect.Postgres{}, 100)
	_, err = rs.Insert(context.Background(), "payment", "payment_id", rowOf("order", int64(1)))
	require.NoError(t, err)
}

func TestRecordStore_InsertQuotesKeywordColumns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`INSERT INTO loan ("end", "default") VALUES ($1, $2) RETURNING *`).
		WithArgs("2030-01-01", true).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "end", "default"}).AddRow(int64(1), "2030-01-01", true))

	rs := NewRecordStore(db, dialect.Postgres{}, 100)
	_, err = rs.Insert(context.Background(), "loan", "loan_id", rowOf("end", "2030-01-01", "default", true))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_UpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("UPDATE loan SET amount = $1, loan_type = $2 WHERE loan_id = $3 RETURNING *").
		WithArgs(5000.5, "Home", "77").
		WillReturnRows(sqlmock.NewRows([]string{"loan_id", "amount", "loan_type"}))

	rs := NewRecordStore(db, dialect.Postgres{}, 100)
	_, err = rs.Update(context.Background(), "loan", "loan_id", "77", rowOf("amount", 5000.5, "loan_type", "Home"))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_DeleteReturning(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name: "deleted",
			rows: sqlmock.NewRows([]string{"card_id"}).AddRow(int64(3)),
		},
		{
			name:    "missing",
			rows:    sqlmock.NewRows([]string{"card_id"}),
			wantErr: sql.ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			mock.ExpectQuery("DELETE FROM creditcard WHERE creditcard_id = $1 RETURNING *").
				WithArgs("3").
				WillReturnRows(tt.rows)

			rs := NewRecordStore(db, dialect.Postgres{}, 100)
			err = rs.Delete(context.Background(), "creditcard", "creditcard_id", "3")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordStore_MySQLInsertReadsBackByLastInsertID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO branch (branch_name) VALUES (?)").
		WithArgs("Uptown").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("SELECT * FROM branch WHERE branch_id = ? LIMIT 1").
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"branch_id", "branch_name"}).AddRow(int64(12), []byte("Uptown")))

	rs := NewRecordStore(db, dialect.MySQL{}, 100)
	row, err := rs.Insert(context.Background(), "branch", "branch_id", rowOf("branch_name", "Uptown"))
	require.NoError(t, err)

	name, _ := row.Get("branch_name")
	assert.Equal(t, "Uptown", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_MySQLUpdateLooksUpRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE branch SET branch_name = ? WHERE branch_id = ?").
		WithArgs("Same", "4").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT * FROM branch WHERE branch_id = ? LIMIT 1").
		WithArgs("4").
		WillReturnRows(sqlmock.NewRows([]string{"branch_id", "branch_name"}).AddRow(int64(4), "Same"))

	rs := NewRecordStore(db, dialect.MySQL{}, 100)
	row, err := rs.Update(context.Background(), "branch", "branch_id", "4", rowOf("branch_name", "Same"))
	require.NoError(t, err)
	assert.Equal(t, 2, row.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_MySQLUpdateMissingRowWithTakenKey(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE branch SET branch_id = ? WHERE branch_id = ?").
		WithArgs(int64(5), "99").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT * FROM branch WHERE branch_id = ? LIMIT 1").
		WithArgs("99").
		WillReturnRows(sqlmock.NewRows([]string{"branch_id"}))

	rs := NewRecordStore(db, dialect.MySQL{}, 100)
	row, err := rs.Update(context.Background(), "branch", "branch_id", "99", rowOf("branch_id", int64(5)))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_MySQLUpdateChangesKey(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE branch SET branch_id = ? WHERE branch_id = ?").
		WithArgs(int64(6), "2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM branch WHERE branch_id = ? LIMIT 1").
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"branch_id"}).AddRow(int64(6)))

	rs := NewRecordStore(db, dialect.MySQL{}, 100)
	row, err := rs.Update(context.Background(), "branch", "branch_id", "2", rowOf("branch_id", int64(6)))
	require.NoError(t, err)
	id, _ := row.Get("branch_id")
	assert.Equal(t, int64(6), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_MySQLDeleteNothingAffected(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM branch WHERE branch_id = ?").
		WithArgs("404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rs := NewRecordStore(db, dialect.MySQL{}, 100)
	err = rs.Delete(context.Background(), "branch", "branch_id", "404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

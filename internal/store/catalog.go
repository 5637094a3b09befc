package store

import (
	"context"
	"database/sql"

	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/internal/models"
)

type catalogStore struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Schema  string
}

func NewCatalogStore(db *sql.DB, d dialect.Dialect, schema string) *catalogStore {
	if schema == "" {
		schema = d.DefaultSchema()
	}
	return &catalogStore{DB: db, Dialect: d, Schema: schema}
}

func (cs *catalogStore) ListTables(ctx context.Context) ([]models.Relation, error) {
	query, args := cs.Dialect.TablesQuery(cs.Schema)
	return cs.relations(ctx, query, args)
}

func (cs *catalogStore) ListViews(ctx context.Context) ([]models.Relation, error) {
	query, args := cs.Dialect.ViewsQuery(cs.Schema)
	return cs.relations(ctx, query, args)
}

func (cs *catalogStore) relations(ctx context.Context, query string, args []any) ([]models.Relation, error) {
	rows, err := cs.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Relation, 0)
	for rows.Next() {
		var rel models.Relation
		if err := rows.Scan(&rel.Name); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// Columns returns column metadata in ordinal order. An unknown table
// yields an empty slice, matching information_schema.
func (cs *catalogStore) Columns(ctx context.Context, table string) ([]models.Column, error) {
	query, args := cs.Dialect.ColumnsQuery(cs.Schema, table)
	rows, err := cs.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Column, 0)
	for rows.Next() {
		var (
			col      models.Column
			def, udt sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &def, &udt); err != nil {
			return nil, err
		}
		if def.Valid {
			v := def.String
			col.Default = &v
		}
		col.UDTName = udt.String
		out = append(out, col)
	}
	return out, rows.Err()
}

func (cs *catalogStore) EnumValues(ctx context.Context, columns []models.Column) (map[string][]string, error) {
	return cs.Dialect.EnumValues(ctx, cs.DB, columns)
}

func (cs *catalogStore) Ping(ctx context.Context) error {
	return cs.DB.PingContext(ctx)
}

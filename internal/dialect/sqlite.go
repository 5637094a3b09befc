package dialect

import (
	"context"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

// SQLite has no information_schema; the catalog comes from sqlite_master
// and pragma_table_info. Schemas map to attached databases and are
// ignored.
type SQLite struct{}

func (SQLite) Name() string          { return "sqlite" }
func (SQLite) DriverName() string    { return "sqlite" }
func (SQLite) DefaultSchema() string { return "main" }

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) QuoteIdent(ident string) string { return quoteWith('"', ident) }

// RETURNING is available from SQLite 3.35, which every supported driver
// bundles.
func (SQLite) SupportsReturning() bool { return true }

func (SQLite) TablesQuery(string) (string, []any) {
	return `SELECT name AS table_name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`, nil
}

func (SQLite) ViewsQuery(string) (string, []any) {
	return `SELECT name AS table_name
		FROM sqlite_master
		WHERE type = 'view'
		ORDER BY name`, nil
}

func (SQLite) ColumnsQuery(_, table string) (string, []any) {
	return `SELECT name AS column_name, type AS data_type,
			CASE WHEN "notnull" = 1 THEN 'NO' ELSE 'YES' END AS is_nullable,
			dflt_value AS column_default, type AS udt_name
		FROM pragma_table_info(?)
		ORDER BY cid`, []any{table}
}

func (SQLite) EnumValues(context.Context, Querier, []models.Column) (map[string][]string, error) {
	return map[string][]string{}, nil
}

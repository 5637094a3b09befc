package dialect

import (
	"context"
	"fmt"
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

type Postgres struct{}

func (Postgres) Name() string          { return "postgres" }
func (Postgres) DriverName() string    { return "pgx" }
func (Postgres) DefaultSchema() string { return "public" }

func (Postgres) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (Postgres) QuoteIdent(ident string) string { return quoteWith('"', ident) }

func (Postgres) SupportsReturning() bool { return true }

func (Postgres) TablesQuery(schema string) (string, []any) {
	return `SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name`, []any{schema}
}

func (Postgres) ViewsQuery(schema string) (string, []any) {
	return `SELECT table_name
		FROM information_schema.views
		WHERE table_schema = $1
		ORDER BY table_name`, []any{schema}
}

func (Postgres) ColumnsQuery(schema, table string) (string, []any) {
	if dot := strings.IndexByte(table, '.'); dot != -1 {
		schema, table = table[:dot], table[dot+1:]
	}
	return `SELECT column_name, data_type, is_nullable, column_default, udt_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, []any{schema, table}
}

const pgEnumQuery = `SELECT e.enumlabel
	FROM pg_type t
	JOIN pg_enum e ON t.oid = e.enumtypid
	WHERE t.typname = $1
	ORDER BY e.enumsortorder`

// EnumValues looks up pg_enum for every USER-DEFINED column. Types that
// turn out not to be enums (domains, composites) yield no labels and are
// left out.
func (Postgres) EnumValues(ctx context.Context, q Querier, columns []models.Column) (map[string][]string, error) {
	out := make(map[string][]string)
	labels := make(map[string][]string)

	for _, col := range columns {
		if col.DataType != "USER-DEFINED" || col.UDTName == "" {
			continue
		}
		vals, seen := labels[col.UDTName]
		if !seen {
			var err error
			vals, err = pgEnumLabels(ctx, q, col.UDTName)
			if err != nil {
				return nil, err
			}
			labels[col.UDTName] = vals
		}
		if len(vals) > 0 {
			out[col.Name] = vals
		}
	}
	return out, nil
}

func pgEnumLabels(ctx context.Context, q Querier, typeName string) ([]string, error) {
	rows, err := q.QueryContext(ctx, pgEnumQuery, typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vals []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

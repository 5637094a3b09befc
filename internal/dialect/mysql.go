package dialect

import (
	"context"
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

// MySQL reads the catalog of the connection's current database unless a
// schema is configured.
type MySQL struct{}

func (MySQL) Name() string          { return "mysql" }
func (MySQL) DriverName() string    { return "mysql" }
func (MySQL) DefaultSchema() string { return "" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) QuoteIdent(ident string) string { return quoteWith('`', ident) }

func (MySQL) SupportsReturning() bool { return false }

func (MySQL) TablesQuery(schema string) (string, []any) {
	return `SELECT table_name AS table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		AND table_type = 'BASE TABLE'
		ORDER BY table_name`, []any{schema}
}

func (MySQL) ViewsQuery(schema string) (string, []any) {
	return `SELECT table_name AS table_name
		FROM information_schema.views
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		ORDER BY table_name`, []any{schema}
}

// ColumnsQuery reports column_type as udt_name; for enums it carries the
// value list, e.g. enum('Checking','Savings').
func (MySQL) ColumnsQuery(schema, table string) (string, []any) {
	if dot := strings.IndexByte(table, '.'); dot != -1 {
		schema, table = table[:dot], table[dot+1:]
	}
	return `SELECT column_name AS column_name, data_type AS data_type, is_nullable AS is_nullable,
			column_default AS column_default, column_type AS udt_name
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position`, []any{schema, table}
}

// EnumValues needs no round trip: MySQL spells the values out in the
// column type.
func (MySQL) EnumValues(_ context.Context, _ Querier, columns []models.Column) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, col := range columns {
		if vals := parseEnumType(col.UDTName); len(vals) > 0 {
			out[col.Name] = vals
		}
	}
	return out, nil
}

// parseEnumType splits enum('a','b''c') into [a b'c].
func parseEnumType(columnType string) []string {
	lower := strings.ToLower(columnType)
	if !strings.HasPrefix(lower, "enum(") || !strings.HasSuffix(lower, ")") {
		return nil
	}
	body := columnType[len("enum(") : len(columnType)-1]

	var (
		vals    []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			inQuote = !inQuote
			if !inQuote {
				vals = append(vals, cur.String())
				cur.Reset()
			}
		case inQuote:
			cur.WriteByte(c)
		}
	}
	return vals
}

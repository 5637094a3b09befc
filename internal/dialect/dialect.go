// Package dialect holds the per-database differences the admin API has to
// care about: placeholders, identifier quoting, RETURNING support and the
// catalog queries used for introspection.
package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Dialect interface {
	// Name is the canonical dialect name (postgres, mysql, sqlite).
	Name() string
	// DriverName is the database/sql driver the dialect expects.
	DriverName() string
	// DefaultSchema is used when no schema is configured.
	DefaultSchema() string

	// Placeholder returns the bind parameter for a 1-indexed position.
	Placeholder(position int) string
	// QuoteIdent quotes an already validated identifier when it collides
	// with a reserved word. Other identifiers are left bare so the
	// database applies its usual case folding.
	QuoteIdent(ident string) string
	// SupportsReturning reports whether INSERT/UPDATE/DELETE accept
	// RETURNING *.
	SupportsReturning() bool

	// Catalog queries. Column queries must select, in order: column_name,
	// data_type, is_nullable ('YES'/'NO'), column_default, udt_name.
	TablesQuery(schema string) (string, []any)
	ViewsQuery(schema string) (string, []any)
	ColumnsQuery(schema, table string) (string, []any)

	// EnumValues resolves the allowed values of enum typed columns,
	// keyed by column name. Columns without enum types are absent.
	EnumValues(ctx context.Context, q Querier, columns []models.Column) (map[string][]string, error)
}

// New returns the dialect registered under name.
func New(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx", "":
		return Postgres{}, nil
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", name)
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether name can be interpolated into SQL. A single
// schema qualifier (schema.table) is allowed.
func ValidIdent(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !identPattern.MatchString(p) {
			return false
		}
	}
	return true
}

// quoteWith quotes each part of a possibly qualified name that is a
// reserved word, doubling the quote character inside it.
func quoteWith(q byte, ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if _, reserved := reservedIdents[strings.ToLower(p)]; reserved {
			s := string(q)
			parts[i] = s + strings.ReplaceAll(p, s, s+s) + s
		}
	}
	return strings.Join(parts, ".")
}

// SQL keywords reserved by at least one supported dialect. They cannot be
// used bare as table or column names.
var reservedIdents = map[string]struct{}{
	// DML/DDL
	"select": {}, "insert": {}, "update": {}, "delete": {}, "into": {}, "values": {},
	"create": {}, "alter": {}, "drop": {}, "table": {}, "index": {}, "view": {},
	"column": {}, "constraint": {}, "default": {}, "check": {}, "unique": {}, "primary": {},
	"foreign": {}, "key": {}, "references": {}, "grant": {}, "returning": {},
	// Clauses
	"from": {}, "where": {}, "group": {}, "order": {}, "by": {}, "having": {},
	"limit": {}, "offset": {}, "fetch": {}, "with": {}, "window": {}, "distinct": {}, "all": {},
	"join": {}, "inner": {}, "left": {}, "right": {}, "full": {}, "outer": {}, "cross": {},
	"natural": {}, "using": {}, "union": {}, "intersect": {}, "except": {}, "for": {}, "to": {},
	// Expressions
	"case": {}, "when": {}, "then": {}, "else": {}, "end": {}, "cast": {}, "collate": {},
	"interval": {}, "any": {}, "some": {}, "array": {}, "do": {}, "only": {},
	"current_date": {}, "current_time": {}, "current_timestamp": {}, "current_user": {},
	// Operators/Predicates
	"and": {}, "or": {}, "not": {}, "in": {}, "is": {}, "like": {}, "between": {}, "exists": {},
	// Literals
	"null": {}, "true": {}, "false": {},
	// Misc
	"as": {}, "on": {}, "user": {}, "desc": {}, "asc": {},
}

package dialect

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "postgres", want: "postgres"},
		{in: "PostgreSQL", want: "postgres"},
		{in: "", want: "postgres"},
		{in: "mysql", want: "mysql"},
		{in: "sqlite3", want: "sqlite"},
		{in: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := New(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestValidIdent(t *testing.T) {
	valid := []string{"customer", "Customer", "credit_card", "_x1", "public.account"}
	invalid := []string{"", "1abc", "customer;drop", "a b", "a.b.c", "name--", `"quoted"`}

	for _, name := range valid {
		assert.True(t, ValidIdent(name), name)
	}
	for _, name := range invalid {
		assert.False(t, ValidIdent(name), name)
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "Customer", Postgres{}.QuoteIdent("Customer"))
	assert.Equal(t, `"order"`, Postgres{}.QuoteIdent("order"))
	assert.Equal(t, `public."user"`, Postgres{}.QuoteIdent("public.user"))
	assert.Equal(t, "`Order`", MySQL{}.QuoteIdent("Order"))
	assert.Equal(t, "account_id", SQLite{}.QuoteIdent("account_id"))

	for _, word := range []string{"end", "default", "check", "case", "column", "constraint",
		"references", "unique", "primary", "with", "distinct", "all", "key"} {
		assert.Equal(t, `"`+word+`"`, Postgres{}.QuoteIdent(word), word)
		assert.Equal(t, "`"+word+"`", MySQL{}.QuoteIdent(word), word)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", Postgres{}.Placeholder(3))
	assert.Equal(t, "?", MySQL{}.Placeholder(3))
	assert.Equal(t, "?", SQLite{}.Placeholder(1))
}

func TestPostgresColumnsQuerySplitsSchema(t *testing.T) {
	_, args := Postgres{}.ColumnsQuery("public", "audit.auditlog")
	assert.Equal(t, []any{"audit", "auditlog"}, args)

	_, args = Postgres{}.ColumnsQuery("public", "customer")
	assert.Equal(t, []any{"public", "customer"}, args)
}

func TestPostgresEnumValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT e.enumlabel").
		WithArgs("account_type_enum").
		WillReturnRows(sqlmock.NewRows([]string{"enumlabel"}).
			AddRow("Checking").AddRow("Savings").AddRow("Credit"))
	mock.ExpectQuery("SELECT e.enumlabel").
		WithArgs("money_domain").
		WillReturnRows(sqlmock.NewRows([]string{"enumlabel"}))

	cols := []models.Column{
		{Name: "account_id", DataType: "integer", UDTName: "int4"},
		{Name: "account_type", DataType: "USER-DEFINED", UDTName: "account_type_enum"},
		{Name: "previous_type", DataType: "USER-DEFINED", UDTName: "account_type_enum"},
		{Name: "balance", DataType: "USER-DEFINED", UDTName: "money_domain"},
	}

	got, err := Postgres{}.EnumValues(context.Background(), db, cols)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"account_type":  {"Checking", "Savings", "Credit"},
		"previous_type": {"Checking", "Savings", "Credit"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLEnumValues(t *testing.T) {
	cols := []models.Column{
		{Name: "role", DataType: "enum", UDTName: "enum('Teller','Loan Officer','IT')"},
		{Name: "note", DataType: "enum", UDTName: "ENUM('it''s','x')"},
		{Name: "name", DataType: "varchar", UDTName: "varchar(50)"},
	}

	got, err := MySQL{}.EnumValues(context.Background(), nil, cols)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teller", "Loan Officer", "IT"}, got["role"])
	assert.Equal(t, []string{"it's", "x"}, got["note"])
	assert.NotContains(t, got, "name")
}

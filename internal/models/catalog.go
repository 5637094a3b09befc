package models

import "github.com/GregMSThompson/dbadmin/pkg/helpers"

// Relation is a table or view name as listed by the catalog. The JSON
// shape mirrors information_schema so clients see "table_name" for both.
type Relation struct {
	Name string `json:"table_name"`
}

// Column is one row of column metadata, ordered by ordinal position.
type Column struct {
	Name       string  `json:"column_name"`
	DataType   string  `json:"data_type"`
	IsNullable string  `json:"is_nullable"`
	Default    *string `json:"column_default"`
	UDTName    string  `json:"udt_name,omitempty"`
}

func (c Column) Nullable() bool {
	return c.IsNullable != "NO"
}

// DefaultValue is the column default expression, or "" when there is none.
func (c Column) DefaultValue() string {
	return helpers.Value(c.Default)
}

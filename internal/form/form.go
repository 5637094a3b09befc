// Package form turns column metadata into input field descriptors and
// validates user supplied values against them before they are sent to the
// API.
package form

import (
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindTel    Kind = "tel"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
	KindEnum   Kind = "enum"
)

// Field describes how a single column should be edited.
type Field struct {
	Name          string   `json:"name"`
	Label         string   `json:"label"`
	Kind          Kind     `json:"kind"`
	DataType      string   `json:"data_type"`
	Integer       bool     `json:"integer,omitempty"`
	Required      bool     `json:"required"`
	AutoGenerated bool     `json:"auto_generated,omitempty"`
	Options       []string `json:"options,omitempty"`
	Placeholder   string   `json:"placeholder,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
}

var placeholders = map[string]string{
	"email":                 "user@example.com",
	"phone":                 "555-123-4567",
	"card_number":           "1234567890123456",
	"address":               "Full street address",
	"identification_number": "Government ID number",
}

// Build derives one field per column, in column order. enums maps column
// names to the values the catalog allows.
func Build(columns []models.Column, enums map[string][]string) []Field {
	fields := make([]Field, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, NewField(col, enums[col.Name]))
	}
	return fields
}

func NewField(col models.Column, options []string) Field {
	f := Field{
		Name:          col.Name,
		Label:         Label(col.Name),
		DataType:      col.DataType,
		AutoGenerated: IsAutoGenerated(col.Name, col.DefaultValue()),
		Placeholder:   placeholders[col.Name],
	}
	f.Required = !col.Nullable() && !strings.HasSuffix(col.Name, "_id") && !f.AutoGenerated

	dataType := strings.ToLower(col.DataType)
	switch {
	case len(options) > 0 || strings.Contains(dataType, "enum") || strings.Contains(strings.ToLower(col.UDTName), "enum"):
		f.Kind = KindEnum
		f.Options = options
	case isDate(col.Name, dataType):
		f.Kind = KindDate
	case isNumber(dataType):
		f.Kind = KindNumber
		f.Integer = strings.Contains(dataType, "int")
		if f.Integer {
			f.Pattern = `[0-9]*`
		} else {
			f.Pattern = `[0-9]*(\.[0-9]+)?`
		}
	case col.Name == "email":
		f.Kind = KindEmail
	case col.Name == "phone" || col.Name == "card_number":
		f.Kind = KindTel
	default:
		f.Kind = KindText
	}
	return f
}

// IsAutoGenerated reports columns the database fills in itself and that
// forms leave out.
func IsAutoGenerated(name, columnDefault string) bool {
	return strings.Contains(name, "timestamp") ||
		name == "created_at" ||
		strings.Contains(strings.ToLower(columnDefault), "now()")
}

// Label turns snake_case into Title Case, spelling a trailing _id as ID.
func Label(name string) string {
	if strings.HasSuffix(name, "_id") {
		name = strings.TrimSuffix(name, "_id") + "_ID"
	}
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isDate(name, dataType string) bool {
	return dataType == "date" || strings.Contains(name, "date")
}

func isNumber(dataType string) bool {
	for _, s := range []string{"int", "decimal", "numeric", "real", "double", "float"} {
		if strings.Contains(dataType, s) {
			return true
		}
	}
	return false
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

type renderer struct {
	w      io.Writer
	format string
}

func (r renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rows prints result rows. Columns follow the first row, the way the
// server returned them.
func (r renderer) rows(rows []models.Row) error {
	if r.format == "json" {
		return r.json(rows)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.w, "(0 rows)")
		return nil
	}

	cols := rows[0].Columns()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}

	t := r.newTable()
	t.AppendHeader(header)
	for _, row := range rows {
		line := make(table.Row, len(cols))
		for i, c := range cols {
			v, _ := row.Get(c)
			line[i] = formatValue(v)
		}
		t.AppendRow(line)
	}
	t.Render()
	_, _ = fmt.Fprintf(r.w, "(%d rows)\n", len(rows))
	return nil
}

// record prints a single row vertically.
func (r renderer) record(row *models.Row) error {
	if r.format == "json" {
		return r.json(row)
	}
	t := r.newTable()
	t.AppendHeader(table.Row{"column", "value"})
	for _, c := range row.Columns() {
		v, _ := row.Get(c)
		t.AppendRow(table.Row{c, formatValue(v)})
	}
	t.Render()
	return nil
}

// list prints any list with explicit headers; data is used for JSON.
func (r renderer) list(data any, header table.Row, lines []table.Row) error {
	if r.format == "json" {
		return r.json(data)
	}
	t := r.newTable()
	t.AppendHeader(header)
	t.AppendRows(lines)
	t.Render()
	return nil
}

func (r renderer) message(msg string) error {
	if r.format == "json" {
		return r.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

func (r renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

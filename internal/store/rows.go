package store

import (
	"database/sql"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

// scanRows drains rows into ordered models.Row values. Byte slices are
// turned into strings so text columns from drivers that hand back []byte
// (MySQL, numeric in some drivers) serialise as JSON strings. The result
// is never nil so it encodes as [].
func scanRows(rows *sql.Rows) ([]models.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]models.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := models.NewRow(len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row.Set(col, val)
		}
		out = append(out, *row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// firstRow returns the first scanned row or sql.ErrNoRows.
func firstRow(rows *sql.Rows) (*models.Row, error) {
	all, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, sql.ErrNoRows
	}
	return &all[0], nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

// queryStore runs caller supplied SQL as is.
type queryStore struct {
	DB *sql.DB
}

func NewQueryStore(db *sql.DB) *queryStore {
	return &queryStore{DB: db}
}

func (qs *queryStore) Execute(ctx context.Context, query string) ([]models.Row, error) {
	rows, err := qs.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

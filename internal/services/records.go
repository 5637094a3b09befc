package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

type recordRSStore interface {
	List(ctx context.Context, relation string) ([]models.Row, error)
	Insert(ctx context.Context, table, keyColumn string, data *models.Row) (*models.Row, error)
	Update(ctx context.Context, table, keyColumn string, id any, data *models.Row) (*models.Row, error)
	Delete(ctx context.Context, table, keyColumn string, id any) error
}

type recordService struct {
	store recordRSStore
}

func NewRecordService(store recordRSStore) *recordService {
	return &recordService{store: store}
}

// List returns the first rows of a table or a view.
func (s *recordService) List(ctx context.Context, relation string) ([]models.Row, error) {
	if err := validateRelation(relation); err != nil {
		return nil, err
	}
	rows, err := s.store.List(ctx, relation)
	if err != nil {
		return nil, errs.NewDatabaseError("list rows", err)
	}
	return rows, nil
}

func (s *recordService) Insert(ctx context.Context, table string, data *models.Row) (*models.Row, error) {
	if err := validateWrite(table, data); err != nil {
		return nil, err
	}

	// a null key is left to the column default (serial, auto increment)
	key := KeyColumn(table)
	if v, ok := data.Get(key); ok && v == nil {
		data.Delete(key)
		if data.Len() == 0 {
			return nil, errs.NewValidationError("no columns provided")
		}
	}

	row, err := s.store.Insert(ctx, table, key, data)
	if err != nil {
		return nil, errs.NewDatabaseError("insert", err)
	}

	logger.FromContext(ctx).Info("record inserted", "table", table)
	return row, nil
}

func (s *recordService) Update(ctx context.Context, table, id string, data *models.Row) (*models.Row, error) {
	if err := validateWrite(table, data); err != nil {
		return nil, err
	}

	row, err := s.store.Update(ctx, table, KeyColumn(table), id, data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError(errs.MsgRecordNotFound)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("update", err)
	}

	logger.FromContext(ctx).Info("record updated", "table", table, "id", id)
	return row, nil
}

func (s *recordService) Delete(ctx context.Context, table, id string) error {
	if err := validateRelation(table); err != nil {
		return err
	}

	err := s.store.Delete(ctx, table, KeyColumn(table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError(errs.MsgRecordNotFound)
	}
	if err != nil {
		return errs.NewDatabaseError("delete", err)
	}

	logger.FromContext(ctx).Info("record deleted", "table", table, "id", id)
	return nil
}

// KeyColumn is the primary key naming convention: the lower cased table
// name followed by _id. A schema qualifier is not part of the key.
func KeyColumn(table string) string {
	if i := strings.LastIndex(table, "."); i >= 0 {
		table = table[i+1:]
	}
	return strings.ToLower(table) + "_id"
}

func validateWrite(table string, data *models.Row) error {
	if err := validateRelation(table); err != nil {
		return err
	}
	if data == nil || data.Len() == 0 {
		return errs.NewValidationError("no columns provided")
	}
	for _, col := range data.Columns() {
		if !dialect.ValidIdent(col) || strings.Contains(col, ".") {
			return errs.NewValidationError(fmt.Sprintf("invalid column name: %q", col))
		}
	}
	return nil
}

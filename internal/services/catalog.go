package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

// enumLookups bounds the concurrent enum lookups of one form request.
const enumLookups = 4

type catalogCSStore interface {
	ListTables(ctx context.Context) ([]models.Relation, error)
	ListViews(ctx context.Context) ([]models.Relation, error)
	Columns(ctx context.Context, table string) ([]models.Column, error)
	EnumValues(ctx context.Context, columns []models.Column) (map[string][]string, error)
	Ping(ctx context.Context) error
}

type catalogService struct {
	store catalogCSStore
}

func NewCatalogService(store catalogCSStore) *catalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListTables(ctx context.Context) ([]models.Relation, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list tables", err)
	}
	return tables, nil
}

func (s *catalogService) ListViews(ctx context.Context) ([]models.Relation, error) {
	views, err := s.store.ListViews(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list views", err)
	}
	return views, nil
}

func (s *catalogService) TableSchema(ctx context.Context, table string) ([]models.Column, error) {
	if err := validateRelation(table); err != nil {
		return nil, err
	}
	cols, err := s.store.Columns(ctx, table)
	if err != nil {
		return nil, errs.NewDatabaseError("table schema", err)
	}
	return cols, nil
}

// TableForm returns form field descriptors for table. Enum options are
// looked up per column, a few at a time.
func (s *catalogService) TableForm(ctx context.Context, table string) ([]form.Field, error) {
	cols, err := s.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errs.NewNotFoundError(fmt.Sprintf("table %s not found", table))
	}

	var (
		mu    sync.Mutex
		enums = make(map[string][]string)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enumLookups)
	for _, col := range cols {
		if !enumCandidate(col) {
			continue
		}
		g.Go(func() error {
			found, err := s.store.EnumValues(gctx, []models.Column{col})
			if err != nil {
				return err
			}
			mu.Lock()
			maps.Copy(enums, found)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("enum values", err)
	}

	logger.FromContext(ctx).Debug("form built", "table", table, "columns", len(cols), "enums", len(enums))
	return form.Build(cols, enums), nil
}

func (s *catalogService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return errs.NewDatabaseError("ping", err)
	}
	return nil
}

// enumCandidate reports columns whose declared type may carry enum
// labels: Postgres user defined types and MySQL enum columns.
func enumCandidate(col models.Column) bool {
	return col.DataType == "USER-DEFINED" || strings.HasPrefix(strings.ToLower(col.UDTName), "enum(")
}

func validateRelation(name string) error {
	if !dialect.ValidIdent(name) {
		return errs.NewValidationError(fmt.Sprintf("invalid table name: %q", name))
	}
	return nil
}

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/handlers"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/internal/response"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

type fakeCatalog struct{}

func (fakeCatalog) ListTables(context.Context) ([]models.Relation, error) {
	return []models.Relation{{Name: "account"}}, nil
}
func (fakeCatalog) ListViews(context.Context) ([]models.Relation, error) {
	return []models.Relation{}, nil
}
func (fakeCatalog) TableSchema(context.Context, string) ([]models.Column, error) {
	return []models.Column{}, nil
}
func (fakeCatalog) TableForm(context.Context, string) ([]form.Field, error) {
	return []form.Field{}, nil
}
func (fakeCatalog) Health(context.Context) error { return nil }

type fakeRecords struct{}

func (fakeRecords) List(context.Context, string) ([]models.Row, error) { return []models.Row{}, nil }
func (fakeRecords) Insert(context.Context, string, *models.Row) (*models.Row, error) {
	return models.NewRow(0), nil
}
func (fakeRecords) Update(context.Context, string, string, *models.Row) (*models.Row, error) {
	return models.NewRow(0), nil
}
func (fakeRecords) Delete(context.Context, string, string) error { return nil }

type fakeQuery struct{}

func (fakeQuery) Execute(context.Context, dto.RawExecuteQueryRequest) ([]models.Row, error) {
	return []models.Row{}, nil
}

func newTestRouter(opts Options) http.Handler {
	log := logger.Discard()
	return NewRouter(&handlers.Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		CatalogSvc:      fakeCatalog{},
		RecordSvc:       fakeRecords{},
		QuerySvc:        fakeQuery{},
	}, opts)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(Options{})

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/tables", "", http.StatusOK},
		{http.MethodGet, "/api/tables/account/schema", "", http.StatusOK},
		{http.MethodGet, "/api/tables/account/form", "", http.StatusOK},
		{http.MethodGet, "/api/tables/account", "", http.StatusOK},
		{http.MethodPost, "/api/tables/account", `{"balance":1}`, http.StatusCreated},
		{http.MethodPut, "/api/tables/account/1", `{"balance":2}`, http.StatusOK},
		{http.MethodDelete, "/api/tables/account/1", "", http.StatusOK},
		{http.MethodGet, "/api/views", "", http.StatusOK},
		{http.MethodGet, "/api/views/summary", "", http.StatusOK},
		{http.MethodPost, "/api/execute-query", `{"query":"SELECT 1"}`, http.StatusOK},
		{http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}

func TestAuthGuardsAPIOnly(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	r := newTestRouter(Options{Auth: deny})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("api status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}
}

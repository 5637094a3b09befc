package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/internal/response"
)

type catalogService interface {
	ListTables(ctx context.Context) ([]models.Relation, error)
	ListViews(ctx context.Context) ([]models.Relation, error)
	TableSchema(ctx context.Context, table string) ([]models.Column, error)
	TableForm(ctx context.Context, table string) ([]form.Field, error)
	Health(ctx context.Context) error
}

type recordService interface {
	List(ctx context.Context, relation string) ([]models.Row, error)
	Insert(ctx context.Context, table string, data *models.Row) (*models.Row, error)
	Update(ctx context.Context, table, id string, data *models.Row) (*models.Row, error)
	Delete(ctx context.Context, table, id string) error
}

type tableHandlers struct {
	ResponseHandler response.ResponseHandler
	CatalogSvc      catalogService
	RecordSvc       recordService
}

func NewTableHandlers(deps *Deps) *tableHandlers {
	return &tableHandlers{
		ResponseHandler: deps.ResponseHandler,
		CatalogSvc:      deps.CatalogSvc,
		RecordSvc:       deps.RecordSvc,
	}
}

func (h *tableHandlers) TableRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTables)
	r.Get("/{name}/schema", h.GetSchema)
	r.Get("/{name}/form", h.GetForm)
	r.Get("/{name}", h.ListRows)
	r.Post("/{name}", h.InsertRow)
	r.Put("/{name}/{id}", h.UpdateRow)
	r.Delete("/{name}/{id}", h.DeleteRow)
	return r
}

func (h *tableHandlers) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.CatalogSvc.ListTables(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tables)
}

func (h *tableHandlers) GetSchema(w http.ResponseWriter, r *http.Request) {
	cols, err := h.CatalogSvc.TableSchema(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cols)
}

func (h *tableHandlers) GetForm(w http.ResponseWriter, r *http.Request) {
	fields, err := h.CatalogSvc.TableForm(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, fields)
}

func (h *tableHandlers) ListRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.RecordSvc.List(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rows)
}

func (h *tableHandlers) InsertRow(w http.ResponseWriter, r *http.Request) {
	data, err := decodeRow(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	row, err := h.RecordSvc.Insert(r.Context(), chi.URLParam(r, "name"), data)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, row)
}

func (h *tableHandlers) UpdateRow(w http.ResponseWriter, r *http.Request) {
	data, err := decodeRow(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	row, err := h.RecordSvc.Update(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"), data)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, row)
}

func (h *tableHandlers) DeleteRow(w http.ResponseWriter, r *http.Request) {
	if err := h.RecordSvc.Delete(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Record deleted successfully"})
}

// decodeRow reads a JSON object body, keeping its key order.
func decodeRow(r *http.Request) (*models.Row, error) {
	row := models.NewRow(0)
	if err := json.NewDecoder(r.Body).Decode(row); err != nil {
		return nil, errs.NewValidationError("request body must be a JSON object")
	}
	return row, nil
}

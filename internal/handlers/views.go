package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dbadmin/internal/response"
)

type viewHandlers struct {
	ResponseHandler response.ResponseHandler
	CatalogSvc      catalogService
	RecordSvc       recordService
}

func NewViewHandlers(deps *Deps) *viewHandlers {
	return &viewHandlers{
		ResponseHandler: deps.ResponseHandler,
		CatalogSvc:      deps.CatalogSvc,
		RecordSvc:       deps.RecordSvc,
	}
}

func (h *viewHandlers) ViewRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListViews)
	r.Get("/{name}", h.ListRows)
	return r
}

func (h *viewHandlers) ListViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.CatalogSvc.ListViews(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, views)
}

func (h *viewHandlers) ListRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.RecordSvc.List(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rows)
}

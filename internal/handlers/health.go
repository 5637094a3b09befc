package handlers

import (
	"net/http"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/response"
)

type healthHandlers struct {
	ResponseHandler response.ResponseHandler
	CatalogSvc      catalogService
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{
		ResponseHandler: deps.ResponseHandler,
		CatalogSvc:      deps.CatalogSvc,
	}
}

func (h *healthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogSvc.Health(r.Context()); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

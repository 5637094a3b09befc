package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/internal/response"
)

type queryService interface {
	Execute(ctx context.Context, req dto.RawExecuteQueryRequest) ([]models.Row, error)
}

type queryHandlers struct {
	ResponseHandler response.ResponseHandler
	QuerySvc        queryService
}

func NewQueryHandlers(deps *Deps) *queryHandlers {
	return &queryHandlers{
		ResponseHandler: deps.ResponseHandler,
		QuerySvc:        deps.QuerySvc,
	}
}

func (h *queryHandlers) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req dto.RawExecuteQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError(errs.MsgInvalidQuery))
		return
	}
	rows, err := h.QuerySvc.Execute(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rows)
}

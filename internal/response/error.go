package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Details: details,
	}); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	status, message := errs.Status(err)

	switch e := err.(type) {
	case *errs.NotFoundError:
		log.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, status, message, "")

	case *errs.ValidationError:
		log.Warn("validation failed", "error", e.Message)
		h.WriteError(w, r, status, message, "")

	case *errs.DatabaseError:
		log.Error("database error",
			"operation", e.Operation,
			"error", e.Message)
		h.WriteError(w, r, status, message, "")

	case *errs.QueryError:
		log.Error("error executing query", "error", e.Details)
		h.WriteError(w, r, status, message, e.Details)

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, status, message, "")
	}
}

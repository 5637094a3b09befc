package response

import (
	"encoding/json"
	"net/http"
)

// WriteSuccess writes data as the bare JSON body. Rows and row lists are
// not wrapped in an envelope.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Last-ditch logging; can't return an error now
		h.Log.Error("failed to encode success response", "error", err, "path", r.URL.Path)
	}
}

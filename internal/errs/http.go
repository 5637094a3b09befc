package errs

import (
	"errors"
	"net/http"
)

// Public messages. The API never leaks driver errors outside of QueryError.
const (
	MsgServerError    = "Server error"
	MsgRecordNotFound = "Record not found"
	MsgInvalidQuery   = "Invalid query"
)

// Status maps an error to the HTTP status and public message it should be
// reported with.
func Status(err error) (int, string) {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		query      *QueryError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Message
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.As(err, &query):
		return http.StatusInternalServerError, query.Message
	default:
		return http.StatusInternalServerError, MsgServerError
	}
}

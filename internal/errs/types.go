package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// DatabaseError wraps a driver error. The cause is logged, never returned
// to the caller.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// QueryError is a failed ad-hoc statement. Unlike DatabaseError its driver
// message is echoed back to the client as details.
type QueryError struct {
	ErrorMessage
	Details string
	Err     error
}

func (e *QueryError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s: %v", operation, err)},
		Operation:    operation,
		Err:          err,
	}
}

func NewQueryError(err error) *QueryError {
	return &QueryError{
		ErrorMessage: ErrorMessage{Message: "Error executing query"},
		Details:      err.Error(),
		Err:          err,
	}
}

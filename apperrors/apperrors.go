package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Each code maps to exactly one HTTP status at the handler
// boundary; handlers never leak internal detail for INTERNAL-class codes.
const (
	CodeValidation       = "VALIDATION"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInvalidOperation = "INVALID_OPERATION"
	CodeStorage          = "STORAGE"
	CodeAggregation      = "AGGREGATION_FAILED"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code: %s, message: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

func (e Error) Unwrap() error { return e.cause }

func New(code, message string) error {
	return Error{Code: code, Message: message}
}

// Wrap keeps the underlying cause for server-side logging while the code and
// message are what the client sees.
func Wrap(code, message string, cause error) error {
	return Error{Code: code, Message: message, cause: cause}
}

func Validation(message string) error       { return New(CodeValidation, message) }
func Unauthenticated(message string) error  { return New(CodeUnauthenticated, message) }
func Forbidden(message string) error        { return New(CodeForbidden, message) }
func NotFound(message string) error         { return New(CodeNotFound, message) }
func Conflict(message string) error         { return New(CodeConflict, message) }
func InvalidOperation(message string) error { return New(CodeInvalidOperation, message) }

func Storage(cause error) error {
	return Wrap(CodeStorage, "storage failure", cause)
}

func Aggregation(cause error) error {
	return Wrap(CodeAggregation, "dashboard aggregation failed", cause)
}

// As extracts an Error from err's chain.
func As(err error) (Error, bool) {
	var e Error
	ok := errors.As(err, &e)
	return e, ok
}

// HTTPStatus maps an error to its response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeValidation, CodeInvalidOperation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Internal reports whether err should be hidden behind a generic message.
func Internal(err error) bool {
	return HTTPStatus(err) == http.StatusInternalServerError
}

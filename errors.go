package routekit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a structured error response that implements the error interface.
type Error struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrForbidden           = Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: http.StatusText(http.StatusForbidden)}
	ErrNotFoundHTTP        = Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)}
	ErrConflict            = Error{Status: http.StatusConflict, Code: "CONFLICT", Message: http.StatusText(http.StatusConflict)}
	ErrUnprocessableEntity = Error{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: http.StatusText(http.StatusUnprocessableEntity)}
	ErrTooManyRequests     = Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
	ErrServiceUnavailable  = Error{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: http.StatusText(http.StatusServiceUnavailable)}
)

// Dispatch outcome errors.
var (
	ErrNotFound = errors.New("no listener claimed the request")
)

// Configuration errors. These are raised synchronously at registration or
// setup time, never deferred into request handling.
var (
	ErrInvalidPattern      = errors.New("routing pattern must begin with '/'")
	ErrEmptyParamName      = errors.New("routing pattern contains empty param name")
	ErrDuplicateParam      = errors.New("routing pattern contains duplicate param key")
	ErrWildcardPosition    = errors.New("wildcard '*' must be the last segment in a route")
	ErrNilHandler          = errors.New("handler cannot be nil")
	ErrNilPrecondition     = errors.New("precondition cannot be nil")
	ErrNilSubrouter        = errors.New("subrouter function cannot be nil")
	ErrNilExtensionFactory = errors.New("extension factory cannot be nil")
	ErrNilExtension        = errors.New("extension factory returned nil extension")
	ErrMissingElse         = errors.New("accepting requires an Else offer")
)

// Body access errors.
var (
	ErrBodyStreamed = errors.New("request body already consumed as a stream")
	ErrBodyBuffered = errors.New("request body already buffered")
)

// defaultErrorHandler provides default error handling.
func defaultErrorHandler(m *Message, err error) {
	w := m.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	var appErr Error
	if errors.As(err, &appErr) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(appErr.Status)
		_ = json.NewEncoder(w).Encode(appErr)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "404 Not Found", http.StatusNotFound)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}

// toError converts any recovered value to an error.
func toError(v any) error {
	switch e := v.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("panic: %v", e)
	}
}

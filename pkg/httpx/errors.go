package httpx

import (
	"fmt"
	"net/http"
)

// APIError is an error with a fixed status and a user-facing message.
// Detail carries internal error text and is only rendered when the caller
// opted in with WithDetail.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// WriteError writes the error as JSON.
func (e *APIError) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, e)
}

// WithDetail returns a copy of e carrying err's text when expose is true.
// Predefined errors are shared, so they are never mutated in place.
func (e *APIError) WithDetail(err error, expose bool) *APIError {
	cp := *e
	if expose && err != nil {
		cp.Detail = err.Error()
	}
	return &cp
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

var (
	ErrNotFound = NewAPIError(http.StatusNotFound, "Ruta no encontrada")
	ErrInternal = NewAPIError(http.StatusInternalServerError, "Error interno del servidor")
)

// Is matches errors with the same status and message, so a response parsed
// by a client compares equal to the predefined error the server wrote.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode && t.Message == e.Message
}

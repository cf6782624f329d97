package authsdk

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/credgate/pkg/httpx"
)

// Predefined gateway errors. Messages are part of the public contract and
// match what existing clients already check for.
var (
	ErrInvalidCredentials = httpx.NewAPIError(http.StatusUnauthorized, "Credenciales invalidas")
	ErrUserInactive       = httpx.NewAPIError(http.StatusForbidden, "Usuario inactivo")
	ErrCredentialCheck    = httpx.NewAPIError(http.StatusInternalServerError, "Error al verificar credenciales")
	ErrLoginFailed        = httpx.NewAPIError(http.StatusInternalServerError, "Error al iniciar sesion")

	ErrTokenRevoked   = httpx.NewAPIError(http.StatusUnauthorized, "Token invalidado")
	ErrTokenExpired   = httpx.NewAPIError(http.StatusUnauthorized, "Token expirado")
	ErrTokenInvalid   = httpx.NewAPIError(http.StatusUnauthorized, "Token invalido")
	ErrValidateFailed = httpx.NewAPIError(http.StatusInternalServerError, "Error al validar token")

	ErrLogoutFailed = httpx.NewAPIError(http.StatusInternalServerError, "Error al cerrar sesion")

	ErrAdminUnauthorized = httpx.NewAPIError(http.StatusUnauthorized, "No autorizado")
)

// ValidationError is a 400 carrying one entry per failed rule.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Path+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: e.Errors})
}

// parseErrorResponse turns a non-success gateway response into a typed
// error: *ValidationError for 400s with an errors array, *httpx.APIError
// otherwise.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusBadRequest {
		var v ValidationErrorResponse
		if err := json.Unmarshal(body, &v); err == nil && len(v.Errors) > 0 {
			return &ValidationError{Errors: v.Errors}
		}
	}

	var m MessageResponse
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return &httpx.APIError{StatusCode: resp.StatusCode, Message: m.Message, Detail: m.Error}
	}

	return &httpx.APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}

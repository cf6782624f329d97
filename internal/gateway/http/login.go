package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/authsdk"
	"github.com/aussiebroadwan/credgate/pkg/httpx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

// LoginHandler serves POST /api/auth/login.
type LoginHandler struct {
	AuthService  *service.AuthService
	Metrics      *Metrics
	ExposeDetail bool
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Resolves the identifier (email or username) in the directory, checks the password and issues an HS256 access token.
//	@Tags			Auth
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest			true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse			"Token and user"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.MessageResponse			"Credenciales invalidas"
//	@Failure		403		{object}	authsdk.MessageResponse			"Usuario inactivo"
//	@Failure		500		{object}	authsdk.MessageResponse			"Directory or credential failure"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, verr := decodeLogin(w, r)
	if verr != nil {
		h.Metrics.observeAuth(flowLogin, outcomeBadRequest)
		verr.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(ctx, req.Identifier, req.Password)
	switch {
	case err == nil:
		h.Metrics.observeAuth(flowLogin, outcomeSuccess)
		httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
			Message: "Login exitoso",
			Token:   res.Token,
			User: authsdk.User{
				ID:       res.User.ID,
				Username: res.User.Username,
				Email:    res.User.Email,
				Role:     res.User.Role,
			},
		})

	case errors.Is(err, service.ErrInvalidCredentials):
		h.Metrics.observeAuth(flowLogin, outcomeInvalid)
		authsdk.ErrInvalidCredentials.WriteError(w)

	case errors.Is(err, service.ErrUserInactive):
		h.Metrics.observeAuth(flowLogin, outcomeInactive)
		authsdk.ErrUserInactive.WriteError(w)

	case errors.Is(err, service.ErrCredentialUnavailable):
		h.Metrics.observeAuth(flowLogin, outcomeNoHash)
		log.Error("directory returned user without password hash")
		authsdk.ErrCredentialCheck.WriteError(w)

	default:
		h.Metrics.observeAuth(flowLogin, outcomeError)
		log.Error("login failed", "err", err)
		authsdk.ErrLoginFailed.WithDetail(err, h.ExposeDetail).WriteError(w)
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/authsdk"
	"github.com/aussiebroadwan/credgate/pkg/httpx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

// ValidateTokenHandler serves GET /api/auth/validate-token.
type ValidateTokenHandler struct {
	AuthService  *service.AuthService
	Metrics      *Metrics
	ExposeDetail bool
}

// ServeHTTP godoc
//
//	@Summary		Validate a token
//	@Description	Reports whether the bearer token is valid, revoked or expired.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.ValidateResponse		"Token is valid"
//	@Failure		400	{object}	authsdk.ValidationErrorResponse	"Missing or malformed Authorization header"
//	@Failure		401	{object}	authsdk.MessageResponse			"Token invalidado, Token expirado or Token invalido"
//	@Failure		500	{object}	authsdk.MessageResponse			"Internal error"
//	@Router			/api/auth/validate-token [get].
func (h *ValidateTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, verr := bearerToken(r)
	if verr != nil {
		h.Metrics.observeAuth(flowValidate, outcomeBadRequest)
		verr.WriteError(w)
		return
	}

	id, err := h.AuthService.ValidateToken(ctx, token)
	switch {
	case err == nil:
		h.Metrics.observeAuth(flowValidate, outcomeSuccess)
		httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateResponse{
			Valid: true,
			User: authsdk.TokenUser{
				ID:       id.ID,
				Role:     id.Role,
				Username: id.Username,
			},
		})

	case errors.Is(err, service.ErrTokenBlocked):
		h.Metrics.observeAuth(flowValidate, outcomeRevoked)
		authsdk.ErrTokenRevoked.WriteError(w)

	case errors.Is(err, service.ErrTokenExpired):
		h.Metrics.observeAuth(flowValidate, outcomeExpired)
		authsdk.ErrTokenExpired.WriteError(w)

	case errors.Is(err, service.ErrTokenInvalid):
		h.Metrics.observeAuth(flowValidate, outcomeTokenBroken)
		authsdk.ErrTokenInvalid.WriteError(w)

	default:
		h.Metrics.observeAuth(flowValidate, outcomeError)
		slogx.FromContext(ctx).Error("token validation failed", "err", err)
		authsdk.ErrValidateFailed.WithDetail(err, h.ExposeDetail).WriteError(w)
	}
}

// LogoutHandler serves POST /api/auth/logout. The token is revoked without
// being verified first.
type LogoutHandler struct {
	AuthService  *service.AuthService
	Metrics      *Metrics
	ExposeDetail bool
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Adds the bearer token to the deny-list. The token is not verified first.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.MessageResponse			"Sesion cerrada exitosamente"
//	@Failure		400	{object}	authsdk.ValidationErrorResponse	"Missing or malformed Authorization header"
//	@Failure		500	{object}	authsdk.MessageResponse			"Internal error"
//	@Router			/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, verr := bearerToken(r)
	if verr != nil {
		h.Metrics.observeAuth(flowLogout, outcomeBadRequest)
		verr.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(ctx, token); err != nil {
		h.Metrics.observeAuth(flowLogout, outcomeError)
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		authsdk.ErrLogoutFailed.WithDetail(err, h.ExposeDetail).WriteError(w)
		return
	}

	h.Metrics.observeAuth(flowLogout, outcomeSuccess)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Sesion cerrada exitosamente"})
}

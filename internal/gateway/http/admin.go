package http

import (
	"net/http"

	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/authsdk"
	"github.com/aussiebroadwan/credgate/pkg/cryptox"
	"github.com/aussiebroadwan/credgate/pkg/httpx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminRevocationsHandler serves DELETE /api/auth/admin/revocations. It is
// only mounted when an admin token is configured.
type AdminRevocationsHandler struct {
	AuthService *service.AuthService
	Token       string
}

// ServeHTTP godoc
//
//	@Summary		Clear revoked tokens
//	@Description	Empties the in-memory deny-list. Only registered when ADMIN_TOKEN is configured.
//	@Tags			Admin
//	@Produce		json
//	@Param			X-Admin-Token	header		string								true	"Admin token"
//	@Success		200				{object}	authsdk.RevocationsClearedResponse	"Cleared"
//	@Failure		401				{object}	authsdk.MessageResponse				"No autorizado"
//	@Router			/api/auth/admin/revocations [delete].
func (h *AdminRevocationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	got := r.Header.Get(AdminTokenHeader)
	if got == "" || h.Token == "" || !cryptox.EqualSecrets(got, h.Token) {
		slogx.FromContext(ctx).Warn("admin request rejected")
		authsdk.ErrAdminUnauthorized.WriteError(w)
		return
	}

	n := h.AuthService.ClearRevocations(ctx)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RevocationsClearedResponse{
		Message: "Lista de tokens invalidados reiniciada",
		Cleared: n,
	})
}

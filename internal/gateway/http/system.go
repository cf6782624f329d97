package http

import (
	"net/http"

	"github.com/aussiebroadwan/credgate/pkg/authsdk"
	"github.com/aussiebroadwan/credgate/pkg/httpx"
)

// HealthHandler godoc
//
//	@Summary		Health check
//	@Description	Always 200 while the process is serving. The directory is not probed.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, service"
//	@Router			/health [get].
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "OK",
			Service: "Auth Service",
		})
	}
}

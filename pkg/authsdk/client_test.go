package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/credgate/pkg/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("predefined errors match by status and message", func(t *testing.T) {
		_, err := stub(t, http.StatusUnauthorized, `{"message":"Token expirado"}`).ValidateToken(ctx, "a.b.c")
		require.ErrorIs(t, err, ErrTokenExpired)
		require.NotErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("validation errors", func(t *testing.T) {
		_, err := stub(t, http.StatusBadRequest,
			`{"errors":[{"type":"field","msg":"El token es requerido","path":"authorization","location":"headers"}]}`,
		).ValidateToken(ctx, "")

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Errors, 1)
		require.Equal(t, "authorization", verr.Errors[0].Path)
	})

	t.Run("detail is kept", func(t *testing.T) {
		_, err := stub(t, http.StatusInternalServerError,
			`{"message":"Error al iniciar sesion","error":"directory: unavailable"}`,
		).Login(ctx, "alice", "pw")

		require.ErrorIs(t, err, ErrLoginFailed)
		var apiErr *httpx.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "directory: unavailable", apiErr.Detail)
	})

	t.Run("non json body falls back to status text", func(t *testing.T) {
		err := stub(t, http.StatusBadGateway, `<html>`).Logout(ctx, "a.b.c")

		var apiErr *httpx.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Equal(t, "Bad Gateway", apiErr.Message)
	})
}

func TestRequestsCarryBearer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer a.b.c", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"message":"Sesion cerrada exitosamente"}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Logout(context.Background(), "a.b.c"))
}

func TestClearRevocationsSendsAdminToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/auth/admin/revocations", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		if r.Header.Get("X-Admin-Token") != "root" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"No autorizado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok","cleared":4}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	out, err := c.ClearRevocations(context.Background(), "root")
	require.NoError(t, err)
	require.Equal(t, 4, out.Cleared)

	_, err = c.ClearRevocations(context.Background(), "guess")
	require.ErrorIs(t, err, ErrAdminUnauthorized)
}

package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/credgate/pkg/idx"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func identity() jwtx.Identity {
	return jwtx.Identity{ID: idx.NumericID("1"), Role: "admin", Username: "alice"}
}

func testConfig() Config {
	return Config{
		Port:                1,
		ClientsServiceURL:   "http://127.0.0.1:1/api/clients",
		JWTSecret:           "s3cret",
		JWTExpiresIn:        time.Hour,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		ShutdownGracePeriod: time.Second,
		DirectoryTimeout:    time.Second,
		CORSAllowedOrigins:  []string{"*"},
	}
}

func TestNewWiresRouter(t *testing.T) {
	app, err := New(testConfig())
	require.NoError(t, err)
	require.Nil(t, app.sweeper)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Admin route is absent without a token
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/auth/admin/revocations", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, app.stopBackground())
}

func TestNewLogoutThenValidate(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "admin"
	cfg.RevocationSweepInterval = time.Minute

	app, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, app.sweeper)

	token, err := app.codec.Issue(identity())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, app.revocations.Len())

	req = httptest.NewRequest(http.MethodDelete, "/api/auth/admin/revocations", nil)
	req.Header.Set("X-Admin-Token", "admin")
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, app.revocations.Len())

	app.sweeper.Start()
	require.NoError(t, app.stopBackground())
}

func TestNewRejectsEmptySecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""

	_, err := New(cfg)
	require.Error(t, err)
}

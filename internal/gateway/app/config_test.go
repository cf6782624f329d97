package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "CLIENTS_SERVICE_URL", "JWT_SECRET", "JWT_EXPIRES_IN", "NODE_ENV",
	"LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_GRACE_PERIOD", "DIRECTORY_TIMEOUT",
	"DIRECTORY_RETRY_MAX", "REVOCATION_SWEEP_INTERVAL", "CORS_ALLOWED_ORIGINS",
	"ADMIN_TOKEN", "KAFKA_BROKERS", "KAFKA_AUDIT_TOPIC", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// setEnv blanks every config variable and then applies env, so the host
// environment never leaks into a test.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func required() map[string]string {
	return map[string]string{
		"CLIENTS_SERVICE_URL": "http://clients:3001/api/clients",
		"JWT_SECRET":          "s3cret",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setEnv(t, required())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 3002, cfg.Port)
	require.Equal(t, time.Hour, cfg.JWTExpiresIn)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 5*time.Second, cfg.DirectoryTimeout)
	require.Zero(t, cfg.DirectoryRetryMax)
	require.Zero(t, cfg.RevocationSweepInterval)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Empty(t, cfg.AdminToken)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "auth.audit", cfg.KafkaAuditTopic)
	require.Empty(t, cfg.OTLPEndpoint)
}

func TestLoadConfigOverrides(t *testing.T) {
	env := required()
	env["PORT"] = "8081"
	env["NODE_ENV"] = "production"
	env["DIRECTORY_RETRY_MAX"] = "2"
	env["DIRECTORY_TIMEOUT"] = "750ms"
	env["REVOCATION_SWEEP_INTERVAL"] = "900"
	env["CORS_ALLOWED_ORIGINS"] = " https://a.example.com , https://b.example.com ,,"
	env["KAFKA_BROKERS"] = "kafka-1:9092,kafka-2:9092"
	setEnv(t, env)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, 2, cfg.DirectoryRetryMax)
	require.Equal(t, 750*time.Millisecond, cfg.DirectoryTimeout)
	require.Equal(t, 15*time.Minute, cfg.RevocationSweepInterval)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfigJWTExpiresIn(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "3600", want: time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "soon", wantErr: true},
		{in: "0", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			env := required()
			env["JWT_EXPIRES_IN"] = tc.in
			setEnv(t, env)

			cfg, err := LoadConfig()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, cfg.JWTExpiresIn)
		})
	}
}

func TestLoadConfigRequired(t *testing.T) {
	setEnv(t, nil)

	_, err := LoadConfig()
	require.Error(t, err)
	require.ErrorContains(t, err, "CLIENTS_SERVICE_URL is required")
	require.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestValidateRejectsBadDirectoryURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"clients:3001", "ftp://clients/api", "http://"} {
		cfg := Config{ClientsServiceURL: u, JWTSecret: "x", JWTExpiresIn: time.Hour, Port: 1, DirectoryTimeout: time.Second}
		require.ErrorContains(t, cfg.Validate(), "CLIENTS_SERVICE_URL", u)
	}
}

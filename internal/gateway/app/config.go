package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/credgate/internal/gateway/events"
	"github.com/aussiebroadwan/credgate/pkg/jwtx"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
	"github.com/joho/godotenv"
)

type Config struct {
	Port              int           // HTTP server port (default: 3002)
	ClientsServiceURL string        // Required: base URL of the clients directory
	JWTSecret         string        // Required: HS256 signing secret
	JWTExpiresIn      time.Duration // Access token TTL, "3600", "90m" or "7d" (default: 1h)

	Env       string // NODE_ENV; non-production values echo error detail (default: development)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DirectoryTimeout  time.Duration // Per-call directory timeout (default: 5s)
	DirectoryRetryMax int           // Retries after the first attempt; 0 fails fast (default: 0)

	RevocationSweepInterval time.Duration // Sweep of expired deny-list entries; 0 disables (default: 0)

	CORSAllowedOrigins []string // Allowed origins (default: *)
	AdminToken         string   // Optional: enables DELETE /api/auth/admin/revocations

	KafkaBrokers    []string // Optional: audit events are dropped when empty
	KafkaAuditTopic string   // Audit topic (default: auth.audit)

	OTLPEndpoint string // Optional: OTLP/HTTP trace collector
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                    getEnvIntOrDefault("PORT", 3002),
		ClientsServiceURL:       os.Getenv("CLIENTS_SERVICE_URL"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		JWTExpiresIn:            jwtx.DefaultTTL,
		Env:                     getEnvOrDefault("NODE_ENV", "development"),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:               getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:     getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		DirectoryTimeout:        getEnvDurationOrDefault("DIRECTORY_TIMEOUT", 5*time.Second),
		DirectoryRetryMax:       getEnvIntOrDefault("DIRECTORY_RETRY_MAX", 0),
		RevocationSweepInterval: getEnvDurationOrDefault("REVOCATION_SWEEP_INTERVAL", 0),
		CORSAllowedOrigins:      getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AdminToken:              os.Getenv("ADMIN_TOKEN"),
		KafkaBrokers:            getEnvListOrDefault("KAFKA_BROKERS", nil),
		KafkaAuditTopic:         getEnvOrDefault("KAFKA_AUDIT_TOPIC", events.DefaultTopic),
		OTLPEndpoint:            os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// Accepts plain seconds as well as Go and day durations
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		ttl, err := parseutil.ParseDurationSecond(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", v, err)
		}
		cfg.JWTExpiresIn = ttl
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or out of range setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.ClientsServiceURL == "" {
		errs = append(errs, errors.New("CLIENTS_SERVICE_URL is required"))
	} else if u, err := url.Parse(c.ClientsServiceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("CLIENTS_SERVICE_URL must be an http(s) URL, got %q", c.ClientsServiceURL))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.DirectoryTimeout <= 0 {
		errs = append(errs, errors.New("DIRECTORY_TIMEOUT must be positive"))
	}
	if c.DirectoryRetryMax < 0 {
		errs = append(errs, errors.New("DIRECTORY_RETRY_MAX must not be negative"))
	}
	if c.RevocationSweepInterval < 0 {
		errs = append(errs, errors.New("REVOCATION_SWEEP_INTERVAL must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	OIDC          OIDCConfig
	ReplayCache   ReplayCacheConfig
	ClientPolicy  ClientPolicyConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// OIDCConfig holds the engine's own configuration: the master secret every
// sub-secret is derived from, and the issuer URL advertised in the
// discovery document and every minted id_token.
type OIDCConfig struct {
	MasterSecret string
	Issuer       string
}

// ReplayCacheConfig selects and configures the auth_code replay cache. When
// DSN is empty the server falls back to an in-process MemoryStore, which
// does not survive a restart and does not share state across replicas.
type ReplayCacheConfig struct {
	DSN           string
	SweepInterval time.Duration
}

// ClientPolicyConfig holds the static deny-lists layered on top of the
// cryptographic client_id verification.
type ClientPolicyConfig struct {
	BannedBareIDs      []string
	BannedRedirectURIs []string
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	OTELEnabled    bool
	ServiceName    string
	ServiceVersion string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		OIDC: OIDCConfig{
			MasterSecret: getEnv("OIDC_MASTER_SECRET", ""),
			Issuer:       getEnv("OIDC_ISSUER", "http://localhost:8080"),
		},
		ReplayCache: ReplayCacheConfig{
			DSN:           getEnv("REPLAY_CACHE_DSN", ""),
			SweepInterval: parseDuration("REPLAY_CACHE_SWEEP_INTERVAL", "1m"),
		},
		ClientPolicy: ClientPolicyConfig{
			BannedBareIDs:      parseList("CLIENT_POLICY_BANNED_BARE_IDS"),
			BannedRedirectURIs: parseList("CLIENT_POLICY_BANNED_REDIRECT_URIS"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			OTELEnabled:    parseBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "opentrusty"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: float64(parseInt("RATELIMIT_RPS", 10)),
			Burst:             parseInt("RATELIMIT_BURST", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OIDC.MasterSecret == "" {
		return fmt.Errorf("OIDC_MASTER_SECRET is required")
	}
	if len(c.OIDC.MasterSecret) < 32 {
		return fmt.Errorf("OIDC_MASTER_SECRET must be at least 32 bytes")
	}
	if c.OIDC.Issuer == "" {
		return fmt.Errorf("OIDC_ISSUER is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		// Fallback to default
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
}

// parseList reads a comma-separated environment variable into a string
// slice, skipping empty entries. An unset variable yields a nil slice.
func parseList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			if entry := value[start:i]; entry != "" {
				out = append(out, entry)
			}
			start = i + 1
		}
	}
	return out
}

// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is public, so any
// deployment that keeps it can have its tokens forged.
const DefaultJWTSecret = "hecovacka-super-secret-jwt-key-for-production-32-chars"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port        int
	Env         string
	LogLevel    string
	JWTSecret   string
	JWTTTL      time.Duration
	DBPath      string
	DatabaseURL string
	SeedDemo    bool

	// MongoDBURI selects the MongoDB store when no SQL backend is configured.
	MongoDBURI string

	FrontendURL    string
	AllowedOrigins []string

	RateLimit     RateLimitConfig
	AuthRateLimit RateLimitConfig
	WebSocket     WebSocketConfig
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// WebSocketConfig bounds inbound traffic on each realtime connection.
type WebSocketConfig struct {
	MaxMessageSize int64
	RateRPS        float64
	RateBurst      int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port:           3000,
		Env:            EnvDevelopment,
		LogLevel:       "info",
		JWTSecret:      DefaultJWTSecret,
		JWTTTL:         7 * 24 * time.Hour,
		SeedDemo:       true,
		AllowedOrigins: []string{"*"},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 100,
		},
		AuthRateLimit: RateLimitConfig{
			RPS:   1,
			Burst: 20,
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 4096,
			RateRPS:        10,
			RateBurst:      20,
		},
	}
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function, falling back to
// Default for unset or unparsable values.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	cfg.Port = parseInt(getenv("PORT"), cfg.Port)

	if env := firstNonEmpty(getenv("APP_ENV"), getenv("NODE_ENV")); env != "" {
		cfg.Env = strings.ToLower(env)
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if secret := getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	cfg.JWTTTL = parseDuration(getenv("JWT_TTL"), cfg.JWTTTL)

	cfg.DBPath = getenv("DB_PATH")
	cfg.DatabaseURL = getenv("DATABASE_URL")
	cfg.MongoDBURI = strings.TrimSpace(getenv("MONGODB_URI"))
	cfg.SeedDemo = parseBool(getenv("SEED_DEMO_DATA"), cfg.SeedDemo)

	cfg.FrontendURL = strings.TrimSpace(getenv("FRONTEND_URL"))
	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseList(origins)
	}
	if cfg.FrontendURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, cfg.FrontendURL)
	}

	cfg.RateLimit.RPS = parseFloat(getenv("RATE_LIMIT_RPS"), cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = parseInt(getenv("RATE_LIMIT_BURST"), cfg.RateLimit.Burst)
	cfg.AuthRateLimit.RPS = parseFloat(getenv("AUTH_RATE_LIMIT_RPS"), cfg.AuthRateLimit.RPS)
	cfg.AuthRateLimit.Burst = parseInt(getenv("AUTH_RATE_LIMIT_BURST"), cfg.AuthRateLimit.Burst)

	cfg.WebSocket.MaxMessageSize = int64(parseInt(getenv("WS_MAX_MESSAGE_SIZE"), int(cfg.WebSocket.MaxMessageSize)))
	cfg.WebSocket.RateRPS = parseFloat(getenv("WS_RATE_RPS"), cfg.WebSocket.RateRPS)
	cfg.WebSocket.RateBurst = parseInt(getenv("WS_RATE_BURST"), cfg.WebSocket.RateBurst)

	return cfg
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Storage backends, in order of precedence.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongodb"
	BackendMemory   = "memory"
)

// StorageBackend reports which store the server opens: DATABASE_URL, then
// DB_PATH, then MONGODB_URI, and the ephemeral in-memory store when none is set.
func (c Config) StorageBackend() string {
	switch {
	case c.DatabaseURL != "":
		return BackendPostgres
	case c.DBPath != "":
		return BackendSQLite
	case c.MongoDBURI != "":
		return BackendMongo
	default:
		return BackendMemory
	}
}

// MongoURIShadowed reports whether MONGODB_URI is set but a SQL backend wins.
func (c Config) MongoURIShadowed() bool {
	return c.MongoDBURI != "" && c.StorageBackend() != BackendMongo
}

// UsesDefaultSecret reports whether JWT_SECRET was left at the built-in value.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}

func parseFloat(value string, fallback float64) float64 {
	if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}

func parseBool(value string, fallback bool) bool {
	if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return parsed
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}

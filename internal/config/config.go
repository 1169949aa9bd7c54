// Package config loads the idea board's settings from environment variables.
//
// Load reads every variable, applies defaults and normalization, then
// validates the whole result and reports all problems in one error.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver        string // sqlite|redis|memory
	DBPath        string // SQLite file path or file: URI
	RedisAddr     string // host:port
	RedisPassword string
	RedisDB       int
	RedisPrefix   string // key namespace, e.g. "ideaboard:"
}

// Config is the full application configuration.
type Config struct {
	// HTTP server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	Store StoreConfig

	// Board behavior
	VoteMode        string // toggle|oneshot
	Scorer          string // random
	SeedOnEmpty     bool   // seed sample ideas on first run
	LeaderboardSize int
	ThemeDefault    string // light|dark, used until a preference is saved

	RateRPS   float64 // tokens per second per client and access kind
	RateBurst int

	IdempotencyTTL time.Duration // how long a submit's Idempotency-Key replays

	CORS     CORSConfig
	Security SecurityConfig
	OTEL     OTELConfig
}

// Load reads the configuration from the environment and validates it.
// The returned Config is populated even when err is non-nil.
func Load() (Config, error) {
	cfg := Config{
		Port:              envString("PORT", "8080"),
		ReadTimeout:       envDuration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: envDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      envDuration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       envDuration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    envInt("MAX_HEADER_BYTES", 1<<20),
		GinMode:           envLower("GIN_MODE", "release"),

		LogLevel:       envLower("LOG_LEVEL", "info"),
		LogPretty:      envBool("LOG_PRETTY", false),
		SwaggerEnabled: envBool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(envString("API_BASE_PATH", "/api/v1")),

		Store: StoreConfig{
			Driver:        envLower("STORE_DRIVER", "sqlite"),
			DBPath:        envString("DB_PATH", "ideas.db"),
			RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
			RedisPassword: envString("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
			RedisPrefix:   envString("REDIS_PREFIX", "ideaboard:"),
		},

		VoteMode:        envLower("VOTE_MODE", "toggle"),
		Scorer:          envLower("SCORER", "random"),
		SeedOnEmpty:     envBool("SEED_ON_EMPTY", true),
		LeaderboardSize: envInt("LEADERBOARD_SIZE", 5),
		ThemeDefault:    envLower("THEME_DEFAULT", "light"),

		RateRPS:   envFloat("RATE_RPS", 5.0),
		RateBurst: envInt("RATE_BURST", 10),

		IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		CORS: CORSConfig{AllowedOrigins: envList("CORS_ALLOWED_ORIGINS")},
		Security: SecurityConfig{
			EnableHSTS: envBool("ENABLE_HSTS", false),
			HSTSMaxAge: envDuration("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		OTEL: OTELConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			Endpoint:    envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: envString("OTEL_SERVICE_NAME", "idea-board"),
			SampleRatio: envFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

// normalize maps accepted aliases onto canonical values.
func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if !oneOf(c.GinMode, "debug", "release", "test") {
		c.GinMode = "release"
	}
	if c.VoteMode == "one-shot" {
		c.VoteMode = "oneshot"
	}
}

// Validate reports every invalid setting, joined into one error.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(oneOf(c.LogLevel, "debug", "info", "warn", "error", "fatal", "panic"),
		"LOG_LEVEL must be one of debug, info, warn, error, fatal, panic (got %q)", c.LogLevel)
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch c.Store.Driver {
	case "sqlite":
		check(strings.TrimSpace(c.Store.DBPath) != "", "DB_PATH must not be empty")
	case "redis":
		check(strings.TrimSpace(c.Store.RedisAddr) != "", "REDIS_ADDR must not be empty")
		check(c.Store.RedisDB >= 0, "REDIS_DB must be >= 0")
	case "memory":
	default:
		check(false, "STORE_DRIVER must be one of sqlite, redis, memory (got %q)", c.Store.Driver)
	}

	check(oneOf(c.VoteMode, "toggle", "oneshot"), "VOTE_MODE must be toggle or oneshot (got %q)", c.VoteMode)
	check(oneOf(c.Scorer, "", "random"), "SCORER must be random (got %q)", c.Scorer)
	check(c.LeaderboardSize >= 1, "LEADERBOARD_SIZE must be >= 1")
	check(oneOf(c.ThemeDefault, "light", "dark"), "THEME_DEFAULT must be light or dark (got %q)", c.ThemeDefault)
	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// normalizeBasePath ensures a leading '/' and strips trailing ones except
// for the root.
func normalizeBasePath(p string) string {
	return "/" + strings.Trim(strings.TrimSpace(p), "/")
}

// Package config provides application configuration loaded from environment
// variables (and an optional config file) with defaults and validation. It
// centralizes settings such as server timeouts, logging, the database
// connection, calendar bounds, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
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

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "headache-tracker")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DBDriver    string // sqlite|postgres
	DBPath      string // SQLite file
	DatabaseURL string // Postgres DSN

	// Diary
	MinYear       int // earliest year accepted by month queries
	MaxYearsAhead int // latest accepted year is now.Year()+MaxYearsAhead
	SearchLimit   int // default number of note search hits

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables and, when CONFIG_FILE
// names one, a config file. Environment variables win over file values.
// Unparseable values fall back to their defaults; the normalized result is
// then validated.
func Load() (Config, error) {
	src, err := newSource()
	if err != nil {
		return Config{}, err
	}
	cfg := src.config()
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (s source) config() Config {
	return Config{
		Port:              s.str("PORT", "8080"),
		ReadTimeout:       s.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: s.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      s.dur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       s.dur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    s.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           s.str("GIN_MODE", "release"),

		LogLevel:       s.str("LOG_LEVEL", "info"),
		LogPretty:      s.flag("LOG_PRETTY", false),
		SwaggerEnabled: s.flag("SWAGGER_ENABLED", false),
		APIBasePath:    s.str("API_BASE_PATH", "/api"),

		DBDriver:    s.str("DB_DRIVER", DriverSQLite),
		DBPath:      s.str("DB_PATH", "headache.db"),
		DatabaseURL: s.str("DATABASE_URL", ""),

		MinYear:       s.integer("MIN_YEAR", 1900),
		MaxYearsAhead: s.integer("MAX_YEARS_AHEAD", 5),
		SearchLimit:   s.integer("SEARCH_LIMIT", 10),

		RateRPS:   s.float("RATE_RPS", 5.0),
		RateBurst: s.integer("RATE_BURST", 10),

		CORS: CORSConfig{AllowedOrigins: splitCSV(s.str("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: s.flag("ENABLE_HSTS", false),
			HSTSMaxAge: s.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: s.dur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     s.flag("OTEL_ENABLED", false),
			Endpoint:    s.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    s.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: s.str("OTEL_SERVICE_NAME", "headache-tracker"),
			SampleRatio: s.float("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
}

// normalize lower-cases enum-like fields, maps aliases and replaces an
// unknown GIN_MODE with release.
func (c *Config) normalize() {
	c.GinMode = strings.ToLower(c.GinMode)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.APIBasePath = normalizeBasePath(c.APIBasePath)

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		c.GinMode = "release"
	}
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.DBDriver == "sqlite3" {
		c.DBDriver = DriverSQLite
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch c.DBDriver {
	case DriverSQLite:
		check(strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty")
	case DriverPostgres:
		check(strings.TrimSpace(c.DatabaseURL) != "", "DATABASE_URL is required when DB_DRIVER=postgres")
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of: %s, %s (got %q)", DriverSQLite, DriverPostgres, c.DBDriver))
	}

	check(c.MinYear >= 1, "MIN_YEAR must be >= 1")
	check(c.MaxYearsAhead >= 1, "MAX_YEARS_AHEAD must be >= 1")
	check(c.SearchLimit >= 1, "SEARCH_LIMIT must be >= 1")
	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

// MaxYear returns the latest year month queries accept at time now.
func (c Config) MaxYear(now time.Time) int {
	return now.Year() + c.MaxYearsAhead
}

// source reads keys through viper so a config file and the environment
// share one lookup. Malformed values read as unset.
type source struct{ v *viper.Viper }

// newSource loads the file named by CONFIG_FILE (yaml, json, toml or .env)
// when set.
func newSource() (source, error) {
	v := viper.New()
	v.AutomaticEnv()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return source{}, fmt.Errorf("read config file %q: %w", path, err)
		}
	}
	return source{v: v}, nil
}

func (s source) raw(k string) (string, bool) {
	r := strings.TrimSpace(s.v.GetString(k))
	return r, r != ""
}

func (s source) str(k, def string) string {
	if r := s.v.GetString(k); r != "" {
		return r
	}
	return def
}

func (s source) float(k string, def float64) float64 {
	if r, ok := s.raw(k); ok {
		if f, err := strconv.ParseFloat(r, 64); err == nil {
			return f
		}
	}
	return def
}

func (s source) integer(k string, def int) int {
	if r, ok := s.raw(k); ok {
		if i, err := strconv.Atoi(r); err == nil {
			return i
		}
	}
	return def
}

func (s source) flag(k string, def bool) bool {
	r, _ := s.raw(k)
	switch strings.ToLower(r) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func (s source) dur(k string, def time.Duration) time.Duration {
	if r, ok := s.raw(k); ok {
		if d, err := time.ParseDuration(r); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with exactly one leading slash and no trailing
// one; blank means "/".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v2/") // no leading slash + trailing slash -> "/api/v2"

	// Storage
	t.Setenv("DB_DRIVER", "SQLite3")
	t.Setenv("DB_PATH", "diary.sqlite")

	// Diary
	t.Setenv("MIN_YEAR", "1990")
	t.Setenv("MAX_YEARS_AHEAD", "2")
	t.Setenv("SEARCH_LIMIT", "25")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// Storage
	if cfg.DBDriver != DriverSQLite || cfg.DBPath != "diary.sqlite" {
		t.Fatalf("storage fields unexpected: %+v", cfg)
	}

	// Diary
	if cfg.MinYear != 1990 || cfg.MaxYearsAhead != 2 || cfg.SearchLimit != 25 {
		t.Fatalf("diary fields unexpected: %+v", cfg)
	}
	if got := cfg.MaxYear(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)); got != 2027 {
		t.Fatalf("MaxYear = %d; want 2027", got)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api" {
		t.Fatalf("API_BASE_PATH default expected '/api', got %q", cfg.APIBasePath)
	}
	if cfg.DBDriver != DriverSQLite || cfg.DBPath != "headache.db" || cfg.DatabaseURL != "" {
		t.Fatalf("storage defaults unexpected: %+v", cfg)
	}
	if cfg.MinYear != 1900 || cfg.MaxYearsAhead != 5 || cfg.SearchLimit != 10 {
		t.Fatalf("diary defaults unexpected: %+v", cfg)
	}
	if cfg.OTEL.ServiceName != "headache-tracker" {
		t.Fatalf("service name default unexpected: %q", cfg.OTEL.ServiceName)
	}
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/headache?sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBDriver != DriverPostgres || !strings.HasPrefix(cfg.DatabaseURL, "postgres://") {
		t.Fatalf("postgres config unexpected: %+v", cfg)
	}
}

func TestLoad_ConfigFile_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headache.yaml")
	body := "port: 9090\nlog_level: debug\nsearch_limit: 3\ndb_path: from-file.db\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "9090" || cfg.SearchLimit != 3 || cfg.DBPath != "from-file.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env should override file, got LOG_LEVEL=%q", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile_Missing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil || !containsErr(err, "read config file") {
		t.Fatalf("expected config file error, got: %v", err)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"empty DB_PATH", map[string]string{"DB_PATH": "   "}, "DB_PATH must not be empty"},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"min year", map[string]string{"MIN_YEAR": "0"}, "MIN_YEAR"},
		{"max years ahead", map[string]string{"MAX_YEARS_AHEAD": "0"}, "MAX_YEARS_AHEAD"},
		{"search limit", map[string]string{"SEARCH_LIMIT": "-2"}, "SEARCH_LIMIT"},
		{"rate rps negative", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst < 1", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idempotency ttl non-positive", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- source ---

func envSource(t *testing.T) source {
	t.Helper()
	v := viper.New()
	v.AutomaticEnv()
	return source{v: v}
}

func TestSource_Str(t *testing.T) {
	s := envSource(t)
	t.Setenv("X_EMPTY", "")
	t.Setenv("X_SET", " val ")
	if got := s.str("X_EMPTY", "d"); got != "d" {
		t.Fatalf("empty var: got %q; want default", got)
	}
	if got := s.str("X_SET", "d"); got != " val " {
		t.Fatalf("set var: got %q; want it unchanged", got)
	}
}

func TestSource_Numbers(t *testing.T) {
	s := envSource(t)
	for k, v := range map[string]string{
		"F_OK": " 3.14 ", "F_BAD": "nope",
		"I_OK": "42", "I_BAD": "4.2",
		"D_OK": "150ms", "D_BAD": "zzz",
	} {
		t.Setenv(k, v)
	}

	if got := s.float("F_OK", 0); got != 3.14 {
		t.Fatalf("float = %v", got)
	}
	if got := s.float("F_BAD", 1.23); got != 1.23 {
		t.Fatalf("float fallback = %v", got)
	}
	if got := s.integer("I_OK", 0); got != 42 {
		t.Fatalf("integer = %v", got)
	}
	if got := s.integer("I_BAD", 7); got != 7 {
		t.Fatalf("integer fallback = %v", got)
	}
	if got := s.dur("D_OK", time.Second); got != 150*time.Millisecond {
		t.Fatalf("dur = %v", got)
	}
	if got := s.dur("D_BAD", 2*time.Second); got != 2*time.Second {
		t.Fatalf("dur fallback = %v", got)
	}
}

func TestSource_Flag(t *testing.T) {
	s := envSource(t)
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"1", false, true}, {"TRUE", false, true}, {" yes ", false, true}, {"Y", false, true}, {"On", false, true},
		{"0", true, false}, {"False", true, false}, {" no ", true, false}, {"n", true, false}, {"OFF", true, false},
		{"", true, true}, {"", false, false}, {"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv("B", tc.in)
		if got := s.flag("B", tc.def); got != tc.want {
			t.Fatalf("flag(%q, def=%v) = %v; want %v", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.SearchLimit = 0
	cfg.RateBurst = 0
	cfg.DBDriver = "mysql"

	err = cfg.Validate()
	for _, want := range []string{"SEARCH_LIMIT", "RATE_BURST", `(got "mysql")`} {
		if !containsErr(err, want) {
			t.Fatalf("missing %s in: %v", want, err)
		}
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	want := []string{"a", "b", "c"}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	cases := map[string]string{"": "/", "v1": "/v1", "/v1/": "/v1", " / ": "/"}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "CONFIG_FILE", "DB_DRIVER", "DATABASE_URL", "LOG_LEVEL"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	if cfg := MustLoad(); cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

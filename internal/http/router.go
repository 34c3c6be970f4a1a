// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Health data is never cached by intermediaries
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/config"
	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/http/handlers"
	"github.com/tbourn/headache-tracker/internal/http/middleware"
	"github.com/tbourn/headache-tracker/internal/repo"
	"github.com/tbourn/headache-tracker/internal/services"
)

// diaryRepoShim adapts the repository free functions to the
// services.DiaryRepo interface expected by the DiaryService.
type diaryRepoShim struct{}

func (diaryRepoShim) ListDiaryEntries(ctx context.Context, db *gorm.DB) ([]domain.DiaryEntry, error) {
	return repo.ListDiaryEntries(ctx, db)
}

func (diaryRepoShim) ListDiaryEntriesBetween(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DiaryEntry, error) {
	return repo.ListDiaryEntriesBetween(ctx, db, from, to)
}

func (diaryRepoShim) GetDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	return repo.GetDiaryEntry(ctx, db, date)
}

func (diaryRepoShim) LatestDiaryEntry(ctx context.Context, db *gorm.DB) (*domain.DiaryEntry, error) {
	return repo.LatestDiaryEntry(ctx, db)
}

func (diaryRepoShim) CreateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	return repo.CreateDiaryEntry(ctx, db, e)
}

func (diaryRepoShim) UpdateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	return repo.UpdateDiaryEntry(ctx, db, e)
}

func (diaryRepoShim) DeleteDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	return repo.DeleteDiaryEntry(ctx, db, date)
}

// medicationRepoShim adapts the repository free functions to
// services.MedicationRepo.
type medicationRepoShim struct{}

func (medicationRepoShim) ListMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	return repo.ListMedications(ctx, db)
}

func (medicationRepoShim) ListActiveMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	return repo.ListActiveMedications(ctx, db)
}

func (medicationRepoShim) GetMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	return repo.GetMedication(ctx, db, name)
}

func (medicationRepoShim) CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	return repo.CreateMedication(ctx, db, m)
}

func (medicationRepoShim) UpdateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	return repo.UpdateMedication(ctx, db, m)
}

func (medicationRepoShim) DeleteMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	return repo.DeleteMedication(ctx, db, name)
}

// idempotencyStore persists idempotent create outcomes through the repo
// helpers, keeping each record for ttl.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// Lookup returns nil (and no error) when nothing live is recorded.
func (s idempotencyStore) Lookup(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s idempotencyStore) Record(ctx context.Context, scope, key, resourceKey string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, scope, key, resourceKey, status, s.ttl)
	return err
}

// exists adapts Lookup to the middleware's replay probe.
func (s idempotencyStore) exists(ctx context.Context, scope, key string, now time.Time) (bool, error) {
	rec, err := s.Lookup(ctx, scope, key, now)
	if err != nil || rec == nil {
		return false, err
	}
	return true, nil
}

// Services bundles the application services built on one database handle.
type Services struct {
	Diary       *services.DiaryService
	Medications *services.MedicationService
}

// NewServices builds the diary and medication services on db, applying the
// calendar and search settings from cfg. Zero-valued settings keep the
// service defaults.
func NewServices(db *gorm.DB, cfg config.Config) Services {
	diary := services.NewDiaryService(db, diaryRepoShim{})
	if cfg.MinYear > 0 {
		diary.MinYear = cfg.MinYear
	}
	if cfg.MaxYearsAhead > 0 {
		diary.MaxYearsAhead = cfg.MaxYearsAhead
	}
	if cfg.SearchLimit > 0 {
		diary.SearchLimit = cfg.SearchLimit
	}
	return Services{
		Diary:       diary,
		Medications: services.NewMedicationService(db, medicationRepoShim{}),
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health, metrics and docs endpoints,
// and then mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per client IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Search terms come from health
	// notes, so the q parameter is masked.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders:     []string{"X-API-Key"},
		MaskQueryParams: []string{"q"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	idem := idempotencyStore{db: db, ttl: cfg.IdempotencyTTL}
	if idem.ttl <= 0 {
		idem.ttl = 24 * time.Hour
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{Lookup: idem.exists}))

	// 8) Token buckets per client IP. Reads get four times the write budget.
	rl := middleware.NewRateLimiter(middleware.RateLimitOptions{
		RPS:            cfg.RateRPS,
		Burst:          cfg.RateBurst,
		ReadMultiplier: 4,
		SkipPaths:      []string{"/health", "/metrics"},
	})
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{middleware.HeaderRequestID, "Content-Length", "ETag", handlers.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS).
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:        cfg.Security.HSTSMaxAge,
		Cache:             middleware.CacheRevalidate,
		EnablePolicy:      true,
		CSPExemptPrefixes: []string{"/swagger/"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	svcs := NewServices(db, cfg)
	h := handlers.New(svcs.Diary, svcs.Medications, idem)
	h.DB = db

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Diary. Static segments are registered before :date.
		api.GET("/diary", h.ListDiaryEntries)
		api.POST("/diary", h.CreateDiaryEntry)
		api.PUT("/diary", h.UpdateDiaryEntry)
		api.POST("/diary/upsert", h.UpsertDiaryEntry)
		api.GET("/diary/latest", h.LatestDiaryEntry)
		api.GET("/diary/range", h.ListDiaryRange)
		api.GET("/diary/search", h.SearchDiaryNotes)
		api.GET("/diary/month/:year/:month", h.ListDiaryMonth)
		api.GET("/diary/stats/month/:year/:month", h.DiaryMonthStats)
		api.GET("/diary/:date", h.GetDiaryEntry)
		api.DELETE("/diary/:date", h.DeleteDiaryEntry)

		// Medications
		api.GET("/medications", h.ListMedications)
		api.POST("/medications", h.CreateMedication)
		api.PUT("/medications", h.UpdateMedication)
		api.POST("/medications/upsert", h.UpsertMedication)
		api.GET("/medications/active", h.ListActiveMedications)
		api.GET("/medications/side-effects", h.ListMedicationsWithSideEffects)
		api.GET("/medications/:name", h.GetMedication)
		api.DELETE("/medications/:name", h.DeleteMedication)
		api.POST("/medications/:name/deactivate", h.DeactivateMedication)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

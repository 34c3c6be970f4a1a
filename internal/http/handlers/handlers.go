// Package handlers – service contracts and shared helpers.
//
// Handlers are transport-thin: they bind and coerce input, call application
// services, and translate results into HTTP responses (including conditional
// GETs and idempotent replays).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/http/middleware"
	"github.com/tbourn/headache-tracker/internal/repo"
)

//
// Service contracts (context-aware)
//

// DiaryService defines the diary operations consumed by HTTP handlers.
type DiaryService interface {
	List(ctx context.Context) ([]domain.DiaryEntry, error)
	Get(ctx context.Context, date string) (*domain.DiaryEntry, bool, error)
	Latest(ctx context.Context) (*domain.DiaryEntry, bool, error)
	Create(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, error)
	Update(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, error)
	Upsert(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, bool, error)
	Delete(ctx context.Context, date string) (*domain.DiaryEntry, error)
	ListByMonth(ctx context.Context, year, month int) ([]domain.DiaryEntry, error)
	ListByRange(ctx context.Context, start, end string) ([]domain.DiaryEntry, error)
	MonthStats(ctx context.Context, year, month int) (domain.MonthStats, error)
	SearchNotes(ctx context.Context, q string, k int) ([]domain.NoteMatch, error)
}

// MedicationService defines the medication operations consumed by HTTP
// handlers.
type MedicationService interface {
	List(ctx context.Context) ([]domain.Medication, error)
	ListActive(ctx context.Context) ([]domain.Medication, error)
	ListWithSideEffects(ctx context.Context) ([]domain.Medication, error)
	Get(ctx context.Context, name string) (*domain.Medication, bool, error)
	Create(ctx context.Context, in domain.Medication) (*domain.Medication, error)
	Update(ctx context.Context, in domain.Medication) (*domain.Medication, error)
	Upsert(ctx context.Context, in domain.Medication) (*domain.Medication, bool, error)
	Delete(ctx context.Context, name string) (*domain.Medication, error)
	Deactivate(ctx context.Context, name string) (*domain.Medication, error)
}

// IdempotencyStore records the outcome of idempotent creates so that a
// retried request can be answered with the original resource.
type IdempotencyStore interface {
	// Lookup returns the live record for (scope, key), or nil when none exists.
	Lookup(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error)
	// Record stores resourceKey and status for (scope, key).
	Record(ctx context.Context, scope, key, resourceKey string, status int) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the diary and medications.
type Handlers struct {
	diarySvc DiaryService
	medSvc   MedicationService
	idem     IdempotencyStore

	// DB, when set, enables weak ETags on list endpoints.
	DB *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given services.
// idem may be nil, in which case Idempotency-Key headers are ignored.
func New(diarySvc DiaryService, medSvc MedicationService, idem IdempotencyStore) *Handlers {
	return &Handlers{diarySvc: diarySvc, medSvc: medSvc, idem: idem}
}

// HeaderIdempotencyReplayed marks a response served from a recorded result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// checkETag sets a weak ETag derived from (count, max updated_at) and reports
// whether the client's If-None-Match already matches, in which case a 304 has
// been written. Any stats failure silently disables the ETag.
func (h *Handlers) checkETag(c *gin.Context, name string, stats func(context.Context, *gorm.DB) (int64, *time.Time, error)) bool {
	if h.DB == nil {
		return false
	}
	count, maxTS, err := stats(c.Request.Context(), h.DB)
	if err != nil {
		return false
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d"`, name, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// idempotentReplay looks up a recorded result for the request's
// Idempotency-Key and, when the recorded resource still exists, returns it
// with the original status. fetch loads the resource by its key.
func (h *Handlers) idempotentReplay(c *gin.Context, fetch func(ctx context.Context, key string) (any, bool, error)) bool {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || h.idem == nil {
		return false
	}
	ctx := c.Request.Context()
	rec, err := h.idem.Lookup(ctx, middleware.IdempotencyScope(c), key, time.Now().UTC())
	if err != nil || rec == nil {
		return false
	}
	res, found, err := fetch(ctx, rec.ResourceKey)
	if err != nil || !found {
		return false
	}
	c.Header(HeaderIdempotencyReplayed, "true")
	ok(c, rec.Status, res)
	return true
}

// rememberIdempotent records a successful create against the request's
// Idempotency-Key. Failures are logged and never change the response.
func (h *Handlers) rememberIdempotent(c *gin.Context, resourceKey string, status int) {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || h.idem == nil {
		return
	}
	err := h.idem.Record(c.Request.Context(), middleware.IdempotencyScope(c), key, resourceKey, status)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Msg("idempotency record failed")
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/http/middleware"
	"github.com/tbourn/headache-tracker/internal/repo"
	"github.com/tbourn/headache-tracker/internal/services"
)

// ---------- test DB + repo shims ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testDiaryRepo struct{}

func (testDiaryRepo) ListDiaryEntries(ctx context.Context, db *gorm.DB) ([]domain.DiaryEntry, error) {
	return repo.ListDiaryEntries(ctx, db)
}
func (testDiaryRepo) ListDiaryEntriesBetween(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DiaryEntry, error) {
	return repo.ListDiaryEntriesBetween(ctx, db, from, to)
}
func (testDiaryRepo) GetDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	return repo.GetDiaryEntry(ctx, db, date)
}
func (testDiaryRepo) LatestDiaryEntry(ctx context.Context, db *gorm.DB) (*domain.DiaryEntry, error) {
	return repo.LatestDiaryEntry(ctx, db)
}
func (testDiaryRepo) CreateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	return repo.CreateDiaryEntry(ctx, db, e)
}
func (testDiaryRepo) UpdateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	return repo.UpdateDiaryEntry(ctx, db, e)
}
func (testDiaryRepo) DeleteDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	return repo.DeleteDiaryEntry(ctx, db, date)
}

type testMedRepo struct{}

func (testMedRepo) ListMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	return repo.ListMedications(ctx, db)
}
func (testMedRepo) ListActiveMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	return repo.ListActiveMedications(ctx, db)
}
func (testMedRepo) GetMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	return repo.GetMedication(ctx, db, name)
}
func (testMedRepo) CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	return repo.CreateMedication(ctx, db, m)
}
func (testMedRepo) UpdateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	return repo.UpdateMedication(ctx, db, m)
}
func (testMedRepo) DeleteMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	return repo.DeleteMedication(ctx, db, name)
}

type testIdemStore struct{ db *gorm.DB }

func (s testIdemStore) Lookup(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, scope, key, now)
	if err != nil {
		return nil, nil
	}
	return rec, nil
}

func (s testIdemStore) Record(ctx context.Context, scope, key, resourceKey string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, scope, key, resourceKey, status, time.Hour)
	return err
}

// ---------- router ----------

type testEnv struct {
	r  *gin.Engine
	db *gorm.DB
}

func clockAt(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)

	diary := services.NewDiaryService(db, testDiaryRepo{})
	diary.Now = clockAt(2025, 7, 20)
	meds := services.NewMedicationService(db, testMedRepo{})
	meds.Now = clockAt(2025, 7, 15)

	h := New(diary, meds, testIdemStore{db: db})
	h.DB = db

	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}))

	r.GET("/diary", h.ListDiaryEntries)
	r.GET("/diary/latest", h.LatestDiaryEntry)
	r.GET("/diary/range", h.ListDiaryRange)
	r.GET("/diary/search", h.SearchDiaryNotes)
	r.GET("/diary/month/:year/:month", h.ListDiaryMonth)
	r.GET("/diary/stats/month/:year/:month", h.DiaryMonthStats)
	r.GET("/diary/:date", h.GetDiaryEntry)
	r.POST("/diary", h.CreateDiaryEntry)
	r.PUT("/diary", h.UpdateDiaryEntry)
	r.POST("/diary/upsert", h.UpsertDiaryEntry)
	r.DELETE("/diary/:date", h.DeleteDiaryEntry)

	r.GET("/medications", h.ListMedications)
	r.GET("/medications/active", h.ListActiveMedications)
	r.GET("/medications/side-effects", h.ListMedicationsWithSideEffects)
	r.GET("/medications/:name", h.GetMedication)
	r.POST("/medications", h.CreateMedication)
	r.PUT("/medications", h.UpdateMedication)
	r.POST("/medications/upsert", h.UpsertMedication)
	r.DELETE("/medications/:name", h.DeleteMedication)
	r.POST("/medications/:name/deactivate", h.DeactivateMedication)

	return &testEnv{r: r, db: db}
}

// do sends a request; body may be nil, a string (sent raw) or any JSON value.
// headers are alternating name/value pairs.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d; want %d; body=%s", w.Code, want, w.Body.String())
	}
}

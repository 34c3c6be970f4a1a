// Package services – DiaryService
//
// This file implements the DiaryService, which owns headache diary entries
// keyed by calendar date. It validates input, enforces one entry per date,
// strips blank notes, and answers month, range and statistics queries.
//
// Service-level errors (ErrDiaryEntryExists, ErrDiaryEntryNotFound,
// ErrNoEntriesForMonth, *ValidationError) are returned for predictable cases
// so handlers can map them to HTTP results consistently. Read paths report
// absence through a found flag rather than an error.
//
// Observability: public methods open OpenTelemetry spans under the
// "services/DiaryService" tracer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/repo"
	"github.com/tbourn/headache-tracker/internal/search"
	"github.com/tbourn/headache-tracker/internal/stats"
	"github.com/tbourn/headache-tracker/internal/validation"
)

// DiaryRepo defines the repository contract required by DiaryService.
type DiaryRepo interface {
	// ListDiaryEntries returns every entry.
	ListDiaryEntries(ctx context.Context, db *gorm.DB) ([]domain.DiaryEntry, error)

	// ListDiaryEntriesBetween returns entries with from <= date <= to.
	ListDiaryEntriesBetween(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DiaryEntry, error)

	// GetDiaryEntry fetches one entry or returns repo.ErrNotFound.
	GetDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error)

	// LatestDiaryEntry returns the entry with the greatest date or repo.ErrNotFound.
	LatestDiaryEntry(ctx context.Context, db *gorm.DB) (*domain.DiaryEntry, error)

	// CreateDiaryEntry inserts an entry or returns repo.ErrDuplicate.
	CreateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error

	// UpdateDiaryEntry replaces an entry or returns repo.ErrNotFound.
	UpdateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error

	// DeleteDiaryEntry removes and returns an entry or returns repo.ErrNotFound.
	DeleteDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error)
}

// DiaryService provides the diary use-cases.
type DiaryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the diary repository used by this service.
	Repo DiaryRepo

	// Now is the clock used for the month/year window. Defaults to time.Now.
	Now func() time.Time
	// MinYear and MaxYearsAhead bound valid years for month queries.
	MinYear       int
	MaxYearsAhead int
	// SearchLimit caps note search results when the caller passes k <= 0.
	SearchLimit int
}

// NewDiaryService constructs a DiaryService with default year bounds.
func NewDiaryService(db *gorm.DB, r DiaryRepo) *DiaryService {
	return &DiaryService{
		DB:            db,
		Repo:          r,
		Now:           time.Now,
		MinYear:       validation.DefaultMinYear,
		MaxYearsAhead: validation.DefaultMaxYearsAhead,
		SearchLimit:   10,
	}
}

func (s *DiaryService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/DiaryService").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *DiaryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns all diary entries.
func (s *DiaryService) List(ctx context.Context) ([]domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "List")
	defer span.End()

	out, err := s.Repo.ListDiaryEntries(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	return nonNilEntries(out), nil
}

// Get returns the entry for date. A missing entry is reported as found=false
// with a nil error.
func (s *DiaryService) Get(ctx context.Context, date string) (*domain.DiaryEntry, bool, error) {
	ctx, span := s.span(ctx, "Get", attribute.String("diary.date", date))
	defer span.End()

	e, err := s.Repo.GetDiaryEntry(ctx, s.DB, strings.TrimSpace(date))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get diary entry: %w", err)
	}
	return e, true, nil
}

// Latest returns the entry with the most recent date, found=false when the
// diary is empty.
func (s *DiaryService) Latest(ctx context.Context) (*domain.DiaryEntry, bool, error) {
	ctx, span := s.span(ctx, "Latest")
	defer span.End()

	e, err := s.Repo.LatestDiaryEntry(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("latest diary entry: %w", err)
	}
	return e, true, nil
}

// Create validates and stores a new entry. It returns a *ValidationError for
// bad input and ErrDiaryEntryExists when the date is taken. Blank notes are
// dropped before persisting.
func (s *DiaryService) Create(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "Create", attribute.String("diary.date", in.Date))
	defer span.End()

	e := normalizeEntry(in)
	if err := invalid(validation.DiaryEntry(e)); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateDiaryEntry(ctx, s.DB, &e); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDiaryEntryExists
		}
		return nil, fmt.Errorf("create diary entry: %w", err)
	}
	diaryWrites.WithLabelValues(opCreate).Inc()
	return &e, nil
}

// Update fully replaces the entry keyed by in.Date. It returns a
// *ValidationError for bad input and ErrDiaryEntryNotFound when no entry
// exists for the date.
func (s *DiaryService) Update(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "Update", attribute.String("diary.date", in.Date))
	defer span.End()

	e := normalizeEntry(in)
	if err := invalid(validation.DiaryEntry(e)); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateDiaryEntry(ctx, s.DB, &e); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDiaryEntryNotFound
		}
		return nil, fmt.Errorf("update diary entry: %w", err)
	}
	diaryWrites.WithLabelValues(opUpdate).Inc()
	return &e, nil
}

// Upsert updates the entry when one exists for in.Date and creates it
// otherwise. created reports which happened. The read and the write are not
// atomic; a concurrent writer may interleave and the last write wins.
func (s *DiaryService) Upsert(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, bool, error) {
	ctx, span := s.span(ctx, "Upsert", attribute.String("diary.date", in.Date))
	defer span.End()

	e := normalizeEntry(in)
	if err := invalid(validation.DiaryEntry(e)); err != nil {
		return nil, false, err
	}
	_, found, err := s.Get(ctx, e.Date)
	if err != nil {
		return nil, false, err
	}
	if found {
		out, err := s.Update(ctx, e)
		return out, false, err
	}
	out, err := s.Create(ctx, e)
	return out, err == nil, err
}

// Delete removes the entry for date and returns it. It returns
// ErrDiaryEntryNotFound when there is none.
func (s *DiaryService) Delete(ctx context.Context, date string) (*domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "Delete", attribute.String("diary.date", date))
	defer span.End()

	e, err := s.Repo.DeleteDiaryEntry(ctx, s.DB, strings.TrimSpace(date))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDiaryEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete diary entry: %w", err)
	}
	diaryWrites.WithLabelValues(opDelete).Inc()
	return e, nil
}

// ListByMonth returns the entries dated in year/month. An empty month yields
// an empty slice, not an error.
func (s *DiaryService) ListByMonth(ctx context.Context, year, month int) ([]domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "ListByMonth", attribute.Int("diary.year", year), attribute.Int("diary.month", month))
	defer span.End()

	if err := invalid(s.checkMonthYear(year, month)); err != nil {
		return nil, err
	}
	first, last := domain.MonthBounds(year, month)
	out, err := s.Repo.ListDiaryEntriesBetween(ctx, s.DB, first, last)
	if err != nil {
		return nil, fmt.Errorf("list diary month: %w", err)
	}
	return nonNilEntries(out), nil
}

// ListByRange returns the entries with start <= date <= end. Both bounds must
// be well-formed ISO dates; start after end yields an empty slice.
func (s *DiaryService) ListByRange(ctx context.Context, start, end string) ([]domain.DiaryEntry, error) {
	ctx, span := s.span(ctx, "ListByRange", attribute.String("diary.start", start), attribute.String("diary.end", end))
	defer span.End()

	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	errs := validation.Date("start", start)
	for k, v := range validation.Date("end", end) {
		errs[k] = v
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	if start > end {
		return []domain.DiaryEntry{}, nil
	}
	out, err := s.Repo.ListDiaryEntriesBetween(ctx, s.DB, start, end)
	if err != nil {
		return nil, fmt.Errorf("list diary range: %w", err)
	}
	return nonNilEntries(out), nil
}

// MonthStats aggregates year/month. When the month has no entries it returns
// the empty stats together with ErrNoEntriesForMonth.
func (s *DiaryService) MonthStats(ctx context.Context, year, month int) (domain.MonthStats, error) {
	ctx, span := s.span(ctx, "MonthStats", attribute.Int("diary.year", year), attribute.Int("diary.month", month))
	defer span.End()

	entries, err := s.ListByMonth(ctx, year, month)
	if err != nil {
		return domain.MonthStats{Year: year, Month: month}, err
	}
	out := stats.MonthStats(entries, year, month)
	if out.EntryCount == 0 {
		return out, ErrNoEntriesForMonth
	}
	return out, nil
}

// SearchNotes ranks individual diary notes against q. k <= 0 uses
// SearchLimit.
func (s *DiaryService) SearchNotes(ctx context.Context, q string, k int) ([]domain.NoteMatch, error) {
	ctx, span := s.span(ctx, "SearchNotes", attribute.Int("search.k", k))
	defer span.End()

	if k <= 0 {
		k = s.SearchLimit
	}
	entries, err := s.Repo.ListDiaryEntries(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("search diary notes: %w", err)
	}
	idx := search.New(search.WithStopwords(search.EnglishStopwords))
	for _, e := range entries {
		for _, n := range e.Notes {
			idx.Add(e.Date, n)
		}
	}
	hits := idx.Search(validation.Normalize(q), k)
	span.SetAttributes(attribute.Int("search.docs", idx.Len()), attribute.Int("search.hits", len(hits)))

	out := make([]domain.NoteMatch, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.NoteMatch{Date: h.Key, Note: h.Snippet, Score: h.Score})
	}
	return out, nil
}

func (s *DiaryService) checkMonthYear(year, month int) validation.Errors {
	minYear := s.MinYear
	if minYear == 0 {
		minYear = validation.DefaultMinYear
	}
	ahead := s.MaxYearsAhead
	if ahead == 0 {
		ahead = validation.DefaultMaxYearsAhead
	}
	return validation.MonthYearWithin(year, month, minYear, s.now().Year()+ahead)
}

// normalizeEntry trims the date and drops blank notes. Note text is stored as
// given; only search folds it.
func normalizeEntry(in domain.DiaryEntry) domain.DiaryEntry {
	e := in
	e.Date = strings.TrimSpace(in.Date)
	e.Notes = normalizeTexts(in.Notes)
	return e
}

func normalizeTexts(in []string) []string {
	return domain.NonBlank(in)
}

func nonNilEntries(in []domain.DiaryEntry) []domain.DiaryEntry {
	if in == nil {
		return []domain.DiaryEntry{}
	}
	return in
}

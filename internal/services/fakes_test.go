package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/repo"
)

// ----- Fake diary repo -----

type fakeDiaryRepo struct {
	rows map[string]domain.DiaryEntry

	// error injection
	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	// call capture
	creates     int
	updates     int
	betweenFrom string
	betweenTo   string
}

func newFakeDiaryRepo(seed ...domain.DiaryEntry) *fakeDiaryRepo {
	r := &fakeDiaryRepo{rows: map[string]domain.DiaryEntry{}}
	for _, e := range seed {
		r.rows[e.Date] = e
	}
	return r
}

func (r *fakeDiaryRepo) sorted() []domain.DiaryEntry {
	out := make([]domain.DiaryEntry, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (r *fakeDiaryRepo) ListDiaryEntries(ctx context.Context, db *gorm.DB) ([]domain.DiaryEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(), nil
}

func (r *fakeDiaryRepo) ListDiaryEntriesBetween(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DiaryEntry, error) {
	r.betweenFrom, r.betweenTo = from, to
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.DiaryEntry
	for _, e := range r.sorted() {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeDiaryRepo) GetDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	e, ok := r.rows[date]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &e, nil
}

func (r *fakeDiaryRepo) LatestDiaryEntry(ctx context.Context, db *gorm.DB) (*domain.DiaryEntry, error) {
	all := r.sorted()
	if len(all) == 0 {
		return nil, repo.ErrNotFound
	}
	e := all[len(all)-1]
	return &e, nil
}

func (r *fakeDiaryRepo) CreateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.rows[e.Date]; ok {
		return repo.ErrDuplicate
	}
	r.creates++
	r.rows[e.Date] = *e
	return nil
}

func (r *fakeDiaryRepo) UpdateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.rows[e.Date]; !ok {
		return repo.ErrNotFound
	}
	r.updates++
	r.rows[e.Date] = *e
	return nil
}

func (r *fakeDiaryRepo) DeleteDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	if r.deleteErr != nil {
		return nil, r.deleteErr
	}
	e, ok := r.rows[date]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(r.rows, date)
	return &e, nil
}

// ----- Fake medication repo -----

type fakeMedRepo struct {
	rows map[string]domain.Medication

	listErr   error
	updateErr error

	updates int
}

func newFakeMedRepo(seed ...domain.Medication) *fakeMedRepo {
	r := &fakeMedRepo{rows: map[string]domain.Medication{}}
	for _, m := range seed {
		r.rows[m.Name] = m
	}
	return r
}

func (r *fakeMedRepo) sorted() []domain.Medication {
	out := make([]domain.Medication, 0, len(r.rows))
	for _, m := range r.rows {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeMedRepo) ListMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(), nil
}

func (r *fakeMedRepo) ListActiveMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Medication
	for _, m := range r.sorted() {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMedRepo) GetMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	m, ok := r.rows[name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMedRepo) CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	if _, ok := r.rows[m.Name]; ok {
		return repo.ErrDuplicate
	}
	r.rows[m.Name] = *m
	return nil
}

func (r *fakeMedRepo) UpdateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.rows[m.Name]; !ok {
		return repo.ErrNotFound
	}
	r.updates++
	r.rows[m.Name] = *m
	return nil
}

func (r *fakeMedRepo) DeleteMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	m, ok := r.rows[name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(r.rows, name)
	return &m, nil
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
}

func mustDate(t interface{ Fatalf(string, ...any) }, s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

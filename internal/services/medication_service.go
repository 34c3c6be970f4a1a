// Package services – MedicationService
//
// This file implements the MedicationService, which owns medication regimens
// keyed by exact name. It validates input, coerces doses to finite
// non-negative numbers, strips blank side effects and notes, and supports
// soft retirement through Deactivate.
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
	"github.com/tbourn/headache-tracker/internal/validation"
)

// MedicationRepo defines the repository contract required by
// MedicationService.
type MedicationRepo interface {
	ListMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error)
	ListActiveMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error)
	GetMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error)
	CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error
	UpdateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error
	DeleteMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error)
}

// MedicationService provides the medication use-cases.
type MedicationService struct {
	DB   *gorm.DB
	Repo MedicationRepo

	// Now supplies "today" for Deactivate. Defaults to time.Now.
	Now func() time.Time
}

// NewMedicationService constructs a MedicationService using the wall clock.
func NewMedicationService(db *gorm.DB, r MedicationRepo) *MedicationService {
	return &MedicationService{DB: db, Repo: r, Now: time.Now}
}

func (s *MedicationService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/MedicationService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// List returns every medication.
func (s *MedicationService) List(ctx context.Context) ([]domain.Medication, error) {
	ctx, span := s.span(ctx, "List")
	defer span.End()

	out, err := s.Repo.ListMedications(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return nonNilMeds(out), nil
}

// ListActive returns the medications with active=true.
func (s *MedicationService) ListActive(ctx context.Context) ([]domain.Medication, error) {
	ctx, span := s.span(ctx, "ListActive")
	defer span.End()

	out, err := s.Repo.ListActiveMedications(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("list active medications: %w", err)
	}
	return nonNilMeds(out), nil
}

// ListWithSideEffects returns the medications that record at least one side
// effect.
func (s *MedicationService) ListWithSideEffects(ctx context.Context) ([]domain.Medication, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Medication, 0, len(all))
	for _, m := range all {
		if len(m.SideEffects) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

// Get returns the medication called name; found=false when there is none.
func (s *MedicationService) Get(ctx context.Context, name string) (*domain.Medication, bool, error) {
	ctx, span := s.span(ctx, "Get", attribute.String("medication.name", name))
	defer span.End()

	m, err := s.Repo.GetMedication(ctx, s.DB, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get medication: %w", err)
	}
	return m, true, nil
}

// Create validates and stores a new medication. It returns a
// *ValidationError for bad input and ErrMedicationExists when the name is
// taken.
func (s *MedicationService) Create(ctx context.Context, in domain.Medication) (*domain.Medication, error) {
	ctx, span := s.span(ctx, "Create", attribute.String("medication.name", in.Name))
	defer span.End()

	m := normalizeMedication(in)
	if err := invalid(validation.Medication(m)); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateMedication(ctx, s.DB, &m); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrMedicationExists
		}
		return nil, fmt.Errorf("create medication: %w", err)
	}
	medicationWrites.WithLabelValues(opCreate).Inc()
	return &m, nil
}

// Update fully replaces the medication keyed by in.Name. It returns
// ErrMedicationNotFound when no such medication exists.
func (s *MedicationService) Update(ctx context.Context, in domain.Medication) (*domain.Medication, error) {
	ctx, span := s.span(ctx, "Update", attribute.String("medication.name", in.Name))
	defer span.End()

	m := normalizeMedication(in)
	if err := invalid(validation.Medication(m)); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateMedication(ctx, s.DB, &m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("update medication: %w", err)
	}
	medicationWrites.WithLabelValues(opUpdate).Inc()
	return &m, nil
}

// Upsert updates the medication when the name exists and creates it
// otherwise. created reports which happened. Not atomic; last write wins.
func (s *MedicationService) Upsert(ctx context.Context, in domain.Medication) (*domain.Medication, bool, error) {
	ctx, span := s.span(ctx, "Upsert", attribute.String("medication.name", in.Name))
	defer span.End()

	m := normalizeMedication(in)
	if err := invalid(validation.Medication(m)); err != nil {
		return nil, false, err
	}
	_, found, err := s.Get(ctx, m.Name)
	if err != nil {
		return nil, false, err
	}
	if found {
		out, err := s.Update(ctx, m)
		return out, false, err
	}
	out, err := s.Create(ctx, m)
	return out, err == nil, err
}

// Delete removes the medication called name and returns it. It returns
// ErrMedicationNotFound when there is none.
func (s *MedicationService) Delete(ctx context.Context, name string) (*domain.Medication, error) {
	ctx, span := s.span(ctx, "Delete", attribute.String("medication.name", name))
	defer span.End()

	m, err := s.Repo.DeleteMedication(ctx, s.DB, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrMedicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete medication: %w", err)
	}
	medicationWrites.WithLabelValues(opDelete).Inc()
	return m, nil
}

// Deactivate marks the medication inactive and stamps end_date with today's
// date, leaving every other field untouched. It returns ErrMedicationNotFound
// for an unknown name. The read and the write are not atomic.
func (s *MedicationService) Deactivate(ctx context.Context, name string) (*domain.Medication, error) {
	ctx, span := s.span(ctx, "Deactivate", attribute.String("medication.name", name))
	defer span.End()

	m, found, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMedicationNotFound
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := domain.Today(now())
	m.Active = false
	m.EndDate = &today

	if err := s.Repo.UpdateMedication(ctx, s.DB, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("deactivate medication: %w", err)
	}
	medicationWrites.WithLabelValues(opDeactivate).Inc()
	return m, nil
}

// normalizeMedication clamps the dose, drops blank side effects and notes, and
// treats a blank end date as absent. The name is kept byte for byte since it
// is the key.
func normalizeMedication(in domain.Medication) domain.Medication {
	m := in
	m.StartDate = strings.TrimSpace(in.StartDate)
	m.Dose = domain.NormalizeDose(in.Dose)
	m.SideEffects = normalizeTexts(in.SideEffects)
	m.Notes = normalizeTexts(in.Notes)
	if in.EndDate != nil {
		end := strings.TrimSpace(*in.EndDate)
		if end == "" {
			m.EndDate = nil
		} else {
			m.EndDate = &end
		}
	}
	return m
}

func nonNilMeds(in []domain.Medication) []domain.Medication {
	if in == nil {
		return []domain.Medication{}
	}
	return in
}

package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tbourn/headache-tracker/internal/domain"
)

func strptr(s string) *string { return &s }

func TestCreateMedication_StoresFalseActiveAndZeroDose(t *testing.T) {
	db := newRepoDB(t, &domain.Medication{})
	ctx := context.Background()

	m := &domain.Medication{Name: "Sumatriptan", Active: false, StartDate: "2025-01-01", SideEffects: []string{}, Notes: []string{}}
	if err := CreateMedication(ctx, db, m); err != nil {
		t.Fatalf("CreateMedication: %v", err)
	}
	got, err := GetMedication(ctx, db, "Sumatriptan")
	if err != nil {
		t.Fatalf("GetMedication: %v", err)
	}
	if got.Active {
		t.Fatalf("active=false must be stored as given")
	}
	if got.Dose != (domain.Dose{}) {
		t.Fatalf("dose = %+v; want zeros", got.Dose)
	}
	if got.EndDate != nil {
		t.Fatalf("end date should be nil, got %q", *got.EndDate)
	}
}

func TestCreateMedication_Duplicate_AndCaseSensitivity(t *testing.T) {
	db := newRepoDB(t, &domain.Medication{})
	ctx := context.Background()

	if err := CreateMedication(ctx, db, &domain.Medication{Name: "Ibuprofen", Active: true, StartDate: "2025-01-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := CreateMedication(ctx, db, &domain.Medication{Name: "Ibuprofen", StartDate: "2025-02-01"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := GetMedication(ctx, db, "ibuprofen"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup must be case-sensitive, got %v", err)
	}
}

func TestUpdateMedication_ReplacesAndMissing(t *testing.T) {
	db := newRepoDB(t, &domain.Medication{})
	ctx := context.Background()

	orig := &domain.Medication{
		Name:        "Propranolol",
		Dose:        domain.Dose{Morning: 40, Evening: 40},
		Active:      true,
		StartDate:   "2025-01-01",
		SideEffects: []string{"fatigue"},
		Notes:       []string{"with food"},
	}
	if err := CreateMedication(ctx, db, orig); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := &domain.Medication{
		Name:        "Propranolol",
		Dose:        domain.Dose{Afternoon: 10},
		Active:      false,
		StartDate:   "2025-01-02",
		EndDate:     strptr("2025-03-01"),
		SideEffects: []string{},
		Notes:       []string{},
	}
	if err := UpdateMedication(ctx, db, upd); err != nil {
		t.Fatalf("UpdateMedication: %v", err)
	}
	got, err := GetMedication(ctx, db, "Propranolol")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Dose != (domain.Dose{Afternoon: 10}) || got.Active || got.StartDate != "2025-01-02" {
		t.Fatalf("fields not replaced: %+v", got)
	}
	if got.EndDate == nil || *got.EndDate != "2025-03-01" {
		t.Fatalf("end date = %v", got.EndDate)
	}
	if len(got.SideEffects) != 0 || len(got.Notes) != 0 {
		t.Fatalf("lists not replaced: %+v", got)
	}

	if err := UpdateMedication(ctx, db, &domain.Medication{Name: "Nope", StartDate: "2025-01-01"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMedications_AndActive(t *testing.T) {
	db := newRepoDB(t, &domain.Medication{})
	ctx := context.Background()

	seed := []domain.Medication{
		{Name: "C", Active: true, StartDate: "2025-01-01"},
		{Name: "A", Active: false, StartDate: "2025-01-01"},
		{Name: "B", Active: true, StartDate: "2025-01-01"},
	}
	for i := range seed {
		if err := CreateMedication(ctx, db, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := ListMedications(ctx, db)
	if err != nil {
		t.Fatalf("ListMedications: %v", err)
	}
	if got := names(all); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("names = %v", got)
	}

	active, err := ListActiveMedications(ctx, db)
	if err != nil {
		t.Fatalf("ListActiveMedications: %v", err)
	}
	if got := names(active); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("active = %v", got)
	}
}

func TestDeleteMedication(t *testing.T) {
	db := newRepoDB(t, &domain.Medication{})
	ctx := context.Background()

	if err := CreateMedication(ctx, db, &domain.Medication{Name: "X", Active: true, StartDate: "2025-01-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	removed, err := DeleteMedication(ctx, db, "X")
	if err != nil || removed.Name != "X" {
		t.Fatalf("DeleteMedication = %+v, %v", removed, err)
	}
	if _, err := DeleteMedication(ctx, db, "X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func names(ms []domain.Medication) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

// Package services defines the business logic for diary entries and
// medications. This file centralizes service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// Errors come in three families that handlers branch on with errors.Is:
// ErrValidation (field-level input problems), ErrConflict (duplicate key on
// create) and ErrNotFound (the operation targets a missing key). Every
// specific sentinel below unwraps to its family.
package services

import (
	"errors"

	"github.com/tbourn/headache-tracker/internal/validation"
)

// Error families.
var (
	// ErrValidation marks malformed caller input. The concrete error is always
	// a *ValidationError carrying the per-field messages.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a create that collides with an existing key.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an operation on a key that does not exist.
	ErrNotFound = errors.New("not found")
)

// Diary errors.
var (
	// ErrDiaryEntryExists is returned by Create when an entry for the date
	// already exists.
	ErrDiaryEntryExists error = &familyError{msg: "diary entry already exists for this date", family: ErrConflict}

	// ErrDiaryEntryNotFound is returned by Update and Delete for a date with no
	// entry.
	ErrDiaryEntryNotFound error = &familyError{msg: "diary entry not found", family: ErrNotFound}

	// ErrNoEntriesForMonth is returned by MonthStats when the requested month
	// has no entries.
	ErrNoEntriesForMonth error = &familyError{msg: "no diary entries for this month", family: ErrNotFound}
)

// Medication errors.
var (
	// ErrMedicationExists is returned by Create when the name is taken.
	ErrMedicationExists error = &familyError{msg: "medication already exists", family: ErrConflict}

	// ErrMedicationNotFound is returned by Update, Delete and Deactivate for an
	// unknown name.
	ErrMedicationNotFound error = &familyError{msg: "medication not found", family: ErrNotFound}
)

// familyError is a sentinel with its own message that unwraps to a family.
type familyError struct {
	msg    string
	family error
}

func (e *familyError) Error() string { return e.msg }
func (e *familyError) Unwrap() error { return e.family }

// ValidationError carries the field-to-message map produced by the
// validation rules. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Fields.String()
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// invalid wraps errs as a *ValidationError, or returns nil when errs is empty.
func invalid(errs validation.Errors) error {
	if errs.Valid() {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Medication
// model. Names are matched exactly (case-sensitive).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
)

// medicationColumns are replaced wholesale by UpdateMedication.
var medicationColumns = []string{
	"dose_morning", "dose_afternoon", "dose_evening",
	"active", "start_date", "end_date", "side_effects", "notes",
}

// ListMedications returns every medication ordered by name.
func ListMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	var out []domain.Medication
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListActiveMedications returns medications with active=true ordered by name.
func ListActiveMedications(ctx context.Context, db *gorm.DB) ([]domain.Medication, error) {
	var out []domain.Medication
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// GetMedication fetches a medication by exact name or returns ErrNotFound.
func GetMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	var m domain.Medication
	if err := db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMedication inserts m with every column written explicitly, so false
// and zero values are stored as given. It returns ErrDuplicate when the name
// is taken.
func CreateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	if err := db.WithContext(ctx).Select("*").Create(m).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateMedication replaces every attribute of the medication keyed by
// m.Name. It returns ErrNotFound when no such medication exists.
func UpdateMedication(ctx context.Context, db *gorm.DB, m *domain.Medication) error {
	res := db.WithContext(ctx).
		Model(&domain.Medication{}).
		Where("name = ?", m.Name).
		Select(medicationColumns).
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMedication removes the medication called name and returns it as it
// was before deletion. It returns ErrNotFound when no such medication exists.
func DeleteMedication(ctx context.Context, db *gorm.DB, name string) (*domain.Medication, error) {
	var removed *domain.Medication
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := GetMedication(ctx, tx, name)
		if err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&domain.Medication{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		removed = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

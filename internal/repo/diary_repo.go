// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the DiaryEntry
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an entry is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A create that collides with an existing date returns ErrDuplicate.
//   - Other DB errors are propagated unchanged.
//
// Usage:
//
//	e, err := repo.GetDiaryEntry(ctx, db, "2025-07-01")
//	if errors.Is(err, repo.ErrNotFound) {
//	    // handle missing
//	} else if err != nil {
//	    // handle DB failure
//	}
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a row with the same primary or unique key
// already exists.
var ErrDuplicate = errors.New("duplicate")

// isDuplicate recognises unique/primary key violations across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value")
}

// diaryColumns are replaced wholesale by UpdateDiaryEntry.
var diaryColumns = []string{"score", "limited", "cluster", "notes"}

// ListDiaryEntries returns every diary entry ordered by date ascending.
func ListDiaryEntries(ctx context.Context, db *gorm.DB) ([]domain.DiaryEntry, error) {
	var out []domain.DiaryEntry
	err := db.WithContext(ctx).Order("date asc").Find(&out).Error
	return out, err
}

// ListDiaryEntriesBetween returns entries whose date lies in [from, to],
// ordered by date ascending. Dates are stored in canonical ISO form, so the
// string comparison matches calendar order.
func ListDiaryEntriesBetween(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DiaryEntry, error) {
	var out []domain.DiaryEntry
	err := db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date asc").
		Find(&out).Error
	return out, err
}

// GetDiaryEntry fetches the entry for date or returns ErrNotFound.
func GetDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	var e domain.DiaryEntry
	if err := db.WithContext(ctx).Where("date = ?", date).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestDiaryEntry returns the entry with the greatest date, or ErrNotFound
// when the diary is empty.
func LatestDiaryEntry(ctx context.Context, db *gorm.DB) (*domain.DiaryEntry, error) {
	var e domain.DiaryEntry
	if err := db.WithContext(ctx).Order("date desc").First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateDiaryEntry inserts e. It returns ErrDuplicate when an entry for the
// same date already exists.
func CreateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateDiaryEntry replaces every attribute of the entry keyed by e.Date.
// It returns ErrNotFound when no such entry exists.
func UpdateDiaryEntry(ctx context.Context, db *gorm.DB, e *domain.DiaryEntry) error {
	res := db.WithContext(ctx).
		Model(&domain.DiaryEntry{}).
		Where("date = ?", e.Date).
		Select(diaryColumns).
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDiaryEntry removes the entry for date and returns it as it was
// before deletion. It returns ErrNotFound when no such entry exists.
func DeleteDiaryEntry(ctx context.Context, db *gorm.DB, date string) (*domain.DiaryEntry, error) {
	var removed *domain.DiaryEntry
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := GetDiaryEntry(ctx, tx, date)
		if err != nil {
			return err
		}
		res := tx.Where("date = ?", date).Delete(&domain.DiaryEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		removed = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Package domain defines the persistence models for headache diary entries
// and medication regimens. These types are mapped with GORM and form the core
// data layer of the tracker.
package domain

import (
	"time"
)

// DateLayout is the ISO 8601 calendar-date layout used for every stored date.
const DateLayout = "2006-01-02"

// DiaryEntry is one day's headache record. The calendar date is the primary
// key, so there is at most one entry per day.
//
// Fields:
//   - Date: ISO date (YYYY-MM-DD), primary key.
//   - Score: pain score in [1,10] (enforced by validation and a DB check).
//   - Limited: whether the headache limited normal activity.
//   - Cluster: whether it was a cluster-headache day.
//   - Notes: free-text notes, never blank (filtered before persistence).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM, not part of the API.
type DiaryEntry struct {
	Date      string    `json:"date"    gorm:"type:varchar(10);primaryKey"`
	Score     int       `json:"score"   gorm:"not null;check:score BETWEEN 1 AND 10"`
	Limited   bool      `json:"limited" gorm:"not null;default:false"`
	Cluster   bool      `json:"cluster" gorm:"not null;default:false;index"`
	Notes     []string  `json:"notes"   gorm:"serializer:json"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"       gorm:"index"`
}

// TableName returns the database table name for DiaryEntry.
func (DiaryEntry) TableName() string { return "diary_entries" }

// Dose is a three-times-daily dose schedule. Each slot is a non-negative
// amount; an absent slot is 0.
type Dose struct {
	Morning   float64 `json:"morning"   gorm:"not null;default:0"`
	Afternoon float64 `json:"afternoon" gorm:"not null;default:0"`
	Evening   float64 `json:"evening"   gorm:"not null;default:0"`
}

// Medication is a tracked drug regimen keyed by its exact, case-sensitive name.
//
// Fields:
//   - Name: primary key.
//   - Dose: embedded as dose_morning / dose_afternoon / dose_evening columns.
//   - Active: whether the regimen is currently taken.
//   - StartDate: ISO date the regimen started (required).
//   - EndDate: ISO date the regimen ended; nil means ongoing.
//   - SideEffects / Notes: free text, never blank.
type Medication struct {
	Name        string    `json:"name"                 gorm:"type:varchar(255);primaryKey"`
	Dose        Dose      `json:"dose"                 gorm:"embedded;embeddedPrefix:dose_"`
	Active      bool      `json:"active"               gorm:"not null;index"`
	StartDate   string    `json:"start_date"           gorm:"type:varchar(10);not null"`
	EndDate     *string   `json:"end_date,omitempty"   gorm:"type:varchar(10)"`
	SideEffects []string  `json:"side_effects"         gorm:"serializer:json"`
	Notes       []string  `json:"notes"                gorm:"serializer:json"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"                    gorm:"index"`
}

// TableName returns the database table name for Medication.
func (Medication) TableName() string { return "medications" }

// MonthStats is the derived summary of one calendar month of diary entries.
// It is computed on demand and never persisted.
//
// AveragePainScore is nil when the month has no entries, so "no data" stays
// distinct from an average of zero.
type MonthStats struct {
	Year                int      `json:"year"`
	Month               int      `json:"month"`
	EntryCount          int      `json:"entry_count"`
	AveragePainScore    *float64 `json:"average_pain_score"`
	NumberOfClusterDays int      `json:"number_of_cluster_days"`
}

// NoteMatch is one diary note that matched a free-text search.
type NoteMatch struct {
	Date  string  `json:"date"`
	Note  string  `json:"note"`
	Score float64 `json:"score"`
}

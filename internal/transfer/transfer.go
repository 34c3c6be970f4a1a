// Package transfer moves diary entries and medications between the database
// and the flat JSON files used by earlier versions of the tracker
// (diary.json and medications.json: one JSON array per file, 4-space
// indented).
//
// Imports go through the services, so every record is validated and
// normalised exactly as an API write would be. Records are upserted, which
// makes re-importing the same file safe. A record that fails is reported and
// skipped; it never aborts the rest of the file.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tbourn/headache-tracker/internal/domain"
)

// DiaryStore is the subset of the diary service used by import/export.
type DiaryStore interface {
	List(ctx context.Context) ([]domain.DiaryEntry, error)
	Upsert(ctx context.Context, in domain.DiaryEntry) (*domain.DiaryEntry, bool, error)
}

// MedicationStore is the subset of the medication service used by
// import/export.
type MedicationStore interface {
	List(ctx context.Context) ([]domain.Medication, error)
	Upsert(ctx context.Context, in domain.Medication) (*domain.Medication, bool, error)
}

// Failure describes one record that could not be imported.
type Failure struct {
	Index int    // position in the file, from 0
	Key   string // date or name as written in the file
	Err   error
}

func (f Failure) String() string {
	return fmt.Sprintf("#%d %q: %v", f.Index, f.Key, f.Err)
}

// Report summarises an import.
type Report struct {
	Created  int
	Updated  int
	Failures []Failure
}

// Total is the number of records read from the file.
func (r Report) Total() int { return r.Created + r.Updated + len(r.Failures) }

// ExportOptions controls export formatting.
type ExportOptions struct {
	// UKDates writes dates as DD/MM/YYYY instead of ISO.
	UKDates bool
}

// diaryRecord is the on-disk shape of a diary entry.
type diaryRecord struct {
	Date    string   `json:"date"`
	Score   int      `json:"score"`
	Limited bool     `json:"limited"`
	Cluster bool     `json:"cluster"`
	Notes   []string `json:"notes"`
}

// doseRecord keeps the raw JSON values so that strings and other junk are
// coerced the same way the API does it.
type doseRecord struct {
	Morning   any `json:"morning"`
	Afternoon any `json:"afternoon"`
	Evening   any `json:"evening"`
}

type medicationRecord struct {
	Name        string     `json:"name"`
	Dose        doseRecord `json:"dose"`
	Active      *bool      `json:"active"`
	StartDate   *string    `json:"start_date"`
	EndDate     *string    `json:"end_date"`
	SideEffects []string   `json:"side_effects"`
	Notes       []string   `json:"notes"`
}

// ImportDiary reads a diary.json array from r and upserts every entry.
// Dates may be ISO (YYYY-MM-DD) or UK (DD/MM/YYYY).
func ImportDiary(ctx context.Context, r io.Reader, store DiaryStore) (Report, error) {
	var recs []diaryRecord
	if err := decodeArray(r, &recs); err != nil {
		return Report{}, fmt.Errorf("decode diary file: %w", err)
	}

	var rep Report
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		date, err := importDate(rec.Date)
		if err != nil {
			rep.Failures = append(rep.Failures, Failure{Index: i, Key: rec.Date, Err: err})
			continue
		}
		_, created, err := store.Upsert(ctx, domain.DiaryEntry{
			Date:    date,
			Score:   rec.Score,
			Limited: rec.Limited,
			Cluster: rec.Cluster,
			Notes:   rec.Notes,
		})
		rep.count(i, rec.Date, created, err)
	}
	return rep, nil
}

// ImportMedications reads a medications.json array from r and upserts every
// medication. A missing "active" means active.
func ImportMedications(ctx context.Context, r io.Reader, store MedicationStore) (Report, error) {
	var recs []medicationRecord
	if err := decodeArray(r, &recs); err != nil {
		return Report{}, fmt.Errorf("decode medications file: %w", err)
	}

	var rep Report
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		m, err := rec.toDomain()
		if err != nil {
			rep.Failures = append(rep.Failures, Failure{Index: i, Key: rec.Name, Err: err})
			continue
		}
		_, created, err := store.Upsert(ctx, m)
		rep.count(i, rec.Name, created, err)
	}
	return rep, nil
}

func (r *Report) count(i int, key string, created bool, err error) {
	switch {
	case err != nil:
		r.Failures = append(r.Failures, Failure{Index: i, Key: key, Err: err})
	case created:
		r.Created++
	default:
		r.Updated++
	}
}

func (rec medicationRecord) toDomain() (domain.Medication, error) {
	m := domain.Medication{
		Name:        rec.Name,
		Dose:        domain.CreateDose(rec.Dose.Morning, rec.Dose.Afternoon, rec.Dose.Evening),
		Active:      rec.Active == nil || *rec.Active,
		SideEffects: rec.SideEffects,
		Notes:       rec.Notes,
	}
	if rec.StartDate != nil {
		start, err := importDate(*rec.StartDate)
		if err != nil {
			return m, fmt.Errorf("start_date: %w", err)
		}
		m.StartDate = start
	}
	if rec.EndDate != nil {
		end, err := importDate(*rec.EndDate)
		if err != nil {
			return m, fmt.Errorf("end_date: %w", err)
		}
		if end != "" {
			m.EndDate = &end
		}
	}
	return m, nil
}

// ExportDiary writes every diary entry to w as a diary.json array.
func ExportDiary(ctx context.Context, w io.Writer, store DiaryStore, opts ExportOptions) (int, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list diary entries: %w", err)
	}
	out := make([]diaryRecord, 0, len(entries))
	for _, e := range entries {
		date, err := exportDate(e.Date, opts)
		if err != nil {
			return 0, fmt.Errorf("diary entry %s: %w", e.Date, err)
		}
		out = append(out, diaryRecord{
			Date:    date,
			Score:   e.Score,
			Limited: e.Limited,
			Cluster: e.Cluster,
			Notes:   listOrEmpty(e.Notes),
		})
	}
	return len(out), encodeArray(w, out)
}

// ExportMedications writes every medication to w as a medications.json array.
func ExportMedications(ctx context.Context, w io.Writer, store MedicationStore, opts ExportOptions) (int, error) {
	meds, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list medications: %w", err)
	}
	out := make([]medicationRecord, 0, len(meds))
	for _, m := range meds {
		start, err := exportDate(m.StartDate, opts)
		if err != nil {
			return 0, fmt.Errorf("medication %s: %w", m.Name, err)
		}
		rec := medicationRecord{
			Name: m.Name,
			Dose: doseRecord{
				Morning:   m.Dose.Morning,
				Afternoon: m.Dose.Afternoon,
				Evening:   m.Dose.Evening,
			},
			Active:      &m.Active,
			StartDate:   &start,
			SideEffects: listOrEmpty(m.SideEffects),
			Notes:       listOrEmpty(m.Notes),
		}
		if m.EndDate != nil {
			end, err := exportDate(*m.EndDate, opts)
			if err != nil {
				return 0, fmt.Errorf("medication %s: %w", m.Name, err)
			}
			rec.EndDate = &end
		}
		out = append(out, rec)
	}
	return len(out), encodeArray(w, out)
}

// importDate accepts ISO or UK dates and returns the ISO form. Anything else
// is passed through for validation to reject.
func importDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return domain.UKDateToISO(s)
	}
	return s, nil
}

func exportDate(s string, opts ExportOptions) (string, error) {
	if !opts.UKDates {
		return s, nil
	}
	return domain.ISODateToUK(s)
}

// listOrEmpty keeps absent lists as [] rather than null in exported files.
func listOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var errNotArray = errors.New("expected a JSON array")

func decodeArray(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file, no records
		}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field == "" {
			return errNotArray
		}
		return err
	}
	return nil
}

func encodeArray(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

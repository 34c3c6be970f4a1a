// Package stats reduces diary entries into per-month aggregates.
package stats

import (
	"github.com/tbourn/headache-tracker/internal/domain"
)

// InMonth reports whether e's date parses and falls in year/month.
// Entries with malformed dates never match.
func InMonth(e domain.DiaryEntry, year, month int) bool {
	t, err := domain.ParseDate(e.Date)
	if err != nil {
		return false
	}
	return t.Year() == year && int(t.Month()) == month
}

// MonthStats filters entries to year/month and reports the mean score and the
// number of cluster days. AveragePainScore is nil when nothing matches, so
// "no data" stays distinct from an average of zero. The result does not
// depend on the order of entries and is reported at full precision.
func MonthStats(entries []domain.DiaryEntry, year, month int) domain.MonthStats {
	out := domain.MonthStats{Year: year, Month: month}
	sum := 0
	for _, e := range entries {
		if !InMonth(e, year, month) {
			continue
		}
		out.EntryCount++
		sum += e.Score
		if e.Cluster {
			out.NumberOfClusterDays++
		}
	}
	if out.EntryCount > 0 {
		avg := float64(sum) / float64(out.EntryCount)
		out.AveragePainScore = &avg
	}
	return out
}

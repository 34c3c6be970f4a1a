package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD) into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns now's calendar date in now's own location.
func Today(now time.Time) string {
	return FormatDate(now)
}

// MonthBounds returns the first and last ISO dates of year/month.
func MonthBounds(year, month int) (first, last string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return FormatDate(start), FormatDate(end)
}

// UKDateToISO converts DD/MM/YYYY to YYYY-MM-DD. An empty input yields "".
func UKDateToISO(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse("2/1/2006", s)
	if err != nil {
		return "", fmt.Errorf("invalid UK date %q: %w", s, err)
	}
	return FormatDate(t), nil
}

// ISODateToUK converts YYYY-MM-DD to DD/MM/YYYY. An empty input yields "".
func ISODateToUK(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", fmt.Errorf("invalid ISO date %q: %w", s, err)
	}
	return t.Format("02/01/2006"), nil
}

// NonBlank returns the elements of in that contain something other than
// whitespace, in order. The result is never nil.
func NonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

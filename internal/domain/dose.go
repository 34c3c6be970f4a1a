package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CreateDose builds a Dose from up to three loosely typed values in
// morning, afternoon, evening order. Missing values are 0, and any value that
// does not parse as a finite, non-negative number collapses to 0.
//
//	CreateDose()                  // {0 0 0}
//	CreateDose(200, "0", "200")   // {200 0 200}
//	CreateDose("abc", -5, nil)    // {0 0 0}
func CreateDose(values ...any) Dose {
	var slots [3]float64
	for i := 0; i < len(values) && i < len(slots); i++ {
		slots[i] = coerceAmount(values[i])
	}
	return Dose{Morning: slots[0], Afternoon: slots[1], Evening: slots[2]}
}

// NormalizeDose returns d with every slot clamped to a finite value >= 0.
func NormalizeDose(d Dose) Dose {
	return Dose{
		Morning:   clampAmount(d.Morning),
		Afternoon: clampAmount(d.Afternoon),
		Evening:   clampAmount(d.Evening),
	}
}

// TotalDailyDose is the sum of the three dose slots of m.
func TotalDailyDose(m Medication) float64 {
	return m.Dose.Total()
}

// Total is morning + afternoon + evening.
func (d Dose) Total() float64 {
	return d.Morning + d.Afternoon + d.Evening
}

func coerceAmount(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return clampAmount(x)
	case float32:
		return clampAmount(float64(x))
	case int:
		return clampAmount(float64(x))
	case int32:
		return clampAmount(float64(x))
	case int64:
		return clampAmount(float64(x))
	case uint:
		return clampAmount(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return clampAmount(f)
	case string:
		return clampAmount(parseLeadingFloat(x))
	default:
		return 0
	}
}

func clampAmount(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// parseLeadingFloat parses the longest decimal prefix of s ("12.5mg" -> 12.5,
// ".5" -> 0.5, "1e3x" -> 1000), returning 0 when there is none. Only
// [+-]digits[.digits][e[+-]digits] is recognised, so hex floats, "Inf" and
// digit separators read as 0.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	end := skipDigits(s, i)
	digits := end - i
	if end < len(s) && s[end] == '.' {
		frac := skipDigits(s, end+1)
		digits += frac - end - 1
		end = frac
	}
	if digits == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := skipDigits(s, j); k > j {
			end = k
		}
	}
	// A range error still yields ±Inf, which clampAmount turns into 0.
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// Package validation holds the field-level rules shared by the diary and
// medication services. Every rule returns an Errors map of field name to a
// human-readable message; an empty map means the input is valid. Rules never
// panic and never return Go errors for bad input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/headache-tracker/internal/domain"
)

// Score and calendar bounds.
const (
	MinScore = 1
	MaxScore = 10

	DefaultMinYear       = 1900
	DefaultMaxYearsAhead = 5
)

// Errors maps a JSON field name to the message describing why it is invalid.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String renders the errors as "field: message; ..." in field order.
func (e Errors) String() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

type diaryRules struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Score int    `json:"score" validate:"gte=1,lte=10"`
}

type medicationRules struct {
	Name      string  `json:"name" validate:"notblank"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// DiaryEntry checks that date is a well-formed ISO date and score is in
// [MinScore, MaxScore].
func DiaryEntry(e domain.DiaryEntry) Errors {
	return translate(validate.Struct(diaryRules{Date: e.Date, Score: e.Score}))
}

// Medication checks that name is not blank, start_date is a well-formed ISO
// date, and end_date is well-formed when present.
func Medication(m domain.Medication) Errors {
	return translate(validate.Struct(medicationRules{
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
	}))
}

// MonthYear checks year against [DefaultMinYear, now.Year()+DefaultMaxYearsAhead]
// and month against [1, 12].
func MonthYear(year, month int, now time.Time) Errors {
	return MonthYearWithin(year, month, DefaultMinYear, now.Year()+DefaultMaxYearsAhead)
}

// MonthYearWithin is MonthYear with explicit year bounds.
func MonthYearWithin(year, month, minYear, maxYear int) Errors {
	errs := Errors{}
	if err := validate.Var(year, fmt.Sprintf("gte=%d,lte=%d", minYear, maxYear)); err != nil {
		errs["year"] = fmt.Sprintf("year must be between %d and %d", minYear, maxYear)
	}
	if err := validate.Var(month, "gte=1,lte=12"); err != nil {
		errs["month"] = "month must be between 1 and 12"
	}
	return errs
}

// Date checks that value is a non-empty, well-formed ISO date and reports
// failures under field.
func Date(field, value string) Errors {
	errs := Errors{}
	err := validate.Var(value, "required,datetime=2006-01-02")
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		errs[field] = message(field, verrs[0].Tag())
	}
	return errs
}

// Normalize returns s in Unicode NFC form so that visually identical names
// and notes compare equal.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

func translate(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	switch tag {
	case "required", "notblank":
		return field + " is required"
	case "datetime":
		return field + " must be a valid date (YYYY-MM-DD)"
	case "gte", "lte":
		if field == "score" {
			return fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore)
		}
		return field + " is out of range"
	default:
		return field + " is invalid"
	}
}

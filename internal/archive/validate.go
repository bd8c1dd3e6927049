package archive

import (
	"strconv"
	"strings"
	"time"
)

const (
	minDay   = 1
	maxDay   = 31
	minMonth = 1
	maxMonth = 12
	minYear  = 1
)

// ValidFields are staged values that passed validation.
type ValidFields struct {
	Title string
	Day   int
	Month int
	Year  int
}

// Record builds the committed form of the fields.
func (f ValidFields) Record(seenInTheater bool) Record {
	return Record{
		Title:         f.Title,
		Day:           f.Day,
		Month:         f.Month,
		Year:          f.Year,
		SeenInTheater: seenInTheater,
	}
}

// Validator checks staged record fields. It has no side effects.
//
// Day, month, and year arrive as the text the shell collected, so unset
// placeholders such as "DD" or "" are rejected rather than coerced. Day and
// month are range-checked independently: 30 February passes. An empty title
// also passes; only the date is guarded here.
type Validator struct {
	now func() time.Time
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock overrides the clock used to bound the year.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator creates a Validator bounded by the current calendar year.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// MaxYear is the latest year a watch event may carry.
func (v *Validator) MaxYear() int {
	return v.now().Year()
}

// Validate checks day, month, and year and returns the parsed fields. The
// first failing part is reported as a *ValidationError that matches
// ErrMissingOrInvalidDate.
func (v *Validator) Validate(title, day, month, year string) (ValidFields, error) {
	d, err := parseDatePart("day", day, minDay, maxDay)
	if err != nil {
		return ValidFields{}, err
	}
	m, err := parseDatePart("month", month, minMonth, maxMonth)
	if err != nil {
		return ValidFields{}, err
	}
	y, err := parseDatePart("year", year, minYear, v.MaxYear())
	if err != nil {
		return ValidFields{}, err
	}
	return ValidFields{Title: title, Day: d, Month: m, Year: y}, nil
}

func parseDatePart(field, raw string, lo, hi int) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &ValidationError{Field: field, Reason: "missing"}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not a whole number"}
	}
	if n < lo || n > hi {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)}
	}
	return n, nil
}

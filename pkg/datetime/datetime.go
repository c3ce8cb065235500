// Package datetime models dates of varying certainty.
//
// A DateTime is one of three variants: WithPrecision, Range or Alternative.
// The set is sealed; consumers switch over the concrete types and treat any
// other value as a programming error.
package datetime

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/errs"
)

// Precision qualifies how certain a single date is.
type Precision uint8

const (
	Exact Precision = iota
	About
	Possibly
	Before
	After
)

var precisionNames = [...]string{"exact", "about", "possibly", "before", "after"}

// String returns the lowercase name of the precision.
func (p Precision) String() string {
	if int(p) < len(precisionNames) {
		return precisionNames[p]
	}
	return "precision(" + strconv.Itoa(int(p)) + ")"
}

// ParsePrecision parses a precision name as returned by String.
func ParsePrecision(s string) (Precision, error) {
	for i, name := range precisionNames {
		if strings.EqualFold(s, name) {
			return Precision(i), nil
		}
	}
	return 0, errs.New(errs.ErrInvalidValue, "unknown precision: %q", s)
}

// DateTime is implemented by WithPrecision, Range and Alternative only.
type DateTime interface {
	// Representative returns the instant used to sort this value.
	Representative() time.Time
	// Dates returns the calendar dates this value is built from.
	Dates() []calendar.Date
	fmt.Stringer

	sealed()
}

// WithPrecision is a single date with a certainty qualifier. The precision
// never changes what is stored, only what can be claimed about it.
type WithPrecision struct {
	Date      calendar.Date
	Precision Precision
}

// NewWithPrecision returns a date with the given precision. The date must be set.
func NewWithPrecision(date calendar.Date, precision Precision) (WithPrecision, error) {
	if date.IsZero() {
		return WithPrecision{}, errs.New(errs.ErrInvalidValue, "date must be set")
	}
	if int(precision) >= len(precisionNames) {
		return WithPrecision{}, errs.New(errs.ErrInvalidValue, "unknown precision: %d", precision)
	}
	return WithPrecision{Date: date, Precision: precision}, nil
}

// MustWithPrecision is like NewWithPrecision but panics on invalid input.
// Intended for literals in tests and tables.
func MustWithPrecision(date calendar.Date, precision Precision) WithPrecision {
	d, err := NewWithPrecision(date, precision)
	if err != nil {
		panic(err)
	}
	return d
}

func (d WithPrecision) Representative() time.Time { return d.Date.ToISO8601() }
func (d WithPrecision) Dates() []calendar.Date    { return []calendar.Date{d.Date} }
func (WithPrecision) sealed()                     {}

func (d WithPrecision) String() string {
	if d.Precision == Exact {
		return d.Date.String()
	}
	return d.Precision.String() + " " + d.Date.String()
}

// Range is an interval of dates with start <= end.
type Range struct {
	start calendar.Date
	end   calendar.Date
}

// NewRange returns the range [start, end]. Dates are compared by canonical
// instant, so they may belong to different calendars.
func NewRange(start, end calendar.Date) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, errs.New(errs.ErrInvalidRange, "range bounds must be set")
	}
	if start.Compare(end) > 0 {
		return Range{}, errs.New(errs.ErrInvalidRange,
			"range start %s is after end %s", start, end)
	}
	return Range{start: start, end: end}, nil
}

func (r Range) Start() calendar.Date      { return r.start }
func (r Range) End() calendar.Date        { return r.end }
func (r Range) Representative() time.Time { return r.start.ToISO8601() }
func (r Range) Dates() []calendar.Date    { return []calendar.Date{r.start, r.end} }
func (Range) sealed()                     {}

func (r Range) String() string {
	return "between " + r.start.String() + " and " + r.end.String()
}

// Alternative is a non-empty set of mutually exclusive candidate dates, in
// the order they were first given.
type Alternative struct {
	dates []calendar.Date
}

// NewAlternative returns an alternative over the given candidates. A
// candidate equal to an earlier one (same instant, same time-of-day
// presence) is dropped.
func NewAlternative(dates ...calendar.Date) (Alternative, error) {
	if len(dates) == 0 {
		return Alternative{}, errs.New(errs.ErrEmptyAlternative, "alternative needs at least one date")
	}
	out := make([]calendar.Date, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			return Alternative{}, errs.New(errs.ErrInvalidValue, "alternative contains an unset date")
		}
		if slices.ContainsFunc(out, d.Equal) {
			continue
		}
		out = append(out, d)
	}
	return Alternative{dates: out}, nil
}

// Validate reports an error when dt holds an unset date, which happens
// only when a variant is built as a literal.
func Validate(dt DateTime) error {
	if dt == nil {
		return nil
	}
	dates := dt.Dates()
	if len(dates) == 0 {
		return errs.New(errs.ErrEmptyAlternative, "alternative needs at least one date")
	}
	for _, d := range dates {
		if d.IsZero() {
			return errs.New(errs.ErrInvalidValue, "date must be set")
		}
	}
	return nil
}

func (a Alternative) Dates() []calendar.Date { return slices.Clone(a.dates) }
func (Alternative) sealed()                  {}

// Earliest returns the candidate with the smallest canonical instant.
func (a Alternative) Earliest() calendar.Date {
	return slices.MinFunc(a.dates, calendar.Date.Compare)
}

// Latest returns the candidate with the largest canonical instant.
func (a Alternative) Latest() calendar.Date {
	return slices.MaxFunc(a.dates, calendar.Date.Compare)
}

func (a Alternative) Representative() time.Time { return a.Earliest().ToISO8601() }

// DistinctYears returns the first candidate of each canonical year, keeping
// insertion order.
func (a Alternative) DistinctYears() []calendar.Date {
	seen := make(map[int]bool, len(a.dates))
	out := make([]calendar.Date, 0, len(a.dates))
	for _, d := range a.dates {
		y := d.ToISO8601().Year()
		if seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, d)
	}
	return out
}

func (a Alternative) String() string {
	parts := make([]string, len(a.dates))
	for i, d := range a.dates {
		parts[i] = d.String()
	}
	return strings.Join(parts, " or ")
}

// Compare orders a and b by representative instant, falling back to
// tieBreak when they are equal. tieBreak may be nil.
func Compare(a, b DateTime, tieBreak func() int) int {
	if c := a.Representative().Compare(b.Representative()); c != 0 {
		return c
	}
	if tieBreak != nil {
		return tieBreak()
	}
	return 0
}

// IsCertain reports whether dt is a single exact date.
func IsCertain(dt DateTime) bool {
	d, ok := dt.(WithPrecision)
	return ok && d.Precision == Exact
}

// CertainYear returns the year of dt in its own calendar when dt is certain.
func CertainYear(dt DateTime) (int, bool) {
	if !IsCertain(dt) {
		return 0, false
	}
	return dt.(WithPrecision).Date.Year(), true
}

// ExactlyMatches reports whether dt is an exact date falling on the same
// canonical day as date. Qualified dates, ranges and alternatives never match.
func ExactlyMatches(dt DateTime, date calendar.Date) bool {
	if !IsCertain(dt) {
		return false
	}
	a := dt.(WithPrecision).Date.ToISO8601()
	b := date.ToISO8601()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Label returns a compact year-level description of dt, such as "1990",
// "before 1990", "1990-1995" or "1990 or 1991".
func Label(dt DateTime) string {
	switch d := dt.(type) {
	case WithPrecision:
		y := strconv.Itoa(d.Date.Year())
		if d.Precision == Exact {
			return y
		}
		return d.Precision.String() + " " + y
	case Range:
		if d.start.Year() == d.end.Year() {
			return strconv.Itoa(d.start.Year())
		}
		return strconv.Itoa(d.start.Year()) + "-" + strconv.Itoa(d.end.Year())
	case Alternative:
		years := d.DistinctYears()
		parts := make([]string, len(years))
		for i, y := range years {
			parts[i] = strconv.Itoa(y.Year())
		}
		return strings.Join(parts, " or ")
	default:
		panic(fmt.Sprintf("datetime: unexpected variant %T", dt))
	}
}

// Equal reports whether a and b are the same variant over the same dates.
// Dates compare by calendar and components, not by instant.
func Equal(a, b DateTime) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case WithPrecision:
		y, ok := b.(WithPrecision)
		return ok && x == y
	case Range:
		y, ok := b.(Range)
		return ok && x == y
	case Alternative:
		y, ok := b.(Alternative)
		return ok && slices.Equal(x.dates, y.dates)
	default:
		panic(fmt.Sprintf("datetime: unexpected variant %T", a))
	}
}

// Convert re-expresses every date of dt in the given calendar.
func Convert(dt DateTime, to calendar.Calendar) DateTime {
	switch d := dt.(type) {
	case WithPrecision:
		return WithPrecision{Date: d.Date.Convert(to), Precision: d.Precision}
	case Range:
		return Range{start: d.start.Convert(to), end: d.end.Convert(to)}
	case Alternative:
		out := make([]calendar.Date, len(d.dates))
		for i, date := range d.dates {
			out[i] = date.Convert(to)
		}
		return Alternative{dates: out}
	default:
		panic(fmt.Sprintf("datetime: unexpected variant %T", dt))
	}
}

// Package calendar implements the historical calendar systems dates can be
// recorded in.
//
// The set of calendars is closed: Calendar is an enum and every switch over it
// handles all members. Each calendar converts between its own
// (year, month, day, hour, minute) and a canonical instant, a proleptic
// Gregorian time.Time in UTC.
//
// # Bounds
//
// All calendars use a 24 hour day of 60 minute hours except
// FrenchRepublicanDecimal, which uses decimal time (10 hours of 100 minutes).
// Converting to and from decimal time rounds to the nearest minute, so the
// time of day may drift by a minute on a round trip. The date never does.
//
// Years are limited to [MinYear, MaxYear] in every calendar.
package calendar

import (
	"fmt"
	"time"

	"github.com/dyluth/lineage/pkg/errs"
)

// Calendar identifies one of the supported calendar systems.
type Calendar uint8

const (
	// Gregorian is the proleptic Gregorian calendar, also the canonical calendar.
	Gregorian Calendar = iota + 1
	// Julian is the proleptic Julian calendar with astronomical year numbering.
	Julian
	// Coptic is the Coptic (Alexandrian) calendar, era of the Martyrs.
	Coptic
	// Ethiopian is the Ethiopian calendar, Amete Mihret era.
	Ethiopian
	// FrenchRepublican is the French republican calendar with standard time.
	FrenchRepublican
	// FrenchRepublicanDecimal is the French republican calendar with decimal time.
	FrenchRepublicanDecimal
)

// Year bounds accepted by GetDate. The canonical instant of any such date
// fits in a time.Time.
const (
	MinYear = -999_999_999
	MaxYear = 999_999_999
)

// All lists every calendar in declaration order.
var All = []Calendar{Gregorian, Julian, Coptic, Ethiopian, FrenchRepublican, FrenchRepublicanDecimal}

// Clock is an optional time of day, expressed in the units of a calendar.
type Clock struct {
	Hour   int
	Minute int
}

// Name returns the stable identifier of the calendar.
func (c Calendar) Name() string {
	switch c {
	case Gregorian:
		return "gregorian"
	case Julian:
		return "julian"
	case Coptic:
		return "coptic"
	case Ethiopian:
		return "ethiopian"
	case FrenchRepublican:
		return "french_republican"
	case FrenchRepublicanDecimal:
		return "french_republican_decimal"
	default:
		return fmt.Sprintf("calendar(%d)", uint8(c))
	}
}

// String implements fmt.Stringer.
func (c Calendar) String() string { return c.Name() }

// Validate reports whether c is a known calendar.
func (c Calendar) Validate() error {
	switch c {
	case Gregorian, Julian, Coptic, Ethiopian, FrenchRepublican, FrenchRepublicanDecimal:
		return nil
	default:
		return errs.New(errs.ErrUnknownKey, "unknown calendar: %d", uint8(c))
	}
}

// ForName returns the calendar with the given identifier.
func ForName(name string) (Calendar, error) {
	for _, c := range All {
		if c.Name() == name {
			return c, nil
		}
	}
	return 0, errs.New(errs.ErrUnknownKey, "unknown calendar: %q", name)
}

// HoursInDay returns the number of hours in a day of this calendar.
func (c Calendar) HoursInDay() int {
	if c == FrenchRepublicanDecimal {
		return 10
	}
	return 24
}

// MinutesInHour returns the number of minutes in an hour of this calendar.
func (c Calendar) MinutesInHour() int {
	if c == FrenchRepublicanDecimal {
		return 100
	}
	return 60
}

// MonthsInYear returns the number of months in a year, counting the
// epagomenal days of the 13-month calendars as a month.
func (c Calendar) MonthsInYear() int {
	switch c {
	case Gregorian, Julian:
		return 12
	case Coptic, Ethiopian, FrenchRepublican, FrenchRepublicanDecimal:
		return 13
	default:
		return 0
	}
}

// DaysInMonth returns the length of the given month, or 0 if month is out of range.
func (c Calendar) DaysInMonth(year, month int) int {
	if month < 1 || month > c.MonthsInYear() {
		return 0
	}
	switch c {
	case Gregorian:
		return gregorianMonthLength(year, month)
	case Julian:
		return julianMonthLength(year, month)
	case Coptic, Ethiopian:
		if month < 13 {
			return 30
		}
		if alexandrianLeap(year) {
			return 6
		}
		return 5
	case FrenchRepublican, FrenchRepublicanDecimal:
		if month < 13 {
			return 30
		}
		if republicanLeap(year) {
			return 6
		}
		return 5
	default:
		return 0
	}
}

// IsLeapYear reports whether year is a leap year in this calendar.
func (c Calendar) IsLeapYear(year int) bool {
	switch c {
	case Gregorian:
		return gregorianLeap(year)
	case Julian:
		return julianLeap(year)
	case Coptic, Ethiopian:
		return alexandrianLeap(year)
	case FrenchRepublican, FrenchRepublicanDecimal:
		return republicanLeap(year)
	default:
		return false
	}
}

// GetDate builds a date in this calendar. clock may be nil when the time of
// day is unknown. Every component is checked against this calendar's bounds.
func (c Calendar) GetDate(year, month, day int, clock *Clock) (Date, error) {
	if err := c.Validate(); err != nil {
		return Date{}, err
	}
	if year < MinYear || year > MaxYear {
		return Date{}, errs.New(errs.ErrOutOfRange,
			"%s: year out of range: expected [%d, %d], got %d", c.Name(), MinYear, MaxYear, year)
	}
	if month < 1 || month > c.MonthsInYear() {
		return Date{}, errs.New(errs.ErrOutOfRange,
			"%s: month out of range: expected [1, %d], got %d", c.Name(), c.MonthsInYear(), month)
	}
	if n := c.DaysInMonth(year, month); day < 1 || day > n {
		return Date{}, errs.New(errs.ErrOutOfRange,
			"%s: day out of range for %04d-%02d: expected [1, %d], got %d", c.Name(), year, month, n, day)
	}
	d := Date{calendar: c, year: year, month: month, day: day}
	if clock != nil {
		if clock.Hour < 0 || clock.Hour >= c.HoursInDay() {
			return Date{}, errs.New(errs.ErrOutOfRange,
				"%s: hour out of range: expected [0, %d[, got %d", c.Name(), c.HoursInDay(), clock.Hour)
		}
		if clock.Minute < 0 || clock.Minute >= c.MinutesInHour() {
			return Date{}, errs.New(errs.ErrOutOfRange,
				"%s: minute out of range: expected [0, %d[, got %d", c.Name(), c.MinutesInHour(), clock.Minute)
		}
		d.hour, d.minute, d.timeSet = clock.Hour, clock.Minute, true
	}
	return d, nil
}

// MustGetDate is like GetDate but panics on invalid input. Intended for
// literals in tests and tables.
func (c Calendar) MustGetDate(year, month, day int, clock *Clock) Date {
	d, err := c.GetDate(year, month, day, clock)
	if err != nil {
		panic(err)
	}
	return d
}

// ConvertDate converts a canonical instant into this calendar. timeSet
// records whether the time of day of instant is meaningful.
func (c Calendar) ConvertDate(instant time.Time, timeSet bool) Date {
	instant = instant.UTC()
	d := Date{calendar: c}
	switch c {
	case Gregorian:
		y, m, day := instant.Date()
		d.year, d.month, d.day = y, int(m), day
	case Julian:
		d.year, d.month, d.day = julianFromJDN(jdnOf(instant))
	case Coptic:
		d.year, d.month, d.day = alexandrianFromJDN(jdnOf(instant), copticEpoch)
	case Ethiopian:
		d.year, d.month, d.day = alexandrianFromJDN(jdnOf(instant), ethiopianEpoch)
	case FrenchRepublican, FrenchRepublicanDecimal:
		d.year, d.month, d.day = republicanFromJDN(jdnOf(instant))
	}
	if timeSet {
		d.timeSet = true
		if c == FrenchRepublicanDecimal {
			d.hour, d.minute = toDecimalTime(instant.Hour(), instant.Minute())
		} else {
			d.hour, d.minute = instant.Hour(), instant.Minute()
		}
	}
	return d
}

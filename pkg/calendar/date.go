package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/lineage/pkg/errs"
)

// Date is a date, with an optional time of day, expressed in one calendar.
// The zero value is not a valid date; build dates with Calendar.GetDate,
// Calendar.ConvertDate or ParseDate.
type Date struct {
	calendar Calendar
	year     int
	month    int
	day      int
	hour     int
	minute   int
	timeSet  bool
}

func (d Date) Calendar() Calendar { return d.calendar }
func (d Date) Year() int          { return d.year }
func (d Date) Month() int         { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) Hour() int          { return d.hour }
func (d Date) Minute() int        { return d.minute }
func (d Date) IsTimeSet() bool    { return d.timeSet }
func (d Date) IsZero() bool       { return d.calendar == 0 }

// Clock returns the time of day, or nil when it is not set.
func (d Date) Clock() *Clock {
	if !d.timeSet {
		return nil
	}
	return &Clock{Hour: d.hour, Minute: d.minute}
}

// ToISO8601 returns the canonical instant of d. Dates without a time of day
// map to midnight UTC.
func (d Date) ToISO8601() time.Time {
	var midnight time.Time
	switch d.calendar {
	case Gregorian:
		midnight = time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, time.UTC)
	case Julian:
		midnight = instantOf(julianToJDN(d.year, d.month, d.day))
	case Coptic:
		midnight = instantOf(alexandrianToJDN(d.year, d.month, d.day, copticEpoch))
	case Ethiopian:
		midnight = instantOf(alexandrianToJDN(d.year, d.month, d.day, ethiopianEpoch))
	case FrenchRepublican, FrenchRepublicanDecimal:
		midnight = instantOf(republicanToJDN(d.year, d.month, d.day))
	default:
		return time.Time{}
	}
	if !d.timeSet {
		return midnight
	}
	hour, minute := d.hour, d.minute
	if d.calendar == FrenchRepublicanDecimal {
		hour, minute = fromDecimalTime(hour, minute)
	}
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Convert expresses d in another calendar.
func (d Date) Convert(to Calendar) Date {
	if to == d.calendar {
		return d
	}
	return to.ConvertDate(d.ToISO8601(), d.timeSet)
}

// Compare orders two dates by canonical instant.
func (d Date) Compare(other Date) int {
	return d.ToISO8601().Compare(other.ToISO8601())
}

// Equal reports whether two dates denote the same instant, whatever their calendars.
func (d Date) Equal(other Date) bool {
	return d.Compare(other) == 0 && d.timeSet == other.timeSet
}

// FormatLocal formats the date in its own calendar, without the calendar name.
// Layout: YYYY-MM-DD or YYYY-MM-DDTHH:MM.
func (d Date) FormatLocal() string {
	var b strings.Builder
	if d.year < 0 {
		fmt.Fprintf(&b, "%05d", d.year)
	} else {
		fmt.Fprintf(&b, "%04d", d.year)
	}
	fmt.Fprintf(&b, "-%02d-%02d", d.month, d.day)
	if d.timeSet {
		fmt.Fprintf(&b, "T%02d:%02d", d.hour, d.minute)
	}
	return b.String()
}

// String returns the textual form accepted by ParseDate: the local date
// followed by ";" and the calendar name.
func (d Date) String() string {
	return d.FormatLocal() + ";" + d.calendar.Name()
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, errs.New(errs.ErrInvalidValue, "cannot marshal zero date")
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses "YYYY-MM-DD[THH:MM];calendar". The calendar suffix may be
// omitted, in which case the Gregorian calendar is assumed.
func ParseDate(s string) (Date, error) {
	local, name, found := strings.Cut(strings.TrimSpace(s), ";")
	cal := Gregorian
	if found {
		c, err := ForName(strings.TrimSpace(name))
		if err != nil {
			return Date{}, err
		}
		cal = c
	}
	return cal.ParseLocal(local)
}

// ParseLocal parses "YYYY-MM-DD[THH:MM]" as a date of this calendar.
func (c Calendar) ParseLocal(s string) (Date, error) {
	datePart, timePart, hasTime := strings.Cut(strings.TrimSpace(s), "T")

	negative := strings.HasPrefix(datePart, "-")
	fields := strings.Split(strings.TrimPrefix(datePart, "-"), "-")
	if len(fields) != 3 {
		return Date{}, errs.New(errs.ErrInvalidValue, "invalid date format: %q (expected YYYY-MM-DD)", s)
	}
	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Date{}, errs.New(errs.ErrInvalidValue, "invalid date format: %q", s)
		}
		nums[i] = n
	}
	if negative {
		nums[0] = -nums[0]
	}

	var clock *Clock
	if hasTime {
		h, m, ok := strings.Cut(timePart, ":")
		if !ok {
			return Date{}, errs.New(errs.ErrInvalidValue, "invalid time format: %q (expected HH:MM)", s)
		}
		hour, err := strconv.Atoi(h)
		if err != nil {
			return Date{}, errs.New(errs.ErrInvalidValue, "invalid hour in %q", s)
		}
		minute, err := strconv.Atoi(m)
		if err != nil {
			return Date{}, errs.New(errs.ErrInvalidValue, "invalid minute in %q", s)
		}
		clock = &Clock{Hour: hour, Minute: minute}
	}
	return c.GetDate(nums[0], nums[1], nums[2], clock)
}

package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/errs"
)

func gregorianDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKnownConversions(t *testing.T) {
	tests := []struct {
		name     string
		cal      Calendar
		y, m, d  int
		expected time.Time
	}{
		{"julian reform", Julian, 1582, 10, 5, gregorianDay(1582, time.October, 15)},
		{"julian modern", Julian, 2024, 1, 1, gregorianDay(2024, time.January, 14)},
		{"coptic new year 1740", Coptic, 1740, 1, 1, gregorianDay(2023, time.September, 12)},
		{"coptic epoch", Coptic, 1, 1, 1, gregorianDay(284, time.August, 29)},
		{"ethiopian new year 2016", Ethiopian, 2016, 1, 1, gregorianDay(2023, time.September, 12)},
		{"republican epoch", FrenchRepublican, 1, 1, 1, gregorianDay(1792, time.September, 22)},
		{"republican year IV", FrenchRepublican, 4, 1, 1, gregorianDay(1795, time.September, 23)},
		{"18 brumaire VIII", FrenchRepublican, 8, 2, 18, gregorianDay(1799, time.November, 9)},
		{"gregorian identity", Gregorian, 1990, 6, 15, gregorianDay(1990, time.June, 15)},
		{"gregorian bc", Gregorian, -43, 3, 15, gregorianDay(-43, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.cal.GetDate(tt.y, tt.m, tt.d, nil)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(d.ToISO8601()), "expected %v, got %v", tt.expected, d.ToISO8601())

			back := tt.cal.ConvertDate(tt.expected, false)
			assert.Equal(t, tt.y, back.Year())
			assert.Equal(t, tt.m, back.Month())
			assert.Equal(t, tt.d, back.Day())
			assert.False(t, back.IsTimeSet())
		})
	}
}

func TestRoundTripAllCalendars(t *testing.T) {
	for _, cal := range All {
		t.Run(cal.Name(), func(t *testing.T) {
			clock := &Clock{Hour: cal.HoursInDay() - 1, Minute: cal.MinutesInHour() / 2}
			for year := -10; year <= 2100; year += 37 {
				for month := 1; month <= cal.MonthsInYear(); month++ {
					for _, day := range []int{1, cal.DaysInMonth(year, month)} {
						d, err := cal.GetDate(year, month, day, clock)
						require.NoError(t, err)

						back := cal.ConvertDate(d.ToISO8601(), true)
						require.Equal(t, [3]int{year, month, day}, [3]int{back.Year(), back.Month(), back.Day()},
							"date component must round-trip for %s", d)
						if cal != FrenchRepublicanDecimal {
							assert.Equal(t, clock.Hour, back.Hour())
							assert.Equal(t, clock.Minute, back.Minute())
						}
					}
				}
			}
		})
	}
}

func TestGetDateBounds(t *testing.T) {
	tests := []struct {
		name    string
		cal     Calendar
		y, m, d int
		clock   *Clock
		valid   bool
	}{
		{"gregorian 1900 not leap", Gregorian, 1900, 2, 29, nil, false},
		{"gregorian 2000 leap", Gregorian, 2000, 2, 29, nil, true},
		{"julian 1900 leap", Julian, 1900, 2, 29, nil, true},
		{"gregorian month 13", Gregorian, 2000, 13, 1, nil, false},
		{"gregorian day 0", Gregorian, 2000, 1, 0, nil, false},
		{"coptic leap epagomenal", Coptic, 1739, 13, 6, nil, true},
		{"coptic common epagomenal", Coptic, 1740, 13, 6, nil, false},
		{"coptic month 14", Coptic, 1740, 14, 1, nil, false},
		{"ethiopian pagume 5", Ethiopian, 2016, 13, 5, nil, true},
		{"republican sextile III", FrenchRepublican, 3, 13, 6, nil, true},
		{"republican common II", FrenchRepublican, 2, 13, 6, nil, false},
		{"hour 24", Gregorian, 2000, 1, 1, &Clock{Hour: 24}, false},
		{"hour 23 minute 59", Gregorian, 2000, 1, 1, &Clock{Hour: 23, Minute: 59}, true},
		{"minute 60", Julian, 2000, 1, 1, &Clock{Minute: 60}, false},
		{"negative hour", Coptic, 1700, 1, 1, &Clock{Hour: -1}, false},
		{"decimal hour 9 minute 99", FrenchRepublicanDecimal, 10, 1, 1, &Clock{Hour: 9, Minute: 99}, true},
		{"decimal hour 10", FrenchRepublicanDecimal, 10, 1, 1, &Clock{Hour: 10}, false},
		{"decimal minute 60", FrenchRepublicanDecimal, 10, 1, 1, &Clock{Hour: 1, Minute: 60}, true},
		{"standard republican hour 12", FrenchRepublican, 10, 1, 1, &Clock{Hour: 12}, true},
		{"max year", Gregorian, MaxYear, 12, 31, nil, true},
		{"min year", Julian, MinYear, 1, 1, nil, true},
		{"year above max", Gregorian, MaxYear + 1, 1, 1, nil, false},
		{"year below min", Coptic, MinYear - 1, 1, 1, nil, false},
		{"huge year", Ethiopian, 1_000_000_000_000, 1, 1, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cal.GetDate(tt.y, tt.m, tt.d, tt.clock)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrOutOfRange))
			assert.True(t, errors.Is(err, errs.ErrValidation))
		})
	}
}

func TestRoundTripAtYearBounds(t *testing.T) {
	for _, cal := range All {
		t.Run(cal.Name(), func(t *testing.T) {
			for _, year := range []int{MinYear, MaxYear} {
				month := cal.MonthsInYear()
				if year == MinYear {
					month = 1
				}
				d, err := cal.GetDate(year, month, 1, nil)
				require.NoError(t, err)

				back := cal.ConvertDate(d.ToISO8601(), false)
				assert.Equal(t, [3]int{year, month, 1}, [3]int{back.Year(), back.Month(), back.Day()})
			}
		})
	}
}

func TestParseDateRejectsHugeYear(t *testing.T) {
	_, err := ParseDate("1000000000000-01-01;gregorian")
	require.Error(t, err)
}

func TestDecimalTime(t *testing.T) {
	t.Run("converts standard time to decimal", func(t *testing.T) {
		instant := time.Date(1794, time.July, 27, 14, 30, 0, 0, time.UTC)
		d := FrenchRepublicanDecimal.ConvertDate(instant, true)

		assert.Equal(t, 6, d.Hour())
		assert.Equal(t, 4, d.Minute())
		assert.Equal(t, FrenchRepublican.ConvertDate(instant, false).Day(), d.Day())
	})

	t.Run("noon is five decimal hours", func(t *testing.T) {
		d := FrenchRepublicanDecimal.ConvertDate(time.Date(1800, time.January, 1, 12, 0, 0, 0, time.UTC), true)
		assert.Equal(t, 5, d.Hour())
		assert.Equal(t, 0, d.Minute())
	})

	t.Run("round trip drifts at most one minute", func(t *testing.T) {
		for minute := 0; minute < minutesPerDay; minute += 7 {
			instant := time.Date(1800, time.March, 3, minute/60, minute%60, 0, 0, time.UTC)
			back := FrenchRepublicanDecimal.ConvertDate(instant, true).ToISO8601()
			diff := back.Sub(instant)
			assert.LessOrEqual(t, diff.Abs(), time.Minute, "minute %d", minute)
		}
	})
}

func TestParseDate(t *testing.T) {
	t.Run("parses full form", func(t *testing.T) {
		d, err := ParseDate("1990-06-15T14:30;gregorian")
		require.NoError(t, err)
		assert.Equal(t, Gregorian, d.Calendar())
		assert.Equal(t, 1990, d.Year())
		assert.True(t, d.IsTimeSet())
		assert.Equal(t, "1990-06-15T14:30;gregorian", d.String())
	})

	t.Run("defaults to gregorian", func(t *testing.T) {
		d, err := ParseDate("1850-01-02")
		require.NoError(t, err)
		assert.Equal(t, Gregorian, d.Calendar())
		assert.False(t, d.IsTimeSet())
	})

	t.Run("negative years", func(t *testing.T) {
		d, err := ParseDate("-0043-03-15;julian")
		require.NoError(t, err)
		assert.Equal(t, -43, d.Year())
		assert.Equal(t, "-0043-03-15;julian", d.String())
	})

	t.Run("rejects unknown calendar", func(t *testing.T) {
		_, err := ParseDate("1990-06-15;mayan")
		assert.True(t, errors.Is(err, errs.ErrUnknownKey))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "1990-06", "1990/06/15", "1990-06-15T14", "1990-06-15Txx:10"} {
			_, err := ParseDate(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("text round trip", func(t *testing.T) {
		orig := Coptic.MustGetDate(1700, 13, 5, &Clock{Hour: 3, Minute: 7})
		text, err := orig.MarshalText()
		require.NoError(t, err)

		var parsed Date
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, orig, parsed)
	})
}

func TestConvertBetweenCalendars(t *testing.T) {
	g := Gregorian.MustGetDate(2023, 9, 12, nil)

	assert.Equal(t, "1740-01-01;coptic", g.Convert(Coptic).String())
	assert.Equal(t, "2016-01-01;ethiopian", g.Convert(Ethiopian).String())
	assert.True(t, g.Equal(g.Convert(Julian)))
	assert.Equal(t, 0, g.Compare(g.Convert(FrenchRepublican)))
}

func TestForName(t *testing.T) {
	for _, cal := range All {
		got, err := ForName(cal.Name())
		require.NoError(t, err)
		assert.Equal(t, cal, got)
	}
	_, err := ForName("hebrew")
	assert.Error(t, err)
	assert.Error(t, Calendar(0).Validate())
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "June", Gregorian.MonthName(6))
	assert.Equal(t, "Brumaire", FrenchRepublican.MonthName(2))
	assert.Equal(t, "Pagume", Ethiopian.MonthName(13))
	assert.Equal(t, "", Julian.MonthName(13))
}

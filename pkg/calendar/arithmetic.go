package calendar

import (
	"math"
	"time"
)

// Day counts are Julian Day Numbers (JDN): the integer day starting at noon
// UTC, with 1970-01-01 Gregorian being JDN 2440588.
const (
	unixEpochJDN   = 2440588
	copticEpoch    = 1825030 // 1 Thout 1 AM = 29 August 284 Julian
	ethiopianEpoch = 1724221 // 1 Meskerem 1 = 27 August 8 Julian
	republicanJDN  = 2375840 // 1 Vendémiaire I = 22 September 1792 Gregorian
	secondsPerDay  = 86400
	minutesPerDay  = 1440
	decimalPerDay  = 1000
)

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

func gregorianLeap(year int) bool {
	return floorMod(year, 4) == 0 && (floorMod(year, 100) != 0 || floorMod(year, 400) == 0)
}

func julianLeap(year int) bool {
	return floorMod(year, 4) == 0
}

// alexandrianLeap covers the Coptic and Ethiopian calendars, whose sixth
// epagomenal day falls in the year preceding a Julian leap year.
func alexandrianLeap(year int) bool {
	return floorMod(year, 4) == 3
}

// republicanLeap uses the continuous rule: year N is sextile when Gregorian
// year N+1 is a leap year. This matches the historical sextile years III, VII and XI.
func republicanLeap(year int) bool {
	return gregorianLeap(year + 1)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func gregorianMonthLength(year, month int) int {
	if month == 2 && gregorianLeap(year) {
		return 29
	}
	return monthLengths[month-1]
}

func julianMonthLength(year, month int) int {
	if month == 2 && julianLeap(year) {
		return 29
	}
	return monthLengths[month-1]
}

// jdnOf returns the JDN of the UTC calendar day of instant.
func jdnOf(instant time.Time) int {
	y, m, d := instant.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return floorDiv(int(midnight.Unix()), secondsPerDay) + unixEpochJDN
}

// instantOf returns midnight UTC of the given JDN.
func instantOf(jdn int) time.Time {
	return time.Unix(int64(jdn-unixEpochJDN)*secondsPerDay, 0).UTC()
}

func julianToJDN(year, month, day int) int {
	a := floorDiv(14-month, 12)
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - 32083
}

func julianFromJDN(jdn int) (year, month, day int) {
	c := jdn + 32082
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = d - 4800 + floorDiv(m, 10)
	return year, month, day
}

// alexandrianDaysBefore returns the number of days between the epoch and the
// first day of year.
func alexandrianDaysBefore(year int) int {
	return 365*(year-1) + floorDiv(year, 4)
}

func alexandrianToJDN(year, month, day, epoch int) int {
	return epoch + alexandrianDaysBefore(year) + 30*(month-1) + day - 1
}

func alexandrianFromJDN(jdn, epoch int) (year, month, day int) {
	n := jdn - epoch
	year = floorDiv(4*n+1463, 1461)
	for n < alexandrianDaysBefore(year) {
		year--
	}
	for n >= alexandrianDaysBefore(year+1) {
		year++
	}
	doy := n - alexandrianDaysBefore(year)
	return year, doy/30 + 1, doy%30 + 1
}

func gregorianLeapsThrough(year int) int {
	return floorDiv(year, 4) - floorDiv(year, 100) + floorDiv(year, 400)
}

// republicanDaysBefore returns the number of days between 1 Vendémiaire I and
// the first day of year. Leap years in [1, year-1] are exactly the Gregorian
// leap years in [2, year].
func republicanDaysBefore(year int) int {
	return 365*(year-1) + gregorianLeapsThrough(year)
}

func republicanToJDN(year, month, day int) int {
	return republicanJDN + republicanDaysBefore(year) + 30*(month-1) + day - 1
}

func republicanFromJDN(jdn int) (year, month, day int) {
	n := jdn - republicanJDN
	year = floorDiv(n*400, 146097) + 1
	for n < republicanDaysBefore(year) {
		year--
	}
	for n >= republicanDaysBefore(year+1) {
		year++
	}
	doy := n - republicanDaysBefore(year)
	return year, doy/30 + 1, doy%30 + 1
}

// toDecimalTime converts a standard time of day to decimal hours and minutes.
func toDecimalTime(hour, minute int) (int, int) {
	std := hour*60 + minute
	dec := int(math.Round(float64(std) * decimalPerDay / minutesPerDay))
	if dec >= decimalPerDay {
		dec = decimalPerDay - 1
	}
	return dec / 100, dec % 100
}

// fromDecimalTime converts decimal hours and minutes to a standard time of day.
func fromDecimalTime(hour, minute int) (int, int) {
	dec := hour*100 + minute
	std := int(math.Round(float64(dec) * minutesPerDay / decimalPerDay))
	if std >= minutesPerDay {
		std = minutesPerDay - 1
	}
	return std / 60, std % 60
}

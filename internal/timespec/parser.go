package timespec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
)

var precisionPrefixes = map[byte]datetime.Precision{
	'~': datetime.About,
	'?': datetime.Possibly,
	'<': datetime.Before,
	'>': datetime.After,
}

// Parse parses a date specification given on the command line.
// Supports three forms, each built from dates in the
// "YYYY-MM-DD[THH:MM][;calendar]" format:
//   - single date with an optional precision prefix: "1990-06-15", "~1990-06-15;julian",
//     where '~' is about, '?' possibly, '<' before and '>' after
//   - range: "1990-01-01..1995-12-31"
//   - alternative: "1989-05-01|1991-03-01"
func Parse(spec string) (datetime.DateTime, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty date specification")
	}

	if start, end, ok := strings.Cut(spec, ".."); ok {
		s, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		e, err := parseDate(end)
		if err != nil {
			return nil, err
		}
		r, err := datetime.NewRange(s, e)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	if strings.Contains(spec, "|") {
		parts := strings.Split(spec, "|")
		dates := make([]calendar.Date, len(parts))
		for i, part := range parts {
			d, err := parseDate(part)
			if err != nil {
				return nil, err
			}
			dates[i] = d
		}
		a, err := datetime.NewAlternative(dates...)
		if err != nil {
			return nil, err
		}
		return a, nil
	}

	precision := datetime.Exact
	if p, ok := precisionPrefixes[spec[0]]; ok {
		precision = p
		spec = spec[1:]
	}
	d, err := parseDate(spec)
	if err != nil {
		return nil, err
	}
	dt, err := datetime.NewWithPrecision(d, precision)
	if err != nil {
		return nil, err
	}
	return dt, nil
}

func parseDate(s string) (calendar.Date, error) {
	d, err := calendar.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date specification: %s (use YYYY-MM-DD[THH:MM][;calendar]): %w", s, err)
	}
	return d, nil
}

// ParseYearRange parses both --born-since and --born-until flags into a year range.
// Zero values indicate "no bound" for that end of the range.
//
// Validates that since <= until if both are specified.
func ParseYearRange(since, until string) (int, int, error) {
	var sinceYear, untilYear int
	var err error

	if since != "" {
		sinceYear, err = parseYear(since)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --born-since: %w", err)
		}
	}

	if until != "" {
		untilYear, err = parseYear(until)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --born-until: %w", err)
		}
	}

	if since != "" && until != "" && sinceYear > untilYear {
		return 0, 0, fmt.Errorf("--born-since must not be after --born-until")
	}

	return sinceYear, untilYear, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a year: %s", s)
	}
	if y == 0 {
		return 0, fmt.Errorf("year 0 cannot be used as a bound")
	}
	return y, nil
}

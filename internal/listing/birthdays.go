package listing

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/genealogy"
)

// Birthday is one entry of the birthday calendar. Month and day are those of
// the canonical Gregorian date.
type Birthday struct {
	Person    *genealogy.Person
	Month     time.Month
	Day       int
	Year      int
	Uncertain bool
}

// BirthdayOptions narrows CollectBirthdays.
type BirthdayOptions struct {
	Month        time.Month // 0 = every month
	SkipDeceased bool
}

// CollectBirthdays returns the birthdays of persons in tree, ordered by month
// and day, then by last and first names. Ranges, alternatives and dates
// qualified with before or after carry no usable day and are skipped. Other
// non-exact dates are kept and flagged uncertain.
func CollectBirthdays(tree *genealogy.FamilyTree, opts BirthdayOptions) []Birthday {
	var out []Birthday
	for _, p := range tree.Persons() {
		if opts.SkipDeceased && p.LifeStatus() == genealogy.Deceased {
			continue
		}
		d, ok := p.BirthDate().(datetime.WithPrecision)
		if !ok || d.Precision == datetime.Before || d.Precision == datetime.After {
			continue
		}
		iso := d.Date.ToISO8601()
		if opts.Month != 0 && iso.Month() != opts.Month {
			continue
		}
		out = append(out, Birthday{
			Person:    p,
			Month:     iso.Month(),
			Day:       iso.Day(),
			Year:      iso.Year(),
			Uncertain: d.Precision != datetime.Exact,
		})
	}

	byName := genealogy.LastThenFirstNames()
	slices.SortStableFunc(out, func(a, b Birthday) int {
		if a.Month != b.Month {
			return int(a.Month) - int(b.Month)
		}
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return byName(a.Person, b.Person)
	})
	return out
}

// FormatBirthdays writes birthdays grouped by month, with a count per month.
func FormatBirthdays(w io.Writer, birthdays []Birthday) {
	if len(birthdays) == 0 {
		fmt.Fprintln(w, "No birthdays found")
		return
	}

	for i := 0; i < len(birthdays); {
		month := birthdays[i].Month
		j := i
		for j < len(birthdays) && birthdays[j].Month == month {
			j++
		}
		fmt.Fprintf(w, "%s (%d)\n", month, j-i)
		for _, b := range birthdays[i:j] {
			marker := ""
			if b.Uncertain {
				marker = " (uncertain)"
			}
			fmt.Fprintf(w, "  %2d  %-30s %d%s\n", b.Day, b.Person.Label(), b.Year, marker)
		}
		i = j
	}
}

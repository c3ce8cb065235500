package genealogy

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dyluth/lineage/pkg/datetime"
)

// LastThenFirstNames returns a comparator ordering persons by last name, then
// first names, then disambiguation id. Names are compared with the root
// Unicode collation, ignoring case.
//
// The returned function is not safe for concurrent use.
func LastThenFirstNames() func(a, b *Person) int {
	return lastThenFirstNames(collate.New(language.Und, collate.IgnoreCase))
}

func lastThenFirstNames(c *collate.Collator) func(a, b *Person) int {
	return func(a, b *Person) int {
		if r := c.CompareString(a.LastName(), b.LastName()); r != 0 {
			return r
		}
		if r := c.CompareString(strings.Join(a.FirstNames(), " "), strings.Join(b.FirstNames(), " ")); r != 0 {
			return r
		}
		switch {
		case a.disambiguationID < b.disambiguationID:
			return -1
		case a.disambiguationID > b.disambiguationID:
			return 1
		}
		return 0
	}
}

// BirthDateThenName returns a comparator ordering persons by birth date.
// Persons without a birth date always sort last; ties fall back to
// LastThenFirstNames in ascending order. Use with slices.SortStableFunc to
// keep remaining ties in input order.
//
// The returned function is not safe for concurrent use.
func BirthDateThenName(ascending bool) func(a, b *Person) int {
	byName := LastThenFirstNames()
	return func(a, b *Person) int {
		da, db := a.BirthDate(), b.BirthDate()
		switch {
		case da == nil && db == nil:
			return byName(a, b)
		case da == nil:
			return 1
		case db == nil:
			return -1
		}
		if r := datetime.Compare(da, db, nil); r != 0 {
			if !ascending {
				return -r
			}
			return r
		}
		return byName(a, b)
	}
}

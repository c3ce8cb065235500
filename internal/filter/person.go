package filter

import (
	"path/filepath"
	"strings"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/genealogy"
)

// Criteria defines filtering criteria for persons.
// All filters are ANDed together - a person must match ALL criteria to pass.
type Criteria struct {
	NameGlob  string                // Glob pattern matched against the full name, case-insensitive, empty = no filter
	Status    *genealogy.LifeStatus // Exact life status, nil = no filter
	Gender    string                // Gender key such as "builtin:female", empty = no filter
	BornSince int                   // Earliest birth year, 0 = no filter
	BornUntil int                   // Latest birth year, 0 = no filter
}

// Matches returns true if the person matches all filter criteria.
// Empty/zero criteria values are treated as "match all" for that criterion.
func (c *Criteria) Matches(p *genealogy.Person) bool {
	if c.NameGlob != "" {
		matched, err := filepath.Match(strings.ToLower(c.NameGlob), strings.ToLower(p.FullName()))
		if err != nil || !matched {
			return false
		}
	}

	if c.Status != nil && p.LifeStatus() != *c.Status {
		return false
	}

	if c.Gender != "" && (p.Gender() == nil || p.Gender().Key().String() != c.Gender) {
		return false
	}

	// Year filtering uses the birth date's canonical year, so an uncertain
	// birth date passes when its representative instant is in bounds.
	if c.BornSince != 0 || c.BornUntil != 0 {
		birth := p.BirthDate()
		if birth == nil {
			return false
		}
		year := birthYear(birth)
		if c.BornSince != 0 && year < c.BornSince {
			return false
		}
		if c.BornUntil != 0 && year > c.BornUntil {
			return false
		}
	}

	return true
}

func birthYear(dt datetime.DateTime) int {
	return dt.Representative().Year()
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.NameGlob != "" ||
		c.Status != nil ||
		c.Gender != "" ||
		c.BornSince != 0 ||
		c.BornUntil != 0
}

// Apply returns the persons matching c, keeping their order.
func (c *Criteria) Apply(persons []*genealogy.Person) []*genealogy.Person {
	if !c.HasFilters() {
		return persons
	}
	out := make([]*genealogy.Person, 0, len(persons))
	for _, p := range persons {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

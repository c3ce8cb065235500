package genealogy

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
)

func named(first, last string) *Person {
	p := NewPerson()
	p.SetLegalFirstNames([]string{first})
	p.SetLegalLastName(last)
	return p
}

func TestLastThenFirstNames(t *testing.T) {
	persons := []*Person{
		named("Zoé", "Martin"),
		named("émile", "Martin"),
		named("Anne", "Ébert"),
		named("Bob", "dupont"),
		named("Adam", "Martin"),
	}
	slices.SortStableFunc(persons, LastThenFirstNames())

	var got []string
	for _, p := range persons {
		got = append(got, p.FullName())
	}
	assert.Equal(t, []string{"Bob dupont", "Anne Ébert", "Adam Martin", "émile Martin", "Zoé Martin"}, got)
}

func TestBirthDateThenName(t *testing.T) {
	tree := NewFamilyTree("t")
	born := func(first string, dt datetime.DateTime) *Person {
		p := named(first, "Doe")
		require.NoError(t, tree.AddPerson(p))
		if dt != nil {
			addEvent(t, tree, "birth", dt, p)
		}
		return p
	}

	julian := datetime.MustWithPrecision(calendar.Julian.MustGetDate(1899, 12, 25, nil), datetime.Exact) // 1900-01-06
	r, err := datetime.NewRange(calendar.Gregorian.MustGetDate(1890, 1, 1, nil), calendar.Gregorian.MustGetDate(1895, 1, 1, nil))
	require.NoError(t, err)

	carl := born("Carl", exactDate(1900, 1, 6))
	anna := born("Anna", julian)
	nobody := born("Zed", nil)
	early := born("Eve", r)
	alsoNobody := born("Abe", nil)

	persons := []*Person{nobody, carl, anna, alsoNobody, early}

	asc := slices.Clone(persons)
	slices.SortStableFunc(asc, BirthDateThenName(true))
	assert.Equal(t, []*Person{early, anna, carl, alsoNobody, nobody}, asc)

	desc := slices.Clone(persons)
	slices.SortStableFunc(desc, BirthDateThenName(false))
	assert.Equal(t, []*Person{anna, carl, early, alsoNobody, nobody}, desc,
		"persons without birth date stay last")
}

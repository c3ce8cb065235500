package genealogy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

// newTestTree returns a tree with n named persons. The first one is root.
func newTestTree(t *testing.T, names ...string) (*FamilyTree, []*Person) {
	t.Helper()
	tree := NewFamilyTree("test")
	persons := make([]*Person, len(names))
	for i, name := range names {
		p := NewPerson()
		p.SetLegalFirstNames([]string{name})
		p.SetLegalLastName("Doe")
		require.NoError(t, tree.AddPerson(p))
		persons[i] = p
	}
	return tree, persons
}

func exactDate(y, m, d int) datetime.DateTime {
	return datetime.MustWithPrecision(calendar.Gregorian.MustGetDate(y, m, d, nil), datetime.Exact)
}

// addEvent attaches a new event of the built-in type name to the given actors.
func addEvent(t *testing.T, tree *FamilyTree, name string, date datetime.DateTime, actors ...*Person) *LifeEvent {
	t.Helper()
	e, err := NewLifeEvent(date, tree.LifeEventTypes().Entry(BuiltinKey(name)))
	require.NoError(t, err)
	require.NoError(t, tree.SetLifeEventActors(e, actors))
	return e
}

func TestNewPerson(t *testing.T) {
	p := NewPerson()
	assert.Equal(t, Living, p.LifeStatus())
	assert.Nil(t, p.Gender())
	assert.Empty(t, p.LastName())
	assert.Empty(t, p.FirstNames())
	assert.Equal(t, "?", p.FullName())
	a, b := p.Parents()
	assert.Nil(t, a)
	assert.Nil(t, b)
	assert.Empty(t, p.Children())
	assert.Empty(t, p.LifeEvents())
}

func TestPersonNames(t *testing.T) {
	p := NewPerson()
	p.SetLegalLastName(" Martin ")
	p.SetLegalFirstNames([]string{"Jean", " ", "Paul"})
	assert.Equal(t, "Jean Paul Martin", p.FullName())

	p.SetPublicLastName("Marty")
	p.SetPublicFirstNames([]string{"JP"})
	assert.Equal(t, "JP Marty", p.FullName())
	assert.Equal(t, []string{"Jean", "Paul"}, p.LegalFirstNames())

	require.NoError(t, p.SetDisambiguationID(2))
	assert.Equal(t, "JP Marty (#2)", p.Label())
	assert.Error(t, p.SetDisambiguationID(-1))
}

func TestSetParent(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		_, ps := newTestTree(t, "a")
		for slot := range 2 {
			err := ps[0].SetParent(slot, ps[0])
			assert.True(t, errors.Is(err, errs.ErrSelfReference))
		}
	})

	t.Run("duplicate parent", func(t *testing.T) {
		_, ps := newTestTree(t, "child", "mother")
		child, mother := ps[0], ps[1]
		require.NoError(t, child.SetParent(0, mother))

		err := child.SetParent(1, mother)
		assert.True(t, errors.Is(err, errs.ErrDuplicateParent))
		a, b := child.Parents()
		assert.Same(t, mother, a)
		assert.Nil(t, b)
	})

	t.Run("invalid slot", func(t *testing.T) {
		_, ps := newTestTree(t, "a", "b")
		assert.True(t, errors.Is(ps[0].SetParent(2, ps[1]), errs.ErrInvalidParentSlot))
		assert.True(t, errors.Is(ps[0].SetParent(-1, ps[1]), errs.ErrInvalidParentSlot))
	})

	t.Run("different trees", func(t *testing.T) {
		_, a := newTestTree(t, "a")
		_, b := newTestTree(t, "b")
		assert.True(t, errors.Is(a[0].SetParent(0, b[0]), errs.ErrNotInTree))
	})

	t.Run("replacing a parent updates children", func(t *testing.T) {
		_, ps := newTestTree(t, "child", "p1", "p2")
		child, p1, p2 := ps[0], ps[1], ps[2]
		require.NoError(t, child.SetParent(0, p1))
		assert.Equal(t, []*Person{child}, p1.Children())

		require.NoError(t, child.SetParent(0, p2))
		assert.Empty(t, p1.Children())
		assert.Equal(t, []*Person{child}, p2.Children())

		require.NoError(t, child.SetParent(0, nil))
		assert.Empty(t, p2.Children())
	})

	t.Run("slots never hold the same person", func(t *testing.T) {
		_, ps := newTestTree(t, "child", "a", "b", "c")
		child := ps[0]
		seq := []struct {
			slot   int
			parent *Person
		}{{0, ps[1]}, {1, ps[2]}, {1, ps[1]}, {0, ps[2]}, {0, ps[3]}, {1, ps[3]}, {1, ps[2]}, {0, nil}, {0, ps[2]}}
		for _, step := range seq {
			_ = child.SetParent(step.slot, step.parent)
			a, b := child.Parents()
			if a != nil && b != nil {
				assert.NotSame(t, a, b)
			}
		}
	})
}

func TestSiblings(t *testing.T) {
	_, ps := newTestTree(t, "mother", "father", "other", "a", "b", "half", "reversed")
	mother, father, other, a, b, half, reversed := ps[0], ps[1], ps[2], ps[3], ps[4], ps[5], ps[6]
	for _, c := range []*Person{a, b} {
		require.NoError(t, c.SetParent(0, mother))
		require.NoError(t, c.SetParent(1, father))
	}
	require.NoError(t, half.SetParent(0, mother))
	require.NoError(t, half.SetParent(1, other))
	require.NoError(t, reversed.SetParent(0, father))
	require.NoError(t, reversed.SetParent(1, mother))

	assert.True(t, a.HasBothParents())
	assert.ElementsMatch(t, []*Person{b, reversed}, a.SameParentsSiblings())
	assert.Equal(t, []*Person{half}, a.HalfSiblings())
	assert.Empty(t, mother.SameParentsSiblings())

	groups := mother.PartnersAndChildren()
	require.Len(t, groups, 2)
	assert.Same(t, father, groups[0].Partner)
	assert.Equal(t, []*Person{a, b, reversed}, groups[0].Children)
	assert.Same(t, other, groups[1].Partner)
}

func TestPartnersAndChildren(t *testing.T) {
	tree, ps := newTestTree(t, "p", "spouse", "co", "c1", "c2")
	p, spouse, co, c1, c2 := ps[0], ps[1], ps[2], ps[3], ps[4]
	require.NoError(t, c1.SetParent(1, p))
	require.NoError(t, c2.SetParent(0, p))
	require.NoError(t, c2.SetParent(1, co))
	addEvent(t, tree, "marriage", nil, p, spouse)

	groups := p.PartnersAndChildren()
	require.Len(t, groups, 3)
	assert.Same(t, co, groups[0].Partner)
	assert.Equal(t, []*Person{c2}, groups[0].Children)
	assert.Same(t, spouse, groups[1].Partner)
	assert.Empty(t, groups[1].Children)
	assert.Nil(t, groups[2].Partner, "unknown co-parent comes last")
	assert.Equal(t, []*Person{c1}, groups[2].Children)
}

func TestRelatives(t *testing.T) {
	_, ps := newTestTree(t, "child", "godmother")
	child, godmother := ps[0], ps[1]

	require.NoError(t, child.AddRelative(godmother, Godparent))
	assert.Equal(t, []*Person{godmother}, child.Relatives(Godparent))
	assert.Equal(t, []*Person{child}, godmother.NonBiologicalChildren(Godparent))
	assert.Empty(t, godmother.Relatives(Godparent), "relations are not mirrored")
	assert.Empty(t, child.Relatives(FosterParent))

	assert.True(t, errors.Is(child.AddRelative(child, Godparent), errs.ErrSelfReference))
	assert.True(t, errors.Is(child.AddRelative(godmother, RelativeType(7)), errs.ErrInvalidValue))

	require.NoError(t, child.RemoveRelative(godmother, Godparent))
	assert.Empty(t, child.Relatives(Godparent))
	assert.Empty(t, godmother.NonBiologicalChildren(Godparent))
}

func TestRelativeTypeNames(t *testing.T) {
	for i, rt := range RelativeTypes {
		assert.Equal(t, i, int(rt))
		parsed, err := ParseRelativeType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, parsed)
	}
	_, err := ParseRelativeType("uncle")
	assert.Error(t, err)
}

func TestLifeStatus(t *testing.T) {
	t.Run("death event forces deceased", func(t *testing.T) {
		tree, ps := newTestTree(t, "p")
		p := ps[0]
		e := addEvent(t, tree, "death", exactDate(1950, 1, 1), p)

		assert.Equal(t, Deceased, p.LifeStatus())
		assert.True(t, p.IsLifeStatusLocked())
		assert.True(t, errors.Is(p.SetLifeStatus(Living), errs.ErrLifeStatusLocked))

		require.NoError(t, tree.RemoveLifeEvent(e))
		assert.Equal(t, Deceased, p.LifeStatus(), "status is not reverted")
		assert.False(t, p.IsLifeStatusLocked())
		require.NoError(t, p.SetLifeStatus(Living))
		assert.Equal(t, Living, p.LifeStatus())
	})

	t.Run("explicit choice", func(t *testing.T) {
		p := NewPerson()
		require.NoError(t, p.SetLifeStatus(Deceased))
		require.NoError(t, p.SetLifeStatus(Living))
		assert.Error(t, p.SetLifeStatus(LifeStatus(9)))
	})

	t.Run("parse", func(t *testing.T) {
		s, err := ParseLifeStatus("DECEASED")
		require.NoError(t, err)
		assert.Equal(t, Deceased, s)
		_, err = ParseLifeStatus("undead")
		assert.Error(t, err)
	})
}

func TestBirthAndDeathDates(t *testing.T) {
	tree, ps := newTestTree(t, "p")
	p := ps[0]
	assert.Nil(t, p.BirthDate())
	assert.Nil(t, p.DeathDate())

	addEvent(t, tree, "birth", exactDate(1900, 5, 1), p)
	addEvent(t, tree, "burial", exactDate(1980, 3, 9), p)
	addEvent(t, tree, "death", exactDate(1980, 3, 2), p)
	addEvent(t, tree, "cremation", nil, p)

	assert.True(t, datetime.Equal(exactDate(1900, 5, 1), p.BirthDate()))
	assert.True(t, datetime.Equal(exactDate(1980, 3, 2), p.DeathDate()))
}

func TestSetGender(t *testing.T) {
	tree, ps := newTestTree(t, "p")
	female := tree.Genders().Entry(BuiltinKey("female"))
	require.NoError(t, ps[0].SetGender(female))
	assert.Same(t, female, ps[0].Gender())

	foreign := NewGenderRegistry().Entry(BuiltinKey("male"))
	assert.True(t, errors.Is(ps[0].SetGender(foreign), errs.ErrUnknownKey))
	require.NoError(t, ps[0].SetGender(nil))
	assert.Nil(t, ps[0].Gender())
}

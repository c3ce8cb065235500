package genealogy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

func TestAddPersonAndRoot(t *testing.T) {
	tree := NewFamilyTree("  Doe family ")
	assert.Equal(t, "Doe family", tree.Name())
	assert.Nil(t, tree.Root())

	p1, p2 := NewPerson(), NewPerson()
	require.NoError(t, tree.AddPerson(p1))
	require.NoError(t, tree.AddPerson(p2))
	assert.Same(t, p1, tree.Root(), "first person becomes root")
	assert.Equal(t, 2, tree.Len())

	got, ok := tree.Person(p2.ID())
	require.True(t, ok)
	assert.Same(t, p2, got)

	assert.True(t, errors.Is(tree.AddPerson(p1), errs.ErrAlreadyInTree))
	assert.True(t, errors.Is(NewFamilyTree("other").AddPerson(p1), errs.ErrAlreadyInTree))

	require.NoError(t, tree.SetRoot(p2))
	assert.Same(t, p2, tree.Root())
	assert.True(t, errors.Is(tree.SetRoot(NewPerson()), errs.ErrNotInTree))
	assert.True(t, errors.Is(tree.SetRoot(nil), errs.ErrNotInTree))
}

func TestRemovePerson(t *testing.T) {
	t.Run("root with other members is refused", func(t *testing.T) {
		tree, ps := newTestTree(t, "P1", "P2")
		p1, p2 := ps[0], ps[1]
		require.NoError(t, p2.SetParent(0, p1))

		err := tree.RemovePerson(p1)
		assert.True(t, errors.Is(err, errs.ErrRootRemoval))
		assert.True(t, tree.IsMember(p1))
		assert.Same(t, p1, p2.Parent(0))
		assert.Same(t, p1, tree.Root())
	})

	t.Run("root can be removed after reassignment", func(t *testing.T) {
		tree, ps := newTestTree(t, "P1", "P2")
		p1, p2 := ps[0], ps[1]
		require.NoError(t, p2.SetParent(0, p1))
		require.NoError(t, tree.SetRoot(p2))

		require.NoError(t, tree.RemovePerson(p1))
		assert.Nil(t, p2.Parent(0))
		assert.Nil(t, p1.Tree())
		assert.Equal(t, []*Person{p2}, tree.Persons())
	})

	t.Run("sole root can be removed", func(t *testing.T) {
		tree, ps := newTestTree(t, "P1")
		require.NoError(t, tree.RemovePerson(ps[0]))
		assert.Nil(t, tree.Root())
		assert.Zero(t, tree.Len())
	})

	t.Run("not a member", func(t *testing.T) {
		tree, _ := newTestTree(t, "P1")
		assert.True(t, errors.Is(tree.RemovePerson(NewPerson()), errs.ErrNotInTree))
	})

	t.Run("scrubs every reference", func(t *testing.T) {
		tree, ps := newTestTree(t, "root", "gone", "parent", "child", "godchild", "godparent")
		_, gone, parent, child, godchild, godparent := ps[0], ps[1], ps[2], ps[3], ps[4], ps[5]
		require.NoError(t, gone.SetParent(0, parent))
		require.NoError(t, child.SetParent(1, gone))
		require.NoError(t, godchild.AddRelative(gone, Godparent))
		require.NoError(t, gone.AddRelative(godparent, Godparent))

		require.NoError(t, tree.RemovePerson(gone))

		assert.Empty(t, parent.Children())
		assert.Nil(t, child.Parent(1))
		assert.Empty(t, godchild.Relatives(Godparent))
		assert.Empty(t, godparent.NonBiologicalChildren(Godparent))
		_, ok := tree.Person(gone.ID())
		assert.False(t, ok)
	})

	t.Run("event below minimum actors is deleted", func(t *testing.T) {
		tree, ps := newTestTree(t, "root", "a", "b")
		root, a, b := ps[0], ps[1], ps[2]
		marriage := addEvent(t, tree, "marriage", exactDate(1920, 6, 1), a, b)
		birth := addEvent(t, tree, "birth", exactDate(1900, 1, 1), a)
		require.NoError(t, tree.AddWitness(marriage, root))

		require.NoError(t, tree.RemovePerson(a))

		assert.NotContains(t, tree.LifeEvents(), marriage)
		assert.NotContains(t, tree.LifeEvents(), birth)
		assert.Empty(t, b.LifeEvents())
		assert.Empty(t, root.WitnessedEvents())
		assert.Nil(t, marriage.Tree())
	})

	t.Run("event keeping enough actors survives", func(t *testing.T) {
		tree, ps := newTestTree(t, "root", "a", "b")
		a, b := ps[1], ps[2]
		typ, err := tree.LifeEventTypes().RegisterEntry(mustUserKey(t, "journey"), "Journey",
			LifeEventTypeArgs{Group: GroupOther, MinActors: 1, MaxActors: 2})
		require.NoError(t, err)
		e, err := NewLifeEvent(nil, typ)
		require.NoError(t, err)
		require.NoError(t, tree.SetLifeEventActors(e, []*Person{a, b}))

		require.NoError(t, tree.RemovePerson(a))
		assert.Contains(t, tree.LifeEvents(), e)
		assert.Equal(t, []*Person{b}, e.Actors())
	})

	t.Run("witness only removal keeps the event", func(t *testing.T) {
		tree, ps := newTestTree(t, "root", "actor", "witness")
		actor, witness := ps[1], ps[2]
		e := addEvent(t, tree, "baptism", exactDate(1901, 2, 3), actor)
		require.NoError(t, tree.AddWitness(e, witness))

		require.NoError(t, tree.RemovePerson(witness))
		assert.Contains(t, tree.LifeEvents(), e)
		assert.Empty(t, e.Witnesses())
		assert.Equal(t, []*Person{actor}, e.Actors())
	})
}

func mustUserKey(t *testing.T, name string) RegistryEntryKey {
	t.Helper()
	k, err := UserKey(name)
	require.NoError(t, err)
	return k
}

func TestSetLifeEventActors(t *testing.T) {
	t.Run("actor count", func(t *testing.T) {
		tree, ps := newTestTree(t, "a", "b", "c")
		marriage, err := NewLifeEvent(nil, tree.LifeEventTypes().Entry(BuiltinKey("marriage")))
		require.NoError(t, err)

		assert.True(t, errors.Is(tree.SetLifeEventActors(marriage, ps[:1]), errs.ErrActorCount))
		assert.True(t, errors.Is(tree.SetLifeEventActors(marriage, ps), errs.ErrActorCount))
		assert.True(t, errors.Is(tree.SetLifeEventActors(marriage, []*Person{ps[0], ps[0]}), errs.ErrActorCount),
			"duplicates count once")
		assert.Empty(t, tree.LifeEvents(), "failed calls do not attach")

		require.NoError(t, tree.SetLifeEventActors(marriage, ps[:2]))
		assert.Equal(t, ps[:2], marriage.Actors())
		assert.Same(t, tree, marriage.Tree())
	})

	t.Run("unique type on second event", func(t *testing.T) {
		tree, ps := newTestTree(t, "a")
		addEvent(t, tree, "birth", exactDate(1900, 1, 1), ps[0])

		second, err := NewLifeEvent(exactDate(1901, 1, 1), tree.LifeEventTypes().Entry(BirthKey))
		require.NoError(t, err)
		err = tree.SetLifeEventActors(second, ps)
		assert.True(t, errors.Is(err, errs.ErrUniqueTypeViolation))
		assert.Len(t, ps[0].LifeEvents(), 1)
	})

	t.Run("resetting the same event is not a violation", func(t *testing.T) {
		tree, ps := newTestTree(t, "a", "b")
		birth := addEvent(t, tree, "birth", nil, ps[0])
		require.NoError(t, tree.SetLifeEventActors(birth, ps[:1]))
		require.NoError(t, tree.SetLifeEventActors(birth, ps[1:]))
		assert.Empty(t, ps[0].LifeEvents())
		assert.Equal(t, []*LifeEvent{birth}, ps[1].LifeEvents())
	})

	t.Run("non unique types can repeat", func(t *testing.T) {
		tree, ps := newTestTree(t, "a")
		addEvent(t, tree, "residence", nil, ps[0])
		addEvent(t, tree, "residence", nil, ps[0])
		assert.Len(t, ps[0].LifeEvents(), 2)
	})

	t.Run("actors must be members", func(t *testing.T) {
		tree, _ := newTestTree(t, "a")
		e, err := NewLifeEvent(nil, tree.LifeEventTypes().Entry(BirthKey))
		require.NoError(t, err)
		assert.True(t, errors.Is(tree.SetLifeEventActors(e, []*Person{NewPerson()}), errs.ErrNotInTree))
		assert.True(t, errors.Is(tree.SetLifeEventActors(e, []*Person{nil}), errs.ErrInvalidValue))
	})

	t.Run("type from another registry", func(t *testing.T) {
		tree, ps := newTestTree(t, "a")
		e, err := NewLifeEvent(nil, NewLifeEventTypeRegistry().Entry(BirthKey))
		require.NoError(t, err)
		assert.True(t, errors.Is(tree.SetLifeEventActors(e, ps), errs.ErrUnknownKey))
	})

	t.Run("event from another tree", func(t *testing.T) {
		tree1, ps1 := newTestTree(t, "a")
		tree2, ps2 := newTestTree(t, "b")
		e := addEvent(t, tree1, "residence", nil, ps1[0])
		assert.True(t, errors.Is(tree2.SetLifeEventActors(e, ps2), errs.ErrNotInTree))
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := NewLifeEvent(nil, nil)
		assert.True(t, errors.Is(err, errs.ErrMissingType))
	})

	t.Run("unset date is rejected", func(t *testing.T) {
		birth := NewLifeEventTypeRegistry().Entry(BirthKey)
		_, err := NewLifeEvent(datetime.WithPrecision{}, birth)
		assert.True(t, errors.Is(err, errs.ErrInvalidValue))

		e, err := NewLifeEvent(exactDate(1900, 1, 1), birth)
		require.NoError(t, err)
		assert.True(t, errors.Is(e.SetDate(datetime.WithPrecision{}), errs.ErrInvalidValue))
		assert.True(t, datetime.Equal(exactDate(1900, 1, 1), e.Date()), "rejected date leaves the event unchanged")
		require.NoError(t, e.SetDate(nil))
		assert.Nil(t, e.Date())
	})
}

func TestWitnesses(t *testing.T) {
	tree, ps := newTestTree(t, "a", "w1", "w2")
	e := addEvent(t, tree, "graduation", nil, ps[0])

	require.NoError(t, tree.AddWitness(e, ps[1]))
	require.NoError(t, tree.AddWitness(e, ps[2]))
	require.NoError(t, tree.AddWitness(e, ps[1]))
	assert.Equal(t, ps[1:], e.Witnesses())
	assert.Equal(t, []*LifeEvent{e}, ps[1].WitnessedEvents())

	assert.True(t, errors.Is(tree.AddWitness(e, ps[0]), errs.ErrActorWitnessOverlap))
	assert.True(t, errors.Is(tree.SetLifeEventActors(e, ps[1:2]), errs.ErrActorWitnessOverlap))

	require.NoError(t, tree.RemoveWitness(e, ps[1]))
	assert.Equal(t, ps[2:], e.Witnesses())
	assert.Empty(t, ps[1].WitnessedEvents())

	detached, err := NewLifeEvent(nil, tree.LifeEventTypes().Entry(BirthKey))
	require.NoError(t, err)
	assert.True(t, errors.Is(tree.AddWitness(detached, ps[1]), errs.ErrNotInTree))
}

func TestSetLifeEventType(t *testing.T) {
	tree, ps := newTestTree(t, "a", "b")
	a := ps[0]
	e := addEvent(t, tree, "residence", nil, a)

	marriage := tree.LifeEventTypes().Entry(BuiltinKey("marriage"))
	assert.True(t, errors.Is(tree.SetLifeEventType(e, marriage), errs.ErrActorCount))
	assert.Equal(t, BuiltinKey("residence"), e.Type().Key())

	addEvent(t, tree, "burial", nil, a)
	require.NoError(t, tree.SetLifeEventType(e, tree.LifeEventTypes().Entry(DeathKey)))
	assert.Equal(t, Deceased, a.LifeStatus())

	other := addEvent(t, tree, "residence", nil, a)
	assert.True(t, errors.Is(tree.SetLifeEventType(other, tree.LifeEventTypes().Entry(DeathKey)), errs.ErrUniqueTypeViolation))
	assert.True(t, errors.Is(tree.SetLifeEventType(other, nil), errs.ErrMissingType))
}

func TestRemoveRegistryEntries(t *testing.T) {
	t.Run("gender is unset on persons", func(t *testing.T) {
		tree, ps := newTestTree(t, "a")
		key := mustUserKey(t, "nonbinary")
		g, err := tree.Genders().RegisterEntry(key, "Non-binary", GenderArgs{Color: "#AA11BB"})
		require.NoError(t, err)
		require.NoError(t, ps[0].SetGender(g))

		require.NoError(t, tree.RemoveGender(key))
		assert.Nil(t, ps[0].Gender())
		assert.True(t, errors.Is(tree.RemoveGender(BuiltinKey("male")), errs.ErrBuiltinEntry))
	})

	t.Run("event type in use", func(t *testing.T) {
		tree, ps := newTestTree(t, "a")
		key := mustUserKey(t, "knighting")
		typ, err := tree.LifeEventTypes().RegisterEntry(key, "Knighting",
			LifeEventTypeArgs{Group: GroupDistinction, MinActors: 1, MaxActors: 1})
		require.NoError(t, err)
		e, err := NewLifeEvent(nil, typ)
		require.NoError(t, err)
		require.NoError(t, tree.SetLifeEventActors(e, ps))

		assert.True(t, errors.Is(tree.RemoveLifeEventType(key), errs.ErrEntryInUse))
		require.NoError(t, tree.RemoveLifeEvent(e))
		require.NoError(t, tree.RemoveLifeEventType(key))
		assert.True(t, errors.Is(tree.RemoveLifeEventType(BirthKey), errs.ErrBuiltinEntry))
	})
}

func TestPictures(t *testing.T) {
	tree, ps := newTestTree(t, "a")
	p := ps[0]
	e := addEvent(t, tree, "birth", nil, p)

	pic, err := NewPicture("portrait.jpg", "pictures/portrait.jpg")
	require.NoError(t, err)
	require.NoError(t, tree.AddPicture(pic))
	assert.True(t, errors.Is(tree.AddPicture(pic), errs.ErrAlreadyInTree))
	assert.True(t, errors.Is(pic.SetDate(datetime.Alternative{}), errs.ErrEmptyAlternative))
	require.NoError(t, pic.SetDate(exactDate(1920, 6, 1)))

	assert.True(t, errors.Is(tree.AddPictureToObject("missing.jpg", p), errs.ErrUnknownPicture))
	assert.True(t, errors.Is(tree.SetMainPictureOfObject("portrait.jpg", p), errs.ErrUnknownPicture),
		"main picture must be attached first")

	require.NoError(t, tree.AddPictureToObject("portrait.jpg", p))
	require.NoError(t, tree.AddPictureToObject("portrait.jpg", e))
	require.NoError(t, tree.SetMainPictureOfObject("portrait.jpg", p))
	assert.Same(t, pic, p.MainPicture())
	assert.Equal(t, []*Picture{pic}, e.Pictures())

	assert.True(t, errors.Is(tree.AddPictureToObject("portrait.jpg", NewPerson()), errs.ErrNotInTree))

	require.NoError(t, tree.RemovePicture("portrait.jpg"))
	assert.Nil(t, p.MainPicture())
	assert.Empty(t, p.Pictures())
	assert.Empty(t, e.Pictures())
	assert.Nil(t, tree.Picture("portrait.jpg"))

	_, err = NewPicture(" ", "")
	assert.Error(t, err)
}

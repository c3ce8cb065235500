package document

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dyluth/lineage/pkg/errs"
	"github.com/dyluth/lineage/pkg/genealogy"
)

// Build constructs a family tree from doc. Construction happens in two
// phases: every person is allocated first, then parent, relative, actor and
// witness indices are resolved against the allocated persons. Any failure
// discards the partially built tree.
func Build(doc *Document) (*genealogy.FamilyTree, error) {
	if doc.Version > CurrentVersion {
		return nil, errs.New(errs.ErrInvalidValue, "unsupported document version %d (max %d)", doc.Version, CurrentVersion)
	}
	b := &builder{doc: doc, tree: genealogy.NewFamilyTree(doc.Name)}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"registries", b.registries},
		{"pictures", b.pictures},
		{"persons", b.allocatePersons},
		{"relations", b.resolveRelations},
		{"life events", b.lifeEvents},
		{"root", b.root},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return b.tree, nil
}

type builder struct {
	doc     *Document
	tree    *genealogy.FamilyTree
	persons []*genealogy.Person
}

func parseKey(s string) (genealogy.RegistryEntryKey, error) {
	k, err := genealogy.ParseKey(s)
	if err != nil {
		return genealogy.RegistryEntryKey{}, errs.New(errs.ErrUnknownKey, "invalid registry key %q", s)
	}
	return k, nil
}

func (b *builder) registries() error {
	reg := b.doc.Registries
	genders := b.tree.Genders()
	for _, gc := range reg.GenderColors {
		key, err := parseKey(gc.Key)
		if err != nil {
			return err
		}
		if !key.IsBuiltin() || !genders.ContainsKey(key) {
			return errs.New(errs.ErrUnknownKey, "color override for unknown built-in gender %s", key)
		}
		if err := genders.SetColor(key, gc.Color); err != nil {
			return err
		}
	}
	for _, g := range reg.Genders {
		key, err := parseKey(g.Key)
		if err != nil {
			return err
		}
		if _, err := genders.RegisterEntry(key, g.Label, genealogy.GenderArgs{Color: g.Color, Icon: g.Icon}); err != nil {
			return err
		}
	}
	types := b.tree.LifeEventTypes()
	for _, lt := range reg.LifeEventTypes {
		key, err := parseKey(lt.Key)
		if err != nil {
			return err
		}
		args := genealogy.LifeEventTypeArgs{
			Group:          genealogy.Group(lt.Group),
			IndicatesDeath: lt.IndicatesDeath,
			IndicatesUnion: lt.IndicatesUnion,
			MinActors:      lt.MinActors,
			MaxActors:      lt.MaxActors,
			Unique:         lt.Unique,
		}
		if _, err := types.RegisterEntry(key, lt.Label, args); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) pictures() error {
	for i, pd := range b.doc.Pictures {
		pic, err := genealogy.NewPicture(pd.Name, pd.Location)
		if err != nil {
			return fmt.Errorf("picture %d: %w", i, err)
		}
		pic.SetDescription(pd.Description)
		date, err := DecodeDate(pd.Date)
		if err != nil {
			return fmt.Errorf("picture %q: %w", pd.Name, err)
		}
		if err := pic.SetDate(date); err != nil {
			return fmt.Errorf("picture %q: %w", pd.Name, err)
		}
		if err := b.tree.AddPicture(pic); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) attachPictures(obj genealogy.GenealogyObject, names []string, main string) error {
	for _, name := range names {
		if err := b.tree.AddPictureToObject(name, obj); err != nil {
			return err
		}
	}
	if main != "" {
		return b.tree.SetMainPictureOfObject(main, obj)
	}
	return nil
}

func (b *builder) allocatePersons() error {
	b.persons = make([]*genealogy.Person, len(b.doc.Persons))
	for i, pd := range b.doc.Persons {
		p, err := b.newPerson(pd)
		if err != nil {
			return fmt.Errorf("person %d: %w", i, err)
		}
		if err := b.tree.AddPerson(p); err != nil {
			return fmt.Errorf("person %d: %w", i, err)
		}
		if err := b.attachPictures(p, pd.Pictures, pd.MainPicture); err != nil {
			return fmt.Errorf("person %d: %w", i, err)
		}
		b.persons[i] = p
	}
	return nil
}

func (b *builder) newPerson(pd PersonDescriptor) (*genealogy.Person, error) {
	p := genealogy.NewPerson()
	if pd.ID != "" {
		id, err := uuid.Parse(pd.ID)
		if err != nil {
			return nil, errs.New(errs.ErrInvalidValue, "invalid person id %q", pd.ID)
		}
		p = genealogy.NewPersonWithID(id)
	}
	p.SetLegalLastName(pd.LegalLastName)
	p.SetPublicLastName(pd.PublicLastName)
	p.SetLegalFirstNames(pd.LegalFirstNames)
	p.SetPublicFirstNames(pd.PublicFirstNames)
	p.SetNicknames(pd.Nicknames)
	p.SetMainOccupation(pd.MainOccupation)
	p.SetNotes(pd.Notes)
	p.SetSources(pd.Sources)
	if err := p.SetDisambiguationID(pd.DisambiguationID); err != nil {
		return nil, err
	}
	if err := p.SetLifeStatus(genealogy.LifeStatus(pd.LifeStatus)); err != nil {
		return nil, err
	}
	if pd.Gender != "" {
		key, err := parseKey(pd.Gender)
		if err != nil {
			return nil, err
		}
		g := b.tree.Genders().Entry(key)
		if g == nil {
			return nil, errs.New(errs.ErrUnknownKey, "unknown gender %s", key)
		}
		if err := p.SetGender(g); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// person resolves a person index.
func (b *builder) person(i int) (*genealogy.Person, error) {
	if i < 0 || i >= len(b.persons) {
		return nil, errs.New(errs.ErrReferenceResolution,
			"person index %d out of range [0, %d)", i, len(b.persons))
	}
	return b.persons[i], nil
}

func (b *builder) resolveRelations() error {
	for i, pd := range b.doc.Persons {
		p := b.persons[i]
		for slot, ref := range []*int{pd.Parent1, pd.Parent2} {
			if ref == nil {
				continue
			}
			parent, err := b.person(*ref)
			if err != nil {
				return fmt.Errorf("person %d parent: %w", i, err)
			}
			if err := p.SetParent(slot, parent); err != nil {
				return fmt.Errorf("person %d: %w", i, err)
			}
		}
		types := make([]string, 0, len(pd.Relatives))
		for name := range pd.Relatives {
			types = append(types, name)
		}
		slices.Sort(types)
		for _, name := range types {
			rt, err := genealogy.ParseRelativeType(name)
			if err != nil {
				return fmt.Errorf("person %d: %w", i, err)
			}
			for _, ref := range pd.Relatives[name] {
				relative, err := b.person(ref)
				if err != nil {
					return fmt.Errorf("person %d %s: %w", i, name, err)
				}
				if err := p.AddRelative(relative, rt); err != nil {
					return fmt.Errorf("person %d: %w", i, err)
				}
			}
		}
	}
	return nil
}

func (b *builder) resolveAll(refs []int) ([]*genealogy.Person, error) {
	out := make([]*genealogy.Person, 0, len(refs))
	for _, ref := range refs {
		p, err := b.person(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (b *builder) lifeEvents() error {
	for i, ed := range b.doc.LifeEvents {
		if err := b.lifeEvent(ed); err != nil {
			return fmt.Errorf("life event %d: %w", i, err)
		}
	}
	return nil
}

func (b *builder) lifeEvent(ed LifeEventDescriptor) error {
	if ed.Type == "" {
		return errs.New(errs.ErrMissingType, "life event type must be set")
	}
	key, err := parseKey(ed.Type)
	if err != nil {
		return err
	}
	typ := b.tree.LifeEventTypes().Entry(key)
	if typ == nil {
		return errs.New(errs.ErrUnknownKey, "unknown life event type %s", key)
	}
	date, err := DecodeDate(ed.Date)
	if err != nil {
		return err
	}
	id := uuid.New()
	if ed.ID != "" {
		if id, err = uuid.Parse(ed.ID); err != nil {
			return errs.New(errs.ErrInvalidValue, "invalid life event id %q", ed.ID)
		}
	}
	e, err := genealogy.NewLifeEventWithID(id, date, typ)
	if err != nil {
		return err
	}
	e.SetNotes(ed.Notes)
	e.SetSources(ed.Sources)
	if ed.Place != nil {
		if err := e.SetPlace(decodePlace(ed.Place)); err != nil {
			return err
		}
	}

	actors, err := b.resolveAll(ed.Actors)
	if err != nil {
		return fmt.Errorf("actors: %w", err)
	}
	witnesses, err := b.resolveAll(ed.Witnesses)
	if err != nil {
		return fmt.Errorf("witnesses: %w", err)
	}
	if err := b.tree.SetLifeEventActors(e, actors); err != nil {
		return err
	}
	for _, w := range witnesses {
		if err := b.tree.AddWitness(e, w); err != nil {
			return err
		}
	}
	return b.attachPictures(e, ed.Pictures, ed.MainPicture)
}

func decodePlace(pd *PlaceDescriptor) *genealogy.Place {
	pl := &genealogy.Place{Address: pd.Address}
	if pd.Lat != nil && pd.Lon != nil {
		pl.LatLon = &genealogy.LatLon{Lat: *pd.Lat, Lon: *pd.Lon}
	}
	return pl
}

func (b *builder) root() error {
	if b.doc.Root == nil {
		return nil
	}
	p, err := b.person(*b.doc.Root)
	if err != nil {
		return err
	}
	return b.tree.SetRoot(p)
}

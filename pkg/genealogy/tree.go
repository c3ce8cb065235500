package genealogy

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dyluth/lineage/pkg/errs"
)

// FamilyTree is the aggregate owning persons, life events, pictures and the
// two registries. Every operation validates fully before mutating anything,
// so a failed call leaves the tree unchanged.
type FamilyTree struct {
	name       string
	persons    orderedSet[*Person]
	byID       map[uuid.UUID]*Person
	events     orderedSet[*LifeEvent]
	root       *Person
	genders    *GenderRegistry
	eventTypes *LifeEventTypeRegistry
	pictures   map[string]*Picture
	picOrder   orderedSet[string]
}

// NewFamilyTree returns an empty tree with freshly seeded registries.
func NewFamilyTree(name string) *FamilyTree {
	return &FamilyTree{
		name:       strings.TrimSpace(name),
		byID:       make(map[uuid.UUID]*Person),
		genders:    NewGenderRegistry(),
		eventTypes: NewLifeEventTypeRegistry(),
		pictures:   make(map[string]*Picture),
	}
}

func (t *FamilyTree) Name() string                           { return t.name }
func (t *FamilyTree) SetName(name string)                    { t.name = strings.TrimSpace(name) }
func (t *FamilyTree) Root() *Person                          { return t.root }
func (t *FamilyTree) Genders() *GenderRegistry               { return t.genders }
func (t *FamilyTree) LifeEventTypes() *LifeEventTypeRegistry { return t.eventTypes }
func (t *FamilyTree) Len() int                               { return t.persons.len() }

// Persons returns the members in insertion order.
func (t *FamilyTree) Persons() []*Person { return t.persons.values() }

// Person looks up a member by id.
func (t *FamilyTree) Person(id uuid.UUID) (*Person, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// LifeEvents returns the attached events in attachment order.
func (t *FamilyTree) LifeEvents() []*LifeEvent { return t.events.values() }

// IsMember reports whether p belongs to t.
func (t *FamilyTree) IsMember(p *Person) bool { return p != nil && p.tree == t }

// AddPerson adds a detached person. The first person added becomes root.
func (t *FamilyTree) AddPerson(p *Person) error {
	if p == nil {
		return errs.New(errs.ErrInvalidValue, "person must be set")
	}
	if p.tree != nil {
		return errs.New(errs.ErrAlreadyInTree, "%s already belongs to a tree", p.Label())
	}
	if _, ok := t.byID[p.id]; ok {
		return errs.New(errs.ErrAlreadyInTree, "a person with id %s is already in the tree", p.id)
	}
	if p.gender != nil && !t.genders.reg.owns(p.gender) {
		return errs.New(errs.ErrUnknownKey, "gender %s is not registered in this tree", p.gender.Key())
	}
	p.tree = t
	t.persons.add(p)
	t.byID[p.id] = p
	if t.root == nil {
		t.root = p
	}
	return nil
}

// SetRoot makes p the root person.
func (t *FamilyTree) SetRoot(p *Person) error {
	if !t.IsMember(p) {
		return errs.New(errs.ErrNotInTree, "root must be a member of the tree")
	}
	t.root = p
	return nil
}

// RemovePerson removes p and scrubs every reference to it. Events left with
// fewer actors than their type requires are deleted; witness entries are
// simply dropped. The root can only be removed when it is the last member.
func (t *FamilyTree) RemovePerson(p *Person) error {
	if !t.IsMember(p) {
		return errs.New(errs.ErrNotInTree, "person is not a member of the tree")
	}
	if p == t.root && t.persons.len() > 1 {
		return errs.New(errs.ErrRootRemoval, "%s is the root; assign another root first", p.Label())
	}

	for _, c := range p.children.values() {
		for slot := range c.parents {
			if c.parents[slot] == p {
				c.parents[slot] = nil
			}
		}
	}
	for _, parent := range p.parents {
		if parent != nil {
			parent.children.remove(p)
		}
	}
	p.parents = [2]*Person{}
	p.children.clear()

	for i := range RelativeTypes {
		for r := range p.relatives[i].all() {
			r.relativeOf[i].remove(p)
		}
		for r := range p.relativeOf[i].all() {
			r.relatives[i].remove(p)
		}
		p.relatives[i].clear()
		p.relativeOf[i].clear()
	}

	for _, e := range p.actedIn.values() {
		if e.actors.len()-1 < e.typ.minActors {
			t.detachEvent(e)
			continue
		}
		e.actors.remove(p)
		p.actedIn.remove(e)
	}
	for _, e := range p.witnessed.values() {
		e.witnesses.remove(p)
	}
	p.witnessed.clear()

	p.pictures.clear()
	p.mainPicture = nil

	t.persons.remove(p)
	delete(t.byID, p.id)
	p.tree = nil
	if t.root == p {
		t.root = nil
	}
	return nil
}

func (t *FamilyTree) checkEventOwner(e *LifeEvent) error {
	if e == nil {
		return errs.New(errs.ErrInvalidValue, "life event must be set")
	}
	if e.tree != nil && e.tree != t {
		return errs.New(errs.ErrNotInTree, "life event %s belongs to another tree", e.id)
	}
	if e.tree == nil && !t.eventTypes.reg.owns(e.typ) {
		return errs.New(errs.ErrUnknownKey, "life event type %s is not registered in this tree", e.typ.Key())
	}
	return nil
}

// checkActors validates a prospective actor set for an event of type typ.
func (t *FamilyTree) checkActors(e *LifeEvent, typ *LifeEventType, actors []*Person) error {
	if n := len(actors); n < typ.minActors || n > typ.maxActors {
		if typ.minActors == typ.maxActors {
			return errs.New(errs.ErrActorCount, "%s requires %d actor(s), got %d", typ.Key(), typ.minActors, n)
		}
		return errs.New(errs.ErrActorCount,
			"%s requires between %d and %d actors, got %d", typ.Key(), typ.minActors, typ.maxActors, n)
	}
	for _, a := range actors {
		if !t.IsMember(a) {
			return errs.New(errs.ErrNotInTree, "actors must be members of the tree")
		}
		if e.witnesses.contains(a) {
			return errs.New(errs.ErrActorWitnessOverlap, "%s is already a witness of this event", a.Label())
		}
		if !typ.unique {
			continue
		}
		for other := range a.actedIn.all() {
			if other != e && other.typ == typ {
				return errs.New(errs.ErrUniqueTypeViolation,
					"%s already has a %s event", a.Label(), typ.Label())
			}
		}
	}
	return nil
}

func dedupe(persons []*Person) ([]*Person, error) {
	var set orderedSet[*Person]
	for _, p := range persons {
		if p == nil {
			return nil, errs.New(errs.ErrInvalidValue, "actor must be set")
		}
		set.add(p)
	}
	return set.values(), nil
}

// SetLifeEventActors replaces the actors of e, attaching e to the tree if it
// was detached. Actors of a death-indicating event are marked deceased.
func (t *FamilyTree) SetLifeEventActors(e *LifeEvent, actors []*Person) error {
	if err := t.checkEventOwner(e); err != nil {
		return err
	}
	actors, err := dedupe(actors)
	if err != nil {
		return err
	}
	if err := t.checkActors(e, e.typ, actors); err != nil {
		return err
	}

	for _, old := range e.actors.values() {
		old.actedIn.remove(e)
	}
	e.actors.clear()
	for _, a := range actors {
		e.actors.add(a)
		a.actedIn.add(e)
	}
	t.attach(e)
	t.applyDeath(e)
	return nil
}

func (t *FamilyTree) attach(e *LifeEvent) {
	if e.tree == nil {
		e.tree = t
		t.events.add(e)
	}
}

func (t *FamilyTree) applyDeath(e *LifeEvent) {
	if !e.typ.indicatesDeath {
		return
	}
	for a := range e.actors.all() {
		a.lifeStatus = Deceased
	}
}

// SetLifeEventType changes the type of e. The current actors must satisfy
// the new type's constraints.
func (t *FamilyTree) SetLifeEventType(e *LifeEvent, typ *LifeEventType) error {
	if typ == nil {
		return errs.New(errs.ErrMissingType, "life event type must be set")
	}
	if err := t.checkEventOwner(e); err != nil {
		return err
	}
	if !t.eventTypes.reg.owns(typ) {
		return errs.New(errs.ErrUnknownKey, "life event type %s is not registered in this tree", typ.Key())
	}
	if e.tree == t {
		if err := t.checkActors(e, typ, e.actors.values()); err != nil {
			return err
		}
	}
	e.typ = typ
	if e.tree == t {
		t.applyDeath(e)
	}
	return nil
}

// AddWitness adds p as a witness of an attached event.
func (t *FamilyTree) AddWitness(e *LifeEvent, p *Person) error {
	if e == nil || e.tree != t {
		return errs.New(errs.ErrNotInTree, "life event is not attached to the tree")
	}
	if !t.IsMember(p) {
		return errs.New(errs.ErrNotInTree, "witness must be a member of the tree")
	}
	if e.actors.contains(p) {
		return errs.New(errs.ErrActorWitnessOverlap, "%s is an actor of this event", p.Label())
	}
	e.witnesses.add(p)
	p.witnessed.add(e)
	return nil
}

// RemoveWitness removes p from the witnesses of e.
func (t *FamilyTree) RemoveWitness(e *LifeEvent, p *Person) error {
	if e == nil || e.tree != t {
		return errs.New(errs.ErrNotInTree, "life event is not attached to the tree")
	}
	if p == nil {
		return nil
	}
	e.witnesses.remove(p)
	p.witnessed.remove(e)
	return nil
}

// RemoveLifeEvent deletes e. Life statuses forced by e stay as they are.
func (t *FamilyTree) RemoveLifeEvent(e *LifeEvent) error {
	if e == nil || e.tree != t {
		return errs.New(errs.ErrNotInTree, "life event is not attached to the tree")
	}
	t.detachEvent(e)
	return nil
}

func (t *FamilyTree) detachEvent(e *LifeEvent) {
	for a := range e.actors.all() {
		a.actedIn.remove(e)
	}
	for w := range e.witnesses.all() {
		w.witnessed.remove(e)
	}
	e.actors.clear()
	e.witnesses.clear()
	t.events.remove(e)
	e.tree = nil
}

// RemoveGender removes a user-defined gender and unsets it on every person.
func (t *FamilyTree) RemoveGender(key RegistryEntryKey) error {
	g := t.genders.Entry(key)
	if err := t.genders.RemoveEntry(key); err != nil {
		return err
	}
	for p := range t.persons.all() {
		if p.gender == g {
			p.gender = nil
		}
	}
	return nil
}

// RemoveLifeEventType removes a user-defined type no event uses.
func (t *FamilyTree) RemoveLifeEventType(key RegistryEntryKey) error {
	typ := t.eventTypes.Entry(key)
	if typ != nil && !typ.IsBuiltin() {
		for e := range t.events.all() {
			if e.typ == typ {
				return errs.New(errs.ErrEntryInUse, "life event type %s is still used by an event", key)
			}
		}
	}
	return t.eventTypes.RemoveEntry(key)
}

// Pictures returns every picture of the tree in insertion order.
func (t *FamilyTree) Pictures() []*Picture {
	out := make([]*Picture, 0, t.picOrder.len())
	for name := range t.picOrder.all() {
		out = append(out, t.pictures[name])
	}
	return out
}

// Picture returns the picture with the given name, or nil.
func (t *FamilyTree) Picture(name string) *Picture { return t.pictures[name] }

// AddPicture registers a picture. Names are unique within a tree.
func (t *FamilyTree) AddPicture(pic *Picture) error {
	if pic == nil {
		return errs.New(errs.ErrInvalidValue, "picture must be set")
	}
	if _, ok := t.pictures[pic.name]; ok {
		return errs.New(errs.ErrAlreadyInTree, "a picture named %q already exists", pic.name)
	}
	t.pictures[pic.name] = pic
	t.picOrder.add(pic.name)
	return nil
}

func (t *FamilyTree) checkObject(obj GenealogyObject) error {
	if obj == nil || obj.owner() != t {
		return errs.New(errs.ErrNotInTree, "object is not part of the tree")
	}
	return nil
}

// AddPictureToObject attaches the named picture to a person or event.
func (t *FamilyTree) AddPictureToObject(name string, obj GenealogyObject) error {
	pic, ok := t.pictures[name]
	if !ok {
		return errs.New(errs.ErrUnknownPicture, "unknown picture %q", name)
	}
	if err := t.checkObject(obj); err != nil {
		return err
	}
	obj.holder().pictures.add(pic)
	return nil
}

// RemovePictureFromObject detaches the named picture from obj.
func (t *FamilyTree) RemovePictureFromObject(name string, obj GenealogyObject) error {
	pic, ok := t.pictures[name]
	if !ok {
		return errs.New(errs.ErrUnknownPicture, "unknown picture %q", name)
	}
	if err := t.checkObject(obj); err != nil {
		return err
	}
	obj.holder().detach(pic)
	return nil
}

// SetMainPictureOfObject makes an attached picture the main one of obj. An
// empty name clears it.
func (t *FamilyTree) SetMainPictureOfObject(name string, obj GenealogyObject) error {
	if err := t.checkObject(obj); err != nil {
		return err
	}
	h := obj.holder()
	if name == "" {
		h.mainPicture = nil
		return nil
	}
	pic, ok := t.pictures[name]
	if !ok || !h.pictures.contains(pic) {
		return errs.New(errs.ErrUnknownPicture, "picture %q is not attached to this object", name)
	}
	h.mainPicture = pic
	return nil
}

// RemovePicture deletes a picture and detaches it from every object.
func (t *FamilyTree) RemovePicture(name string) error {
	pic, ok := t.pictures[name]
	if !ok {
		return errs.New(errs.ErrUnknownPicture, "unknown picture %q", name)
	}
	for p := range t.persons.all() {
		p.detach(pic)
	}
	for e := range t.events.all() {
		e.detach(pic)
	}
	delete(t.pictures, name)
	t.picOrder.remove(name)
	return nil
}

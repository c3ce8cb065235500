package genealogy

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

// LifeStatus records whether a person is alive.
type LifeStatus uint8

const (
	Living LifeStatus = iota
	Deceased
)

func (s LifeStatus) String() string {
	switch s {
	case Living:
		return "living"
	case Deceased:
		return "deceased"
	default:
		return "life_status(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseLifeStatus parses "living" or "deceased".
func ParseLifeStatus(s string) (LifeStatus, error) {
	switch strings.ToLower(s) {
	case "living":
		return Living, nil
	case "deceased":
		return Deceased, nil
	}
	return 0, errs.New(errs.ErrInvalidValue, "unknown life status: %q", s)
}

// RelativeType names a non-biological relation between two persons.
type RelativeType uint8

const (
	AdoptiveParent RelativeType = iota
	Godparent
	FosterParent
)

// RelativeTypes lists every relative type in ordinal order.
var RelativeTypes = []RelativeType{AdoptiveParent, Godparent, FosterParent}

func (t RelativeType) String() string {
	switch t {
	case AdoptiveParent:
		return "adoptive_parent"
	case Godparent:
		return "godparent"
	case FosterParent:
		return "foster_parent"
	default:
		return "relative_type(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseRelativeType parses a relative type name as returned by String.
func ParseRelativeType(s string) (RelativeType, error) {
	for _, t := range RelativeTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, errs.New(errs.ErrInvalidValue, "unknown relative type: %q", s)
}

func (t RelativeType) validate() error {
	if int(t) >= len(RelativeTypes) {
		return errs.New(errs.ErrInvalidValue, "unknown relative type: %d", int(t))
	}
	return nil
}

// Person is a member of a family tree. Relations and life events are changed
// through Person methods that keep both sides consistent, or through the
// owning FamilyTree.
type Person struct {
	id   uuid.UUID
	tree *FamilyTree

	legalLastName    string
	publicLastName   string
	legalFirstNames  []string
	publicFirstNames []string
	nicknames        []string
	gender           *Gender
	lifeStatus       LifeStatus
	disambiguationID int
	mainOccupation   string
	notes            string
	sources          string

	parents  [2]*Person
	children orderedSet[*Person]

	// relatives[t] holds the persons that are t of this person, relativeOf[t]
	// the persons this person is t of.
	relatives  [3]orderedSet[*Person]
	relativeOf [3]orderedSet[*Person]

	actedIn   orderedSet[*LifeEvent]
	witnessed orderedSet[*LifeEvent]

	pictureHolder
}

// NewPerson returns a living person with no names and a fresh id.
func NewPerson() *Person {
	return &Person{id: uuid.New()}
}

// NewPersonWithID returns a person with the given id, for loading stored trees.
func NewPersonWithID(id uuid.UUID) *Person {
	return &Person{id: id}
}

func (p *Person) ID() uuid.UUID          { return p.id }
func (p *Person) Tree() *FamilyTree      { return p.tree }
func (p *Person) Gender() *Gender        { return p.gender }
func (p *Person) LifeStatus() LifeStatus { return p.lifeStatus }

func (p *Person) LegalLastName() string      { return p.legalLastName }
func (p *Person) PublicLastName() string     { return p.publicLastName }
func (p *Person) LegalFirstNames() []string  { return slices.Clone(p.legalFirstNames) }
func (p *Person) PublicFirstNames() []string { return slices.Clone(p.publicFirstNames) }
func (p *Person) Nicknames() []string        { return slices.Clone(p.nicknames) }
func (p *Person) DisambiguationID() int      { return p.disambiguationID }
func (p *Person) MainOccupation() string     { return p.mainOccupation }
func (p *Person) Notes() string              { return p.notes }
func (p *Person) Sources() string            { return p.sources }

func (p *Person) SetLegalLastName(name string)       { p.legalLastName = strings.TrimSpace(name) }
func (p *Person) SetPublicLastName(name string)      { p.publicLastName = strings.TrimSpace(name) }
func (p *Person) SetLegalFirstNames(names []string)  { p.legalFirstNames = cleanNames(names) }
func (p *Person) SetPublicFirstNames(names []string) { p.publicFirstNames = cleanNames(names) }
func (p *Person) SetNicknames(names []string)        { p.nicknames = cleanNames(names) }
func (p *Person) SetMainOccupation(s string)         { p.mainOccupation = strings.TrimSpace(s) }
func (p *Person) SetNotes(s string)                  { p.notes = s }
func (p *Person) SetSources(s string)                { p.sources = s }

// SetDisambiguationID sets the number telling apart homonyms. 0 clears it.
func (p *Person) SetDisambiguationID(id int) error {
	if id < 0 {
		return errs.New(errs.ErrInvalidValue, "disambiguation id must be positive, got %d", id)
	}
	p.disambiguationID = id
	return nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// LastName returns the public last name, falling back to the legal one.
func (p *Person) LastName() string {
	if p.publicLastName != "" {
		return p.publicLastName
	}
	return p.legalLastName
}

// FirstNames returns the public first names, falling back to the legal ones.
func (p *Person) FirstNames() []string {
	if len(p.publicFirstNames) > 0 {
		return slices.Clone(p.publicFirstNames)
	}
	return slices.Clone(p.legalFirstNames)
}

// FullName returns first names followed by the last name, or "?" when the
// person has no name at all.
func (p *Person) FullName() string {
	parts := append(p.FirstNames(), p.LastName())
	name := strings.TrimSpace(strings.Join(parts, " "))
	if name == "" {
		return "?"
	}
	return name
}

// Label returns the full name with the disambiguation id, if any.
func (p *Person) Label() string {
	if p.disambiguationID > 0 {
		return p.FullName() + " (#" + strconv.Itoa(p.disambiguationID) + ")"
	}
	return p.FullName()
}

// SetGender assigns a gender. The gender must belong to the registry of the
// person's tree. nil clears it.
func (p *Person) SetGender(g *Gender) error {
	if g != nil && p.tree != nil && !p.tree.genders.reg.owns(g) {
		return errs.New(errs.ErrUnknownKey, "gender %s is not registered in this tree", g.Key())
	}
	p.gender = g
	return nil
}

// SetLifeStatus sets the life status. A person who is an actor of a
// death-indicating event cannot be marked living.
func (p *Person) SetLifeStatus(s LifeStatus) error {
	switch s {
	case Living:
		if p.hasDeathEvent() {
			return errs.New(errs.ErrLifeStatusLocked,
				"%s is an actor of a death event and cannot be marked living", p.Label())
		}
	case Deceased:
	default:
		return errs.New(errs.ErrInvalidValue, "unknown life status: %d", int(s))
	}
	p.lifeStatus = s
	return nil
}

// IsLifeStatusLocked reports whether the life status is forced to deceased.
func (p *Person) IsLifeStatusLocked() bool { return p.hasDeathEvent() }

func (p *Person) hasDeathEvent() bool {
	for e := range p.actedIn.all() {
		if e.typ.indicatesDeath {
			return true
		}
	}
	return false
}

// Parents returns both parent slots. Either may be nil.
func (p *Person) Parents() (*Person, *Person) { return p.parents[0], p.parents[1] }

// Parent returns the person in the given slot, or nil.
func (p *Person) Parent(slot int) *Person {
	if slot < 0 || slot > 1 {
		return nil
	}
	return p.parents[slot]
}

// HasBothParents reports whether both parent slots are set.
func (p *Person) HasBothParents() bool { return p.parents[0] != nil && p.parents[1] != nil }

// SetParent puts parent in the given slot, replacing any previous occupant.
// nil clears the slot.
func (p *Person) SetParent(slot int, parent *Person) error {
	if slot < 0 || slot > 1 {
		return errs.New(errs.ErrInvalidParentSlot, "parent slot must be 0 or 1, got %d", slot)
	}
	if parent != nil {
		if parent == p {
			return errs.New(errs.ErrSelfReference, "%s cannot be their own parent", p.Label())
		}
		if p.parents[1-slot] == parent {
			return errs.New(errs.ErrDuplicateParent, "%s is already the other parent of %s", parent.Label(), p.Label())
		}
		if err := p.sameTree(parent); err != nil {
			return err
		}
	}
	if old := p.parents[slot]; old != nil {
		old.children.remove(p)
	}
	p.parents[slot] = parent
	if parent != nil {
		parent.children.add(p)
	}
	return nil
}

func (p *Person) sameTree(other *Person) error {
	if p.tree == nil || p.tree != other.tree {
		return errs.New(errs.ErrNotInTree, "%s and %s are not in the same tree", p.Label(), other.Label())
	}
	return nil
}

// Children returns the persons having p in one of their parent slots.
func (p *Person) Children() []*Person { return p.children.values() }

// SameParentsSiblings returns the persons sharing both parents with p, in
// either slot order. It is empty unless both parents are known.
func (p *Person) SameParentsSiblings() []*Person {
	if !p.HasBothParents() {
		return nil
	}
	a, b := p.parents[0], p.parents[1]
	var out []*Person
	for c := range a.children.all() {
		if c != p && c.hasParent(b) {
			out = append(out, c)
		}
	}
	return out
}

// HalfSiblings returns the persons sharing exactly one parent with p.
func (p *Person) HalfSiblings() []*Person {
	var out orderedSet[*Person]
	for _, parent := range p.parents {
		if parent == nil {
			continue
		}
		for c := range parent.children.all() {
			if c == p || out.contains(c) {
				continue
			}
			shared := 0
			for _, cp := range c.parents {
				if cp != nil && p.hasParent(cp) {
					shared++
				}
			}
			if shared == 1 {
				out.add(c)
			}
		}
	}
	return out.values()
}

func (p *Person) hasParent(parent *Person) bool {
	return p.parents[0] == parent || p.parents[1] == parent
}

// PartnerChildren groups children by their other parent.
type PartnerChildren struct {
	// Partner is nil for children whose other parent is unknown.
	Partner  *Person
	Children []*Person
}

// PartnersAndChildren groups p's children by co-parent, in order of first
// appearance. Union partners without children with p are appended after the
// co-parents. The group of children with an unknown co-parent comes last.
func (p *Person) PartnersAndChildren() []PartnerChildren {
	var groups []PartnerChildren
	index := make(map[*Person]int)
	var orphans []*Person
	for c := range p.children.all() {
		other := c.parents[0]
		if other == p {
			other = c.parents[1]
		}
		if other == nil {
			orphans = append(orphans, c)
			continue
		}
		i, ok := index[other]
		if !ok {
			i = len(groups)
			index[other] = i
			groups = append(groups, PartnerChildren{Partner: other})
		}
		groups[i].Children = append(groups[i].Children, c)
	}
	for e := range p.actedIn.all() {
		if !e.typ.indicatesUnion {
			continue
		}
		for a := range e.actors.all() {
			if a == p {
				continue
			}
			if _, ok := index[a]; !ok {
				index[a] = len(groups)
				groups = append(groups, PartnerChildren{Partner: a})
			}
		}
	}
	if len(orphans) > 0 {
		groups = append(groups, PartnerChildren{Children: orphans})
	}
	return groups
}

// Relatives returns the persons that are t of p, e.g. p's godparents.
func (p *Person) Relatives(t RelativeType) []*Person {
	if t.validate() != nil {
		return nil
	}
	return p.relatives[t].values()
}

// NonBiologicalChildren returns the persons p is t of, e.g. p's godchildren.
func (p *Person) NonBiologicalChildren(t RelativeType) []*Person {
	if t.validate() != nil {
		return nil
	}
	return p.relativeOf[t].values()
}

// AddRelative records that relative is t of p. The inverse relation is
// tracked, but other relation types are never added implicitly.
func (p *Person) AddRelative(relative *Person, t RelativeType) error {
	if err := t.validate(); err != nil {
		return err
	}
	if relative == nil {
		return errs.New(errs.ErrInvalidValue, "relative must be set")
	}
	if relative == p {
		return errs.New(errs.ErrSelfReference, "%s cannot be their own %s", p.Label(), t)
	}
	if err := p.sameTree(relative); err != nil {
		return err
	}
	p.relatives[t].add(relative)
	relative.relativeOf[t].add(p)
	return nil
}

// RemoveRelative removes relative from p's relatives of type t.
func (p *Person) RemoveRelative(relative *Person, t RelativeType) error {
	if err := t.validate(); err != nil {
		return err
	}
	if relative == nil {
		return nil
	}
	p.relatives[t].remove(relative)
	relative.relativeOf[t].remove(p)
	return nil
}

// LifeEvents returns the events p is an actor of, in attachment order.
func (p *Person) LifeEvents() []*LifeEvent { return p.actedIn.values() }

// WitnessedEvents returns the events p is a witness of.
func (p *Person) WitnessedEvents() []*LifeEvent { return p.witnessed.values() }

// BirthDate returns the date of the first birth event p is an actor of, or nil.
func (p *Person) BirthDate() datetime.DateTime {
	for e := range p.actedIn.all() {
		if e.typ.key == BirthKey && e.date != nil {
			return e.date
		}
	}
	return nil
}

// DeathDate returns the earliest date among p's death-indicating events, or nil.
func (p *Person) DeathDate() datetime.DateTime {
	var earliest datetime.DateTime
	for e := range p.actedIn.all() {
		if !e.typ.indicatesDeath || e.date == nil {
			continue
		}
		if earliest == nil || datetime.Compare(e.date, earliest, nil) < 0 {
			earliest = e.date
		}
	}
	return earliest
}

package genealogy

import (
	"github.com/google/uuid"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

// LatLon is a geographic position in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinates are in range.
func (l LatLon) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return errs.New(errs.ErrOutOfRange, "latitude must be in [-90, 90], got %g", l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return errs.New(errs.ErrOutOfRange, "longitude must be in [-180, 180], got %g", l.Lon)
	}
	return nil
}

// Place is where an event happened.
type Place struct {
	Address string
	LatLon  *LatLon
}

// LifeEvent is a dated occurrence involving one or two actors and any number
// of witnesses. Actors and witnesses are managed by the owning FamilyTree.
type LifeEvent struct {
	id   uuid.UUID
	tree *FamilyTree

	date    datetime.DateTime
	typ     *LifeEventType
	place   *Place
	notes   string
	sources string

	actors    orderedSet[*Person]
	witnesses orderedSet[*Person]

	pictureHolder
}

// NewLifeEvent returns a detached event. date may be nil when unknown.
func NewLifeEvent(date datetime.DateTime, typ *LifeEventType) (*LifeEvent, error) {
	return NewLifeEventWithID(uuid.New(), date, typ)
}

// NewLifeEventWithID is like NewLifeEvent with a caller-supplied id.
func NewLifeEventWithID(id uuid.UUID, date datetime.DateTime, typ *LifeEventType) (*LifeEvent, error) {
	if typ == nil {
		return nil, errs.New(errs.ErrMissingType, "life event type must be set")
	}
	if err := datetime.Validate(date); err != nil {
		return nil, err
	}
	return &LifeEvent{id: id, date: date, typ: typ}, nil
}

func (e *LifeEvent) ID() uuid.UUID           { return e.id }
func (e *LifeEvent) Tree() *FamilyTree       { return e.tree }
func (e *LifeEvent) Date() datetime.DateTime { return e.date }
func (e *LifeEvent) Type() *LifeEventType    { return e.typ }
func (e *LifeEvent) Notes() string           { return e.notes }
func (e *LifeEvent) Sources() string         { return e.sources }
func (e *LifeEvent) Actors() []*Person       { return e.actors.values() }
func (e *LifeEvent) Witnesses() []*Person    { return e.witnesses.values() }

func (e *LifeEvent) SetNotes(s string)   { e.notes = s }
func (e *LifeEvent) SetSources(s string) { e.sources = s }

// SetDate sets or clears (nil) the date of the event.
func (e *LifeEvent) SetDate(d datetime.DateTime) error {
	if err := datetime.Validate(d); err != nil {
		return err
	}
	e.date = d
	return nil
}

// Place returns a copy of the event's place, or nil.
func (e *LifeEvent) Place() *Place {
	if e.place == nil {
		return nil
	}
	pl := *e.place
	if pl.LatLon != nil {
		ll := *pl.LatLon
		pl.LatLon = &ll
	}
	return &pl
}

// SetPlace sets or clears the place.
func (e *LifeEvent) SetPlace(pl *Place) error {
	if pl == nil {
		e.place = nil
		return nil
	}
	cp := *pl
	if cp.LatLon != nil {
		if err := cp.LatLon.Validate(); err != nil {
			return err
		}
		ll := *cp.LatLon
		cp.LatLon = &ll
	}
	e.place = &cp
	return nil
}

// HasActor reports whether p is an actor of e.
func (e *LifeEvent) HasActor(p *Person) bool { return e.actors.contains(p) }

// HasWitness reports whether p is a witness of e.
func (e *LifeEvent) HasWitness(p *Person) bool { return e.witnesses.contains(p) }

// PartnerOf returns the other actor of a two-actor event, or nil.
func (e *LifeEvent) PartnerOf(p *Person) *Person {
	if !e.actors.contains(p) {
		return nil
	}
	for a := range e.actors.all() {
		if a != p {
			return a
		}
	}
	return nil
}

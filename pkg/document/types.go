// Package document defines the serializable form of a family tree and the
// conversion between it and a genealogy.FamilyTree.
//
// Persons are referenced by their position in Document.Persons. References
// are resolved only once every person exists, so descriptors may point
// forward in the list.
package document

// CurrentVersion is the document format version written by FromTree.
const CurrentVersion = 1

// Document is a complete family tree, in loader order: registries, pictures,
// persons, then life events.
type Document struct {
	Version    int                   `json:"version" yaml:"version"`
	Name       string                `json:"name" yaml:"name"`
	Root       *int                  `json:"root,omitempty" yaml:"root,omitempty"`
	Registries Registries            `json:"registries" yaml:"registries"`
	Pictures   []PictureDescriptor   `json:"pictures,omitempty" yaml:"pictures,omitempty"`
	Persons    []PersonDescriptor    `json:"persons" yaml:"persons"`
	LifeEvents []LifeEventDescriptor `json:"life_events,omitempty" yaml:"life_events,omitempty"`
}

// Registries holds the customizations of both registries.
type Registries struct {
	GenderColors   []GenderColor             `json:"gender_colors,omitempty" yaml:"gender_colors,omitempty"`
	Genders        []GenderDescriptor        `json:"genders,omitempty" yaml:"genders,omitempty"`
	LifeEventTypes []LifeEventTypeDescriptor `json:"life_event_types,omitempty" yaml:"life_event_types,omitempty"`
}

// GenderColor overrides the color of a built-in gender.
type GenderColor struct {
	Key   string `json:"key" yaml:"key"`
	Color string `json:"color" yaml:"color"`
}

// GenderDescriptor is a user-defined gender.
type GenderDescriptor struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// LifeEventTypeDescriptor is a user-defined life event type.
type LifeEventTypeDescriptor struct {
	Key            string `json:"key" yaml:"key"`
	Label          string `json:"label" yaml:"label"`
	Group          string `json:"group" yaml:"group"`
	IndicatesDeath bool   `json:"indicates_death,omitempty" yaml:"indicates_death,omitempty"`
	IndicatesUnion bool   `json:"indicates_union,omitempty" yaml:"indicates_union,omitempty"`
	MinActors      int    `json:"min_actors" yaml:"min_actors"`
	MaxActors      int    `json:"max_actors" yaml:"max_actors"`
	Unique         bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// PersonDescriptor is one person. Parent and relative references are
// indices into Document.Persons.
type PersonDescriptor struct {
	ID               string           `json:"id,omitempty" yaml:"id,omitempty"`
	LegalLastName    string           `json:"legal_last_name,omitempty" yaml:"legal_last_name,omitempty"`
	PublicLastName   string           `json:"public_last_name,omitempty" yaml:"public_last_name,omitempty"`
	LegalFirstNames  []string         `json:"legal_first_names,omitempty" yaml:"legal_first_names,omitempty"`
	PublicFirstNames []string         `json:"public_first_names,omitempty" yaml:"public_first_names,omitempty"`
	Nicknames        []string         `json:"nicknames,omitempty" yaml:"nicknames,omitempty"`
	Gender           string           `json:"gender,omitempty" yaml:"gender,omitempty"`
	LifeStatus       int              `json:"life_status" yaml:"life_status"`
	DisambiguationID int              `json:"disambiguation_id,omitempty" yaml:"disambiguation_id,omitempty"`
	MainOccupation   string           `json:"main_occupation,omitempty" yaml:"main_occupation,omitempty"`
	Parent1          *int             `json:"parent1,omitempty" yaml:"parent1,omitempty"`
	Parent2          *int             `json:"parent2,omitempty" yaml:"parent2,omitempty"`
	Relatives        map[string][]int `json:"relatives,omitempty" yaml:"relatives,omitempty"`
	Notes            string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Sources          string           `json:"sources,omitempty" yaml:"sources,omitempty"`
	Pictures         []string         `json:"pictures,omitempty" yaml:"pictures,omitempty"`
	MainPicture      string           `json:"main_picture,omitempty" yaml:"main_picture,omitempty"`
}

// LifeEventDescriptor is one life event. Actors and witnesses are indices
// into Document.Persons.
type LifeEventDescriptor struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Type        string           `json:"type" yaml:"type"`
	Date        *DateDescriptor  `json:"date,omitempty" yaml:"date,omitempty"`
	Place       *PlaceDescriptor `json:"place,omitempty" yaml:"place,omitempty"`
	Actors      []int            `json:"actors" yaml:"actors"`
	Witnesses   []int            `json:"witnesses,omitempty" yaml:"witnesses,omitempty"`
	Notes       string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Sources     string           `json:"sources,omitempty" yaml:"sources,omitempty"`
	Pictures    []string         `json:"pictures,omitempty" yaml:"pictures,omitempty"`
	MainPicture string           `json:"main_picture,omitempty" yaml:"main_picture,omitempty"`
}

// PlaceDescriptor is an address with optional coordinates. Lat and Lon are
// either both set or both absent.
type PlaceDescriptor struct {
	Address string   `json:"address,omitempty" yaml:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
}

// PictureDescriptor is the metadata of one picture.
type PictureDescriptor struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Date        *DateDescriptor `json:"date,omitempty" yaml:"date,omitempty"`
	Location    string          `json:"location,omitempty" yaml:"location,omitempty"`
}

// Date kinds.
const (
	KindPrecision   = "precision"
	KindRange       = "range"
	KindAlternative = "alternative"
)

// DateDescriptor is a datetime.DateTime. Dates use the calendar.Date text
// form, e.g. "1790-03-14;julian".
type DateDescriptor struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Precision string   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Date      string   `json:"date,omitempty" yaml:"date,omitempty"`
	Start     string   `json:"start,omitempty" yaml:"start,omitempty"`
	End       string   `json:"end,omitempty" yaml:"end,omitempty"`
	Dates     []string `json:"dates,omitempty" yaml:"dates,omitempty"`
}

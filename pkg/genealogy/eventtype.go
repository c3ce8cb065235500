package genealogy

import (
	"iter"
	"strings"

	"github.com/dyluth/lineage/pkg/errs"
)

// Group classifies life event types for display. It carries no semantics.
type Group string

const (
	GroupLifespan       Group = "lifespan"
	GroupAdministrative Group = "administrative"
	GroupDistinction    Group = "distinction"
	GroupEducation      Group = "education"
	GroupFamily         Group = "family"
	GroupMedical        Group = "medical"
	GroupMilitary       Group = "military"
	GroupReligion       Group = "religion"
	GroupUnion          Group = "union"
	GroupOther          Group = "other"
)

// Groups lists every group in display order.
var Groups = []Group{
	GroupLifespan, GroupAdministrative, GroupDistinction, GroupEducation, GroupFamily,
	GroupMedical, GroupMilitary, GroupReligion, GroupUnion, GroupOther,
}

// Validate reports whether g is a known group.
func (g Group) Validate() error {
	for _, known := range Groups {
		if g == known {
			return nil
		}
	}
	return errs.New(errs.ErrInvalidValue, "unknown life event group: %q", string(g))
}

// MaxActors is the largest number of actors any life event may have.
const MaxActors = 2

// Keys of the canonical birth and death types.
var (
	BirthKey = BuiltinKey("birth")
	DeathKey = BuiltinKey("death")
)

// LifeEventType is an entry of a LifeEventTypeRegistry.
type LifeEventType struct {
	key            RegistryEntryKey
	label          string
	group          Group
	indicatesDeath bool
	indicatesUnion bool
	minActors      int
	maxActors      int
	unique         bool
}

func (t *LifeEventType) Key() RegistryEntryKey { return t.key }
func (t *LifeEventType) Group() Group          { return t.group }
func (t *LifeEventType) IndicatesDeath() bool  { return t.indicatesDeath }
func (t *LifeEventType) IndicatesUnion() bool  { return t.indicatesUnion }
func (t *LifeEventType) MinActors() int        { return t.minActors }
func (t *LifeEventType) MaxActors() int        { return t.maxActors }
func (t *LifeEventType) IsUnique() bool        { return t.unique }
func (t *LifeEventType) IsBuiltin() bool       { return t.key.IsBuiltin() }

// Label returns the user-supplied label, or a name derived from the key for built-ins.
func (t *LifeEventType) Label() string {
	if t.label != "" {
		return t.label
	}
	return strings.ReplaceAll(t.key.Name(), "_", " ")
}

// Built-in event types have no mutable attribute.
func (t *LifeEventType) customized() bool { return false }

// LifeEventTypeArgs holds the attributes of an event type being registered.
type LifeEventTypeArgs struct {
	Group          Group
	IndicatesDeath bool
	IndicatesUnion bool
	MinActors      int
	MaxActors      int
	Unique         bool
}

func (a LifeEventTypeArgs) validate() error {
	if err := a.Group.Validate(); err != nil {
		return err
	}
	if a.MaxActors > MaxActors {
		return errs.New(errs.ErrInvalidActorSpec, "maxActors must be at most %d, got %d", MaxActors, a.MaxActors)
	}
	if a.MinActors < 1 {
		return errs.New(errs.ErrInvalidActorSpec, "minActors must be at least 1, got %d", a.MinActors)
	}
	if a.MinActors > a.MaxActors {
		return errs.New(errs.ErrInvalidActorSpec,
			"minActors (%d) must not exceed maxActors (%d)", a.MinActors, a.MaxActors)
	}
	if a.IndicatesUnion && a.MinActors != MaxActors {
		return errs.New(errs.ErrInvalidActorSpec, "union types require exactly %d actors", MaxActors)
	}
	return nil
}

type builtinType struct {
	name  string
	group Group
	flags uint8
}

const (
	fDeath uint8 = 1 << iota
	fUnion
	fUnique
	fTwoActors
)

var builtinTypes = []builtinType{
	{"birth", GroupLifespan, fUnique},
	{"death", GroupLifespan, fDeath | fUnique},
	{"burial", GroupLifespan, fDeath | fUnique},
	{"cremation", GroupLifespan, fDeath | fUnique},
	{"funeral", GroupLifespan, fDeath | fUnique},

	{"census", GroupAdministrative, 0},
	{"emigration", GroupAdministrative, 0},
	{"immigration", GroupAdministrative, 0},
	{"naturalization", GroupAdministrative, 0},
	{"residence", GroupAdministrative, 0},
	{"will", GroupAdministrative, 0},
	{"probate", GroupAdministrative, 0},
	{"name_change", GroupAdministrative, 0},

	{"award", GroupDistinction, 0},
	{"nobility_title", GroupDistinction, 0},

	{"graduation", GroupEducation, 0},
	{"diploma", GroupEducation, 0},
	{"apprenticeship", GroupEducation, 0},

	{"adoption", GroupFamily, 0},
	{"acknowledgement", GroupFamily, 0},

	{"disease", GroupMedical, 0},
	{"surgery", GroupMedical, 0},

	{"military_service", GroupMilitary, 0},
	{"military_decoration", GroupMilitary, 0},
	{"demobilization", GroupMilitary, 0},

	{"baptism", GroupReligion, fUnique},
	{"bar_mitzvah", GroupReligion, fUnique},
	{"bat_mitzvah", GroupReligion, fUnique},
	{"confirmation", GroupReligion, fUnique},
	{"first_communion", GroupReligion, fUnique},
	{"ordination", GroupReligion, 0},

	{"marriage", GroupUnion, fUnion | fTwoActors},
	{"civil_union", GroupUnion, fUnion | fTwoActors},
	{"partnership", GroupUnion, fTwoActors},
	{"engagement", GroupUnion, fTwoActors},
	{"separation", GroupUnion, fTwoActors},
	{"divorce", GroupUnion, fTwoActors},

	{"occupation", GroupOther, 0},
	{"retirement", GroupOther, 0},
	{"travel", GroupOther, 0},
	{"anecdote", GroupOther, 0},
}

// LifeEventTypeRegistry stores the types life events can have.
type LifeEventTypeRegistry struct {
	reg registry[*LifeEventType]
}

// NewLifeEventTypeRegistry returns a registry seeded with the built-in types.
func NewLifeEventTypeRegistry() *LifeEventTypeRegistry {
	seed := make([]*LifeEventType, 0, len(builtinTypes))
	for _, b := range builtinTypes {
		actors := 1
		if b.flags&fTwoActors != 0 {
			actors = 2
		}
		seed = append(seed, &LifeEventType{
			key:            BuiltinKey(b.name),
			group:          b.group,
			indicatesDeath: b.flags&fDeath != 0,
			indicatesUnion: b.flags&fUnion != 0,
			unique:         b.flags&fUnique != 0,
			minActors:      actors,
			maxActors:      actors,
		})
	}
	return &LifeEventTypeRegistry{reg: newRegistry("life event type", seed)}
}

// RegisterEntry adds a user-defined life event type.
func (r *LifeEventTypeRegistry) RegisterEntry(key RegistryEntryKey, label string, args LifeEventTypeArgs) (*LifeEventType, error) {
	if err := r.reg.checkNewKey(key); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	t := &LifeEventType{
		key:            key,
		label:          strings.TrimSpace(label),
		group:          args.Group,
		indicatesDeath: args.IndicatesDeath,
		indicatesUnion: args.IndicatesUnion,
		minActors:      args.MinActors,
		maxActors:      args.MaxActors,
		unique:         args.Unique,
	}
	r.reg.insert(t)
	return t, nil
}

// Entry returns the type registered under key, or nil.
func (r *LifeEventTypeRegistry) Entry(key RegistryEntryKey) *LifeEventType {
	t, _ := r.reg.get(key)
	return t
}

func (r *LifeEventTypeRegistry) ContainsKey(key RegistryEntryKey) bool { return r.reg.contains(key) }

// RemoveEntry removes a user-defined type. Events of that type are not
// checked; use FamilyTree.RemoveLifeEventType for that.
func (r *LifeEventTypeRegistry) RemoveEntry(key RegistryEntryKey) error { return r.reg.remove(key) }

// Entries returns every type in insertion order.
func (r *LifeEventTypeRegistry) Entries() []*LifeEventType { return r.reg.list() }

// SerializableEntries yields the user-defined types. Built-in types cannot be customized.
func (r *LifeEventTypeRegistry) SerializableEntries() iter.Seq[*LifeEventType] {
	return r.reg.serializable()
}

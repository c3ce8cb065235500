package genealogy

import (
	"iter"
	"regexp"
	"strings"

	"github.com/dyluth/lineage/pkg/errs"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Gender is an entry of a GenderRegistry.
type Gender struct {
	key          RegistryEntryKey
	label        string
	color        string
	defaultColor string
	icon         string
}

func (g *Gender) Key() RegistryEntryKey { return g.key }
func (g *Gender) Color() string         { return g.color }
func (g *Gender) Icon() string          { return g.icon }
func (g *Gender) IsBuiltin() bool       { return g.key.IsBuiltin() }

// Label returns the user-supplied label, or a name derived from the key for built-ins.
func (g *Gender) Label() string {
	if g.label != "" {
		return g.label
	}
	return strings.ReplaceAll(g.key.Name(), "_", " ")
}

func (g *Gender) customized() bool {
	return g.key.IsBuiltin() && g.color != g.defaultColor
}

// DefaultColor returns the color a built-in gender ships with, or "" for user entries.
func (g *Gender) DefaultColor() string { return g.defaultColor }

// GenderArgs holds the attributes of a gender being registered.
type GenderArgs struct {
	Color string
	Icon  string
}

var builtinGenders = []struct {
	name  string
	color string
}{
	{"agender", "#808080"},
	{"female", "#ee8434"},
	{"gender_fluid", "#9000ff"},
	{"male", "#00b69c"},
}

// GenderRegistry stores the genders persons can be assigned.
type GenderRegistry struct {
	reg registry[*Gender]
}

// NewGenderRegistry returns a registry seeded with the built-in genders.
func NewGenderRegistry() *GenderRegistry {
	seed := make([]*Gender, 0, len(builtinGenders))
	for _, b := range builtinGenders {
		seed = append(seed, &Gender{
			key:          BuiltinKey(b.name),
			color:        b.color,
			defaultColor: b.color,
			icon:         b.name,
		})
	}
	return &GenderRegistry{reg: newRegistry("gender", seed)}
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return errs.New(errs.ErrInvalidColor, "invalid color %q (expected #RRGGBB)", color)
	}
	return nil
}

// RegisterEntry adds a user-defined gender.
func (r *GenderRegistry) RegisterEntry(key RegistryEntryKey, label string, args GenderArgs) (*Gender, error) {
	if err := r.reg.checkNewKey(key); err != nil {
		return nil, err
	}
	if err := validateColor(args.Color); err != nil {
		return nil, err
	}
	g := &Gender{
		key:   key,
		label: strings.TrimSpace(label),
		color: strings.ToLower(args.Color),
		icon:  args.Icon,
	}
	r.reg.insert(g)
	return g, nil
}

// Entry returns the gender registered under key, or nil.
func (r *GenderRegistry) Entry(key RegistryEntryKey) *Gender {
	g, _ := r.reg.get(key)
	return g
}

func (r *GenderRegistry) ContainsKey(key RegistryEntryKey) bool { return r.reg.contains(key) }

// SetColor changes the color of a gender, built-in or not.
func (r *GenderRegistry) SetColor(key RegistryEntryKey, color string) error {
	g, ok := r.reg.get(key)
	if !ok {
		return errs.New(errs.ErrUnknownKey, "unknown gender: %s", key)
	}
	if err := validateColor(color); err != nil {
		return err
	}
	g.color = strings.ToLower(color)
	return nil
}

// SetLabel renames a user-defined gender.
func (r *GenderRegistry) SetLabel(key RegistryEntryKey, label string) error {
	g, ok := r.reg.get(key)
	if !ok {
		return errs.New(errs.ErrUnknownKey, "unknown gender: %s", key)
	}
	if g.IsBuiltin() {
		return errs.New(errs.ErrBuiltinEntry, "built-in gender %s cannot be renamed", key)
	}
	g.label = strings.TrimSpace(label)
	return nil
}

// RemoveEntry removes a user-defined gender. Persons still referencing it are
// not updated; use FamilyTree.RemoveGender for that.
func (r *GenderRegistry) RemoveEntry(key RegistryEntryKey) error { return r.reg.remove(key) }

// Entries returns every gender in insertion order.
func (r *GenderRegistry) Entries() []*Gender { return r.reg.list() }

// SerializableEntries yields the customized built-ins and all user-defined genders.
func (r *GenderRegistry) SerializableEntries() iter.Seq[*Gender] { return r.reg.serializable() }

package genealogy

import (
	"regexp"
	"strings"

	"github.com/dyluth/lineage/pkg/errs"
)

const (
	// BuiltinNamespace is reserved for entries shipped with every registry.
	BuiltinNamespace = "builtin"
	// UserNamespace is the default namespace for user-defined entries.
	UserNamespace = "user"
)

var keyPartPattern = regexp.MustCompile(`^[\w-]+$`)

// RegistryEntryKey identifies a registry entry. Its textual form is
// "namespace:name".
type RegistryEntryKey struct {
	namespace string
	name      string
}

// NewKey returns the key namespace:name. Both parts must be non-empty and
// made of letters, digits, underscores or hyphens.
func NewKey(namespace, name string) (RegistryEntryKey, error) {
	if !keyPartPattern.MatchString(namespace) {
		return RegistryEntryKey{}, errs.New(errs.ErrInvalidKey, "invalid key namespace: %q", namespace)
	}
	if !keyPartPattern.MatchString(name) {
		return RegistryEntryKey{}, errs.New(errs.ErrInvalidKey, "invalid key name: %q", name)
	}
	return RegistryEntryKey{namespace: namespace, name: name}, nil
}

// ParseKey parses "namespace:name".
func ParseKey(s string) (RegistryEntryKey, error) {
	ns, name, ok := strings.Cut(s, ":")
	if !ok {
		return RegistryEntryKey{}, errs.New(errs.ErrInvalidKey, "invalid key %q (expected namespace:name)", s)
	}
	return NewKey(ns, name)
}

// BuiltinKey returns the key of a built-in entry. It panics on an invalid name.
func BuiltinKey(name string) RegistryEntryKey {
	k, err := NewKey(BuiltinNamespace, name)
	if err != nil {
		panic(err)
	}
	return k
}

// UserKey returns a key in the user namespace.
func UserKey(name string) (RegistryEntryKey, error) {
	return NewKey(UserNamespace, name)
}

func (k RegistryEntryKey) Namespace() string { return k.namespace }
func (k RegistryEntryKey) Name() string      { return k.name }
func (k RegistryEntryKey) IsZero() bool      { return k.namespace == "" }

// IsBuiltin reports whether k lives in the reserved built-in namespace.
func (k RegistryEntryKey) IsBuiltin() bool { return k.namespace == BuiltinNamespace }

func (k RegistryEntryKey) String() string { return k.namespace + ":" + k.name }

// MarshalText implements encoding.TextMarshaler.
func (k RegistryEntryKey) MarshalText() ([]byte, error) {
	if k.IsZero() {
		return nil, errs.New(errs.ErrInvalidKey, "cannot marshal empty key")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RegistryEntryKey) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

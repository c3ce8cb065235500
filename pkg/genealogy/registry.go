package genealogy

import (
	"iter"
	"slices"

	"github.com/dyluth/lineage/pkg/errs"
)

// registryEntry is implemented by the entry types a registry stores.
type registryEntry interface {
	comparable
	Key() RegistryEntryKey
	// customized reports whether a built-in entry differs from its default.
	customized() bool
}

// registry is the namespaced store shared by GenderRegistry and
// LifeEventTypeRegistry. Built-in entries are seeded at construction and can
// never be added or removed afterwards.
type registry[E registryEntry] struct {
	kind     string
	entries  map[RegistryEntryKey]E
	order    []RegistryEntryKey
	builtins map[RegistryEntryKey]struct{}
}

func newRegistry[E registryEntry](kind string, builtins []E) registry[E] {
	r := registry[E]{
		kind:     kind,
		entries:  make(map[RegistryEntryKey]E, len(builtins)),
		builtins: make(map[RegistryEntryKey]struct{}, len(builtins)),
	}
	for _, e := range builtins {
		r.builtins[e.Key()] = struct{}{}
		r.insert(e)
	}
	return r
}

func (r *registry[E]) insert(e E) {
	r.entries[e.Key()] = e
	r.order = append(r.order, e.Key())
}

// checkNewKey validates a key about to be registered by a caller.
func (r *registry[E]) checkNewKey(key RegistryEntryKey) error {
	if key.IsZero() {
		return errs.New(errs.ErrInvalidKey, "%s key must be set", r.kind)
	}
	if _, ok := r.entries[key]; ok {
		return errs.New(errs.ErrDuplicateKey, "%s %s is already registered", r.kind, key)
	}
	if key.IsBuiltin() {
		return errs.New(errs.ErrInvalidKey, "%s is not a built-in %s", key, r.kind)
	}
	return nil
}

func (r *registry[E]) get(key RegistryEntryKey) (E, bool) {
	e, ok := r.entries[key]
	return e, ok
}

func (r *registry[E]) contains(key RegistryEntryKey) bool {
	_, ok := r.entries[key]
	return ok
}

// owns reports whether e is the entry stored under its own key.
func (r *registry[E]) owns(e E) bool {
	stored, ok := r.entries[e.Key()]
	return ok && stored == e
}

func (r *registry[E]) remove(key RegistryEntryKey) error {
	if _, ok := r.builtins[key]; ok {
		return errs.New(errs.ErrBuiltinEntry, "built-in %s %s cannot be removed", r.kind, key)
	}
	if _, ok := r.entries[key]; !ok {
		return errs.New(errs.ErrUnknownKey, "unknown %s: %s", r.kind, key)
	}
	delete(r.entries, key)
	r.order = slices.DeleteFunc(r.order, func(k RegistryEntryKey) bool { return k == key })
	return nil
}

func (r *registry[E]) list() []E {
	out := make([]E, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// serializable yields the entries that need persisting: customized built-ins
// first, then every other namespace in order of first appearance. Order within
// a namespace is insertion order.
func (r *registry[E]) serializable() iter.Seq[E] {
	return func(yield func(E) bool) {
		var namespaces []string
		seen := map[string]bool{BuiltinNamespace: true}
		for _, k := range r.order {
			if !seen[k.Namespace()] {
				seen[k.Namespace()] = true
				namespaces = append(namespaces, k.Namespace())
			}
		}
		for _, k := range r.order {
			if e := r.entries[k]; k.IsBuiltin() && e.customized() {
				if !yield(e) {
					return
				}
			}
		}
		for _, ns := range namespaces {
			for _, k := range r.order {
				if k.Namespace() != ns {
					continue
				}
				if !yield(r.entries[k]) {
					return
				}
			}
		}
	}
}

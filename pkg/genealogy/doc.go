// Package genealogy implements the family tree model: persons, life events,
// pictures and the registries of genders and life event types.
//
// # Ownership
//
// A FamilyTree owns every Person and LifeEvent attached to it. Relations
// between entities are stored on both sides and only the mutation methods of
// Person and FamilyTree keep the two sides in step; accessors always return
// copies.
//
// # Registries
//
// Registries map a RegistryEntryKey ("namespace:name") to an entry. Entries
// in the builtin namespace are seeded at construction and cannot be removed
// or re-registered. SerializableEntries yields the minimal set of entries a
// persisted tree must carry: user-defined entries and built-ins whose mutable
// attributes changed.
//
// # Life status
//
// A person becomes Deceased as soon as they are an actor of an event whose
// type indicates death, and cannot be set back to Living while such an event
// remains. Removing the event does not restore the previous status; it has
// to be selected again explicitly.
//
// # Relatives
//
// AddRelative records a single directed relation (godparent, adoptive or
// foster parent). The inverse is queryable via NonBiologicalChildren but no
// other relation is ever added implicitly.
package genealogy

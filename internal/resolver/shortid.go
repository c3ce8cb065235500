package resolver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dyluth/lineage/pkg/genealogy"
)

// MinShortIDLength is the minimum required length for short ID prefixes.
// Set to 6 characters to balance usability with collision avoidance.
const MinShortIDLength = 6

// TreeLister lists the IDs of stored trees. Implemented by store.Store.
type TreeLister interface {
	ListTrees(ctx context.Context) ([]string, error)
}

// ResolvePerson resolves a short ID prefix to a person of tree.
// Returns the person if exactly one match found.
// Returns error if zero or multiple matches found.
func ResolvePerson(tree *genealogy.FamilyTree, shortID string) (*genealogy.Person, error) {
	if isFullUUID(shortID) {
		id, err := uuid.Parse(shortID)
		if err != nil {
			return nil, fmt.Errorf("invalid person ID %q: %w", shortID, err)
		}
		p, ok := tree.Person(id)
		if !ok {
			return nil, &NotFoundError{Kind: "person", ShortID: shortID}
		}
		return p, nil
	}

	if err := checkLength(shortID); err != nil {
		return nil, err
	}

	prefix := strings.ToLower(shortID)
	var matches []*genealogy.Person
	for _, p := range tree.Persons() {
		if strings.HasPrefix(p.ID().String(), prefix) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Kind: "person", ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, p := range matches {
			ids[i] = p.ID().String() + "  " + p.Label()
		}
		return nil, &AmbiguousError{Kind: "person", ShortID: shortID, Matches: ids}
	}
}

// ResolveTreeID resolves a short ID prefix to the full ID of a stored tree.
func ResolveTreeID(ctx context.Context, lister TreeLister, shortID string) (string, error) {
	ids, err := lister.ListTrees(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list trees: %w", err)
	}

	// If input is already a full UUID, verify it exists and return as-is
	if isFullUUID(shortID) {
		if !slices.Contains(ids, strings.ToLower(shortID)) {
			return "", &NotFoundError{Kind: "tree", ShortID: shortID}
		}
		return strings.ToLower(shortID), nil
	}

	if err := checkLength(shortID); err != nil {
		return "", err
	}

	prefix := strings.ToLower(shortID)
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: "tree", ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Kind: "tree", ShortID: shortID, Matches: matches}
	}
}

func isFullUUID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

func checkLength(shortID string) error {
	if len(shortID) < MinShortIDLength {
		return fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}
	return nil
}

// NotFoundError indicates nothing matched the short ID.
type NotFoundError struct {
	Kind    string
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %ss found matching '%s'", e.Kind, e.ShortID)
}

// AmbiguousError indicates several objects matched the short ID.
type AmbiguousError struct {
	Kind    string
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d %ss", e.ShortID, len(e.Matches), e.Kind)
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous short IDs.
// Lists all matches (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous short ID '%s' matches %d %ss:\n", err.ShortID, len(err.Matches), err.Kind)

	displayCount := min(len(err.Matches), 10)
	for i := range displayCount {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += fmt.Sprintf("\nUse a longer prefix to uniquely identify the %s.", err.Kind)
	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}

package listing

import (
	"fmt"
	"io"

	"github.com/dyluth/lineage/pkg/genealogy"
)

// FormatRegistries writes the gender and life event type registries of tree.
// Built-in entries are marked with "*", customized colors with "!".
func FormatRegistries(w io.Writer, tree *genealogy.FamilyTree) {
	fmt.Fprintf(w, "Genders:\n")
	fmt.Fprintf(w, "  %-28s %-20s %-8s %s\n", "KEY", "LABEL", "COLOR", "ICON")
	for _, g := range tree.Genders().Entries() {
		key := g.Key().String()
		if g.IsBuiltin() {
			key += " *"
		}
		color := g.Color()
		if g.IsBuiltin() && color != g.DefaultColor() {
			color += " !"
		}
		icon := g.Icon()
		if icon == "" {
			icon = "-"
		}
		fmt.Fprintf(w, "  %-28s %-20s %-8s %s\n", key, g.Label(), color, icon)
	}

	fmt.Fprintf(w, "\nLife event types:\n")
	fmt.Fprintf(w, "  %-28s %-22s %-15s %-7s %s\n", "KEY", "LABEL", "GROUP", "ACTORS", "FLAGS")
	for _, typ := range tree.LifeEventTypes().Entries() {
		key := typ.Key().String()
		if typ.IsBuiltin() {
			key += " *"
		}
		actors := fmt.Sprintf("%d", typ.MinActors())
		if typ.MaxActors() != typ.MinActors() {
			actors = fmt.Sprintf("%d-%d", typ.MinActors(), typ.MaxActors())
		}
		fmt.Fprintf(w, "  %-28s %-22s %-15s %-7s %s\n", key, typ.Label(), typ.Group(), actors, typeFlags(typ))
	}
}

func typeFlags(typ *genealogy.LifeEventType) string {
	var flags string
	add := func(on bool, name string) {
		if !on {
			return
		}
		if flags != "" {
			flags += ","
		}
		flags += name
	}
	add(typ.IndicatesDeath(), "death")
	add(typ.IndicatesUnion(), "union")
	add(typ.IsUnique(), "unique")
	if flags == "" {
		return "-"
	}
	return flags
}

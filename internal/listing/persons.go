package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/genealogy"
)

// OutputFormat specifies how to format a person listing.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated names
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs one person summary per line
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSONL:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format: %s (expected default or jsonl)", s)
}

// PersonSummary is the JSONL form of a person.
type PersonSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Gender     string   `json:"gender,omitempty"`
	LifeStatus string   `json:"life_status"`
	Birth      string   `json:"birth,omitempty"`
	Death      string   `json:"death,omitempty"`
	Parents    []string `json:"parents,omitempty"`
	Root       bool     `json:"root,omitempty"`
}

// Summarize returns the JSONL form of p.
func Summarize(p *genealogy.Person, style DateStyle) PersonSummary {
	s := PersonSummary{
		ID:         p.ID().String(),
		Name:       p.Label(),
		LifeStatus: p.LifeStatus().String(),
		Root:       p.Tree() != nil && p.Tree().Root() == p,
	}
	if g := p.Gender(); g != nil {
		s.Gender = g.Key().String()
	}
	if b := p.BirthDate(); b != nil {
		s.Birth = style.Long(b)
	}
	if d := p.DeathDate(); d != nil {
		s.Death = style.Long(d)
	}
	a, b := p.Parents()
	for _, parent := range []*genealogy.Person{a, b} {
		if parent != nil {
			s.Parents = append(s.Parents, parent.ID().String())
		}
	}
	return s
}

// WritePersons writes persons in the requested format.
func WritePersons(w io.Writer, persons []*genealogy.Person, treeName string, format OutputFormat, style DateStyle) error {
	switch format {
	case OutputFormatDefault:
		FormatTable(w, persons, treeName, style)
	case OutputFormatJSONL:
		if err := FormatJSONL(w, persons, style); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}

// FormatTable writes persons as a formatted table to the provided writer.
// The table includes columns: ID, NAME, GENDER, BORN, DIED and STATUS.
// Returns the number of persons formatted.
func FormatTable(w io.Writer, persons []*genealogy.Person, treeName string, style DateStyle) int {
	if len(persons) == 0 {
		fmt.Fprintf(w, "No persons found in tree '%s'\n", treeName)
		return 0
	}

	fmt.Fprintf(w, "Persons in tree '%s':\n\n", treeName)

	fmt.Fprintf(w, "%-10s %-30s %-14s %-16s %-16s %s\n",
		"ID", "NAME", "GENDER", "BORN", "DIED", "STATUS")
	fmt.Fprintf(w, "%-10s %-30s %-14s %-16s %-16s %s\n",
		"----------", "------------------------------", "--------------", "----------------", "----------------", "--------")

	for _, p := range persons {
		name := p.Label()
		if p.Tree() != nil && p.Tree().Root() == p {
			name = "* " + name
		}
		fmt.Fprintf(w, "%-10s %-30s %-14s %-16s %-16s %s\n",
			formatID(p.ID().String()),
			truncate(name, 30),
			formatGender(p.Gender()),
			truncate(style.Short(p.BirthDate()), 16),
			truncate(style.Short(p.DeathDate()), 16),
			p.LifeStatus(),
		)
	}

	countMsg := "person"
	if len(persons) != 1 {
		countMsg = "persons"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(persons), countMsg)

	return len(persons)
}

// FormatJSONL writes persons as line-delimited JSON (JSONL) to the provided writer.
// Each person is written as a single JSON object on its own line.
func FormatJSONL(w io.Writer, persons []*genealogy.Person, style DateStyle) error {
	for _, p := range persons {
		data, err := json.Marshal(Summarize(p, style))
		if err != nil {
			return fmt.Errorf("failed to marshal person to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatDetails writes everything known about a person.
func FormatDetails(w io.Writer, p *genealogy.Person, style DateStyle) {
	fmt.Fprintf(w, "%s\n", p.Label())
	fmt.Fprintf(w, "  ID:          %s\n", p.ID())
	if p.LegalLastName() != "" || len(p.LegalFirstNames()) > 0 {
		fmt.Fprintf(w, "  Legal name:  %s\n", strings.TrimSpace(strings.Join(append(p.LegalFirstNames(), p.LegalLastName()), " ")))
	}
	if nicks := p.Nicknames(); len(nicks) > 0 {
		fmt.Fprintf(w, "  Nicknames:   %s\n", strings.Join(nicks, ", "))
	}
	fmt.Fprintf(w, "  Gender:      %s\n", formatGender(p.Gender()))
	status := p.LifeStatus().String()
	if p.IsLifeStatusLocked() {
		status += " (set by a death event)"
	}
	fmt.Fprintf(w, "  Status:      %s\n", status)
	if occ := p.MainOccupation(); occ != "" {
		fmt.Fprintf(w, "  Occupation:  %s\n", occ)
	}
	fmt.Fprintf(w, "  Born:        %s\n", style.Long(p.BirthDate()))
	if d := p.DeathDate(); d != nil {
		fmt.Fprintf(w, "  Died:        %s\n", style.Long(d))
	}

	a, b := p.Parents()
	fmt.Fprintf(w, "  Parents:     %s\n", labels([]*genealogy.Person{a, b}))
	if sibs := p.SameParentsSiblings(); len(sibs) > 0 {
		fmt.Fprintf(w, "  Siblings:    %s\n", labels(sibs))
	}
	if half := p.HalfSiblings(); len(half) > 0 {
		fmt.Fprintf(w, "  Half-sibs:   %s\n", labels(half))
	}

	if groups := p.PartnersAndChildren(); len(groups) > 0 {
		fmt.Fprintf(w, "\n  Families:\n")
		for _, g := range groups {
			partner := "unknown partner"
			if g.Partner != nil {
				partner = g.Partner.Label()
			}
			fmt.Fprintf(w, "    with %s: %s\n", partner, labels(g.Children))
		}
	}

	for _, rt := range genealogy.RelativeTypes {
		rels := p.Relatives(rt)
		kids := p.NonBiologicalChildren(rt)
		if len(rels) == 0 && len(kids) == 0 {
			continue
		}
		name := strings.ReplaceAll(rt.String(), "_", " ")
		if len(rels) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", name+"s", labels(rels))
		}
		if len(kids) > 0 {
			fmt.Fprintf(w, "  %s of: %s\n", name, labels(kids))
		}
	}

	events := p.LifeEvents()
	if len(events) > 0 {
		fmt.Fprintf(w, "\n  Life events:\n")
		slices.SortStableFunc(events, compareEventDates)
		for _, e := range events {
			line := fmt.Sprintf("    %-16s %s", e.Type().Label(), style.Long(e.Date()))
			if partner := e.PartnerOf(p); partner != nil {
				line += " with " + partner.Label()
			}
			if pl := e.Place(); pl != nil && pl.Address != "" {
				line += " at " + pl.Address
			}
			fmt.Fprintln(w, line)
		}
	}
	if witnessed := p.WitnessedEvents(); len(witnessed) > 0 {
		fmt.Fprintf(w, "\n  Witnessed:\n")
		for _, e := range witnessed {
			fmt.Fprintf(w, "    %-16s %s of %s\n", e.Type().Label(), style.Long(e.Date()), labels(e.Actors()))
		}
	}

	if notes := p.Notes(); notes != "" {
		fmt.Fprintf(w, "\n  Notes:\n    %s\n", strings.ReplaceAll(notes, "\n", "\n    "))
	}
	if sources := p.Sources(); sources != "" {
		fmt.Fprintf(w, "\n  Sources:\n    %s\n", strings.ReplaceAll(sources, "\n", "\n    "))
	}
}

// compareEventDates orders events chronologically, undated ones last.
func compareEventDates(x, y *genealogy.LifeEvent) int {
	dx, dy := x.Date(), y.Date()
	switch {
	case dx == nil && dy == nil:
		return 0
	case dx == nil:
		return 1
	case dy == nil:
		return -1
	}
	return datetime.Compare(dx, dy, nil)
}

func labels(persons []*genealogy.Person) string {
	var out []string
	for _, p := range persons {
		if p != nil {
			out = append(out, p.Label())
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}

// formatID truncates a UUID to its first 8 characters for compact display.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatGender(g *genealogy.Gender) string {
	if g == nil {
		return "-"
	}
	return g.Label()
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/filter"
	"github.com/dyluth/lineage/internal/listing"
	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/internal/resolver"
	"github.com/dyluth/lineage/internal/timespec"
	"github.com/dyluth/lineage/pkg/genealogy"
)

var (
	personsOutputFormat string
	personsName         string
	personsStatus       string
	personsGender       string
	personsBornSince    string
	personsBornUntil    string
	personsSort         string
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "List persons of the tree with filtering",
	Long: `List persons of the tree as a table or JSONL stream.

Output Formats:
  default - Human-readable table with ID, name, gender, birth and death
  jsonl   - Line-delimited JSON, one person per line

Filters:
  --name        - Glob matched against the full name ("*smith", "Ann*")
  --status      - living or deceased
  --gender      - Gender key ("builtin:female", "user:two_spirit")
  --born-since  - Earliest birth year
  --born-until  - Latest birth year

Sorting:
  --sort=name (default), birth or birth-desc. Persons without a birth date
  are always listed last.

Examples:
  lineage persons --name="*Martin" --born-since=1900
  lineage persons --output=jsonl | jq '.name'`,
	Args: cobra.NoArgs,
	RunE: runPersons,
}

func init() {
	personsCmd.Flags().StringVarP(&personsOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	personsCmd.Flags().StringVar(&personsName, "name", "", "Filter by full name (glob pattern)")
	personsCmd.Flags().StringVar(&personsStatus, "status", "", "Filter by life status")
	personsCmd.Flags().StringVar(&personsGender, "gender", "", "Filter by gender key")
	personsCmd.Flags().StringVar(&personsBornSince, "born-since", "", "Filter by earliest birth year")
	personsCmd.Flags().StringVar(&personsBornUntil, "born-until", "", "Filter by latest birth year")
	personsCmd.Flags().StringVar(&personsSort, "sort", "name", "Sort order: name, birth or birth-desc")
	rootCmd.AddCommand(personsCmd)
}

func runPersons(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseOutputFormat(personsOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			err.Error(),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	since, until, err := timespec.ParseYearRange(personsBornSince, personsBornUntil)
	if err != nil {
		return printer.Error("invalid birth year filter", err.Error(), nil)
	}
	criteria := &filter.Criteria{
		NameGlob:  personsName,
		Gender:    personsGender,
		BornSince: since,
		BornUntil: until,
	}
	if personsStatus != "" {
		status, err := genealogy.ParseLifeStatus(personsStatus)
		if err != nil {
			return printer.Error("invalid life status", err.Error(), []string{"Valid statuses: living, deceased"})
		}
		criteria.Status = &status
	}

	var order func(a, b *genealogy.Person) int
	switch personsSort {
	case "name":
		order = genealogy.LastThenFirstNames()
	case "birth":
		order = genealogy.BirthDateThenName(true)
	case "birth-desc":
		order = genealogy.BirthDateThenName(false)
	default:
		return printer.Error(
			"invalid sort order",
			fmt.Sprintf("Unknown sort order: %s", personsSort),
			[]string{"Valid orders: name, birth, birth-desc"},
		)
	}

	tree, err := loadTree()
	if err != nil {
		return err
	}

	persons := criteria.Apply(tree.Persons())
	slices.SortStableFunc(persons, order)
	return listing.WritePersons(cmd.OutOrStdout(), persons, tree.Name(), format, dateStyle())
}

// resolvePerson maps a short or full ID to a person, printing a helpful error.
func resolvePerson(tree *genealogy.FamilyTree, shortID string) (*genealogy.Person, error) {
	p, err := resolver.ResolvePerson(tree, shortID)
	if err == nil {
		return p, nil
	}
	if resolver.IsNotFoundError(err) {
		return nil, printer.Error(
			fmt.Sprintf("person with ID '%s' not found", shortID),
			fmt.Sprintf("The person does not exist in %s.", treePath),
			[]string{"List all persons:\n  lineage persons"},
		)
	}
	if resolver.IsAmbiguousError(err) {
		fmt.Fprintln(printer.Stderr, resolver.FormatAmbiguousError(err.(*resolver.AmbiguousError)))
		return nil, fmt.Errorf("ambiguous short ID")
	}
	return nil, printer.Error("invalid person ID", err.Error(), nil)
}

func splitNames(s string) []string {
	return strings.Fields(s)
}


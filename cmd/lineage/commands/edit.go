package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/internal/timespec"
	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/genealogy"
)

var (
	addPersonFirst    string
	addPersonLast     string
	addPersonGender   string
	addPersonParents  []string
	addPersonDisambig int

	addEventType      string
	addEventDate      string
	addEventActors    []string
	addEventWitnesses []string
	addEventPlace     string
)

var addPersonCmd = &cobra.Command{
	Use:   "add-person",
	Short: "Add a person to the tree",
	Long: `Add a person to the tree file. The first person of a tree becomes its root.

Examples:
  lineage add-person --first "Marie Louise" --last Martin --gender builtin:female
  lineage add-person --first Luc --last Martin --parent 3f2a9c --parent 81b5e0`,
	Args: cobra.NoArgs,
	RunE: runAddPerson,
}

var addEventCmd = &cobra.Command{
	Use:   "add-event",
	Short: "Record a life event",
	Long: `Record a life event for one or two persons.

Examples:
  lineage add-event --type birth --date "~1850-03-02;julian" --actor 3f2a9c
  lineage add-event --type marriage --date 1875-09-06 --actor 3f2a9c --actor 81b5e0 --witness c0ffee`,
	Args: cobra.NoArgs,
	RunE: runAddEvent,
}

var setRootCmd = &cobra.Command{
	Use:   "set-root PERSON_ID",
	Short: "Make a person the root of the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree()
		if err != nil {
			return err
		}
		p, err := resolvePerson(tree, args[0])
		if err != nil {
			return err
		}
		if err := tree.SetRoot(p); err != nil {
			return printer.ModelError("set root", err)
		}
		if err := saveTree(tree); err != nil {
			return err
		}
		printer.Success("%s is now the root of '%s'\n", p.Label(), tree.Name())
		return nil
	},
}

var removePersonCmd = &cobra.Command{
	Use:   "remove-person PERSON_ID",
	Short: "Remove a person and their links from the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree()
		if err != nil {
			return err
		}
		p, err := resolvePerson(tree, args[0])
		if err != nil {
			return err
		}
		label := p.Label()
		if err := tree.RemovePerson(p); err != nil {
			return printer.ModelError("remove person", err)
		}
		if err := saveTree(tree); err != nil {
			return err
		}
		printer.Success("Removed %s\n", label)
		return nil
	},
}

func init() {
	addPersonCmd.Flags().StringVar(&addPersonFirst, "first", "", "First names, space separated")
	addPersonCmd.Flags().StringVar(&addPersonLast, "last", "", "Last name")
	addPersonCmd.Flags().StringVar(&addPersonGender, "gender", "", "Gender key, e.g. builtin:male")
	addPersonCmd.Flags().StringArrayVar(&addPersonParents, "parent", nil, "Parent ID (repeat for the second parent)")
	addPersonCmd.Flags().IntVar(&addPersonDisambig, "disambiguation", 0, "Disambiguation number for homonyms")

	addEventCmd.Flags().StringVar(&addEventType, "type", "", "Life event type key; bare names are built-in types")
	addEventCmd.Flags().StringVar(&addEventDate, "date", "", "Date specification (see 'lineage convert --help')")
	addEventCmd.Flags().StringArrayVar(&addEventActors, "actor", nil, "Actor ID (repeatable)")
	addEventCmd.Flags().StringArrayVar(&addEventWitnesses, "witness", nil, "Witness ID (repeatable)")
	addEventCmd.Flags().StringVar(&addEventPlace, "place", "", "Place address")

	rootCmd.AddCommand(addPersonCmd, addEventCmd, setRootCmd, removePersonCmd)
}

func runAddPerson(cmd *cobra.Command, args []string) error {
	if len(addPersonParents) > 2 {
		return printer.Error("too many parents", "A person has at most two parents.", nil)
	}

	tree, err := loadTree()
	if err != nil {
		return err
	}

	p := genealogy.NewPerson()
	p.SetLegalFirstNames(splitNames(addPersonFirst))
	p.SetLegalLastName(addPersonLast)
	if err := p.SetDisambiguationID(addPersonDisambig); err != nil {
		return printer.ModelError("add person", err)
	}
	if err := tree.AddPerson(p); err != nil {
		return printer.ModelError("add person", err)
	}

	if addPersonGender != "" {
		key, err := registryKey(addPersonGender)
		if err != nil {
			return printer.ModelError("set gender", err)
		}
		g := tree.Genders().Entry(key)
		if g == nil {
			return printer.Error(
				fmt.Sprintf("unknown gender '%s'", addPersonGender),
				"The gender is not registered in this tree.",
				[]string{"List genders:\n  lineage registries"},
			)
		}
		if err := p.SetGender(g); err != nil {
			return printer.ModelError("set gender", err)
		}
	}

	for slot, id := range addPersonParents {
		parent, err := resolvePerson(tree, id)
		if err != nil {
			return err
		}
		if err := p.SetParent(slot, parent); err != nil {
			return printer.ModelError("set parent", err)
		}
	}

	if err := saveTree(tree); err != nil {
		return err
	}
	printer.Success("Added %s (%s)\n", p.Label(), p.ID())
	return nil
}

func runAddEvent(cmd *cobra.Command, args []string) error {
	if addEventType == "" {
		return printer.Error("missing event type", "--type is required.", []string{"List types:\n  lineage registries"})
	}

	var date datetime.DateTime
	if addEventDate != "" {
		var err error
		if date, err = timespec.Parse(addEventDate); err != nil {
			return printer.Error("invalid date", err.Error(), nil)
		}
	}

	tree, err := loadTree()
	if err != nil {
		return err
	}

	key, err := registryKey(addEventType)
	if err != nil {
		return printer.ModelError("add event", err)
	}
	typ := tree.LifeEventTypes().Entry(key)
	if typ == nil {
		return printer.Error(
			fmt.Sprintf("unknown life event type '%s'", addEventType),
			"The type is not registered in this tree.",
			[]string{"List types:\n  lineage registries"},
		)
	}

	actors, err := resolveAll(tree, addEventActors)
	if err != nil {
		return err
	}
	witnesses, err := resolveAll(tree, addEventWitnesses)
	if err != nil {
		return err
	}

	e, err := genealogy.NewLifeEvent(date, typ)
	if err != nil {
		return printer.ModelError("add event", err)
	}
	if addEventPlace != "" {
		if err := e.SetPlace(&genealogy.Place{Address: addEventPlace}); err != nil {
			return printer.ModelError("add event", err)
		}
	}
	if err := tree.SetLifeEventActors(e, actors); err != nil {
		return printer.ModelError("add event", err)
	}
	for _, w := range witnesses {
		if err := tree.AddWitness(e, w); err != nil {
			return printer.ModelError("add witness", err)
		}
	}

	if err := saveTree(tree); err != nil {
		return err
	}
	printer.Success("Recorded %s for %s\n", typ.Label(), labelsOf(actors))
	return nil
}

// registryKey parses "ns:name", treating a bare name as a built-in key.
func registryKey(s string) (genealogy.RegistryEntryKey, error) {
	if k, err := genealogy.ParseKey(s); err == nil {
		return k, nil
	}
	return genealogy.NewKey(genealogy.BuiltinNamespace, s)
}

func resolveAll(tree *genealogy.FamilyTree, ids []string) ([]*genealogy.Person, error) {
	out := make([]*genealogy.Person, 0, len(ids))
	for _, id := range ids {
		p, err := resolvePerson(tree, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func labelsOf(persons []*genealogy.Person) string {
	s := ""
	for i, p := range persons {
		if i > 0 {
			s += " and "
		}
		s += p.Label()
	}
	return s
}

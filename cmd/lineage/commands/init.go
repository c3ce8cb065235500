package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/config"
	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/pkg/genealogy"
)

var (
	forceInit     bool
	initRootFirst string
	initRootLast  string
)

var initCmd = &cobra.Command{
	Use:   "init NAME",
	Short: "Create a new family tree file",
	Long: `Create a new family tree file named by --tree.

Creates:
  • the tree file, with an optional root person
  • lineage.yml - default configuration, unless it already exists

Use --force to overwrite an existing tree file (WARNING: destroys its content).`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing tree file")
	initCmd.Flags().StringVar(&initRootFirst, "root-first", "", "First names of the root person")
	initCmd.Flags().StringVar(&initRootLast, "root-last", "", "Last name of the root person")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if _, err := os.Stat(treePath); err == nil {
			return printer.Error(
				fmt.Sprintf("%s already exists", treePath),
				"Refusing to overwrite an existing tree file.",
				[]string{
					"Choose another file:\n  lineage init --tree other.yml NAME",
					"Overwrite it:\n  lineage init --force NAME",
				},
			)
		}
	}

	tree := genealogy.NewFamilyTree(args[0])
	if initRootFirst != "" || initRootLast != "" {
		root := genealogy.NewPerson()
		root.SetLegalFirstNames(splitNames(initRootFirst))
		root.SetLegalLastName(initRootLast)
		if err := tree.AddPerson(root); err != nil {
			return printer.ModelError("add root person", err)
		}
	}
	if err := saveTree(tree); err != nil {
		return err
	}
	printer.Success("Created tree '%s' in %s\n", tree.Name(), treePath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, config.Default()); err != nil {
			return printer.Error("failed to write configuration", err.Error(), nil)
		}
		printer.Success("Created %s\n", configPath)
	}

	printer.Println()
	printer.Step("Next: add persons with 'lineage add-person --first NAME --last NAME'\n")
	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/printer"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the tree file loads",
	Long: `Load the tree file and report whether every reference and registry key
resolves. A failing file is reported with the step that failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree()
		if err != nil {
			return err
		}
		printer.Success("%s is valid: %d persons, %d life events, %d pictures\n",
			treePath, tree.Len(), len(tree.LifeEvents()), len(tree.Pictures()))
		if tree.Root() == nil && tree.Len() > 0 {
			printer.Warning("tree has no root person\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/listing"
)

var showCmd = &cobra.Command{
	Use:   "show PERSON_ID",
	Short: "Show everything known about a person",
	Long: `Show names, dates, family, relatives, life events and notes of a person.

PERSON_ID may be a full UUID or a prefix of at least 6 characters.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	p, err := resolvePerson(tree, args[0])
	if err != nil {
		return err
	}
	listing.FormatDetails(cmd.OutOrStdout(), p, dateStyle())
	return nil
}

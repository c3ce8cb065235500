package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/listing"
)

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "List genders and life event types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree()
		if err != nil {
			return err
		}
		listing.FormatRegistries(cmd.OutOrStdout(), tree)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registriesCmd)
}

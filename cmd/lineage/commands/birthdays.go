package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/listing"
	"github.com/dyluth/lineage/internal/printer"
)

var (
	birthdaysMonth      int
	birthdaysLivingOnly bool
)

var birthdaysCmd = &cobra.Command{
	Use:   "birthdays",
	Short: "List birthdays by month",
	Long: `List the birthdays of the tree's persons, grouped by Gregorian month.

Birth dates known only as a range, a set of alternatives, or as "before" or
"after" a date are left out. Approximate dates are listed and marked
uncertain.`,
	Args: cobra.NoArgs,
	RunE: runBirthdays,
}

func init() {
	birthdaysCmd.Flags().IntVarP(&birthdaysMonth, "month", "m", 0, "Only this month (1-12)")
	birthdaysCmd.Flags().BoolVar(&birthdaysLivingOnly, "living-only", false, "Skip deceased persons")
	rootCmd.AddCommand(birthdaysCmd)
}

func runBirthdays(cmd *cobra.Command, args []string) error {
	if birthdaysMonth < 0 || birthdaysMonth > 12 {
		return printer.Error(
			"invalid month",
			fmt.Sprintf("Month must be between 1 and 12, got %d", birthdaysMonth),
			nil,
		)
	}
	tree, err := loadTree()
	if err != nil {
		return err
	}
	birthdays := listing.CollectBirthdays(tree, listing.BirthdayOptions{
		Month:        time.Month(birthdaysMonth),
		SkipDeceased: birthdaysLivingOnly,
	})
	listing.FormatBirthdays(cmd.OutOrStdout(), birthdays)
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/internal/timespec"
	"github.com/dyluth/lineage/pkg/calendar"
	"github.com/dyluth/lineage/pkg/datetime"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert DATE",
	Short: "Convert a date between calendars",
	Long: `Convert a date specification to another calendar, or to all of them.

DATE uses the YYYY-MM-DD[THH:MM][;calendar] format, optionally prefixed with
'~' (about), '?' (possibly), '<' (before) or '>' (after). Ranges are written
"A..B" and alternatives "A|B|C".

Calendars: gregorian, julian, coptic, ethiopian, french_republican,
french_republican_decimal.

Examples:
  lineage convert "1799-11-09" --to french_republican
  lineage convert "~2016-01-01;ethiopian"`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target calendar (all calendars if omitted)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	dt, err := timespec.Parse(args[0])
	if err != nil {
		return printer.Error(
			"invalid date",
			err.Error(),
			[]string{"Use YYYY-MM-DD[THH:MM][;calendar], e.g. 1799-11-09;gregorian"},
		)
	}

	targets := calendar.All
	if convertTo != "" {
		cal, err := calendar.ForName(convertTo)
		if err != nil {
			return printer.Error("unknown calendar", err.Error(), nil)
		}
		targets = []calendar.Calendar{cal}
	}

	w := cmd.OutOrStdout()
	for _, cal := range targets {
		converted := datetime.Convert(dt, cal)
		if len(targets) == 1 {
			fmt.Fprintln(w, converted)
			continue
		}
		fmt.Fprintf(w, "%-27s %s\n", cal.Name(), converted)
	}
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/report"
	"github.com/spf13/cobra"
)

// reportFilter builds a report.Filter from the --from, --to and --shift
// flags. Days are YYYY-MM-DD in local time and inclusive.
func reportFilter(cmd *cobra.Command) (report.Filter, error) {
	var days [2]time.Time
	for i, flag := range []string{"from", "to"} {
		value, _ := cmd.Flags().GetString(flag)
		if value == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return report.Filter{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, models.ErrInvalidInput)
		}
		days[i] = d
	}
	from, to := report.DayRange(days[0], days[1], time.Local)
	shift, _ := cmd.Flags().GetString("shift")
	return report.Filter{From: from, To: to, ShiftID: shift}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().String("shift", "", "Only sales of this shift id")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise sales by period or shift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := reportFilter(cmd)
		if err != nil {
			return err
		}
		_, state, err := loadState(cmd.Context())
		if err != nil {
			return err
		}
		summary := report.Summarize(state.Sales, filter)
		withSales, _ := cmd.Flags().GetBool("sales")
		if !withSales {
			summary.Sales = nil
		}
		return printJSON(summary)
	},
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().Bool("sales", false, "Include the matching sales")
	rootCmd.AddCommand(reportCmd)
}

package cmd

import (
	"context"

	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/spf13/cobra"
)

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Open, close and list shifts",
}

func shiftCommand(cmd *cobra.Command, fn func(e *engine.Engine) (models.Shift, error)) error {
	return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
		var shift models.Shift
		err := s.Do(ctx, func(e *engine.Engine) (err error) {
			shift, err = fn(e)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(shift)
	})
}

var shiftOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a shift; new sales are tagged with it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shiftCommand(cmd, (*engine.Engine).OpenShift)
	},
}

var shiftCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the open shift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shiftCommand(cmd, (*engine.Engine).CloseShift)
	},
}

var shiftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shifts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return printJSON(s.Engine().Shifts())
		})
	},
}

func init() {
	shiftCmd.AddCommand(shiftOpenCmd, shiftCloseCmd, shiftListCmd)
	rootCmd.AddCommand(shiftCmd)
}

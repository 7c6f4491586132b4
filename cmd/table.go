package cmd

import (
	"context"

	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage tables and the active table",
}

var tableListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tables with their carts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return printJSON(s.Engine().Tables())
		})
	},
}

var tableCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			var table *models.Table
			err := s.Do(ctx, func(e *engine.Engine) (err error) {
				table, err = e.CreateTable(id, name)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(table)
		})
	},
}

var tableDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an empty, inactive table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return s.Do(ctx, func(e *engine.Engine) error {
				return e.DeleteTable(args[0])
			})
		})
	},
}

var tableSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a table the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var outgoing *string
		if cmd.Flags().Changed("outgoing-notes") {
			notes, _ := cmd.Flags().GetString("outgoing-notes")
			outgoing = &notes
		}
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			var table *models.Table
			err := s.Do(ctx, func(e *engine.Engine) (err error) {
				table, err = e.SelectTable(args[0], outgoing)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(table)
		})
	},
}

var tableDeselectCmd = &cobra.Command{
	Use:   "deselect",
	Short: "Clear the active table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return s.Do(ctx, func(e *engine.Engine) error {
				e.DeselectTable()
				return nil
			})
		})
	},
}

var tableNotesCmd = &cobra.Command{
	Use:   "notes <id> <notes>",
	Short: "Set the notes of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			var table *models.Table
			err := s.Do(ctx, func(e *engine.Engine) (err error) {
				table, err = e.SetNotes(args[0], args[1])
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(table)
		})
	},
}

func init() {
	tableCreateCmd.Flags().String("id", "", "Table id (default: next numeric id)")
	tableCreateCmd.Flags().String("name", "", "Display name (default: \"Table <id>\")")
	tableSelectCmd.Flags().String("outgoing-notes", "", "Notes to save on the previously active table")

	tableCmd.AddCommand(tableListCmd, tableCreateCmd, tableDeleteCmd, tableSelectCmd, tableDeselectCmd, tableNotesCmd)
	rootCmd.AddCommand(tableCmd)
}

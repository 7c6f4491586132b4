package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Work on the cart of a table (the active table unless --table is given)",
}

func tableFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("table")
	return id
}

func parseDecimal(cmd *cobra.Command, flag string) (decimal.Decimal, error) {
	value, _ := cmd.Flags().GetString(flag)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", flag, models.ErrInvalidInput)
	}
	return d, nil
}

func tipFlags(cmd *cobra.Command) (models.TipConfig, error) {
	mode, _ := cmd.Flags().GetString("tip-mode")
	value, err := parseDecimal(cmd, "tip")
	if err != nil {
		return models.TipConfig{}, err
	}
	return models.TipConfig{Mode: mode, Value: value}, nil
}

func addTipFlags(cmd *cobra.Command) {
	cmd.Flags().String("tip-mode", models.TipModeNone, "Tip mode: none, percent or fixed")
	cmd.Flags().String("tip", "", "Tip percentage or fixed amount")
}

// tableCommand runs a cart command and prints the resulting table.
func tableCommand(cmd *cobra.Command, fn func(e *engine.Engine, tableID string) (*models.Table, error)) error {
	tableID := tableFlag(cmd)
	return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
		var table *models.Table
		err := s.Do(ctx, func(e *engine.Engine) (err error) {
			table, err = fn(e, tableID)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(table)
	})
}

var orderShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a table and its cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			id := tableFlag(cmd)
			if id == "" {
				id = s.Engine().ActiveTableID()
				if id == "" {
					return models.ErrNoActiveTable
				}
			}
			table, err := s.Engine().Table(id)
			if err != nil {
				return err
			}
			return printJSON(table)
		})
	},
}

var orderAddCmd = &cobra.Command{
	Use:   "add <dish>",
	Short: "Add a dish to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, _ := cmd.Flags().GetInt("qty")
		return tableCommand(cmd, func(e *engine.Engine, tableID string) (*models.Table, error) {
			return e.AddItem(tableID, args[0], qty)
		})
	},
}

var orderSetCmd = &cobra.Command{
	Use:   "set <line> <qty>",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("line %q: %w", args[0], models.ErrInvalidInput)
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity %q: %w", args[1], models.ErrInvalidQuantity)
		}
		return tableCommand(cmd, func(e *engine.Engine, tableID string) (*models.Table, error) {
			return e.SetLineQuantity(tableID, index, qty)
		})
	},
}

var orderRemoveCmd = &cobra.Command{
	Use:   "remove <line>",
	Short: "Remove a cart line that was not sent to the kitchen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("line %q: %w", args[0], models.ErrInvalidInput)
		}
		return tableCommand(cmd, func(e *engine.Engine, tableID string) (*models.Table, error) {
			return e.RemoveLine(tableID, index)
		})
	},
}

var orderClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart and forget what was sent to the kitchen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tableCommand(cmd, func(e *engine.Engine, tableID string) (*models.Table, error) {
			return e.ClearCart(tableID)
		})
	},
}

var orderStockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Check whether stock covers the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			reqs, shortfalls, unresolved, err := s.Engine().CheckStock(tableFlag(cmd))
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"requirements": reqs,
				"shortfalls":   shortfalls,
				"unresolved":   unresolved,
				"ok":           len(shortfalls) == 0,
			})
		})
	},
}

var orderDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what has not been sent to the kitchen yet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			diff, err := s.Engine().DiffForKitchen(tableFlag(cmd))
			if err != nil {
				return err
			}
			return printJSON(diff)
		})
	},
}

var orderKitchenCmd = &cobra.Command{
	Use:   "kitchen",
	Short: "Send the new part of the order to the kitchen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tableID := tableFlag(cmd)
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			doc, err := s.SendToKitchen(ctx, tableID)
			if err != nil {
				return err
			}
			return printJSON(doc)
		})
	},
}

var orderPrebillCmd = &cobra.Command{
	Use:   "prebill",
	Short: "Print the pre-bill of the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tip, err := tipFlags(cmd)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			doc, err := s.Engine().RequestPrebill(tableFlag(cmd), tip)
			if err != nil {
				return err
			}
			return printJSON(doc)
		})
	},
}

var orderConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Charge the table, deduct stock and log the sale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paid, err := parseDecimal(cmd, "paid")
		if err != nil {
			return err
		}
		tip, err := tipFlags(cmd)
		if err != nil {
			return err
		}
		method, _ := cmd.Flags().GetString("method")
		orderType, _ := cmd.Flags().GetString("type")
		req := engine.SaleRequest{
			Payment:   models.Payment{AmountPaid: paid, Method: method},
			Tip:       tip,
			OrderType: orderType,
		}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			req.Notes = &notes
		}

		tableID := tableFlag(cmd)
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			withDefaults := s.SaleDefaults(req)
			var result *engine.SaleResult
			err := s.Do(ctx, func(e *engine.Engine) (err error) {
				result, err = e.ConfirmSale(tableID, withDefaults)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var orderReceiptCmd = &cobra.Command{
	Use:   "receipt <sale-id>",
	Short: "Print the receipt of a logged sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			doc, err := s.Engine().Receipt(args[0])
			if err != nil {
				return err
			}
			return printJSON(doc)
		})
	},
}

func init() {
	orderCmd.PersistentFlags().String("table", "", "Table id (default: the active table)")

	orderAddCmd.Flags().Int("qty", 1, "Quantity to add")
	addTipFlags(orderPrebillCmd)
	addTipFlags(orderConfirmCmd)
	orderConfirmCmd.Flags().String("paid", "", "Amount paid by the customer")
	orderConfirmCmd.Flags().String("method", "", "Payment method: cash, card or transfer (default from config)")
	orderConfirmCmd.Flags().String("type", "", "Order type: dine-in, takeaway or delivery (default from config)")
	orderConfirmCmd.Flags().String("notes", "", "Notes recorded on the sale (default: the table notes)")

	orderCmd.AddCommand(
		orderShowCmd, orderAddCmd, orderSetCmd, orderRemoveCmd, orderClearCmd,
		orderStockCmd, orderDiffCmd, orderKitchenCmd, orderPrebillCmd,
		orderConfirmCmd, orderReceiptCmd,
	)
	rootCmd.AddCommand(orderCmd)
}

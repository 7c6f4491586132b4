package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisdamba/tablepos/internal/catalog"
	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage inventory, recipes and the waste log",
}

// catalogCommand runs a catalog mutation and prints what it returned.
func catalogCommand(cmd *cobra.Command, fn func(e *engine.Engine) (interface{}, error)) error {
	return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
		var out interface{}
		err := s.Do(ctx, func(e *engine.Engine) (err error) {
			out, err = fn(e)
			return err
		})
		if err != nil {
			return err
		}
		if out == nil {
			return nil
		}
		return printJSON(out)
	})
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List inventory items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lowOnly, _ := cmd.Flags().GetBool("low")
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			if lowOnly {
				return printJSON(s.Engine().LowStock())
			}
			return printJSON(s.Engine().Inventory())
		})
	},
}

var addIngredientCmd = &cobra.Command{
	Use:   "add-ingredient <name> <unit>",
	Short: "Add an inventory item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stock, _ := cmd.Flags().GetFloat64("stock")
		threshold, _ := cmd.Flags().GetFloat64("min")
		item := models.InventoryItem{Name: args[0], Unit: args[1], Stock: stock, MinThreshold: threshold}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.AddIngredient(item)
		})
	},
}

var updateIngredientCmd = &cobra.Command{
	Use:   "update-ingredient <name>",
	Short: "Edit an inventory item; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch catalog.IngredientPatch
		flags := cmd.Flags()
		if flags.Changed("rename") {
			v, _ := flags.GetString("rename")
			patch.Name = &v
		}
		if flags.Changed("unit") {
			v, _ := flags.GetString("unit")
			patch.Unit = &v
		}
		if flags.Changed("stock") {
			v, _ := flags.GetFloat64("stock")
			patch.Stock = &v
		}
		if flags.Changed("min") {
			v, _ := flags.GetFloat64("min")
			patch.MinThreshold = &v
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.UpdateIngredient(args[0], patch)
		})
	},
}

var removeIngredientCmd = &cobra.Command{
	Use:   "remove-ingredient <name>",
	Short: "Remove an inventory item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return nil, e.RemoveIngredient(args[0])
		})
	},
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return printJSON(s.Engine().Recipes())
		})
	},
}

// parseLine reads an "ingredient=quantity" recipe line.
func parseLine(s string) (models.RecipeIngredient, error) {
	name, qty, ok := strings.Cut(s, "=")
	if !ok {
		return models.RecipeIngredient{}, fmt.Errorf("recipe line %q is not ingredient=quantity: %w", s, models.ErrInvalidInput)
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
	if err != nil {
		return models.RecipeIngredient{}, fmt.Errorf("recipe line %q: %w", s, models.ErrInvalidQuantity)
	}
	return models.RecipeIngredient{Ingredient: strings.TrimSpace(name), QuantityPerDish: q}, nil
}

var addRecipeCmd = &cobra.Command{
	Use:   "add-recipe <name>",
	Short: "Add a recipe",
	Example: `  tablepos catalog add-recipe "Shrimp Ceviche" --price 150 --station cold \
    --line "Shrimp=0.15" --line "Lime=3"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parseDecimal(cmd, "price")
		if err != nil {
			return err
		}
		station, _ := cmd.Flags().GetString("station")
		lines, _ := cmd.Flags().GetStringArray("line")

		recipe := models.Recipe{
			Name:        args[0],
			Price:       price,
			Station:     models.ParseStationArea(station),
			Ingredients: make([]models.RecipeIngredient, 0, len(lines)),
		}
		for _, l := range lines {
			line, err := parseLine(l)
			if err != nil {
				return err
			}
			recipe.Ingredients = append(recipe.Ingredients, line)
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.AddRecipe(recipe)
		})
	},
}

var updateRecipeCmd = &cobra.Command{
	Use:   "update-recipe <name>",
	Short: "Edit a recipe; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch catalog.RecipePatch
		flags := cmd.Flags()
		if flags.Changed("rename") {
			v, _ := flags.GetString("rename")
			patch.Name = &v
		}
		if flags.Changed("price") {
			price, err := parseDecimal(cmd, "price")
			if err != nil {
				return err
			}
			patch.Price = &price
		}
		if flags.Changed("station") {
			v, _ := flags.GetString("station")
			station := models.ParseStationArea(v)
			patch.Station = &station
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.UpdateRecipe(args[0], patch)
		})
	},
}

var removeRecipeCmd = &cobra.Command{
	Use:   "remove-recipe <name>",
	Short: "Remove a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return nil, e.RemoveRecipe(args[0])
		})
	},
}

var addLineCmd = &cobra.Command{
	Use:   "add-line <dish> <ingredient=quantity>",
	Short: "Append an ingredient line to a recipe",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.AddRecipeIngredientLine(args[0], line.Ingredient, line.QuantityPerDish)
		})
	},
}

var setLineCmd = &cobra.Command{
	Use:   "set-line <dish> <index> <ingredient=quantity>",
	Short: "Replace an ingredient line of a recipe",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("line %q: %w", args[1], models.ErrInvalidInput)
		}
		line, err := parseLine(args[2])
		if err != nil {
			return err
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.SetRecipeIngredientLine(args[0], index, line.Ingredient, line.QuantityPerDish)
		})
	},
}

var removeLineCmd = &cobra.Command{
	Use:   "remove-line <dish> <index>",
	Short: "Remove an ingredient line from a recipe",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("line %q: %w", args[1], models.ErrInvalidInput)
		}
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.RemoveRecipeIngredientLine(args[0], index)
		})
	},
}

var lossCmd = &cobra.Command{
	Use:   "loss <ingredient> <quantity>",
	Short: "Write off stock as waste",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("quantity %q: %w", args[1], models.ErrInvalidQuantity)
		}
		unit, _ := cmd.Flags().GetString("unit")
		reason, _ := cmd.Flags().GetString("reason")
		return catalogCommand(cmd, func(e *engine.Engine) (interface{}, error) {
			return e.RecordLoss(args[0], qty, unit, reason)
		})
	},
}

var lossesCmd = &cobra.Command{
	Use:   "losses",
	Short: "List the waste log, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *terminal.Session) error {
			return printJSON(s.Engine().Losses())
		})
	},
}

func init() {
	inventoryCmd.Flags().Bool("low", false, "Only items at or below their minimum")

	addIngredientCmd.Flags().Float64("stock", 0, "Initial stock")
	addIngredientCmd.Flags().Float64("min", 0, "Reorder threshold")

	updateIngredientCmd.Flags().String("rename", "", "New name")
	updateIngredientCmd.Flags().String("unit", "", "New unit")
	updateIngredientCmd.Flags().Float64("stock", 0, "New stock level")
	updateIngredientCmd.Flags().Float64("min", 0, "New reorder threshold")

	addRecipeCmd.Flags().String("price", "0", "Price")
	addRecipeCmd.Flags().String("station", string(models.StationOther), "Kitchen station: hot, cold, drinks, bar, desserts or other")
	addRecipeCmd.Flags().StringArray("line", nil, "Ingredient line as ingredient=quantity (repeatable)")

	updateRecipeCmd.Flags().String("rename", "", "New name")
	updateRecipeCmd.Flags().String("price", "", "New price")
	updateRecipeCmd.Flags().String("station", "", "New kitchen station")

	lossCmd.Flags().String("unit", "", "Unit of the quantity; must match the inventory unit")
	lossCmd.Flags().String("reason", "", "Why the stock was lost")

	catalogCmd.AddCommand(
		inventoryCmd, addIngredientCmd, updateIngredientCmd, removeIngredientCmd,
		recipesCmd, addRecipeCmd, updateRecipeCmd, removeRecipeCmd,
		addLineCmd, setLineCmd, removeLineCmd,
		lossCmd, lossesCmd,
	)
	rootCmd.AddCommand(catalogCmd)
}

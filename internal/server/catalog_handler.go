package server

import (
	"github.com/chrisdamba/tablepos/internal/catalog"
	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Stock        float64 `json:"stock"`
	MinThreshold float64 `json:"min_threshold"`
}

type UpdateIngredientRequest struct {
	Name         *string  `json:"name"`
	Unit         *string  `json:"unit"`
	Stock        *float64 `json:"stock"`
	MinThreshold *float64 `json:"min_threshold"`
}

type RecipeLineRequest struct {
	Ingredient      string  `json:"ingredient"`
	QuantityPerDish float64 `json:"quantity_per_dish"`
}

type RecipeRequest struct {
	Name        string              `json:"name"`
	Price       decimal.Decimal     `json:"price"`
	Station     string              `json:"station"`
	Ingredients []RecipeLineRequest `json:"ingredients"`
}

type UpdateRecipeRequest struct {
	Name    *string          `json:"name"`
	Price   *decimal.Decimal `json:"price"`
	Station *string          `json:"station"`
}

// GET /api/inventory
func ListInventoryHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Inventory())
	}
}

// GET /api/inventory/low
func LowStockHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().LowStock())
	}
}

// POST /api/inventory
func AddIngredientHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IngredientRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		var item models.InventoryItem
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			item, err = e.AddIngredient(models.InventoryItem(body))
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PATCH /api/inventory/:name
func UpdateIngredientHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateIngredientRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		name := c.Params("name")
		var item models.InventoryItem
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			item, err = e.UpdateIngredient(name, catalog.IngredientPatch(body))
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(item)
	}
}

// DELETE /api/inventory/:name
func RemoveIngredientHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		err := s.Do(c.UserContext(), func(e *engine.Engine) error {
			return e.RemoveIngredient(name)
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/recipes
func ListRecipesHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Recipes())
	}
}

// POST /api/recipes
//
// Ingredient units are filled in from the inventory.
func AddRecipeHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecipeRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		recipe := models.Recipe{
			Name:        body.Name,
			Price:       body.Price,
			Station:     models.ParseStationArea(body.Station),
			Ingredients: make([]models.RecipeIngredient, 0, len(body.Ingredients)),
		}
		for _, line := range body.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				Ingredient:      line.Ingredient,
				QuantityPerDish: line.QuantityPerDish,
			})
		}

		var out models.Recipe
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			out, err = e.AddRecipe(recipe)
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// PATCH /api/recipes/:name
func UpdateRecipeHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateRecipeRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		patch := catalog.RecipePatch{Name: body.Name, Price: body.Price}
		if body.Station != nil {
			station := models.ParseStationArea(*body.Station)
			patch.Station = &station
		}
		name := c.Params("name")
		var out models.Recipe
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			out, err = e.UpdateRecipe(name, patch)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// DELETE /api/recipes/:name
func RemoveRecipeHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		err := s.Do(c.UserContext(), func(e *engine.Engine) error {
			return e.RemoveRecipe(name)
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/recipes/:name/ingredients
func AddRecipeLineHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecipeLineRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		name := c.Params("name")
		var out models.Recipe
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			out, err = e.AddRecipeIngredientLine(name, body.Ingredient, body.QuantityPerDish)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// PUT /api/recipes/:name/ingredients/:index
func SetRecipeLineHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := indexParam(c)
		if err != nil {
			return err
		}
		var body RecipeLineRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		name := c.Params("name")
		var out models.Recipe
		err = s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			out, err = e.SetRecipeIngredientLine(name, index, body.Ingredient, body.QuantityPerDish)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// DELETE /api/recipes/:name/ingredients/:index
func RemoveRecipeLineHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := indexParam(c)
		if err != nil {
			return err
		}
		name := c.Params("name")
		var out models.Recipe
		err = s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			out, err = e.RemoveRecipeIngredientLine(name, index)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

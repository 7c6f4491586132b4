// Package catalog owns the inventory items and recipes of a terminal.
// Every lookup goes through models.NormalizeKey, so names match regardless
// of surrounding whitespace and letter case.
package catalog

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	inventory []*models.InventoryItem
	recipes   []*models.Recipe
}

// New builds a catalog from copies of the given items and recipes.
func New(inventory []models.InventoryItem, recipes []models.Recipe) *Catalog {
	c := &Catalog{
		inventory: make([]*models.InventoryItem, 0, len(inventory)),
		recipes:   make([]*models.Recipe, 0, len(recipes)),
	}
	for _, item := range inventory {
		item := item
		c.inventory = append(c.inventory, &item)
	}
	for _, r := range recipes {
		r := r.Clone()
		c.recipes = append(c.recipes, &r)
	}
	return c
}

// FindIngredient returns the live inventory item for name, or nil.
func (c *Catalog) FindIngredient(name string) *models.InventoryItem {
	key := models.NormalizeKey(name)
	if key == "" {
		return nil
	}
	for _, item := range c.inventory {
		if models.NormalizeKey(item.Name) == key {
			return item
		}
	}
	return nil
}

// FindRecipe returns the live recipe for dish, or nil.
func (c *Catalog) FindRecipe(dish string) *models.Recipe {
	key := models.NormalizeKey(dish)
	if key == "" {
		return nil
	}
	for _, r := range c.recipes {
		if models.NormalizeKey(r.Name) == key {
			return r
		}
	}
	return nil
}

// Inventory returns a copy of every inventory item, newest first.
func (c *Catalog) Inventory() []models.InventoryItem {
	out := make([]models.InventoryItem, len(c.inventory))
	for i, item := range c.inventory {
		out[i] = *item
	}
	return out
}

// Recipes returns a copy of every recipe, newest first.
func (c *Catalog) Recipes() []models.Recipe {
	out := make([]models.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out
}

// AddIngredient inserts a new inventory item at the head of the list.
func (c *Catalog) AddIngredient(item models.InventoryItem) (models.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Unit = strings.TrimSpace(item.Unit)
	if err := validateIngredient(item); err != nil {
		return models.InventoryItem{}, err
	}
	if c.FindIngredient(item.Name) != nil {
		return models.InventoryItem{}, fmt.Errorf("ingredient %q: %w", item.Name, models.ErrDuplicateKey)
	}
	c.inventory = append([]*models.InventoryItem{&item}, c.inventory...)
	return item, nil
}

// IngredientPatch holds the fields of an inventory item to change. Nil
// fields are left untouched.
type IngredientPatch struct {
	Name         *string
	Unit         *string
	Stock        *float64
	MinThreshold *float64
}

// UpdateIngredient edits an existing item. Renaming to a name held by
// another item fails with ErrDuplicateKey. Recipes keep referring to the
// old name.
func (c *Catalog) UpdateIngredient(name string, patch IngredientPatch) (models.InventoryItem, error) {
	item := c.FindIngredient(name)
	if item == nil {
		return models.InventoryItem{}, fmt.Errorf("%q: %w", name, models.ErrIngredientNotFound)
	}

	updated := *item
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		if other := c.FindIngredient(updated.Name); other != nil && other != item {
			return models.InventoryItem{}, fmt.Errorf("ingredient %q: %w", updated.Name, models.ErrDuplicateKey)
		}
	}
	if patch.Unit != nil {
		updated.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.Stock != nil {
		updated.Stock = *patch.Stock
	}
	if patch.MinThreshold != nil {
		updated.MinThreshold = *patch.MinThreshold
	}
	if err := validateIngredient(updated); err != nil {
		return models.InventoryItem{}, err
	}

	*item = updated
	return updated, nil
}

// RemoveIngredient deletes an inventory item. Recipe lines that reference
// it are kept and resolve to nothing from then on.
func (c *Catalog) RemoveIngredient(name string) error {
	for i, item := range c.inventory {
		if models.SameKey(item.Name, name) {
			c.inventory = append(c.inventory[:i], c.inventory[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, models.ErrIngredientNotFound)
}

// Deduct lowers the stock of an item by qty, clamping at zero, and returns
// the updated item.
func (c *Catalog) Deduct(name string, qty float64) (models.InventoryItem, error) {
	item := c.FindIngredient(name)
	if item == nil {
		return models.InventoryItem{}, fmt.Errorf("%q: %w", name, models.ErrIngredientNotFound)
	}
	item.Stock -= qty
	if item.Stock < 0 {
		item.Stock = 0
	}
	return *item, nil
}

// AddRecipe inserts a new recipe at the head of the list. An empty station
// defaults to "other".
func (c *Catalog) AddRecipe(r models.Recipe) (models.Recipe, error) {
	r = r.Clone()
	r.Name = strings.TrimSpace(r.Name)
	r.Station = models.ParseStationArea(string(r.Station))
	if r.Name == "" {
		return models.Recipe{}, fmt.Errorf("dish name is required: %w", models.ErrInvalidInput)
	}
	if r.Price.IsNegative() {
		return models.Recipe{}, fmt.Errorf("price of %q must not be negative: %w", r.Name, models.ErrInvalidInput)
	}
	if c.FindRecipe(r.Name) != nil {
		return models.Recipe{}, fmt.Errorf("dish %q: %w", r.Name, models.ErrDuplicateKey)
	}
	for i, line := range r.Ingredients {
		line, err := c.resolveLine(line.Ingredient, line.QuantityPerDish)
		if err != nil {
			return models.Recipe{}, err
		}
		r.Ingredients[i] = line
	}

	c.recipes = append([]*models.Recipe{&r}, c.recipes...)
	return r.Clone(), nil
}

// RecipePatch holds the recipe fields to change. Nil fields are left untouched.
type RecipePatch struct {
	Name    *string
	Price   *decimal.Decimal
	Station *models.StationArea
}

// UpdateRecipe edits an existing recipe. Carts keep the price they were
// built with.
func (c *Catalog) UpdateRecipe(dish string, patch RecipePatch) (models.Recipe, error) {
	r := c.FindRecipe(dish)
	if r == nil {
		return models.Recipe{}, fmt.Errorf("%q: %w", dish, models.ErrDishNotFound)
	}

	updated := r.Clone()
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		if updated.Name == "" {
			return models.Recipe{}, fmt.Errorf("dish name is required: %w", models.ErrInvalidInput)
		}
		if other := c.FindRecipe(updated.Name); other != nil && other != r {
			return models.Recipe{}, fmt.Errorf("dish %q: %w", updated.Name, models.ErrDuplicateKey)
		}
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return models.Recipe{}, fmt.Errorf("price of %q must not be negative: %w", updated.Name, models.ErrInvalidInput)
		}
		updated.Price = *patch.Price
	}
	if patch.Station != nil {
		updated.Station = models.ParseStationArea(string(*patch.Station))
	}

	*r = updated
	return updated.Clone(), nil
}

func (c *Catalog) RemoveRecipe(dish string) error {
	for i, r := range c.recipes {
		if models.SameKey(r.Name, dish) {
			c.recipes = append(c.recipes[:i], c.recipes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", dish, models.ErrDishNotFound)
}

// AddRecipeIngredientLine appends an ingredient line to a recipe.
func (c *Catalog) AddRecipeIngredientLine(dish, ingredient string, qty float64) (models.Recipe, error) {
	r := c.FindRecipe(dish)
	if r == nil {
		return models.Recipe{}, fmt.Errorf("%q: %w", dish, models.ErrDishNotFound)
	}
	line, err := c.resolveLine(ingredient, qty)
	if err != nil {
		return models.Recipe{}, err
	}
	r.Ingredients = append(r.Ingredients, line)
	return r.Clone(), nil
}

// SetRecipeIngredientLine replaces the ingredient line at index and
// refreshes its display unit.
func (c *Catalog) SetRecipeIngredientLine(dish string, index int, ingredient string, qty float64) (models.Recipe, error) {
	r := c.FindRecipe(dish)
	if r == nil {
		return models.Recipe{}, fmt.Errorf("%q: %w", dish, models.ErrDishNotFound)
	}
	if index < 0 || index >= len(r.Ingredients) {
		return models.Recipe{}, fmt.Errorf("ingredient line %d of %q: %w", index, dish, models.ErrNotFound)
	}
	line, err := c.resolveLine(ingredient, qty)
	if err != nil {
		return models.Recipe{}, err
	}
	r.Ingredients[index] = line
	return r.Clone(), nil
}

func (c *Catalog) RemoveRecipeIngredientLine(dish string, index int) (models.Recipe, error) {
	r := c.FindRecipe(dish)
	if r == nil {
		return models.Recipe{}, fmt.Errorf("%q: %w", dish, models.ErrDishNotFound)
	}
	if index < 0 || index >= len(r.Ingredients) {
		return models.Recipe{}, fmt.Errorf("ingredient line %d of %q: %w", index, dish, models.ErrNotFound)
	}
	r.Ingredients = append(r.Ingredients[:index], r.Ingredients[index+1:]...)
	return r.Clone(), nil
}

// resolveLine builds a recipe line, caching the unit of the referenced
// inventory item when it exists.
func (c *Catalog) resolveLine(ingredient string, qty float64) (models.RecipeIngredient, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return models.RecipeIngredient{}, fmt.Errorf("ingredient name is required: %w", models.ErrInvalidInput)
	}
	if qty < 0 {
		return models.RecipeIngredient{}, fmt.Errorf("quantity of %q must not be negative: %w", ingredient, models.ErrInvalidQuantity)
	}
	line := models.RecipeIngredient{Ingredient: ingredient, QuantityPerDish: qty}
	if item := c.FindIngredient(ingredient); item != nil {
		line.Ingredient = item.Name
		line.Unit = item.Unit
	}
	return line, nil
}

func validateIngredient(item models.InventoryItem) error {
	if item.Name == "" || item.Unit == "" {
		return fmt.Errorf("ingredient name and unit are required: %w", models.ErrInvalidInput)
	}
	if item.Stock < 0 || item.MinThreshold < 0 {
		return fmt.Errorf("stock and minimum of %q must not be negative: %w", item.Name, models.ErrInvalidQuantity)
	}
	return nil
}

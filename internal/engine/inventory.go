package engine

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/tablepos/internal/catalog"
	"github.com/chrisdamba/tablepos/internal/models"
)

func (e *Engine) Inventory() []models.InventoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Inventory()
}

func (e *Engine) Recipes() []models.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Recipes()
}

// LowStock lists the inventory items at or below their minimum threshold.
func (e *Engine) LowStock() []models.InventoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []models.InventoryItem{}
	for _, item := range e.catalog.Inventory() {
		if item.IsLow() {
			out = append(out, item)
		}
	}
	return out
}

func (e *Engine) Losses() []models.LossEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.LossEntry, len(e.losses))
	copy(out, e.losses)
	return out
}

// RecordLoss writes off qty of an ingredient as waste. The unit, when given,
// must be the inventory unit, and stock must cover the quantity.
func (e *Engine) RecordLoss(ingredient string, qty float64, unit, reason string) (models.LossEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := e.catalog.FindIngredient(ingredient)
	if item == nil {
		return models.LossEntry{}, fmt.Errorf("record loss %q: %w", ingredient, models.ErrIngredientNotFound)
	}
	if qty <= 0 {
		return models.LossEntry{}, fmt.Errorf("record loss of %v %s: %w", qty, item.Name, models.ErrInvalidQuantity)
	}
	if unit != "" && !models.SameKey(unit, item.Unit) {
		return models.LossEntry{}, fmt.Errorf("record loss in %q, %s is counted in %q: %w", unit, item.Name, item.Unit, models.ErrUnitMismatch)
	}
	if models.Exceeds(qty, item.Stock) {
		return models.LossEntry{}, fmt.Errorf("record loss: %w", &models.InsufficientStockError{
			Shortfalls: map[string]models.Shortfall{
				item.Name: {
					Ingredient: item.Name,
					Required:   qty,
					Available:  item.Stock,
					Shortfall:  qty - item.Stock,
					Unit:       item.Unit,
				},
			},
		})
	}

	updated, err := e.catalog.Deduct(item.Name, qty)
	if err != nil {
		return models.LossEntry{}, fmt.Errorf("record loss: %w", err)
	}
	entry := models.LossEntry{
		Timestamp:  e.now(),
		Ingredient: updated.Name,
		Quantity:   qty,
		Unit:       updated.Unit,
		Reason:     strings.TrimSpace(reason),
	}
	e.losses = append([]models.LossEntry{entry}, e.losses...)

	e.emit(models.EventLossRecorded, entry)
	if updated.IsLow() {
		e.emit(models.EventLowStock, []models.InventoryItem{updated})
	}
	e.changed("record_loss")
	return entry, nil
}

func (e *Engine) AddIngredient(item models.InventoryItem) (models.InventoryItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.catalog.AddIngredient(item)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("add ingredient: %w", err)
	}
	e.catalogChanged("add_ingredient")
	return added, nil
}

func (e *Engine) UpdateIngredient(name string, patch catalog.IngredientPatch) (models.InventoryItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	updated, err := e.catalog.UpdateIngredient(name, patch)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("update ingredient: %w", err)
	}
	e.catalogChanged("update_ingredient")
	return updated, nil
}

// RemoveIngredient deletes an inventory item. Recipes that use it keep the
// dangling line; its consumption stops being tracked.
func (e *Engine) RemoveIngredient(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.catalog.RemoveIngredient(name); err != nil {
		return fmt.Errorf("remove ingredient: %w", err)
	}
	e.catalogChanged("remove_ingredient")
	return nil
}

func (e *Engine) AddRecipe(r models.Recipe) (models.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.catalog.AddRecipe(r)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("add recipe: %w", err)
	}
	e.catalogChanged("add_recipe")
	return added, nil
}

func (e *Engine) UpdateRecipe(dish string, patch catalog.RecipePatch) (models.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	updated, err := e.catalog.UpdateRecipe(dish, patch)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	e.catalogChanged("update_recipe")
	return updated, nil
}

// RemoveRecipe deletes a dish. Carts already holding it keep their lines.
func (e *Engine) RemoveRecipe(dish string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.catalog.RemoveRecipe(dish); err != nil {
		return fmt.Errorf("remove recipe: %w", err)
	}
	e.catalogChanged("remove_recipe")
	return nil
}

func (e *Engine) AddRecipeIngredientLine(dish, ingredient string, qty float64) (models.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.catalog.AddRecipeIngredientLine(dish, ingredient, qty)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("add recipe line: %w", err)
	}
	e.catalogChanged("add_recipe_line")
	return r, nil
}

func (e *Engine) SetRecipeIngredientLine(dish string, index int, ingredient string, qty float64) (models.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.catalog.SetRecipeIngredientLine(dish, index, ingredient, qty)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("set recipe line: %w", err)
	}
	e.catalogChanged("set_recipe_line")
	return r, nil
}

func (e *Engine) RemoveRecipeIngredientLine(dish string, index int) (models.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.catalog.RemoveRecipeIngredientLine(dish, index)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("remove recipe line: %w", err)
	}
	e.catalogChanged("remove_recipe_line")
	return r, nil
}

func (e *Engine) catalogChanged(command string) {
	e.emit(models.EventCatalogChanged, command)
	e.changed(command)
}

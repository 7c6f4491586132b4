package tables

import (
	"fmt"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

// AddLine merges qty units of dish into the cart, appending a new line
// priced at unitPrice when the dish is not on it yet.
func AddLine(t *models.Table, dish string, unitPrice decimal.Decimal, qty int) error {
	if qty < 1 {
		return fmt.Errorf("add %d of %q: %w", qty, dish, models.ErrInvalidQuantity)
	}
	if i := t.LineIndex(dish); i >= 0 {
		t.Cart[i].Quantity += qty
		return nil
	}
	t.Cart = append(t.Cart, models.CartLine{Dish: dish, UnitPrice: unitPrice, Quantity: qty})
	return nil
}

// SetLineQuantity changes the quantity of the line at index. The quantity
// cannot drop below what was already sent to the kitchen.
func SetLineQuantity(t *models.Table, index, qty int) error {
	if index < 0 || index >= len(t.Cart) {
		return fmt.Errorf("cart line %d: %w", index, models.ErrNotFound)
	}
	if qty < 1 {
		return fmt.Errorf("quantity %d: %w", qty, models.ErrInvalidQuantity)
	}
	line := &t.Cart[index]
	if sent := t.PrintedQuantity(line.Dish); qty < sent {
		return fmt.Errorf("%d of %q already sent to the kitchen: %w", sent, line.Dish, models.ErrInvalidQuantity)
	}
	line.Quantity = qty
	return nil
}

// RemoveLine deletes the line at index. Lines already sent to the kitchen
// can only go away with the whole cart.
func RemoveLine(t *models.Table, index int) (models.CartLine, error) {
	if index < 0 || index >= len(t.Cart) {
		return models.CartLine{}, fmt.Errorf("cart line %d: %w", index, models.ErrNotFound)
	}
	line := t.Cart[index]
	if sent := t.PrintedQuantity(line.Dish); sent > 0 {
		return models.CartLine{}, fmt.Errorf("%d of %q already sent to the kitchen: %w", sent, line.Dish, models.ErrInvalidQuantity)
	}
	t.Cart = append(t.Cart[:index], t.Cart[index+1:]...)
	return line, nil
}

// Reset empties the cart, notes and kitchen ledger together.
func Reset(t *models.Table) {
	t.Cart = []models.CartLine{}
	t.Notes = ""
	t.PrintedItems = []models.PrintedItem{}
}

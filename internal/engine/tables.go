package engine

import (
	"fmt"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/stock"
	"github.com/chrisdamba/tablepos/internal/tables"
)

// CreateTable adds a table. An empty requestedID takes the next sequential
// number.
func (e *Engine) CreateTable(requestedID, displayName string) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Create(requestedID, displayName)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	out := t.Clone()
	e.emit(models.EventTableCreated, out.Clone())
	e.changed("create_table")
	return out, nil
}

func (e *Engine) DeleteTable(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tables.Delete(id); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	e.emit(models.EventTableDeleted, id)
	e.changed("delete_table")
	return nil
}

// SelectTable makes id the active table. A non-nil outgoingNotes is saved on
// the table being left.
func (e *Engine) SelectTable(id string, outgoingNotes *string) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Select(id, outgoingNotes)
	if err != nil {
		return nil, fmt.Errorf("select table: %w", err)
	}
	e.changed("select_table")
	return t.Clone(), nil
}

func (e *Engine) DeselectTable() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tables.ActiveID() == "" {
		return
	}
	e.tables.Deselect()
	e.changed("deselect_table")
}

func (e *Engine) ActiveTableID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables.ActiveID()
}

// SetNotes stores free-text notes on a table ("" targets the active one).
func (e *Engine) SetNotes(tableID, notes string) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("set notes: %w", err)
	}
	t.Notes = notes
	e.changed("set_notes")
	return t.Clone(), nil
}

// Table returns a copy of one table ("" is the active table).
func (e *Engine) Table(id string) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (e *Engine) Tables() []*models.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables.List()
}

// ActiveCart is the cart of the active table, empty when none is selected.
func (e *Engine) ActiveCart() []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables.ActiveCart()
}

// AddItem adds qty units of a dish to a table's cart ("" targets the active
// table). The line is priced from the recipe when first added.
func (e *Engine) AddItem(tableID, dish string, qty int) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	recipe := e.catalog.FindRecipe(dish)
	if recipe == nil {
		return nil, fmt.Errorf("add item %q: %w", dish, models.ErrDishNotFound)
	}
	if err := tables.AddLine(t, recipe.Name, recipe.Price, qty); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	e.changed("add_item")
	return t.Clone(), nil
}

func (e *Engine) RemoveLine(tableID string, index int) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("remove line: %w", err)
	}
	if _, err := tables.RemoveLine(t, index); err != nil {
		return nil, fmt.Errorf("remove line: %w", err)
	}
	e.changed("remove_line")
	return t.Clone(), nil
}

func (e *Engine) SetLineQuantity(tableID string, index, qty int) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	if err := tables.SetLineQuantity(t, index, qty); err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	e.changed("set_quantity")
	return t.Clone(), nil
}

// ClearCart empties the cart, notes and kitchen ledger of a table.
func (e *Engine) ClearCart(tableID string) (*models.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	tables.Reset(t)
	e.changed("clear_cart")
	return t.Clone(), nil
}

// CheckStock projects a table's cart against current stock without
// changing anything. The returned shortfalls are empty when the cart can be
// served.
func (e *Engine) CheckStock(tableID string) (map[string]models.Requirement, map[string]models.Shortfall, []stock.Unresolved, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("check stock: %w", err)
	}
	reqs, unresolved := e.ledger.ComputeRequirements(t.Cart)
	return reqs, stock.Shortfalls(reqs), unresolved, nil
}

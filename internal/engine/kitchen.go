package engine

import (
	"fmt"

	"github.com/chrisdamba/tablepos/internal/documents"
	"github.com/chrisdamba/tablepos/internal/kitchen"
	"github.com/chrisdamba/tablepos/internal/models"
)

// DiffForKitchen returns what a table has not yet sent to the kitchen. It
// never changes state.
func (e *Engine) DiffForKitchen(tableID string) ([]kitchen.DiffEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("kitchen diff: %w", err)
	}
	return kitchen.Diff(t), nil
}

// CommitKitchenPrint records a delivered diff. An entry that would mark
// more units as sent than the cart holds is rejected and nothing is
// recorded.
func (e *Engine) CommitKitchenPrint(tableID string, diff []kitchen.DiffEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return fmt.Errorf("commit kitchen print: %w", err)
	}
	pending := make(map[string]int)
	for _, entry := range diff {
		i := t.LineIndex(entry.Dish)
		if i < 0 {
			return fmt.Errorf("commit kitchen print %q: %w", entry.Dish, models.ErrDishNotFound)
		}
		key := models.NormalizeKey(entry.Dish)
		pending[key] += entry.QtyNew
		if entry.QtyNew < 0 || t.PrintedQuantity(entry.Dish)+pending[key] > t.Cart[i].Quantity {
			return fmt.Errorf("commit kitchen print %q: %w", entry.Dish, models.ErrInvalidQuantity)
		}
	}
	kitchen.Commit(t, diff)
	e.changed("commit_kitchen_print")
	return nil
}

// SendToKitchen builds the kitchen ticket for the unsent part of a table's
// order and hands it to deliver. The kitchen ledger is only advanced when
// deliver succeeds. deliver runs under the engine lock and must not call
// back into the engine.
func (e *Engine) SendToKitchen(tableID string, deliver func(documents.Document) error) (documents.Document, error) {
	if deliver == nil {
		return documents.Document{}, fmt.Errorf("send to kitchen: no delivery: %w", models.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return documents.Document{}, fmt.Errorf("send to kitchen: %w", err)
	}
	if t.IsEmpty() {
		return documents.Document{}, fmt.Errorf("send to kitchen %q: %w", t.Name, models.ErrEmptyCart)
	}
	diff := kitchen.Diff(t)
	if len(diff) == 0 {
		return documents.Document{}, fmt.Errorf("send to kitchen %q: %w", t.Name, models.ErrNothingNewToSend)
	}

	doc := documents.KitchenTicket(t, diff, e.catalog, e.now())
	if err := deliver(doc); err != nil {
		return documents.Document{}, fmt.Errorf("send to kitchen %q: %w", t.Name, err)
	}
	kitchen.Commit(t, diff)

	e.changed("send_to_kitchen")
	return doc, nil
}

// RequestPrebill prices the full cart of a table for the customer. It does
// not touch the kitchen ledger.
func (e *Engine) RequestPrebill(tableID string, tip models.TipConfig) (documents.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return documents.Document{}, fmt.Errorf("pre-bill: %w", err)
	}
	if t.IsEmpty() {
		return documents.Document{}, fmt.Errorf("pre-bill %q: %w", t.Name, models.ErrEmptyCart)
	}
	return documents.PreBill(t, tip, e.now()), nil
}

// Receipt rebuilds the customer receipt of a logged sale.
func (e *Engine) Receipt(saleID string) (documents.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sale, err := e.findSale(saleID)
	if err != nil {
		return documents.Document{}, fmt.Errorf("receipt: %w", err)
	}
	return documents.Receipt(sale), nil
}

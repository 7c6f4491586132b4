// Package kitchen tracks which part of a table's cart has already been sent
// to the kitchen, so repeated sends only carry what is new.
package kitchen

import (
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

// DiffEntry is a quantity of a dish not yet communicated to the kitchen.
type DiffEntry struct {
	Dish      string          `json:"dish"`
	QtyNew    int             `json:"qty_new"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Diff returns, in cart order, the quantity of every cart line beyond what
// the table's kitchen ledger already records. It does not modify the table.
func Diff(t *models.Table) []DiffEntry {
	out := []DiffEntry{}
	for _, line := range t.Cart {
		qtyNew := line.Quantity - t.PrintedQuantity(line.Dish)
		if qtyNew <= 0 {
			continue
		}
		out = append(out, DiffEntry{Dish: line.Dish, QtyNew: qtyNew, UnitPrice: line.UnitPrice})
	}
	return out
}

// Commit records a delivered diff in the table's kitchen ledger. Call it only
// after the kitchen ticket was produced; an uncommitted diff is sent again
// by the next Diff.
func Commit(t *models.Table, diff []DiffEntry) {
	for _, entry := range diff {
		if entry.QtyNew <= 0 {
			continue
		}
		found := false
		for i := range t.PrintedItems {
			if models.SameKey(t.PrintedItems[i].Dish, entry.Dish) {
				t.PrintedItems[i].Quantity += entry.QtyNew
				found = true
				break
			}
		}
		if !found {
			t.PrintedItems = append(t.PrintedItems, models.PrintedItem{Dish: entry.Dish, Quantity: entry.QtyNew})
		}
	}
}

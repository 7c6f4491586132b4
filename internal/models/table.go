package models

import "github.com/shopspring/decimal"

// CartLine is one dish on an open order. UnitPrice is the recipe price at
// the time the dish was first added.
type CartLine struct {
	Dish      string          `json:"dish"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PrintedItem counts how many units of a dish were already sent to the kitchen.
type PrintedItem struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

type Table struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Cart         []CartLine    `json:"cart"`
	Notes        string        `json:"notes"`
	PrintedItems []PrintedItem `json:"printed_items"`
}

func (t *Table) IsEmpty() bool {
	return len(t.Cart) == 0
}

// ItemCount is the number of units across all cart lines.
func (t *Table) ItemCount() int {
	n := 0
	for _, l := range t.Cart {
		n += l.Quantity
	}
	return n
}

// LineIndex returns the index of the cart line for dish, or -1.
func (t *Table) LineIndex(dish string) int {
	for i, l := range t.Cart {
		if SameKey(l.Dish, dish) {
			return i
		}
	}
	return -1
}

// PrintedQuantity is the number of units of dish already sent to the kitchen.
func (t *Table) PrintedQuantity(dish string) int {
	for _, p := range t.PrintedItems {
		if SameKey(p.Dish, dish) {
			return p.Quantity
		}
	}
	return 0
}

func (t *Table) Clone() *Table {
	out := *t
	out.Cart = make([]CartLine, len(t.Cart))
	copy(out.Cart, t.Cart)
	out.PrintedItems = make([]PrintedItem, len(t.PrintedItems))
	copy(out.PrintedItems, t.PrintedItems)
	return &out
}

// CartSubtotal sums unit price times quantity over the cart.
func CartSubtotal(cart []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cart {
		total = total.Add(l.Amount())
	}
	return total
}

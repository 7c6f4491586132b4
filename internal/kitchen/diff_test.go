package kitchen

import (
	"testing"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var price = decimal.NewFromInt(12)

func TestIncrementalKitchenSend(t *testing.T) {
	tbl := &models.Table{ID: "1", Cart: []models.CartLine{{Dish: "X", UnitPrice: price, Quantity: 2}}}

	first := Diff(tbl)
	if diff := cmp.Diff([]DiffEntry{{Dish: "X", QtyNew: 2, UnitPrice: price}}, first); diff != "" {
		t.Fatalf("first diff (-want +got):\n%s", diff)
	}
	Commit(tbl, first)

	tbl.Cart[0].Quantity++
	second := Diff(tbl)
	if diff := cmp.Diff([]DiffEntry{{Dish: "X", QtyNew: 1, UnitPrice: price}}, second); diff != "" {
		t.Fatalf("second diff (-want +got):\n%s", diff)
	}
}

func TestDiffIsIdempotentWithoutCommit(t *testing.T) {
	tbl := &models.Table{
		ID: "1",
		Cart: []models.CartLine{
			{Dish: "Taco", UnitPrice: price, Quantity: 3},
			{Dish: "Beer", UnitPrice: price, Quantity: 1},
		},
		PrintedItems: []models.PrintedItem{{Dish: "taco", Quantity: 1}, {Dish: "Beer", Quantity: 1}},
	}

	a := Diff(tbl)
	b := Diff(tbl)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("diff changed between calls:\n%s", diff)
	}
	if diff := cmp.Diff([]DiffEntry{{Dish: "Taco", QtyNew: 2, UnitPrice: price}}, a); diff != "" {
		t.Fatalf("diff (-want +got):\n%s", diff)
	}
}

func TestNothingNewGivesEmptyDiff(t *testing.T) {
	tbl := &models.Table{ID: "1", Cart: []models.CartLine{{Dish: "Taco", UnitPrice: price, Quantity: 1}}}
	Commit(tbl, Diff(tbl))
	if got := Diff(tbl); got == nil || len(got) != 0 {
		t.Fatalf("Diff = %#v, want empty non-nil", got)
	}
}

func TestCommitIsMonotonic(t *testing.T) {
	tbl := &models.Table{ID: "1", Cart: []models.CartLine{{Dish: "Taco", UnitPrice: price, Quantity: 1}}}
	prev := 0
	for i := 0; i < 5; i++ {
		tbl.Cart[0].Quantity += i
		Commit(tbl, Diff(tbl))
		got := tbl.PrintedQuantity("Taco")
		if got < prev {
			t.Fatalf("printed quantity went from %d to %d", prev, got)
		}
		if got != tbl.Cart[0].Quantity {
			t.Fatalf("printed %d, cart %d", got, tbl.Cart[0].Quantity)
		}
		prev = got
	}
	if len(tbl.PrintedItems) != 1 {
		t.Fatalf("ledger should hold one entry per dish, got %+v", tbl.PrintedItems)
	}
}

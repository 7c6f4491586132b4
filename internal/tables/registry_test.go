package tables

import (
	"errors"
	"testing"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

func TestCreateAssignsSequentialIDs(t *testing.T) {
	r := New(nil, 1, "")

	first, err := r.Create("", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Create("", "Patio")
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != "1" || first.Name != "Table 1" {
		t.Fatalf("first = %+v", first)
	}
	if second.ID != "2" || second.Name != "Patio" {
		t.Fatalf("second = %+v", second)
	}
	if r.NextID() != 3 {
		t.Fatalf("NextID = %d, want 3", r.NextID())
	}
}

func TestCreateRequestedIDBumpsCounter(t *testing.T) {
	r := New(nil, 1, "")
	if _, err := r.Create("7", "Bar"); err != nil {
		t.Fatal(err)
	}
	next, err := r.Create("", "")
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != "8" {
		t.Fatalf("next id = %s, want 8", next.ID)
	}
	if _, err := r.Create("terrace", "Terrace"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create("Active", "Anything"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("reserved id err = %v, want ErrInvalidInput", err)
	}
	if _, err := r.Create("terrace", "Other"); !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("duplicate id err = %v", err)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	r := New(nil, 1, "")
	if _, err := r.Create("", "Patio"); err != nil {
		t.Fatal(err)
	}
	_, err := r.Create("", "  patio ")
	if !errors.Is(err, models.ErrDuplicateName) || !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
	if len(r.List()) != 1 {
		t.Fatal("rejected create must not add a table")
	}
}

func TestDeleteGuards(t *testing.T) {
	r := New(nil, 1, "")
	busy, _ := r.Create("", "")
	active, _ := r.Create("", "")
	free, _ := r.Create("", "")

	table, _ := r.Get(busy.ID)
	if err := AddLine(table, "Taco", decimal.NewFromInt(10), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Select(active.ID, nil); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete(busy.ID); !errors.Is(err, models.ErrTableNotEmpty) {
		t.Fatalf("delete busy err = %v", err)
	}
	if _, err := r.Get(busy.ID); err != nil {
		t.Fatal("busy table must still exist")
	}
	if err := r.Delete(active.ID); !errors.Is(err, models.ErrTableIsActive) {
		t.Fatalf("delete active err = %v", err)
	}
	if err := r.Delete(free.ID); err != nil {
		t.Fatalf("delete free err = %v", err)
	}
	if err := r.Delete(free.ID); !errors.Is(err, models.ErrTableNotFound) {
		t.Fatalf("delete missing err = %v", err)
	}
}

func TestSelectStoresOutgoingNotes(t *testing.T) {
	r := New(nil, 1, "")
	a, _ := r.Create("", "")
	b, _ := r.Create("", "")

	if _, err := r.Select(a.ID, nil); err != nil {
		t.Fatal(err)
	}
	notes := "no onions"
	if _, err := r.Select(b.ID, &notes); err != nil {
		t.Fatal(err)
	}

	got, _ := r.Get(a.ID)
	if got.Notes != "no onions" {
		t.Fatalf("notes = %q", got.Notes)
	}
	if r.ActiveID() != b.ID {
		t.Fatalf("active = %q, want %q", r.ActiveID(), b.ID)
	}
	if _, err := r.Select("missing", nil); !errors.Is(err, models.ErrTableNotFound) {
		t.Fatalf("select missing err = %v", err)
	}
}

func TestResolveAndActiveCart(t *testing.T) {
	r := New(nil, 1, "")
	if _, err := r.Resolve(""); !errors.Is(err, models.ErrNoActiveTable) {
		t.Fatalf("resolve without selection err = %v", err)
	}
	if cart := r.ActiveCart(); cart == nil || len(cart) != 0 {
		t.Fatalf("ActiveCart without selection = %#v", cart)
	}

	tbl, _ := r.Create("", "")
	r.Select(tbl.ID, nil)
	live, _ := r.Get(tbl.ID)
	AddLine(live, "Taco", decimal.NewFromInt(10), 2)

	got, err := r.Resolve("")
	if err != nil || got.ID != tbl.ID {
		t.Fatalf("Resolve = %v, %v", got, err)
	}
	if cart := r.ActiveCart(); len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("ActiveCart = %+v", cart)
	}
}

func TestListOrdersNumericIDsFirst(t *testing.T) {
	r := New(nil, 1, "")
	r.Create("10", "")
	r.Create("bar", "")
	r.Create("2", "")

	var ids []string
	for _, tbl := range r.List() {
		ids = append(ids, tbl.ID)
	}
	want := []string{"2", "10", "bar"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

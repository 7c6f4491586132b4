package factories

import (
	"testing"

	"github.com/chrisdamba/tablepos/internal/catalog"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestDemoCatalogIsConsistent(t *testing.T) {
	cf := NewCatalogFactory(42)
	inventory := cf.CreateInventory()
	recipes := cf.CreateRecipes()

	c := catalog.New(inventory, recipes)
	if len(c.Inventory()) != len(demoIngredients) {
		t.Fatalf("inventory has %d items, want %d", len(c.Inventory()), len(demoIngredients))
	}

	stations := map[models.StationArea]bool{}
	for _, r := range recipes {
		stations[r.Station] = true
		if !r.Price.IsPositive() {
			t.Errorf("%s has price %s", r.Name, r.Price)
		}
		for _, line := range r.Ingredients {
			item := c.FindIngredient(line.Ingredient)
			if item == nil {
				t.Errorf("%s uses unknown ingredient %q", r.Name, line.Ingredient)
				continue
			}
			if line.Unit != item.Unit {
				t.Errorf("%s/%s unit = %q, want %q", r.Name, line.Ingredient, line.Unit, item.Unit)
			}
		}
	}
	for _, st := range models.StationOrder {
		if st == models.StationOther {
			continue
		}
		if !stations[st] {
			t.Errorf("no demo dish at station %s", st)
		}
	}

	for _, item := range inventory {
		if item.Stock <= 0 {
			t.Errorf("%s stock = %v", item.Name, item.Stock)
		}
		if item.MinThreshold < 0 || item.MinThreshold >= item.Stock {
			t.Errorf("%s threshold %v not below stock %v", item.Name, item.MinThreshold, item.Stock)
		}
	}
}

func TestCatalogFactoryIsDeterministic(t *testing.T) {
	a := NewCatalogFactory(7).CreateInventory()
	b := NewCatalogFactory(7).CreateInventory()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different inventories (-a +b):\n%s", diff)
	}
}

func TestSeedKeepsTables(t *testing.T) {
	state := models.NewState(3)
	state.Tables["1"].Notes = "window"

	NewCatalogFactory(1).Seed(state)

	if len(state.Tables) != 3 || state.Tables["1"].Notes != "window" {
		t.Errorf("tables changed: %+v", state.Tables)
	}
	if len(state.Recipes) != len(demoDishes) {
		t.Errorf("recipes = %d, want %d", len(state.Recipes), len(demoDishes))
	}
}

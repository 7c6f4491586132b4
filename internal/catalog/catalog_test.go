package catalog

import (
	"errors"
	"testing"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New(nil, nil)
	if _, err := c.AddIngredient(models.InventoryItem{Name: "Shrimp", Unit: "g", Stock: 500, MinThreshold: 50}); err != nil {
		t.Fatalf("AddIngredient: %v", err)
	}
	if _, err := c.AddRecipe(models.Recipe{
		Name:        "Shrimp Taco",
		Price:       decimal.NewFromInt(35),
		Station:     models.StationHot,
		Ingredients: []models.RecipeIngredient{{Ingredient: "shrimp", QuantityPerDish: 50}},
	}); err != nil {
		t.Fatalf("AddRecipe: %v", err)
	}
	return c
}

func TestLookupsIgnoreCaseAndWhitespace(t *testing.T) {
	c := newTestCatalog(t)

	if item := c.FindIngredient("  SHRIMP "); item == nil || item.Name != "Shrimp" {
		t.Fatalf("FindIngredient returned %+v", item)
	}
	if r := c.FindRecipe("shrimp taco"); r == nil || r.Name != "Shrimp Taco" {
		t.Fatalf("FindRecipe returned %+v", r)
	}
	if c.FindRecipe("") != nil {
		t.Fatal("empty dish name must not resolve")
	}
}

func TestRecipeLineCachesInventoryUnit(t *testing.T) {
	c := newTestCatalog(t)
	r := c.FindRecipe("Shrimp Taco")
	if got := r.Ingredients[0]; got.Ingredient != "Shrimp" || got.Unit != "g" {
		t.Fatalf("line = %+v, want canonical name and unit g", got)
	}
}

func TestDuplicateInsertsAreRejected(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.AddIngredient(models.InventoryItem{Name: "shrimp ", Unit: "kg"})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("AddIngredient duplicate err = %v", err)
	}
	_, err = c.AddRecipe(models.Recipe{Name: "SHRIMP TACO", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("AddRecipe duplicate err = %v", err)
	}
	if len(c.Inventory()) != 1 || len(c.Recipes()) != 1 {
		t.Fatal("rejected inserts must not change the catalog")
	}
}

func TestAddIngredientValidation(t *testing.T) {
	tests := []struct {
		name string
		item models.InventoryItem
		want error
	}{
		{"blank name", models.InventoryItem{Name: " ", Unit: "g"}, models.ErrInvalidInput},
		{"blank unit", models.InventoryItem{Name: "Lime", Unit: ""}, models.ErrInvalidInput},
		{"negative stock", models.InventoryItem{Name: "Lime", Unit: "pc", Stock: -1}, models.ErrInvalidQuantity},
		{"negative minimum", models.InventoryItem{Name: "Lime", Unit: "pc", MinThreshold: -1}, models.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, nil)
			if _, err := c.AddIngredient(tt.item); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateIngredientRename(t *testing.T) {
	c := newTestCatalog(t)
	if _, err := c.AddIngredient(models.InventoryItem{Name: "Lime", Unit: "pc", Stock: 10}); err != nil {
		t.Fatal(err)
	}

	name := "SHRIMP"
	if _, err := c.UpdateIngredient("lime", IngredientPatch{Name: &name}); !errors.Is(err, models.ErrDuplicateKey) {
		t.Fatalf("rename onto existing name err = %v", err)
	}

	stock := 42.0
	name = "Key Lime"
	got, err := c.UpdateIngredient("lime", IngredientPatch{Name: &name, Stock: &stock})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Key Lime" || got.Stock != 42 {
		t.Fatalf("updated = %+v", got)
	}
	if c.FindIngredient("lime") != nil {
		t.Fatal("old name should no longer resolve")
	}
}

func TestRemoveIngredientLeavesDanglingRecipeLine(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.RemoveIngredient("Shrimp"); err != nil {
		t.Fatal(err)
	}
	r := c.FindRecipe("Shrimp Taco")
	if len(r.Ingredients) != 1 || r.Ingredients[0].Ingredient != "Shrimp" {
		t.Fatalf("recipe line should be kept, got %+v", r.Ingredients)
	}
	if c.FindIngredient("Shrimp") != nil {
		t.Fatal("removed ingredient still resolves")
	}
	if err := c.RemoveIngredient("Shrimp"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestDeductClampsAtZero(t *testing.T) {
	c := newTestCatalog(t)
	got, err := c.Deduct("shrimp", 800)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 0 {
		t.Fatalf("stock = %v, want 0", got.Stock)
	}
}

func TestRecipeIngredientLines(t *testing.T) {
	c := newTestCatalog(t)
	if _, err := c.AddIngredient(models.InventoryItem{Name: "Tortilla", Unit: "pc", Stock: 100}); err != nil {
		t.Fatal(err)
	}

	r, err := c.AddRecipeIngredientLine("shrimp taco", "tortilla", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Ingredients) != 2 || r.Ingredients[1].Unit != "pc" {
		t.Fatalf("ingredients = %+v", r.Ingredients)
	}

	r, err = c.SetRecipeIngredientLine("shrimp taco", 1, "Tortilla", 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Ingredients[1].QuantityPerDish != 3 {
		t.Fatalf("quantity = %v, want 3", r.Ingredients[1].QuantityPerDish)
	}

	if _, err := c.SetRecipeIngredientLine("shrimp taco", 5, "Tortilla", 1); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("out of range err = %v", err)
	}
	if _, err := c.AddRecipeIngredientLine("shrimp taco", "Tortilla", -1); !errors.Is(err, models.ErrInvalidQuantity) {
		t.Fatalf("negative quantity err = %v", err)
	}

	r, err = c.RemoveRecipeIngredientLine("shrimp taco", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].Ingredient != "Tortilla" {
		t.Fatalf("ingredients after remove = %+v", r.Ingredients)
	}
}

func TestUpdateRecipe(t *testing.T) {
	c := newTestCatalog(t)
	price := decimal.NewFromInt(40)
	station := models.StationArea("COLD")
	r, err := c.UpdateRecipe("shrimp taco", RecipePatch{Price: &price, Station: &station})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Price.Equal(price) || r.Station != models.StationCold {
		t.Fatalf("recipe = %+v", r)
	}

	negative := decimal.NewFromInt(-1)
	if _, err := c.UpdateRecipe("shrimp taco", RecipePatch{Price: &negative}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("negative price err = %v", err)
	}
	if err := c.RemoveRecipe("SHRIMP TACO"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.UpdateRecipe("shrimp taco", RecipePatch{}); !errors.Is(err, models.ErrDishNotFound) {
		t.Fatalf("update removed recipe err = %v", err)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	c := newTestCatalog(t)
	inv := c.Inventory()
	inv[0].Stock = 0
	recipes := c.Recipes()
	recipes[0].Ingredients[0].QuantityPerDish = 999

	if c.FindIngredient("shrimp").Stock != 500 {
		t.Fatal("Inventory() must return a copy")
	}
	if c.FindRecipe("shrimp taco").Ingredients[0].QuantityPerDish != 50 {
		t.Fatal("Recipes() must return a copy")
	}
}

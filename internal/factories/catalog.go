package factories

import (
	"math/rand"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

type ingredientSpec struct {
	name     string
	unit     string
	minStock int
	maxStock int
	counted  bool
}

type line struct {
	ingredient string
	qty        float64
}

type dishSpec struct {
	name    string
	price   string
	station models.StationArea
	lines   []line
}

var demoIngredients = []ingredientSpec{
	{"Shrimp", "kg", 4, 12, false},
	{"Fish fillet", "kg", 4, 10, false},
	{"Octopus", "kg", 2, 6, false},
	{"Lime", "unit", 40, 120, true},
	{"Onion", "kg", 3, 8, false},
	{"Tomato", "kg", 3, 8, false},
	{"Cilantro", "g", 300, 900, false},
	{"Garlic", "g", 200, 600, false},
	{"Avocado", "unit", 10, 40, true},
	{"Tortilla", "unit", 60, 200, true},
	{"Rice", "kg", 5, 15, false},
	{"Lemonade base", "l", 4, 12, false},
	{"Sugar", "kg", 2, 6, false},
	{"Mineral water", "unit", 24, 72, true},
	{"Beer", "unit", 24, 96, true},
	{"Mezcal", "l", 1, 4, false},
	{"Flan", "unit", 6, 20, true},
	{"Chocolate cake", "unit", 4, 12, true},
}

var demoDishes = []dishSpec{
	{"Garlic Shrimp", "185", models.StationHot, []line{{"Shrimp", 0.2}, {"Garlic", 15}, {"Rice", 0.1}}},
	{"Fried Fish", "160", models.StationHot, []line{{"Fish fillet", 0.25}, {"Rice", 0.1}, {"Lime", 1}}},
	{"Fish Tacos", "120", models.StationHot, []line{{"Fish fillet", 0.15}, {"Tortilla", 3}, {"Cilantro", 5}}},
	{"Shrimp Ceviche", "150", models.StationCold, []line{{"Shrimp", 0.15}, {"Lime", 3}, {"Onion", 0.05}, {"Tomato", 0.05}, {"Cilantro", 5}}},
	{"Octopus Cocktail", "170", models.StationCold, []line{{"Octopus", 0.15}, {"Tomato", 0.1}, {"Avocado", 0.5}}},
	{"Guacamole", "90", models.StationCold, []line{{"Avocado", 1}, {"Onion", 0.03}, {"Tomato", 0.05}, {"Lime", 1}}},
	{"Lemonade", "45", models.StationDrinks, []line{{"Lemonade base", 0.4}, {"Sugar", 0.02}}},
	{"Mineral Water", "35", models.StationDrinks, []line{{"Mineral water", 1}}},
	{"Beer", "50", models.StationBar, []line{{"Beer", 1}}},
	{"Mezcal Shot", "80", models.StationBar, []line{{"Mezcal", 0.05}, {"Lime", 1}}},
	{"Flan", "60", models.StationDesserts, []line{{"Flan", 1}}},
	{"Chocolate Cake", "75", models.StationDesserts, []line{{"Chocolate cake", 1}}},
}

// CatalogFactory builds the demo seafood catalog. Stock levels and reorder
// thresholds are randomised from the seed; names, units and prices are fixed.
type CatalogFactory struct {
	fake faker.Faker
}

func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (cf *CatalogFactory) CreateInventory() []models.InventoryItem {
	items := make([]models.InventoryItem, 0, len(demoIngredients))
	for _, spec := range demoIngredients {
		items = append(items, cf.createItem(spec))
	}
	return items
}

func (cf *CatalogFactory) createItem(spec ingredientSpec) models.InventoryItem {
	var stock float64
	if spec.counted {
		stock = float64(cf.fake.IntBetween(spec.minStock, spec.maxStock))
	} else {
		stock = cf.fake.Float64(1, spec.minStock, spec.maxStock)
	}
	// threshold between 10% and 25% of the initial stock
	threshold := stock * cf.fake.Float64(2, 10, 25) / 100
	if spec.counted {
		threshold = float64(int(threshold))
	}
	return models.InventoryItem{
		Name:         spec.name,
		Unit:         spec.unit,
		Stock:        stock,
		MinThreshold: threshold,
	}
}

func (cf *CatalogFactory) CreateRecipes() []models.Recipe {
	units := make(map[string]string, len(demoIngredients))
	for _, spec := range demoIngredients {
		units[spec.name] = spec.unit
	}

	recipes := make([]models.Recipe, 0, len(demoDishes))
	for _, dish := range demoDishes {
		r := models.Recipe{
			Name:        dish.name,
			Price:       decimal.RequireFromString(dish.price),
			Station:     dish.station,
			Ingredients: make([]models.RecipeIngredient, 0, len(dish.lines)),
		}
		for _, l := range dish.lines {
			r.Ingredients = append(r.Ingredients, models.RecipeIngredient{
				Ingredient:      l.ingredient,
				QuantityPerDish: l.qty,
				Unit:            units[l.ingredient],
			})
		}
		recipes = append(recipes, r)
	}
	return recipes
}

// Seed replaces the catalog of state with the demo catalog. Tables, sales
// and the loss log are left untouched.
func (cf *CatalogFactory) Seed(state *models.State) {
	state.Inventory = cf.CreateInventory()
	state.Recipes = cf.CreateRecipes()
	state.Normalize()
}

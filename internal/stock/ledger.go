// Package stock projects the raw-ingredient consumption of a cart against
// current inventory. It never changes the catalog.
package stock

import "github.com/chrisdamba/tablepos/internal/models"

// Catalog is the read side of the catalog the ledger needs.
type Catalog interface {
	FindRecipe(dish string) *models.Recipe
	FindIngredient(name string) *models.InventoryItem
}

const (
	ReasonRecipeMissing     = "recipe_missing"
	ReasonIngredientMissing = "ingredient_missing"
)

// Unresolved is a cart reference whose consumption cannot be tracked: the
// dish has no recipe any more, or a recipe line names an ingredient that is
// no longer in inventory.
type Unresolved struct {
	Dish       string `json:"dish"`
	Ingredient string `json:"ingredient,omitempty"`
	Reason     string `json:"reason"`
}

type Ledger struct {
	catalog Catalog
}

func NewLedger(catalog Catalog) *Ledger {
	return &Ledger{catalog: catalog}
}

// ComputeRequirements accumulates quantity per dish times cart quantity for
// every ingredient the cart uses, keyed by inventory item name. Unresolved
// references are skipped and reported separately.
func (l *Ledger) ComputeRequirements(cart []models.CartLine) (map[string]models.Requirement, []Unresolved) {
	reqs := make(map[string]models.Requirement)
	var unresolved []Unresolved

	for _, line := range cart {
		recipe := l.catalog.FindRecipe(line.Dish)
		if recipe == nil {
			unresolved = append(unresolved, Unresolved{Dish: line.Dish, Reason: ReasonRecipeMissing})
			continue
		}
		for _, ing := range recipe.Ingredients {
			if models.NormalizeKey(ing.Ingredient) == "" {
				continue
			}
			item := l.catalog.FindIngredient(ing.Ingredient)
			if item == nil {
				unresolved = append(unresolved, Unresolved{Dish: line.Dish, Ingredient: ing.Ingredient, Reason: ReasonIngredientMissing})
				continue
			}
			req, ok := reqs[item.Name]
			if !ok {
				req = models.Requirement{Ingredient: item.Name, Available: item.Stock, Unit: item.Unit}
			}
			req.Required += ing.QuantityPerDish * float64(line.Quantity)
			reqs[item.Name] = req
		}
	}
	return reqs, unresolved
}

// FindShortfalls returns the requirements stock cannot cover. An empty map
// means the cart can be fulfilled.
func (l *Ledger) FindShortfalls(cart []models.CartLine) map[string]models.Shortfall {
	reqs, _ := l.ComputeRequirements(cart)
	return Shortfalls(reqs)
}

// Shortfalls filters requirements down to those exceeding availability.
func Shortfalls(reqs map[string]models.Requirement) map[string]models.Shortfall {
	out := make(map[string]models.Shortfall)
	for name, r := range reqs {
		if models.Exceeds(r.Required, r.Available) {
			out[name] = models.Shortfall{
				Ingredient: r.Ingredient,
				Required:   r.Required,
				Available:  r.Available,
				Shortfall:  r.Required - r.Available,
				Unit:       r.Unit,
			}
		}
	}
	return out
}

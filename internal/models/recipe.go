package models

import "github.com/shopspring/decimal"

// RecipeIngredient is one line of a recipe. Unit is a display copy of the
// inventory item's unit taken when the line was set.
type RecipeIngredient struct {
	Ingredient      string  `json:"ingredient"`
	QuantityPerDish float64 `json:"quantity_per_dish"`
	Unit            string  `json:"unit"`
}

// Recipe is a sellable dish.
type Recipe struct {
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	Station     StationArea        `json:"station"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = make([]RecipeIngredient, len(r.Ingredients))
	copy(out.Ingredients, r.Ingredients)
	return out
}

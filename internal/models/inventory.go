package models

import "time"

type InventoryItem struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Stock        float64 `json:"stock"`
	MinThreshold float64 `json:"min_threshold"`
}

// QuantityTolerance absorbs float rounding when stock is compared with a
// requirement: 0.1 x 3 must be coverable by a stock of 0.3.
const QuantityTolerance = 1e-9

// Exceeds reports whether required is more than available beyond
// QuantityTolerance.
func Exceeds(required, available float64) bool {
	return required-available > QuantityTolerance
}

// IsLow reports whether stock is at or below the reorder threshold.
func (i InventoryItem) IsLow() bool {
	return i.Stock <= i.MinThreshold
}

// LossEntry records stock written off outside of a sale (waste, spoilage, breakage).
type LossEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Ingredient string    `json:"ingredient"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	Reason     string    `json:"reason"`
}

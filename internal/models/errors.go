package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrDuplicateName       = fmt.Errorf("table name: %w", ErrDuplicateKey)
	ErrNotFound            = errors.New("not found")
	ErrTableNotFound       = fmt.Errorf("table %w", ErrNotFound)
	ErrDishNotFound        = fmt.Errorf("dish %w", ErrNotFound)
	ErrIngredientNotFound  = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrSaleNotFound        = fmt.Errorf("sale %w", ErrNotFound)
	ErrStateNotFound       = fmt.Errorf("persisted state %w", ErrNotFound)
	ErrNoActiveTable       = errors.New("no active table selected")
	ErrTableNotEmpty       = errors.New("table cart is not empty")
	ErrTableIsActive       = errors.New("table is the active table")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientPayment = errors.New("amount paid is less than the total")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNothingNewToSend    = errors.New("nothing new to send to the kitchen")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrUnitMismatch        = errors.New("unit does not match inventory unit")
	ErrShiftAlreadyOpen    = errors.New("a shift is already open")
	ErrNoOpenShift         = errors.New("no open shift")
)

// Requirement is the cumulative quantity of one ingredient a cart consumes,
// next to the stock available when it was evaluated.
type Requirement struct {
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Unit       string  `json:"unit"`
}

// Shortfall is a Requirement that stock cannot cover.
type Shortfall struct {
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Shortfall  float64 `json:"shortfall"`
	Unit       string  `json:"unit"`
}

// InsufficientStockError is returned when a sale or a loss needs more of
// one or more ingredients than is in stock. It matches ErrInsufficientStock.
type InsufficientStockError struct {
	Shortfalls map[string]Shortfall
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Shortfalls))
	for name := range e.Shortfalls {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		s := e.Shortfalls[name]
		parts = append(parts, fmt.Sprintf("%s: missing %.2f %s (required %.2f, available %.2f)",
			name, s.Shortfall, s.Unit, s.Required, s.Available))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientStock, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

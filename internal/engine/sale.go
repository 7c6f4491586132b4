package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/stock"
	"github.com/chrisdamba/tablepos/internal/tables"
	"github.com/shopspring/decimal"
)

// SaleRequest carries what the cashier entered when charging a table.
// Empty OrderType and Payment.Method default to dine-in and cash. A nil
// Notes keeps the notes already on the table.
type SaleRequest struct {
	Payment   models.Payment
	Tip       models.TipConfig
	OrderType string
	Notes     *string
}

type SaleResult struct {
	Sale models.SaleRecord `json:"sale"`
	// LowStock names the inventory items the sale left at or below their
	// minimum threshold, sorted.
	LowStock   []string           `json:"low_stock"`
	Unresolved []stock.Unresolved `json:"unresolved,omitempty"`
}

// ConfirmSale charges a table ("" targets the active one). Payment and stock
// are both checked before anything changes; on success every ingredient the
// cart consumes is deducted in one pass, the sale is logged and the table is
// reset. On failure the state is left exactly as it was.
func (e *Engine) ConfirmSale(tableID string, req SaleRequest) (*SaleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.tables.Resolve(tableID)
	if err != nil {
		return nil, fmt.Errorf("confirm sale: %w", err)
	}
	if t.IsEmpty() {
		return nil, fmt.Errorf("confirm sale on %q: %w", t.Name, models.ErrEmptyCart)
	}

	subtotal := models.CartSubtotal(t.Cart)
	tip := req.Tip.Amount(subtotal)
	total := subtotal.Add(tip)
	if req.Payment.AmountPaid.LessThan(total) {
		return nil, fmt.Errorf("confirm sale: paid %s of %s: %w",
			req.Payment.AmountPaid.StringFixed(2), total.StringFixed(2), models.ErrInsufficientPayment)
	}

	reqs, unresolved := e.ledger.ComputeRequirements(t.Cart)
	if shortfalls := stock.Shortfalls(reqs); len(shortfalls) > 0 {
		return nil, fmt.Errorf("confirm sale: %w", &models.InsufficientStockError{Shortfalls: shortfalls})
	}
	warnUnresolved("confirm sale", unresolved)

	// Commit point. Requirement keys are inventory names resolved under the
	// same lock, so deduction cannot miss.
	names := make([]string, 0, len(reqs))
	for name := range reqs {
		names = append(names, name)
	}
	sort.Strings(names)
	var low []models.InventoryItem
	for _, name := range names {
		item, err := e.catalog.Deduct(name, reqs[name].Required)
		if err != nil {
			return nil, fmt.Errorf("confirm sale: %w", err)
		}
		if item.IsLow() {
			low = append(low, item)
		}
	}

	sale := e.newSale(t, req, subtotal, tip, total)
	e.sales = append([]models.SaleRecord{sale}, e.sales...)
	tables.Reset(t)

	result := &SaleResult{Sale: sale.Clone(), LowStock: []string{}, Unresolved: unresolved}
	for _, item := range low {
		result.LowStock = append(result.LowStock, item.Name)
	}

	e.emit(models.EventSaleConfirmed, sale.Clone())
	if len(low) > 0 {
		e.emit(models.EventLowStock, low)
	}
	e.changed("confirm_sale")
	return result, nil
}

func (e *Engine) newSale(t *models.Table, req SaleRequest, subtotal, tip, total decimal.Decimal) models.SaleRecord {
	notes := t.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	orderType := models.NormalizeKey(req.OrderType)
	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}
	method := models.NormalizeKey(req.Payment.Method)
	if method == "" {
		method = models.PaymentMethodCash
	}
	tipMode := req.Tip.Mode
	if tipMode == "" {
		tipMode = models.TipModeNone
	}

	sale := models.SaleRecord{
		ID:            e.newID(),
		Timestamp:     e.now(),
		TableID:       t.ID,
		TableName:     t.Name,
		Notes:         strings.TrimSpace(notes),
		Items:         make([]models.SaleLine, 0, len(t.Cart)),
		Subtotal:      subtotal,
		TipMode:       tipMode,
		TipValue:      req.Tip.Value,
		Tip:           tip,
		Total:         total,
		AmountPaid:    req.Payment.AmountPaid,
		Change:        req.Payment.AmountPaid.Sub(total),
		PaymentMethod: method,
		OrderType:     orderType,
	}
	if shift, ok := e.currentShift(); ok {
		sale.ShiftID = shift.ID
	}
	for _, l := range t.Cart {
		sale.Items = append(sale.Items, models.SaleLine{Dish: l.Dish, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return sale
}

// Sales returns the sales log, newest first.
func (e *Engine) Sales() []models.SaleRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.SaleRecord, len(e.sales))
	for i, s := range e.sales {
		out[i] = s.Clone()
	}
	return out
}

func (e *Engine) Sale(id string) (models.SaleRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findSale(id)
}

func (e *Engine) findSale(id string) (models.SaleRecord, error) {
	for _, s := range e.sales {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return models.SaleRecord{}, fmt.Errorf("%q: %w", id, models.ErrSaleNotFound)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipConfig describes how the tip is computed from the subtotal.
type TipConfig struct {
	Mode  string          `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// Amount returns the tip for subtotal, rounded to cents. Non-positive
// values and unknown modes yield zero.
func (c TipConfig) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if !c.Value.IsPositive() {
		return decimal.Zero
	}
	switch c.Mode {
	case TipModePercent:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case TipModeFixed:
		return c.Value.Round(2)
	default:
		return decimal.Zero
	}
}

type Payment struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Method     string          `json:"method"`
}

type SaleLine struct {
	Dish      string          `json:"dish"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRecord is a confirmed sale. It is never modified after creation.
type SaleRecord struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	TableID       string          `json:"table_id"`
	TableName     string          `json:"table_name"`
	Notes         string          `json:"notes"`
	Items         []SaleLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TipMode       string          `json:"tip_mode"`
	TipValue      decimal.Decimal `json:"tip_value"`
	Tip           decimal.Decimal `json:"tip"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod string          `json:"payment_method"`
	OrderType     string          `json:"order_type"`
	ShiftID       string          `json:"shift_id"`
}

// ItemCount is the number of units sold.
func (s SaleRecord) ItemCount() int {
	n := 0
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}

func (s SaleRecord) Clone() SaleRecord {
	out := s
	out.Items = make([]SaleLine, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

type Shift struct {
	ID       string     `json:"id"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at"`
}

func (s Shift) IsOpen() bool {
	return s.ClosedAt == nil
}

func (s Shift) Clone() Shift {
	out := s
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		out.ClosedAt = &t
	}
	return out
}

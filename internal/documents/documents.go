// Package documents builds the printable projections of a table or a sale:
// kitchen tickets grouped by station, pre-bills and receipts. It produces
// data only; turning a Document into paper or markup is up to the caller.
package documents

import (
	"time"

	"github.com/chrisdamba/tablepos/internal/kitchen"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindKitchenTicket Kind = "kitchen-ticket"
	KindPreBill       Kind = "pre-bill"
	KindReceipt       Kind = "receipt"
)

// RecipeFinder resolves the station a dish is prepared at.
type RecipeFinder interface {
	FindRecipe(dish string) *models.Recipe
}

type Line struct {
	Dish      string          `json:"dish"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

type StationGroup struct {
	Station models.StationArea `json:"station"`
	Lines   []Line             `json:"lines"`
}

type Document struct {
	Kind          Kind            `json:"kind"`
	CreatedAt     time.Time       `json:"created_at"`
	TableID       string          `json:"table_id"`
	TableName     string          `json:"table_name"`
	Notes         string          `json:"notes,omitempty"`
	Lines         []Line          `json:"lines"`
	Stations      []StationGroup  `json:"stations,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TipMode       string          `json:"tip_mode,omitempty"`
	Tip           decimal.Decimal `json:"tip"`
	Total         decimal.Decimal `json:"total"`
	SaleID        string          `json:"sale_id,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	OrderType     string          `json:"order_type,omitempty"`
}

// ItemCount is the number of units on the document.
func (d Document) ItemCount() int {
	n := 0
	for _, l := range d.Lines {
		n += l.Quantity
	}
	return n
}

func newLine(dish string, qty int, unitPrice decimal.Decimal) Line {
	return Line{
		Dish:      dish,
		Quantity:  qty,
		UnitPrice: unitPrice,
		Amount:    unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// KitchenTicket lists the not yet sent part of a table's order grouped by
// station. Stations appear in models.StationOrder and only when they have
// lines. Dishes without a recipe go to the "other" station.
func KitchenTicket(t *models.Table, diff []kitchen.DiffEntry, recipes RecipeFinder, at time.Time) Document {
	doc := Document{
		Kind:      KindKitchenTicket,
		CreatedAt: at,
		TableID:   t.ID,
		TableName: t.Name,
		Notes:     t.Notes,
		Lines:     make([]Line, 0, len(diff)),
	}

	byStation := make(map[models.StationArea][]Line)
	for _, entry := range diff {
		line := newLine(entry.Dish, entry.QtyNew, entry.UnitPrice)
		doc.Lines = append(doc.Lines, line)

		station := models.StationOther
		if r := recipes.FindRecipe(entry.Dish); r != nil {
			station = models.ParseStationArea(string(r.Station))
		}
		byStation[station] = append(byStation[station], line)
	}
	for _, station := range models.StationOrder {
		if lines, ok := byStation[station]; ok {
			doc.Stations = append(doc.Stations, StationGroup{Station: station, Lines: lines})
		}
	}

	doc.Subtotal = subtotal(doc.Lines)
	doc.Total = doc.Subtotal
	return doc
}

// PreBill prices the full cart of a table with the given tip. It never
// looks at what was sent to the kitchen.
func PreBill(t *models.Table, tip models.TipConfig, at time.Time) Document {
	doc := Document{
		Kind:      KindPreBill,
		CreatedAt: at,
		TableID:   t.ID,
		TableName: t.Name,
		Notes:     t.Notes,
		Lines:     make([]Line, 0, len(t.Cart)),
		TipMode:   tip.Mode,
	}
	for _, l := range t.Cart {
		doc.Lines = append(doc.Lines, newLine(l.Dish, l.Quantity, l.UnitPrice))
	}
	doc.Subtotal = subtotal(doc.Lines)
	doc.Tip = tip.Amount(doc.Subtotal)
	doc.Total = doc.Subtotal.Add(doc.Tip)
	return doc
}

// Receipt reproduces a confirmed sale with its payment details.
func Receipt(sale models.SaleRecord) Document {
	doc := Document{
		Kind:          KindReceipt,
		CreatedAt:     sale.Timestamp,
		TableID:       sale.TableID,
		TableName:     sale.TableName,
		Notes:         sale.Notes,
		Lines:         make([]Line, 0, len(sale.Items)),
		Subtotal:      sale.Subtotal,
		TipMode:       sale.TipMode,
		Tip:           sale.Tip,
		Total:         sale.Total,
		SaleID:        sale.ID,
		AmountPaid:    sale.AmountPaid,
		Change:        sale.Change,
		PaymentMethod: sale.PaymentMethod,
		OrderType:     sale.OrderType,
	}
	for _, l := range sale.Items {
		doc.Lines = append(doc.Lines, newLine(l.Dish, l.Quantity, l.UnitPrice))
	}
	return doc
}

// Package report summarises the sales log for a period or a shift.
package report

import (
	"sort"
	"time"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

// Filter selects sales. Zero fields do not filter. From and To are
// inclusive instants; use DayRange to turn calendar days into bounds.
type Filter struct {
	From    time.Time
	To      time.Time
	ShiftID string
}

func (f Filter) Match(s models.SaleRecord) bool {
	if !f.From.IsZero() && s.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.Timestamp.After(f.To) {
		return false
	}
	if f.ShiftID != "" && s.ShiftID != f.ShiftID {
		return false
	}
	return true
}

// DayRange returns the first and last instant of the calendar days from
// and to in loc. A zero day leaves that side open.
func DayRange(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	var start, end time.Time
	if !from.IsZero() {
		y, m, d := from.In(loc).Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	if !to.IsZero() {
		y, m, d := to.In(loc).Date()
		end = time.Date(y, m, d, 23, 59, 59, 999999999, loc)
	}
	return start, end
}

type PaymentTotal struct {
	Method  string          `json:"method"`
	Tickets int             `json:"tickets"`
	Total   decimal.Decimal `json:"total"`
}

type Summary struct {
	Tickets   int                 `json:"tickets"`
	Items     int                 `json:"items"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	Tips      decimal.Decimal     `json:"tips"`
	Total     decimal.Decimal     `json:"total"`
	ByPayment []PaymentTotal      `json:"by_payment"`
	Sales     []models.SaleRecord `json:"sales"`
}

// Summarize totals the sales that match f. Matching sales are returned
// newest first.
func Summarize(sales []models.SaleRecord, f Filter) Summary {
	sum := Summary{
		Subtotal:  decimal.Zero,
		Tips:      decimal.Zero,
		Total:     decimal.Zero,
		ByPayment: []PaymentTotal{},
		Sales:     []models.SaleRecord{},
	}
	byMethod := make(map[string]*PaymentTotal)

	for _, s := range sales {
		if !f.Match(s) {
			continue
		}
		sum.Tickets++
		sum.Items += s.ItemCount()
		sum.Subtotal = sum.Subtotal.Add(s.Subtotal)
		sum.Tips = sum.Tips.Add(s.Tip)
		sum.Total = sum.Total.Add(s.Total)
		sum.Sales = append(sum.Sales, s.Clone())

		pt, ok := byMethod[s.PaymentMethod]
		if !ok {
			pt = &PaymentTotal{Method: s.PaymentMethod, Total: decimal.Zero}
			byMethod[s.PaymentMethod] = pt
		}
		pt.Tickets++
		pt.Total = pt.Total.Add(s.Total)
	}

	sort.SliceStable(sum.Sales, func(i, j int) bool {
		return sum.Sales[i].Timestamp.After(sum.Sales[j].Timestamp)
	})
	for _, pt := range byMethod {
		sum.ByPayment = append(sum.ByPayment, *pt)
	}
	sort.Slice(sum.ByPayment, func(i, j int) bool {
		return sum.ByPayment[i].Method < sum.ByPayment[j].Method
	})
	return sum
}

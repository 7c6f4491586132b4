package models

// StationArea is the kitchen station a dish is prepared at.
type StationArea string

const (
	StationHot      StationArea = "hot"
	StationCold     StationArea = "cold"
	StationDrinks   StationArea = "drinks"
	StationBar      StationArea = "bar"
	StationDesserts StationArea = "desserts"
	StationOther    StationArea = "other"
)

// StationOrder is the order station groups appear on a kitchen ticket.
var StationOrder = []StationArea{StationHot, StationCold, StationDrinks, StationBar, StationDesserts, StationOther}

// ActiveTableAlias can be used in place of a table id to target the active
// table. It is never a valid table id.
const ActiveTableAlias = "active"

// ParseStationArea maps a user supplied station name to a StationArea.
// Unknown or empty names fall back to StationOther.
func ParseStationArea(s string) StationArea {
	key := StationArea(NormalizeKey(s))
	for _, st := range StationOrder {
		if st == key {
			return st
		}
	}
	return StationOther
}

const (
	TipModeNone    = "none"
	TipModePercent = "percent"
	TipModeFixed   = "fixed"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"

	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

const (
	TopicSaleEvents          = "sale_events"
	TopicLowStockEvents      = "low_stock_events"
	TopicKitchenTicketEvents = "kitchen_ticket_events"
	TopicLossEvents          = "loss_events"
	TopicSnapshotEvents      = "snapshot_events"
)

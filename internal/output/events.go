package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/tablepos/internal/documents"
	"github.com/chrisdamba/tablepos/internal/models"
)

const (
	EventTypeSaleConfirmed = "sale_confirmed"
	EventTypeLowStock      = "low_stock"
	EventTypeKitchenTicket = "kitchen_ticket"
	EventTypeLossRecorded  = "loss_recorded"
	EventTypeStateSnapshot = "state_snapshot"
)

// SaleEvent is a confirmed sale
type SaleEvent struct {
	Timestamp     int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType     string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	SaleID        string  `json:"saleId" parquet:"name=saleId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TableID       string  `json:"tableId" parquet:"name=tableId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TableName     string  `json:"tableName" parquet:"name=tableName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Notes         string  `json:"notes" parquet:"name=notes,type=BYTE_ARRAY,convertedtype=UTF8"`
	Items         string  `json:"items" parquet:"name=items,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount     int64   `json:"itemCount" parquet:"name=itemCount,type=INT64"`
	Subtotal      float64 `json:"subtotal" parquet:"name=subtotal,type=DOUBLE"`
	TipMode       string  `json:"tipMode" parquet:"name=tipMode,type=BYTE_ARRAY,convertedtype=UTF8"`
	Tip           float64 `json:"tip" parquet:"name=tip,type=DOUBLE"`
	Total         float64 `json:"total" parquet:"name=total,type=DOUBLE"`
	AmountPaid    float64 `json:"amountPaid" parquet:"name=amountPaid,type=DOUBLE"`
	Change        float64 `json:"change" parquet:"name=change,type=DOUBLE"`
	PaymentMethod string  `json:"paymentMethod" parquet:"name=paymentMethod,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderType     string  `json:"orderType" parquet:"name=orderType,type=BYTE_ARRAY,convertedtype=UTF8"`
	ShiftID       string  `json:"shiftId" parquet:"name=shiftId,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// LowStockEvent is one inventory item at or below its minimum threshold
type LowStockEvent struct {
	Timestamp    int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType    string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Ingredient   string  `json:"ingredient" parquet:"name=ingredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	Unit         string  `json:"unit" parquet:"name=unit,type=BYTE_ARRAY,convertedtype=UTF8"`
	Stock        float64 `json:"stock" parquet:"name=stock,type=DOUBLE"`
	MinThreshold float64 `json:"minThreshold" parquet:"name=minThreshold,type=DOUBLE"`
}

// KitchenTicketEvent is the part of a kitchen ticket for one station
type KitchenTicketEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	TableID   string `json:"tableId" parquet:"name=tableId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TableName string `json:"tableName" parquet:"name=tableName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Station   string `json:"station" parquet:"name=station,type=BYTE_ARRAY,convertedtype=UTF8"`
	Items     string `json:"items" parquet:"name=items,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount int64  `json:"itemCount" parquet:"name=itemCount,type=INT64"`
	Notes     string `json:"notes" parquet:"name=notes,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// LossEvent is a quantity written off as waste
type LossEvent struct {
	Timestamp  int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType  string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Ingredient string  `json:"ingredient" parquet:"name=ingredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	Quantity   float64 `json:"quantity" parquet:"name=quantity,type=DOUBLE"`
	Unit       string  `json:"unit" parquet:"name=unit,type=BYTE_ARRAY,convertedtype=UTF8"`
	Reason     string  `json:"reason" parquet:"name=reason,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// SnapshotEvent carries the full terminal state. It has no Parquet layout.
type SnapshotEvent struct {
	Timestamp int64         `json:"timestamp"`
	EventType string        `json:"eventType"`
	State     *models.State `json:"state"`
}

func NewSaleEvent(sale models.SaleRecord) SaleEvent {
	return SaleEvent{
		Timestamp:     sale.Timestamp.Unix(),
		EventType:     EventTypeSaleConfirmed,
		SaleID:        sale.ID,
		TableID:       sale.TableID,
		TableName:     sale.TableName,
		Notes:         sale.Notes,
		Items:         saleItems(sale.Items),
		ItemCount:     int64(sale.ItemCount()),
		Subtotal:      sale.Subtotal.InexactFloat64(),
		TipMode:       sale.TipMode,
		Tip:           sale.Tip.InexactFloat64(),
		Total:         sale.Total.InexactFloat64(),
		AmountPaid:    sale.AmountPaid.InexactFloat64(),
		Change:        sale.Change.InexactFloat64(),
		PaymentMethod: sale.PaymentMethod,
		OrderType:     sale.OrderType,
		ShiftID:       sale.ShiftID,
	}
}

// saleItems flattens sale lines the way the sales export lists them:
// "2x Shrimp Taco @ 35.00 | 1x Lemonade @ 10.00".
func saleItems(items []models.SaleLine) string {
	parts := make([]string, 0, len(items))
	for _, l := range items {
		parts = append(parts, fmt.Sprintf("%dx %s @ %s", l.Quantity, l.Dish, l.UnitPrice.StringFixed(2)))
	}
	return strings.Join(parts, " | ")
}

func ticketItems(lines []documents.Line) (string, int64) {
	parts := make([]string, 0, len(lines))
	var count int64
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Dish))
		count += int64(l.Quantity)
	}
	return strings.Join(parts, " | "), count
}

// Messages serialises an engine event into the messages it publishes. Events
// with no outbound topic yield no messages.
func Messages(ev *models.Event) ([]models.EventMessage, error) {
	ts := ev.Time.Unix()
	var out []models.EventMessage
	add := func(topic string, v interface{}) error {
		msg, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s event: %w", topic, err)
		}
		out = append(out, models.EventMessage{Topic: topic, Message: msg})
		return nil
	}

	switch ev.Type {
	case models.EventSaleConfirmed:
		sale, ok := ev.Data.(models.SaleRecord)
		if !ok {
			return nil, fmt.Errorf("unexpected %s payload %T", ev.Type, ev.Data)
		}
		if err := add(models.TopicSaleEvents, NewSaleEvent(sale)); err != nil {
			return nil, err
		}

	case models.EventLowStock:
		items, ok := ev.Data.([]models.InventoryItem)
		if !ok {
			return nil, fmt.Errorf("unexpected %s payload %T", ev.Type, ev.Data)
		}
		for _, item := range items {
			err := add(models.TopicLowStockEvents, LowStockEvent{
				Timestamp:    ts,
				EventType:    EventTypeLowStock,
				Ingredient:   item.Name,
				Unit:         item.Unit,
				Stock:        item.Stock,
				MinThreshold: item.MinThreshold,
			})
			if err != nil {
				return nil, err
			}
		}

	case models.EventLossRecorded:
		loss, ok := ev.Data.(models.LossEntry)
		if !ok {
			return nil, fmt.Errorf("unexpected %s payload %T", ev.Type, ev.Data)
		}
		err := add(models.TopicLossEvents, LossEvent{
			Timestamp:  ts,
			EventType:  EventTypeLossRecorded,
			Ingredient: loss.Ingredient,
			Quantity:   loss.Quantity,
			Unit:       loss.Unit,
			Reason:     loss.Reason,
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// KitchenTicketMessages splits a kitchen ticket into one kitchen_ticket_events
// message per station.
func KitchenTicketMessages(doc documents.Document) ([]models.EventMessage, error) {
	out := make([]models.EventMessage, 0, len(doc.Stations))
	for _, group := range doc.Stations {
		items, count := ticketItems(group.Lines)
		msg, err := json.Marshal(KitchenTicketEvent{
			Timestamp: doc.CreatedAt.Unix(),
			EventType: EventTypeKitchenTicket,
			TableID:   doc.TableID,
			TableName: doc.TableName,
			Station:   string(group.Station),
			Items:     items,
			ItemCount: count,
			Notes:     doc.Notes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s event: %w", models.TopicKitchenTicketEvents, err)
		}
		out = append(out, models.EventMessage{Topic: models.TopicKitchenTicketEvents, Message: msg})
	}
	return out, nil
}

// SnapshotMessage serialises a full state snapshot for snapshot_events.
func SnapshotMessage(state *models.State, at time.Time) (models.EventMessage, error) {
	msg, err := json.Marshal(SnapshotEvent{Timestamp: at.Unix(), EventType: EventTypeStateSnapshot, State: state})
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return models.EventMessage{Topic: models.TopicSnapshotEvents, Message: msg}, nil
}

// SaleMessages serialises a sales log as sale_events, for exports.
func SaleMessages(sales []models.SaleRecord) ([]models.EventMessage, error) {
	out := make([]models.EventMessage, 0, len(sales))
	for _, s := range sales {
		msg, err := json.Marshal(NewSaleEvent(s))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sale %s: %w", s.ID, err)
		}
		out = append(out, models.EventMessage{Topic: models.TopicSaleEvents, Message: msg})
	}
	return out, nil
}

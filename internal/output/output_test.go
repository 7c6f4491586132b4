package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/tablepos/internal/cloudwriter"
	"github.com/chrisdamba/tablepos/internal/documents"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

var eventTime = time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)

func testSale() models.SaleRecord {
	return models.SaleRecord{
		ID:        "sale-1",
		Timestamp: eventTime,
		TableID:   "1",
		TableName: "Table 1",
		Items: []models.SaleLine{
			{Dish: "Shrimp Taco", Quantity: 2, UnitPrice: decimal.NewFromInt(35)},
			{Dish: "Lemonade", Quantity: 1, UnitPrice: decimal.RequireFromString("9.5")},
		},
		Subtotal:      decimal.RequireFromString("79.5"),
		TipMode:       models.TipModeNone,
		Tip:           decimal.Zero,
		Total:         decimal.RequireFromString("79.5"),
		AmountPaid:    decimal.NewFromInt(80),
		Change:        decimal.RequireFromString("0.5"),
		PaymentMethod: models.PaymentMethodCash,
		OrderType:     models.OrderTypeDineIn,
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		event  *models.Event
		topics []string
	}{
		{"sale", &models.Event{Time: eventTime, Type: models.EventSaleConfirmed, Data: testSale()}, []string{models.TopicSaleEvents}},
		{"low stock", &models.Event{Time: eventTime, Type: models.EventLowStock, Data: []models.InventoryItem{{Name: "Shrimp"}, {Name: "Lime"}}}, []string{models.TopicLowStockEvents, models.TopicLowStockEvents}},
		{"loss", &models.Event{Time: eventTime, Type: models.EventLossRecorded, Data: models.LossEntry{Ingredient: "Shrimp", Quantity: 5}}, []string{models.TopicLossEvents}},
		{"state changed", &models.Event{Time: eventTime, Type: models.EventStateChanged, Data: "add_item"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := Messages(tt.event)
			if err != nil {
				t.Fatalf("Messages: %v", err)
			}
			if len(msgs) != len(tt.topics) {
				t.Fatalf("got %d messages, want %d", len(msgs), len(tt.topics))
			}
			for i, m := range msgs {
				if m.Topic != tt.topics[i] {
					t.Errorf("topic %d = %s, want %s", i, m.Topic, tt.topics[i])
				}
				var decoded map[string]interface{}
				if err := json.Unmarshal(m.Message, &decoded); err != nil {
					t.Fatalf("message is not JSON: %v", err)
				}
				if decoded["timestamp"] != float64(eventTime.Unix()) || decoded["eventType"] == "" {
					t.Errorf("missing timestamp or eventType in %s", m.Message)
				}
			}
		})
	}

	if _, err := Messages(&models.Event{Type: models.EventSaleConfirmed, Data: "oops"}); err == nil {
		t.Errorf("expected error for a bad payload")
	}
}

func TestSaleEventFlattensItems(t *testing.T) {
	e := NewSaleEvent(testSale())
	if e.Items != "2x Shrimp Taco @ 35.00 | 1x Lemonade @ 9.50" {
		t.Errorf("Items = %q", e.Items)
	}
	if e.ItemCount != 3 || e.Total != 79.5 || e.Change != 0.5 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestKitchenTicketEventPerStation(t *testing.T) {
	msgs, err := KitchenTicketMessages(documents.Document{
		CreatedAt: eventTime,
		TableID:   "4",
		Stations: []documents.StationGroup{
			{Station: models.StationBar, Lines: []documents.Line{{Dish: "Michelada", Quantity: 2}, {Dish: "Beer", Quantity: 1}}},
			{Station: models.StationDrinks, Lines: []documents.Line{{Dish: "Lemonade", Quantity: 1}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want one per station", len(msgs))
	}
	for _, m := range msgs {
		if m.Topic != models.TopicKitchenTicketEvents {
			t.Errorf("topic = %s", m.Topic)
		}
	}
	var e KitchenTicketEvent
	if err := json.Unmarshal(msgs[0].Message, &e); err != nil {
		t.Fatal(err)
	}
	if e.Station != "bar" || e.Items != "2x Michelada | 1x Beer" || e.ItemCount != 3 || e.Timestamp != eventTime.Unix() {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)
	if err := out.WriteMessage("sale_events", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[sale_events] {\"a\":1}\n" {
		t.Errorf("console output = %q", got)
	}
}

func TestJSONOutputPartitionsByHour(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "events")
	msgs, err := SaleMessages([]models.SaleRecord{testSale(), testSale()})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range msgs {
		if err := out.WriteMessage(m.Topic, m.Message); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "events", "sale_events", "year=2024", "month=05", "day=01", "hour=13", "data.json")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("partition file missing: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e SaleEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if e.SaleID != "sale-1" {
			t.Errorf("line %d sale id = %q", lines, e.SaleID)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("got %d lines, want 2", lines)
	}
}

func TestJSONOutputRejectsMissingTimestamp(t *testing.T) {
	out := NewJSONOutput(t.TempDir(), "events")
	if err := out.WriteMessage("sale_events", []byte(`{"eventType":"x"}`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestCSVOutputAppendsWithSingleHeader(t *testing.T) {
	dir := t.TempDir()
	msg, _ := json.Marshal(LossEvent{Timestamp: eventTime.Unix(), EventType: EventTypeLossRecorded, Ingredient: "Lime", Quantity: 1.5, Unit: "kg", Reason: "mould"})

	for run := 0; run < 2; run++ {
		out := NewCSVOutput(dir, "events")
		if err := out.WriteMessage(models.TopicLossEvents, msg); err != nil {
			t.Fatal(err)
		}
		if err := out.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "events", "loss_events", "year=2024", "month=05", "day=01", "hour=13", "data.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"eventType,ingredient,quantity,reason,timestamp,unit",
		"loss_recorded,Lime,1.5,mould,1714570200,kg",
		"loss_recorded,Lime,1.5,mould,1714570200,kg",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("csv =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestParquetOutputLocal(t *testing.T) {
	dir := t.TempDir()
	out, err := NewParquetOutput(&models.Config{OutputPath: dir, OutputFolder: "export"})
	if err != nil {
		t.Fatal(err)
	}
	msgs, _ := SaleMessages([]models.SaleRecord{testSale(), testSale()})
	for _, m := range msgs {
		if err := out.WriteMessage(m.Topic, m.Message); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}
	if err := out.WriteMessage(models.TopicSnapshotEvents, []byte(`{"timestamp":1}`)); err == nil {
		t.Errorf("snapshot topic has no parquet layout and should be rejected")
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "export", "sale_events", "year=2024", "month=05", "day=01", "hour=13", "part-*.parquet"))
	if len(files) != 1 {
		t.Fatalf("got files %v", files)
	}
	fr, err := local.NewLocalFileReader(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(SaleEvent), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.ReadStop()
	if n := pr.GetNumRows(); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

type memoryWriter struct {
	bytes.Buffer
	closed bool
}

func (m *memoryWriter) Close() error {
	m.closed = true
	return nil
}

type memoryFactory struct {
	objects map[string]*memoryWriter
}

func (f *memoryFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	w := &memoryWriter{}
	f.objects[bucket+"/"+objectPath] = w
	return w, nil
}

func TestParquetOutputCloud(t *testing.T) {
	factory := &memoryFactory{objects: map[string]*memoryWriter{}}
	out := NewParquetOutputWithFactory("export", "bucket", factory)
	msgs, _ := SaleMessages([]models.SaleRecord{testSale()})
	if err := out.WriteMessage(msgs[0].Topic, msgs[0].Message); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	if len(factory.objects) != 1 {
		t.Fatalf("objects = %v", factory.objects)
	}
	for key, w := range factory.objects {
		if !strings.HasPrefix(key, "bucket/export/sale_events/year=2024/month=05/day=01/hour=13/part-") {
			t.Errorf("object key = %s", key)
		}
		if !w.closed || !bytes.HasPrefix(w.Bytes(), []byte("PAR1")) {
			t.Errorf("object not a finished parquet file")
		}
	}
}

func TestKafkaOutput(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"timestamp":1}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	out := NewKafkaOutputWithProducer(producer, "tablepos.")
	if err := out.WriteMessage("sale_events", []byte(`{"timestamp":1}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if err := out.WriteMessage("sale_events", []byte(`{"timestamp":2}`)); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v, want ErrOutOfBrokers", err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.WriteMessage("sale_events", nil); err == nil {
		t.Errorf("write after close succeeded")
	}
}

func TestPostgresInsertComponents(t *testing.T) {
	cols, vals, placeholders := buildInsertComponents(map[string]interface{}{
		"timestamp":    float64(10),
		"eventType":    "state_snapshot",
		"state":        map[string]interface{}{"next_table_id": float64(3)},
		"minThreshold": float64(2),
	})
	if cols != `"event_type", "min_threshold", "state", "timestamp"` {
		t.Errorf("cols = %s", cols)
	}
	if placeholders != "$1, $2, $3, $4" {
		t.Errorf("placeholders = %s", placeholders)
	}
	if vals[2] != `{"next_table_id":3}` {
		t.Errorf("nested value = %v", vals[2])
	}
}

func TestTopicToTable(t *testing.T) {
	for topic, want := range map[string]string{
		models.TopicSaleEvents:     "fact_sale",
		models.TopicLossEvents:     "fact_loss",
		models.TopicSnapshotEvents: "fact_snapshot",
		"refund_events":            "fact_refund",
	} {
		if got := topicToTable(topic); got != want {
			t.Errorf("topicToTable(%s) = %s, want %s", topic, got, want)
		}
	}
}

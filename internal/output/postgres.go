package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/lib/pq"
)

// PostgresOutput inserts every event as a row of the fact table of its
// topic. Columns are the snake_cased JSON keys of the event.
type PostgresOutput struct {
	db *sql.DB
}

var factTables = map[string]string{
	"fact_sale": `
		timestamp BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		sale_id TEXT PRIMARY KEY,
		table_id TEXT,
		table_name TEXT,
		notes TEXT,
		items TEXT,
		item_count BIGINT,
		subtotal DOUBLE PRECISION,
		tip_mode TEXT,
		tip DOUBLE PRECISION,
		total DOUBLE PRECISION,
		amount_paid DOUBLE PRECISION,
		change DOUBLE PRECISION,
		payment_method TEXT,
		order_type TEXT,
		shift_id TEXT`,
	"fact_low_stock": `
		timestamp BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		ingredient TEXT,
		unit TEXT,
		stock DOUBLE PRECISION,
		min_threshold DOUBLE PRECISION`,
	"fact_kitchen_ticket": `
		timestamp BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		table_id TEXT,
		table_name TEXT,
		station TEXT,
		items TEXT,
		item_count BIGINT,
		notes TEXT`,
	"fact_loss": `
		timestamp BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		ingredient TEXT,
		quantity DOUBLE PRECISION,
		unit TEXT,
		reason TEXT`,
	"fact_snapshot": `
		timestamp BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		state JSONB`,
}

func NewPostgresOutput(config *models.DatabaseConfig) (*PostgresOutput, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	p := &PostgresOutput{db: db}
	if err := p.EnsureTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// EnsureTables creates the fact tables that do not exist yet.
func (p *PostgresOutput) EnsureTables(ctx context.Context) error {
	names := make([]string, 0, len(factTables))
	for name := range factTables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pq.QuoteIdentifier(name), factTables[name])
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
	}
	return nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)
	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		pq.QuoteIdentifier(table),
		cols,
		placeholders,
	)

	if _, err := p.db.Exec(query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	return p.db.Close()
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		models.TopicSaleEvents:          "fact_sale",
		models.TopicLowStockEvents:      "fact_low_stock",
		models.TopicKitchenTicketEvents: "fact_kitchen_ticket",
		models.TopicLossEvents:          "fact_loss",
		models.TopicSnapshotEvents:      "fact_snapshot",
	}
	if table, ok := tableMap[topic]; ok {
		return table
	}
	// unmapped topics go to fact_<topic without _events>
	return "fact_" + strings.TrimSuffix(topic, "_events")
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for _, key := range keys {
		switch v := event[key].(type) {
		case map[string]interface{}, []interface{}:
			// nested values are stored as JSONB
			jsonBytes, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling JSON for key %s: %v", key, err)
				continue
			}
			values = append(values, string(jsonBytes))
		default:
			values = append(values, v)
		}

		columns = append(columns, pq.QuoteIdentifier(snakeCaseKey(key)))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(placeholders)+1))
	}

	return strings.Join(columns, ", "), values, strings.Join(placeholders, ", ")
}

func snakeCaseKey(key string) string {
	var result strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var saleColumns = []string{
	"id", "terminal_id", "sold_at", "table_id", "table_name", "notes", "items",
	"subtotal", "tip_mode", "tip", "total", "amount_paid", "change",
	"payment_method", "order_type", "shift_id", "raw",
}

type SaleRepository struct {
	pool       *pgxpool.Pool
	terminalID string
}

func NewSaleRepository(pool *pgxpool.Pool, terminalID string) *SaleRepository {
	return &SaleRepository{pool: pool, terminalID: terminalID}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func (r *SaleRepository) saleRow(s models.SaleRecord) ([]interface{}, error) {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		s.ID,
		r.terminalID,
		s.Timestamp,
		s.TableID,
		s.TableName,
		s.Notes,
		items,
		s.Subtotal.InexactFloat64(),
		s.TipMode,
		s.Tip.InexactFloat64(),
		s.Total.InexactFloat64(),
		s.AmountPaid.InexactFloat64(),
		s.Change.InexactFloat64(),
		s.PaymentMethod,
		s.OrderType,
		s.ShiftID,
		raw,
	}, nil
}

func (r *SaleRepository) copySales(ctx context.Context, q querier, sales []models.SaleRecord) error {
	if len(sales) == 0 {
		return nil
	}
	_, err := q.CopyFrom(
		ctx,
		pgx.Identifier{"sales"},
		saleColumns,
		pgx.CopyFromSlice(len(sales), func(i int) ([]interface{}, error) {
			return r.saleRow(sales[i])
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy sales: %w", err)
	}
	return nil
}

// insertMissing copies the sales whose ids are not in the table yet.
func (r *SaleRepository) insertMissing(ctx context.Context, q querier, sales []models.SaleRecord) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}

	rows, err := q.Query(ctx, "SELECT id FROM sales WHERE id = ANY($1)", ids)
	if err != nil {
		return err
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	var missing []models.SaleRecord
	for _, s := range sales {
		if !known[s.ID] {
			missing = append(missing, s)
		}
	}
	return r.copySales(ctx, q, missing)
}

func (r *SaleRepository) BulkCreate(ctx context.Context, sales []models.SaleRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.copySales(ctx, tx, sales); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SaleRepository) Create(ctx context.Context, sale models.SaleRecord) error {
	row, err := r.saleRow(sale)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO sales (
            id, terminal_id, sold_at, table_id, table_name, notes, items,
            subtotal, tip_mode, tip, total, amount_paid, change,
            payment_method, order_type, shift_id, raw
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
        )
    `
	_, err = r.pool.Exec(ctx, query, row...)
	return err
}

// GetAll returns the terminal's sales, newest first. Amounts come from the
// stored sale document, not from the float columns.
func (r *SaleRepository) GetAll(ctx context.Context) ([]models.SaleRecord, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT raw FROM sales WHERE terminal_id = $1 ORDER BY sold_at DESC", r.terminalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []models.SaleRecord{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sale models.SaleRecord
		if err := json.Unmarshal(raw, &sale); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales WHERE terminal_id = $1", r.terminalID).Scan(&count)
	return count, err
}

func (r *SaleRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM sales WHERE terminal_id = $1", r.terminalID)
	return err
}

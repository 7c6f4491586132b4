package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const DefaultTerminalID = "main"

const schema = `
CREATE TABLE IF NOT EXISTS terminal_state (
    terminal_id TEXT PRIMARY KEY,
    state JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sales (
    id TEXT PRIMARY KEY,
    terminal_id TEXT NOT NULL,
    sold_at TIMESTAMPTZ NOT NULL,
    table_id TEXT NOT NULL,
    table_name TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    items JSONB NOT NULL,
    subtotal DOUBLE PRECISION NOT NULL,
    tip_mode TEXT NOT NULL,
    tip DOUBLE PRECISION NOT NULL,
    total DOUBLE PRECISION NOT NULL,
    amount_paid DOUBLE PRECISION NOT NULL,
    change DOUBLE PRECISION NOT NULL,
    payment_method TEXT NOT NULL,
    order_type TEXT NOT NULL,
    shift_id TEXT NOT NULL DEFAULT '',
    raw JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS sales_sold_at_idx ON sales (terminal_id, sold_at);
`

// StateRepository stores the whole state of one terminal as a JSONB
// document and mirrors new sales into the sales table in the same
// transaction.
type StateRepository struct {
	pool       *pgxpool.Pool
	terminalID string
	sales      *SaleRepository
}

func NewStateRepository(pool *pgxpool.Pool, terminalID string) *StateRepository {
	return &StateRepository{
		pool:       pool,
		terminalID: terminalID,
		sales:      NewSaleRepository(pool, terminalID),
	}
}

// Sales returns the repository over the mirrored sales table.
func (r *StateRepository) Sales() *SaleRepository {
	return r.sales
}

func (r *StateRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func (r *StateRepository) Load(ctx context.Context) (*models.State, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		"SELECT state FROM terminal_state WHERE terminal_id = $1", r.terminalID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("terminal %s: %w", r.terminalID, models.ErrStateNotFound)
	}
	if err != nil {
		return nil, err
	}

	var state models.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state of terminal %s: %w", r.terminalID, err)
	}
	state.Normalize()
	return &state, nil
}

func (r *StateRepository) Save(ctx context.Context, state *models.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO terminal_state (terminal_id, state, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (terminal_id) DO UPDATE
        SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		r.terminalID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if err := r.sales.insertMissing(ctx, tx, state.Sales); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *StateRepository) Close() error {
	r.pool.Close()
	return nil
}

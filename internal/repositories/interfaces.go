// Package repositories persists terminal state. The engine never touches a
// store; the terminal session loads state before a command and saves the
// snapshot after it.
package repositories

import (
	"context"

	"github.com/chrisdamba/tablepos/internal/models"
)

// StateRepository loads and saves the full persisted state of a terminal.
// Load returns models.ErrStateNotFound when nothing was saved yet.
type StateRepository interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
	Close() error
}

// SaleRepository is a queryable copy of the sales log.
type SaleRepository interface {
	BulkCreate(ctx context.Context, sales []models.SaleRecord) error
	Create(ctx context.Context, sale models.SaleRecord) error
	GetAll(ctx context.Context) ([]models.SaleRecord, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

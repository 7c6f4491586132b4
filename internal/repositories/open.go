package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/repositories/file"
	"github.com/chrisdamba/tablepos/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Open returns the state store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *models.Config) (StateRepository, error) {
	switch cfg.StoreBackend {
	case "file", "":
		return file.NewStateRepository(cfg.StatePath), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		repo := postgres.NewStateRepository(pool, postgres.DefaultTerminalID)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Printf("Using postgres state store at %s:%s/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

// LoadOrInit loads the saved state, or returns a fresh one with
// cfg.InitialTables default tables when nothing was saved yet.
func LoadOrInit(ctx context.Context, repo StateRepository, cfg *models.Config) (*models.State, error) {
	state, err := repo.Load(ctx)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, models.ErrStateNotFound):
		return models.NewState(cfg.InitialTables), nil
	default:
		return nil, err
	}
}

// Package storage selects and opens the ledger repository configured by STORAGE.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/association_ledger/internal/repositories/memory"
	"github.com/SscSPs/association_ledger/pkg/database"
)

// Options controls how Open prepares the backing store.
type Options struct {
	// Migrate applies pending migrations before returning a Postgres store.
	Migrate bool
}

// Open returns the configured repository and a function releasing its resources.
func Open(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (portsrepo.LedgerRepository, func(), error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Info("Using in-memory ledger store")
		return memory.NewStore(), func() {}, nil
	case config.StoragePostgres:
	default:
		return nil, nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}

	if opts.Migrate {
		logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
		res, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, 0)
		if err != nil {
			return nil, nil, err
		}
		if res.Changed {
			logger.Info("Database migrations applied successfully.", slog.Uint64("version", uint64(res.Version)))
		} else {
			logger.Info("No new migrations to apply.", slog.Uint64("version", uint64(res.Version)))
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewStore(pool), func() { database.ClosePgxPool(pool) }, nil
}

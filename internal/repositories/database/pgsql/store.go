package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of the ledger repositories.
type Store struct {
	BaseRepository
	inTx bool
}

// NewStore creates a store backed by the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool, db: pool}}
}

var _ portsrepo.LedgerRepository = (*Store)(nil)

// WithinTx runs fn against a store bound to one database transaction.
// Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx)

	txStore := &Store{BaseRepository: BaseRepository{Pool: s.Pool, db: tx}, inTx: true}
	if err := fn(ctx, txStore); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

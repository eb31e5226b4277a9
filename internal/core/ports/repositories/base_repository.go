package repositories

import "context"

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// WithinTx calls fn with a store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store LedgerStore) error) error
}

// LedgerRepository is the storage facade consumed by the ledger services.
// Calls made outside WithinTx run in their own implicit transaction.
type LedgerRepository interface {
	LedgerStore
	TransactionManager
}

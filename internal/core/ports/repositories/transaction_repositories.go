package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// TransactionOrder selects the ordering of ListTransactions.
type TransactionOrder int

const (
	// OrderByEntry sorts by (entry id, transaction id).
	OrderByEntry TransactionOrder = iota
	// OrderByDate sorts by (entry date, transaction id).
	OrderByDate
	// OrderByReconciliation sorts by (reconciliation nulls first, entry date, transaction id).
	OrderByReconciliation
)

// ReconciliationRange matches transactions by their reconciliation date.
// A transaction matches when it is reconciled within (After, UpTo], or when
// IncludeUnreconciled is set, it is unreconciled and its entry is dated on or
// before UnreconciledUpTo.
type ReconciliationRange struct {
	After               *time.Time
	UpTo                *time.Time
	IncludeUnreconciled bool
	UnreconciledUpTo    *time.Time
}

// TransactionFilter narrows transaction queries. Zero values do not filter.
type TransactionFilter struct {
	IDs                 []int64
	EntryIDs            []int64
	AccountIDs          []int64
	AccountCodePrefixes []string
	ThirdPartyID        *int64
	FiscalYearID        *int64
	LetterID            *int64
	Unlettered          bool
	Lettered            bool
	ExcludeProjected    bool
	PendingExport       bool
	Reconciliation      *ReconciliationRange
	Order               TransactionOrder
}

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// SumTransactions totals expense and revenue over the matching transactions.
	SumTransactions(ctx context.Context, filter TransactionFilter) (domain.Totals, error)

	// SumTransactionsByAccount totals per account, ordered by account code.
	SumTransactionsByAccount(ctx context.Context, filter TransactionFilter) ([]domain.AccountTotals, error)

	// SumTransactionsByThirdParty totals per third party, ordered by third party code.
	// Transactions without a third party are skipped.
	SumTransactionsByThirdParty(ctx context.Context, filter TransactionFilter) ([]domain.ThirdPartyTotals, error)
}

// TransactionWriter defines write operations for transactions.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn *domain.Transaction) error

	// SaveTransactions inserts a batch and assigns IDs in order.
	SaveTransactions(ctx context.Context, txns []*domain.Transaction) error

	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID int64) error

	// DeleteTransactionsByEntry removes every transaction of an entry.
	DeleteTransactionsByEntry(ctx context.Context, entryID int64) error

	// SetTransactionsLetter assigns (or clears, with nil) the letter of the given transactions.
	SetTransactionsLetter(ctx context.Context, transactionIDs []int64, letterID *int64) error

	// ClearLetter nulls the letter off every transaction referencing it.
	ClearLetter(ctx context.Context, letterID int64) error

	// SetTransactionsReconciliation stamps (or clears, with nil) the reconciliation date.
	SetTransactionsReconciliation(ctx context.Context, transactionIDs []int64, date *time.Time) error
}

// TransactionTransactionSupport defines locking reads used inside a unit of work.
type TransactionTransactionSupport interface {
	// FindTransactionsByIDsForUpdate selects and locks the rows, ordered by ID.
	FindTransactionsByIDsForUpdate(ctx context.Context, transactionIDs []int64) ([]domain.Transaction, error)
}

// TransactionRepositoryFacade combines the transaction interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionTransactionSupport
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// EntrySvc manages entries.
type EntrySvc interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actor string) (*domain.EntryDetail, error)

	// PostEntry creates the entry and all its lines in one unit of work.
	PostEntry(ctx context.Context, req dto.PostEntryRequest, actor string) (*domain.EntryDetail, error)

	UpdateEntry(ctx context.Context, entryID int64, req dto.UpdateEntryRequest, actor string) (*domain.EntryDetail, error)

	// DeleteEntry removes the entry, its transactions and every letter they belonged to.
	DeleteEntry(ctx context.Context, entryID int64, actor string) error

	GetEntry(ctx context.Context, entryID int64) (*domain.EntryDetail, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.Entry, error)
	EntryIsBalanced(ctx context.Context, entryID int64) (bool, error)
}

// TransactionSvc manages single transaction lines.
type TransactionSvc interface {
	PostTransaction(ctx context.Context, entryID int64, line dto.TransactionLine, actor string) (*domain.Transaction, error)

	// UpdateTransaction destroys the letter of a lettered transaction whose
	// amounts, account or third party change.
	UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error)

	DeleteTransaction(ctx context.Context, transactionID int64, actor string) error
}

// BalanceSvc answers balance queries.
type BalanceSvc interface {
	// AccountBalance sums revenue minus expense, optionally restricted to a fiscal
	// year and to transactions reconciled on or before asOf.
	AccountBalance(ctx context.Context, accountID int64, asOf *time.Time, fiscalYearID *int64) (decimal.Decimal, error)

	ListAccountTransactions(ctx context.Context, accountID int64, params dto.ListAccountTransactionsParams) (*dto.ListAccountTransactionsResponse, error)
	AccountBalances(ctx context.Context, fiscalYearID int64) ([]domain.AccountTotals, error)
	ThirdPartyBalances(ctx context.Context, fiscalYearID int64) ([]domain.ThirdPartyTotals, error)
}

// PostingSvcFacade combines the posting and balance services.
type PostingSvcFacade interface {
	EntrySvc
	TransactionSvc
	BalanceSvc
}

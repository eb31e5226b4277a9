package services

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LetteringSvcFacade groups transactions into balanced letters.
type LetteringSvcFacade interface {
	Letter(ctx context.Context, transactionIDs []int64, actor string) (*domain.Letter, error)
	Unletter(ctx context.Context, letterID int64, actor string) error

	// OpenTransactions lists unlettered candidates on an account.
	OpenTransactions(ctx context.Context, accountID int64, thirdPartyID *int64) ([]domain.Transaction, error)

	LetterLabel(letterID int64) string
}

// ReconciliationSvcFacade matches bank statements against the ledger.
type ReconciliationSvcFacade interface {
	CreateBankStatement(ctx context.Context, req dto.CreateBankStatementRequest, actor string) (*domain.BankStatement, error)
	GetBankStatement(ctx context.Context, id int64) (*domain.BankStatement, error)
	ListBankStatements(ctx context.Context, fiscalYearID *int64) ([]domain.BankStatement, error)

	// SetReconciliation stamps the bank transactions with date, or clears it when date is nil.
	SetReconciliation(ctx context.Context, transactionIDs []int64, date *time.Time, actor string) error

	NextUnreconciledWindow(ctx context.Context) ([]domain.Transaction, error)
	EntriesBalance(ctx context.Context, stmt domain.BankStatement) (decimal.Decimal, error)
	ReconciliationDiscrepancy(ctx context.Context, stmt domain.BankStatement) (decimal.Decimal, error)
	Reconcile(ctx context.Context, statementID int64) (*domain.StatementReconciliation, error)
	StatementTransactions(ctx context.Context, statementID int64) ([]domain.Transaction, error)
}

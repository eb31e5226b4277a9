package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// BankStatementRepository stores declared bank balances.
// Statements are ordered by (date, number, id).
type BankStatementRepository interface {
	SaveBankStatement(ctx context.Context, stmt *domain.BankStatement) error
	FindBankStatementByID(ctx context.Context, id int64) (*domain.BankStatement, error)
	FindBankStatementByDate(ctx context.Context, date time.Time) (*domain.BankStatement, error)

	// ListBankStatements lists statements, optionally restricted to one fiscal year.
	ListBankStatements(ctx context.Context, fiscalYearID *int64) ([]domain.BankStatement, error)

	// FindLatestBankStatement returns the last statement, or ErrNotFound when none exists.
	FindLatestBankStatement(ctx context.Context) (*domain.BankStatement, error)

	// FindPreviousBankStatement returns the last statement dated strictly before date.
	FindPreviousBankStatement(ctx context.Context, date time.Time) (*domain.BankStatement, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reconciliationService matches bank statements against the bank accounts of the ledger.
type reconciliationService struct {
	BaseService
	years            *fiscalYearService
	bankAccountCodes []string
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// bankAccountIDs resolves the configured bank account codes, skipping codes absent from the chart.
func (s *reconciliationService) bankAccountIDs(ctx context.Context, reader portsrepo.AccountReader) ([]int64, error) {
	ids := make([]int64, 0, len(s.bankAccountCodes))
	for _, code := range s.bankAccountCodes {
		account, err := reader.FindAccountByCode(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		ids = append(ids, account.AccountID)
	}
	return ids, nil
}

func (s *reconciliationService) CreateBankStatement(ctx context.Context, req dto.CreateBankStatementRequest, actor string) (*domain.BankStatement, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: statement date is required", apperrors.ErrValidation)
	}
	if !req.Balance.Equal(req.Balance.Round(accounting.Places)) {
		return nil, fmt.Errorf("%w: balance has more than %d decimal places", apperrors.ErrValidation, accounting.Places)
	}

	stmt := domain.BankStatement{
		FiscalYearID: req.FiscalYearID,
		Date:         domain.DateOf(req.Date.Time),
		Number:       req.Number,
		DocumentURI:  req.DocumentURI,
		Balance:      req.Balance,
		AuditFields:  domain.NewAuditFields(actor, s.now()),
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		year, err := s.years.lockOpened(ctx, store, req.FiscalYearID)
		if err != nil {
			return err
		}
		if !year.Contains(stmt.Date) {
			return fmt.Errorf("%w: %s is outside fiscal year %q", apperrors.ErrValidation, stmt.Date.Format(dto.DateLayout), year.Title)
		}
		if _, err := store.FindBankStatementByDate(ctx, stmt.Date); err == nil {
			return fmt.Errorf("%w: a statement already exists on %s", apperrors.ErrDuplicate, stmt.Date.Format(dto.DateLayout))
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if err := store.SaveBankStatement(ctx, &stmt); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityBankStatement, stmt.BankStatementID, domain.AuditCreate, actor)
		ev.Track("date", "", stmt.Date.Format(dto.DateLayout))
		ev.Track("number", "", strconv.Itoa(stmt.Number))
		ev.Track("balance", "", accounting.FormatAmount(stmt.Balance))
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create bank statement", slog.String("date", stmt.Date.Format(dto.DateLayout)))
		return nil, err
	}
	s.LogInfo(ctx, "Bank statement created", slog.Int64("bank_statement_id", stmt.BankStatementID))
	return &stmt, nil
}

func (s *reconciliationService) GetBankStatement(ctx context.Context, id int64) (*domain.BankStatement, error) {
	return s.repo.FindBankStatementByID(ctx, id)
}

func (s *reconciliationService) ListBankStatements(ctx context.Context, fiscalYearID *int64) ([]domain.BankStatement, error) {
	return s.repo.ListBankStatements(ctx, fiscalYearID)
}

func (s *reconciliationService) SetReconciliation(ctx context.Context, transactionIDs []int64, date *time.Time, actor string) error {
	ids := slices.Clone(transactionIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return fmt.Errorf("%w: no transactions given", apperrors.ErrValidation)
	}
	var stamp *time.Time
	if date != nil {
		d := domain.DateOf(*date)
		stamp = &d
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		bankIDs, err := s.bankAccountIDs(ctx, store)
		if err != nil {
			return err
		}
		txns, err := store.FindTransactionsByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(txns) != len(ids) {
			return apperrors.NewNotFoundError(fmt.Sprintf("%d of %d transactions", len(ids)-len(txns), len(ids)))
		}
		events := make([]domain.AuditEvent, 0, len(txns))
		for _, t := range txns {
			if !slices.Contains(bankIDs, t.AccountID) {
				return fmt.Errorf("%w: transaction %d is not on a bank account", apperrors.ErrValidation, t.TransactionID)
			}
			ev := s.newEvent(domain.EntityTransaction, t.TransactionID, domain.AuditUpdate, actor)
			ev.Track("reconciliation", optionalDate(t.Reconciliation), optionalDate(stamp))
			if ev.HasChanges() {
				events = append(events, ev)
			}
		}
		if err := store.SetTransactionsReconciliation(ctx, ids, stamp); err != nil {
			return err
		}
		return s.audit(ctx, store, events...)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Reconciliation updated", slog.Int("count", len(ids)), slog.String("date", optionalDate(stamp)))
	return nil
}

// NextUnreconciledWindow lists the bank transactions still to be matched: unreconciled ones
// and those reconciled after the latest statement, up to today. Without any statement the
// lower bound is open.
func (s *reconciliationService) NextUnreconciledWindow(ctx context.Context) ([]domain.Transaction, error) {
	bankIDs, err := s.bankAccountIDs(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if len(bankIDs) == 0 {
		return []domain.Transaction{}, nil
	}
	filter := portsrepo.TransactionFilter{
		AccountIDs:       bankIDs,
		ExcludeProjected: true,
		Order:            portsrepo.OrderByReconciliation,
	}
	today := domain.DateOf(s.now())
	filter.Reconciliation = &portsrepo.ReconciliationRange{UpTo: &today, IncludeUnreconciled: true}
	latest, err := s.repo.FindLatestBankStatement(ctx)
	switch {
	case err == nil:
		filter.Reconciliation.After = &latest.Date
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}
	return s.repo.ListTransactions(ctx, filter)
}

// EntriesBalance sums expense minus revenue over bank transactions reconciled on or before the statement date.
func (s *reconciliationService) EntriesBalance(ctx context.Context, stmt domain.BankStatement) (decimal.Decimal, error) {
	bankIDs, err := s.bankAccountIDs(ctx, s.repo)
	if err != nil {
		return decimal.Zero, err
	}
	if len(bankIDs) == 0 {
		return decimal.Zero, nil
	}
	upTo := domain.DateOf(stmt.Date)
	totals, err := s.repo.SumTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:       bankIDs,
		ExcludeProjected: true,
		Reconciliation:   &portsrepo.ReconciliationRange{UpTo: &upTo},
	})
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Expense.Sub(totals.Revenue), nil
}

func (s *reconciliationService) ReconciliationDiscrepancy(ctx context.Context, stmt domain.BankStatement) (decimal.Decimal, error) {
	balance, err := s.EntriesBalance(ctx, stmt)
	if err != nil {
		return decimal.Zero, err
	}
	return stmt.Balance.Sub(balance), nil
}

func (s *reconciliationService) Reconcile(ctx context.Context, statementID int64) (*domain.StatementReconciliation, error) {
	stmt, err := s.repo.FindBankStatementByID(ctx, statementID)
	if err != nil {
		return nil, err
	}
	balance, err := s.EntriesBalance(ctx, *stmt)
	if err != nil {
		return nil, err
	}
	return &domain.StatementReconciliation{
		Statement:      *stmt,
		EntriesBalance: balance,
		Discrepancy:    stmt.Balance.Sub(balance),
	}, nil
}

// StatementTransactions lists the bank transactions reconciled since the previous statement
// plus the unreconciled ones dated on or before the statement.
func (s *reconciliationService) StatementTransactions(ctx context.Context, statementID int64) ([]domain.Transaction, error) {
	stmt, err := s.repo.FindBankStatementByID(ctx, statementID)
	if err != nil {
		return nil, err
	}
	bankIDs, err := s.bankAccountIDs(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if len(bankIDs) == 0 {
		return []domain.Transaction{}, nil
	}

	upTo := domain.DateOf(stmt.Date)
	window := &portsrepo.ReconciliationRange{UpTo: &upTo, IncludeUnreconciled: true, UnreconciledUpTo: &upTo}
	prev, err := s.repo.FindPreviousBankStatement(ctx, stmt.Date)
	switch {
	case err == nil:
		window.After = &prev.Date
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}
	return s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:       bankIDs,
		ExcludeProjected: true,
		Reconciliation:   window,
		Order:            portsrepo.OrderByReconciliation,
	})
}

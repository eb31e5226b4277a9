package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const carryForwardTitle = "Carry-forward"

// closingService rolls a fiscal year's balances into the next one.
type closingService struct {
	BaseService
	years *fiscalYearService
	cfg   config.LedgerConfig
}

var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

// CloseYear posts the carry-forward entry of oldYearID into newYearID and marks the old year closed.
func (s *closingService) CloseYear(ctx context.Context, oldYearID, newYearID int64, actor string) (*domain.EntryDetail, error) {
	if oldYearID == newYearID {
		return nil, fmt.Errorf("%w: a fiscal year cannot be carried into itself", apperrors.ErrValidation)
	}

	var detail domain.EntryDetail
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		oldYear, err := store.FindFiscalYearByIDForUpdate(ctx, oldYearID)
		if err != nil {
			return err
		}
		if oldYear.Closed {
			return fmt.Errorf("%w: fiscal year %q", apperrors.ErrYearAlreadyClosed, oldYear.Title)
		}
		newYear, err := s.years.lockOpened(ctx, store, newYearID)
		if err != nil {
			return err
		}
		if newYear.Start.Before(oldYear.End) {
			return fmt.Errorf("%w: fiscal year %q starts before %q ends", apperrors.ErrValidation, newYear.Title, oldYear.Title)
		}

		journal, err := store.FindJournalByCode(ctx, s.cfg.ClosingJournalCode)
		if err != nil {
			return s.missingReference(err, "closing journal", s.cfg.ClosingJournalCode)
		}
		profit, err := store.FindAccountByCode(ctx, s.cfg.ProfitAccountCode)
		if err != nil {
			return s.missingReference(err, "profit account", s.cfg.ProfitAccountCode)
		}
		loss, err := store.FindAccountByCode(ctx, s.cfg.LossAccountCode)
		if err != nil {
			return s.missingReference(err, "loss account", s.cfg.LossAccountCode)
		}

		lines, err := s.carryForwardLines(ctx, store, *oldYear, profit.AccountID, loss.AccountID)
		if err != nil {
			return err
		}

		now := s.now()
		entry := domain.Entry{
			FiscalYearID: newYear.FiscalYearID,
			JournalID:    journal.JournalID,
			Kind:         domain.KindGeneric,
			Date:         domain.DateOf(newYear.Start),
			Title:        carryForwardTitle,
			AuditFields:  domain.NewAuditFields(actor, now),
		}
		if err := store.SaveEntry(ctx, &entry); err != nil {
			return err
		}
		txns := make([]*domain.Transaction, len(lines))
		for i := range lines {
			lines[i].EntryID = entry.EntryID
			lines[i].AuditFields = domain.NewAuditFields(actor, now)
			txns[i] = &lines[i]
		}
		if len(txns) > 0 {
			if err := store.SaveTransactions(ctx, txns); err != nil {
				return err
			}
		}

		oldEv := s.newEvent(domain.EntityFiscalYear, oldYear.FiscalYearID, domain.AuditUpdate, actor)
		oldEv.Track("closed", strconv.FormatBool(oldYear.Closed), "true")
		oldEv.Track("opened", strconv.FormatBool(oldYear.Opened), "false")
		oldYear.Closed = true
		oldYear.Opened = false
		oldYear.Touch(actor, now)
		if err := store.UpdateFiscalYear(ctx, *oldYear); err != nil {
			return err
		}

		detail = domain.NewEntryDetail(entry, lines)
		entryEv := s.newEvent(domain.EntityEntry, entry.EntryID, domain.AuditCreate, actor)
		entryEv.Track("title", "", entry.Title)
		entryEv.Track("carried_from", "", oldYear.Title)
		entryEv.Track("lines", "", strconv.Itoa(len(lines)))
		return s.audit(ctx, store, entryEv, oldEv)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close fiscal year", slog.Int64("old_year_id", oldYearID), slog.Int64("new_year_id", newYearID))
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal year closed",
		slog.Int64("old_year_id", oldYearID),
		slog.Int64("entry_id", detail.EntryID),
		slog.Int("lines", len(detail.Transactions)),
		slog.String("balance", accounting.FormatAmount(detail.Balance())))
	return &detail, nil
}

// carryForwardLines computes the lines of the carry-forward entry in posting order:
// netted balance sheet accounts, verbatim open third-party lines, then the result.
func (s *closingService) carryForwardLines(ctx context.Context, store portsrepo.LedgerStore, oldYear domain.FiscalYear, profitID, lossID int64) ([]domain.Transaction, error) {
	yearID := oldYear.FiscalYearID
	var lines []domain.Transaction

	balances, err := store.SumTransactionsByAccount(ctx, portsrepo.TransactionFilter{
		FiscalYearID:        &yearID,
		AccountCodePrefixes: []string{domain.ClassEquity.Prefix(), domain.ClassFixedAssets.Prefix(), domain.ClassCash.Prefix()},
		Unlettered:          true,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		if line, ok := splitLine(b.AccountID, "", b.Balance()); ok {
			lines = append(lines, line)
		}
	}

	open, err := store.ListTransactions(ctx, portsrepo.TransactionFilter{
		FiscalYearID:        &yearID,
		AccountCodePrefixes: []string{domain.ClassThirdParty.Prefix()},
		Unlettered:          true,
		Order:               portsrepo.OrderByEntry,
	})
	if err != nil {
		return nil, err
	}
	for _, t := range open {
		lines = append(lines, domain.Transaction{
			AccountID:    t.AccountID,
			ThirdPartyID: t.ThirdPartyID,
			Title:        t.Title,
			Expense:      t.Expense,
			Revenue:      t.Revenue,
		})
	}

	result, err := store.SumTransactions(ctx, portsrepo.TransactionFilter{
		FiscalYearID:        &yearID,
		AccountCodePrefixes: []string{domain.ClassExpense.Prefix(), domain.ClassRevenue.Prefix()},
	})
	if err != nil {
		return nil, err
	}
	resultAccount := profitID
	if result.Balance().IsNegative() {
		resultAccount = lossID
	}
	if line, ok := splitLine(resultAccount, "Result of fiscal year "+oldYear.Title, result.Balance()); ok {
		lines = append(lines, line)
	}
	return lines, nil
}

// splitLine turns a signed balance into a single-sided line. Zero balances yield nothing.
func splitLine(accountID int64, title string, balance decimal.Decimal) (domain.Transaction, bool) {
	if balance.IsZero() {
		return domain.Transaction{}, false
	}
	expense, revenue := accounting.SplitBalance(balance)
	return domain.Transaction{AccountID: accountID, Title: title, Expense: expense, Revenue: revenue}, true
}

func (s *closingService) missingReference(err error, what, code string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s %s does not exist", apperrors.ErrValidation, what, code)
	}
	return err
}

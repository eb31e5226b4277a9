package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/SscSPs/association_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 50

func (s *postingService) PostTransaction(ctx context.Context, entryID int64, line dto.TransactionLine, actor string) (*domain.Transaction, error) {
	if err := accounting.ValidateAmounts(line.Expense, line.Revenue); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		EntryID:      entryID,
		AccountID:    line.AccountID,
		ThirdPartyID: line.ThirdPartyID,
		AnalyticID:   line.AnalyticID,
		Title:        strings.TrimSpace(line.Title),
		Expense:      line.Expense,
		Revenue:      line.Revenue,
		AuditFields:  domain.NewAuditFields(actor, s.now()),
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entry, err := store.FindEntryByID(ctx, entryID)
		if err != nil {
			return err
		}
		if _, err := s.years.lockOpened(ctx, store, entry.FiscalYearID); err != nil {
			return err
		}
		if err := store.SaveTransaction(ctx, &txn); err != nil {
			return err
		}
		return s.audit(ctx, store, s.transactionCreatedEvent(txn, actor))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction", slog.Int64("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction posted", slog.Int64("transaction_id", txn.TransactionID), slog.Int64("entry_id", entryID))
	return &txn, nil
}

// lockTransaction loads a transaction for update and checks its year accepts writes.
func (s *postingService) lockTransaction(ctx context.Context, store portsrepo.LedgerStore, transactionID int64) (*domain.Transaction, error) {
	txns, err := store.FindTransactionsByIDsForUpdate(ctx, []int64{transactionID})
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}
	entry, err := store.FindEntryByID(ctx, txns[0].EntryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.years.lockOpened(ctx, store, entry.FiscalYearID); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

func (s *postingService) UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest, actor string) (*domain.Transaction, error) {
	var updated domain.Transaction
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		old, err := s.lockTransaction(ctx, store, transactionID)
		if err != nil {
			return err
		}
		next := *old
		if req.AccountID != nil {
			next.AccountID = *req.AccountID
		}
		switch {
		case req.ClearThirdParty:
			next.ThirdPartyID = nil
		case req.ThirdPartyID != nil:
			next.ThirdPartyID = req.ThirdPartyID
		}
		switch {
		case req.ClearAnalytic:
			next.AnalyticID = nil
		case req.AnalyticID != nil:
			next.AnalyticID = req.AnalyticID
		}
		if req.Title != nil {
			next.Title = strings.TrimSpace(*req.Title)
		}
		if req.Expense != nil {
			next.Expense = *req.Expense
		}
		if req.Revenue != nil {
			next.Revenue = *req.Revenue
		}
		if err := accounting.ValidateAmounts(next.Expense, next.Revenue); err != nil {
			return err
		}

		ev := s.newEvent(domain.EntityTransaction, transactionID, domain.AuditUpdate, actor)
		ev.Track("account", strconv.FormatInt(old.AccountID, 10), strconv.FormatInt(next.AccountID, 10))
		ev.Track("third_party", optionalID(old.ThirdPartyID), optionalID(next.ThirdPartyID))
		ev.Track("analytic", optionalID(old.AnalyticID), optionalID(next.AnalyticID))
		ev.Track("title", old.Title, next.Title)
		ev.Track("expense", accounting.FormatAmount(old.Expense), accounting.FormatAmount(next.Expense))
		ev.Track("revenue", accounting.FormatAmount(old.Revenue), accounting.FormatAmount(next.Revenue))
		if !ev.HasChanges() {
			updated = *old
			return nil
		}

		events := make([]domain.AuditEvent, 0, 2)
		if old.IsLettered() && next.LetterKeyChanged(*old) {
			letterEv, err := destroyLetter(ctx, store, &s.BaseService, *old.LetterID, actor)
			if err != nil {
				return err
			}
			events = append(events, letterEv)
			ev.Track("letter", domain.LetterLabel(*old.LetterID), "")
			next.LetterID = nil
		}
		next.Touch(actor, s.now())
		if err := store.UpdateTransaction(ctx, next); err != nil {
			return err
		}
		updated = next
		return s.audit(ctx, store, append(events, ev)...)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction updated", slog.Int64("transaction_id", transactionID))
	return &updated, nil
}

func (s *postingService) DeleteTransaction(ctx context.Context, transactionID int64, actor string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		txn, err := s.lockTransaction(ctx, store, transactionID)
		if err != nil {
			return err
		}
		var events []domain.AuditEvent
		if txn.IsLettered() {
			letterEv, err := destroyLetter(ctx, store, &s.BaseService, *txn.LetterID, actor)
			if err != nil {
				return err
			}
			events = append(events, letterEv)
		}
		if err := store.DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityTransaction, transactionID, domain.AuditDelete, actor)
		ev.Track("account", strconv.FormatInt(txn.AccountID, 10), "")
		ev.Track("expense", accounting.FormatAmount(txn.Expense), "")
		ev.Track("revenue", accounting.FormatAmount(txn.Revenue), "")
		return s.audit(ctx, store, append(events, ev)...)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", transactionID))
	return nil
}

func (s *postingService) AccountBalance(ctx context.Context, accountID int64, asOf *time.Time, fiscalYearID *int64) (decimal.Decimal, error) {
	if _, err := s.repo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	filter := portsrepo.TransactionFilter{AccountIDs: []int64{accountID}, FiscalYearID: fiscalYearID}
	if asOf != nil {
		upTo := domain.DateOf(*asOf)
		filter.Reconciliation = &portsrepo.ReconciliationRange{UpTo: &upTo}
	}
	totals, err := s.repo.SumTransactions(ctx, filter)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Balance(), nil
}

// ListAccountTransactions pages an account ledger ordered by (entry date, id).
// The running balance always accumulates from the first line of the selection.
func (s *postingService) ListAccountTransactions(ctx context.Context, accountID int64, params dto.ListAccountTransactionsParams) (*dto.ListAccountTransactionsResponse, error) {
	if _, err := s.repo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	var cursor *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursor = &c
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	txns, err := s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:   []int64{accountID},
		FiscalYearID: params.FiscalYearID,
		Order:        portsrepo.OrderByDate,
	})
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.FindEntriesByIDs(ctx, entryIDsOf(txns))
	if err != nil {
		return nil, err
	}

	resp := &dto.ListAccountTransactionsResponse{Lines: make([]domain.LedgerLine, 0, limit)}
	running := decimal.Zero
	for _, t := range txns {
		entry := entries[t.EntryID]
		running = running.Add(t.Balance())
		if cursor != nil && !cursor.After(entry.Date, t.TransactionID) {
			continue
		}
		if len(resp.Lines) == limit {
			last := resp.Lines[len(resp.Lines)-1]
			token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, TransactionID: last.TransactionID})
			resp.NextToken = &token
			break
		}
		resp.Lines = append(resp.Lines, domain.LedgerLine{
			Transaction:    t,
			EntryDate:      entry.Date,
			EntryTitle:     entry.Title,
			RunningBalance: running,
		})
	}
	return resp, nil
}

func (s *postingService) AccountBalances(ctx context.Context, fiscalYearID int64) ([]domain.AccountTotals, error) {
	if _, err := s.repo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	return s.repo.SumTransactionsByAccount(ctx, portsrepo.TransactionFilter{FiscalYearID: &fiscalYearID})
}

func (s *postingService) ThirdPartyBalances(ctx context.Context, fiscalYearID int64) ([]domain.ThirdPartyTotals, error) {
	if _, err := s.repo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	return s.repo.SumTransactionsByThirdParty(ctx, portsrepo.TransactionFilter{FiscalYearID: &fiscalYearID})
}

// entryIDsOf returns the distinct entry ids of txns in first-seen order.
func entryIDsOf(txns []domain.Transaction) []int64 {
	seen := make(map[int64]bool, len(txns))
	ids := make([]int64, 0, len(txns))
	for _, t := range txns {
		if !seen[t.EntryID] {
			seen[t.EntryID] = true
			ids = append(ids, t.EntryID)
		}
	}
	return ids
}

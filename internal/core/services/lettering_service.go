package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
)

// letteringService groups transactions that settle each other.
type letteringService struct {
	BaseService
}

var _ portssvc.LetteringSvcFacade = (*letteringService)(nil)

func (s *letteringService) Letter(ctx context.Context, transactionIDs []int64, actor string) (*domain.Letter, error) {
	ids := slices.Clone(transactionIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: at least two transactions are required", apperrors.ErrValidation)
	}

	letter := domain.Letter{CreatedAt: s.now(), CreatedBy: actor}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		txns, err := store.FindTransactionsByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(txns) != len(ids) {
			return apperrors.NewNotFoundError(fmt.Sprintf("%d of %d transactions", len(ids)-len(txns), len(ids)))
		}
		if err := accounting.ValidateLetterSet(txns); err != nil {
			return err
		}
		if err := store.SaveLetter(ctx, &letter); err != nil {
			return err
		}
		if err := store.SetTransactionsLetter(ctx, ids, &letter.LetterID); err != nil {
			return err
		}

		events := make([]domain.AuditEvent, 0, len(ids)+1)
		ev := s.newEvent(domain.EntityLetter, letter.LetterID, domain.AuditCreate, actor)
		ev.Track("label", "", letter.Label())
		events = append(events, ev)
		for _, id := range ids {
			tev := s.newEvent(domain.EntityTransaction, id, domain.AuditUpdate, actor)
			tev.Track("letter", "", letter.Label())
			events = append(events, tev)
		}
		return s.audit(ctx, store, events...)
	})
	if err != nil {
		s.LogDebug(ctx, "Lettering rejected", slog.String("error", err.Error()), slog.Any("transaction_ids", ids))
		return nil, err
	}
	s.LogInfo(ctx, "Transactions lettered", slog.String("letter", letter.Label()), slog.Int("count", len(ids)))
	return &letter, nil
}

func (s *letteringService) Unletter(ctx context.Context, letterID int64, actor string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		ev, err := destroyLetter(ctx, store, &s.BaseService, letterID, actor)
		if err != nil {
			return err
		}
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Letter removed", slog.String("letter", domain.LetterLabel(letterID)))
	return nil
}

func (s *letteringService) OpenTransactions(ctx context.Context, accountID int64, thirdPartyID *int64) ([]domain.Transaction, error) {
	if _, err := s.repo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:   []int64{accountID},
		ThirdPartyID: thirdPartyID,
		Unlettered:   true,
		Order:        portsrepo.OrderByDate,
	})
}

func (s *letteringService) LetterLabel(letterID int64) string {
	return domain.LetterLabel(letterID)
}

// destroyLetter nulls the letter off every transaction referencing it, then deletes it.
// The returned event records the deletion; the caller appends it.
func destroyLetter(ctx context.Context, store portsrepo.LedgerStore, base *BaseService, letterID int64, actor string) (domain.AuditEvent, error) {
	if _, err := store.FindLetterByID(ctx, letterID); err != nil {
		return domain.AuditEvent{}, err
	}
	if err := store.ClearLetter(ctx, letterID); err != nil {
		return domain.AuditEvent{}, err
	}
	if err := store.DeleteLetter(ctx, letterID); err != nil {
		return domain.AuditEvent{}, err
	}
	ev := base.newEvent(domain.EntityLetter, letterID, domain.AuditDelete, actor)
	ev.Track("label", domain.LetterLabel(letterID), "")
	base.LogDebug(ctx, "Letter destroyed", slog.String("letter", domain.LetterLabel(letterID)))
	return ev, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
)

// postingService creates entries and their transaction lines and answers balance queries.
type postingService struct {
	BaseService
	years *fiscalYearService
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// resolveEntryHeader builds a new entry from the request, locking its fiscal year.
func (s *postingService) resolveEntryHeader(ctx context.Context, store portsrepo.LedgerStore, req dto.CreateEntryRequest, actor string) (*domain.Entry, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: entry title is required", apperrors.ErrValidation)
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.KindGeneric
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, kind)
	}
	date := domain.DateOf(req.Date.Time)

	journal, err := store.FindJournalByCode(ctx, strings.ToUpper(req.JournalCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown journal %q", apperrors.ErrValidation, req.JournalCode)
		}
		return nil, err
	}

	yearID := req.FiscalYearID
	if yearID == 0 {
		year, err := store.FindFiscalYearForDate(ctx, date)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no fiscal year contains %s", apperrors.ErrValidation, date.Format(dto.DateLayout))
			}
			return nil, err
		}
		yearID = year.FiscalYearID
	}
	year, err := s.years.lockOpened(ctx, store, yearID)
	if err != nil {
		return nil, err
	}
	if !year.Contains(date) {
		return nil, fmt.Errorf("%w: %s is outside fiscal year %q", apperrors.ErrValidation, date.Format(dto.DateLayout), year.Title)
	}

	return &domain.Entry{
		FiscalYearID: year.FiscalYearID,
		JournalID:    journal.JournalID,
		Kind:         kind,
		Date:         date,
		Title:        strings.TrimSpace(req.Title),
		DocumentURI:  req.DocumentURI,
		Projected:    req.Projected,
		Number:       req.Number,
		Deadline:     req.Deadline.TimePtr(),
		AuditFields:  domain.NewAuditFields(actor, s.now()),
	}, nil
}

func (s *postingService) entryCreatedEvent(entry domain.Entry, actor string) domain.AuditEvent {
	ev := s.newEvent(domain.EntityEntry, entry.EntryID, domain.AuditCreate, actor)
	ev.Track("title", "", entry.Title)
	ev.Track("date", "", entry.Date.Format(dto.DateLayout))
	ev.Track("kind", "", string(entry.Kind))
	ev.Track("document_uri", "", entry.DocumentURI)
	return ev
}

func (s *postingService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actor string) (*domain.EntryDetail, error) {
	var detail domain.EntryDetail
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entry, err := s.resolveEntryHeader(ctx, store, req, actor)
		if err != nil {
			return err
		}
		if err := store.SaveEntry(ctx, entry); err != nil {
			return err
		}
		detail = domain.NewEntryDetail(*entry, nil)
		return s.audit(ctx, store, s.entryCreatedEvent(*entry, actor))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create entry", slog.String("title", req.Title))
		return nil, err
	}
	s.LogInfo(ctx, "Entry created", slog.Int64("entry_id", detail.EntryID))
	return &detail, nil
}

func (s *postingService) PostEntry(ctx context.Context, req dto.PostEntryRequest, actor string) (*domain.EntryDetail, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: an entry needs at least one line", apperrors.ErrValidation)
	}
	for i, line := range req.Lines {
		if err := accounting.ValidateAmounts(line.Expense, line.Revenue); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	var detail domain.EntryDetail
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entry, err := s.resolveEntryHeader(ctx, store, req.CreateEntryRequest, actor)
		if err != nil {
			return err
		}
		shapes, err := s.loadShapeLines(ctx, store, req.Lines)
		if err != nil {
			return err
		}
		if err := validateEntryShape(entry.Kind, shapes); err != nil {
			return err
		}
		if err := store.SaveEntry(ctx, entry); err != nil {
			return err
		}

		audit := domain.NewAuditFields(actor, s.now())
		txns := make([]*domain.Transaction, len(req.Lines))
		for i, line := range req.Lines {
			txns[i] = &domain.Transaction{
				EntryID:      entry.EntryID,
				AccountID:    line.AccountID,
				ThirdPartyID: line.ThirdPartyID,
				AnalyticID:   line.AnalyticID,
				Title:        strings.TrimSpace(line.Title),
				Expense:      line.Expense,
				Revenue:      line.Revenue,
				AuditFields:  audit,
			}
		}
		if err := store.SaveTransactions(ctx, txns); err != nil {
			return err
		}

		saved := make([]domain.Transaction, len(txns))
		events := []domain.AuditEvent{s.entryCreatedEvent(*entry, actor)}
		for i, t := range txns {
			saved[i] = *t
			events = append(events, s.transactionCreatedEvent(*t, actor))
		}
		detail = domain.NewEntryDetail(*entry, saved)
		if !detail.Balanced() {
			return fmt.Errorf("%w: entry is off by %s", apperrors.ErrEntryUnbalanced, accounting.FormatAmount(detail.Balance()))
		}
		return s.audit(ctx, store, events...)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post entry", slog.String("title", req.Title), slog.String("kind", string(req.Kind)))
		return nil, err
	}
	s.LogInfo(ctx, "Entry posted", slog.Int64("entry_id", detail.EntryID), slog.Int("lines", len(detail.Transactions)))
	return &detail, nil
}

func (s *postingService) UpdateEntry(ctx context.Context, entryID int64, req dto.UpdateEntryRequest, actor string) (*domain.EntryDetail, error) {
	var detail domain.EntryDetail
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entry, err := store.FindEntryByID(ctx, entryID)
		if err != nil {
			return err
		}
		year, err := s.years.lockOpened(ctx, store, entry.FiscalYearID)
		if err != nil {
			return err
		}

		ev := s.newEvent(domain.EntityEntry, entry.EntryID, domain.AuditUpdate, actor)
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return fmt.Errorf("%w: entry title is required", apperrors.ErrValidation)
			}
			ev.Track("title", entry.Title, title)
			entry.Title = title
		}
		if req.Date != nil && !req.Date.IsZero() {
			date := domain.DateOf(req.Date.Time)
			if !year.Contains(date) {
				return fmt.Errorf("%w: %s is outside fiscal year %q", apperrors.ErrValidation, date.Format(dto.DateLayout), year.Title)
			}
			ev.Track("date", entry.Date.Format(dto.DateLayout), date.Format(dto.DateLayout))
			entry.Date = date
		}
		if req.DocumentURI != nil {
			ev.Track("document_uri", entry.DocumentURI, *req.DocumentURI)
			entry.DocumentURI = *req.DocumentURI
		}
		if ev.HasChanges() {
			entry.Touch(actor, s.now())
			if err := store.UpdateEntry(ctx, *entry); err != nil {
				return err
			}
		}
		txns, err := store.ListTransactions(ctx, portsrepo.TransactionFilter{EntryIDs: []int64{entryID}})
		if err != nil {
			return err
		}
		detail = domain.NewEntryDetail(*entry, txns)
		if !ev.HasChanges() {
			return nil
		}
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Entry updated", slog.Int64("entry_id", entryID))
	return &detail, nil
}

func (s *postingService) DeleteEntry(ctx context.Context, entryID int64, actor string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entry, err := store.FindEntryByID(ctx, entryID)
		if err != nil {
			return err
		}
		if _, err := s.years.lockOpened(ctx, store, entry.FiscalYearID); err != nil {
			return err
		}
		txns, err := store.ListTransactions(ctx, portsrepo.TransactionFilter{EntryIDs: []int64{entryID}})
		if err != nil {
			return err
		}

		destroyed := make(map[int64]bool)
		var events []domain.AuditEvent
		for _, t := range txns {
			if !t.IsLettered() || destroyed[*t.LetterID] {
				continue
			}
			destroyed[*t.LetterID] = true
			ev, err := destroyLetter(ctx, store, &s.BaseService, *t.LetterID, actor)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		if err := store.DeleteTransactionsByEntry(ctx, entryID); err != nil {
			return err
		}
		if err := store.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		for _, t := range txns {
			ev := s.newEvent(domain.EntityTransaction, t.TransactionID, domain.AuditDelete, actor)
			ev.Track("expense", accounting.FormatAmount(t.Expense), "")
			ev.Track("revenue", accounting.FormatAmount(t.Revenue), "")
			events = append(events, ev)
		}
		ev := s.newEvent(domain.EntityEntry, entryID, domain.AuditDelete, actor)
		ev.Track("title", entry.Title, "")
		events = append(events, ev)
		return s.audit(ctx, store, events...)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.Int64("entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Entry deleted", slog.Int64("entry_id", entryID))
	return nil
}

func (s *postingService) GetEntry(ctx context.Context, entryID int64) (*domain.EntryDetail, error) {
	entry, err := s.repo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{EntryIDs: []int64{entryID}})
	if err != nil {
		return nil, err
	}
	detail := domain.NewEntryDetail(*entry, txns)
	return &detail, nil
}

func (s *postingService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.Entry, error) {
	filter := portsrepo.EntryFilter{FiscalYearID: &params.FiscalYearID}
	if params.Kind != "" {
		kind := domain.EntryKind(params.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, params.Kind)
		}
		filter.Kind = &kind
	}
	return s.repo.ListEntries(ctx, filter)
}

func (s *postingService) EntryIsBalanced(ctx context.Context, entryID int64) (bool, error) {
	if _, err := s.repo.FindEntryByID(ctx, entryID); err != nil {
		return false, err
	}
	totals, err := s.repo.SumTransactions(ctx, portsrepo.TransactionFilter{EntryIDs: []int64{entryID}})
	if err != nil {
		return false, err
	}
	return totals.Balance().IsZero(), nil
}

func (s *postingService) transactionCreatedEvent(t domain.Transaction, actor string) domain.AuditEvent {
	ev := s.newEvent(domain.EntityTransaction, t.TransactionID, domain.AuditCreate, actor)
	ev.Track("entry", "", strconv.FormatInt(t.EntryID, 10))
	ev.Track("account", "", strconv.FormatInt(t.AccountID, 10))
	ev.Track("third_party", "", optionalID(t.ThirdPartyID))
	ev.Track("analytic", "", optionalID(t.AnalyticID))
	ev.Track("title", "", t.Title)
	ev.Track("expense", "", accounting.FormatAmount(t.Expense))
	ev.Track("revenue", "", accounting.FormatAmount(t.Revenue))
	return ev
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

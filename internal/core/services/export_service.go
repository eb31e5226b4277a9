package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
)

// exportDateLayout is DDMMYY.
const exportDateLayout = "020106"

type exportService struct {
	BaseService
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

func (s *exportService) Export(ctx context.Context, fiscalYearID int64, pendingOnly bool, w io.Writer) ([]int64, error) {
	if _, err := s.repo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{
		FiscalYearID:     &fiscalYearID,
		ExcludeProjected: true,
		PendingExport:    pendingOnly,
		Order:            portsrepo.OrderByEntry,
	})
	if err != nil {
		return nil, err
	}

	entryIDs := entryIDsOf(txns)
	entries, err := s.repo.FindEntriesByIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	journals, err := s.journalCodes(ctx)
	if err != nil {
		return nil, err
	}
	accountIDs := make([]int64, 0, len(txns))
	var thirdPartyIDs []int64
	for _, t := range txns {
		accountIDs = append(accountIDs, t.AccountID)
		if t.ThirdPartyID != nil {
			thirdPartyIDs = append(thirdPartyIDs, *t.ThirdPartyID)
		}
	}
	accounts, err := s.repo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	thirdParties, err := s.repo.FindThirdPartiesByIDs(ctx, thirdPartyIDs)
	if err != nil {
		return nil, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	for _, t := range txns {
		entry := entries[t.EntryID]
		title := t.Title
		if title == "" {
			title = entry.Title
		}
		thirdParty := ""
		if t.ThirdPartyID != nil {
			thirdParty = thirdParties[*t.ThirdPartyID].Code
		}
		row := []string{
			journals[entry.JournalID],
			entry.Date.Format(exportDateLayout),
			accounts[t.AccountID].Code,
			strconv.FormatInt(entry.EntryID, 10),
			thirdParty,
			title,
			accounting.FormatAmount(t.Expense),
			accounting.FormatAmount(t.Revenue),
		}
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("%w: writing export row: %v", apperrors.ErrInternal, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("%w: flushing export: %v", apperrors.ErrInternal, err)
	}

	s.LogInfo(ctx, "Export written",
		slog.Int64("fiscal_year_id", fiscalYearID),
		slog.Bool("pending_only", pendingOnly),
		slog.Int("rows", len(txns)),
		slog.Int("entries", len(entryIDs)))
	return entryIDs, nil
}

func (s *exportService) journalCodes(ctx context.Context) (map[int64]string, error) {
	journals, err := s.repo.ListJournals(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[int64]string, len(journals))
	for _, j := range journals {
		codes[j.JournalID] = j.Code
	}
	return codes, nil
}

func (s *exportService) MarkExported(ctx context.Context, entryIDs []int64, actor string) (int, error) {
	ids := slices.Clone(entryIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no entries given", apperrors.ErrValidation)
	}

	var changed int
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		entries, err := store.FindEntriesByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(entries) != len(ids) {
			return apperrors.NewNotFoundError(fmt.Sprintf("%d of %d entries", len(ids)-len(entries), len(ids)))
		}
		changed, err = store.MarkEntriesExported(ctx, ids)
		if err != nil {
			return err
		}
		events := make([]domain.AuditEvent, 0, len(ids))
		for _, id := range ids {
			if entries[id].Exported {
				continue
			}
			ev := s.newEvent(domain.EntityEntry, id, domain.AuditUpdate, actor)
			ev.Track("exported", "false", "true")
			events = append(events, ev)
		}
		return s.audit(ctx, store, events...)
	})
	if err != nil {
		return 0, err
	}
	s.LogInfo(ctx, "Entries marked exported", slog.Int("requested", len(ids)), slog.Int("changed", changed))
	return changed, nil
}

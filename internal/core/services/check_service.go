package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
)

type checkService struct {
	BaseService
}

var _ portssvc.CheckSvcFacade = (*checkService)(nil)

// RunChecks scans a fiscal year for the inconsistencies the posting layer tolerates.
func (s *checkService) RunChecks(ctx context.Context, fiscalYearID int64) (*domain.CheckReport, error) {
	if _, err := s.repo.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{FiscalYearID: &fiscalYearID, Order: portsrepo.OrderByEntry})
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, portsrepo.EntryFilter{FiscalYearID: &fiscalYearID})
	if err != nil {
		return nil, err
	}
	accountIDs := make([]int64, 0, len(txns))
	for _, t := range txns {
		accountIDs = append(accountIDs, t.AccountID)
	}
	accounts, err := s.repo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	report := &domain.CheckReport{FiscalYearID: fiscalYearID}
	byEntry := make(map[int64][]domain.Transaction, len(entries))
	letterIDs := make(map[int64]bool)
	for _, t := range txns {
		byEntry[t.EntryID] = append(byEntry[t.EntryID], t)
		if t.IsLettered() {
			letterIDs[*t.LetterID] = true
		}
		code := accounts[t.AccountID].Code
		switch {
		case accounting.RequiresAnalytic(code) && t.AnalyticID == nil:
			report.MissingAnalytic = append(report.MissingAnalytic, t)
		case !accounting.RequiresAnalytic(code) && t.AnalyticID != nil:
			report.ExtraneousAnalytic = append(report.ExtraneousAnalytic, t)
		}
		if accounting.RequiresThirdParty(code) && t.ThirdPartyID == nil {
			report.MissingThirdParty = append(report.MissingThirdParty, t)
		}
	}

	for _, e := range entries {
		detail := domain.NewEntryDetail(e, byEntry[e.EntryID])
		if !detail.Balanced() {
			report.UnbalancedEntries = append(report.UnbalancedEntries, domain.UnbalancedItem{
				ID:      e.EntryID,
				Label:   e.Title,
				Balance: detail.Balance(),
				Reason:  "entry does not balance to zero",
			})
		}
	}

	// Letters may span fiscal years, so each one is checked against all its transactions.
	for _, t := range txns {
		if !t.IsLettered() || !letterIDs[*t.LetterID] {
			continue
		}
		letterID := *t.LetterID
		delete(letterIDs, letterID)
		members, err := s.repo.ListTransactions(ctx, portsrepo.TransactionFilter{LetterID: &letterID})
		if err != nil {
			return nil, err
		}
		if err := accounting.ValidateLetterInvariant(members); err != nil {
			report.UnbalancedLetters = append(report.UnbalancedLetters, domain.UnbalancedItem{
				ID:      letterID,
				Label:   domain.LetterLabel(letterID),
				Balance: domain.SumTransactions(members).Balance(),
				Reason:  err.Error(),
			})
		}
	}

	s.LogInfo(ctx, "Consistency checks run",
		slog.Int64("fiscal_year_id", fiscalYearID),
		slog.Bool("clean", report.Clean()),
		slog.Int("unbalanced_entries", len(report.UnbalancedEntries)),
		slog.Int("unbalanced_letters", len(report.UnbalancedLetters)))
	return report, nil
}

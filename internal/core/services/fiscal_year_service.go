package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
)

type fiscalYearService struct {
	BaseService
}

var _ portssvc.FiscalYearSvcFacade = (*fiscalYearService)(nil)

// CreateFiscalYear opens a new period. Periods may not overlap.
func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, req dto.CreateFiscalYearRequest, actor string) (*domain.FiscalYear, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", apperrors.ErrValidation)
	}
	start, end := domain.DateOf(req.Start.Time), domain.DateOf(req.End.Time)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: fiscal year must end after it starts", apperrors.ErrValidation)
	}

	year := domain.FiscalYear{
		Title:       strings.TrimSpace(req.Title),
		Start:       start,
		End:         end,
		Opened:      req.Opened,
		AuditFields: domain.NewAuditFields(actor, s.now()),
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		overlapping, err := store.FindOverlappingFiscalYears(ctx, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return fmt.Errorf("%w: overlaps fiscal year %q", apperrors.ErrValidation, overlapping[0].Title)
		}
		if err := store.SaveFiscalYear(ctx, &year); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityFiscalYear, year.FiscalYearID, domain.AuditCreate, actor)
		ev.Track("title", "", year.Title)
		ev.Track("start", "", start.Format(dto.DateLayout))
		ev.Track("end", "", end.Format(dto.DateLayout))
		ev.Track("opened", "", strconv.FormatBool(year.Opened))
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create fiscal year", slog.String("title", year.Title))
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal year created", slog.Int64("fiscal_year_id", year.FiscalYearID))
	return &year, nil
}

func (s *fiscalYearService) GetFiscalYear(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error) {
	return s.repo.FindFiscalYearByID(ctx, fiscalYearID)
}

func (s *fiscalYearService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.repo.ListFiscalYears(ctx)
}

func (s *fiscalYearService) CurrentFiscalYear(ctx context.Context) (*domain.FiscalYear, error) {
	return s.repo.FindFiscalYearForDate(ctx, s.now())
}

func (s *fiscalYearService) SetOpened(ctx context.Context, fiscalYearID int64, opened bool, actor string) (*domain.FiscalYear, error) {
	var updated domain.FiscalYear
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		year, err := store.FindFiscalYearByIDForUpdate(ctx, fiscalYearID)
		if err != nil {
			return err
		}
		if opened && year.Closed {
			return fmt.Errorf("%w: fiscal year %q has been closed", apperrors.ErrYearAlreadyClosed, year.Title)
		}
		ev := s.newEvent(domain.EntityFiscalYear, year.FiscalYearID, domain.AuditUpdate, actor)
		ev.Track("opened", strconv.FormatBool(year.Opened), strconv.FormatBool(opened))
		year.Opened = opened
		year.Touch(actor, s.now())
		if err := store.UpdateFiscalYear(ctx, *year); err != nil {
			return err
		}
		updated = *year
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal year opened flag changed", slog.Int64("fiscal_year_id", fiscalYearID), slog.Bool("opened", opened))
	return &updated, nil
}

func (s *fiscalYearService) EnsureOpened(year domain.FiscalYear) error {
	if !year.Opened {
		return fmt.Errorf("%w: fiscal year %q is not opened", apperrors.ErrPeriodClosed, year.Title)
	}
	return nil
}

// lockOpened locks the year for the rest of the unit of work and checks it accepts writes.
func (s *fiscalYearService) lockOpened(ctx context.Context, store portsrepo.LedgerStore, fiscalYearID int64) (*domain.FiscalYear, error) {
	year, err := store.FindFiscalYearByIDForUpdate(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureOpened(*year); err != nil {
		return nil, err
	}
	return year, nil
}

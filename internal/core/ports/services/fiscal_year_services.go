package services

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
)

// FiscalYearSvcFacade manages fiscal years and the period write check.
type FiscalYearSvcFacade interface {
	CreateFiscalYear(ctx context.Context, req dto.CreateFiscalYearRequest, actor string) (*domain.FiscalYear, error)
	GetFiscalYear(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)

	// CurrentFiscalYear resolves the year containing today's date.
	CurrentFiscalYear(ctx context.Context) (*domain.FiscalYear, error)

	SetOpened(ctx context.Context, fiscalYearID int64, opened bool, actor string) (*domain.FiscalYear, error)

	// EnsureOpened returns ErrPeriodClosed unless the year accepts writes.
	EnsureOpened(year domain.FiscalYear) error
}

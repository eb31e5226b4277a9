package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal years.
type FiscalYearReader interface {
	FindFiscalYearByID(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error)

	// FindFiscalYearForDate returns the year whose [start, end) range contains date.
	FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error)

	// FindOverlappingFiscalYears returns years sharing at least one day with [start, end).
	FindOverlappingFiscalYears(ctx context.Context, start, end time.Time) ([]domain.FiscalYear, error)

	// ListFiscalYears returns all years ordered by start date.
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
}

// FiscalYearWriter defines write operations for fiscal years.
type FiscalYearWriter interface {
	SaveFiscalYear(ctx context.Context, year *domain.FiscalYear) error
	UpdateFiscalYear(ctx context.Context, year domain.FiscalYear) error
}

// FiscalYearTransactionSupport defines locking reads used inside a unit of work.
type FiscalYearTransactionSupport interface {
	// FindFiscalYearByIDForUpdate selects a year and locks it until the unit of work ends.
	FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error)
}

// FiscalYearRepositoryFacade combines the fiscal year interfaces.
type FiscalYearRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
	FiscalYearTransactionSupport
}

package repositories

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// AnalyticRepository stores analytic dimensions.
type AnalyticRepository interface {
	SaveAnalytic(ctx context.Context, analytic *domain.Analytic) error
	FindAnalyticByID(ctx context.Context, analyticID int64) (*domain.Analytic, error)
	ListAnalytics(ctx context.Context) ([]domain.Analytic, error)
}

// JournalRepository stores journal codes.
type JournalRepository interface {
	SaveJournal(ctx context.Context, journal *domain.Journal) error
	FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error)
	FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error)
	ListJournals(ctx context.Context) ([]domain.Journal, error)
}

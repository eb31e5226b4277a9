package services

import (
	"context"
	"io"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// ClosingSvcFacade generates year-end carry-forward entries.
type ClosingSvcFacade interface {
	CloseYear(ctx context.Context, oldYearID, newYearID int64, actor string) (*domain.EntryDetail, error)
}

// CheckSvcFacade reports consistency violations.
type CheckSvcFacade interface {
	RunChecks(ctx context.Context, fiscalYearID int64) (*domain.CheckReport, error)
}

// ExportSvcFacade feeds the downstream bookkeeping pipeline.
type ExportSvcFacade interface {
	// Export writes one semicolon-delimited row per transaction and returns the exported entry IDs.
	Export(ctx context.Context, fiscalYearID int64, pendingOnly bool, w io.Writer) ([]int64, error)

	MarkExported(ctx context.Context, entryIDs []int64, actor string) (int, error)
}

// AuditSvcFacade exposes the change log.
type AuditSvcFacade interface {
	ListAuditEvents(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error)
}

package repositories

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// AuditRepository is the append-only change log.
type AuditRepository interface {
	AppendAuditEvents(ctx context.Context, events ...domain.AuditEvent) error

	// ListAuditEvents returns the events of one entity in occurrence order.
	ListAuditEvents(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error)
}

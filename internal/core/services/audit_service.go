package services

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
)

type auditService struct {
	BaseService
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) ListAuditEvents(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	return s.repo.ListAuditEvents(ctx, entityType, entityID)
}

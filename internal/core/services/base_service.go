package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/SscSPs/association_ledger/internal/platform/clock"
)

// BaseService provides common functionality for all services
type BaseService struct {
	repo  portsrepo.LedgerRepository
	clock clock.Clock
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// now returns the injected clock's time in UTC.
func (s *BaseService) now() time.Time {
	return s.clock.Now().UTC()
}

// audit appends events to the log of the current unit of work.
func (s *BaseService) audit(ctx context.Context, store portsrepo.LedgerStore, events ...domain.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	return store.AppendAuditEvents(ctx, events...)
}

// newEvent creates an audit event stamped with the clock.
func (s *BaseService) newEvent(entityType string, entityID int64, action domain.AuditAction, actor string) domain.AuditEvent {
	return domain.NewAuditEvent(entityType, entityID, action, actor, s.now())
}

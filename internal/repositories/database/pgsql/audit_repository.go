package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/SscSPs/association_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// AppendAuditEvents queues one insert per event in a single batch.
func (s *Store) AppendAuditEvents(ctx context.Context, events ...domain.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		m, err := mapping.ToModelAuditEvent(ev)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO audit_events (event_id, entity_type, entity_id, action, changes, actor, occurred_at)
			VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
			m.EventID, m.EntityType, m.EntityID, m.Action, m.Changes, m.Actor, m.OccurredAt,
		)
	}
	return dbError(s.db.SendBatch(ctx, batch).Close(), "audit events")
}

// ListAuditEvents returns the events of one entity in append order.
func (s *Store) ListAuditEvents(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	what := fmt.Sprintf("audit events of %s %d", entityType, entityID)
	rows, err := s.db.Query(ctx, `
		SELECT event_id::text AS event_id, entity_type, entity_id, action, changes, actor, occurred_at
		FROM audit_events
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY audit_seq`,
		entityType, entityID,
	)
	if err != nil {
		return nil, dbError(err, what)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AuditEvent])
	if err != nil {
		return nil, dbError(err, what)
	}
	out := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		if out[i], err = mapping.ToDomainAuditEvent(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

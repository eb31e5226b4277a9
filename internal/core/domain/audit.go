package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the kind of mutation recorded.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Audited entity types.
const (
	EntityAccount       = "account"
	EntityThirdParty    = "thirdparty"
	EntityAnalytic      = "analytic"
	EntityJournal       = "journal"
	EntityFiscalYear    = "fiscal_year"
	EntityEntry         = "entry"
	EntityTransaction   = "transaction"
	EntityLetter        = "letter"
	EntityBankStatement = "bank_statement"
)

// FieldChange holds the old and new rendering of a changed field.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// AuditEvent is an append-only record of one mutation.
type AuditEvent struct {
	EventID    uuid.UUID              `json:"eventID"`
	EntityType string                 `json:"entityType"`
	EntityID   int64                  `json:"entityID"`
	Action     AuditAction            `json:"action"`
	Changes    map[string]FieldChange `json:"changes,omitempty"`
	Actor      string                 `json:"actor"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// NewAuditEvent creates an event with a fresh identifier.
func NewAuditEvent(entityType string, entityID int64, action AuditAction, actor string, at time.Time) AuditEvent {
	return AuditEvent{
		EventID:    uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    map[string]FieldChange{},
		Actor:      actor,
		OccurredAt: at,
	}
}

// Track records a field change when old and new differ.
func (e *AuditEvent) Track(field, old, new string) {
	if old == new {
		return
	}
	if e.Changes == nil {
		e.Changes = map[string]FieldChange{}
	}
	e.Changes[field] = FieldChange{Old: old, New: new}
}

// HasChanges reports whether any field was tracked.
func (e AuditEvent) HasChanges() bool {
	return len(e.Changes) > 0
}

package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/google/uuid"
)

func ToDomainLetter(m models.Letter) domain.Letter {
	return domain.Letter{LetterID: m.LetterID, CreatedAt: m.CreatedAt, CreatedBy: m.CreatedBy}
}

// ToModelBankStatement converts a domain BankStatement to a model BankStatement
func ToModelBankStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		BankStatementID: d.BankStatementID,
		FiscalYearID:    d.FiscalYearID,
		StatementDate:   domain.DateOf(d.Date),
		Number:          d.Number,
		DocumentURI:     d.DocumentURI,
		Balance:         d.Balance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankStatement converts a model BankStatement to a domain BankStatement
func ToDomainBankStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		BankStatementID: m.BankStatementID,
		FiscalYearID:    m.FiscalYearID,
		Date:            domain.DateOf(m.StatementDate),
		Number:          m.Number,
		DocumentURI:     m.DocumentURI,
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent, encoding the changes as JSON.
func ToModelAuditEvent(d domain.AuditEvent) (models.AuditEvent, error) {
	changes, err := json.Marshal(d.Changes)
	if err != nil {
		return models.AuditEvent{}, fmt.Errorf("encode audit changes: %w", err)
	}
	return models.AuditEvent{
		EventID:    d.EventID.String(),
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		Changes:    changes,
		Actor:      d.Actor,
		OccurredAt: d.OccurredAt,
	}, nil
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) (domain.AuditEvent, error) {
	id, err := uuid.Parse(m.EventID)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("parse audit event id: %w", err)
	}
	changes := map[string]domain.FieldChange{}
	if len(m.Changes) > 0 {
		if err := json.Unmarshal(m.Changes, &changes); err != nil {
			return domain.AuditEvent{}, fmt.Errorf("decode audit changes: %w", err)
		}
	}
	return domain.AuditEvent{
		EventID:    id,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     domain.AuditAction(m.Action),
		Changes:    changes,
		Actor:      m.Actor,
		OccurredAt: m.OccurredAt,
	}, nil
}

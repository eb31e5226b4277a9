package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Letter is a row of the letters table.
type Letter struct {
	LetterID  int64     `db:"letter_id"`
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}

// BankStatement is a row of the bank_statements table.
type BankStatement struct {
	BankStatementID int64           `db:"bank_statement_id"`
	FiscalYearID    int64           `db:"fiscal_year_id"`
	StatementDate   time.Time       `db:"statement_date"`
	Number          int             `db:"number"`
	DocumentURI     string          `db:"document_uri"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}

// AuditEvent is a row of the audit_events table. Changes is stored as JSONB.
type AuditEvent struct {
	EventID    string    `db:"event_id"`
	EntityType string    `db:"entity_type"`
	EntityID   int64     `db:"entity_id"`
	Action     string    `db:"action"`
	Changes    []byte    `db:"changes"`
	Actor      string    `db:"actor"`
	OccurredAt time.Time `db:"occurred_at"`
}

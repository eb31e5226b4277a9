package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankStatement is a declared closing balance of the bank account at a date.
type BankStatement struct {
	BankStatementID int64           `json:"bankStatementID"`
	FiscalYearID    int64           `json:"fiscalYearID"`
	Date            time.Time       `json:"date"`
	Number          int             `json:"number"`
	DocumentURI     string          `json:"documentURI,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	AuditFields
}

// StatementReconciliation is the outcome of matching a statement against the ledger.
type StatementReconciliation struct {
	Statement      BankStatement   `json:"statement"`
	EntriesBalance decimal.Decimal `json:"entriesBalance"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
}

// Reconciled reports whether the declared balance is fully matched.
func (r StatementReconciliation) Reconciled() bool {
	return r.Discrepancy.IsZero()
}

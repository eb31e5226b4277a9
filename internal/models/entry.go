package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalYear is a row of the fiscal_years table. EndDate is exclusive.
type FiscalYear struct {
	FiscalYearID int64     `db:"fiscal_year_id"`
	Title        string    `db:"title"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	Opened       bool      `db:"opened"`
	Closed       bool      `db:"closed"`
	AuditFields
}

// Entry is a row of the entries table.
type Entry struct {
	EntryID      int64      `db:"entry_id"`
	FiscalYearID int64      `db:"fiscal_year_id"`
	JournalID    int64      `db:"journal_id"`
	Kind         string     `db:"kind"`
	EntryDate    time.Time  `db:"entry_date"`
	Title        string     `db:"title"`
	DocumentURI  string     `db:"document_uri"`
	Exported     bool       `db:"exported"`
	Projected    bool       `db:"projected"`
	Number       string     `db:"number"`
	Deadline     *time.Time `db:"deadline"` // Nullable
	AuditFields
}

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID  int64           `db:"transaction_id"`
	EntryID        int64           `db:"entry_id"`
	AccountID      int64           `db:"account_id"`
	ThirdPartyID   *int64          `db:"third_party_id"` // Nullable
	AnalyticID     *int64          `db:"analytic_id"`    // Nullable
	Title          string          `db:"title"`
	Expense        decimal.Decimal `db:"expense"`
	Revenue        decimal.Decimal `db:"revenue"`
	Reconciliation *time.Time      `db:"reconciliation"` // Nullable
	LetterID       *int64          `db:"letter_id"`      // Nullable
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single debit/credit line within an Entry, against one Account.
type Transaction struct {
	TransactionID  int64           `json:"transactionID"`
	EntryID        int64           `json:"entryID"`
	AccountID      int64           `json:"accountID"`
	ThirdPartyID   *int64          `json:"thirdPartyID,omitempty"`
	AnalyticID     *int64          `json:"analyticID,omitempty"`
	Title          string          `json:"title,omitempty"` // overrides the entry title when set
	Expense        decimal.Decimal `json:"expense"`         // debit
	Revenue        decimal.Decimal `json:"revenue"`         // credit
	Reconciliation *time.Time      `json:"reconciliation,omitempty"`
	LetterID       *int64          `json:"letterID,omitempty"`
	AuditFields
}

// Balance returns revenue minus expense.
func (t Transaction) Balance() decimal.Decimal {
	return t.Revenue.Sub(t.Expense)
}

// IsLettered reports whether the transaction belongs to a letter.
func (t Transaction) IsLettered() bool {
	return t.LetterID != nil
}

// LetterKeyChanged reports whether moving from old to t breaks the premise of a letter:
// a different amount, account or third party.
func (t Transaction) LetterKeyChanged(old Transaction) bool {
	return !t.Expense.Equal(old.Expense) ||
		!t.Revenue.Equal(old.Revenue) ||
		t.AccountID != old.AccountID ||
		!SameID(t.ThirdPartyID, old.ThirdPartyID)
}

// SameID compares two optional identifiers.
func SameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// LedgerLine is a transaction as shown in an account ledger, with the running balance.
type LedgerLine struct {
	Transaction
	EntryDate      time.Time       `json:"entryDate"`
	EntryTitle     string          `json:"entryTitle"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountTotals is the aggregate of one account.
type AccountTotals struct {
	AccountID int64 `json:"accountID"`
	Totals
}

// ThirdPartyTotals is the aggregate of one third party.
type ThirdPartyTotals struct {
	ThirdPartyID int64 `json:"thirdPartyID"`
	Totals
}

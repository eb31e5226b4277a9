package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind discriminates the entry shapes validated at posting time.
type EntryKind string

const (
	KindGeneric       EntryKind = "GENERIC"
	KindPurchase      EntryKind = "PURCHASE"
	KindSale          EntryKind = "SALE"
	KindIncome        EntryKind = "INCOME"
	KindExpenditure   EntryKind = "EXPENDITURE"
	KindCashing       EntryKind = "CASHING"
	KindTransferOrder EntryKind = "TRANSFER_ORDER"
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case KindGeneric, KindPurchase, KindSale, KindIncome, KindExpenditure, KindCashing, KindTransferOrder:
		return true
	}
	return false
}

// Entry is a posting event grouping one or more transactions.
type Entry struct {
	EntryID      int64      `json:"entryID"`
	FiscalYearID int64      `json:"fiscalYearID"`
	JournalID    int64      `json:"journalID"`
	Kind         EntryKind  `json:"kind"`
	Date         time.Time  `json:"date"`
	Title        string     `json:"title"`
	DocumentURI  string     `json:"documentURI,omitempty"` // opaque scan reference
	Exported     bool       `json:"exported"`
	Projected    bool       `json:"projected"`
	Number       string     `json:"number,omitempty"` // supplier invoice number
	Deadline     *time.Time `json:"deadline,omitempty"`
	AuditFields
}

// Totals aggregates the two amount columns of a set of transactions.
type Totals struct {
	Expense decimal.Decimal `json:"expense"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Balance returns revenue minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Revenue.Sub(t.Expense)
}

// Add accumulates a transaction into the totals.
func (t Totals) Add(txn Transaction) Totals {
	return Totals{
		Expense: t.Expense.Add(txn.Expense),
		Revenue: t.Revenue.Add(txn.Revenue),
	}
}

// SumTransactions totals the amounts of txns.
func SumTransactions(txns []Transaction) Totals {
	totals := Totals{Expense: decimal.Zero, Revenue: decimal.Zero}
	for _, txn := range txns {
		totals = totals.Add(txn)
	}
	return totals
}

// EntryDetail is an entry with its transactions and derived totals.
type EntryDetail struct {
	Entry
	Transactions []Transaction `json:"transactions"`
	Totals
}

// NewEntryDetail derives the totals of an entry from its transactions.
func NewEntryDetail(entry Entry, txns []Transaction) EntryDetail {
	return EntryDetail{Entry: entry, Transactions: txns, Totals: SumTransactions(txns)}
}

// Balanced reports whether the entry's transactions net to exactly zero.
func (d EntryDetail) Balanced() bool {
	return d.Balance().IsZero()
}

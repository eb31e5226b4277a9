package domain

import "github.com/shopspring/decimal"

// CheckReport lists the consistency violations of a fiscal year.
type CheckReport struct {
	FiscalYearID       int64            `json:"fiscalYearID"`
	UnbalancedEntries  []UnbalancedItem `json:"unbalancedEntries"`
	MissingAnalytic    []Transaction    `json:"missingAnalytic"`
	ExtraneousAnalytic []Transaction    `json:"extraneousAnalytic"`
	MissingThirdParty  []Transaction    `json:"missingThirdParty"`
	UnbalancedLetters  []UnbalancedItem `json:"unbalancedLetters"`
}

// UnbalancedItem identifies an entry or letter and its non-zero balance.
type UnbalancedItem struct {
	ID      int64           `json:"id"`
	Label   string          `json:"label,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	Reason  string          `json:"reason,omitempty"`
}

// Clean reports whether no violation was found.
func (r CheckReport) Clean() bool {
	return len(r.UnbalancedEntries) == 0 &&
		len(r.MissingAnalytic) == 0 &&
		len(r.ExtraneousAnalytic) == 0 &&
		len(r.MissingThirdParty) == 0 &&
		len(r.UnbalancedLetters) == 0
}

package domain

import (
	"fmt"
	"regexp"
)

var accountCodeRe = regexp.MustCompile(`^[0-9]{3,10}$`)

// AccountClass is the first digit of an account code in the French chart of accounts.
type AccountClass byte

const (
	ClassEquity      AccountClass = '1'
	ClassFixedAssets AccountClass = '2'
	ClassThirdParty  AccountClass = '4'
	ClassCash        AccountClass = '5'
	ClassExpense     AccountClass = '6'
	ClassRevenue     AccountClass = '7'
)

// Account is a general-ledger account identified by its code.
type Account struct {
	AccountID int64  `json:"accountID"`
	Code      string `json:"code"` // unique numeric string, e.g. "4110000"
	Title     string `json:"title"`
	AuditFields
}

// ValidateAccountCode checks the numeric code format.
func ValidateAccountCode(code string) error {
	if !accountCodeRe.MatchString(code) {
		return fmt.Errorf("account code %q must be 3 to 10 digits", code)
	}
	return nil
}

// Class returns the account class derived from the code.
func (a Account) Class() AccountClass {
	return ClassOf(a.Code)
}

// ClassOf returns the class of an account code, or 0 for an empty code.
func ClassOf(code string) AccountClass {
	if code == "" {
		return 0
	}
	return AccountClass(code[0])
}

// IsBalanceSheet reports whether balances of this class are carried forward as a net amount.
func (c AccountClass) IsBalanceSheet() bool {
	return c == ClassEquity || c == ClassFixedAssets || c == ClassCash
}

// IsIncomeStatement reports whether the class belongs to the profit and loss.
func (c AccountClass) IsIncomeStatement() bool {
	return c == ClassExpense || c == ClassRevenue
}

// Prefix returns the code prefix shared by every account of the class.
func (c AccountClass) Prefix() string {
	return string([]byte{byte(c)})
}

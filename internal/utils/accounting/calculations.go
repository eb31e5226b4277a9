package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits carried by every amount.
const Places = 2

// ValidateAmount checks that d is non-negative with at most two fractional digits.
// Amounts are never rounded.
func ValidateAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, field)
	}
	if !d.Equal(d.Truncate(Places)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", apperrors.ErrValidation, field, Places)
	}
	return nil
}

// ValidateAmounts checks both columns of a transaction line.
func ValidateAmounts(expense, revenue decimal.Decimal) error {
	if err := ValidateAmount("expense", expense); err != nil {
		return err
	}
	return ValidateAmount("revenue", revenue)
}

// ValidateSingleSided rejects a line with both debit and credit set.
func ValidateSingleSided(expense, revenue decimal.Decimal) error {
	if !expense.IsZero() && !revenue.IsZero() {
		return fmt.Errorf("%w: expense and revenue cannot both be set", apperrors.ErrValidation)
	}
	return nil
}

// SplitBalance sign-splits a signed balance (revenue minus expense) into
// expense = max(-balance, 0) and revenue = max(balance, 0).
func SplitBalance(balance decimal.Decimal) (expense, revenue decimal.Decimal) {
	if balance.IsNegative() {
		return balance.Neg(), decimal.Zero
	}
	return decimal.Zero, balance
}

// FormatAmount renders d with two fixed decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// HasAnyPrefix reports whether code starts with one of prefixes.
func HasAnyPrefix(code string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// RequiresAnalytic reports whether lines on code must carry an analytic tag.
func RequiresAnalytic(code string) bool {
	return domain.ClassOf(code).IsIncomeStatement()
}

// RequiresThirdParty reports whether lines on code must carry a third party.
func RequiresThirdParty(code string) bool {
	return domain.ClassOf(code) == domain.ClassThirdParty
}

// ValidateLetterSet applies the lettering preconditions in order: already lettered,
// unbalanced, multiple accounts, multiple third parties.
func ValidateLetterSet(txns []domain.Transaction) error {
	for _, t := range txns {
		if t.IsLettered() {
			return fmt.Errorf("%w: transaction %d has letter %s", apperrors.ErrAlreadyLettered, t.TransactionID, domain.LetterLabel(*t.LetterID))
		}
	}
	return ValidateLetterInvariant(txns)
}

// ValidateLetterInvariant checks that txns balance to zero on a single account and third party.
func ValidateLetterInvariant(txns []domain.Transaction) error {
	totals := domain.SumTransactions(txns)
	if !totals.Balance().IsZero() {
		return fmt.Errorf("%w: balance is %s", apperrors.ErrUnbalanced, FormatAmount(totals.Balance()))
	}
	if len(txns) == 0 {
		return nil
	}
	first := txns[0]
	for _, t := range txns[1:] {
		if t.AccountID != first.AccountID {
			return fmt.Errorf("%w: accounts %d and %d", apperrors.ErrMultipleAccounts, first.AccountID, t.AccountID)
		}
	}
	for _, t := range txns[1:] {
		if !domain.SameID(t.ThirdPartyID, first.ThirdPartyID) {
			return fmt.Errorf("%w: transactions %d and %d", apperrors.ErrMultipleThirdParties, first.TransactionID, t.TransactionID)
		}
	}
	return nil
}

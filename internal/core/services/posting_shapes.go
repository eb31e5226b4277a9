package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	payablesPrefix    = "40"
	receivablesPrefix = "41"
)

// shapeLine is a posted line resolved against the chart, as seen by the kind rules.
type shapeLine struct {
	account    domain.Account
	thirdParty *domain.ThirdParty
	expense    decimal.Decimal
	revenue    decimal.Decimal
}

func (l shapeLine) isCash() bool {
	return l.account.Class() == domain.ClassCash
}

func (l shapeLine) debited() bool {
	return l.expense.IsPositive()
}

func (l shapeLine) credited() bool {
	return l.revenue.IsPositive()
}

// loadShapeLines resolves the accounts and third parties referenced by the lines.
func (s *postingService) loadShapeLines(ctx context.Context, store portsrepo.LedgerStore, lines []dto.TransactionLine) ([]shapeLine, error) {
	accountIDs := make([]int64, 0, len(lines))
	var thirdPartyIDs []int64
	for _, l := range lines {
		accountIDs = append(accountIDs, l.AccountID)
		if l.ThirdPartyID != nil {
			thirdPartyIDs = append(thirdPartyIDs, *l.ThirdPartyID)
		}
	}
	accounts, err := store.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	thirdParties, err := store.FindThirdPartiesByIDs(ctx, thirdPartyIDs)
	if err != nil {
		return nil, err
	}

	out := make([]shapeLine, len(lines))
	for i, l := range lines {
		account, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: account %d does not exist", apperrors.ErrValidation, i+1, l.AccountID)
		}
		out[i] = shapeLine{account: account, expense: l.Expense, revenue: l.Revenue}
		if l.ThirdPartyID != nil {
			tp, ok := thirdParties[*l.ThirdPartyID]
			if !ok {
				return nil, fmt.Errorf("%w: line %d: third party %d does not exist", apperrors.ErrValidation, i+1, *l.ThirdPartyID)
			}
			out[i].thirdParty = &tp
		}
	}
	return out, nil
}

// validateEntryShape enforces the line layout expected for each entry kind.
func validateEntryShape(kind domain.EntryKind, lines []shapeLine) error {
	switch kind {
	case domain.KindPurchase:
		return validateCounterpartShape(kind, lines, payablesPrefix)
	case domain.KindSale:
		return validateCounterpartShape(kind, lines, receivablesPrefix)
	case domain.KindIncome:
		cash := filterLines(lines, shapeLine.isCash)
		if len(cash) != 1 || !cash[0].debited() {
			return shapeError(kind, "exactly one debited cash line is required")
		}
	case domain.KindExpenditure:
		cash := filterLines(lines, shapeLine.isCash)
		if len(cash) != 1 || !cash[0].credited() {
			return shapeError(kind, "exactly one credited cash line is required")
		}
	case domain.KindCashing:
		debited := filterLines(lines, func(l shapeLine) bool { return l.isCash() && l.debited() })
		credited := filterLines(lines, func(l shapeLine) bool { return l.isCash() && l.credited() })
		if len(debited) != 1 {
			return shapeError(kind, "exactly one debited cash line is required")
		}
		if len(credited) == 0 {
			return shapeError(kind, "at least one credited cash line is required")
		}
	case domain.KindTransferOrder:
		credited := 0
		for _, l := range lines {
			if l.isCash() && l.credited() {
				credited++
				continue
			}
			if l.thirdParty == nil || strings.TrimSpace(l.thirdParty.IBAN) == "" {
				return shapeError(kind, fmt.Sprintf("line on %s needs a third party with an IBAN", l.account.Code))
			}
		}
		if credited != 1 {
			return shapeError(kind, "exactly one credited cash line is required")
		}
	}
	return nil
}

func validateCounterpartShape(kind domain.EntryKind, lines []shapeLine, prefix string) error {
	counterparts := filterLines(lines, func(l shapeLine) bool { return strings.HasPrefix(l.account.Code, prefix) })
	if len(counterparts) != 1 {
		return shapeError(kind, fmt.Sprintf("exactly one line on a %s account is required", prefix))
	}
	if counterparts[0].thirdParty == nil {
		return shapeError(kind, fmt.Sprintf("the %s line needs a third party", prefix))
	}
	if len(lines) < 2 {
		return shapeError(kind, "at least one other line is required")
	}
	return nil
}

func filterLines(lines []shapeLine, keep func(shapeLine) bool) []shapeLine {
	var out []shapeLine
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func shapeError(kind domain.EntryKind, msg string) error {
	return fmt.Errorf("%w: %s entry: %s", apperrors.ErrValidation, strings.ToLower(string(kind)), msg)
}

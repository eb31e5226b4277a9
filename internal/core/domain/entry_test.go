package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func txn(expense, revenue string) domain.Transaction {
	return domain.Transaction{
		Expense: decimal.RequireFromString(expense),
		Revenue: decimal.RequireFromString(revenue),
	}
}

func TestEntryDetail_BalancePurity(t *testing.T) {
	tests := []struct {
		name     string
		txns     []domain.Transaction
		balance  string
		balanced bool
	}{
		{name: "empty entry", txns: nil, balance: "0", balanced: true},
		{name: "balanced pair", txns: []domain.Transaction{txn("100.00", "0"), txn("0", "100.00")}, balance: "0", balanced: true},
		{name: "one cent off", txns: []domain.Transaction{txn("100.00", "0"), txn("0", "99.99")}, balance: "-0.01", balanced: false},
		{name: "decimal sums stay exact", txns: []domain.Transaction{txn("0.10", "0"), txn("0.20", "0"), txn("0", "0.30")}, balance: "0", balanced: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := domain.NewEntryDetail(domain.Entry{EntryID: 1}, tt.txns)
			assert.True(t, detail.Revenue.Sub(detail.Expense).Equal(detail.Balance()))
			assert.True(t, decimal.RequireFromString(tt.balance).Equal(detail.Balance()), "got %s", detail.Balance())
			assert.Equal(t, tt.balanced, detail.Balanced())
			assert.Equal(t, detail.Balance().IsZero(), detail.Balanced())
		})
	}
}

func TestEntryKind_IsValid(t *testing.T) {
	assert.True(t, domain.KindTransferOrder.IsValid())
	assert.False(t, domain.EntryKind("REFUND").IsValid())
}

func TestTransaction_LetterKeyChanged(t *testing.T) {
	tp1, tp2 := int64(1), int64(2)
	base := domain.Transaction{AccountID: 10, ThirdPartyID: &tp1, Expense: decimal.Zero, Revenue: decimal.NewFromInt(50)}

	same := base
	same.Title = "renamed"
	same.Revenue = decimal.RequireFromString("50.00")
	assert.False(t, same.LetterKeyChanged(base))

	amount := base
	amount.Revenue = decimal.NewFromInt(51)
	assert.True(t, amount.LetterKeyChanged(base))

	account := base
	account.AccountID = 11
	assert.True(t, account.LetterKeyChanged(base))

	party := base
	party.ThirdPartyID = &tp2
	assert.True(t, party.LetterKeyChanged(base))

	noParty := base
	noParty.ThirdPartyID = nil
	assert.True(t, noParty.LetterKeyChanged(base))
}

func TestFiscalYear_ContainsAndOverlaps(t *testing.T) {
	y := domain.FiscalYear{
		Start: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, y.Contains(time.Date(2023, 9, 1, 15, 0, 0, 0, time.UTC)))
	assert.True(t, y.Contains(time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, y.Contains(y.End))

	assert.False(t, y.Overlaps(y.End, y.End.AddDate(1, 0, 0)))
	assert.True(t, y.Overlaps(y.End.AddDate(0, -1, 0), y.End.AddDate(1, 0, 0)))
}

func TestAccountClass(t *testing.T) {
	assert.Equal(t, domain.ClassThirdParty, domain.Account{Code: "4010000"}.Class())
	assert.True(t, domain.ClassOf("5120000").IsBalanceSheet())
	assert.True(t, domain.ClassOf("7010000").IsIncomeStatement())
	assert.False(t, domain.ClassOf("4110000").IsBalanceSheet())
	assert.Error(t, domain.ValidateAccountCode("41A"))
	assert.Error(t, domain.ValidateAccountCode("41"))
	assert.NoError(t, domain.ValidateAccountCode("4110000"))
}

func TestAuditEvent_Track(t *testing.T) {
	ev := domain.NewAuditEvent(domain.EntityTransaction, 3, domain.AuditUpdate, "alice", time.Now())
	ev.Track("title", "a", "a")
	assert.False(t, ev.HasChanges())
	ev.Track("expense", "10.00", "12.00")
	assert.Equal(t, domain.FieldChange{Old: "10.00", New: "12.00"}, ev.Changes["expense"])
}

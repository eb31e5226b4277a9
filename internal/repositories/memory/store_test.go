package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store   *memory.Store
	bank    domain.Account
	year    domain.FiscalYear
	journal domain.Journal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{store: memory.NewStore()}
	f.bank = domain.Account{Code: "5120000", Title: "Bank"}
	require.NoError(t, f.store.SaveAccount(ctx, &f.bank))
	f.year = domain.FiscalYear{Title: "2024", Start: day(2024, 1, 1), End: day(2025, 1, 1), Opened: true}
	require.NoError(t, f.store.SaveFiscalYear(ctx, &f.year))
	f.journal = domain.Journal{Code: "BQ", Title: "Bank"}
	require.NoError(t, f.store.SaveJournal(ctx, &f.journal))
	return f
}

func (f fixture) post(t *testing.T, date time.Time, expense string, rec *time.Time) domain.Transaction {
	t.Helper()
	ctx := context.Background()
	entry := domain.Entry{FiscalYearID: f.year.FiscalYearID, JournalID: f.journal.JournalID, Kind: domain.KindGeneric, Date: date}
	require.NoError(t, f.store.SaveEntry(ctx, &entry))
	txn := domain.Transaction{EntryID: entry.EntryID, AccountID: f.bank.AccountID, Expense: decimal.RequireFromString(expense), Revenue: decimal.Zero, Reconciliation: rec}
	require.NoError(t, f.store.SaveTransaction(ctx, &txn))
	return txn
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.store.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		acc := domain.Account{Code: "4010000", Title: "Suppliers"}
		require.NoError(t, store.SaveAccount(ctx, &acc))
		_, err := store.FindAccountByCode(ctx, "4010000")
		require.NoError(t, err, "writes are visible inside the unit of work")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = f.store.FindAccountByCode(ctx, "4010000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		acc := domain.Account{Code: "4010000", Title: "Suppliers"}
		return store.SaveAccount(ctx, &acc)
	})
	require.NoError(t, err)

	acc, err := f.store.FindAccountByCode(ctx, "4010000")
	require.NoError(t, err)
	assert.Equal(t, "Suppliers", acc.Title)
}

func TestSaveAccount_DuplicateCode(t *testing.T) {
	f := newFixture(t)
	dup := domain.Account{Code: "5120000"}
	assert.ErrorIs(t, f.store.SaveAccount(context.Background(), &dup), apperrors.ErrDuplicate)
}

func TestDeleteAccount_Referenced(t *testing.T) {
	f := newFixture(t)
	f.post(t, day(2024, 2, 1), "10", nil)
	err := f.store.DeleteAccount(context.Background(), f.bank.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrReferentialIntegrity)
}

func TestListTransactions_ReconciliationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	march, feb := day(2024, 3, 31), day(2024, 2, 29)

	late := f.post(t, day(2024, 3, 1), "1", &march)
	open2 := f.post(t, day(2024, 2, 10), "2", nil)
	early := f.post(t, day(2024, 2, 5), "3", &feb)
	open1 := f.post(t, day(2024, 1, 10), "4", nil)

	got, err := f.store.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:     []int64{f.bank.AccountID},
		Reconciliation: &portsrepo.ReconciliationRange{IncludeUnreconciled: true},
		Order:          portsrepo.OrderByReconciliation,
	})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []int64{open1.TransactionID, open2.TransactionID, early.TransactionID, late.TransactionID},
		[]int64{got[0].TransactionID, got[1].TransactionID, got[2].TransactionID, got[3].TransactionID})

	upTo, err := f.store.SumTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs:     []int64{f.bank.AccountID},
		Reconciliation: &portsrepo.ReconciliationRange{UpTo: &feb},
	})
	require.NoError(t, err)
	assert.True(t, upTo.Expense.Equal(decimal.NewFromInt(3)))

	window, err := f.store.ListTransactions(ctx, portsrepo.TransactionFilter{
		Reconciliation: &portsrepo.ReconciliationRange{After: &feb, IncludeUnreconciled: true, UnreconciledUpTo: &feb},
	})
	require.NoError(t, err)
	assert.Len(t, window, 3, "late reconciled line plus both open lines dated before the end of february")
}

func TestBankStatements_OrderingAndPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, d := range []time.Time{day(2024, 3, 31), day(2024, 1, 31), day(2024, 2, 29)} {
		stmt := domain.BankStatement{FiscalYearID: f.year.FiscalYearID, Date: d, Number: i + 1, Balance: decimal.Zero}
		require.NoError(t, f.store.SaveBankStatement(ctx, &stmt))
	}
	dup := domain.BankStatement{FiscalYearID: f.year.FiscalYearID, Date: day(2024, 1, 31)}
	assert.ErrorIs(t, f.store.SaveBankStatement(ctx, &dup), apperrors.ErrDuplicate)

	all, err := f.store.ListBankStatements(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, day(2024, 1, 31), all[0].Date)
	assert.Equal(t, day(2024, 3, 31), all[2].Date)

	latest, err := f.store.FindLatestBankStatement(ctx)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 31), latest.Date)

	prev, err := f.store.FindPreviousBankStatement(ctx, day(2024, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 29), prev.Date)

	_, err = f.store.FindPreviousBankStatement(ctx, day(2024, 1, 31))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

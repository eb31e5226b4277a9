package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
)

func (st *state) checkTxnRefs(t domain.Transaction) error {
	if _, ok := st.entries[t.EntryID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("entry %d", t.EntryID))
	}
	if _, ok := st.accounts[t.AccountID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d", t.AccountID))
	}
	if t.ThirdPartyID != nil {
		if _, ok := st.thirdParties[*t.ThirdPartyID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("third party %d", *t.ThirdPartyID))
		}
	}
	if t.AnalyticID != nil {
		if _, ok := st.analytics[*t.AnalyticID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("analytic %d", *t.AnalyticID))
		}
	}
	if t.LetterID != nil {
		if _, ok := st.letters[*t.LetterID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("letter %d", *t.LetterID))
		}
	}
	return nil
}

func (v view) SaveTransaction(_ context.Context, txn *domain.Transaction) error {
	st, unlock := v.acquire()
	defer unlock()
	return st.insertTxn(txn)
}

func (st *state) insertTxn(txn *domain.Transaction) error {
	if err := st.checkTxnRefs(*txn); err != nil {
		return err
	}
	txn.TransactionID = st.next("transactions")
	st.txns[txn.TransactionID] = cloneTxn(*txn)
	return nil
}

func (v view) SaveTransactions(_ context.Context, txns []*domain.Transaction) error {
	st, unlock := v.acquire()
	defer unlock()
	for _, t := range txns {
		if err := st.insertTxn(t); err != nil {
			return err
		}
	}
	return nil
}

func (v view) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.txns[txn.TransactionID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", txn.TransactionID))
	}
	if err := st.checkTxnRefs(txn); err != nil {
		return err
	}
	st.txns[txn.TransactionID] = cloneTxn(txn)
	return nil
}

func (v view) DeleteTransaction(_ context.Context, transactionID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.txns[transactionID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}
	delete(st.txns, transactionID)
	return nil
}

func (v view) DeleteTransactionsByEntry(_ context.Context, entryID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	for id, t := range st.txns {
		if t.EntryID == entryID {
			delete(st.txns, id)
		}
	}
	return nil
}

func (v view) SetTransactionsLetter(_ context.Context, transactionIDs []int64, letterID *int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if letterID != nil {
		if _, ok := st.letters[*letterID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("letter %d", *letterID))
		}
	}
	for _, id := range transactionIDs {
		t, ok := st.txns[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", id))
		}
		t.LetterID = copyID(letterID)
		st.txns[id] = t
	}
	return nil
}

func (v view) ClearLetter(_ context.Context, letterID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	for id, t := range st.txns {
		if t.LetterID != nil && *t.LetterID == letterID {
			t.LetterID = nil
			st.txns[id] = t
		}
	}
	return nil
}

func (v view) SetTransactionsReconciliation(_ context.Context, transactionIDs []int64, date *time.Time) error {
	st, unlock := v.acquire()
	defer unlock()
	for _, id := range transactionIDs {
		t, ok := st.txns[id]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", id))
		}
		if date == nil {
			t.Reconciliation = nil
		} else {
			d := domain.DateOf(*date)
			t.Reconciliation = &d
		}
		st.txns[id] = t
	}
	return nil
}

func (v view) FindTransactionByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	st, unlock := v.acquire()
	defer unlock()
	t, ok := st.txns[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}
	t = cloneTxn(t)
	return &t, nil
}

func (v view) FindTransactionsByIDsForUpdate(_ context.Context, transactionIDs []int64) ([]domain.Transaction, error) {
	st, unlock := v.acquire()
	defer unlock()
	return st.filter(portsrepo.TransactionFilter{IDs: transactionIDs}), nil
}

func (v view) ListTransactions(_ context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	st, unlock := v.acquire()
	defer unlock()
	return st.filter(filter), nil
}

func (v view) SumTransactions(_ context.Context, filter portsrepo.TransactionFilter) (domain.Totals, error) {
	st, unlock := v.acquire()
	defer unlock()
	return domain.SumTransactions(st.filter(filter)), nil
}

func (v view) SumTransactionsByAccount(_ context.Context, filter portsrepo.TransactionFilter) ([]domain.AccountTotals, error) {
	st, unlock := v.acquire()
	defer unlock()
	byAccount := map[int64]domain.Totals{}
	for _, t := range st.filter(filter) {
		byAccount[t.AccountID] = byAccount[t.AccountID].Add(t)
	}
	out := make([]domain.AccountTotals, 0, len(byAccount))
	for id, totals := range byAccount {
		out = append(out, domain.AccountTotals{AccountID: id, Totals: totals})
	}
	sort.Slice(out, func(i, j int) bool {
		return st.accounts[out[i].AccountID].Code < st.accounts[out[j].AccountID].Code
	})
	return out, nil
}

func (v view) SumTransactionsByThirdParty(_ context.Context, filter portsrepo.TransactionFilter) ([]domain.ThirdPartyTotals, error) {
	st, unlock := v.acquire()
	defer unlock()
	byParty := map[int64]domain.Totals{}
	for _, t := range st.filter(filter) {
		if t.ThirdPartyID == nil {
			continue
		}
		byParty[*t.ThirdPartyID] = byParty[*t.ThirdPartyID].Add(t)
	}
	out := make([]domain.ThirdPartyTotals, 0, len(byParty))
	for id, totals := range byParty {
		out = append(out, domain.ThirdPartyTotals{ThirdPartyID: id, Totals: totals})
	}
	sort.Slice(out, func(i, j int) bool {
		return st.thirdParties[out[i].ThirdPartyID].Code < st.thirdParties[out[j].ThirdPartyID].Code
	})
	return out, nil
}

func (st *state) filter(f portsrepo.TransactionFilter) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range st.txns {
		if st.matches(t, f) {
			out = append(out, cloneTxn(t))
		}
	}
	st.order(out, f.Order)
	return out
}

func (st *state) matches(t domain.Transaction, f portsrepo.TransactionFilter) bool {
	entry := st.entries[t.EntryID]
	switch {
	case len(f.IDs) > 0 && !contains(f.IDs, t.TransactionID),
		len(f.EntryIDs) > 0 && !contains(f.EntryIDs, t.EntryID),
		len(f.AccountIDs) > 0 && !contains(f.AccountIDs, t.AccountID),
		len(f.AccountCodePrefixes) > 0 && !accounting.HasAnyPrefix(st.accounts[t.AccountID].Code, f.AccountCodePrefixes...),
		f.ThirdPartyID != nil && !domain.SameID(t.ThirdPartyID, f.ThirdPartyID),
		f.FiscalYearID != nil && entry.FiscalYearID != *f.FiscalYearID,
		f.LetterID != nil && !domain.SameID(t.LetterID, f.LetterID),
		f.Unlettered && t.LetterID != nil,
		f.Lettered && t.LetterID == nil,
		f.ExcludeProjected && entry.Projected,
		f.PendingExport && entry.Exported:
		return false
	}
	if r := f.Reconciliation; r != nil {
		return matchesReconciliation(t, entry, *r)
	}
	return true
}

func matchesReconciliation(t domain.Transaction, entry domain.Entry, r portsrepo.ReconciliationRange) bool {
	if t.Reconciliation == nil {
		if !r.IncludeUnreconciled {
			return false
		}
		return r.UnreconciledUpTo == nil || !entry.Date.After(*r.UnreconciledUpTo)
	}
	rec := *t.Reconciliation
	if r.After != nil && !rec.After(*r.After) {
		return false
	}
	return r.UpTo == nil || !rec.After(*r.UpTo)
}

func (st *state) order(txns []domain.Transaction, order portsrepo.TransactionOrder) {
	sort.Slice(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		ea, eb := st.entries[a.EntryID], st.entries[b.EntryID]
		switch order {
		case portsrepo.OrderByReconciliation:
			if (a.Reconciliation == nil) != (b.Reconciliation == nil) {
				return a.Reconciliation == nil
			}
			if a.Reconciliation != nil && !a.Reconciliation.Equal(*b.Reconciliation) {
				return a.Reconciliation.Before(*b.Reconciliation)
			}
			fallthrough
		case portsrepo.OrderByDate:
			if !ea.Date.Equal(eb.Date) {
				return ea.Date.Before(eb.Date)
			}
			return a.TransactionID < b.TransactionID
		default:
			if a.EntryID != b.EntryID {
				return a.EntryID < b.EntryID
			}
			return a.TransactionID < b.TransactionID
		}
	})
}

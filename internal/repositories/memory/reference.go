package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
)

func (v view) SaveAccount(_ context.Context, account *domain.Account) error {
	st, unlock := v.acquire()
	defer unlock()
	for _, a := range st.accounts {
		if a.Code == account.Code {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
	}
	account.AccountID = st.next("accounts")
	st.accounts[account.AccountID] = *account
	return nil
}

func (v view) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	st, unlock := v.acquire()
	defer unlock()
	a, ok := st.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %d", accountID))
	}
	return &a, nil
}

func (v view) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	st, unlock := v.acquire()
	defer unlock()
	for _, a := range st.accounts {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s", code))
}

func (v view) FindAccountsByIDs(_ context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make(map[int64]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := st.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (v view) ListAccounts(_ context.Context) ([]domain.Account, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make([]domain.Account, 0, len(st.accounts))
	for _, a := range st.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (v view) CountAccountReferences(_ context.Context, accountID int64) (int, error) {
	st, unlock := v.acquire()
	defer unlock()
	return st.accountReferences(accountID), nil
}

func (st *state) accountReferences(accountID int64) int {
	n := 0
	for _, t := range st.txns {
		if t.AccountID == accountID {
			n++
		}
	}
	for _, tp := range st.thirdParties {
		if tp.AccountID == accountID {
			n++
		}
	}
	return n
}

func (v view) DeleteAccount(_ context.Context, accountID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.accounts[accountID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d", accountID))
	}
	if st.accountReferences(accountID) > 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrReferentialIntegrity, accountID)
	}
	delete(st.accounts, accountID)
	return nil
}

func (v view) SaveThirdParty(_ context.Context, tp *domain.ThirdParty) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.accounts[tp.AccountID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d", tp.AccountID))
	}
	for _, other := range st.thirdParties {
		if other.Code == tp.Code {
			return fmt.Errorf("%w: third party with code %s already exists", apperrors.ErrDuplicate, tp.Code)
		}
	}
	tp.ThirdPartyID = st.next("thirdparties")
	st.thirdParties[tp.ThirdPartyID] = *tp
	return nil
}

func (v view) FindThirdPartyByID(_ context.Context, thirdPartyID int64) (*domain.ThirdParty, error) {
	st, unlock := v.acquire()
	defer unlock()
	tp, ok := st.thirdParties[thirdPartyID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("third party %d", thirdPartyID))
	}
	return &tp, nil
}

func (v view) FindThirdPartyByCode(_ context.Context, code string) (*domain.ThirdParty, error) {
	st, unlock := v.acquire()
	defer unlock()
	for _, tp := range st.thirdParties {
		if tp.Code == code {
			return &tp, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("third party %s", code))
}

func (v view) FindThirdPartiesByIDs(_ context.Context, ids []int64) (map[int64]domain.ThirdParty, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make(map[int64]domain.ThirdParty, len(ids))
	for _, id := range ids {
		if tp, ok := st.thirdParties[id]; ok {
			out[id] = tp
		}
	}
	return out, nil
}

func (v view) ListThirdParties(_ context.Context) ([]domain.ThirdParty, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make([]domain.ThirdParty, 0, len(st.thirdParties))
	for _, tp := range st.thirdParties {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (v view) CountThirdPartyReferences(_ context.Context, thirdPartyID int64) (int, error) {
	st, unlock := v.acquire()
	defer unlock()
	return st.thirdPartyReferences(thirdPartyID), nil
}

func (st *state) thirdPartyReferences(thirdPartyID int64) int {
	n := 0
	for _, t := range st.txns {
		if t.ThirdPartyID != nil && *t.ThirdPartyID == thirdPartyID {
			n++
		}
	}
	return n
}

func (v view) DeleteThirdParty(_ context.Context, thirdPartyID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.thirdParties[thirdPartyID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("third party %d", thirdPartyID))
	}
	if st.thirdPartyReferences(thirdPartyID) > 0 {
		return fmt.Errorf("%w: third party %d", apperrors.ErrReferentialIntegrity, thirdPartyID)
	}
	delete(st.thirdParties, thirdPartyID)
	return nil
}

func (v view) SaveAnalytic(_ context.Context, analytic *domain.Analytic) error {
	st, unlock := v.acquire()
	defer unlock()
	for _, a := range st.analytics {
		if a.Code == analytic.Code {
			return fmt.Errorf("%w: analytic with code %s already exists", apperrors.ErrDuplicate, analytic.Code)
		}
	}
	analytic.AnalyticID = st.next("analytics")
	st.analytics[analytic.AnalyticID] = *analytic
	return nil
}

func (v view) FindAnalyticByID(_ context.Context, analyticID int64) (*domain.Analytic, error) {
	st, unlock := v.acquire()
	defer unlock()
	a, ok := st.analytics[analyticID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("analytic %d", analyticID))
	}
	return &a, nil
}

func (v view) ListAnalytics(_ context.Context) ([]domain.Analytic, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make([]domain.Analytic, 0, len(st.analytics))
	for _, a := range st.analytics {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (v view) SaveJournal(_ context.Context, journal *domain.Journal) error {
	st, unlock := v.acquire()
	defer unlock()
	for _, j := range st.journals {
		if j.Code == journal.Code {
			return fmt.Errorf("%w: journal with code %s already exists", apperrors.ErrDuplicate, journal.Code)
		}
	}
	journal.JournalID = st.next("journals")
	st.journals[journal.JournalID] = *journal
	return nil
}

func (v view) FindJournalByID(_ context.Context, journalID int64) (*domain.Journal, error) {
	st, unlock := v.acquire()
	defer unlock()
	j, ok := st.journals[journalID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal %d", journalID))
	}
	return &j, nil
}

func (v view) FindJournalByCode(_ context.Context, code string) (*domain.Journal, error) {
	st, unlock := v.acquire()
	defer unlock()
	for _, j := range st.journals {
		if j.Code == code {
			return &j, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal %s", code))
}

func (v view) ListJournals(_ context.Context) ([]domain.Journal, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make([]domain.Journal, 0, len(st.journals))
	for _, j := range st.journals {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

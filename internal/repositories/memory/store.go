// Package memory is an in-process implementation of the ledger repositories.
// A unit of work runs against a private copy of the state which replaces the
// shared state only when the work succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
)

type state struct {
	seq          map[string]int64
	accounts     map[int64]domain.Account
	thirdParties map[int64]domain.ThirdParty
	analytics    map[int64]domain.Analytic
	journals     map[int64]domain.Journal
	years        map[int64]domain.FiscalYear
	entries      map[int64]domain.Entry
	txns         map[int64]domain.Transaction
	letters      map[int64]domain.Letter
	statements   map[int64]domain.BankStatement
	audit        []domain.AuditEvent
}

func newState() *state {
	return &state{
		seq:          map[string]int64{},
		accounts:     map[int64]domain.Account{},
		thirdParties: map[int64]domain.ThirdParty{},
		analytics:    map[int64]domain.Analytic{},
		journals:     map[int64]domain.Journal{},
		years:        map[int64]domain.FiscalYear{},
		entries:      map[int64]domain.Entry{},
		txns:         map[int64]domain.Transaction{},
		letters:      map[int64]domain.Letter{},
		statements:   map[int64]domain.BankStatement{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the state. Stored values never share mutable memory with
// callers, so a shallow copy of each table is enough.
func (s *state) clone() *state {
	return &state{
		seq:          cloneMap(s.seq),
		accounts:     cloneMap(s.accounts),
		thirdParties: cloneMap(s.thirdParties),
		analytics:    cloneMap(s.analytics),
		journals:     cloneMap(s.journals),
		years:        cloneMap(s.years),
		entries:      cloneMap(s.entries),
		txns:         cloneMap(s.txns),
		letters:      cloneMap(s.letters),
		statements:   cloneMap(s.statements),
		audit:        append([]domain.AuditEvent(nil), s.audit...),
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// view implements the repositories over a state. The store's view takes the
// store lock per call; a unit of work's view runs under the lock already held.
type view struct {
	lock  func() func()
	state func() *state
}

func (v view) acquire() (*state, func()) {
	unlock := v.lock()
	return v.state(), unlock
}

// Store is the in-memory ledger repository.
type Store struct {
	view
	mu sync.Mutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{st: newState()}
	s.view = view{
		lock: func() func() {
			s.mu.Lock()
			return s.mu.Unlock
		},
		state: func() *state { return s.st },
	}
	return s
}

var _ portsrepo.LedgerRepository = (*Store)(nil)

// WithinTx runs fn against a snapshot and publishes it when fn succeeds.
// Units of work are serialized, which subsumes row locking.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := view{
		lock:  func() func() { return func() {} },
		state: func() *state { return work },
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.st = work
	return nil
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTxn(t domain.Transaction) domain.Transaction {
	t.ThirdPartyID = copyID(t.ThirdPartyID)
	t.AnalyticID = copyID(t.AnalyticID)
	t.LetterID = copyID(t.LetterID)
	if t.Reconciliation != nil {
		r := *t.Reconciliation
		t.Reconciliation = &r
	}
	return t
}

func cloneEntry(e domain.Entry) domain.Entry {
	if e.Deadline != nil {
		d := *e.Deadline
		e.Deadline = &d
	}
	return e
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

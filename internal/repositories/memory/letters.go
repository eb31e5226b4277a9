package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
)

func (v view) SaveLetter(_ context.Context, letter *domain.Letter) error {
	st, unlock := v.acquire()
	defer unlock()
	letter.LetterID = st.next("letters")
	st.letters[letter.LetterID] = *letter
	return nil
}

func (v view) FindLetterByID(_ context.Context, letterID int64) (*domain.Letter, error) {
	st, unlock := v.acquire()
	defer unlock()
	l, ok := st.letters[letterID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("letter %d", letterID))
	}
	return &l, nil
}

func (v view) DeleteLetter(_ context.Context, letterID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.letters[letterID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("letter %d", letterID))
	}
	for _, t := range st.txns {
		if t.LetterID != nil && *t.LetterID == letterID {
			return fmt.Errorf("%w: letter %s is still referenced", apperrors.ErrReferentialIntegrity, domain.LetterLabel(letterID))
		}
	}
	delete(st.letters, letterID)
	return nil
}

func (v view) SaveBankStatement(_ context.Context, stmt *domain.BankStatement) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.years[stmt.FiscalYearID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("fiscal year %d", stmt.FiscalYearID))
	}
	for _, other := range st.statements {
		if other.Date.Equal(stmt.Date) {
			return fmt.Errorf("%w: a bank statement already exists on %s", apperrors.ErrDuplicate, stmt.Date.Format(time.DateOnly))
		}
	}
	stmt.BankStatementID = st.next("bank_statements")
	st.statements[stmt.BankStatementID] = *stmt
	return nil
}

func (v view) FindBankStatementByID(_ context.Context, id int64) (*domain.BankStatement, error) {
	st, unlock := v.acquire()
	defer unlock()
	s, ok := st.statements[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank statement %d", id))
	}
	return &s, nil
}

func (v view) FindBankStatementByDate(_ context.Context, date time.Time) (*domain.BankStatement, error) {
	st, unlock := v.acquire()
	defer unlock()
	for _, s := range st.statements {
		if s.Date.Equal(domain.DateOf(date)) {
			return &s, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank statement on %s", date.Format(time.DateOnly)))
}

func (st *state) sortedStatements() []domain.BankStatement {
	out := make([]domain.BankStatement, 0, len(st.statements))
	for _, s := range st.statements {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.BankStatementID < b.BankStatementID
	})
	return out
}

func (v view) ListBankStatements(_ context.Context, fiscalYearID *int64) ([]domain.BankStatement, error) {
	st, unlock := v.acquire()
	defer unlock()
	var out []domain.BankStatement
	for _, s := range st.sortedStatements() {
		if fiscalYearID == nil || s.FiscalYearID == *fiscalYearID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (v view) FindLatestBankStatement(_ context.Context) (*domain.BankStatement, error) {
	st, unlock := v.acquire()
	defer unlock()
	all := st.sortedStatements()
	if len(all) == 0 {
		return nil, apperrors.NewNotFoundError("bank statement")
	}
	return &all[len(all)-1], nil
}

func (v view) FindPreviousBankStatement(_ context.Context, date time.Time) (*domain.BankStatement, error) {
	st, unlock := v.acquire()
	defer unlock()
	var prev *domain.BankStatement
	for _, s := range st.sortedStatements() {
		if !s.Date.Before(date) {
			break
		}
		s := s
		prev = &s
	}
	if prev == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank statement before %s", date.Format(time.DateOnly)))
	}
	return prev, nil
}

func (v view) AppendAuditEvents(_ context.Context, events ...domain.AuditEvent) error {
	st, unlock := v.acquire()
	defer unlock()
	st.audit = append(st.audit, events...)
	return nil
}

func (v view) ListAuditEvents(_ context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	st, unlock := v.acquire()
	defer unlock()
	var out []domain.AuditEvent
	for _, ev := range st.audit {
		if ev.EntityType == entityType && ev.EntityID == entityID {
			out = append(out, ev)
		}
	}
	return out, nil
}

package pgsql

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTransactionWhere_Empty(t *testing.T) {
	w := transactionWhere(portsrepo.TransactionFilter{})
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestTransactionWhere_Clauses(t *testing.T) {
	year := int64(3)
	w := transactionWhere(portsrepo.TransactionFilter{
		AccountCodePrefixes: []string{"6", "7"},
		FiscalYearID:        &year,
		Unlettered:          true,
		ExcludeProjected:    true,
	})

	assert.Equal(t, " WHERE a.code LIKE ANY($1) AND e.fiscal_year_id = $2 AND t.letter_id IS NULL AND NOT e.projected", w.String())
	assert.Equal(t, []any{[]string{"6%", "7%"}, int64(3)}, w.args)
}

func TestTransactionWhere_ReconciliationWindow(t *testing.T) {
	after := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	upTo := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	w := transactionWhere(portsrepo.TransactionFilter{
		AccountIDs: []int64{9},
		Reconciliation: &portsrepo.ReconciliationRange{
			After:               &after,
			UpTo:                &upTo,
			IncludeUnreconciled: true,
			UnreconciledUpTo:    &upTo,
		},
	})

	assert.Equal(t,
		" WHERE t.account_id = ANY($1) AND ((t.reconciliation IS NOT NULL AND t.reconciliation > $2 AND t.reconciliation <= $3)"+
			" OR (t.reconciliation IS NULL AND e.entry_date <= $4))",
		w.String())
	assert.Len(t, w.args, 4)
}

func TestTransactionWhere_ReconciledOnly(t *testing.T) {
	upTo := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	w := transactionWhere(portsrepo.TransactionFilter{
		Reconciliation: &portsrepo.ReconciliationRange{UpTo: &upTo},
	})
	assert.Equal(t, " WHERE (t.reconciliation IS NOT NULL AND t.reconciliation <= $1)", w.String())
}

func TestOrderClause(t *testing.T) {
	assert.Contains(t, orderClause(portsrepo.OrderByReconciliation), "NULLS FIRST")
	assert.Equal(t, " ORDER BY e.entry_date, t.transaction_id", orderClause(portsrepo.OrderByDate))
	assert.Equal(t, " ORDER BY t.entry_id, t.transaction_id", orderClause(portsrepo.OrderByEntry))
}

func TestDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperrors.ErrReferentialIntegrity},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "transactions_expense_check"}, apperrors.ErrValidation},
		{"exclusion", &pgconn.PgError{Code: "23P01", ConstraintName: "fiscal_years_no_overlap"}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, dbError(tt.err, "thing"), tt.want)
		})
	}

	var appErr *apperrors.AppError
	assert.True(t, errors.As(dbError(errors.New("boom"), "thing"), &appErr))
	assert.Equal(t, 500, appErr.Status)
	assert.NoError(t, dbError(nil, "thing"))
}

func TestCountDistinct(t *testing.T) {
	assert.Equal(t, 2, countDistinct([]int64{4, 4, 7}))
}

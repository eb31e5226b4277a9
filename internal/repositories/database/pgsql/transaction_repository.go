package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/SscSPs/association_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	selectTransactionFields = `t.transaction_id, t.entry_id, t.account_id, t.third_party_id, t.analytic_id, t.title,
	t.expense, t.revenue, t.reconciliation, t.letter_id,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

	transactionsFrom = ` FROM transactions t
	JOIN entries e ON e.entry_id = t.entry_id
	JOIN accounts a ON a.account_id = t.account_id`

	insertTransactionQuery = `
		INSERT INTO transactions (
			entry_id, account_id, third_party_id, analytic_id, title, expense, revenue,
			reconciliation, letter_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING transaction_id`
)

func insertTransactionArgs(m models.Transaction) []any {
	return []any{
		m.EntryID, m.AccountID, m.ThirdPartyID, m.AnalyticID, m.Title, m.Expense, m.Revenue,
		m.Reconciliation, m.LetterID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// SaveTransaction inserts a transaction and assigns its ID.
func (s *Store) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	m := mapping.ToModelTransaction(*txn)
	err := s.db.QueryRow(ctx, insertTransactionQuery, insertTransactionArgs(m)...).Scan(&txn.TransactionID)
	return dbError(err, fmt.Sprintf("transaction of entry %d", m.EntryID))
}

// SaveTransactions sends the inserts as one batch and assigns IDs in order.
func (s *Store) SaveTransactions(ctx context.Context, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, insertTransactionArgs(mapping.ToModelTransaction(*txn))...)
	}
	br := s.db.SendBatch(ctx, batch)
	for _, txn := range txns {
		if err := br.QueryRow().Scan(&txn.TransactionID); err != nil {
			br.Close()
			return dbError(err, fmt.Sprintf("transaction of entry %d", txn.EntryID))
		}
	}
	return dbError(br.Close(), "transaction batch")
}

func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	tag, err := s.db.Exec(ctx, `
		UPDATE transactions
		SET account_id = $2, third_party_id = $3, analytic_id = $4, title = $5, expense = $6, revenue = $7,
		    reconciliation = $8, letter_id = $9, last_updated_at = $10, last_updated_by = $11
		WHERE transaction_id = $1`,
		m.TransactionID, m.AccountID, m.ThirdPartyID, m.AnalyticID, m.Title, m.Expense, m.Revenue,
		m.Reconciliation, m.LetterID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return expectRows(tag, err, fmt.Sprintf("transaction %d", m.TransactionID))
}

func (s *Store) DeleteTransaction(ctx context.Context, transactionID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	return expectRows(tag, err, fmt.Sprintf("transaction %d", transactionID))
}

func (s *Store) DeleteTransactionsByEntry(ctx context.Context, entryID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE entry_id = $1`, entryID)
	return dbError(err, fmt.Sprintf("transactions of entry %d", entryID))
}

func (s *Store) SetTransactionsLetter(ctx context.Context, transactionIDs []int64, letterID *int64) error {
	return s.setTransactionsColumn(ctx, "letter_id", transactionIDs, letterID)
}

func (s *Store) ClearLetter(ctx context.Context, letterID int64) error {
	_, err := s.db.Exec(ctx, `UPDATE transactions SET letter_id = NULL WHERE letter_id = $1`, letterID)
	return dbError(err, "letter "+domain.LetterLabel(letterID))
}

func (s *Store) SetTransactionsReconciliation(ctx context.Context, transactionIDs []int64, date *time.Time) error {
	var d *time.Time
	if date != nil {
		day := domain.DateOf(*date)
		d = &day
	}
	return s.setTransactionsColumn(ctx, "reconciliation", transactionIDs, d)
}

// setTransactionsColumn writes one column on every listed row and fails with
// ErrNotFound when any ID does not exist.
func (s *Store) setTransactionsColumn(ctx context.Context, column string, transactionIDs []int64, value any) error {
	tag, err := s.db.Exec(ctx, `UPDATE transactions SET `+column+` = $2 WHERE transaction_id = ANY($1)`, transactionIDs, value)
	if err != nil {
		return dbError(err, "transactions")
	}
	if want := countDistinct(transactionIDs); tag.RowsAffected() != int64(want) {
		return apperrors.NewNotFoundError(fmt.Sprintf("%d of %d transactions", want-int(tag.RowsAffected()), want))
	}
	return nil
}

func countDistinct(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txns, err := s.queryTransactions(ctx, portsrepo.TransactionFilter{IDs: []int64{transactionID}}, "")
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %d", transactionID))
	}
	return &txns[0], nil
}

// FindTransactionsByIDsForUpdate locks the rows until the surrounding transaction ends.
func (s *Store) FindTransactionsByIDsForUpdate(ctx context.Context, transactionIDs []int64) ([]domain.Transaction, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}
	return s.queryTransactions(ctx, portsrepo.TransactionFilter{IDs: transactionIDs}, " ORDER BY t.transaction_id FOR UPDATE OF t")
}

func (s *Store) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, filter, orderClause(filter.Order))
}

func (s *Store) queryTransactions(ctx context.Context, filter portsrepo.TransactionFilter, suffix string) ([]domain.Transaction, error) {
	w := transactionWhere(filter)
	rows, err := s.db.Query(ctx, `SELECT `+selectTransactionFields+transactionsFrom+w.String()+suffix, w.args...)
	if err != nil {
		return nil, dbError(err, "transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, dbError(err, "transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (s *Store) SumTransactions(ctx context.Context, filter portsrepo.TransactionFilter) (domain.Totals, error) {
	w := transactionWhere(filter)
	var totals domain.Totals
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(t.expense), 0), COALESCE(SUM(t.revenue), 0)`+transactionsFrom+w.String(),
		w.args...,
	).Scan(&totals.Expense, &totals.Revenue)
	if err != nil {
		return domain.Totals{}, dbError(err, "transaction totals")
	}
	return totals, nil
}

func (s *Store) SumTransactionsByAccount(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.AccountTotals, error) {
	w := transactionWhere(filter)
	rows, err := s.db.Query(ctx,
		`SELECT t.account_id, SUM(t.expense), SUM(t.revenue)`+transactionsFrom+w.String()+
			` GROUP BY t.account_id, a.code ORDER BY a.code`,
		w.args...,
	)
	if err != nil {
		return nil, dbError(err, "account totals")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountTotals, error) {
		var at domain.AccountTotals
		err := row.Scan(&at.AccountID, &at.Expense, &at.Revenue)
		return at, err
	})
	if err != nil {
		return nil, dbError(err, "account totals")
	}
	return out, nil
}

func (s *Store) SumTransactionsByThirdParty(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.ThirdPartyTotals, error) {
	w := transactionWhere(filter)
	rows, err := s.db.Query(ctx,
		`SELECT t.third_party_id, SUM(t.expense), SUM(t.revenue)`+transactionsFrom+
			` JOIN third_parties tp ON tp.third_party_id = t.third_party_id`+w.String()+
			` GROUP BY t.third_party_id, tp.code ORDER BY tp.code`,
		w.args...,
	)
	if err != nil {
		return nil, dbError(err, "third party totals")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ThirdPartyTotals, error) {
		var tt domain.ThirdPartyTotals
		err := row.Scan(&tt.ThirdPartyID, &tt.Expense, &tt.Revenue)
		return tt, err
	})
	if err != nil {
		return nil, dbError(err, "third party totals")
	}
	return out, nil
}

// transactionWhere translates a filter into SQL over the transactionsFrom join.
func transactionWhere(f portsrepo.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	if len(f.IDs) > 0 {
		w.add("t.transaction_id = ANY(" + w.arg(f.IDs) + ")")
	}
	if len(f.EntryIDs) > 0 {
		w.add("t.entry_id = ANY(" + w.arg(f.EntryIDs) + ")")
	}
	if len(f.AccountIDs) > 0 {
		w.add("t.account_id = ANY(" + w.arg(f.AccountIDs) + ")")
	}
	if len(f.AccountCodePrefixes) > 0 {
		patterns := make([]string, len(f.AccountCodePrefixes))
		for i, p := range f.AccountCodePrefixes {
			patterns[i] = p + "%"
		}
		w.add("a.code LIKE ANY(" + w.arg(patterns) + ")")
	}
	if f.ThirdPartyID != nil {
		w.add("t.third_party_id = " + w.arg(*f.ThirdPartyID))
	}
	if f.FiscalYearID != nil {
		w.add("e.fiscal_year_id = " + w.arg(*f.FiscalYearID))
	}
	if f.LetterID != nil {
		w.add("t.letter_id = " + w.arg(*f.LetterID))
	}
	if f.Unlettered {
		w.add("t.letter_id IS NULL")
	}
	if f.Lettered {
		w.add("t.letter_id IS NOT NULL")
	}
	if f.ExcludeProjected {
		w.add("NOT e.projected")
	}
	if f.PendingExport {
		w.add("NOT e.exported")
	}
	if r := f.Reconciliation; r != nil {
		w.add(reconciliationClause(w, *r))
	}
	return w
}

func reconciliationClause(w *whereBuilder, r portsrepo.ReconciliationRange) string {
	reconciled := "t.reconciliation IS NOT NULL"
	if r.After != nil {
		reconciled += " AND t.reconciliation > " + w.arg(domain.DateOf(*r.After))
	}
	if r.UpTo != nil {
		reconciled += " AND t.reconciliation <= " + w.arg(domain.DateOf(*r.UpTo))
	}
	if !r.IncludeUnreconciled {
		return "(" + reconciled + ")"
	}
	unreconciled := "t.reconciliation IS NULL"
	if r.UnreconciledUpTo != nil {
		unreconciled += " AND e.entry_date <= " + w.arg(domain.DateOf(*r.UnreconciledUpTo))
	}
	return "((" + reconciled + ") OR (" + unreconciled + "))"
}

func orderClause(order portsrepo.TransactionOrder) string {
	switch order {
	case portsrepo.OrderByReconciliation:
		return " ORDER BY t.reconciliation ASC NULLS FIRST, e.entry_date, t.transaction_id"
	case portsrepo.OrderByDate:
		return " ORDER BY e.entry_date, t.transaction_id"
	default:
		return " ORDER BY t.entry_id, t.transaction_id"
	}
}

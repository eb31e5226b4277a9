package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/SscSPs/association_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	selectBankStatementFields = `bank_statement_id, fiscal_year_id, statement_date, number, document_uri, balance, ` + auditColumns
	bankStatementOrder        = `statement_date, number, bank_statement_id`
	bankStatementOrderDesc    = `statement_date DESC, number DESC, bank_statement_id DESC`
)

func (s *Store) SaveLetter(ctx context.Context, letter *domain.Letter) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO letters (created_at, created_by) VALUES ($1, $2) RETURNING letter_id`,
		letter.CreatedAt, letter.CreatedBy,
	).Scan(&letter.LetterID)
	return dbError(err, "letter")
}

func (s *Store) FindLetterByID(ctx context.Context, letterID int64) (*domain.Letter, error) {
	what := fmt.Sprintf("letter %d", letterID)
	rows, err := s.db.Query(ctx, `SELECT letter_id, created_at, created_by FROM letters WHERE letter_id = $1`, letterID)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Letter])
	if err != nil {
		return nil, dbError(err, what)
	}
	l := mapping.ToDomainLetter(m)
	return &l, nil
}

// DeleteLetter fails with ErrReferentialIntegrity while transactions still carry the letter.
func (s *Store) DeleteLetter(ctx context.Context, letterID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM letters WHERE letter_id = $1`, letterID)
	return expectRows(tag, err, "letter "+domain.LetterLabel(letterID))
}

// SaveBankStatement fails with ErrDuplicate when a statement already exists on that date.
func (s *Store) SaveBankStatement(ctx context.Context, stmt *domain.BankStatement) error {
	m := mapping.ToModelBankStatement(*stmt)
	err := s.db.QueryRow(ctx, `
		INSERT INTO bank_statements (
			fiscal_year_id, statement_date, number, document_uri, balance,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING bank_statement_id`,
		m.FiscalYearID, m.StatementDate, m.Number, m.DocumentURI, m.Balance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&stmt.BankStatementID)
	return dbError(err, "bank statement on "+m.StatementDate.Format(time.DateOnly))
}

func (s *Store) FindBankStatementByID(ctx context.Context, id int64) (*domain.BankStatement, error) {
	return s.findBankStatement(ctx, `bank_statement_id = $1`, fmt.Sprintf("bank statement %d", id), id)
}

func (s *Store) FindBankStatementByDate(ctx context.Context, date time.Time) (*domain.BankStatement, error) {
	return s.findBankStatement(ctx, `statement_date = $1`, "bank statement on "+date.Format(time.DateOnly), domain.DateOf(date))
}

// FindLatestBankStatement returns ErrNotFound when no statement exists.
func (s *Store) FindLatestBankStatement(ctx context.Context) (*domain.BankStatement, error) {
	return s.findBankStatement(ctx, `TRUE ORDER BY `+bankStatementOrderDesc+` LIMIT 1`, "bank statement")
}

func (s *Store) FindPreviousBankStatement(ctx context.Context, date time.Time) (*domain.BankStatement, error) {
	return s.findBankStatement(ctx,
		`statement_date < $1 ORDER BY `+bankStatementOrderDesc+` LIMIT 1`,
		"bank statement before "+date.Format(time.DateOnly),
		domain.DateOf(date),
	)
}

func (s *Store) findBankStatement(ctx context.Context, where, what string, args ...any) (*domain.BankStatement, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectBankStatementFields+` FROM bank_statements WHERE `+where, args...)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.BankStatement])
	if err != nil {
		return nil, dbError(err, what)
	}
	stmt := mapping.ToDomainBankStatement(m)
	return &stmt, nil
}

// ListBankStatements lists statements in (date, number, id) order.
func (s *Store) ListBankStatements(ctx context.Context, fiscalYearID *int64) ([]domain.BankStatement, error) {
	var w whereBuilder
	if fiscalYearID != nil {
		w.add("fiscal_year_id = " + w.arg(*fiscalYearID))
	}
	rows, err := s.db.Query(ctx, `SELECT `+selectBankStatementFields+` FROM bank_statements`+w.String()+` ORDER BY `+bankStatementOrder, w.args...)
	if err != nil {
		return nil, dbError(err, "bank statements")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BankStatement])
	if err != nil {
		return nil, dbError(err, "bank statements")
	}
	out := make([]domain.BankStatement, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainBankStatement(m)
	}
	return out, nil
}

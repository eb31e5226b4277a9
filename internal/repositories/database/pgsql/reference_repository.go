package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/SscSPs/association_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	auditColumns = `created_at, created_by, last_updated_at, last_updated_by`

	selectAccountFields    = `account_id, code, title, ` + auditColumns
	selectThirdPartyFields = `third_party_id, code, title, account_id, iban, bic, type, ` + auditColumns
)

// SaveAccount inserts an account and assigns its ID.
func (s *Store) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)
	err := s.db.QueryRow(ctx, `
		INSERT INTO accounts (code, title, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING account_id`,
		m.Code, m.Title, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&account.AccountID)
	return dbError(err, "account "+m.Code)
}

func (s *Store) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.findAccount(ctx, "account_id = $1", accountID, fmt.Sprintf("account %d", accountID))
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.findAccount(ctx, "code = $1", code, "account "+code)
}

func (s *Store) findAccount(ctx context.Context, where string, arg any, what string) (*domain.Account, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectAccountFields+` FROM accounts WHERE `+where, arg)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, dbError(err, what)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs returns the accounts found, keyed by ID. Missing IDs are omitted.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectAccountFields+` FROM accounts WHERE account_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, dbError(err, "accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, dbError(err, "accounts")
	}
	out := make(map[int64]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectAccountFields+` FROM accounts ORDER BY code`)
	if err != nil {
		return nil, dbError(err, "accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, dbError(err, "accounts")
	}
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

func (s *Store) CountAccountReferences(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM transactions WHERE account_id = $1)
		     + (SELECT COUNT(*) FROM third_parties WHERE account_id = $1)`,
		accountID,
	).Scan(&n)
	return n, dbError(err, fmt.Sprintf("account %d references", accountID))
}

func (s *Store) DeleteAccount(ctx context.Context, accountID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	return expectRows(tag, err, fmt.Sprintf("account %d", accountID))
}

// SaveThirdParty inserts a third party and assigns its ID.
func (s *Store) SaveThirdParty(ctx context.Context, tp *domain.ThirdParty) error {
	m := mapping.ToModelThirdParty(*tp)
	err := s.db.QueryRow(ctx, `
		INSERT INTO third_parties (code, title, account_id, iban, bic, type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING third_party_id`,
		m.Code, m.Title, m.AccountID, m.IBAN, m.BIC, m.Type,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&tp.ThirdPartyID)
	return dbError(err, "third party "+m.Code)
}

func (s *Store) FindThirdPartyByID(ctx context.Context, thirdPartyID int64) (*domain.ThirdParty, error) {
	return s.findThirdParty(ctx, "third_party_id = $1", thirdPartyID, fmt.Sprintf("third party %d", thirdPartyID))
}

func (s *Store) FindThirdPartyByCode(ctx context.Context, code string) (*domain.ThirdParty, error) {
	return s.findThirdParty(ctx, "code = $1", code, "third party "+code)
}

func (s *Store) findThirdParty(ctx context.Context, where string, arg any, what string) (*domain.ThirdParty, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectThirdPartyFields+` FROM third_parties WHERE `+where, arg)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ThirdParty])
	if err != nil {
		return nil, dbError(err, what)
	}
	tp := mapping.ToDomainThirdParty(m)
	return &tp, nil
}

func (s *Store) FindThirdPartiesByIDs(ctx context.Context, ids []int64) (map[int64]domain.ThirdParty, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectThirdPartyFields+` FROM third_parties WHERE third_party_id = ANY($1)`, ids)
	if err != nil {
		return nil, dbError(err, "third parties")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ThirdParty])
	if err != nil {
		return nil, dbError(err, "third parties")
	}
	out := make(map[int64]domain.ThirdParty, len(ms))
	for _, m := range ms {
		out[m.ThirdPartyID] = mapping.ToDomainThirdParty(m)
	}
	return out, nil
}

func (s *Store) ListThirdParties(ctx context.Context) ([]domain.ThirdParty, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectThirdPartyFields+` FROM third_parties ORDER BY code`)
	if err != nil {
		return nil, dbError(err, "third parties")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ThirdParty])
	if err != nil {
		return nil, dbError(err, "third parties")
	}
	out := make([]domain.ThirdParty, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainThirdParty(m)
	}
	return out, nil
}

func (s *Store) CountThirdPartyReferences(ctx context.Context, thirdPartyID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE third_party_id = $1`, thirdPartyID).Scan(&n)
	return n, dbError(err, fmt.Sprintf("third party %d references", thirdPartyID))
}

func (s *Store) DeleteThirdParty(ctx context.Context, thirdPartyID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM third_parties WHERE third_party_id = $1`, thirdPartyID)
	return expectRows(tag, err, fmt.Sprintf("third party %d", thirdPartyID))
}

func (s *Store) SaveAnalytic(ctx context.Context, analytic *domain.Analytic) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO analytics (code, title) VALUES ($1, $2) RETURNING analytic_id`,
		analytic.Code, analytic.Title,
	).Scan(&analytic.AnalyticID)
	return dbError(err, "analytic "+analytic.Code)
}

func (s *Store) FindAnalyticByID(ctx context.Context, analyticID int64) (*domain.Analytic, error) {
	what := fmt.Sprintf("analytic %d", analyticID)
	rows, err := s.db.Query(ctx, `SELECT analytic_id, code, title FROM analytics WHERE analytic_id = $1`, analyticID)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Analytic])
	if err != nil {
		return nil, dbError(err, what)
	}
	a := mapping.ToDomainAnalytic(m)
	return &a, nil
}

func (s *Store) ListAnalytics(ctx context.Context) ([]domain.Analytic, error) {
	rows, err := s.db.Query(ctx, `SELECT analytic_id, code, title FROM analytics ORDER BY code`)
	if err != nil {
		return nil, dbError(err, "analytics")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Analytic])
	if err != nil {
		return nil, dbError(err, "analytics")
	}
	out := make([]domain.Analytic, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAnalytic(m)
	}
	return out, nil
}

func (s *Store) SaveJournal(ctx context.Context, journal *domain.Journal) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO journals (code, title) VALUES ($1, $2) RETURNING journal_id`,
		journal.Code, journal.Title,
	).Scan(&journal.JournalID)
	return dbError(err, "journal "+journal.Code)
}

func (s *Store) FindJournalByID(ctx context.Context, journalID int64) (*domain.Journal, error) {
	return s.findJournal(ctx, "journal_id = $1", journalID, fmt.Sprintf("journal %d", journalID))
}

func (s *Store) FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error) {
	return s.findJournal(ctx, "code = $1", code, "journal "+code)
}

func (s *Store) findJournal(ctx context.Context, where string, arg any, what string) (*domain.Journal, error) {
	rows, err := s.db.Query(ctx, `SELECT journal_id, code, title FROM journals WHERE `+where, arg)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, dbError(err, what)
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

func (s *Store) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	rows, err := s.db.Query(ctx, `SELECT journal_id, code, title FROM journals ORDER BY code`)
	if err != nil {
		return nil, dbError(err, "journals")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, dbError(err, "journals")
	}
	out := make([]domain.Journal, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainJournal(m)
	}
	return out, nil
}

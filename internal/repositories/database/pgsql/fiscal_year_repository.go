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

const selectFiscalYearFields = `fiscal_year_id, title, start_date, end_date, opened, closed, ` + auditColumns

func (s *Store) SaveFiscalYear(ctx context.Context, year *domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(*year)
	err := s.db.QueryRow(ctx, `
		INSERT INTO fiscal_years (title, start_date, end_date, opened, closed, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING fiscal_year_id`,
		m.Title, m.StartDate, m.EndDate, m.Opened, m.Closed,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&year.FiscalYearID)
	return dbError(err, "fiscal year "+m.Title)
}

func (s *Store) UpdateFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(year)
	tag, err := s.db.Exec(ctx, `
		UPDATE fiscal_years
		SET title = $2, start_date = $3, end_date = $4, opened = $5, closed = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE fiscal_year_id = $1`,
		m.FiscalYearID, m.Title, m.StartDate, m.EndDate, m.Opened, m.Closed, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return expectRows(tag, err, fmt.Sprintf("fiscal year %d", m.FiscalYearID))
}

func (s *Store) FindFiscalYearByID(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error) {
	return s.findFiscalYear(ctx, `fiscal_year_id = $1`, fmt.Sprintf("fiscal year %d", fiscalYearID), fiscalYearID)
}

// FindFiscalYearByIDForUpdate locks the year row until the surrounding transaction ends.
func (s *Store) FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error) {
	return s.findFiscalYear(ctx, `fiscal_year_id = $1 FOR UPDATE`, fmt.Sprintf("fiscal year %d", fiscalYearID), fiscalYearID)
}

func (s *Store) FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	return s.findFiscalYear(ctx,
		`start_date <= $1 AND end_date > $1 ORDER BY start_date LIMIT 1`,
		"fiscal year containing "+date.Format(time.DateOnly),
		domain.DateOf(date),
	)
}

func (s *Store) findFiscalYear(ctx context.Context, where, what string, args ...any) (*domain.FiscalYear, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectFiscalYearFields+` FROM fiscal_years WHERE `+where, args...)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FiscalYear])
	if err != nil {
		return nil, dbError(err, what)
	}
	y := mapping.ToDomainFiscalYear(m)
	return &y, nil
}

func (s *Store) FindOverlappingFiscalYears(ctx context.Context, start, end time.Time) ([]domain.FiscalYear, error) {
	return s.listFiscalYears(ctx, ` WHERE start_date < $2 AND $1 < end_date`, domain.DateOf(start), domain.DateOf(end))
}

func (s *Store) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.listFiscalYears(ctx, "")
}

func (s *Store) listFiscalYears(ctx context.Context, where string, args ...any) ([]domain.FiscalYear, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectFiscalYearFields+` FROM fiscal_years`+where+` ORDER BY start_date`, args...)
	if err != nil {
		return nil, dbError(err, "fiscal years")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalYear])
	if err != nil {
		return nil, dbError(err, "fiscal years")
	}
	out := make([]domain.FiscalYear, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainFiscalYear(m)
	}
	return out, nil
}

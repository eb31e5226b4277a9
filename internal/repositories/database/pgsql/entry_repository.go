package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/models"
	"github.com/SscSPs/association_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const selectEntryFields = `entry_id, fiscal_year_id, journal_id, kind, entry_date, title, document_uri,
	exported, projected, number, deadline, ` + auditColumns

// SaveEntry inserts an entry and assigns its ID.
func (s *Store) SaveEntry(ctx context.Context, entry *domain.Entry) error {
	m := mapping.ToModelEntry(*entry)
	err := s.db.QueryRow(ctx, `
		INSERT INTO entries (
			fiscal_year_id, journal_id, kind, entry_date, title, document_uri,
			exported, projected, number, deadline,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING entry_id`,
		m.FiscalYearID, m.JournalID, m.Kind, m.EntryDate, m.Title, m.DocumentURI,
		m.Exported, m.Projected, m.Number, m.Deadline,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&entry.EntryID)
	return dbError(err, "entry "+m.Title)
}

func (s *Store) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	tag, err := s.db.Exec(ctx, `
		UPDATE entries
		SET fiscal_year_id = $2, journal_id = $3, kind = $4, entry_date = $5, title = $6,
		    document_uri = $7, exported = $8, projected = $9, number = $10, deadline = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE entry_id = $1`,
		m.EntryID, m.FiscalYearID, m.JournalID, m.Kind, m.EntryDate, m.Title,
		m.DocumentURI, m.Exported, m.Projected, m.Number, m.Deadline,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return expectRows(tag, err, fmt.Sprintf("entry %d", m.EntryID))
}

// DeleteEntry fails with ErrReferentialIntegrity while transactions remain.
func (s *Store) DeleteEntry(ctx context.Context, entryID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM entries WHERE entry_id = $1`, entryID)
	return expectRows(tag, err, fmt.Sprintf("entry %d", entryID))
}

func (s *Store) FindEntryByID(ctx context.Context, entryID int64) (*domain.Entry, error) {
	what := fmt.Sprintf("entry %d", entryID)
	rows, err := s.db.Query(ctx, `SELECT `+selectEntryFields+` FROM entries WHERE entry_id = $1`, entryID)
	if err != nil {
		return nil, dbError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Entry])
	if err != nil {
		return nil, dbError(err, what)
	}
	e := mapping.ToDomainEntry(m)
	return &e, nil
}

func (s *Store) FindEntriesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Entry, error) {
	if len(ids) == 0 {
		return map[int64]domain.Entry{}, nil
	}
	entries, err := s.ListEntries(ctx, portsrepo.EntryFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Entry, len(entries))
	for _, e := range entries {
		out[e.EntryID] = e
	}
	return out, nil
}

// ListEntries returns the matching entries ordered by (date, id).
func (s *Store) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.Entry, error) {
	var w whereBuilder
	if filter.FiscalYearID != nil {
		w.add("fiscal_year_id = " + w.arg(*filter.FiscalYearID))
	}
	if filter.Kind != nil {
		w.add("kind = " + w.arg(string(*filter.Kind)))
	}
	if len(filter.IDs) > 0 {
		w.add("entry_id = ANY(" + w.arg(filter.IDs) + ")")
	}
	if filter.PendingOnly {
		w.add("NOT exported")
	}
	rows, err := s.db.Query(ctx, `SELECT `+selectEntryFields+` FROM entries`+w.String()+` ORDER BY entry_date, entry_id`, w.args...)
	if err != nil {
		return nil, dbError(err, "entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Entry])
	if err != nil {
		return nil, dbError(err, "entries")
	}
	out := make([]domain.Entry, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainEntry(m)
	}
	return out, nil
}

// MarkEntriesExported returns how many entries flipped from pending to exported.
func (s *Store) MarkEntriesExported(ctx context.Context, entryIDs []int64) (int, error) {
	tag, err := s.db.Exec(ctx, `UPDATE entries SET exported = TRUE WHERE entry_id = ANY($1) AND NOT exported`, entryIDs)
	if err != nil {
		return 0, dbError(err, "entries")
	}
	return int(tag.RowsAffected()), nil
}

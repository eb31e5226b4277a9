package repositories

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// EntryFilter narrows ListEntries. Zero values do not filter.
type EntryFilter struct {
	FiscalYearID *int64
	Kind         *domain.EntryKind
	IDs          []int64
	PendingOnly  bool // not yet exported
}

// EntryReader defines read operations for entries.
type EntryReader interface {
	FindEntryByID(ctx context.Context, entryID int64) (*domain.Entry, error)

	// FindEntriesByIDs retrieves multiple entries keyed by ID.
	FindEntriesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Entry, error)

	// ListEntries returns entries ordered by (date, id).
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.Entry, error)
}

// EntryWriter defines write operations for entries.
type EntryWriter interface {
	SaveEntry(ctx context.Context, entry *domain.Entry) error
	UpdateEntry(ctx context.Context, entry domain.Entry) error

	// DeleteEntry removes the entry. Its transactions must already be gone.
	DeleteEntry(ctx context.Context, entryID int64) error

	// MarkEntriesExported flips the exported flag and returns how many rows changed.
	MarkEntriesExported(ctx context.Context, entryIDs []int64) (int, error)
}

// EntryRepositoryFacade combines the entry interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
)

func (v view) SaveFiscalYear(_ context.Context, year *domain.FiscalYear) error {
	st, unlock := v.acquire()
	defer unlock()
	year.FiscalYearID = st.next("fiscal_years")
	st.years[year.FiscalYearID] = *year
	return nil
}

func (v view) UpdateFiscalYear(_ context.Context, year domain.FiscalYear) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.years[year.FiscalYearID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("fiscal year %d", year.FiscalYearID))
	}
	st.years[year.FiscalYearID] = year
	return nil
}

func (v view) FindFiscalYearByID(_ context.Context, fiscalYearID int64) (*domain.FiscalYear, error) {
	st, unlock := v.acquire()
	defer unlock()
	y, ok := st.years[fiscalYearID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("fiscal year %d", fiscalYearID))
	}
	return &y, nil
}

func (v view) FindFiscalYearByIDForUpdate(ctx context.Context, fiscalYearID int64) (*domain.FiscalYear, error) {
	return v.FindFiscalYearByID(ctx, fiscalYearID)
}

func (v view) FindFiscalYearForDate(_ context.Context, date time.Time) (*domain.FiscalYear, error) {
	st, unlock := v.acquire()
	defer unlock()
	for _, y := range st.years {
		if y.Contains(date) {
			return &y, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("fiscal year containing %s", date.Format(time.DateOnly)))
}

func (v view) FindOverlappingFiscalYears(_ context.Context, start, end time.Time) ([]domain.FiscalYear, error) {
	st, unlock := v.acquire()
	defer unlock()
	var out []domain.FiscalYear
	for _, y := range st.years {
		if y.Overlaps(start, end) {
			out = append(out, y)
		}
	}
	sortYears(out)
	return out, nil
}

func (v view) ListFiscalYears(_ context.Context) ([]domain.FiscalYear, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make([]domain.FiscalYear, 0, len(st.years))
	for _, y := range st.years {
		out = append(out, y)
	}
	sortYears(out)
	return out, nil
}

func sortYears(years []domain.FiscalYear) {
	sort.Slice(years, func(i, j int) bool { return years[i].Start.Before(years[j].Start) })
}

func (v view) SaveEntry(_ context.Context, entry *domain.Entry) error {
	st, unlock := v.acquire()
	defer unlock()
	if err := st.checkEntryRefs(*entry); err != nil {
		return err
	}
	entry.EntryID = st.next("entries")
	st.entries[entry.EntryID] = cloneEntry(*entry)
	return nil
}

func (st *state) checkEntryRefs(entry domain.Entry) error {
	if _, ok := st.years[entry.FiscalYearID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("fiscal year %d", entry.FiscalYearID))
	}
	if _, ok := st.journals[entry.JournalID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal %d", entry.JournalID))
	}
	return nil
}

func (v view) UpdateEntry(_ context.Context, entry domain.Entry) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.entries[entry.EntryID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("entry %d", entry.EntryID))
	}
	if err := st.checkEntryRefs(entry); err != nil {
		return err
	}
	st.entries[entry.EntryID] = cloneEntry(entry)
	return nil
}

func (v view) DeleteEntry(_ context.Context, entryID int64) error {
	st, unlock := v.acquire()
	defer unlock()
	if _, ok := st.entries[entryID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("entry %d", entryID))
	}
	for _, t := range st.txns {
		if t.EntryID == entryID {
			return fmt.Errorf("%w: entry %d still has transactions", apperrors.ErrReferentialIntegrity, entryID)
		}
	}
	delete(st.entries, entryID)
	return nil
}

func (v view) FindEntryByID(_ context.Context, entryID int64) (*domain.Entry, error) {
	st, unlock := v.acquire()
	defer unlock()
	e, ok := st.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("entry %d", entryID))
	}
	e = cloneEntry(e)
	return &e, nil
}

func (v view) FindEntriesByIDs(_ context.Context, ids []int64) (map[int64]domain.Entry, error) {
	st, unlock := v.acquire()
	defer unlock()
	out := make(map[int64]domain.Entry, len(ids))
	for _, id := range ids {
		if e, ok := st.entries[id]; ok {
			out[id] = cloneEntry(e)
		}
	}
	return out, nil
}

func (v view) ListEntries(_ context.Context, filter portsrepo.EntryFilter) ([]domain.Entry, error) {
	st, unlock := v.acquire()
	defer unlock()
	var out []domain.Entry
	for _, e := range st.entries {
		if filter.FiscalYearID != nil && e.FiscalYearID != *filter.FiscalYearID {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if len(filter.IDs) > 0 && !contains(filter.IDs, e.EntryID) {
			continue
		}
		if filter.PendingOnly && e.Exported {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

func (v view) MarkEntriesExported(_ context.Context, entryIDs []int64) (int, error) {
	st, unlock := v.acquire()
	defer unlock()
	n := 0
	for _, id := range entryIDs {
		e, ok := st.entries[id]
		if !ok || e.Exported {
			continue
		}
		e.Exported = true
		st.entries[id] = e
		n++
	}
	return n, nil
}

package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// importDateLayout is the DDMMYY date of the export format.
const importDateLayout = "020106"

const importFields = 8

// ImportRow is one line of the semicolon-delimited bookkeeping format.
type ImportRow struct {
	Line           int
	JournalCode    string
	Date           time.Time
	AccountCode    string
	EntryRef       string
	ThirdPartyCode string
	Title          string
	Expense        decimal.Decimal
	Revenue        decimal.Decimal
}

// ImportedEntry holds the rows sharing one entry reference, in file order.
type ImportedEntry struct {
	Ref  string
	Rows []ImportRow
}

// ImportReport counts what an import run posted.
type ImportReport struct {
	Entries int
	Lines   int
}

// ParseImportFile reads rows in the export layout (journal; DDMMYY date; account; entry;
// third party; title; expense; revenue) and groups them by entry reference.
func ParseImportFile(r io.Reader) ([]ImportedEntry, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = importFields

	var entries []ImportedEntry
	index := make(map[string]int)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		line, _ := cr.FieldPos(0)
		row, err := parseImportRow(line, rec)
		if err != nil {
			return nil, fmt.Errorf("parsing import file: line %d: %w", line, err)
		}

		i, ok := index[row.EntryRef]
		if !ok {
			index[row.EntryRef] = len(entries)
			entries = append(entries, ImportedEntry{Ref: row.EntryRef, Rows: []ImportRow{row}})
			continue
		}
		first := entries[i].Rows[0]
		if first.JournalCode != row.JournalCode || !first.Date.Equal(row.Date) {
			return nil, fmt.Errorf("parsing import file: line %d: entry %s changes journal or date", line, row.EntryRef)
		}
		entries[i].Rows = append(entries[i].Rows, row)
	}
	return entries, nil
}

func parseImportRow(line int, rec []string) (ImportRow, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	date, err := time.Parse(importDateLayout, rec[1])
	if err != nil {
		return ImportRow{}, fmt.Errorf("invalid date %q, expected DDMMYY", rec[1])
	}
	if rec[3] == "" {
		return ImportRow{}, fmt.Errorf("missing entry reference")
	}
	expense, err := decimal.NewFromString(rec[6])
	if err != nil {
		return ImportRow{}, fmt.Errorf("invalid expense %q", rec[6])
	}
	revenue, err := decimal.NewFromString(rec[7])
	if err != nil {
		return ImportRow{}, fmt.Errorf("invalid revenue %q", rec[7])
	}
	return ImportRow{
		Line:           line,
		JournalCode:    rec[0],
		Date:           date,
		AccountCode:    rec[2],
		EntryRef:       rec[3],
		ThirdPartyCode: rec[4],
		Title:          rec[5],
		Expense:        expense,
		Revenue:        revenue,
	}, nil
}

// ImportEntries posts each imported entry as a balanced generic entry. Account and third
// party codes are all resolved before anything is posted; entries are then posted one by one.
func ImportEntries(ctx context.Context, c *services.Container, entries []ImportedEntry, fiscalYearID int64, actor string) (ImportReport, error) {
	var report ImportReport

	accounts, err := c.Chart.ListAccounts(ctx)
	if err != nil {
		return report, fmt.Errorf("listing accounts: %w", err)
	}
	accountIDs := make(map[string]int64, len(accounts))
	for _, a := range accounts {
		accountIDs[a.Code] = a.AccountID
	}
	thirdParties, err := c.Chart.ListThirdParties(ctx)
	if err != nil {
		return report, fmt.Errorf("listing third parties: %w", err)
	}
	thirdPartyIDs := make(map[string]int64, len(thirdParties))
	for _, tp := range thirdParties {
		thirdPartyIDs[tp.Code] = tp.ThirdPartyID
	}

	requests := make([]dto.PostEntryRequest, 0, len(entries))
	for _, e := range entries {
		first := e.Rows[0]
		req := dto.PostEntryRequest{
			CreateEntryRequest: dto.CreateEntryRequest{
				FiscalYearID: fiscalYearID,
				JournalCode:  first.JournalCode,
				Kind:         domain.KindGeneric,
				Date:         dto.NewDate(first.Date),
				Title:        first.Title,
			},
			Lines: make([]dto.TransactionLine, 0, len(e.Rows)),
		}
		for _, row := range e.Rows {
			accountID, ok := accountIDs[row.AccountCode]
			if !ok {
				return report, fmt.Errorf("line %d: unknown account %q", row.Line, row.AccountCode)
			}
			l := dto.TransactionLine{AccountID: accountID, Expense: row.Expense, Revenue: row.Revenue}
			if row.ThirdPartyCode != "" {
				id, ok := thirdPartyIDs[row.ThirdPartyCode]
				if !ok {
					return report, fmt.Errorf("line %d: unknown third party %q", row.Line, row.ThirdPartyCode)
				}
				l.ThirdPartyID = &id
			}
			// lines without their own title are written with the entry title
			if row.Title != first.Title {
				l.Title = row.Title
			}
			req.Lines = append(req.Lines, l)
		}
		requests = append(requests, req)
	}

	for i, req := range requests {
		if _, err := c.Posting.PostEntry(ctx, req, actor); err != nil {
			return report, fmt.Errorf("importing entry %s (line %d): %w", entries[i].Ref, entries[i].Rows[0].Line, err)
		}
		report.Entries++
		report.Lines += len(req.Lines)
	}
	return report, nil
}

func newImportCommand(app *App, actor *string) *cobra.Command {
	var yearID int64

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Post entries from a file in the bookkeeping export format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()
			entries, err := ParseImportFile(f)
			if err != nil {
				return err
			}

			return app.withContainer(cmd.Context(), func(_ *config.Config, c *services.Container) error {
				report, err := ImportEntries(cmd.Context(), c, entries, yearID, *actor)
				if err != nil {
					if report.Entries > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%d entries posted before the failure\n", report.Entries)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, %d lines\n", report.Entries, report.Lines)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&yearID, "year", 0, "fiscal year to post into (default: the year containing each date)")
	return cmd
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	Journals     []SeedItem       `yaml:"journals"`
	Accounts     []SeedItem       `yaml:"accounts"`
	Analytics    []SeedItem       `yaml:"analytics"`
	ThirdParties []SeedThirdParty `yaml:"thirdParties"`
	FiscalYears  []SeedYear       `yaml:"fiscalYears"`
}

// SeedItem is a coded reference row.
type SeedItem struct {
	Code  string `yaml:"code"`
	Title string `yaml:"title"`
}

type SeedThirdParty struct {
	Code        string `yaml:"code"`
	Title       string `yaml:"title"`
	AccountCode string `yaml:"accountCode"`
	Type        string `yaml:"type"`
	IBAN        string `yaml:"iban"`
	BIC         string `yaml:"bic"`
}

type SeedYear struct {
	Title  string `yaml:"title"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Opened bool   `yaml:"opened"`
}

// SeedReport counts what a seed run created and skipped.
type SeedReport struct {
	Created int
	Skipped int
}

// ParseSeedFile decodes a seed document, rejecting unknown keys.
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f SeedFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

func newSeedCommand(app *App, actor *string) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load journals, accounts, third parties, analytics and fiscal years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening seed file: %w", err)
			}
			defer f.Close()
			seed, err := ParseSeedFile(f)
			if err != nil {
				return err
			}

			return app.withContainer(cmd.Context(), func(_ *config.Config, c *services.Container) error {
				report, err := ApplySeed(cmd.Context(), c, seed, *actor, skipExisting)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records, skipped %d existing\n", report.Created, report.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "ignore records whose code already exists")
	return cmd
}

// ApplySeed creates the seed records in dependency order. Third parties come
// after accounts because they reference an account code.
func ApplySeed(ctx context.Context, c *services.Container, seed *SeedFile, actor string, skipExisting bool) (SeedReport, error) {
	var report SeedReport
	record := func(what string, err error) error {
		switch {
		case err == nil:
			report.Created++
			return nil
		case skipExisting && errors.Is(err, apperrors.ErrDuplicate):
			report.Skipped++
			return nil
		default:
			return fmt.Errorf("seeding %s: %w", what, err)
		}
	}

	for _, j := range seed.Journals {
		_, err := c.Chart.CreateJournal(ctx, dto.CreateJournalRequest{Code: j.Code, Title: j.Title}, actor)
		if err := record("journal "+j.Code, err); err != nil {
			return report, err
		}
	}
	for _, a := range seed.Accounts {
		_, err := c.Chart.CreateAccount(ctx, dto.CreateAccountRequest{Code: a.Code, Title: a.Title}, actor)
		if err := record("account "+a.Code, err); err != nil {
			return report, err
		}
	}
	for _, a := range seed.Analytics {
		_, err := c.Chart.CreateAnalytic(ctx, dto.CreateAnalyticRequest{Code: a.Code, Title: a.Title}, actor)
		if err := record("analytic "+a.Code, err); err != nil {
			return report, err
		}
	}
	for _, tp := range seed.ThirdParties {
		_, err := c.Chart.CreateThirdParty(ctx, dto.CreateThirdPartyRequest{
			Code:        tp.Code,
			Title:       tp.Title,
			AccountCode: tp.AccountCode,
			Type:        domain.ThirdPartyType(tp.Type),
			IBAN:        tp.IBAN,
			BIC:         tp.BIC,
		}, actor)
		if err := record("third party "+tp.Code, err); err != nil {
			return report, err
		}
	}
	existing, err := c.FiscalYear.ListFiscalYears(ctx)
	if err != nil {
		return report, fmt.Errorf("listing fiscal years: %w", err)
	}
	for _, y := range seed.FiscalYears {
		start, err := dto.ParseDate(y.Start)
		if err != nil {
			return report, fmt.Errorf("seeding fiscal year %s: %w", y.Title, err)
		}
		end, err := dto.ParseDate(y.End)
		if err != nil {
			return report, fmt.Errorf("seeding fiscal year %s: %w", y.Title, err)
		}
		// overlapping years are a validation error, so identical ones are matched here
		if skipExisting && slices.ContainsFunc(existing, func(fy domain.FiscalYear) bool {
			return fy.Start.Equal(start.Time) && fy.End.Equal(end.Time)
		}) {
			report.Skipped++
			continue
		}
		_, err = c.FiscalYear.CreateFiscalYear(ctx, dto.CreateFiscalYearRequest{
			Title: y.Title, Start: start, End: end, Opened: y.Opened,
		}, actor)
		if err := record("fiscal year "+y.Title, err); err != nil {
			return report, err
		}
	}
	return report, nil
}

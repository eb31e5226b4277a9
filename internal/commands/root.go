// Package commands implements ledgerctl, the operator CLI of the association ledger.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/platform/clock"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/platform/storage"
	"github.com/spf13/cobra"
)

// DefaultActor is recorded in the audit log for CLI changes unless --actor is given.
const DefaultActor = "ledgerctl"

// App holds what subcommands need to reach the ledger.
type App struct {
	LoadConfig func() (*config.Config, error)
	OpenStore  func(ctx context.Context, cfg *config.Config) (portsrepo.LedgerRepository, func(), error)
	Clock      clock.Clock
	Logger     *slog.Logger
}

// NewApp wires the CLI to the environment configuration and the configured storage.
func NewApp(logger *slog.Logger) *App {
	return &App{
		LoadConfig: config.LoadConfig,
		OpenStore: func(ctx context.Context, cfg *config.Config) (portsrepo.LedgerRepository, func(), error) {
			return storage.Open(ctx, cfg, storage.Options{Migrate: false}, logger)
		},
		Clock:  clock.NewReal(),
		Logger: logger,
	}
}

// withContainer loads the configuration, opens the store and runs fn against the services.
func (a *App) withContainer(ctx context.Context, fn func(cfg *config.Config, c *services.Container) error) error {
	cfg, err := a.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	repo, closeRepo, err := a.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeRepo()

	container := services.NewContainer(repo,
		services.WithClock(a.Clock),
		services.WithLedgerConfig(cfg.Ledger),
	)
	return fn(cfg, container)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(app *App) *cobra.Command {
	var actor string

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the association ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&actor, "actor", DefaultActor, "principal recorded in the audit log")

	rootCmd.AddCommand(
		newMigrateCommand(app),
		newSeedCommand(app, &actor),
		newCloseYearCommand(app, &actor),
		newExportCommand(app, &actor),
		newImportCommand(app, &actor),
		newHashKeyCommand(),
		newIssueTokenCommand(app),
	)

	return rootCmd
}

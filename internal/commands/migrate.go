package commands

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(app *App) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Applies every pending migration, or --steps of them. A negative --steps rolls back.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE=%s, got %q", config.StoragePostgres, cfg.Storage)
			}

			res, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, steps)
			if err != nil {
				return err
			}
			app.Logger.Info("Migrations finished",
				slog.Uint64("version", uint64(res.Version)),
				slog.Bool("changed", res.Changed),
				slog.Bool("dirty", res.Dirty))
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (changed: %t)\n", res.Version, res.Changed)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply; negative rolls back, 0 applies all")
	return cmd
}

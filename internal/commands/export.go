package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

func newExportCommand(app *App, actor *string) *cobra.Command {
	var (
		yearID  int64
		pending bool
		mark    bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the entries of a fiscal year in the bookkeeping export format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			return app.withContainer(cmd.Context(), func(_ *config.Config, c *services.Container) error {
				entryIDs, err := c.Export.Export(cmd.Context(), yearID, pending, out)
				if err != nil {
					return fmt.Errorf("exporting year %d: %w", yearID, err)
				}
				if !mark || len(entryIDs) == 0 {
					return nil
				}
				n, err := c.Export.MarkExported(cmd.Context(), entryIDs, *actor)
				if err != nil {
					return fmt.Errorf("marking entries exported: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "marked %d of %d entries exported\n", n, len(entryIDs))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&yearID, "year", 0, "fiscal year to export (required)")
	cmd.Flags().BoolVar(&pending, "pending", true, "only entries not exported yet")
	cmd.Flags().BoolVar(&mark, "mark", false, "flag the written entries as exported")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to a file instead of stdout")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/spf13/cobra"
)

func newCloseYearCommand(app *App, actor *string) *cobra.Command {
	var oldYearID, newYearID int64

	cmd := &cobra.Command{
		Use:   "close-year",
		Short: "Close a fiscal year and carry its balances forward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withContainer(cmd.Context(), func(_ *config.Config, c *services.Container) error {
				detail, err := c.Closing.CloseYear(cmd.Context(), oldYearID, newYearID, *actor)
				if err != nil {
					return fmt.Errorf("closing year %d: %w", oldYearID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "carry-forward entry %d: %d lines, %s debited, %s credited\n",
					detail.EntryID, len(detail.Transactions),
					accounting.FormatAmount(detail.Expense), accounting.FormatAmount(detail.Revenue))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&oldYearID, "old", 0, "fiscal year to close (required)")
	cmd.Flags().Int64Var(&newYearID, "new", 0, "fiscal year receiving the carry-forward (required)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

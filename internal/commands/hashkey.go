package commands

import (
	"fmt"
	"time"

	"github.com/SscSPs/association_ledger/internal/middleware"
	"github.com/SscSPs/association_ledger/internal/utils"
	"github.com/spf13/cobra"
)

func newHashKeyCommand() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print the EXPORT_API_KEY_HASH value for an export pipeline key",
		Args: func(cmd *cobra.Command, args []string) error {
			if generate {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if generate {
				var err error
				if key, err = utils.GenerateSecureRandomString(32); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "key: %s\n", key)
			} else {
				key = args[0]
			}
			hash, err := middleware.HashAPIKey(key)
			if err != nil {
				return fmt.Errorf("hashing key: %w", err)
			}
			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "hash: %s\n", hash)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random key and print it with its hash")
	return cmd
}

func newIssueTokenCommand(app *App) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for the API with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			token, err := utils.IssueToken(subject, cfg.JWTSecret, ttl, app.Clock.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "principal the token authenticates (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

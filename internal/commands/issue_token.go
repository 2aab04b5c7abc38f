package commands

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/spf13/cobra"
)

func newIssueTokenCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issue-token <actor>",
		Short:   "Sign an API token for an actor with JWT_SECRET",
		Example: `  ledger_engine issue-token ops-bot --ttl 24h`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = app.cfg.JWTExpiry
			}
			token, err := utils.IssueActorToken(args[0], app.cfg.JWTSecret, ttl, app.cfg.JWTIssuer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Duration("ttl", 0, "Token lifetime (default: JWT_EXPIRY_DURATION)")
	return cmd
}

package commands

import (
	"context"
	"fmt"
	"io"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/spf13/cobra"
)

func newRebuildBalancesCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild-balances",
		Short: "Recompute cached account balances from ledger rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")
			e, err := openEngine(cmd.Context(), app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer e.Close(app.logger)
			return runRebuildBalances(cmd.Context(), e.services.Ledger, actor, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("actor", "system:rebuild-balances", "Actor recorded on the updated accounts")
	return cmd
}

func runRebuildBalances(ctx context.Context, ledger portssvc.LedgerMaintenanceSvc, actor string, out io.Writer) error {
	fixed, err := ledger.RebuildBalances(ctx, actor)
	if err != nil {
		return err
	}
	if len(fixed) == 0 {
		fmt.Fprintln(out, "Nothing to rebuild, cached balances match the ledger.")
		return nil
	}
	for _, d := range fixed {
		fmt.Fprintf(out, "%s: %s -> %s\n", d.AccountCode, d.CachedBalance.String(), d.LedgerBalance.String())
	}
	fmt.Fprintf(out, "Rebuilt %d account balance(s).\n", len(fixed))
	return nil
}

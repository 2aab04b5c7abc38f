package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
)

var (
	errUnbalanced   = errors.New("trial balance does not balance")
	errBalanceDrift = errors.New("cached account balances drift from the ledger")
)

func newVerifyCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the trial balance and the cached account balances",
		Long: `Builds the trial balance as of a date and compares every account's cached
balance with the sum of its ledger rows. Exits non-zero when the books do not
balance or any cached balance has drifted.`,
		Example: `  ledger_engine verify
  ledger_engine verify --as-of 2024-12-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOfStr, _ := cmd.Flags().GetString("as-of")
			asOf := time.Now().UTC().Truncate(24 * time.Hour)
			if parsed, err := dto.ParseOptionalDate(asOfStr); err != nil {
				return err
			} else if parsed != nil {
				asOf = *parsed
			}

			e, err := openEngine(cmd.Context(), app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer e.Close(app.logger)
			return runVerify(cmd.Context(), e.services.Ledger, asOf, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("as-of", "", "Trial balance date (format: YYYY-MM-DD, default: today)")
	return cmd
}

func runVerify(ctx context.Context, ledger portssvc.LedgerSvcFacade, asOf time.Time, out io.Writer) error {
	tb, err := ledger.GetTrialBalance(ctx, asOf)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Trial balance as of %s: debit %s, credit %s, difference %s\n",
		asOf.Format(dto.DateLayout), tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2), tb.Difference.StringFixed(2))

	drifts, err := ledger.VerifyBalances(ctx)
	if err != nil {
		return err
	}
	if len(drifts) == 0 {
		fmt.Fprintln(out, "Cached balances match the ledger.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ACCOUNT\tCACHED\tLEDGER\tDIFFERENCE")
		for _, d := range drifts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.AccountCode, d.CachedBalance.String(), d.LedgerBalance.String(), d.Difference.String())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	switch {
	case !tb.IsBalanced:
		return errUnbalanced
	case len(drifts) > 0:
		return fmt.Errorf("%w: %d account(s), run rebuild-balances", errBalanceDrift, len(drifts))
	}
	return nil
}

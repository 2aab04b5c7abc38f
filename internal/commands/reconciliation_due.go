package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
)

func newReconciliationDueCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reconciliation-due",
		Short: "List bank accounts whose next reconciliation is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd.Context(), app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer e.Close(app.logger)
			return runReconciliationDue(cmd.Context(), e.services.Bank, cmd.OutOrStdout())
		},
	}
}

// dueLister is the part of the bank service the report needs.
type dueLister interface {
	ListAccountsNeedingReconciliation(ctx context.Context) ([]domain.BankAccount, error)
}

func runReconciliationDue(ctx context.Context, bank dueLister, out io.Writer) error {
	accounts, err := bank.ListAccountsNeedingReconciliation(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No bank account is due for reconciliation.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACCOUNT\tFREQUENCY\tDUE")
	for _, a := range accounts {
		due := "-"
		if a.NextReconciliationDue != nil {
			due = a.NextReconciliationDue.Format(dto.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.BankAccountID, a.DisplayName(), a.ReconciliationFrequency, due)
	}
	return tw.Flush()
}

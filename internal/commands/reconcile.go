package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/money"
	"github.com/bankledger-dev/bankledger/internal/reconcile"
	"github.com/bankledger-dev/bankledger/internal/render"
)

func newReconcileCommand(opts *globalOptions) *cobra.Command {
	var bankID int64
	var date, statement string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the ledger's end-of-day balance with a bank statement",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			b, err := a.store.Bank(ctx, bankID)
			if err != nil {
				return err
			}

			target, err := parseDate("date", date)
			if err != nil {
				return err
			}
			if target.IsZero() {
				if target, err = a.settings.Today(ctx); err != nil {
					return err
				}
			}

			var stmt decimal.NullDecimal
			if statement != "" {
				amt, err := money.ParseStrict(statement)
				if err != nil {
					return fmt.Errorf("--statement: %w", err)
				}
				stmt = decimal.NewNullDecimal(amt)
			}

			entries, err := a.store.Entries(ctx, model.EntryFilter{BankID: b.ID, To: target})
			if err != nil {
				return err
			}
			res := reconcile.Reconcile(b, entries, target, stmt)
			a.log.Debug("Reconciled", "bank_id", b.ID, "date", target, "status", res.Status())

			if asJSON {
				return writeJSON(a, res)
			}
			return a.print(render.Reconciliation(b, res, a.currency()))
		}),
	}

	cmd.Flags().Int64Var(&bankID, "bank", 0, "bank id (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&date, "date", "", "day to reconcile (YYYY-MM-DD); defaults to today or the fixed date")
	cmd.Flags().StringVar(&statement, "statement", "", "balance shown on the bank statement at the end of that day")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

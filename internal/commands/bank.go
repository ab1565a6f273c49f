package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/money"
	"github.com/bankledger-dev/bankledger/internal/render"
	"github.com/bankledger-dev/bankledger/internal/reports"
)

func newBankCommand(opts *globalOptions) *cobra.Command {
	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage bank accounts",
	}
	bankCmd.AddCommand(
		newBankListCommand(opts),
		newBankAddCommand(opts),
		newBankEditCommand(opts),
		newBankDeleteCommand(opts),
		newBankSummaryCommand(opts),
	)
	return bankCmd
}

func newBankListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List banks",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			banks, err := a.store.Banks(cmd.Context())
			if err != nil {
				return err
			}
			if len(banks) == 0 {
				fmt.Fprintln(a.out, "No banks yet. Add one with 'bankledger bank add'.")
				return nil
			}
			return a.print(render.Banks(banks, a.currency()))
		}),
	}
}

func newBankAddCommand(opts *globalOptions) *cobra.Command {
	var name, iban, opening string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			amt, err := money.ParseStrict(opening)
			if err != nil {
				return fmt.Errorf("--opening: %w", err)
			}
			b, err := a.ledger.AddBank(cmd.Context(), ledger.BankInput{Name: name, IBAN: iban, OpeningBalance: amt})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added bank %d: %s\n", b.ID, b.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "bank name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&iban, "iban", "", "IBAN")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")

	return cmd
}

func newBankEditCommand(opts *globalOptions) *cobra.Command {
	var name, iban, opening string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a bank's name, IBAN or opening balance",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := a.store.Bank(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := ledger.BankInput{Name: cur.Name, IBAN: cur.IBAN, OpeningBalance: cur.OpeningBalance}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("iban") {
				in.IBAN = iban
			}
			if flags.Changed("opening") {
				if in.OpeningBalance, err = money.ParseStrict(opening); err != nil {
					return fmt.Errorf("--opening: %w", err)
				}
			}

			b, err := a.ledger.EditBank(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated bank %d: %s\n", b.ID, b.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&iban, "iban", "", "new IBAN")
	cmd.Flags().StringVar(&opening, "opening", "", "new opening balance")

	return cmd
}

func newBankDeleteCommand(opts *globalOptions) *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bank",
		Long:  "Delete a bank. A bank that still has entries is refused unless --cascade is given, which deletes its entries too.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			owned, err := a.store.CountEntries(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.ledger.RemoveBank(cmd.Context(), id, cascade); err != nil {
				return err
			}
			if owned > 0 {
				fmt.Fprintf(a.out, "Deleted bank %d and its %d entries\n", id, owned)
				return nil
			}
			fmt.Fprintf(a.out, "Deleted bank %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "also delete the bank's entries")

	return cmd
}

func newBankSummaryCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <id>",
		Short: "Show a bank's opening balance, totals and current balance",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.store.Bank(cmd.Context(), id)
			if err != nil {
				return err
			}
			entries, err := a.store.Entries(cmd.Context(), model.EntryFilter{BankID: id})
			if err != nil {
				return err
			}

			s := reports.BankSummary(b, entries)
			if asJSON {
				return writeJSON(a, s)
			}
			return a.print(render.Summary(s, a.currency()))
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func writeJSON(a *app, v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

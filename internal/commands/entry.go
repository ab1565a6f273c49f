package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/balance"
	"github.com/bankledger-dev/bankledger/internal/export"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/money"
	"github.com/bankledger-dev/bankledger/internal/render"
)

func newEntryCommand(opts *globalOptions) *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage debit and credit entries",
	}
	entryCmd.AddCommand(
		newEntryListCommand(opts),
		newEntryAddCommand(opts),
		newEntryEditCommand(opts),
		newEntryDeleteCommand(opts),
		newEntryExportCommand(opts),
	)
	return entryCmd
}

// filterFlags are the entry query flags shared by list and export.
type filterFlags struct {
	bankID   int64
	from, to string
	typ      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.bankID, "bank", 0, "only entries of this bank")
	cmd.Flags().StringVar(&f.from, "from", "", "first date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.typ, "type", "", "debit or credit")
}

func (f *filterFlags) filter() (model.EntryFilter, error) {
	var (
		out model.EntryFilter
		err error
	)
	out.BankID = f.bankID
	if out.From, err = parseDate("from", f.from); err != nil {
		return out, err
	}
	if out.To, err = parseDate("to", f.to); err != nil {
		return out, err
	}
	if f.typ != "" {
		out.Type = model.EntryType(strings.ToLower(f.typ))
		if !out.Type.Valid() {
			return out, fmt.Errorf("--type must be debit or credit, got %q", f.typ)
		}
	}
	return out, nil
}

func newEntryListCommand(opts *globalOptions) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			entries, err := a.store.Entries(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No entries match.")
				return nil
			}

			snap := balance.Aggregate(decimal.Zero, entries)
			md := render.Entries(entries, a.currency()) +
				fmt.Sprintf("\nTotal debit: %s, total credit: %s\n",
					money.Format(snap.TotalDebit, a.currency()), money.Format(snap.TotalCredit, a.currency()))
			return a.print(md)
		}),
	}

	ff.register(cmd)

	return cmd
}

// entryFlags are the editable entry fields.
type entryFlags struct {
	bankID int64
	typ    string
	amount string
	desc   string
	date   string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.bankID, "bank", 0, "bank id")
	cmd.Flags().StringVar(&f.typ, "type", "", "debit or credit")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&f.desc, "desc", "", "description")
	cmd.Flags().StringVar(&f.date, "date", "", "date (YYYY-MM-DD); defaults to today or the fixed date")
}

// apply overlays the flags that were set onto in.
func (f *entryFlags) apply(cmd *cobra.Command, in *ledger.EntryInput) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("bank") {
		in.BankID = f.bankID
	}
	if flags.Changed("type") {
		in.Type = model.EntryType(strings.ToLower(f.typ))
	}
	if flags.Changed("amount") {
		if in.Amount, err = money.ParseStrict(f.amount); err != nil {
			return fmt.Errorf("--amount: %w", err)
		}
	}
	if flags.Changed("desc") {
		in.Description = f.desc
	}
	if flags.Changed("date") {
		if in.Date, err = parseDate("date", f.date); err != nil {
			return err
		}
	}
	return nil
}

func newEntryAddCommand(opts *globalOptions) *cobra.Command {
	var ef entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a debit or credit",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			var in ledger.EntryInput
			if err := ef.apply(cmd, &in); err != nil {
				return err
			}
			e, err := a.ledger.AddEntry(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s entry %d: %s on %s\n", e.Type, e.ID, money.Format(e.Amount, a.currency()), e.Date)
			return nil
		}),
	}

	ef.register(cmd)
	for _, f := range []string{"bank", "type", "amount", "desc"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newEntryEditCommand(opts *globalOptions) *cobra.Command {
	var ef entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := a.store.Entry(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := ledger.EntryInput{
				BankID:      cur.BankID,
				Type:        cur.Type,
				Description: cur.Description,
				Date:        cur.Date,
				Amount:      cur.Amount,
			}
			if err := ef.apply(cmd, &in); err != nil {
				return err
			}
			e, err := a.ledger.EditEntry(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated entry %d\n", e.ID)
			return nil
		}),
	}

	ef.register(cmd)

	return cmd
}

func newEntryDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.RemoveEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted entry %d\n", id)
			return nil
		}),
	}
}

func newEntryExportCommand(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	var out string
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a bank's entries to a workbook with debit and credit sheets, or to CSV",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			b, err := a.store.Bank(cmd.Context(), f.BankID)
			if err != nil {
				return err
			}
			entries, err := a.store.Entries(cmd.Context(), f)
			if err != nil {
				return err
			}

			name := export.EntriesFileName(b.Name)
			if asCSV {
				name = strings.TrimSuffix(name, filepath.Ext(name)) + ".csv"
			}
			path := outputPath(out, name)

			if asCSV {
				err = writeFile(path, func(fh *os.File) error { return export.WriteEntries(fh, entries) })
			} else {
				wb, werr := export.EntriesWorkbook(entries, a.cfg.Currency.Locale)
				if werr != nil {
					return werr
				}
				defer wb.Close()
				err = wb.SaveAs(path)
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			a.log.Info("Entries exported", "bank_id", b.ID, "count", len(entries), "path", path)
			fmt.Fprintf(a.out, "Wrote %d entries to %s\n", len(entries), path)
			return nil
		}),
	}

	ff.register(cmd)
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&out, "out", "", "output file or directory")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of xlsx")

	return cmd
}

// outputPath picks the file to write: out itself, or name inside out when
// out is an existing directory, or name in the working directory.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

func writeFile(path string, fn func(*os.File) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

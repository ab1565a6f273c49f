package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/export"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/render"
	"github.com/bankledger-dev/bankledger/internal/reports"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Fiscal-year and monthly reports",
	}
	reportCmd.AddCommand(
		newReportYearlyCommand(opts),
		newReportMonthlyCommand(opts),
		newReportYearsCommand(opts),
	)
	return reportCmd
}

// periodFlags choose a fiscal year by label or by a date inside it.
type periodFlags struct {
	label string
	date  string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.label, "fiscal-year", "", "fiscal year label, e.g. 2023/2024")
	cmd.Flags().StringVar(&p.date, "date", "", "any date inside the fiscal year; defaults to today or the fixed date")
	cmd.MarkFlagsMutuallyExclusive("fiscal-year", "date")
}

func (p *periodFlags) resolve(ctx context.Context, a *app) (calendar.FiscalRange, error) {
	if p.label != "" {
		return a.settings.FiscalYearByLabel(ctx, p.label)
	}
	ref, err := parseDate("date", p.date)
	if err != nil {
		return calendar.FiscalRange{}, err
	}
	if ref.IsZero() {
		if ref, err = a.settings.Today(ctx); err != nil {
			return calendar.FiscalRange{}, err
		}
	}
	return a.settings.FiscalRangeFor(ctx, ref)
}

func newReportYearlyCommand(opts *globalOptions) *cobra.Command {
	var period periodFlags
	var xlsx string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Per-bank totals and balances for a fiscal year",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			fiscal, err := period.resolve(ctx, a)
			if err != nil {
				return err
			}
			banks, err := a.store.Banks(ctx)
			if err != nil {
				return err
			}
			entries, err := a.store.Entries(ctx, model.EntryFilter{From: fiscal.Start, To: fiscal.End})
			if err != nil {
				return err
			}

			rep := reports.Yearly(fiscal, banks, entries)

			if xlsx != "" {
				wb, err := export.YearlyWorkbook(rep, a.cfg.Currency.Locale)
				if err != nil {
					return err
				}
				defer wb.Close()
				path := outputPath(xlsx, export.YearlyFileName(rep.Label))
				if err := wb.SaveAs(path); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				a.log.Info("Yearly report exported", "label", rep.Label, "path", path)
				fmt.Fprintf(a.out, "Wrote %s\n", path)
				return nil
			}
			if asJSON {
				return writeJSON(a, rep)
			}
			return a.print(render.Yearly(rep, a.currency()))
		}),
	}

	period.register(cmd)
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "write the report to this .xlsx file or directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newReportMonthlyCommand(opts *globalOptions) *cobra.Command {
	var period periodFlags
	var bankID int64
	var xlsx string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Month-by-month debit, credit and running balance of one bank",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			fiscal, err := period.resolve(ctx, a)
			if err != nil {
				return err
			}
			b, err := a.store.Bank(ctx, bankID)
			if err != nil {
				return err
			}
			entries, err := a.store.Entries(ctx, model.EntryFilter{BankID: b.ID, From: fiscal.Start, To: fiscal.End})
			if err != nil {
				return err
			}

			rep := reports.MonthlyComparative(b, entries, fiscal)

			if xlsx != "" {
				wb, err := export.MonthlyWorkbook(rep, a.cfg.Currency.Locale)
				if err != nil {
					return err
				}
				defer wb.Close()
				path := outputPath(xlsx, export.MonthlyFileName(b.Name, rep.Label))
				if err := wb.SaveAs(path); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				a.log.Info("Monthly report exported", "bank_id", b.ID, "label", rep.Label, "path", path)
				fmt.Fprintf(a.out, "Wrote %s\n", path)
				return nil
			}
			if asJSON {
				return writeJSON(a, rep)
			}
			return a.print(render.Monthly(rep, a.currency(), a.cfg.Currency.Locale))
		}),
	}

	period.register(cmd)
	cmd.Flags().Int64Var(&bankID, "bank", 0, "bank id (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "write the report to this .xlsx file or directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newReportYearsCommand(opts *globalOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List recent fiscal years",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			years, err := a.settings.RecentFiscalYears(cmd.Context(), count)
			if err != nil {
				return err
			}
			return a.print(render.FiscalYears(years))
		}),
	}

	cmd.Flags().IntVar(&count, "count", 5, "how many fiscal years to list")

	return cmd
}

package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/render"
	"github.com/bankledger-dev/bankledger/internal/settings"
)

func newSettingsCommand(opts *globalOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Fiscal months and the fixed working date",
	}
	settingsCmd.AddCommand(
		newSettingsShowCommand(opts),
		newSettingsFiscalCommand(opts),
		newSettingsFixedDateCommand(opts),
	)
	return settingsCmd
}

func newSettingsShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			start, end, err := a.settings.Fiscal(ctx)
			if err != nil {
				return err
			}
			fd, err := a.settings.FixedDate(ctx)
			if err != nil {
				return err
			}
			today, err := a.settings.Today(ctx)
			if err != nil {
				return err
			}
			current, err := a.settings.FiscalRangeFor(ctx, today)
			if err != nil {
				return err
			}

			fixed := "off"
			if fd.Enabled {
				fixed = fd.Date.String()
			}
			t := render.Table{Title: "Settings", Headers: []string{"Setting", "Value"}}
			t.Add("Fiscal start month", calendar.MonthName(time.Month(start), a.cfg.Currency.Locale))
			t.Add("Fiscal end month", calendar.MonthName(time.Month(end), a.cfg.Currency.Locale))
			t.Add("Fixed date", fixed)
			t.Add("Today", today.String())
			t.Add("Current fiscal year", current.Label)
			t.Add("Currency", a.currency())
			return a.print(t.Markdown())
		}),
	}
}

func newSettingsFiscalCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fiscal <start-month> <end-month>",
		Short: "Set the fiscal year's first and last month (1-12)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			start, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid start month %q", args[0])
			}
			end, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid end month %q", args[1])
			}
			if err := a.settings.SetFiscal(cmd.Context(), start, end); err != nil {
				return err
			}
			a.log.Info("Fiscal months changed", "start", start, "end", end)
			fmt.Fprintf(a.out, "Fiscal year now runs from month %d to month %d\n", start, end)
			return nil
		}),
	}
}

func newSettingsFixedDateCommand(opts *globalOptions) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "fixed-date [date]",
		Short: "Pin the working date used as today, or turn it off with --off",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			fd, err := a.settings.FixedDate(ctx)
			if err != nil {
				return err
			}

			switch {
			case off:
				if len(args) > 0 {
					return fmt.Errorf("--off takes no date")
				}
				fd.Enabled = false
			case len(args) == 1:
				d, err := calendar.Parse(args[0])
				if err != nil {
					return err
				}
				fd = settings.FixedDate{Enabled: true, Date: d}
			default:
				if fd.Enabled {
					fmt.Fprintf(a.out, "Fixed date: %s\n", fd.Date)
				} else {
					fmt.Fprintln(a.out, "Fixed date: off")
				}
				return nil
			}

			if err := a.settings.SetFixedDate(ctx, fd); err != nil {
				return err
			}
			if fd.Enabled {
				fmt.Fprintf(a.out, "Fixed date set to %s\n", fd.Date)
			} else {
				fmt.Fprintln(a.out, "Fixed date turned off")
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&off, "off", false, "use the real date again")

	return cmd
}

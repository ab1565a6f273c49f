package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/buildinfo"
	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/config"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/logging"
	"github.com/bankledger-dev/bankledger/internal/render"
	"github.com/bankledger-dev/bankledger/internal/settings"
	"github.com/bankledger-dev/bankledger/internal/store"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "bankledger",
		Short:   "Bank account ledger with fiscal-year reports and reconciliation",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.FileName, "path to bankledger.yaml")
	pf.StringVar(&opts.dbPath, "db", "", "database file (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newBankCommand(opts),
		newEntryCommand(opts),
		newReconcileCommand(opts),
		newReportCommand(opts),
		newSettingsCommand(opts),
		newBackupCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}

// app is an opened ledger and everything built on it.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *store.Store
	settings *settings.Service
	ledger   *ledger.Service
	out      io.Writer
}

// open loads the configuration and opens the ledger it points at.
func (o *globalOptions) open(cmd *cobra.Command) (*app, error) {
	cfgDir := filepath.Dir(o.configPath)
	if err := config.LoadEnvFile(filepath.Join(cfgDir, ".env")); err != nil {
		return nil, err
	}

	cfg, err := config.Load(o.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no %s found; run 'bankledger init' first or pass --config", o.configPath)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	o.override(cfg)
	cfg.Resolve(cfgDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", o.configPath, err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cmd.Context(), cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Ledger opened", "path", cfg.Database.Path)

	set := settings.NewService(st)
	return &app{
		cfg:      cfg,
		log:      logger,
		store:    st,
		settings: set,
		ledger:   ledger.NewService(st, set),
		out:      cmd.OutOrStdout(),
	}, nil
}

// override applies command-line flags on top of the file and environment.
func (o *globalOptions) override(cfg *config.Config) {
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
}

func (a *app) Close() error { return a.store.Close() }

// print writes markdown, styled when stdout is a terminal.
func (a *app) print(md string) error {
	return render.Write(a.out, md, render.IsTerminal(a.out))
}

func (a *app) currency() string { return a.cfg.Currency.Code }

// withApp opens the ledger for the duration of fn.
func withApp(opts *globalOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := opts.open(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseDate reads an optional date flag. Empty means the zero date.
func parseDate(flag, s string) (calendar.Date, error) {
	if s == "" {
		return calendar.Date{}, nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return d, nil
}

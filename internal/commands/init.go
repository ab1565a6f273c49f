package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/config"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/logging"
	"github.com/bankledger-dev/bankledger/internal/settings"
	"github.com/bankledger-dev/bankledger/internal/store"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var name string
	var currency string
	var seed bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, opts, absDir, name, currency, seed)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "EGP", "ISO 4217 currency code for display")
	cmd.Flags().BoolVar(&seed, "seed", false, "add two sample banks with July/August 2024 entries")

	return cmd
}

func runInit(cmd *cobra.Command, opts *globalOptions, dir, name, currency string, seed bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default(name)
	cfg.Currency.Code = currency
	opts.override(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	for _, d := range []string{cfg.Import.Dir, filepath.Join(cfg.Import.Dir, "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "*.db\n*.db-journal\n*.db-wal\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	resolved := *cfg
	resolved.Resolve(dir)
	st, err := store.Open(cmd.Context(), resolved.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	set := settings.NewService(st)
	if _, _, err := set.Fiscal(cmd.Context()); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	if _, err := set.FixedDate(cmd.Context()); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}

	out := cmd.OutOrStdout()
	if seed {
		banks, err := ledger.NewService(st, set).Seed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %d sample banks\n", len(banks))
	}

	fmt.Fprintf(out, "Initialized ledger %q at %s\n", name, dir)
	return nil
}

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/importer"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/money"
	"github.com/bankledger-dev/bankledger/internal/render"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statement CSV files as entries",
	}
	importCmd.AddCommand(
		newImportScanCommand(opts),
		newImportRunCommand(opts),
	)
	return importCmd
}

func newImportScanCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List CSV files waiting in the import directory",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			files, err := importer.Scan(a.cfg.Import.Dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(a.out, "No CSV files in %s\n", a.cfg.Import.Dir)
				return nil
			}

			t := render.Table{
				Title:   "Files in " + a.cfg.Import.Dir,
				Headers: []string{"File", "Size", "Modified"},
				Right:   map[int]bool{1: true},
			}
			for _, f := range files {
				t.Add(f.Name, fmt.Sprintf("%d bytes", f.Size), f.Modified.Format("2006-01-02 15:04"))
			}
			return a.print(t.Markdown())
		}),
	}
}

func newImportRunCommand(opts *globalOptions) *cobra.Command {
	var bankID int64
	var format string
	var dryRun bool

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Import one statement into a bank, skipping entries already recorded",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			parser, err := registry.Lookup(format)
			if err != nil {
				return err
			}
			b, err := a.store.Bank(ctx, bankID)
			if err != nil {
				return err
			}

			path, queued, err := locateStatement(a.cfg.Import.Dir, args[0])
			if err != nil {
				return err
			}
			fh, err := os.Open(path)
			if err != nil {
				return err
			}
			parsed, err := parser.Parse(fh, b.ID)
			fh.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			existing, err := a.store.Entries(ctx, model.EntryFilter{BankID: b.ID})
			if err != nil {
				return err
			}
			fresh, dupes := importer.Deduplicate(existing, parsed)

			log := a.log.With("bank_id", b.ID, "file", filepath.Base(path), "format", parser.Format())
			log.Debug("Statement parsed", "entries", len(parsed), "new", len(fresh), "duplicates", len(dupes))

			if dryRun {
				fmt.Fprintf(a.out, "Would import %d entries into %s (%d already recorded), net %s\n",
					len(fresh), b.Name, len(dupes), money.Format(importer.Net(fresh), a.currency()))
				if len(fresh) > 0 {
					return a.print(render.Entries(fresh, a.currency()))
				}
				return nil
			}

			created, err := a.ledger.ImportEntries(ctx, fresh)
			if err != nil {
				return err
			}
			if queued {
				archived, err := importer.Archive(a.cfg.Import.Dir, filepath.Base(path))
				if err != nil {
					return err
				}
				log.Debug("Statement archived", "path", archived)
			}

			log.Info("Statement imported", "created", len(created), "duplicates", len(dupes))
			fmt.Fprintf(a.out, "Imported %d entries into %s (%d already recorded)\n", len(created), b.Name, len(dupes))
			return nil
		}),
	}

	cmd.Flags().Int64Var(&bankID, "bank", 0, "bank to import into (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&format, "format", "chase", "statement format: "+strings.Join(registry.Formats(), ", "))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")

	return cmd
}

// locateStatement finds name as given or inside the import directory. queued
// reports whether the file came from the import directory, in which case it
// is moved to processed/ after a successful import.
func locateStatement(dir, name string) (path string, queued bool, err error) {
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		absDir, _ := filepath.Abs(dir)
		return name, filepath.Dir(abs) == absDir, nil
	}
	inDir := filepath.Join(dir, name)
	if _, err := os.Stat(inDir); err == nil {
		return inDir, true, nil
	}
	return "", false, errors.New("statement not found: " + name)
}

package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/backup"
)

func newBackupCommand(opts *globalOptions) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the whole ledger as JSON",
	}
	backupCmd.AddCommand(
		newBackupExportCommand(opts),
		newBackupImportCommand(opts),
	)
	return backupCmd
}

func newBackupExportCommand(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write banks, entries and settings to a JSON file",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			now := time.Now()
			path := outputPath(out, backup.FileName(now))

			var p backup.Payload
			err := writeFile(path, func(fh *os.File) error {
				var err error
				p, err = backup.Export(cmd.Context(), a.store, fh, now)
				return err
			})
			if err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			a.log.Info("Backup exported", "path", path, "banks", len(p.Banks), "entries", len(p.Entries))
			fmt.Fprintf(a.out, "Backed up %d banks and %d entries to %s\n", len(p.Banks), len(p.Entries), path)
			return nil
		}),
	}

	cmd.Flags().StringVar(&out, "out", "", "output file or directory")

	return cmd
}

func newBackupImportCommand(opts *globalOptions) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole ledger with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if !confirm {
				return errors.New("importing replaces every bank, entry and setting; pass --confirm to proceed")
			}

			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()

			p, err := backup.Import(cmd.Context(), a.store, fh)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			a.log.Info("Backup restored", "path", args[0], "banks", len(p.Banks), "entries", len(p.Entries))
			fmt.Fprintf(a.out, "Restored %d banks and %d entries from %s\n", len(p.Banks), len(p.Entries), args[0])
			return nil
		}),
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm replacing the current ledger")

	return cmd
}

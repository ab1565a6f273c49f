package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bankledger-dev/bankledger/internal/model"
)

// Snapshot reads the whole ledger in a single read transaction.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Banks, err = listBanks(ctx, tx); err != nil {
			return err
		}
		if snap.Entries, err = listEntries(ctx, tx, model.EntryFilter{}); err != nil {
			return err
		}
		snap.Settings, err = listSettings(ctx, tx)
		return err
	})
	return snap, err
}

// ReplaceAll discards the current ledger and loads snap in its place,
// keeping the ids it carries. On any failure nothing changes.
func (s *Store) ReplaceAll(ctx context.Context, snap Snapshot) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"entries", "banks", "settings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		// Restart id assignment so new rows continue after the restored ones.
		if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name IN ('banks', 'entries')"); err != nil {
			return fmt.Errorf("reset sequences: %w", err)
		}

		for _, b := range snap.Banks {
			created := b.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO banks (id, name, iban, opening_balance, created_at) VALUES (?, ?, ?, ?, ?)",
				nullID(b.ID), b.Name, b.IBAN, b.OpeningBalance, created.Format(time.RFC3339Nano))
			if isUniqueViolation(err) {
				return fmt.Errorf("restore bank %d %q: %w", b.ID, b.Name, ErrDuplicateName)
			}
			if err != nil {
				return fmt.Errorf("restore bank %d: %w", b.ID, err)
			}
		}
		for _, e := range snap.Entries {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO entries (id, bank_id, type, description, date, amount) VALUES (?, ?, ?, ?, ?, ?)",
				nullID(e.ID), e.BankID, string(e.Type), e.Description, e.Date, e.Amount)
			if err != nil {
				return fmt.Errorf("restore entry %d: %w", e.ID, err)
			}
		}
		for _, st := range snap.Settings {
			if _, err := tx.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?)", st.Key, string(st.Value)); err != nil {
				return fmt.Errorf("restore setting %q: %w", st.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Restore failed", "operation", "replace_all", "error", err)
		return err
	}

	s.log.InfoContext(ctx, "Ledger replaced", "operation", "replace_all",
		"banks", len(snap.Banks), "entries", len(snap.Entries), "settings", len(snap.Settings))
	return nil
}

// nullID lets SQLite assign an id when none was carried.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

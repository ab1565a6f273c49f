package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bankledger-dev/bankledger/internal/model"
)

const entryColumns = "id, bank_id, type, description, date, amount"

func scanEntry(row interface{ Scan(...any) error }) (model.Entry, error) {
	var (
		e   model.Entry
		typ string
	)
	if err := row.Scan(&e.ID, &e.BankID, &typ, &e.Description, &e.Date, &e.Amount); err != nil {
		return model.Entry{}, err
	}
	e.Type = model.EntryType(typ)
	return e, nil
}

// Entries returns the entries matching f ordered by date, then id.
func (s *Store) Entries(ctx context.Context, f model.EntryFilter) ([]model.Entry, error) {
	return listEntries(ctx, s.db, f)
}

func listEntries(ctx context.Context, q querier, f model.EntryFilter) ([]model.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.BankID != 0 {
		where = append(where, "bank_id = ?")
		args = append(args, f.BankID)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.To.String())
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}

	query := "SELECT " + entryColumns + " FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Entry returns the entry with the given id.
func (s *Store) Entry(ctx context.Context, id int64) (model.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

// CreateEntry inserts e and returns it with its assigned id. The owning
// bank must exist.
func (s *Store) CreateEntry(ctx context.Context, e model.Entry) (model.Entry, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bankExists(ctx, tx, e.BankID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO entries (bank_id, type, description, date, amount) VALUES (?, ?, ?, ?, ?)",
			e.BankID, string(e.Type), e.Description, e.Date, e.Amount)
		if err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		e.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Entry{}, err
	}

	s.log.InfoContext(ctx, "Entry created", "operation", "create", "entry_id", e.ID, "bank_id", e.BankID, "type", e.Type)
	return e, nil
}

// CreateEntries inserts a batch of entries in one transaction.
func (s *Store) CreateEntries(ctx context.Context, entries []model.Entry) ([]model.Entry, error) {
	out := make([]model.Entry, 0, len(entries))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO entries (bank_id, type, description, date, amount) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare entry insert: %w", err)
		}
		defer stmt.Close()

		checked := map[int64]bool{}
		for _, e := range entries {
			if !checked[e.BankID] {
				if err := bankExists(ctx, tx, e.BankID); err != nil {
					return err
				}
				checked[e.BankID] = true
			}
			res, err := stmt.ExecContext(ctx, e.BankID, string(e.Type), e.Description, e.Date, e.Amount)
			if err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
			if e.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Entries created", "operation", "create", "count", len(out))
	return out, nil
}

// UpdateEntry rewrites every field of e except its id.
func (s *Store) UpdateEntry(ctx context.Context, e model.Entry) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := bankExists(ctx, tx, e.BankID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE entries SET bank_id = ?, type = ?, description = ?, date = ?, amount = ? WHERE id = ?",
			e.BankID, string(e.Type), e.Description, e.Date, e.Amount, e.ID)
		if err != nil {
			return fmt.Errorf("update entry %d: %w", e.ID, err)
		}
		return requireAffected(res, "entry", e.ID)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Entry updated", "operation", "update", "entry_id", e.ID)
	return nil
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if err := requireAffected(res, "entry", id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Entry deleted", "operation", "delete", "entry_id", id)
	return nil
}

func bankExists(ctx context.Context, q querier, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM banks WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("bank %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check bank %d: %w", id, err)
	}
	return nil
}

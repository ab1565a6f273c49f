package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bankledger-dev/bankledger/internal/model"
)

const bankColumns = "id, name, iban, opening_balance, created_at"

func scanBank(row interface{ Scan(...any) error }) (model.Bank, error) {
	var (
		b       model.Bank
		created string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.IBAN, &b.OpeningBalance, &created); err != nil {
		return model.Bank{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.Bank{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	b.CreatedAt = t
	return b, nil
}

// Banks returns all banks ordered by id.
func (s *Store) Banks(ctx context.Context) ([]model.Bank, error) {
	return listBanks(ctx, s.db)
}

func listBanks(ctx context.Context, q querier) ([]model.Bank, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+bankColumns+" FROM banks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var banks []model.Bank
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		banks = append(banks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	return banks, nil
}

// Bank returns the bank with the given id.
func (s *Store) Bank(ctx context.Context, id int64) (model.Bank, error) {
	b, err := scanBank(s.db.QueryRowContext(ctx, "SELECT "+bankColumns+" FROM banks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bank{}, fmt.Errorf("bank %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Bank{}, fmt.Errorf("get bank %d: %w", id, err)
	}
	return b, nil
}

// CreateBank inserts b and returns it with its assigned id. A zero CreatedAt
// is set to now.
func (s *Store) CreateBank(ctx context.Context, b model.Bank) (model.Bank, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO banks (name, iban, opening_balance, created_at) VALUES (?, ?, ?, ?)",
		b.Name, b.IBAN, b.OpeningBalance, b.CreatedAt.Format(time.RFC3339Nano))
	if isUniqueViolation(err) {
		return model.Bank{}, fmt.Errorf("create bank %q: %w", b.Name, ErrDuplicateName)
	}
	if err != nil {
		return model.Bank{}, fmt.Errorf("create bank: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Bank{}, fmt.Errorf("create bank: %w", err)
	}
	b.ID = id

	s.log.InfoContext(ctx, "Bank created", "operation", "create", "bank_id", b.ID, "name", b.Name)
	return b, nil
}

// UpdateBank rewrites the editable fields of b. The id and creation time
// never change.
func (s *Store) UpdateBank(ctx context.Context, b model.Bank) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE banks SET name = ?, iban = ?, opening_balance = ? WHERE id = ?",
		b.Name, b.IBAN, b.OpeningBalance, b.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("update bank %d: %w", b.ID, ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("update bank %d: %w", b.ID, err)
	}
	if err := requireAffected(res, "bank", b.ID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Bank updated", "operation", "update", "bank_id", b.ID)
	return nil
}

// DeleteBank removes a bank. A bank that still has entries is refused with
// a *BankInUseError unless cascade is set, in which case its entries are
// deleted first in the same transaction.
func (s *Store) DeleteBank(ctx context.Context, id int64, cascade bool) error {
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE bank_id = ?", id).Scan(&n); err != nil {
			return fmt.Errorf("count entries for bank %d: %w", id, err)
		}
		if n > 0 {
			if !cascade {
				return &BankInUseError{BankID: id, Entries: n}
			}
			res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE bank_id = ?", id)
			if err != nil {
				return fmt.Errorf("delete entries for bank %d: %w", id, err)
			}
			removed, _ = res.RowsAffected()
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM banks WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete bank %d: %w", id, err)
		}
		return requireAffected(res, "bank", id)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Bank deleted", "operation", "delete", "bank_id", id, "entries_deleted", removed)
	return nil
}

// CountEntries returns how many entries a bank owns.
func (s *Store) CountEntries(ctx context.Context, bankID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE bank_id = ?", bankID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries for bank %d: %w", bankID, err)
	}
	return n, nil
}

func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

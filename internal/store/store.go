// Package store persists banks, entries and settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/bankledger-dev/bankledger/internal/model"
)

var (
	// ErrNotFound is returned when a bank or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBankHasEntries is returned when deleting a bank that still owns entries.
	ErrBankHasEntries = errors.New("bank has entries")
	// ErrDuplicateName is returned when a bank name is already taken.
	ErrDuplicateName = errors.New("bank name already exists")
)

// BankInUseError reports a refused bank deletion.
type BankInUseError struct {
	BankID  int64
	Entries int
}

func (e *BankInUseError) Error() string {
	return fmt.Sprintf("cannot delete bank %d: it has %d entries; delete them first or cascade", e.BankID, e.Entries)
}

func (e *BankInUseError) Unwrap() error { return ErrBankHasEntries }

// Snapshot is the full content of a ledger.
type Snapshot struct {
	Banks    []model.Bank
	Entries  []model.Entry
	Settings []model.Setting
}

// Store is a SQLite-backed ledger.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// DSN returns the connection string for the database file at path, with
// foreign keys enforced on every connection.
func DSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open opens (creating if needed) the ledger database at path and migrates it.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := DSN(path)
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, log: logger.With("component", "storage")}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

package importer

import (
	"fmt"
	"io"

	"github.com/bankledger-dev/bankledger/internal/export"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// LedgerParser reads the entries CSV written by bankledger itself, so an
// export from one ledger can be loaded into another.
type LedgerParser struct{}

// Format returns the parser name.
func (p *LedgerParser) Format() string { return "ledger" }

// Parse reads an entries CSV. Types and amounts are kept as written; ids
// are dropped and every entry is moved to bankID.
func (p *LedgerParser) Parse(r io.Reader, bankID int64) ([]model.Entry, error) {
	entries, err := export.ReadEntries(r)
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	for i := range entries {
		entries[i].ID = 0
		entries[i].BankID = bankID
	}
	return entries, nil
}

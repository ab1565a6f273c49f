// Package importer turns bank statement CSV files into ledger entries.
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// Parser reads one statement format and yields entries for a bank. Entry
// amounts are positive; the direction is carried by the entry type.
type Parser interface {
	Format() string
	Parse(r io.Reader, bankID int64) ([]model.Entry, error)
}

// Registry maps lower-cased format names to parsers.
type Registry struct {
	byName map[string]Parser
}

// NewRegistry builds a registry from parsers. Two parsers may not share a
// format name.
func NewRegistry(parsers ...Parser) (*Registry, error) {
	r := &Registry{byName: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		name := strings.ToLower(p.Format())
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("format %q registered twice", name)
		}
		r.byName[name] = p
	}
	return r, nil
}

// DefaultRegistry knows every built-in statement format.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(&ChaseParser{}, &LedgerParser{})
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds the parser for format, ignoring case.
func (r *Registry) Lookup(format string) (Parser, error) {
	if p, ok := r.byName[strings.ToLower(strings.TrimSpace(format))]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(r.Formats(), ", "))
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Statement is a CSV file waiting in the import directory.
type Statement struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

// archiveDir is the subdirectory of the import directory that holds
// statements already imported.
const archiveDir = "processed"

// Scan lists the CSV statements waiting in dir, oldest first. A missing
// directory holds no statements.
func Scan(dir string) ([]Statement, error) {
	dirents, err := fs.ReadDir(os.DirFS(dir), ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var out []Statement
	for _, d := range dirents {
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", d.Name(), err)
		}
		out = append(out, Statement{
			Name:     d.Name(),
			Path:     filepath.Join(dir, d.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	slices.SortStableFunc(out, func(a, b Statement) int {
		return a.Modified.Compare(b.Modified)
	})
	return out, nil
}

// Archive moves dir/name into dir/processed and returns its new path. When
// the archive already holds a file of that name a numeric suffix is added,
// so re-importing a statement never overwrites an earlier copy.
func Archive(dir, name string) (string, error) {
	dst := filepath.Join(dir, archiveDir)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	target := filepath.Join(dst, name)
	for n := 1; ; n++ {
		if _, err := os.Lstat(target); errors.Is(err, fs.ErrNotExist) {
			break
		}
		target = filepath.Join(dst, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}

	if err := os.Rename(filepath.Join(dir, name), target); err != nil {
		return "", fmt.Errorf("archiving %s: %w", name, err)
	}
	return target, nil
}

// signedEntry builds an entry from a statement amount where money out is
// negative. ok is false for zero amounts, which carry no movement.
func signedEntry(bankID int64, date calendar.Date, desc string, amount decimal.Decimal) (e model.Entry, ok bool) {
	if amount.IsZero() {
		return model.Entry{}, false
	}
	typ := model.EntryDebit
	if amount.IsNegative() {
		typ = model.EntryCredit
	}
	return model.Entry{
		BankID:      bankID,
		Type:        typ,
		Description: desc,
		Date:        date,
		Amount:      amount.Abs(),
	}, true
}

type entryKey struct {
	date   string
	typ    model.EntryType
	amount string
	desc   string
}

func keyOf(e model.Entry) entryKey {
	return entryKey{
		date:   e.Date.String(),
		typ:    e.Type,
		amount: e.Amount.Round(2).StringFixed(2),
		desc:   strings.ToLower(strings.TrimSpace(e.Description)),
	}
}

// Deduplicate splits candidates into those not yet present in existing and
// those that are. Entries match on date, type, amount and description.
// Each existing entry absorbs at most one candidate, so two identical rows
// on one statement are both kept when the ledger holds neither.
func Deduplicate(existing, candidates []model.Entry) (fresh, dupes []model.Entry) {
	seen := make(map[entryKey]int, len(existing))
	for _, e := range existing {
		seen[keyOf(e)]++
	}
	for _, c := range candidates {
		k := keyOf(c)
		if seen[k] > 0 {
			seen[k]--
			dupes = append(dupes, c)
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, dupes
}

// Net sums entries as balance deltas.
func Net(entries []model.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}

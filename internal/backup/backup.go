// Package backup writes and restores whole-ledger JSON backups.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/store"
)

// Version is written into every exported backup.
const Version = 1

// ErrMalformed is returned for backups that cannot be applied.
var ErrMalformed = errors.New("malformed backup")

// Payload is the backup document.
type Payload struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Banks      []model.Bank    `json:"banks"`
	Entries    []model.Entry   `json:"entries"`
	Settings   []model.Setting `json:"settings"`
}

// Snapshot converts the payload to a store snapshot.
func (p Payload) Snapshot() store.Snapshot {
	return store.Snapshot{Banks: p.Banks, Entries: p.Entries, Settings: p.Settings}
}

// Source provides the ledger to export.
type Source interface {
	Snapshot(ctx context.Context) (store.Snapshot, error)
}

// Target receives an imported ledger. ReplaceAll must be all-or-nothing.
type Target interface {
	ReplaceAll(ctx context.Context, snap store.Snapshot) error
}

// FileName returns the conventional backup file name for now.
func FileName(now time.Time) string {
	return fmt.Sprintf("bank-ledger-backup-%s.json", now.Format("2006-01-02"))
}

// Export writes the whole ledger from src to w as indented JSON.
func Export(ctx context.Context, src Source, w io.Writer, now time.Time) (Payload, error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("reading ledger: %w", err)
	}

	p := Payload{
		Version:    Version,
		ExportedAt: now.UTC(),
		Banks:      nonNil(snap.Banks),
		Entries:    nonNil(snap.Entries),
		Settings:   nonNil(snap.Settings),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return Payload{}, fmt.Errorf("writing backup: %w", err)
	}
	return p, nil
}

// Decode reads and checks a backup. Both the flat layout and the older
// layout that nests the collections under "data" are accepted. Every
// collection must be present as an array, every bank must be named, and
// every entry must reference a bank in the same backup with a positive
// amount and a description.
func Decode(r io.Reader) (Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("reading backup: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, flat := doc["banks"]; !flat {
		if nested, ok := doc["data"]; ok {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(nested, &inner); err != nil {
				return Payload{}, fmt.Errorf("%w: data: %v", ErrMalformed, err)
			}
			for k, v := range inner {
				doc[k] = v
			}
		}
	}

	var p Payload
	if err := decodeOptional(doc, "version", &p.Version); err != nil {
		return Payload{}, err
	}
	if err := decodeOptional(doc, "exportedAt", &p.ExportedAt); err != nil {
		return Payload{}, err
	}
	if err := decodeArray(doc, "banks", &p.Banks); err != nil {
		return Payload{}, err
	}
	if err := decodeArray(doc, "entries", &p.Entries); err != nil {
		return Payload{}, err
	}
	if err := decodeArray(doc, "settings", &p.Settings); err != nil {
		return Payload{}, err
	}
	if err := checkConsistency(p); err != nil {
		return Payload{}, err
	}
	for i := range p.Settings {
		if len(p.Settings[i].Value) == 0 {
			p.Settings[i].Value = json.RawMessage("null")
		}
	}
	return p, nil
}

// Import decodes a backup from r and replaces the ledger in dst with it.
// Nothing is changed when the backup is malformed.
func Import(ctx context.Context, dst Target, r io.Reader) (Payload, error) {
	p, err := Decode(r)
	if err != nil {
		return Payload{}, err
	}
	if err := dst.ReplaceAll(ctx, p.Snapshot()); err != nil {
		return Payload{}, fmt.Errorf("applying backup: %w", err)
	}
	return p, nil
}

// decodeOptional decodes key into dst when it is present and not null.
func decodeOptional(doc map[string]json.RawMessage, key string, dst any) error {
	v, ok := doc[key]
	if !ok || string(bytes.TrimSpace(v)) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

func decodeArray[T any](doc map[string]json.RawMessage, key string, dst *[]T) error {
	v, ok := doc[key]
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrMalformed, key)
	}
	if t := bytes.TrimSpace(v); len(t) == 0 || t[0] != '[' {
		return fmt.Errorf("%w: %q is not an array", ErrMalformed, key)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

func checkConsistency(p Payload) error {
	banks := make(map[int64]bool, len(p.Banks))
	for _, b := range p.Banks {
		if b.ID == 0 {
			return fmt.Errorf("%w: bank %q has no id", ErrMalformed, b.Name)
		}
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("%w: bank %d has no name", ErrMalformed, b.ID)
		}
		banks[b.ID] = true
	}
	for _, e := range p.Entries {
		if !banks[e.BankID] {
			return fmt.Errorf("%w: entry %d references unknown bank %d", ErrMalformed, e.ID, e.BankID)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("%w: entry %d has type %q", ErrMalformed, e.ID, e.Type)
		}
		if e.Date.IsZero() {
			return fmt.Errorf("%w: entry %d has no date", ErrMalformed, e.ID)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: entry %d has amount %s; amounts must be positive", ErrMalformed, e.ID, e.Amount)
		}
		if strings.TrimSpace(e.Description) == "" {
			return fmt.Errorf("%w: entry %d has no description", ErrMalformed, e.ID)
		}
	}
	for _, s := range p.Settings {
		if s.Key == "" {
			return fmt.Errorf("%w: setting without key", ErrMalformed)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Package settings gives typed access to the ledger's persisted settings.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bankledger-dev/bankledger/internal/calendar"
)

// Setting keys.
const (
	KeyFiscalStart = "fiscalStartMonth"
	KeyFiscalEnd   = "fiscalEndMonth"
	KeyFixedDate   = "fixedDate"
)

// Store is the persistence the service needs.
type Store interface {
	Setting(ctx context.Context, key string) (json.RawMessage, bool, error)
	SetSetting(ctx context.Context, key string, value json.RawMessage) error
}

// FixedDate pins "today" to a chosen date when Enabled.
type FixedDate struct {
	Enabled bool          `json:"enabled"`
	Date    calendar.Date `json:"date"`
}

// Service reads and writes settings. Missing keys are seeded with their
// defaults on first read.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the wall clock used by Today.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fiscal returns the configured fiscal start and end months.
func (s *Service) Fiscal(ctx context.Context) (start, end int, err error) {
	if err := s.load(ctx, KeyFiscalStart, calendar.DefaultFiscalStart, &start); err != nil {
		return 0, 0, err
	}
	if err := s.load(ctx, KeyFiscalEnd, calendar.DefaultFiscalEnd, &end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// SetFiscal stores new fiscal months. Both must be in 1..12; the pair is
// not otherwise checked.
func (s *Service) SetFiscal(ctx context.Context, start, end int) error {
	if start < 1 || start > 12 {
		return fmt.Errorf("fiscal start month %d: must be between 1 and 12", start)
	}
	if end < 1 || end > 12 {
		return fmt.Errorf("fiscal end month %d: must be between 1 and 12", end)
	}
	if err := s.save(ctx, KeyFiscalStart, start); err != nil {
		return err
	}
	return s.save(ctx, KeyFiscalEnd, end)
}

// FiscalRangeFor returns the fiscal year containing ref under the stored
// fiscal months.
func (s *Service) FiscalRangeFor(ctx context.Context, ref calendar.Date) (calendar.FiscalRange, error) {
	start, end, err := s.Fiscal(ctx)
	if err != nil {
		return calendar.FiscalRange{}, err
	}
	return calendar.FiscalRangeFor(ref, start, end), nil
}

// FiscalYearByLabel returns the fiscal year whose label is label. Labels
// may use '-' in place of '/', as in export file names.
func (s *Service) FiscalYearByLabel(ctx context.Context, label string) (calendar.FiscalRange, error) {
	start, end, err := s.Fiscal(ctx)
	if err != nil {
		return calendar.FiscalRange{}, err
	}

	norm := strings.ReplaceAll(strings.TrimSpace(label), "-", "/")
	first, _, _ := strings.Cut(norm, "/")
	year, err := strconv.Atoi(first)
	if err != nil {
		return calendar.FiscalRange{}, fmt.Errorf("fiscal year %q: want a label like 2023/2024", label)
	}

	fr := calendar.FiscalRangeFor(calendar.NewDate(year, time.Month(start), 1), start, end)
	if fr.Label != norm {
		return calendar.FiscalRange{}, fmt.Errorf("fiscal year %q does not match the configured months; did you mean %s?", label, fr.Label)
	}
	return fr, nil
}

// RecentFiscalYears lists the n most recent fiscal years relative to Today.
func (s *Service) RecentFiscalYears(ctx context.Context, n int) ([]calendar.FiscalRange, error) {
	start, end, err := s.Fiscal(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.RecentFiscalYears(today, n, start, end), nil
}

// FixedDate returns the fixed-date setting.
func (s *Service) FixedDate(ctx context.Context) (FixedDate, error) {
	var fd FixedDate
	if err := s.load(ctx, KeyFixedDate, FixedDate{}, &fd); err != nil {
		return FixedDate{}, err
	}
	return fd, nil
}

// SetFixedDate stores the fixed-date setting. Enabling requires a date.
func (s *Service) SetFixedDate(ctx context.Context, fd FixedDate) error {
	if fd.Enabled && fd.Date.IsZero() {
		return fmt.Errorf("fixed date: a date is required when enabled")
	}
	return s.save(ctx, KeyFixedDate, fd)
}

// Today returns the fixed date when enabled, otherwise the clock's date.
func (s *Service) Today(ctx context.Context) (calendar.Date, error) {
	fd, err := s.FixedDate(ctx)
	if err != nil {
		return calendar.Date{}, err
	}
	if fd.Enabled && !fd.Date.IsZero() {
		return fd.Date, nil
	}
	return calendar.FromTime(s.now()), nil
}

// load decodes key into dst, storing def first if the key is missing.
func (s *Service) load(ctx context.Context, key string, def, dst any) error {
	raw, ok, err := s.store.Setting(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.save(ctx, key, def); err != nil {
			return err
		}
		raw, err = json.Marshal(def)
		if err != nil {
			return fmt.Errorf("encoding default %s: %w", key, err)
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding setting %s: %w", key, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding setting %s: %w", key, err)
	}
	return s.store.SetSetting(ctx, key, raw)
}

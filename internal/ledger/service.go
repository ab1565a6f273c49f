// Package ledger validates and applies changes to banks and entries.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/store"
)

// Store is the persistence the service needs.
type Store interface {
	Bank(ctx context.Context, id int64) (model.Bank, error)
	CreateBank(ctx context.Context, b model.Bank) (model.Bank, error)
	UpdateBank(ctx context.Context, b model.Bank) error
	DeleteBank(ctx context.Context, id int64, cascade bool) error
	Entry(ctx context.Context, id int64) (model.Entry, error)
	CreateEntry(ctx context.Context, e model.Entry) (model.Entry, error)
	CreateEntries(ctx context.Context, entries []model.Entry) ([]model.Entry, error)
	UpdateEntry(ctx context.Context, e model.Entry) error
	DeleteEntry(ctx context.Context, id int64) error
}

// Clock supplies the default date for new entries.
type Clock interface {
	Today(ctx context.Context) (calendar.Date, error)
}

// Service provides validated bank and entry mutations.
type Service struct {
	store Store
	clock Clock
}

// NewService creates a ledger Service.
func NewService(store Store, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

// BankInput holds the user-editable fields of a bank.
type BankInput struct {
	Name           string          `json:"name" validate:"required,notblank,max=100"`
	IBAN           string          `json:"iban" validate:"max=34"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// EntryInput holds the user-editable fields of an entry. A zero Date is
// replaced by the clock's today.
type EntryInput struct {
	BankID      int64           `json:"bankId" validate:"required,gt=0"`
	Type        model.EntryType `json:"type" validate:"required,oneof=debit credit"`
	Description string          `json:"description" validate:"required,notblank"`
	Date        calendar.Date   `json:"date" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
}

// AddBank validates in and creates a bank.
func (s *Service) AddBank(ctx context.Context, in BankInput) (model.Bank, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.IBAN = strings.TrimSpace(in.IBAN)
	if err := check(in, map[string]decimal.Decimal{"openingBalance": in.OpeningBalance}); err != nil {
		return model.Bank{}, err
	}

	b, err := s.store.CreateBank(ctx, model.Bank{
		Name:           in.Name,
		IBAN:           in.IBAN,
		OpeningBalance: in.OpeningBalance,
	})
	if errors.Is(err, store.ErrDuplicateName) {
		return model.Bank{}, duplicateName(in.Name)
	}
	return b, err
}

// EditBank replaces the editable fields of bank id with in.
func (s *Service) EditBank(ctx context.Context, id int64, in BankInput) (model.Bank, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.IBAN = strings.TrimSpace(in.IBAN)
	if err := check(in, map[string]decimal.Decimal{"openingBalance": in.OpeningBalance}); err != nil {
		return model.Bank{}, err
	}

	b, err := s.store.Bank(ctx, id)
	if err != nil {
		return model.Bank{}, err
	}
	b.Name = in.Name
	b.IBAN = in.IBAN
	b.OpeningBalance = in.OpeningBalance

	err = s.store.UpdateBank(ctx, b)
	if errors.Is(err, store.ErrDuplicateName) {
		return model.Bank{}, duplicateName(in.Name)
	}
	if err != nil {
		return model.Bank{}, err
	}
	return b, nil
}

// RemoveBank deletes bank id. Without cascade, a bank that still has
// entries is refused with a *store.BankInUseError.
func (s *Service) RemoveBank(ctx context.Context, id int64, cascade bool) error {
	return s.store.DeleteBank(ctx, id, cascade)
}

// AddEntry validates in and records a new entry.
func (s *Service) AddEntry(ctx context.Context, in EntryInput) (model.Entry, error) {
	in, err := s.prepareEntry(ctx, in)
	if err != nil {
		return model.Entry{}, err
	}
	return s.store.CreateEntry(ctx, model.Entry{
		BankID:      in.BankID,
		Type:        in.Type,
		Description: in.Description,
		Date:        in.Date,
		Amount:      in.Amount,
	})
}

// EditEntry replaces every editable field of entry id with in.
func (s *Service) EditEntry(ctx context.Context, id int64, in EntryInput) (model.Entry, error) {
	in, err := s.prepareEntry(ctx, in)
	if err != nil {
		return model.Entry{}, err
	}
	if _, err := s.store.Entry(ctx, id); err != nil {
		return model.Entry{}, err
	}

	e := model.Entry{
		ID:          id,
		BankID:      in.BankID,
		Type:        in.Type,
		Description: in.Description,
		Date:        in.Date,
		Amount:      in.Amount,
	}
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// ImportEntries validates every entry and then records them all in one
// batch. Nothing is written if any entry is rejected; the error names the
// offending row (1-based).
func (s *Service) ImportEntries(ctx context.Context, entries []model.Entry) ([]model.Entry, error) {
	for i, e := range entries {
		in, err := s.prepareEntry(ctx, EntryInput{
			BankID:      e.BankID,
			Type:        e.Type,
			Description: e.Description,
			Date:        e.Date,
			Amount:      e.Amount,
		})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries[i].Description = in.Description
		entries[i].Date = in.Date
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return s.store.CreateEntries(ctx, entries)
}

// RemoveEntry deletes entry id.
func (s *Service) RemoveEntry(ctx context.Context, id int64) error {
	return s.store.DeleteEntry(ctx, id)
}

func (s *Service) prepareEntry(ctx context.Context, in EntryInput) (EntryInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Date.IsZero() && s.clock != nil {
		today, err := s.clock.Today(ctx)
		if err != nil {
			return in, fmt.Errorf("resolving entry date: %w", err)
		}
		in.Date = today
	}
	if err := check(in, map[string]decimal.Decimal{"amount": in.Amount}); err != nil {
		return in, err
	}

	if _, err := s.store.Bank(ctx, in.BankID); errors.Is(err, store.ErrNotFound) {
		return in, ValidationErrors{{Field: "bankId", Message: fmt.Sprintf("bank %d does not exist", in.BankID)}}
	} else if err != nil {
		return in, err
	}
	return in, nil
}

func duplicateName(name string) error {
	return ValidationErrors{{Field: "name", Message: fmt.Sprintf("a bank named %q already exists", name)}}
}

package model

import (
	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
)

// EntryType is the direction of an entry.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryDebit || t == EntryCredit
}

// Entry is a dated debit or credit against one bank.
// Amount is always positive; Type carries the sign.
type Entry struct {
	ID          int64           `json:"id"`
	BankID      int64           `json:"bankId"`
	Type        EntryType       `json:"type"`
	Description string          `json:"description"`
	Date        calendar.Date   `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// Signed returns the amount as a balance delta: positive for debits,
// negative for credits.
func (e Entry) Signed() decimal.Decimal {
	if e.Type == EntryDebit {
		return e.Amount
	}
	return e.Amount.Neg()
}

// EntryFilter selects entries. Zero fields are unconstrained; From and To
// are inclusive.
type EntryFilter struct {
	BankID int64
	From   calendar.Date
	To     calendar.Date
	Type   EntryType
}

// Match reports whether e satisfies the filter.
func (f EntryFilter) Match(e Entry) bool {
	if f.BankID != 0 && e.BankID != f.BankID {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}

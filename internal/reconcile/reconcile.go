// Package reconcile compares the ledger's end-of-day balance with a bank
// statement figure.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/balance"
	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// Tolerance absorbs sub-cent drift between the statement and the ledger.
var Tolerance = decimal.New(1, -2)

// Status values reported by Result.Status.
const (
	StatusMatched   = "matched"
	StatusMismatch  = "mismatch"
	StatusUnchecked = "unchecked"
)

// Result is the outcome of reconciling one bank on one day.
type Result struct {
	BankID        int64               `json:"bankId"`
	Date          calendar.Date       `json:"date"`
	OpeningForDay decimal.Decimal     `json:"openingForDay"`
	NetForDay     decimal.Decimal     `json:"netForDay"`
	SystemBalance decimal.Decimal     `json:"systemBalance"`
	Statement     decimal.NullDecimal `json:"statement"`
	// Difference is statement minus system balance; invalid when no
	// statement was supplied.
	Difference decimal.NullDecimal `json:"difference"`
	// Matched is meaningful only when Difference is valid.
	Matched bool `json:"matched"`
}

// Status summarizes the result.
func (r Result) Status() string {
	switch {
	case !r.Difference.Valid:
		return StatusUnchecked
	case r.Matched:
		return StatusMatched
	default:
		return StatusMismatch
	}
}

// Reconcile computes bank's expected balance at the end of target and, when
// a statement balance is given, the difference from it. Entries belonging to
// other banks are ignored.
func Reconcile(bank model.Bank, entries []model.Entry, target calendar.Date, statement decimal.NullDecimal) Result {
	var prior, sameDay []model.Entry
	for _, e := range entries {
		if e.BankID != bank.ID {
			continue
		}
		switch {
		case e.Date.Before(target):
			prior = append(prior, e)
		case e.Date == target:
			sameDay = append(sameDay, e)
		}
	}

	opening := balance.Aggregate(bank.OpeningBalance, prior).Balance
	net := balance.Aggregate(decimal.Zero, sameDay).Balance

	res := Result{
		BankID:        bank.ID,
		Date:          target,
		OpeningForDay: opening,
		NetForDay:     net,
		SystemBalance: opening.Add(net),
		Statement:     statement,
	}
	if statement.Valid {
		diff := statement.Decimal.Sub(res.SystemBalance)
		res.Difference = decimal.NewNullDecimal(diff)
		res.Matched = diff.Abs().LessThan(Tolerance)
	}
	return res
}

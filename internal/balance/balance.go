// Package balance derives balances from an opening figure and a set of
// entries. Results depend only on the inputs, never on entry order.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// Snapshot is the aggregate of a set of entries.
type Snapshot struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Aggregate sums debits and credits. Balance is opening + debit - credit.
// Entries are assumed to be validated already.
func Aggregate(opening decimal.Decimal, entries []model.Entry) Snapshot {
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case model.EntryDebit:
			debit = debit.Add(e.Amount)
		case model.EntryCredit:
			credit = credit.Add(e.Amount)
		}
	}
	return Snapshot{
		TotalDebit:  debit,
		TotalCredit: credit,
		Balance:     opening.Add(debit).Sub(credit),
	}
}

// MonthBucket is one month of a bucketed aggregation. Balance is the running
// balance at the end of the month.
type MonthBucket struct {
	Month   calendar.YearMonth `json:"month"`
	Debit   decimal.Decimal    `json:"debit"`
	Credit  decimal.Decimal    `json:"credit"`
	Balance decimal.Decimal    `json:"balance"`
}

// ByMonth partitions entries into the given months and chains a running
// balance through them in the order given, starting from opening. Entries
// dated outside every listed month are ignored.
func ByMonth(opening decimal.Decimal, months []calendar.YearMonth, entries []model.Entry) []MonthBucket {
	byMonth := make(map[calendar.YearMonth][]model.Entry, len(months))
	for _, e := range entries {
		ym := calendar.Of(e.Date)
		byMonth[ym] = append(byMonth[ym], e)
	}

	buckets := make([]MonthBucket, len(months))
	running := opening
	for i, ym := range months {
		snap := Aggregate(decimal.Zero, byMonth[ym])
		running = running.Add(snap.Balance)
		buckets[i] = MonthBucket{
			Month:   ym,
			Debit:   snap.TotalDebit,
			Credit:  snap.TotalCredit,
			Balance: running,
		}
	}
	return buckets
}

// Filter returns the entries matching f.
func Filter(entries []model.Entry, f model.EntryFilter) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

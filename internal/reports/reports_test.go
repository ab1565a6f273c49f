package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(bankID int64, typ model.EntryType, date, amount string) model.Entry {
	return model.Entry{BankID: bankID, Type: typ, Description: "x", Date: calendar.MustParse(date), Amount: dec(amount)}
}

// Sample ledger: two banks, July/August 2024.
func sample() ([]model.Bank, []model.Entry) {
	banks := []model.Bank{
		{ID: 1, Name: "National Bank", OpeningBalance: dec("10000")},
		{ID: 2, Name: "Banque Misr", OpeningBalance: dec("5000")},
		{ID: 3, Name: "Idle Bank", OpeningBalance: dec("0")},
	}
	entries := []model.Entry{
		entry(1, model.EntryDebit, "2024-07-25", "7500"),
		entry(1, model.EntryCredit, "2024-07-26", "2500"),
		entry(1, model.EntryCredit, "2024-07-28", "450"),
		entry(1, model.EntryDebit, "2024-08-05", "3000"),
		entry(1, model.EntryCredit, "2024-08-10", "4000"),
		entry(2, model.EntryDebit, "2024-07-20", "2000"),
		entry(2, model.EntryCredit, "2024-07-22", "350"),
		entry(2, model.EntryCredit, "2024-08-15", "1200"),
	}
	return banks, entries
}

func TestYearly(t *testing.T) {
	banks, entries := sample()
	fy := calendar.DefaultFiscalRangeFor(calendar.NewDate(2024, 9, 1))
	rep := Yearly(fy, banks, entries)

	assert.Equal(t, "2024/2025", rep.Label)
	require.Len(t, rep.PerBank, 3)

	nb := rep.PerBank[0]
	assert.Equal(t, int64(1), nb.BankID)
	assert.Equal(t, "National Bank", nb.BankName)
	assert.Equal(t, "10500", nb.TotalDebit.String())
	assert.Equal(t, "6950", nb.TotalCredit.String())
	assert.Equal(t, "13550", nb.FinalBalance.String())
	assert.Equal(t, 5, nb.EntryCount)

	bm := rep.PerBank[1]
	assert.Equal(t, "5450", bm.FinalBalance.String())
	assert.Equal(t, 3, bm.EntryCount)

	idle := rep.PerBank[2]
	assert.True(t, idle.FinalBalance.IsZero())
	assert.Equal(t, 0, idle.EntryCount)

	gt := rep.GrandTotals
	assert.Equal(t, "15000", gt.OpeningBalance.String())
	assert.Equal(t, "12500", gt.TotalDebit.String())
	assert.Equal(t, "8500", gt.TotalCredit.String())
	assert.Equal(t, "19000", gt.FinalBalance.String())
	assert.True(t, gt.FinalBalance.Equal(gt.OpeningBalance.Add(gt.TotalDebit).Sub(gt.TotalCredit)))
}

func TestYearly_IgnoresEntriesOutsideFiscalYear(t *testing.T) {
	banks, entries := sample()
	entries = append(entries, entry(1, model.EntryDebit, "2024-06-30", "1000000"))
	fy := calendar.DefaultFiscalRangeFor(calendar.NewDate(2024, 9, 1))
	rep := Yearly(fy, banks, entries)
	assert.Equal(t, "13550", rep.PerBank[0].FinalBalance.String())
}

func TestYearly_NoBanks(t *testing.T) {
	rep := Yearly(calendar.DefaultFiscalRangeFor(calendar.NewDate(2024, 9, 1)), nil, nil)
	assert.Empty(t, rep.PerBank)
	assert.True(t, rep.GrandTotals.FinalBalance.IsZero())
}

func TestMonthlyComparative(t *testing.T) {
	bank := model.Bank{ID: 7, Name: "Test", OpeningBalance: dec("1000")}
	entries := []model.Entry{
		entry(7, model.EntryDebit, "2024-07-03", "1500"),
		entry(7, model.EntryCredit, "2024-07-04", "500"),
		entry(7, model.EntryDebit, "2024-08-30", "2200"),
		entry(8, model.EntryDebit, "2024-08-30", "99999"),
	}
	fy := calendar.DefaultFiscalRangeFor(calendar.NewDate(2024, 7, 1))
	rep := MonthlyComparative(bank, entries, fy)

	require.Len(t, rep.PerMonth, 12)
	assert.Equal(t, calendar.YearMonth{Year: 2024, Month: time.July}, rep.PerMonth[0].Month)
	assert.Equal(t, calendar.YearMonth{Year: 2025, Month: time.June}, rep.PerMonth[11].Month)
	assert.Equal(t, "2000", rep.PerMonth[0].Balance.String())
	assert.Equal(t, "4200", rep.PerMonth[1].Balance.String())
	assert.Equal(t, "4200", rep.PerMonth[11].Balance.String())

	assert.Equal(t, "3700", rep.Totals.Debit.String())
	assert.Equal(t, "500", rep.Totals.Credit.String())
	assert.Equal(t, "4200", rep.Totals.FinalBalance.String())
	assert.True(t, rep.Totals.FinalBalance.Equal(bank.OpeningBalance.Add(rep.Totals.Debit).Sub(rep.Totals.Credit)))
}

func TestMonthlyComparative_AlternateFiscalYear(t *testing.T) {
	bank := model.Bank{ID: 1, OpeningBalance: dec("0")}
	entries := []model.Entry{
		entry(1, model.EntryDebit, "2024-04-01", "10"),
		entry(1, model.EntryDebit, "2025-03-31", "5"),
	}
	fy := calendar.FiscalRangeFor(calendar.NewDate(2024, 5, 1), 4, 3)
	rep := MonthlyComparative(bank, entries, fy)
	assert.Equal(t, time.April, rep.PerMonth[0].Month.Month)
	assert.Equal(t, "10", rep.PerMonth[0].Balance.String())
	assert.Equal(t, "15", rep.Totals.FinalBalance.String())
}

func TestBankSummary(t *testing.T) {
	banks, entries := sample()
	s := BankSummary(banks[1], entries)
	assert.Equal(t, "5000", s.OpeningBalance.String())
	assert.Equal(t, "2000", s.TotalDebit.String())
	assert.Equal(t, "1550", s.TotalCredit.String())
	assert.Equal(t, "5450", s.CurrentBalance.String())
	assert.Equal(t, 3, s.EntryCount)
}

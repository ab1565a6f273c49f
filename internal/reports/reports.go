// Package reports shapes balances into per-bank and per-month report data.
package reports

import (
	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/balance"
	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// BankRow is one bank's line in the yearly report.
type BankRow struct {
	BankID         int64           `json:"bankId"`
	BankName       string          `json:"bankName"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	FinalBalance   decimal.Decimal `json:"finalBalance"`
	EntryCount     int             `json:"entryCount"`
}

// Totals is the grand total across banks.
type Totals struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	FinalBalance   decimal.Decimal `json:"finalBalance"`
}

// YearlyReport is the fiscal-year summary over all banks.
type YearlyReport struct {
	Fiscal      calendar.FiscalRange `json:"-"`
	Label       string               `json:"label"`
	PerBank     []BankRow            `json:"perBank"`
	GrandTotals Totals               `json:"grandTotals"`
}

// Yearly builds one row per bank, in the order banks are given, from the
// entries dated inside the fiscal year. Each row starts from the bank's
// opening balance. Grand totals sum each column, FinalBalance included.
func Yearly(fiscal calendar.FiscalRange, banks []model.Bank, entries []model.Entry) YearlyReport {
	byBank := make(map[int64][]model.Entry, len(banks))
	for _, e := range entries {
		if !fiscal.Contains(e.Date) {
			continue
		}
		byBank[e.BankID] = append(byBank[e.BankID], e)
	}

	rep := YearlyReport{
		Fiscal:  fiscal,
		Label:   fiscal.Label,
		PerBank: make([]BankRow, 0, len(banks)),
		GrandTotals: Totals{
			OpeningBalance: decimal.Zero,
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
			FinalBalance:   decimal.Zero,
		},
	}
	for _, b := range banks {
		bankEntries := byBank[b.ID]
		snap := balance.Aggregate(b.OpeningBalance, bankEntries)
		row := BankRow{
			BankID:         b.ID,
			BankName:       b.Name,
			OpeningBalance: b.OpeningBalance,
			TotalDebit:     snap.TotalDebit,
			TotalCredit:    snap.TotalCredit,
			FinalBalance:   snap.Balance,
			EntryCount:     len(bankEntries),
		}
		rep.PerBank = append(rep.PerBank, row)

		gt := &rep.GrandTotals
		gt.OpeningBalance = gt.OpeningBalance.Add(row.OpeningBalance)
		gt.TotalDebit = gt.TotalDebit.Add(row.TotalDebit)
		gt.TotalCredit = gt.TotalCredit.Add(row.TotalCredit)
		gt.FinalBalance = gt.FinalBalance.Add(row.FinalBalance)
	}
	return rep
}

// MonthRow is one fiscal month of the comparative report.
type MonthRow struct {
	Month   calendar.YearMonth `json:"month"`
	Debit   decimal.Decimal    `json:"debit"`
	Credit  decimal.Decimal    `json:"credit"`
	Balance decimal.Decimal    `json:"balance"`
}

// MonthTotals closes the comparative report.
type MonthTotals struct {
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	FinalBalance decimal.Decimal `json:"finalBalance"`
}

// MonthlyReport compares the months of one fiscal year for one bank.
type MonthlyReport struct {
	Bank     model.Bank           `json:"bank"`
	Fiscal   calendar.FiscalRange `json:"-"`
	Label    string               `json:"label"`
	PerMonth []MonthRow           `json:"perMonth"`
	Totals   MonthTotals          `json:"totals"`
}

// MonthlyComparative buckets bank's entries into the twelve fiscal months
// and chains the running balance from the bank's opening balance. Entries of
// other banks or outside the fiscal months are ignored.
func MonthlyComparative(bank model.Bank, entries []model.Entry, fiscal calendar.FiscalRange) MonthlyReport {
	own := balance.Filter(entries, model.EntryFilter{BankID: bank.ID})
	buckets := balance.ByMonth(bank.OpeningBalance, fiscal.Months(), own)

	rep := MonthlyReport{
		Bank:     bank,
		Fiscal:   fiscal,
		Label:    fiscal.Label,
		PerMonth: make([]MonthRow, len(buckets)),
		Totals: MonthTotals{
			Debit:        decimal.Zero,
			Credit:       decimal.Zero,
			FinalBalance: bank.OpeningBalance,
		},
	}
	for i, b := range buckets {
		rep.PerMonth[i] = MonthRow(b)
		rep.Totals.Debit = rep.Totals.Debit.Add(b.Debit)
		rep.Totals.Credit = rep.Totals.Credit.Add(b.Credit)
		rep.Totals.FinalBalance = b.Balance
	}
	return rep
}

// Summary is the at-a-glance view of one bank over all of its entries.
type Summary struct {
	Bank           model.Bank      `json:"bank"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	EntryCount     int             `json:"entryCount"`
}

// BankSummary aggregates every entry of bank.
func BankSummary(bank model.Bank, entries []model.Entry) Summary {
	own := balance.Filter(entries, model.EntryFilter{BankID: bank.ID})
	snap := balance.Aggregate(bank.OpeningBalance, own)
	return Summary{
		Bank:           bank,
		OpeningBalance: bank.OpeningBalance,
		TotalDebit:     snap.TotalDebit,
		TotalCredit:    snap.TotalCredit,
		CurrentBalance: snap.Balance,
		EntryCount:     len(own),
	}
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/money"
	"github.com/bankledger-dev/bankledger/internal/reconcile"
	"github.com/bankledger-dev/bankledger/internal/reports"
)

// Yearly renders the fiscal-year summary with its grand total row.
func Yearly(rep reports.YearlyReport, currency string) string {
	t := Table{
		Title:   "Fiscal year " + rep.Label,
		Headers: []string{"Bank", "Opening", "Debit", "Credit", "Final", "Entries"},
		Right:   map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	for _, r := range rep.PerBank {
		t.Add(r.BankName,
			money.Format(r.OpeningBalance, currency),
			money.Format(r.TotalDebit, currency),
			money.Format(r.TotalCredit, currency),
			money.Format(r.FinalBalance, currency),
			strconv.Itoa(r.EntryCount))
	}
	gt := rep.GrandTotals
	t.Add("**Grand Total**",
		money.Format(gt.OpeningBalance, currency),
		money.Format(gt.TotalDebit, currency),
		money.Format(gt.TotalCredit, currency),
		money.Format(gt.FinalBalance, currency),
		"")
	return t.Markdown()
}

// Monthly renders the monthly comparative report of one bank.
func Monthly(rep reports.MonthlyReport, currency, locale string) string {
	t := Table{
		Title:   fmt.Sprintf("%s, fiscal year %s", rep.Bank.Name, rep.Label),
		Headers: []string{"Month", "Debit", "Credit", "Balance"},
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}
	for _, m := range rep.PerMonth {
		t.Add(fmt.Sprintf("%s %d", calendar.MonthName(m.Month.Month, locale), m.Month.Year),
			money.Format(m.Debit, currency),
			money.Format(m.Credit, currency),
			money.Format(m.Balance, currency))
	}
	t.Add("**Total**",
		money.Format(rep.Totals.Debit, currency),
		money.Format(rep.Totals.Credit, currency),
		money.Format(rep.Totals.FinalBalance, currency))

	return fmt.Sprintf("Opening balance: %s\n\n%s", money.Format(rep.Bank.OpeningBalance, currency), t.Markdown())
}

// Summary renders the at-a-glance view of one bank.
func Summary(s reports.Summary, currency string) string {
	t := Table{
		Title:   s.Bank.Name,
		Headers: []string{"", "Amount"},
		Right:   map[int]bool{1: true},
	}
	t.Add("Opening balance", money.Format(s.OpeningBalance, currency))
	t.Add("Total debit", money.Format(s.TotalDebit, currency))
	t.Add("Total credit", money.Format(s.TotalCredit, currency))
	t.Add("Current balance", money.Format(s.CurrentBalance, currency))
	t.Add("Entries", strconv.Itoa(s.EntryCount))
	return t.Markdown()
}

// Reconciliation renders a reconciliation result.
func Reconciliation(bank model.Bank, r reconcile.Result, currency string) string {
	t := Table{
		Title:   fmt.Sprintf("Reconciliation: %s on %s", bank.Name, r.Date),
		Headers: []string{"", "Amount"},
		Right:   map[int]bool{1: true},
	}
	t.Add("Opening for day", money.Format(r.OpeningForDay, currency))
	t.Add("Net for day", money.Format(r.NetForDay, currency))
	t.Add("System balance", money.Format(r.SystemBalance, currency))
	if r.Statement.Valid {
		t.Add("Statement balance", money.Format(r.Statement.Decimal, currency))
		t.Add("Difference", money.Format(r.Difference.Decimal, currency))
	}
	return t.Markdown() + "\nStatus: **" + strings.ToUpper(r.Status()) + "**\n"
}

// Banks renders the bank list.
func Banks(banks []model.Bank, currency string) string {
	t := Table{
		Headers: []string{"ID", "Name", "IBAN", "Opening", "Created"},
		Right:   map[int]bool{0: true, 3: true},
	}
	for _, b := range banks {
		t.Add(strconv.FormatInt(b.ID, 10), b.Name, b.IBAN,
			money.Format(b.OpeningBalance, currency), b.CreatedAt.Format("2006-01-02"))
	}
	return t.Markdown()
}

// Entries renders an entry list.
func Entries(entries []model.Entry, currency string) string {
	t := Table{
		Headers: []string{"ID", "Bank", "Date", "Type", "Description", "Amount"},
		Right:   map[int]bool{0: true, 1: true, 5: true},
	}
	for _, e := range entries {
		t.Add(strconv.FormatInt(e.ID, 10), strconv.FormatInt(e.BankID, 10), e.Date.String(),
			string(e.Type), e.Description, money.Format(e.Amount, currency))
	}
	return t.Markdown()
}

// FiscalYears renders a list of fiscal years.
func FiscalYears(years []calendar.FiscalRange) string {
	t := Table{Headers: []string{"Label", "Start", "End"}}
	for _, y := range years {
		t.Add(y.Label, y.Start.String(), y.End.String())
	}
	return t.Markdown()
}

// Package export renders reports and entries as spreadsheets and CSV.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/reports"
)

// Sheet names.
const (
	SheetYearly  = "Fiscal Year Summary"
	SheetMonthly = "Monthly Comparison"
	SheetDebit   = "Debit Entries"
	SheetCredit  = "Credit Entries"
)

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

var labels = map[string]map[string]string{
	"en": {
		"bank": "Bank", "opening": "Opening Balance", "debit": "Total Debit",
		"credit": "Total Credit", "final": "Final Balance", "grand": "Grand Total",
		"month": "Month", "mdebit": "Debit", "mcredit": "Credit", "balance": "Balance",
		"total": "Total", "desc": "Description", "date": "Date", "amount": "Amount",
	},
	"ar": {
		"bank": "البنك", "opening": "الرصيد الافتتاحي", "debit": "إجمالي المدين",
		"credit": "إجمالي الدائن", "final": "الرصيد الختامي", "grand": "الإجمالي العام",
		"month": "الشهر", "mdebit": "مدين", "mcredit": "دائن", "balance": "الرصيد",
		"total": "الإجمالي", "desc": "البيان", "date": "التاريخ", "amount": "المبلغ",
	},
}

func label(locale, key string) string {
	if l, ok := labels[locale]; ok {
		return l[key]
	}
	return labels["en"][key]
}

// YearlyFileName is the export name for a fiscal-year report.
func YearlyFileName(label string) string {
	return "bank-balances-fiscal-" + strings.ReplaceAll(label, "/", "-") + ".xlsx"
}

// MonthlyFileName is the export name for a monthly comparative report.
func MonthlyFileName(bankName, label string) string {
	return fmt.Sprintf("%s-monthly-%s.xlsx", safeName(bankName), strings.ReplaceAll(label, "/", "-"))
}

// EntriesFileName is the export name for a bank's entries.
func EntriesFileName(bankName string) string {
	return safeName(bankName) + "-entries.xlsx"
}

// YearlyWorkbook lays out the yearly report: a header row, one row per
// bank, a blank spacer row and the grand total.
func YearlyWorkbook(rep reports.YearlyReport, locale string) (*excelize.File, error) {
	b, err := newBook(SheetYearly)
	if err != nil {
		return nil, err
	}

	b.header(label(locale, "bank"), label(locale, "opening"), label(locale, "debit"), label(locale, "credit"), label(locale, "final"))
	for _, r := range rep.PerBank {
		b.row(r.BankName, r.OpeningBalance, r.TotalDebit, r.TotalCredit, r.FinalBalance)
	}
	b.skip()
	gt := rep.GrandTotals
	b.total(label(locale, "grand"), gt.OpeningBalance, gt.TotalDebit, gt.TotalCredit, gt.FinalBalance)
	b.widths(25, 20, 20, 20, 20)

	return b.done()
}

// MonthlyWorkbook lays out the twelve fiscal months of one bank followed by
// a spacer row and the totals.
func MonthlyWorkbook(rep reports.MonthlyReport, locale string) (*excelize.File, error) {
	b, err := newBook(SheetMonthly)
	if err != nil {
		return nil, err
	}

	b.row(label(locale, "bank"), rep.Bank.Name)
	b.row(label(locale, "opening"), rep.Bank.OpeningBalance)
	b.skip()
	b.header(label(locale, "month"), label(locale, "mdebit"), label(locale, "mcredit"), label(locale, "balance"))
	for _, m := range rep.PerMonth {
		name := fmt.Sprintf("%s %d", calendar.MonthName(m.Month.Month, locale), m.Month.Year)
		b.row(name, m.Debit, m.Credit, m.Balance)
	}
	b.skip()
	b.total(label(locale, "total"), rep.Totals.Debit, rep.Totals.Credit, rep.Totals.FinalBalance)
	b.widths(25, 18, 18, 18)

	return b.done()
}

// EntriesWorkbook splits entries into a debit sheet and a credit sheet,
// each listing description, date and amount.
func EntriesWorkbook(entries []model.Entry, locale string) (*excelize.File, error) {
	b, err := newBook(SheetDebit)
	if err != nil {
		return nil, err
	}

	for _, side := range []struct {
		sheet string
		typ   model.EntryType
	}{{SheetDebit, model.EntryDebit}, {SheetCredit, model.EntryCredit}} {
		if err := b.sheet(side.sheet); err != nil {
			b.f.Close()
			return nil, err
		}
		b.header(label(locale, "desc"), label(locale, "date"), label(locale, "amount"))
		for _, e := range entries {
			if e.Type == side.typ {
				b.row(e.Description, e.Date.String(), e.Amount)
			}
		}
		b.widths(40, 15, 15)
	}

	return b.done()
}

// book writes rows top to bottom and keeps the first error.
type book struct {
	f       *excelize.File
	name    string
	next    int
	bold    int
	amount  int
	boldAmt int
	err     error
}

func newBook(first string) (*book, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", first); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	b := &book{f: f, name: first, next: 1}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&b.amount, &excelize.Style{NumFmt: numFmtAmount}},
		{&b.boldAmt, &excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtAmount}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating style: %w", err)
		}
		*s.dst = id
	}
	return b, nil
}

// sheet switches to name, creating it unless it is the current first sheet.
func (b *book) sheet(name string) error {
	if name != b.name {
		if _, err := b.f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}
	b.name = name
	b.next = 1
	return nil
}

func (b *book) header(cells ...string) {
	vals := make([]any, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	b.write(vals, b.bold, b.bold)
}

func (b *book) row(cells ...any) { b.write(cells, 0, b.amount) }

func (b *book) total(cells ...any) { b.write(cells, b.bold, b.boldAmt) }

func (b *book) skip() { b.next++ }

func (b *book) write(cells []any, textStyle, numStyle int) {
	if b.err != nil {
		return
	}
	vals := make([]any, len(cells))
	for i, c := range cells {
		style := textStyle
		if d, ok := c.(decimal.Decimal); ok {
			c = d.InexactFloat64()
			style = numStyle
		}
		vals[i] = c

		cell, err := excelize.CoordinatesToCellName(i+1, b.next)
		if err != nil {
			b.err = err
			return
		}
		if style != 0 {
			if err := b.f.SetCellStyle(b.name, cell, cell, style); err != nil {
				b.err = fmt.Errorf("styling %s: %w", cell, err)
				return
			}
		}
	}

	start, _ := excelize.CoordinatesToCellName(1, b.next)
	if err := b.f.SetSheetRow(b.name, start, &vals); err != nil {
		b.err = fmt.Errorf("writing row %d: %w", b.next, err)
		return
	}
	b.next++
}

func (b *book) widths(ws ...float64) {
	if b.err != nil {
		return
	}
	for i, w := range ws {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			b.err = err
			return
		}
		if err := b.f.SetColWidth(b.name, col, col, w); err != nil {
			b.err = fmt.Errorf("setting width of %s: %w", col, err)
			return
		}
	}
}

func (b *book) done() (*excelize.File, error) {
	if b.err != nil {
		b.f.Close()
		return nil, b.err
	}
	return b.f, nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	s = r.Replace(s)
	if s == "" {
		return "bank"
	}
	return s
}

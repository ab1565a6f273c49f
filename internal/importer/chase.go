package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// ChaseParser reads Chase checking account CSV exports. Columns are found
// by header name, so reordered or extra columns are accepted.
type ChaseParser struct{}

const chaseDateLayout = "01/02/2006"

// Header cells the parser reads. Details and Type are optional.
const (
	hdrDate    = "posting date"
	hdrDesc    = "description"
	hdrAmount  = "amount"
	hdrDetails = "details"
	hdrType    = "type"
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse converts each statement row into an entry for bankID. Money out
// becomes a credit and money in a debit. The Details column, when present,
// must agree with the sign of the amount. Rows with a zero amount are
// skipped.
func (p *ChaseParser) Parse(r io.Reader, bankID int64) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV header: %w", err)
	}
	col, err := chaseLayout(header)
	if err != nil {
		return nil, err
	}

	var entries []model.Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading chase CSV: %w", err)
		}
		e, ok, err := chaseEntry(rec, col, bankID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// chaseLayout maps column names to their index. Missing optional columns
// map to -1.
func chaseLayout(header []string) (map[string]int, error) {
	col := map[string]int{
		hdrDate: -1, hdrDesc: -1, hdrAmount: -1,
		hdrDetails: -1, hdrType: -1,
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, known := col[name]; known {
			col[name] = i
		}
	}
	for _, required := range []string{hdrDate, hdrDesc, hdrAmount} {
		if col[required] < 0 {
			return nil, fmt.Errorf("chase CSV has no %q column", required)
		}
	}
	return col, nil
}

func chaseEntry(rec []string, col map[string]int, bankID int64) (model.Entry, bool, error) {
	cell := func(name string) string {
		i := col[name]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	t, err := time.Parse(chaseDateLayout, cell(hdrDate))
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("parsing date %q: %w", cell(hdrDate), err)
	}

	raw := strings.NewReplacer(",", "", "$", "").Replace(cell(hdrAmount))
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("parsing amount %q: %w", cell(hdrAmount), err)
	}

	details := strings.ToUpper(cell(hdrDetails))
	switch {
	case details == "DEBIT" && amount.IsPositive():
		return model.Entry{}, false, fmt.Errorf("details %s but amount %s is money in", details, amount)
	case (details == "CREDIT" || details == "DSLIP") && amount.IsNegative():
		return model.Entry{}, false, fmt.Errorf("details %s but amount %s is money out", details, amount)
	}

	desc := cell(hdrDesc)
	if desc == "" {
		desc = humanizeKind(cell(hdrType))
	}
	if desc == "" && !amount.IsZero() {
		return model.Entry{}, false, errors.New("row has neither description nor type")
	}

	e, ok := signedEntry(bankID, calendar.FromTime(t), desc, amount)
	return e, ok, nil
}

// humanizeKind turns a Chase type code such as FEE_TRANSACTION into
// "Fee transaction".
func humanizeKind(kind string) string {
	words := strings.Fields(strings.ToLower(strings.ReplaceAll(kind, "_", " ")))
	if len(words) == 0 {
		return ""
	}
	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// Header is the CSV header for exported entries.
const Header = "id,bank_id,date,type,description,amount"

const (
	numFields = 6
	colID     = 0
	colBankID = 1
	colDate   = 2
	colType   = 3
	colDesc   = 4
	colAmount = 5
)

// WriteEntries writes entries as CSV, header included.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEntries reads entries written by WriteEntries.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarshalEntry converts an entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	if e.ID != 0 {
		row[colID] = strconv.FormatInt(e.ID, 10)
	}
	row[colBankID] = strconv.FormatInt(e.BankID, 10)
	row[colDate] = e.Date.String()
	row[colType] = string(e.Type)
	row[colDesc] = e.Description
	row[colAmount] = e.Amount.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an entry. The id and bank_id columns
// may be empty.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var e model.Entry
	var err error
	if record[colID] != "" {
		if e.ID, err = strconv.ParseInt(record[colID], 10, 64); err != nil {
			return model.Entry{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
		}
	}
	if record[colBankID] != "" {
		if e.BankID, err = strconv.ParseInt(record[colBankID], 10, 64); err != nil {
			return model.Entry{}, fmt.Errorf("parsing bank_id %q: %w", record[colBankID], err)
		}
	}

	if e.Date, err = calendar.Parse(record[colDate]); err != nil {
		return model.Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	e.Type = model.EntryType(strings.ToLower(strings.TrimSpace(record[colType])))
	if !e.Type.Valid() {
		return model.Entry{}, fmt.Errorf("unknown entry type %q", record[colType])
	}

	e.Description = record[colDesc]
	if e.Amount, err = decimal.NewFromString(record[colAmount]); err != nil {
		return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return e, nil
}

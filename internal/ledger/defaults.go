package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/calendar"
	"github.com/bankledger-dev/bankledger/internal/model"
)

type seedEntry struct {
	bank   int
	typ    model.EntryType
	desc   string
	date   string
	amount int64
}

// SampleBanks returns the banks created by Seed.
func SampleBanks() []BankInput {
	return []BankInput{
		{Name: "National Bank of Egypt", OpeningBalance: decimal.NewFromInt(10000)},
		{Name: "Banque Misr", OpeningBalance: decimal.NewFromInt(5000)},
	}
}

var sampleEntries = []seedEntry{
	{0, model.EntryDebit, "July salary", "2024-07-25", 7500},
	{0, model.EntryCredit, "Office rent", "2024-07-26", 2500},
	{0, model.EntryCredit, "Electricity bill", "2024-07-28", 450},
	{0, model.EntryDebit, "Client transfer", "2024-08-05", 3000},
	{0, model.EntryCredit, "Stock purchase", "2024-08-10", 4000},
	{1, model.EntryDebit, "Project advance payment", "2024-07-20", 2000},
	{1, model.EntryCredit, "Office supplies", "2024-07-22", 350},
	{1, model.EntryCredit, "Social insurance", "2024-08-15", 1200},
}

// Seed fills an empty ledger with two sample banks and their July and
// August 2024 entries.
func (s *Service) Seed(ctx context.Context) ([]model.Bank, error) {
	var banks []model.Bank
	for _, in := range SampleBanks() {
		b, err := s.AddBank(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seeding bank %q: %w", in.Name, err)
		}
		banks = append(banks, b)
	}

	for _, se := range sampleEntries {
		_, err := s.AddEntry(ctx, EntryInput{
			BankID:      banks[se.bank].ID,
			Type:        se.typ,
			Description: se.desc,
			Date:        calendar.MustParse(se.date),
			Amount:      decimal.NewFromInt(se.amount),
		})
		if err != nil {
			return nil, fmt.Errorf("seeding entry %q: %w", se.desc, err)
		}
	}
	return banks, nil
}

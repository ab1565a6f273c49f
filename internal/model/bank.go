package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Bank is a tracked bank account.
type Bank struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	IBAN           string          `json:"iban"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Setting is a single key/value pair. Value holds raw JSON.
type Setting struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionResult is a completed currency conversion. ConvertedAmount is
// rounded to 2 decimal places, ExchangeRate to 4.
type ConversionResult struct {
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	ConvertedAt     time.Time       `json:"converted_at"`
}

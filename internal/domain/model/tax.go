package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxTier describes the confidence of a tax-rate lookup.
type TaxTier string

const (
	TaxTierExact    TaxTier = "exact"
	TaxTierFallback TaxTier = "fallback"
	TaxTierUnknown  TaxTier = "unknown"
)

// TaxQuote is a resolved tax rate for a jurisdiction.
type TaxQuote struct {
	Rate       decimal.Decimal `json:"rate"`
	Tier       TaxTier         `json:"tier"`
	TaxType    string          `json:"tax_type"`
	Country    string          `json:"country"`
	Region     string          `json:"region,omitempty"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/rates"
)

// TaxUseCase resolves effective tax rates with tiered fallback. It never
// fails: an unknown jurisdiction resolves to a zero rate flagged unknown so
// callers surface it for review instead of silently mis-taxing.
type TaxUseCase struct {
	rates *rates.Table
}

// NewTaxUseCase constructs TaxUseCase.
func NewTaxUseCase(table *rates.Table) *TaxUseCase {
	return &TaxUseCase{rates: table}
}

// Resolve returns a TaxQuote for the (country, region, taxType) triple.
// First hit wins: exact jurisdiction+type, then country fallback scalar, then
// zero with the unknown tier.
func (u *TaxUseCase) Resolve(country, region, taxType string) model.TaxQuote {
	quote := model.TaxQuote{
		TaxType:    taxType,
		Country:    country,
		Region:     region,
		ResolvedAt: time.Now().UTC(),
	}

	if rate, ok := u.rates.TaxRate(rates.Jurisdiction(country, region), taxType); ok {
		quote.Rate = rate
		quote.Tier = model.TaxTierExact
		return quote
	}

	if rate, ok := u.rates.FallbackRate(country); ok {
		quote.Rate = rate
		quote.Tier = model.TaxTierFallback
		return quote
	}

	quote.Rate = decimal.Zero
	quote.Tier = model.TaxTierUnknown
	return quote
}

package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/rates"
)

// CurrencyUseCase converts amounts between currencies through the table's USD
// base. Unlike tax resolution this fails hard: an unconvertible amount cannot
// be trusted downstream.
type CurrencyUseCase struct {
	rates *rates.Table
}

// NewCurrencyUseCase constructs CurrencyUseCase.
func NewCurrencyUseCase(table *rates.Table) *CurrencyUseCase {
	return &CurrencyUseCase{rates: table}
}

// Convert computes amount in the target currency. The converted amount is
// rounded to 2 decimal places, the reported effective rate to 4.
func (u *CurrencyUseCase) Convert(amount decimal.Decimal, from, to string) (*model.ConversionResult, error) {
	fromCode := strings.ToUpper(strings.TrimSpace(from))
	toCode := strings.ToUpper(strings.TrimSpace(to))

	fromRate, ok := u.rates.CurrencyRate(fromCode)
	if !ok {
		return nil, domainErrors.UnsupportedCurrencyError{Code: from}
	}
	toRate, ok := u.rates.CurrencyRate(toCode)
	if !ok {
		return nil, domainErrors.UnsupportedCurrencyError{Code: to}
	}

	rate := toRate.Div(fromRate)
	return &model.ConversionResult{
		OriginalAmount:  amount,
		ConvertedAmount: amount.Mul(rate).Round(2),
		ExchangeRate:    rate.Round(4),
		FromCurrency:    fromCode,
		ToCurrency:      toCode,
		ConvertedAt:     time.Now().UTC(),
	}, nil
}

// Package rates holds the static tax and exchange rate tables. The tables are
// read-only after process start; a production deployment would swap them for a
// live provider behind the same lookups.
package rates

import "github.com/shopspring/decimal"

// Table exposes pure lookups over the static data. Absence is a valid
// outcome, not an error.
type Table struct {
	tax       map[string]map[string]decimal.Decimal
	fallback  map[string]decimal.Decimal
	currency  map[string]decimal.Decimal
	supported map[string]struct{}
}

// NewTable builds the table from the built-in data set.
func NewTable() *Table {
	t := &Table{
		tax:       make(map[string]map[string]decimal.Decimal),
		fallback:  make(map[string]decimal.Decimal),
		currency:  make(map[string]decimal.Decimal),
		supported: make(map[string]struct{}),
	}

	for key, types := range taxRates {
		entry := make(map[string]decimal.Decimal, len(types))
		for taxType, rate := range types {
			entry[taxType] = decimal.NewFromFloat(rate)
		}
		t.tax[key] = entry
	}
	for country, rate := range fallbackRates {
		t.fallback[country] = decimal.NewFromFloat(rate)
	}
	for code, rate := range exchangeRates {
		t.currency[code] = decimal.NewFromFloat(rate)
	}
	for _, code := range supportedCurrencies {
		t.supported[code] = struct{}{}
	}
	return t
}

// TaxRate looks up the rate for an exact jurisdiction key and tax type.
func (t *Table) TaxRate(key, taxType string) (decimal.Decimal, bool) {
	types, ok := t.tax[key]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := types[taxType]
	return rate, ok
}

// FallbackRate looks up the country-level scalar rate that ignores tax type.
func (t *Table) FallbackRate(country string) (decimal.Decimal, bool) {
	rate, ok := t.fallback[country]
	return rate, ok
}

// CurrencyRate returns the USD-relative rate for a currency code.
func (t *Table) CurrencyRate(code string) (decimal.Decimal, bool) {
	rate, ok := t.currency[code]
	return rate, ok
}

// Supported reports whether the code is on the closed currency whitelist used
// by field validation.
func (t *Table) Supported(code string) bool {
	_, ok := t.supported[code]
	return ok
}

// Jurisdiction composes the lookup key for a country and optional region.
func Jurisdiction(country, region string) string {
	if region == "" {
		return country
	}
	return country + "-" + region
}

var taxRates = map[string]map[string]float64{
	// US states
	"US-CA": {"SALES_TAX": 0.0875, "VAT": 0.0875},
	"US-NY": {"SALES_TAX": 0.08, "VAT": 0.08},
	"US-TX": {"SALES_TAX": 0.0825, "VAT": 0.0825},
	"US-FL": {"SALES_TAX": 0.07, "VAT": 0.07},

	"UK": {"VAT": 0.20},

	"IN":    {"GST": 0.18},
	"IN-MH": {"GST": 0.18},
	"IN-KA": {"GST": 0.18},
	"IN-DL": {"GST": 0.18},

	"CA-ON": {"HST": 0.13, "GST": 0.05, "PST": 0.08},
	"CA-BC": {"GST": 0.05, "PST": 0.07},
	"CA-QC": {"GST": 0.05, "QST": 0.09975},

	"AU-NSW": {"GST": 0.10},
	"AU-VIC": {"GST": 0.10},
	"AU-QLD": {"GST": 0.10},

	"DE": {"VAT": 0.19},
	"FR": {"VAT": 0.20},
	"IT": {"VAT": 0.22},
	"ES": {"VAT": 0.21},
	"NL": {"VAT": 0.21},
}

var fallbackRates = map[string]float64{
	"US": 0.07,
	"UK": 0.20,
	"IN": 0.18,
	"CA": 0.13,
	"AU": 0.10,
	"DE": 0.19,
	"FR": 0.20,
	"IT": 0.22,
	"ES": 0.21,
	"NL": 0.21,
}

// Exchange rates relative to USD.
var exchangeRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"INR": 83.0,
	"CAD": 1.35,
	"AUD": 1.52,
	"JPY": 150.0,
	"CHF": 0.92,
	"CNY": 7.25,
	"BRL": 5.2,
}

var supportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD"}

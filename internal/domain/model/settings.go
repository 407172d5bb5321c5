package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the operator-editable system configuration document.
type Settings struct {
	AutoApprovalThreshold decimal.Decimal `json:"auto_approval_threshold"`
	EnabledCountries      []string        `json:"enabled_countries"`
	MaxProcessingTime     int             `json:"max_processing_time"`
	MaxRetries            int             `json:"max_retries"`
	RetryFailedInvoices   bool            `json:"retry_failed_invoices"`
	EnablePDFGeneration   bool            `json:"enable_pdf_generation"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// DefaultSettings mirrors the values the control panel starts from.
func DefaultSettings() Settings {
	return Settings{
		AutoApprovalThreshold: decimal.NewFromInt(10000),
		EnabledCountries:      []string{"US", "UK", "IN"},
		MaxProcessingTime:     300,
		MaxRetries:            3,
		RetryFailedInvoices:   false,
		EnablePDFGeneration:   true,
	}
}

// CountryEnabled reports whether tax processing is switched on for country.
func (s Settings) CountryEnabled(country string) bool {
	for _, c := range s.EnabledCountries {
		if c == country {
			return true
		}
	}
	return false
}

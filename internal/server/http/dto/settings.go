package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// SettingsRequest is the operator configuration update payload.
type SettingsRequest struct {
	AutoApprovalThreshold decimal.Decimal `json:"auto_approval_threshold"`
	EnabledCountries      []string        `json:"enabled_countries"`
	MaxProcessingTime     int             `json:"max_processing_time"`
	MaxRetries            int             `json:"max_retries"`
	RetryFailedInvoices   bool            `json:"retry_failed_invoices"`
	EnablePDFGeneration   bool            `json:"enable_pdf_generation"`
}

// ToSettings maps the request to the domain document.
func (r SettingsRequest) ToSettings() model.Settings {
	return model.Settings{
		AutoApprovalThreshold: r.AutoApprovalThreshold,
		EnabledCountries:      r.EnabledCountries,
		MaxProcessingTime:     r.MaxProcessingTime,
		MaxRetries:            r.MaxRetries,
		RetryFailedInvoices:   r.RetryFailedInvoices,
		EnablePDFGeneration:   r.EnablePDFGeneration,
	}
}

// SettingsResponse is the stored operator configuration.
type SettingsResponse struct {
	AutoApprovalThreshold decimal.Decimal `json:"auto_approval_threshold"`
	EnabledCountries      []string        `json:"enabled_countries"`
	MaxProcessingTime     int             `json:"max_processing_time"`
	MaxRetries            int             `json:"max_retries"`
	RetryFailedInvoices   bool            `json:"retry_failed_invoices"`
	EnablePDFGeneration   bool            `json:"enable_pdf_generation"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ToSettingsResponse maps the domain document to its wire form.
func ToSettingsResponse(settings model.Settings) SettingsResponse {
	return SettingsResponse{
		AutoApprovalThreshold: settings.AutoApprovalThreshold,
		EnabledCountries:      settings.EnabledCountries,
		MaxProcessingTime:     settings.MaxProcessingTime,
		MaxRetries:            settings.MaxRetries,
		RetryFailedInvoices:   settings.RetryFailedInvoices,
		EnablePDFGeneration:   settings.EnablePDFGeneration,
		UpdatedAt:             settings.UpdatedAt,
	}
}

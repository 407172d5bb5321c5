package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus describes processing lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusIntaken          InvoiceStatus = "INTAKEN"
	InvoiceStatusValidating       InvoiceStatus = "VALIDATING"
	InvoiceStatusValidated        InvoiceStatus = "VALIDATED"
	InvoiceStatusValidationFailed InvoiceStatus = "VALIDATION_FAILED"
	InvoiceStatusNeedsReview      InvoiceStatus = "NEEDS_REVIEW"
	InvoiceStatusError            InvoiceStatus = "ERROR"
)

// Terminal reports whether the pipeline performs no further automatic
// transitions from the status.
func (s InvoiceStatus) Terminal() bool {
	switch s {
	case InvoiceStatusValidated, InvoiceStatusValidationFailed, InvoiceStatusNeedsReview, InvoiceStatusError:
		return true
	}
	return false
}

// Amount carries a monetary value exactly as submitted. Payloads arrive with
// amounts encoded either as JSON numbers or as strings, so the raw text is
// kept and parsed during validation.
type Amount string

// UnmarshalJSON accepts both string and numeric encodings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Empty reports whether no value was submitted.
func (a Amount) Empty() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Decimal parses the submitted value.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}

// LineItem is a single invoice position.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ExpectedValues is the reference (e.g. a purchase order) an invoice is
// compared against during discrepancy detection.
type ExpectedValues struct {
	TotalAmount Amount     `json:"total_amount,omitempty"`
	LineItems   []LineItem `json:"line_items,omitempty"`
}

// InvoiceFields is the raw structured payload attached at intake. Optional
// fields stay empty when absent; no sentinel values.
type InvoiceFields struct {
	CustomerName string          `json:"customer_name,omitempty"`
	TotalAmount  Amount          `json:"total_amount,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Country      string          `json:"country,omitempty"`
	Region       string          `json:"region,omitempty"`
	TaxType      string          `json:"tax_type,omitempty"`
	TaxAmount    Amount          `json:"tax_amount,omitempty"`
	LineItems    []LineItem      `json:"line_items,omitempty"`
	Expected     *ExpectedValues `json:"expected_values,omitempty"`
}

// Invoice is a single intake record owned by the pipeline for its lifetime.
type Invoice struct {
	ID             string
	Status         InvoiceStatus
	Fields         InvoiceFields
	SourceKey      string
	Result         *PipelineResult
	PDFLocation    string
	ReviewRequired bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PipelineResult aggregates the outcome of every pipeline stage for one run.
// Immutable once persisted; a rerun replaces it wholesale.
type PipelineResult struct {
	Validation    *ValidationResult  `json:"validation,omitempty"`
	Tax           *TaxQuote          `json:"tax,omitempty"`
	Conversion    *ConversionResult  `json:"conversion,omitempty"`
	Discrepancies *DiscrepancyReport `json:"discrepancies,omitempty"`
	Warnings      []string           `json:"warnings,omitempty"`
	Assessment    string             `json:"assessment,omitempty"`
	Error         string             `json:"error,omitempty"`
}

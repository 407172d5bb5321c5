package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/rates"
)

// largeAmountThreshold triggers a non-blocking warning for suspiciously big
// invoices.
var largeAmountThreshold = decimal.NewFromInt(1_000_000)

// ValidatorUseCase checks candidate invoice fields against required-field and
// value-range rules.
type ValidatorUseCase struct {
	rates *rates.Table
}

// NewValidatorUseCase constructs ValidatorUseCase.
func NewValidatorUseCase(table *rates.Table) *ValidatorUseCase {
	return &ValidatorUseCase{rates: table}
}

// Validate produces a ValidationResult. Errors block further processing,
// warnings never affect validity.
func (u *ValidatorUseCase) Validate(fields model.InvoiceFields) model.ValidationResult {
	var missing []string
	if strings.TrimSpace(fields.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if fields.TotalAmount.Empty() {
		missing = append(missing, "total_amount")
	}
	if strings.TrimSpace(fields.Currency) == "" {
		missing = append(missing, "currency")
	}

	result := model.ValidationResult{Errors: []string{}, Warnings: []string{}}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, "Missing required fields: "+strings.Join(missing, ", "))
	}

	if !fields.TotalAmount.Empty() {
		amount, err := fields.TotalAmount.Decimal()
		switch {
		case err != nil:
			result.Errors = append(result.Errors, "Invalid total amount format")
		case amount.LessThanOrEqual(decimal.Zero):
			result.Errors = append(result.Errors, "Total amount must be positive")
		case amount.GreaterThan(largeAmountThreshold):
			result.Warnings = append(result.Warnings, "Very large amount - please verify")
		}
	}

	if currency := strings.TrimSpace(fields.Currency); currency != "" && !u.rates.Supported(currency) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Currency %s not in standard list", currency))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

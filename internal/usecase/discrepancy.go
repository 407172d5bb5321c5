package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// amountTolerance is the relative difference above which a total-amount
// mismatch becomes a discrepancy. Exactly 5% is not flagged.
var amountTolerance = decimal.NewFromFloat(0.05)

var hundred = decimal.NewFromInt(100)

// DiscrepancyUseCase compares a submitted invoice against an expected
// reference and flags tolerance violations.
type DiscrepancyUseCase struct{}

// NewDiscrepancyUseCase constructs DiscrepancyUseCase.
func NewDiscrepancyUseCase() *DiscrepancyUseCase {
	return &DiscrepancyUseCase{}
}

// Detect builds a DiscrepancyReport. Line items are compared pairwise by
// position up to the shorter sequence's length; tails beyond it are ignored.
func (u *DiscrepancyUseCase) Detect(invoice model.InvoiceFields, expected model.ExpectedValues) model.DiscrepancyReport {
	var found []model.Discrepancy

	if !expected.TotalAmount.Empty() {
		if expectedAmount, err := expected.TotalAmount.Decimal(); err == nil && !expectedAmount.IsZero() {
			actualAmount := decimal.Zero
			if parsed, err := invoice.TotalAmount.Decimal(); err == nil {
				actualAmount = parsed
			}

			relative := actualAmount.Sub(expectedAmount).Abs().Div(expectedAmount)
			if relative.GreaterThan(amountTolerance) {
				difference := actualAmount.Sub(expectedAmount)
				percentage := relative.Mul(hundred)
				found = append(found, model.Discrepancy{
					Field:      "total_amount",
					Expected:   expectedAmount,
					Actual:     actualAmount,
					Difference: &difference,
					Percentage: &percentage,
				})
			}
		}
	}

	pairs := len(expected.LineItems)
	if len(invoice.LineItems) < pairs {
		pairs = len(invoice.LineItems)
	}
	for i := 0; i < pairs; i++ {
		expectedItem := expected.LineItems[i]
		actualItem := invoice.LineItems[i]
		if !expectedItem.UnitPrice.Equal(actualItem.UnitPrice) {
			found = append(found, model.Discrepancy{
				Field:    fmt.Sprintf("line_items[%d].unit_price", i),
				Expected: expectedItem.UnitPrice,
				Actual:   actualItem.UnitPrice,
			})
		}
	}

	report := model.DiscrepancyReport{
		HasDiscrepancies: len(found) > 0,
		Discrepancies:    found,
		Severity:         model.SeverityNone,
	}
	if report.HasDiscrepancies {
		report.Severity = model.SeverityHigh
	}
	return report
}

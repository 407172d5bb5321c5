package model

import "github.com/shopspring/decimal"

// DiscrepancySeverity is either none or high; there are no intermediate
// grades.
type DiscrepancySeverity string

const (
	SeverityNone DiscrepancySeverity = "none"
	SeverityHigh DiscrepancySeverity = "high"
)

// Discrepancy is a single tolerance violation against the expected reference.
// Difference and Percentage are set only for amount comparisons.
type Discrepancy struct {
	Field      string           `json:"field"`
	Expected   decimal.Decimal  `json:"expected"`
	Actual     decimal.Decimal  `json:"actual"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// DiscrepancyReport lists every detected violation. Severity is high iff the
// list is non-empty.
type DiscrepancyReport struct {
	HasDiscrepancies bool                `json:"has_discrepancies"`
	Discrepancies    []Discrepancy       `json:"discrepancies"`
	Severity         DiscrepancySeverity `json:"severity"`
}

package model

import "time"

// LogEntry is an audit record produced while processing an invoice.
type LogEntry struct {
	ID        string
	Timestamp time.Time
	Level     string
	Message   string
	Source    string
	InvoiceID string
}

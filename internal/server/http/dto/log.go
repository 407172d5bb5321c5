package dto

import (
	"time"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LogEntryResponse describes one processing log entry.
type LogEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Source    string    `json:"source,omitempty"`
	InvoiceID string    `json:"invoice_id,omitempty"`
	Message   string    `json:"message"`
}

// ToLogEntryResponse maps a domain entry to its wire form.
func ToLogEntryResponse(entry model.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		Level:     entry.Level,
		Source:    entry.Source,
		InvoiceID: entry.InvoiceID,
		Message:   entry.Message,
	}
}

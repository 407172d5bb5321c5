package dto

import (
	"time"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// NotificationRequest is an object-store upload event.
type NotificationRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// InvoiceResponse describes one invoice record.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	Fields         model.InvoiceFields   `json:"fields"`
	SourceKey      string                `json:"source_key,omitempty"`
	Result         *model.PipelineResult `json:"result,omitempty"`
	PDFLocation    string                `json:"pdf_location,omitempty"`
	ReviewRequired bool                  `json:"review_required"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToInvoiceResponse maps a domain record to its wire form.
func ToInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             invoice.ID,
		Status:         string(invoice.Status),
		Fields:         invoice.Fields,
		SourceKey:      invoice.SourceKey,
		Result:         invoice.Result,
		PDFLocation:    invoice.PDFLocation,
		ReviewRequired: invoice.ReviewRequired,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

// PDFResponse carries a stored report location.
type PDFResponse struct {
	Location string `json:"location"`
}

// StatsResponse aggregates invoice counts for the dashboard.
type StatsResponse struct {
	Total                 int            `json:"total"`
	ByStatus              map[string]int `json:"by_status"`
	AverageProcessingSecs float64        `json:"average_processing_time"`
}

// ToStatsResponse maps domain stats to the wire form.
func ToStatsResponse(stats model.Stats) StatsResponse {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return StatsResponse{
		Total:                 stats.Total,
		ByStatus:              byStatus,
		AverageProcessingSecs: stats.AverageProcessingSecs,
	}
}

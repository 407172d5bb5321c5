package handlers

import (
	"context"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// InvoiceFacade encapsulates invoice record operations exposed via HTTP.
type InvoiceFacade interface {
	SubmitInvoice(ctx context.Context, fields model.InvoiceFields) (*model.Invoice, error)
	IngestNotification(ctx context.Context, bucket, key string) (*model.Invoice, error)
	Invoice(ctx context.Context, id string) (*model.Invoice, error)
	Invoices(ctx context.Context, status model.InvoiceStatus, limit int) ([]model.Invoice, error)
	Stats(ctx context.Context) (*model.Stats, error)
	GeneratePDF(ctx context.Context, id string) (string, error)
	PDFLocation(ctx context.Context, id string) (string, error)
}

// SettingsFacade provides operator configuration operations.
type SettingsFacade interface {
	Settings(ctx context.Context) (*model.Settings, error)
	UpdateSettings(ctx context.Context, settings model.Settings) (*model.Settings, error)
}

// LogFacade exposes the processing audit trail.
type LogFacade interface {
	Logs(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// InvoiceFlowFacade aggregates the full set of operations used across handlers.
type InvoiceFlowFacade interface {
	InvoiceFacade
	SettingsFacade
	LogFacade
}

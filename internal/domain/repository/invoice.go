package repository

import (
	"context"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status model.InvoiceStatus
	Limit  int
}

// InvoiceRepository describes persistence operations with invoice records.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, error)
	// ClaimBatch atomically moves up to limit INTAKEN records into VALIDATING
	// and returns them. A record claimed by one run is invisible to others.
	ClaimBatch(ctx context.Context, limit int) ([]model.Invoice, error)
	// FinishProcessing persists the terminal status and stage results of a run.
	FinishProcessing(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, reviewRequired bool) error
	AttachPDF(ctx context.Context, id, location string) error
	Stats(ctx context.Context) (*model.Stats, error)
}

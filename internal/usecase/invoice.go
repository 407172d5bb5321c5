package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

// InvoiceUseCase encapsulates invoice record lifecycle logic.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(invoices repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices}
}

// Intake creates a fresh record in INTAKEN state. Every intake event gets a
// new identifier; re-delivery of the same source key creates an independent
// record rather than mutating an existing one.
func (u *InvoiceUseCase) Intake(ctx context.Context, fields model.InvoiceFields, sourceKey string) (*model.Invoice, error) {
	invoice := &model.Invoice{
		ID:        uuid.NewString(),
		Status:    model.InvoiceStatusIntaken,
		Fields:    fields,
		SourceKey: sourceKey,
	}
	if err := u.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetByID returns a single record.
func (u *InvoiceUseCase) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	return u.invoices.GetByID(ctx, id)
}

// List returns records, optionally filtered by status, newest first.
func (u *InvoiceUseCase) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, error) {
	return u.invoices.List(ctx, filter)
}

// ClaimBatch returns pending records to process, moved into VALIDATING.
func (u *InvoiceUseCase) ClaimBatch(ctx context.Context, limit int) ([]model.Invoice, error) {
	return u.invoices.ClaimBatch(ctx, limit)
}

// FinishProcessing persists the outcome of a pipeline run.
func (u *InvoiceUseCase) FinishProcessing(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, reviewRequired bool) error {
	return u.invoices.FinishProcessing(ctx, id, status, result, reviewRequired)
}

// AttachPDF records a rendered document location. The record status does not
// change: PDF presence is an attribute, not a state.
func (u *InvoiceUseCase) AttachPDF(ctx context.Context, id, location string) error {
	return u.invoices.AttachPDF(ctx, id, location)
}

// Stats aggregates record counts by status.
func (u *InvoiceUseCase) Stats(ctx context.Context) (*model.Stats, error) {
	return u.invoices.Stats(ctx)
}

package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/globalinvoice/invoiceflow/internal/adapter/objectstore"
	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
	"github.com/globalinvoice/invoiceflow/internal/metrics"
	"github.com/globalinvoice/invoiceflow/internal/pipeline"
	"github.com/globalinvoice/invoiceflow/internal/renderer"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

// InvoiceFacade is the application surface shared by HTTP handlers and the
// background worker.
type InvoiceFacade struct {
	invoices     *usecase.InvoiceUseCase
	settings     *usecase.SettingsUseCase
	logs         *usecase.LogUseCase
	orchestrator *pipeline.Orchestrator
	renderer     renderer.Renderer
	objects      objectstore.Store
	metrics      metrics.Sink

	rawBucket       string
	processedBucket string
}

// NewInvoiceFacade constructs InvoiceFacade.
func NewInvoiceFacade(
	invoices *usecase.InvoiceUseCase,
	settings *usecase.SettingsUseCase,
	logs *usecase.LogUseCase,
	orchestrator *pipeline.Orchestrator,
	pdfRenderer renderer.Renderer,
	objects objectstore.Store,
	sink metrics.Sink,
	rawBucket, processedBucket string,
) *InvoiceFacade {
	return &InvoiceFacade{
		invoices:        invoices,
		settings:        settings,
		logs:            logs,
		orchestrator:    orchestrator,
		renderer:        pdfRenderer,
		objects:         objects,
		metrics:         sink,
		rawBucket:       rawBucket,
		processedBucket: processedBucket,
	}
}

// SubmitInvoice accepts a direct API intake.
func (f *InvoiceFacade) SubmitInvoice(ctx context.Context, fields model.InvoiceFields) (*model.Invoice, error) {
	invoice, err := f.invoices.Intake(ctx, fields, "")
	if err != nil {
		return nil, err
	}
	f.metrics.IncUploaded(ctx)
	_ = f.logs.Append(ctx, "INFO", "intake", invoice.ID, "invoice submitted via API")
	return invoice, nil
}

// IngestNotification resolves an object-store upload event into a new record.
// The object must live in the configured raw bucket.
func (f *InvoiceFacade) IngestNotification(ctx context.Context, bucket, key string) (*model.Invoice, error) {
	if bucket != f.rawBucket {
		return nil, fmt.Errorf("%w: unexpected bucket %q", domainErrors.ErrInvalidPayload, bucket)
	}

	data, err := f.objects.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	fields, err := parseUploadPayload(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPayload, err)
	}

	invoice, err := f.invoices.Intake(ctx, fields, key)
	if err != nil {
		return nil, err
	}
	f.metrics.IncUploaded(ctx)
	_ = f.logs.Append(ctx, "INFO", "intake", invoice.ID, fmt.Sprintf("invoice ingested from %s", key))
	return invoice, nil
}

// parseUploadPayload decodes a raw upload. JSON is tried first; a CSV with a
// header row and a single record is accepted as a fallback.
func parseUploadPayload(data []byte) (model.InvoiceFields, error) {
	var fields model.InvoiceFields
	if err := json.Unmarshal(data, &fields); err == nil {
		return fields, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return fields, fmt.Errorf("payload is neither JSON nor CSV: %w", err)
	}
	if len(rows) < 2 {
		return fields, fmt.Errorf("csv payload needs a header and one record")
	}

	header, record := rows[0], rows[1]
	for i, column := range header {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		switch strings.ToLower(strings.TrimSpace(column)) {
		case "customer_name":
			fields.CustomerName = value
		case "total_amount":
			fields.TotalAmount = model.Amount(value)
		case "currency":
			fields.Currency = value
		case "country":
			fields.Country = value
		case "region":
			fields.Region = value
		case "tax_type":
			fields.TaxType = value
		case "tax_amount":
			fields.TaxAmount = model.Amount(value)
		}
	}
	return fields, nil
}

// Invoice returns a single record.
func (f *InvoiceFacade) Invoice(ctx context.Context, id string) (*model.Invoice, error) {
	return f.invoices.GetByID(ctx, id)
}

// Invoices lists records, optionally filtered by status.
func (f *InvoiceFacade) Invoices(ctx context.Context, status model.InvoiceStatus, limit int) ([]model.Invoice, error) {
	return f.invoices.List(ctx, repository.InvoiceFilter{Status: status, Limit: limit})
}

// InvoicesForProcessing claims the next batch of pending records.
func (f *InvoiceFacade) InvoicesForProcessing(ctx context.Context, limit int) ([]model.Invoice, error) {
	return f.invoices.ClaimBatch(ctx, limit)
}

// ProcessInvoice runs the pipeline for one claimed record.
func (f *InvoiceFacade) ProcessInvoice(ctx context.Context, invoice model.Invoice) error {
	return f.orchestrator.Process(ctx, invoice)
}

// GeneratePDF renders and stores the report for a validated record. The call
// is idempotent: an already attached location is returned as is.
func (f *InvoiceFacade) GeneratePDF(ctx context.Context, id string) (string, error) {
	cfg, err := f.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !cfg.EnablePDFGeneration {
		return "", domainErrors.ErrPDFDisabled
	}

	invoice, err := f.invoices.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if invoice.Status != model.InvoiceStatusValidated {
		return "", domainErrors.ErrNotValidated
	}
	if invoice.PDFLocation != "" {
		return invoice.PDFLocation, nil
	}

	document, err := f.renderer.Render(ctx, invoice)
	if err != nil {
		f.metrics.IncError(ctx, "renderer")
		return "", err
	}

	key := fmt.Sprintf("invoice-%s.pdf", invoice.ID)
	location, err := f.objects.Put(ctx, f.processedBucket, key, document, "application/pdf")
	if err != nil {
		f.metrics.IncError(ctx, "objectstore")
		return "", err
	}

	if err := f.invoices.AttachPDF(ctx, invoice.ID, location); err != nil {
		return "", err
	}
	_ = f.logs.Append(ctx, "INFO", "pdf", invoice.ID, fmt.Sprintf("report stored at %s", location))
	return location, nil
}

// PDFLocation returns the stored report location for a record.
func (f *InvoiceFacade) PDFLocation(ctx context.Context, id string) (string, error) {
	invoice, err := f.invoices.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if invoice.PDFLocation == "" {
		return "", domainErrors.ErrPDFNotReady
	}
	return invoice.PDFLocation, nil
}

// Stats aggregates record counts and processing timings.
func (f *InvoiceFacade) Stats(ctx context.Context) (*model.Stats, error) {
	return f.invoices.Stats(ctx)
}

// Settings returns the current operator configuration.
func (f *InvoiceFacade) Settings(ctx context.Context) (*model.Settings, error) {
	return f.settings.Get(ctx)
}

// UpdateSettings validates and stores a new operator configuration.
func (f *InvoiceFacade) UpdateSettings(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	return f.settings.Update(ctx, settings)
}

// Logs returns the most recent processing entries.
func (f *InvoiceFacade) Logs(ctx context.Context, limit int) ([]model.LogEntry, error) {
	return f.logs.List(ctx, limit)
}

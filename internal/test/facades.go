package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// WorkerFacadeStub mimics worker interactions with the application facade.
type WorkerFacadeStub struct {
	Batches        [][]model.Invoice
	ClaimFn        func(context.Context, int) ([]model.Invoice, error)
	ProcessFn      func(context.Context, model.Invoice) error
	Processed      []string
	mu             sync.Mutex
	claimCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// InvoicesForProcessing returns batches from configured queue.
func (s *WorkerFacadeStub) InvoicesForProcessing(ctx context.Context, limit int) ([]model.Invoice, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.claimCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ProcessInvoice records the processed identifier.
func (s *WorkerFacadeStub) ProcessInvoice(ctx context.Context, invoice model.Invoice) error {
	var err error
	if s.ProcessFn != nil {
		err = s.ProcessFn(ctx, invoice)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed = append(s.Processed, invoice.ID)
	return err
}

// InvoiceFlowFacadeStub provides controllable behaviour for HTTP endpoints.
type InvoiceFlowFacadeStub struct {
	SubmitFn      func(context.Context, model.InvoiceFields) (*model.Invoice, error)
	IngestFn      func(context.Context, string, string) (*model.Invoice, error)
	InvoiceFn     func(context.Context, string) (*model.Invoice, error)
	InvoicesFn    func(context.Context, model.InvoiceStatus, int) ([]model.Invoice, error)
	StatsFn       func(context.Context) (*model.Stats, error)
	GeneratePDFFn func(context.Context, string) (string, error)
	PDFLocationFn func(context.Context, string) (string, error)
	SettingsFn    func(context.Context) (*model.Settings, error)
	UpdateFn      func(context.Context, model.Settings) (*model.Settings, error)
	LogsFn        func(context.Context, int) ([]model.LogEntry, error)
}

// SubmitInvoice delegates to the configured function or echoes the payload.
func (s InvoiceFlowFacadeStub) SubmitInvoice(ctx context.Context, fields model.InvoiceFields) (*model.Invoice, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, fields)
	}
	return &model.Invoice{ID: "inv-1", Status: model.InvoiceStatusIntaken, Fields: fields}, nil
}

// IngestNotification delegates to the configured function or returns a default record.
func (s InvoiceFlowFacadeStub) IngestNotification(ctx context.Context, bucket, key string) (*model.Invoice, error) {
	if s.IngestFn != nil {
		return s.IngestFn(ctx, bucket, key)
	}
	return &model.Invoice{ID: "inv-1", Status: model.InvoiceStatusIntaken, SourceKey: key}, nil
}

// Invoice delegates to the configured function or returns a default record.
func (s InvoiceFlowFacadeStub) Invoice(ctx context.Context, id string) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, id)
	}
	return &model.Invoice{ID: id, Status: model.InvoiceStatusValidated}, nil
}

// Invoices delegates to the configured function or returns one record.
func (s InvoiceFlowFacadeStub) Invoices(ctx context.Context, status model.InvoiceStatus, limit int) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx, status, limit)
	}
	return []model.Invoice{{ID: "inv-1", Status: model.InvoiceStatusIntaken}}, nil
}

// Stats delegates to the configured function or returns empty stats.
func (s InvoiceFlowFacadeStub) Stats(ctx context.Context) (*model.Stats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.Stats{ByStatus: map[model.InvoiceStatus]int{}}, nil
}

// GeneratePDF delegates to the configured function or returns a fixed location.
func (s InvoiceFlowFacadeStub) GeneratePDF(ctx context.Context, id string) (string, error) {
	if s.GeneratePDFFn != nil {
		return s.GeneratePDFFn(ctx, id)
	}
	return "invoice-" + id + ".pdf", nil
}

// PDFLocation delegates to the configured function or returns a fixed location.
func (s InvoiceFlowFacadeStub) PDFLocation(ctx context.Context, id string) (string, error) {
	if s.PDFLocationFn != nil {
		return s.PDFLocationFn(ctx, id)
	}
	return "invoice-" + id + ".pdf", nil
}

// Settings delegates to the configured function or returns defaults.
func (s InvoiceFlowFacadeStub) Settings(ctx context.Context) (*model.Settings, error) {
	if s.SettingsFn != nil {
		return s.SettingsFn(ctx)
	}
	defaults := model.DefaultSettings()
	return &defaults, nil
}

// UpdateSettings delegates to the configured function or echoes the payload.
func (s InvoiceFlowFacadeStub) UpdateSettings(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, settings)
	}
	return &settings, nil
}

// Logs delegates to the configured function or returns one entry.
func (s InvoiceFlowFacadeStub) Logs(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if s.LogsFn != nil {
		return s.LogsFn(ctx, limit)
	}
	return []model.LogEntry{{ID: "log-1", Level: "INFO", Message: "processing finished with status VALIDATED"}}, nil
}

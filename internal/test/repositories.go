package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

// InvoiceRepositoryStub stores invoice records in-memory for tests.
type InvoiceRepositoryStub struct {
	mu       sync.Mutex
	Invoices map[string]*model.Invoice
	Err      error
}

// NewInvoiceRepositoryStub constructs stub repository with initialized maps.
func NewInvoiceRepositoryStub() *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{Invoices: make(map[string]*model.Invoice)}
}

// Create stores a record unless the stub has an explicit error.
func (s *InvoiceRepositoryStub) Create(ctx context.Context, invoice *model.Invoice) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Invoices == nil {
		s.Invoices = make(map[string]*model.Invoice)
	}
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	stored := *invoice
	s.Invoices[invoice.ID] = &stored
	return nil
}

// GetByID fetches a record or returns not found.
func (s *InvoiceRepositoryStub) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if invoice, ok := s.Invoices[id]; ok {
		copied := *invoice
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns stored records filtered by status.
func (s *InvoiceRepositoryStub) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Invoice
	for _, invoice := range s.Invoices {
		if filter.Status != "" && invoice.Status != filter.Status {
			continue
		}
		result = append(result, *invoice)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// ClaimBatch moves pending records into VALIDATING and returns them.
func (s *InvoiceRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var claimed []model.Invoice
	for _, invoice := range s.Invoices {
		if invoice.Status != model.InvoiceStatusIntaken {
			continue
		}
		invoice.Status = model.InvoiceStatusValidating
		invoice.UpdatedAt = time.Now().UTC()
		claimed = append(claimed, *invoice)
		if limit > 0 && len(claimed) == limit {
			break
		}
	}
	return claimed, nil
}

// FinishProcessing persists a terminal status or returns not found.
func (s *InvoiceRepositoryStub) FinishProcessing(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, reviewRequired bool) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.Invoices[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	invoice.Status = status
	invoice.Result = result
	invoice.ReviewRequired = reviewRequired
	invoice.UpdatedAt = time.Now().UTC()
	return nil
}

// AttachPDF records a rendered report location.
func (s *InvoiceRepositoryStub) AttachPDF(ctx context.Context, id, location string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.Invoices[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	invoice.PDFLocation = location
	invoice.UpdatedAt = time.Now().UTC()
	return nil
}

// Stats aggregates counts over stored records.
func (s *InvoiceRepositoryStub) Stats(ctx context.Context) (*model.Stats, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.Stats{ByStatus: make(map[model.InvoiceStatus]int)}
	for _, invoice := range s.Invoices {
		stats.ByStatus[invoice.Status]++
		stats.Total++
	}
	return stats, nil
}

// LogRepositoryStub collects appended entries.
type LogRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.LogEntry
	Err     error
}

// Append stores a new entry.
func (s *LogRepositoryStub) Append(ctx context.Context, entry model.LogEntry) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, entry)
	return nil
}

// List returns stored entries up to limit.
func (s *LogRepositoryStub) List(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 && limit < len(s.Entries) {
		return append([]model.LogEntry(nil), s.Entries[:limit]...), nil
	}
	return append([]model.LogEntry(nil), s.Entries...), nil
}

// SettingsRepositoryStub holds a single configuration document.
type SettingsRepositoryStub struct {
	mu       sync.Mutex
	Settings *model.Settings
	Err      error
}

// Get returns the stored document or not found.
func (s *SettingsRepositoryStub) Get(ctx context.Context) (*model.Settings, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Settings == nil {
		return nil, domainErrors.ErrNotFound
	}
	copied := *s.Settings
	return &copied, nil
}

// Update replaces the stored document.
func (s *SettingsRepositoryStub) Update(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.UpdatedAt = time.Now().UTC()
	s.Settings = &settings
	copied := settings
	return &copied, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

type stubInvoiceRepository struct {
	createFn func(context.Context, *model.Invoice) error
	getFn    func(context.Context, string) (*model.Invoice, error)
	listFn   func(context.Context, repository.InvoiceFilter) ([]model.Invoice, error)
}

func (s stubInvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return s.createFn(ctx, invoice)
}

func (s stubInvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	return s.getFn(ctx, id)
}

func (s stubInvoiceRepository) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, error) {
	return s.listFn(ctx, filter)
}

func (stubInvoiceRepository) ClaimBatch(context.Context, int) ([]model.Invoice, error) {
	panic("not implemented")
}

func (stubInvoiceRepository) FinishProcessing(context.Context, string, model.InvoiceStatus, *model.PipelineResult, bool) error {
	panic("not implemented")
}

func (stubInvoiceRepository) AttachPDF(context.Context, string, string) error {
	panic("not implemented")
}

func (stubInvoiceRepository) Stats(context.Context) (*model.Stats, error) {
	panic("not implemented")
}

func TestInvoiceUseCaseIntakeAssignsIdentifier(t *testing.T) {
	var stored *model.Invoice
	uc := NewInvoiceUseCase(stubInvoiceRepository{createFn: func(_ context.Context, invoice *model.Invoice) error {
		stored = invoice
		return nil
	}})

	fields := model.InvoiceFields{CustomerName: "Acme", TotalAmount: "100", Currency: "USD"}
	invoice, err := uc.Intake(context.Background(), fields, "uploads/invoice.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoice.ID == "" {
		t.Fatal("expected generated identifier")
	}
	if invoice.Status != model.InvoiceStatusIntaken {
		t.Fatalf("expected INTAKEN status, got %s", invoice.Status)
	}
	if invoice.SourceKey != "uploads/invoice.json" {
		t.Fatalf("unexpected source key %s", invoice.SourceKey)
	}
	if stored != invoice {
		t.Fatal("expected record to be persisted")
	}
}

func TestInvoiceUseCaseIntakeFreshIdentifierPerEvent(t *testing.T) {
	uc := NewInvoiceUseCase(stubInvoiceRepository{createFn: func(context.Context, *model.Invoice) error {
		return nil
	}})

	fields := model.InvoiceFields{CustomerName: "Acme", TotalAmount: "100", Currency: "USD"}
	first, err := uc.Intake(context.Background(), fields, "uploads/same.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Intake(context.Background(), fields, "uploads/same.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("re-delivery of the same source must create an independent record")
	}
}

func TestInvoiceUseCaseIntakePropagatesError(t *testing.T) {
	storageErr := errors.New("connection lost")
	uc := NewInvoiceUseCase(stubInvoiceRepository{createFn: func(context.Context, *model.Invoice) error {
		return storageErr
	}})

	if _, err := uc.Intake(context.Background(), model.InvoiceFields{}, ""); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error to be returned, got %v", err)
	}
}

func TestInvoiceUseCaseGetByID(t *testing.T) {
	uc := NewInvoiceUseCase(stubInvoiceRepository{getFn: func(_ context.Context, id string) (*model.Invoice, error) {
		if id != "abc" {
			t.Fatalf("unexpected id %s", id)
		}
		return nil, domainErrors.ErrNotFound
	}})

	if _, err := uc.GetByID(context.Background(), "abc"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvoiceUseCaseListPassesFilter(t *testing.T) {
	uc := NewInvoiceUseCase(stubInvoiceRepository{listFn: func(_ context.Context, filter repository.InvoiceFilter) ([]model.Invoice, error) {
		if filter.Status != model.InvoiceStatusValidated || filter.Limit != 5 {
			t.Fatalf("unexpected filter %+v", filter)
		}
		return []model.Invoice{{ID: "1"}}, nil
	}})

	invoices, err := uc.List(context.Background(), repository.InvoiceFilter{Status: model.InvoiceStatusValidated, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected one invoice, got %d", len(invoices))
	}
}

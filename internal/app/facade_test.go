package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/pipeline"
	"github.com/globalinvoice/invoiceflow/internal/rates"
	testhelpers "github.com/globalinvoice/invoiceflow/internal/test"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

type facadeFixture struct {
	facade   *InvoiceFacade
	invoices *testhelpers.InvoiceRepositoryStub
	settings *testhelpers.SettingsRepositoryStub
	logs     *testhelpers.LogRepositoryStub
	objects  *testhelpers.MemoryObjectStore
	renderer *testhelpers.RendererStub
	agent    *testhelpers.AgentClientStub
	sink     *testhelpers.SinkRecorder
}

func newFacadeFixture() *facadeFixture {
	f := &facadeFixture{
		invoices: testhelpers.NewInvoiceRepositoryStub(),
		settings: &testhelpers.SettingsRepositoryStub{},
		logs:     &testhelpers.LogRepositoryStub{},
		objects:  testhelpers.NewMemoryObjectStore(),
		renderer: &testhelpers.RendererStub{},
		agent:    &testhelpers.AgentClientStub{},
		sink:     &testhelpers.SinkRecorder{},
	}

	table := rates.NewTable()
	invoiceUC := usecase.NewInvoiceUseCase(f.invoices)
	settingsUC := usecase.NewSettingsUseCase(f.settings)
	logUC := usecase.NewLogUseCase(f.logs)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	orchestrator := pipeline.NewOrchestrator(
		pipeline.Stages{
			Validator:   usecase.NewValidatorUseCase(table),
			Tax:         usecase.NewTaxUseCase(table),
			Currency:    usecase.NewCurrencyUseCase(table),
			Discrepancy: usecase.NewDiscrepancyUseCase(),
		},
		invoiceUC, logUC, settingsUC, f.agent, f.sink, logger,
	)

	f.facade = NewInvoiceFacade(invoiceUC, settingsUC, logUC, orchestrator,
		f.renderer, f.objects, f.sink, "invoices-raw", "invoices-processed")
	return f
}

func TestSubmitInvoice(t *testing.T) {
	f := newFacadeFixture()

	invoice, err := f.facade.SubmitInvoice(context.Background(), model.InvoiceFields{
		CustomerName: "Acme Corp",
		TotalAmount:  "150.00",
		Currency:     "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoice.ID == "" {
		t.Fatal("expected generated identifier")
	}
	if invoice.Status != model.InvoiceStatusIntaken {
		t.Fatalf("expected INTAKEN, got %s", invoice.Status)
	}
	if f.sink.Uploaded != 1 {
		t.Fatalf("expected one uploaded increment, got %d", f.sink.Uploaded)
	}
	if len(f.logs.Entries) != 1 {
		t.Fatalf("expected an intake log entry")
	}
}

func TestSubmitInvoiceCreatesIndependentRecords(t *testing.T) {
	f := newFacadeFixture()
	fields := model.InvoiceFields{CustomerName: "Acme Corp", TotalAmount: "10", Currency: "USD"}

	first, err := f.facade.SubmitInvoice(context.Background(), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.facade.SubmitInvoice(context.Background(), fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("re-submission must create an independent record")
	}
}

func TestIngestNotificationJSON(t *testing.T) {
	f := newFacadeFixture()
	f.objects.Objects["invoices-raw/uploads/inv.json"] = []byte(`{"customer_name":"Acme Corp","total_amount":"99.50","currency":"EUR","country":"DE"}`)

	invoice, err := f.facade.IngestNotification(context.Background(), "invoices-raw", "uploads/inv.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoice.Fields.CustomerName != "Acme Corp" || invoice.Fields.Currency != "EUR" {
		t.Fatalf("payload not decoded: %+v", invoice.Fields)
	}
	if invoice.SourceKey != "uploads/inv.json" {
		t.Fatalf("source key not recorded: %q", invoice.SourceKey)
	}
}

func TestIngestNotificationCSVFallback(t *testing.T) {
	f := newFacadeFixture()
	f.objects.Objects["invoices-raw/uploads/inv.csv"] = []byte(
		"customer_name,total_amount,currency,country,region,tax_type\nAcme Corp,150.00,USD,US,CA,SALES_TAX\n")

	invoice, err := f.facade.IngestNotification(context.Background(), "invoices-raw", "uploads/inv.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoice.Fields.CustomerName != "Acme Corp" {
		t.Fatalf("csv customer not mapped: %+v", invoice.Fields)
	}
	if invoice.Fields.TotalAmount != "150.00" || invoice.Fields.Region != "CA" {
		t.Fatalf("csv columns not mapped: %+v", invoice.Fields)
	}
}

func TestIngestNotificationRejectsForeignBucket(t *testing.T) {
	f := newFacadeFixture()
	if _, err := f.facade.IngestNotification(context.Background(), "other-bucket", "x.json"); !errors.Is(err, domainErrors.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}

func TestIngestNotificationMissingObject(t *testing.T) {
	f := newFacadeFixture()
	if _, err := f.facade.IngestNotification(context.Background(), "invoices-raw", "missing.json"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIngestNotificationUnparseablePayload(t *testing.T) {
	f := newFacadeFixture()
	f.objects.Objects["invoices-raw/garbage.bin"] = []byte("\"unterminated")

	if _, err := f.facade.IngestNotification(context.Background(), "invoices-raw", "garbage.bin"); !errors.Is(err, domainErrors.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}

func TestGeneratePDF(t *testing.T) {
	f := newFacadeFixture()
	f.invoices.Invoices["inv-1"] = &model.Invoice{
		ID:     "inv-1",
		Status: model.InvoiceStatusValidated,
		Fields: model.InvoiceFields{CustomerName: "Acme Corp"},
	}

	location, err := f.facade.GeneratePDF(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "invoice-inv-1.pdf" {
		t.Fatalf("unexpected location: %q", location)
	}
	if _, ok := f.objects.Objects["invoices-processed/invoice-inv-1.pdf"]; !ok {
		t.Fatal("document not stored in processed bucket")
	}
	if f.invoices.Invoices["inv-1"].PDFLocation != location {
		t.Fatal("location not attached to record")
	}

	// A second call returns the attached location without re-rendering.
	location, err = f.facade.GeneratePDF(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.renderer.Rendered) != 1 {
		t.Fatalf("expected exactly one render, got %d", len(f.renderer.Rendered))
	}
	if location != "invoice-inv-1.pdf" {
		t.Fatalf("idempotent call changed location: %q", location)
	}
}

func TestGeneratePDFRequiresValidated(t *testing.T) {
	f := newFacadeFixture()
	for _, status := range []model.InvoiceStatus{
		model.InvoiceStatusIntaken,
		model.InvoiceStatusValidating,
		model.InvoiceStatusValidationFailed,
		model.InvoiceStatusNeedsReview,
		model.InvoiceStatusError,
	} {
		f.invoices.Invoices["inv-1"] = &model.Invoice{ID: "inv-1", Status: status}
		if _, err := f.facade.GeneratePDF(context.Background(), "inv-1"); !errors.Is(err, domainErrors.ErrNotValidated) {
			t.Fatalf("status %s: expected not validated error, got %v", status, err)
		}
	}
	if len(f.objects.Objects) != 0 {
		t.Fatal("no object may be written for non-validated records")
	}
}

func TestGeneratePDFDisabled(t *testing.T) {
	f := newFacadeFixture()
	disabled := model.DefaultSettings()
	disabled.EnablePDFGeneration = false
	f.settings.Settings = &disabled
	f.invoices.Invoices["inv-1"] = &model.Invoice{ID: "inv-1", Status: model.InvoiceStatusValidated}

	if _, err := f.facade.GeneratePDF(context.Background(), "inv-1"); !errors.Is(err, domainErrors.ErrPDFDisabled) {
		t.Fatalf("expected pdf disabled error, got %v", err)
	}
}

func TestGeneratePDFRendererFailure(t *testing.T) {
	f := newFacadeFixture()
	f.renderer.Err = errors.New("chromium crashed")
	f.invoices.Invoices["inv-1"] = &model.Invoice{ID: "inv-1", Status: model.InvoiceStatusValidated}

	if _, err := f.facade.GeneratePDF(context.Background(), "inv-1"); err == nil {
		t.Fatal("expected renderer error")
	}
	if len(f.sink.Errors) != 1 || f.sink.Errors[0] != "renderer" {
		t.Fatalf("expected renderer error metric: %v", f.sink.Errors)
	}
}

func TestPDFLocation(t *testing.T) {
	f := newFacadeFixture()
	f.invoices.Invoices["inv-1"] = &model.Invoice{ID: "inv-1", Status: model.InvoiceStatusValidated}

	if _, err := f.facade.PDFLocation(context.Background(), "inv-1"); !errors.Is(err, domainErrors.ErrPDFNotReady) {
		t.Fatalf("expected pdf not ready, got %v", err)
	}

	f.invoices.Invoices["inv-1"].PDFLocation = "invoice-inv-1.pdf"
	location, err := f.facade.PDFLocation(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "invoice-inv-1.pdf" {
		t.Fatalf("unexpected location: %q", location)
	}
}

func TestSettingsFallBackToDefaults(t *testing.T) {
	f := newFacadeFixture()

	settings, err := f.facade.Settings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defaults := model.DefaultSettings()
	if !settings.AutoApprovalThreshold.Equal(defaults.AutoApprovalThreshold) {
		t.Fatalf("expected default threshold, got %v", settings.AutoApprovalThreshold)
	}
}

func TestProcessInvoiceThroughFacade(t *testing.T) {
	f := newFacadeFixture()
	f.invoices.Invoices["inv-1"] = &model.Invoice{
		ID:     "inv-1",
		Status: model.InvoiceStatusIntaken,
		Fields: model.InvoiceFields{
			CustomerName: "Acme Corp",
			TotalAmount:  "150.00",
			Currency:     "USD",
			Country:      "US",
			Region:       "CA",
			TaxType:      "SALES_TAX",
		},
	}

	claimed, err := f.facade.InvoicesForProcessing(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claimed) != 1 || claimed[0].Status != model.InvoiceStatusValidating {
		t.Fatalf("unexpected claim result: %+v", claimed)
	}

	if err := f.facade.ProcessInvoice(context.Background(), claimed[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.invoices.Invoices["inv-1"].Status != model.InvoiceStatusValidated {
		t.Fatalf("expected VALIDATED, got %s", f.invoices.Invoices["inv-1"].Status)
	}
}

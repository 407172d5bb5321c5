package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/rates"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

type recordStoreStub struct {
	id     string
	status model.InvoiceStatus
	result *model.PipelineResult
	review bool
	err    error
	calls  int
}

func (s *recordStoreStub) FinishProcessing(_ context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, review bool) error {
	s.calls++
	s.id, s.status, s.result, s.review = id, status, result, review
	return s.err
}

type auditStub struct {
	level   string
	message string
	err     error
}

func (s *auditStub) Append(_ context.Context, level, _, _, message string) error {
	s.level, s.message = level, message
	return s.err
}

type settingsStub struct {
	settings model.Settings
	err      error
}

func (s *settingsStub) Get(context.Context) (*model.Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := s.settings
	return &cfg, nil
}

type agentStub struct {
	assessment *agent.Assessment
	err        error
	invoked    bool
}

func (s *agentStub) Invoke(context.Context, agent.InvocationRequest) (*agent.Assessment, error) {
	s.invoked = true
	return s.assessment, s.err
}

type sinkStub struct {
	processed []string
	errors    []string
	observed  int
}

func (s *sinkStub) IncProcessed(_ context.Context, status string) {
	s.processed = append(s.processed, status)
}
func (s *sinkStub) IncUploaded(context.Context)    {}
func (s *sinkStub) IncError(_ context.Context, source string) {
	s.errors = append(s.errors, source)
}
func (s *sinkStub) ObserveProcessing(context.Context, time.Duration) { s.observed++ }

type fixture struct {
	orchestrator *Orchestrator
	records      *recordStoreStub
	audit        *auditStub
	settings     *settingsStub
	agent        *agentStub
	sink         *sinkStub
}

func newFixture() *fixture {
	table := rates.NewTable()
	f := &fixture{
		records:  &recordStoreStub{},
		audit:    &auditStub{},
		settings: &settingsStub{settings: model.DefaultSettings()},
		agent:    &agentStub{assessment: &agent.Assessment{Status: "success", Response: "invoice looks legitimate"}},
		sink:     &sinkStub{},
	}
	stages := Stages{
		Validator:   usecase.NewValidatorUseCase(table),
		Tax:         usecase.NewTaxUseCase(table),
		Currency:    usecase.NewCurrencyUseCase(table),
		Discrepancy: usecase.NewDiscrepancyUseCase(),
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.orchestrator = NewOrchestrator(stages, f.records, f.audit, f.settings, f.agent, f.sink, logger)
	return f
}

func validInvoice() model.Invoice {
	return model.Invoice{
		ID:     "inv-1",
		Status: model.InvoiceStatusValidating,
		Fields: model.InvoiceFields{
			CustomerName: "Acme Corp",
			TotalAmount:  "150.00",
			Currency:     "USD",
			Country:      "US",
			Region:       "CA",
			TaxType:      "SALES_TAX",
		},
	}
}

func TestProcessValidated(t *testing.T) {
	f := newFixture()

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidated {
		t.Fatalf("expected VALIDATED, got %s", f.records.status)
	}
	if f.records.review {
		t.Fatal("review flag must stay clear")
	}
	if f.records.result.Validation == nil || !f.records.result.Validation.Valid {
		t.Fatalf("validation result missing: %+v", f.records.result)
	}
	if f.records.result.Tax == nil || f.records.result.Tax.Tier != model.TaxTierExact {
		t.Fatalf("expected exact tax tier: %+v", f.records.result.Tax)
	}
	if f.records.result.Conversion == nil || f.records.result.Conversion.ToCurrency != "USD" {
		t.Fatalf("conversion missing: %+v", f.records.result.Conversion)
	}
	if f.records.result.Assessment != "invoice looks legitimate" {
		t.Fatalf("assessment not captured: %q", f.records.result.Assessment)
	}
	if len(f.sink.processed) != 1 || f.sink.processed[0] != "VALIDATED" {
		t.Fatalf("unexpected processed metric: %v", f.sink.processed)
	}
	if f.sink.observed != 1 {
		t.Fatal("expected one duration observation")
	}
	if f.audit.level != "INFO" {
		t.Fatalf("expected INFO audit entry, got %s", f.audit.level)
	}
}

func TestProcessValidationFailed(t *testing.T) {
	f := newFixture()
	invoice := validInvoice()
	invoice.Fields.CustomerName = ""
	invoice.Fields.TotalAmount = ""

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %s", f.records.status)
	}
	if f.agent.invoked {
		t.Fatal("agent must not run for invalid records")
	}
	if f.records.result.Validation == nil || len(f.records.result.Validation.Errors) == 0 {
		t.Fatalf("validation errors not preserved: %+v", f.records.result)
	}
	if f.audit.level != "ERROR" {
		t.Fatalf("expected ERROR audit entry, got %s", f.audit.level)
	}
}

func TestProcessUnsupportedCurrency(t *testing.T) {
	f := newFixture()
	invoice := validInvoice()
	invoice.Fields.Currency = "ZWL"

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %s", f.records.status)
	}
	if !strings.Contains(f.records.result.Error, "unsupported currency") {
		t.Fatalf("conversion error not captured: %q", f.records.result.Error)
	}
	if f.agent.invoked {
		t.Fatal("agent must not run after a conversion failure")
	}
}

func TestProcessUnknownTaxTierWarnsButValidates(t *testing.T) {
	f := newFixture()
	f.settings.settings.EnabledCountries = []string{"US", "UK", "IN", "MX"}
	invoice := validInvoice()
	invoice.Fields.Country = "MX"
	invoice.Fields.Region = ""
	invoice.Fields.TaxType = "VAT"

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidated {
		t.Fatalf("unknown tier must not block, got %s", f.records.status)
	}
	if f.records.result.Tax.Tier != model.TaxTierUnknown {
		t.Fatalf("expected unknown tier: %+v", f.records.result.Tax)
	}
	if len(f.records.result.Warnings) == 0 || !strings.Contains(f.records.result.Warnings[0], "MX") {
		t.Fatalf("expected jurisdiction warning: %v", f.records.result.Warnings)
	}
}

func TestProcessAgentUnavailableRoutesToReview(t *testing.T) {
	f := newFixture()
	f.agent.assessment = nil
	f.agent.err = agent.UnavailableError{Cause: errors.New("connection refused")}

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusNeedsReview {
		t.Fatalf("expected NEEDS_REVIEW, got %s", f.records.status)
	}
	if !f.records.review {
		t.Fatal("review flag must be set")
	}
	if f.records.result.Validation == nil || !f.records.result.Validation.Valid {
		t.Fatal("earlier validation result must survive an agent outage")
	}
	if len(f.sink.errors) != 1 || f.sink.errors[0] != "agent" {
		t.Fatalf("expected agent error metric: %v", f.sink.errors)
	}
}

func TestProcessAgentTimeoutRoutesToReview(t *testing.T) {
	f := newFixture()
	f.agent.assessment = nil
	f.agent.err = agent.ErrInvocationTimeout

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusNeedsReview || !f.records.review {
		t.Fatalf("expected NEEDS_REVIEW with review flag, got %s", f.records.status)
	}
}

func TestProcessAgentRejection(t *testing.T) {
	f := newFixture()
	f.agent.assessment = nil
	f.agent.err = errors.New("agent reported error: ledger mismatch")

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %s", f.records.status)
	}
	if !strings.Contains(f.records.result.Error, "ledger mismatch") {
		t.Fatalf("agent error not captured: %q", f.records.result.Error)
	}
}

func TestProcessHighDiscrepancyNeedsReview(t *testing.T) {
	f := newFixture()
	invoice := validInvoice()
	invoice.Fields.Expected = &model.ExpectedValues{TotalAmount: "100.00"}

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusNeedsReview || !f.records.review {
		t.Fatalf("expected NEEDS_REVIEW, got %s", f.records.status)
	}
	if f.records.result.Discrepancies == nil || f.records.result.Discrepancies.Severity != model.SeverityHigh {
		t.Fatalf("discrepancy report missing: %+v", f.records.result.Discrepancies)
	}
}

func TestProcessAboveThresholdNeedsReview(t *testing.T) {
	f := newFixture()
	invoice := validInvoice()
	invoice.Fields.TotalAmount = "25000.00"

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusNeedsReview || !f.records.review {
		t.Fatalf("expected NEEDS_REVIEW above threshold, got %s", f.records.status)
	}
	if f.audit.level != "WARNING" {
		t.Fatalf("expected WARNING audit entry, got %s", f.audit.level)
	}
}

func TestProcessDisabledCountryNeedsReview(t *testing.T) {
	f := newFixture()
	invoice := validInvoice()
	invoice.Fields.Country = "DE"
	invoice.Fields.Region = ""
	invoice.Fields.TaxType = "VAT"

	if err := f.orchestrator.Process(context.Background(), invoice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusNeedsReview {
		t.Fatalf("expected NEEDS_REVIEW for disabled country, got %s", f.records.status)
	}
}

func TestProcessSettingsFailure(t *testing.T) {
	f := newFixture()
	f.settings.err = errors.New("settings store down")

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.records.status != model.InvoiceStatusError {
		t.Fatalf("expected ERROR, got %s", f.records.status)
	}
	if len(f.sink.errors) != 1 || f.sink.errors[0] != "settings" {
		t.Fatalf("expected settings error metric: %v", f.sink.errors)
	}
}

func TestProcessPersistFailure(t *testing.T) {
	f := newFixture()
	f.records.err = errors.New("db down")

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err == nil {
		t.Fatal("expected persist error to propagate")
	}
	if len(f.sink.processed) != 0 {
		t.Fatal("processed counter must not move on persist failure")
	}
	if f.sink.errors[len(f.sink.errors)-1] != "storage" {
		t.Fatalf("expected storage error metric: %v", f.sink.errors)
	}
}

func TestProcessAuditFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.audit.err = errors.New("log table missing")

	if err := f.orchestrator.Process(context.Background(), validInvoice()); err != nil {
		t.Fatalf("audit failure must not fail the run: %v", err)
	}
	if f.records.status != model.InvoiceStatusValidated {
		t.Fatalf("expected VALIDATED, got %s", f.records.status)
	}
}

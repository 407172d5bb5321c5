package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/metrics"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

const reportingCurrency = "USD"

// RecordStore persists the outcome of a pipeline run.
type RecordStore interface {
	FinishProcessing(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, reviewRequired bool) error
}

// AuditLog appends processing log entries.
type AuditLog interface {
	Append(ctx context.Context, level, source, invoiceID, message string) error
}

// SettingsSource supplies the current operator configuration.
type SettingsSource interface {
	Get(ctx context.Context) (*model.Settings, error)
}

// Stages groups the pure computation stages a run walks through.
type Stages struct {
	Validator   *usecase.ValidatorUseCase
	Tax         *usecase.TaxUseCase
	Currency    *usecase.CurrencyUseCase
	Discrepancy *usecase.DiscrepancyUseCase
}

// Orchestrator drives one claimed record through the full pipeline and
// persists a terminal status. Records are independent: a failure in one run
// never affects another.
type Orchestrator struct {
	stages   Stages
	records  RecordStore
	audit    AuditLog
	settings SettingsSource
	agent    agent.Client
	metrics  metrics.Sink
	logger   *slog.Logger
}

// NewOrchestrator constructs Orchestrator.
func NewOrchestrator(stages Stages, records RecordStore, audit AuditLog, settings SettingsSource, agentClient agent.Client, sink metrics.Sink, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		stages:   stages,
		records:  records,
		audit:    audit,
		settings: settings,
		agent:    agentClient,
		metrics:  sink,
		logger:   logger,
	}
}

// Process runs the pipeline for a record already claimed into VALIDATING.
// A crash before the final persist leaves the record in VALIDATING, where a
// later claim pass can pick it up again.
func (o *Orchestrator) Process(ctx context.Context, invoice model.Invoice) error {
	started := time.Now()

	cfg, err := o.settings.Get(ctx)
	if err != nil {
		o.metrics.IncError(ctx, "settings")
		return o.finish(ctx, invoice.ID, model.InvoiceStatusError,
			&model.PipelineResult{Error: err.Error()}, false, started)
	}

	runCtx := ctx
	if cfg.MaxProcessingTime > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.MaxProcessingTime)*time.Second)
		defer cancel()
	}

	result := &model.PipelineResult{}

	validation := o.stages.Validator.Validate(invoice.Fields)
	result.Validation = &validation
	if !validation.Valid {
		return o.finish(ctx, invoice.ID, model.InvoiceStatusValidationFailed, result, false, started)
	}

	quote := o.stages.Tax.Resolve(invoice.Fields.Country, invoice.Fields.Region, invoice.Fields.TaxType)
	result.Tax = &quote
	if quote.Tier == model.TaxTierUnknown {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No tax rate configured for %s", invoice.Fields.Country))
	}

	amount, err := invoice.Fields.TotalAmount.Decimal()
	if err != nil {
		result.Error = err.Error()
		return o.finish(ctx, invoice.ID, model.InvoiceStatusError, result, false, started)
	}

	conversion, err := o.stages.Currency.Convert(amount, invoice.Fields.Currency, reportingCurrency)
	if err != nil {
		result.Error = err.Error()
		return o.finish(ctx, invoice.ID, model.InvoiceStatusValidationFailed, result, false, started)
	}
	result.Conversion = conversion

	if invoice.Fields.Expected != nil {
		report := o.stages.Discrepancy.Detect(invoice.Fields, *invoice.Fields.Expected)
		result.Discrepancies = &report
	}

	assessment, err := o.agent.Invoke(runCtx, agent.InvocationRequest{
		InvoiceData: invoice.Fields,
		Operation:   agent.OperationValidate,
		InvoiceID:   invoice.ID,
	})
	if err != nil {
		var unavailable agent.UnavailableError
		if errors.As(err, &unavailable) || errors.Is(err, agent.ErrInvocationTimeout) {
			o.metrics.IncError(ctx, "agent")
			o.logger.Warn("agent runtime unreachable, routing to review",
				slog.String("invoice_id", invoice.ID),
				slog.String("error", err.Error()),
			)
			return o.finish(ctx, invoice.ID, model.InvoiceStatusNeedsReview, result, true, started)
		}
		result.Error = err.Error()
		return o.finish(ctx, invoice.ID, model.InvoiceStatusValidationFailed, result, false, started)
	}
	result.Assessment = assessment.Response

	status, review := o.decide(invoice.Fields, result, cfg)
	return o.finish(ctx, invoice.ID, status, result, review, started)
}

// decide picks the terminal status once every stage has run cleanly.
func (o *Orchestrator) decide(fields model.InvoiceFields, result *model.PipelineResult, cfg *model.Settings) (model.InvoiceStatus, bool) {
	if result.Discrepancies != nil && result.Discrepancies.Severity == model.SeverityHigh {
		return model.InvoiceStatusNeedsReview, true
	}
	if result.Conversion.ConvertedAmount.GreaterThan(cfg.AutoApprovalThreshold) {
		return model.InvoiceStatusNeedsReview, true
	}
	if !cfg.CountryEnabled(fields.Country) {
		return model.InvoiceStatusNeedsReview, true
	}
	return model.InvoiceStatusValidated, false
}

// finish persists the outcome and emits audit and metric signals. The persist
// uses the parent context so a run-bound timeout cannot lose a computed
// result.
func (o *Orchestrator) finish(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, review bool, started time.Time) error {
	if err := o.records.FinishProcessing(ctx, id, status, result, review); err != nil {
		o.metrics.IncError(ctx, "storage")
		o.logger.Error("failed to persist pipeline outcome",
			slog.String("invoice_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	level := "INFO"
	if status == model.InvoiceStatusError || status == model.InvoiceStatusValidationFailed {
		level = "ERROR"
	} else if status == model.InvoiceStatusNeedsReview {
		level = "WARNING"
	}
	if err := o.audit.Append(ctx, level, "pipeline", id, fmt.Sprintf("processing finished with status %s", status)); err != nil {
		o.logger.Warn("failed to append processing log",
			slog.String("invoice_id", id),
			slog.String("error", err.Error()),
		)
	}

	o.metrics.IncProcessed(ctx, string(status))
	o.metrics.ObserveProcessing(ctx, time.Since(started))

	o.logger.Info("pipeline run finished",
		slog.String("invoice_id", id),
		slog.String("status", string(status)),
		slog.Bool("review_required", review),
	)
	return nil
}

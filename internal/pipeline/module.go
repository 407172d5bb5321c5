package pipeline

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	"github.com/globalinvoice/invoiceflow/internal/metrics"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

// Module wires the pipeline orchestrator.
var Module = fx.Provide(newOrchestrator)

type orchestratorParams struct {
	fx.In

	Validator   *usecase.ValidatorUseCase
	Tax         *usecase.TaxUseCase
	Currency    *usecase.CurrencyUseCase
	Discrepancy *usecase.DiscrepancyUseCase
	Invoices    *usecase.InvoiceUseCase
	Settings    *usecase.SettingsUseCase
	Logs        *usecase.LogUseCase
	Agent       agent.Client
	Metrics     metrics.Sink
	Logger      *slog.Logger
}

func newOrchestrator(p orchestratorParams) *Orchestrator {
	stages := Stages{
		Validator:   p.Validator,
		Tax:         p.Tax,
		Currency:    p.Currency,
		Discrepancy: p.Discrepancy,
	}
	return NewOrchestrator(stages, p.Invoices, p.Logs, p.Settings, p.Agent, p.Metrics, p.Logger)
}

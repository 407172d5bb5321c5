package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/adapter/objectstore"
	"github.com/globalinvoice/invoiceflow/internal/config"
	"github.com/globalinvoice/invoiceflow/internal/metrics"
	"github.com/globalinvoice/invoiceflow/internal/pipeline"
	"github.com/globalinvoice/invoiceflow/internal/renderer"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
	"github.com/globalinvoice/invoiceflow/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newInvoiceFacade,
		newHTTPServer,
		newInvoiceProcessor,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Invoices     *usecase.InvoiceUseCase
	Settings     *usecase.SettingsUseCase
	Logs         *usecase.LogUseCase
	Orchestrator *pipeline.Orchestrator
	Renderer     renderer.Renderer
	Objects      objectstore.Store
	Metrics      metrics.Sink
	Config       *config.Config
}

func newInvoiceFacade(p facadeParams) *InvoiceFacade {
	return NewInvoiceFacade(
		p.Invoices,
		p.Settings,
		p.Logs,
		p.Orchestrator,
		p.Renderer,
		p.Objects,
		p.Metrics,
		p.Config.RawBucket,
		p.Config.ProcessedBucket,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *InvoiceFacade
	Config *config.Config
	Logger *slog.Logger
}

func newInvoiceProcessor(p workerParams) *worker.InvoiceProcessor {
	return worker.NewInvoiceProcessor(
		p.Facade,
		p.Config.PollInterval,
		p.Config.MaxIntakeBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.InvoiceProcessor
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting invoiceflow", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("invoiceflow stopped")
			return nil
		},
	})
}

package di

import (
	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	"github.com/globalinvoice/invoiceflow/internal/adapter/objectstore"
	"github.com/globalinvoice/invoiceflow/internal/app"
	"github.com/globalinvoice/invoiceflow/internal/config"
	"github.com/globalinvoice/invoiceflow/internal/logger"
	"github.com/globalinvoice/invoiceflow/internal/metrics"
	"github.com/globalinvoice/invoiceflow/internal/pipeline"
	"github.com/globalinvoice/invoiceflow/internal/rates"
	"github.com/globalinvoice/invoiceflow/internal/renderer"
	"github.com/globalinvoice/invoiceflow/internal/server/http/handlers"
	"github.com/globalinvoice/invoiceflow/internal/server/http/router"
	"github.com/globalinvoice/invoiceflow/internal/storage/postgres"
	"github.com/globalinvoice/invoiceflow/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		rates.Module,
		postgres.Module,
		objectstore.Module,
		agent.Module,
		metrics.Module,
		renderer.Module,
		usecase.Module,
		pipeline.Module,
		fx.Provide(func(f *app.InvoiceFacade) handlers.InvoiceFlowFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

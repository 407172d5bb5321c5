package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	"github.com/globalinvoice/invoiceflow/internal/adapter/objectstore"
	"github.com/globalinvoice/invoiceflow/internal/app"
	"github.com/globalinvoice/invoiceflow/internal/config"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
	"github.com/globalinvoice/invoiceflow/internal/storage/postgres"
	"github.com/globalinvoice/invoiceflow/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:             ":0",
		DatabaseURI:            "postgres://stub",
		AgentRuntimeAddress:    "http://localhost",
		RawBucket:              "invoices-raw",
		ProcessedBucket:        "invoices-processed",
		AgentInvocationTimeout: time.Millisecond,
		PollInterval:           time.Millisecond,
		WorkerPoolSize:         1,
		MaxIntakeBatch:         1,
		ShutdownTimeout:        time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	invoiceRepo := test.NewInvoiceRepositoryStub()
	logRepo := &test.LogRepositoryStub{}
	settingsRepo := &test.SettingsRepositoryStub{}
	agentStub := &test.AgentClientStub{}
	objects := test.NewMemoryObjectStore()

	var facade *app.InvoiceFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(&objectstore.GCSStore{}),
			fx.Replace(repository.InvoiceRepository(invoiceRepo)),
			fx.Replace(repository.LogRepository(logRepo)),
			fx.Replace(repository.SettingsRepository(settingsRepo)),
			fx.Replace(agent.Client(agentStub)),
			fx.Replace(objectstore.Store(objects)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected invoice facade instance")
	}
}

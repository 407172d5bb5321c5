package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/config"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.InvoiceRepository { return s.Invoices() },
		func(s *Storage) repository.LogRepository { return s.Logs() },
		func(s *Storage) repository.SettingsRepository { return s.Settings() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}

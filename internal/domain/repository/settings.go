package repository

import (
	"context"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// SettingsRepository persists the single system configuration document.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, settings model.Settings) (*model.Settings, error)
}

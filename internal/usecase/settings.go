package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

// SettingsUseCase manages the operator configuration document.
type SettingsUseCase struct {
	settings repository.SettingsRepository
}

// NewSettingsUseCase constructs SettingsUseCase.
func NewSettingsUseCase(settings repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settings: settings}
}

// Get returns the current configuration, falling back to defaults when none
// was stored yet.
func (u *SettingsUseCase) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := u.settings.Get(ctx)
	if err == domainErrors.ErrNotFound {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	return settings, err
}

// Update validates and persists a new configuration.
func (u *SettingsUseCase) Update(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	if settings.AutoApprovalThreshold.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: auto_approval_threshold must be positive", domainErrors.ErrInvalidPayload)
	}
	if len(settings.EnabledCountries) == 0 {
		return nil, fmt.Errorf("%w: enabled_countries must not be empty", domainErrors.ErrInvalidPayload)
	}
	if settings.MaxProcessingTime <= 0 {
		return nil, fmt.Errorf("%w: max_processing_time must be positive", domainErrors.ErrInvalidPayload)
	}
	return u.settings.Update(ctx, settings)
}

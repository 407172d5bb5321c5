package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

const defaultLogLimit = 100

// LogUseCase appends and lists processing audit entries.
type LogUseCase struct {
	logs repository.LogRepository
}

// NewLogUseCase constructs LogUseCase.
func NewLogUseCase(logs repository.LogRepository) *LogUseCase {
	return &LogUseCase{logs: logs}
}

// Append stores a new entry with a generated identifier and timestamp.
func (u *LogUseCase) Append(ctx context.Context, level, source, invoiceID, message string) error {
	return u.logs.Append(ctx, model.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Source:    source,
		InvoiceID: invoiceID,
		Message:   message,
	})
}

// List returns the most recent entries.
func (u *LogUseCase) List(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	return u.logs.List(ctx, limit)
}

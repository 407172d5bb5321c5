package repository

import (
	"context"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// LogRepository stores processing audit entries.
type LogRepository interface {
	Append(ctx context.Context, entry model.LogEntry) error
	List(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// Package metrics reports pipeline counters and timings through the
// OpenTelemetry metric API. The deployment decides where the readings go; a
// missing meter provider degrades to no-ops.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Sink receives pipeline observations.
type Sink interface {
	IncProcessed(ctx context.Context, status string)
	IncUploaded(ctx context.Context)
	IncError(ctx context.Context, source string)
	ObserveProcessing(ctx context.Context, elapsed time.Duration)
}

// OTelSink implements Sink on the global meter provider.
type OTelSink struct {
	processed metric.Int64Counter
	uploaded  metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewOTelSink registers the pipeline instruments.
func NewOTelSink() (*OTelSink, error) {
	meter := otel.Meter("invoiceflow")

	processed, err := meter.Int64Counter("invoices_processed_total",
		metric.WithDescription("Invoices that completed a pipeline run"))
	if err != nil {
		return nil, fmt.Errorf("register processed counter: %w", err)
	}
	uploaded, err := meter.Int64Counter("invoices_uploaded_total",
		metric.WithDescription("Invoice intake events accepted"))
	if err != nil {
		return nil, fmt.Errorf("register uploaded counter: %w", err)
	}
	errCounter, err := meter.Int64Counter("processing_errors_total",
		metric.WithDescription("Pipeline and collaborator failures"))
	if err != nil {
		return nil, fmt.Errorf("register error counter: %w", err)
	}
	duration, err := meter.Float64Histogram("invoice_processing_seconds",
		metric.WithDescription("Wall time of one pipeline run"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("register duration histogram: %w", err)
	}

	return &OTelSink{
		processed: processed,
		uploaded:  uploaded,
		errors:    errCounter,
		duration:  duration,
	}, nil
}

func (s *OTelSink) IncProcessed(ctx context.Context, status string) {
	s.processed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (s *OTelSink) IncUploaded(ctx context.Context) {
	s.uploaded.Add(ctx, 1)
}

func (s *OTelSink) IncError(ctx context.Context, source string) {
	s.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (s *OTelSink) ObserveProcessing(ctx context.Context, elapsed time.Duration) {
	s.duration.Record(ctx, elapsed.Seconds())
}

package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// PipelineFacade exposes the subset of application functionality required by the worker.
type PipelineFacade interface {
	InvoicesForProcessing(ctx context.Context, limit int) ([]model.Invoice, error)
	ProcessInvoice(ctx context.Context, invoice model.Invoice) error
}

// InvoiceProcessor polls for claimed records and runs the pipeline concurrently.
type InvoiceProcessor struct {
	facade       PipelineFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Invoice
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewInvoiceProcessor constructs the processing worker pool.
func NewInvoiceProcessor(facade PipelineFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *InvoiceProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &InvoiceProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Invoice, batchSize*workers),
	}
}

// Start launches background processing.
func (p *InvoiceProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *InvoiceProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *InvoiceProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *InvoiceProcessor) fetchAndDispatch(ctx context.Context) {
	invoices, err := p.facade.InvoicesForProcessing(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("claim invoices for processing failed", slog.String("error", err.Error()))
		return
	}
	for _, invoice := range invoices {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- invoice:
		}
	}
}

func (p *InvoiceProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case invoice, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleInvoice(ctx, invoice)
		}
	}
}

// handleInvoice runs one record through the pipeline. Records are
// independent; a failed run is logged and the record stays claimable or
// terminal depending on where it failed.
func (p *InvoiceProcessor) handleInvoice(ctx context.Context, invoice model.Invoice) {
	if err := p.facade.ProcessInvoice(ctx, invoice); err != nil {
		p.logger.Error("pipeline run failed",
			slog.String("invoice_id", invoice.ID),
			slog.String("error", err.Error()),
		)
	}
}

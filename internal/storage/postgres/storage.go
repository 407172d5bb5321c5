package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/domain/repository"
)

const defaultListLimit = 100

// pgxPool is the subset of pgxpool.Pool the storage uses. Narrowing the
// dependency keeps the facade testable against a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type invoiceRepository struct {
	storage *Storage
}

type logRepository struct {
	storage *Storage
}

type settingsRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{storage: s}
}

func (s *Storage) Logs() repository.LogRepository {
	return &logRepository{storage: s}
}

func (s *Storage) Settings() repository.SettingsRepository {
	return &settingsRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            fields JSONB NOT NULL,
            source_key TEXT NOT NULL DEFAULT '',
            result JSONB,
            pdf_location TEXT NOT NULL DEFAULT '',
            review_required BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS processing_logs (
            id TEXT PRIMARY KEY,
            level TEXT NOT NULL,
            source TEXT NOT NULL DEFAULT '',
            invoice_id TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS system_settings (
            id SMALLINT PRIMARY KEY,
            document JSONB NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_processing_logs_created ON processing_logs(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// --- InvoiceRepository implementation ---

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	fields, err := json.Marshal(invoice.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	const query = `INSERT INTO invoices (id, status, fields, source_key)
                   VALUES ($1, $2, $3, $4)
                   RETURNING created_at, updated_at`
	row := r.storage.pool.QueryRow(ctx, query, invoice.ID, invoice.Status, fields, invoice.SourceKey)
	return row.Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	const query = `SELECT id, status, fields, source_key, result, pdf_location, review_required, created_at, updated_at
                   FROM invoices WHERE id=$1`
	row := r.storage.pool.QueryRow(ctx, query, id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	const base = `SELECT id, status, fields, source_key, result, pdf_location, review_required, created_at, updated_at
                  FROM invoices`
	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status != "" {
		rows, err = r.storage.pool.Query(ctx, base+` WHERE status=$1 ORDER BY created_at DESC LIMIT $2`, filter.Status, limit)
	} else {
		rows, err = r.storage.pool.Query(ctx, base+` ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *invoiceRepository) ClaimBatch(ctx context.Context, limit int) ([]model.Invoice, error) {
	var claimed []model.Invoice

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectPending = `SELECT id, status, fields, source_key, result, pdf_location, review_required, created_at, updated_at
                               FROM invoices
                               WHERE status=$1
                               ORDER BY created_at
                               LIMIT $2
                               FOR UPDATE SKIP LOCKED`
		rows, err := tx.Query(ctx, selectPending, model.InvoiceStatusIntaken, limit)
		if err != nil {
			return err
		}
		batch, err := collectInvoices(rows)
		rows.Close()
		if err != nil {
			return err
		}

		const markValidating = `UPDATE invoices SET status=$1, updated_at=NOW() WHERE id=$2`
		for i := range batch {
			if _, err := tx.Exec(ctx, markValidating, model.InvoiceStatusValidating, batch[i].ID); err != nil {
				return err
			}
			batch[i].Status = model.InvoiceStatusValidating
		}
		claimed = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *invoiceRepository) FinishProcessing(ctx context.Context, id string, status model.InvoiceStatus, result *model.PipelineResult, reviewRequired bool) error {
	var resultJSON []byte
	if result != nil {
		var err error
		resultJSON, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
	}

	const query = `UPDATE invoices
                   SET status=$2, result=$3, review_required=$4, updated_at=NOW()
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, status, resultJSON, reviewRequired)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) AttachPDF(ctx context.Context, id, location string) error {
	const query = `UPDATE invoices SET pdf_location=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, location)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{ByStatus: make(map[model.InvoiceStatus]int)}

	const countQuery = `SELECT status, COUNT(*) FROM invoices GROUP BY status`
	rows, err := r.storage.pool.Query(ctx, countQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status model.InvoiceStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const avgQuery = `SELECT COALESCE(AVG(EXTRACT(EPOCH FROM updated_at - created_at)), 0)
                      FROM invoices
                      WHERE status IN ($1, $2, $3, $4)`
	row := r.storage.pool.QueryRow(ctx, avgQuery,
		model.InvoiceStatusValidated,
		model.InvoiceStatusValidationFailed,
		model.InvoiceStatusNeedsReview,
		model.InvoiceStatusError,
	)
	if err := row.Scan(&stats.AverageProcessingSecs); err != nil {
		return nil, err
	}
	return stats, nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var (
		invoice    model.Invoice
		fieldsJSON []byte
		resultJSON []byte
	)
	err := row.Scan(
		&invoice.ID,
		&invoice.Status,
		&fieldsJSON,
		&invoice.SourceKey,
		&resultJSON,
		&invoice.PDFLocation,
		&invoice.ReviewRequired,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fieldsJSON, &invoice.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if len(resultJSON) > 0 {
		invoice.Result = &model.PipelineResult{}
		if err := json.Unmarshal(resultJSON, invoice.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return &invoice, nil
}

func collectInvoices(rows pgx.Rows) ([]model.Invoice, error) {
	var result []model.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- LogRepository implementation ---

func (r *logRepository) Append(ctx context.Context, entry model.LogEntry) error {
	const query = `INSERT INTO processing_logs (id, level, source, invoice_id, message, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.storage.pool.Exec(ctx, query,
		entry.ID, entry.Level, entry.Source, entry.InvoiceID, entry.Message, entry.Timestamp)
	return err
}

func (r *logRepository) List(ctx context.Context, limit int) ([]model.LogEntry, error) {
	const query = `SELECT id, level, source, invoice_id, message, created_at
                   FROM processing_logs ORDER BY created_at DESC LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.InvoiceID, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- SettingsRepository implementation ---

const settingsRowID = 1

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	const query = `SELECT document FROM system_settings WHERE id=$1`
	var document []byte
	if err := r.storage.pool.QueryRow(ctx, query, settingsRowID).Scan(&document); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	var settings model.Settings
	if err := json.Unmarshal(document, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings model.Settings) (*model.Settings, error) {
	settings.UpdatedAt = time.Now().UTC()
	document, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}

	const query = `INSERT INTO system_settings (id, document) VALUES ($1, $2)
                   ON CONFLICT (id) DO UPDATE SET document=EXCLUDED.document`
	if _, err := r.storage.pool.Exec(ctx, query, settingsRowID, document); err != nil {
		return nil, err
	}
	return &settings, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

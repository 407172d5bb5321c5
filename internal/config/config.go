package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress             string
	DatabaseURI            string
	AgentRuntimeAddress    string
	RawBucket              string
	ProcessedBucket        string
	AgentInvocationTimeout time.Duration
	PollInterval           time.Duration
	WorkerPoolSize         int
	MaxIntakeBatch         int
	ShutdownTimeout        time.Duration
	ChromiumPath           string
	PDFRenderTimeout       time.Duration
}

const (
	defaultRunAddress       = ":8080"
	defaultAgentTimeout     = 30 * time.Second
	defaultPollInterval     = 3 * time.Second
	defaultWorkerPoolSize   = 4
	defaultMaxIntakeBatch   = 32
	defaultShutdownTimeout  = 10 * time.Second
	defaultPDFRenderTimeout = 15 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		AgentRuntimeAddress:    getString(lookup, "AGENT_RUNTIME_ADDRESS", ""),
		RawBucket:              getString(lookup, "RAW_BUCKET", ""),
		ProcessedBucket:        getString(lookup, "PROCESSED_BUCKET", ""),
		AgentInvocationTimeout: getDuration(lookup, "AGENT_INVOCATION_TIMEOUT", defaultAgentTimeout),
		PollInterval:           getDuration(lookup, "POLL_INTERVAL", defaultPollInterval),
		WorkerPoolSize:         getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxIntakeBatch:         getInt(lookup, "POLL_BATCH_SIZE", defaultMaxIntakeBatch),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		ChromiumPath:           getString(lookup, "CHROMIUM_PATH", ""),
		PDFRenderTimeout:       getDuration(lookup, "PDF_RENDER_TIMEOUT", defaultPDFRenderTimeout),
	}

	fs := flag.NewFlagSet("invoiceflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		agentTimeoutStr    = cfg.AgentInvocationTimeout.String()
		pollIntervalStr    = cfg.PollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		pdfTimeoutStr      = cfg.PDFRenderTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AgentRuntimeAddress, "r", cfg.AgentRuntimeAddress, "Agent runtime base URL")
	fs.StringVar(&cfg.RawBucket, "raw-bucket", cfg.RawBucket, "Bucket holding uploaded invoice payloads")
	fs.StringVar(&cfg.ProcessedBucket, "processed-bucket", cfg.ProcessedBucket, "Bucket receiving rendered PDFs")
	fs.StringVar(&agentTimeoutStr, "agent-timeout", agentTimeoutStr, "Upper bound for one agent invocation")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent pipeline workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between intake polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxIntakeBatch, "poll-batch", cfg.MaxIntakeBatch, "Maximum invoices per polling batch")
	fs.StringVar(&cfg.ChromiumPath, "chromium", cfg.ChromiumPath, "Path to the Chromium binary used for PDF rendering")
	fs.StringVar(&pdfTimeoutStr, "pdf-timeout", pdfTimeoutStr, "Upper bound for one PDF render")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AgentInvocationTimeout, err = time.ParseDuration(agentTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid agent timeout: %w", err)
	}

	if cfg.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PDFRenderTimeout, err = time.ParseDuration(pdfTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid pdf timeout: %w", err)
	}

	if cfg.AgentInvocationTimeout <= 0 {
		cfg.AgentInvocationTimeout = defaultAgentTimeout
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxIntakeBatch <= 0 {
		cfg.MaxIntakeBatch = defaultMaxIntakeBatch
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PDFRenderTimeout <= 0 {
		cfg.PDFRenderTimeout = defaultPDFRenderTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AgentRuntimeAddress == "" {
		return nil, fmt.Errorf("agent runtime address must be provided")
	}

	if cfg.RawBucket == "" {
		return nil, fmt.Errorf("raw bucket must be provided")
	}

	if cfg.ProcessedBucket == "" {
		return nil, fmt.Errorf("processed bucket must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

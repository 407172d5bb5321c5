package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// ErrInvocationTimeout indicates the runtime did not finish streaming within
// the configured bound. The core never retries; the record goes to review.
var ErrInvocationTimeout = errors.New("agent invocation timed out")

// UnavailableError means the tool-invocation channel could not be reached at
// all.
type UnavailableError struct {
	Cause error
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("agent runtime unavailable: %v", e.Cause)
}

func (e UnavailableError) Unwrap() error { return e.Cause }

// InvalidResultError means the runtime answered but the accumulated stream
// did not parse into a structured result.
type InvalidResultError struct {
	Cause error
}

func (e InvalidResultError) Error() string {
	return fmt.Sprintf("agent returned unparseable result: %v", e.Cause)
}

func (e InvalidResultError) Unwrap() error { return e.Cause }

// Operation selects the agent behavior for an invocation.
type Operation string

const (
	OperationValidate Operation = "validate"
	OperationGenerate Operation = "generate"
)

// InvocationRequest is the payload sent to the agent runtime.
type InvocationRequest struct {
	InvoiceData model.InvoiceFields `json:"invoice_data"`
	Operation   Operation           `json:"operation"`
	InvoiceID   string              `json:"invoice_id"`
}

// Assessment is the structured result parsed from the accumulated stream.
type Assessment struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Client exposes operations to invoke the agent runtime.
type Client interface {
	Invoke(ctx context.Context, req InvocationRequest) (*Assessment, error)
}

// HTTPClient implements Client via the runtime's HTTP streaming API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewHTTPClient creates an agent client with a bounded invocation timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse agent url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("agent url must be absolute")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		timeout: timeout,
		logger:  logger,
		// The overall bound lives on the invocation context; the transport
		// client stays unbounded so slow streams are cut by exactly one timer.
		httpClient: &http.Client{},
	}, nil
}

// Invoke posts the request and consumes the streamed response. The stream is
// a finite sequence of text fragments; it is concatenated in full before a
// single structured parse, and the call counts as complete only once the
// sequence is exhausted.
func (c *HTTPClient) Invoke(ctx context.Context, req InvocationRequest) (*Assessment, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/invocations")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode invocation: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrInvocationTimeout
		}
		return nil, UnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, UnavailableError{Cause: fmt.Errorf("agent runtime answered %s", resp.Status)}
	default:
		payload, _ := io.ReadAll(resp.Body)
		c.logger.Error("agent invocation failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)),
		)
		return nil, fmt.Errorf("agent error: %s", resp.Status)
	}

	full, err := c.accumulate(callCtx, resp.Body)
	if err != nil {
		// The transport does not always surface the context error directly
		// when a body read is cut off.
		if callCtx.Err() != nil && ctx.Err() == nil {
			return nil, ErrInvocationTimeout
		}
		return nil, UnavailableError{Cause: err}
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(full), &assessment); err != nil {
		return nil, InvalidResultError{Cause: err}
	}
	if assessment.Error != "" {
		return nil, fmt.Errorf("agent reported error: %s", assessment.Error)
	}
	return &assessment, nil
}

// accumulate drains the fragment stream into one buffer. The stream is not
// restartable, so a mid-flight failure discards everything read so far.
func (c *HTTPClient) accumulate(ctx context.Context, r io.Reader) (string, error) {
	var full strings.Builder
	chunk := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			full.Write(chunk[:n])
		}
		if err == io.EOF {
			return full.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

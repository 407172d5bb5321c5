package test

import (
	"context"
	"sync"
	"time"

	"github.com/globalinvoice/invoiceflow/internal/adapter/agent"
	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// AgentClientStub simulates the agent runtime.
type AgentClientStub struct {
	Assessment *agent.Assessment
	Err        error
	Requests   []agent.InvocationRequest
	mu         sync.Mutex
}

// Invoke records the request and returns the configured response.
func (s *AgentClientStub) Invoke(ctx context.Context, req agent.InvocationRequest) (*agent.Assessment, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Assessment != nil {
		return s.Assessment, nil
	}
	return &agent.Assessment{Status: "success", Response: "ok"}, nil
}

// MemoryObjectStore keeps objects in a map keyed bucket/key.
type MemoryObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	GetErr  error
	PutErr  error
}

// NewMemoryObjectStore constructs an empty store.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{Objects: make(map[string][]byte)}
}

// Get returns a stored object or not found.
func (s *MemoryObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.Objects[bucket+"/"+key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return data, nil
}

// Put stores an object and returns its key.
func (s *MemoryObjectStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Objects == nil {
		s.Objects = make(map[string][]byte)
	}
	s.Objects[bucket+"/"+key] = data
	return key, nil
}

// RendererStub returns a fixed document.
type RendererStub struct {
	Document []byte
	Err      error
	Rendered []string
	mu       sync.Mutex
}

// Render records the record identifier and returns the configured document.
func (s *RendererStub) Render(ctx context.Context, invoice *model.Invoice) ([]byte, error) {
	s.mu.Lock()
	s.Rendered = append(s.Rendered, invoice.ID)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Document != nil {
		return s.Document, nil
	}
	return []byte("%PDF-1.4"), nil
}

// SinkRecorder counts metric signals for assertions.
type SinkRecorder struct {
	mu        sync.Mutex
	Processed []string
	Uploaded  int
	Errors    []string
	Observed  int
}

// IncProcessed records a processed counter increment.
func (s *SinkRecorder) IncProcessed(_ context.Context, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed = append(s.Processed, status)
}

// IncUploaded records an intake counter increment.
func (s *SinkRecorder) IncUploaded(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Uploaded++
}

// IncError records an error counter increment.
func (s *SinkRecorder) IncError(_ context.Context, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, source)
}

// ObserveProcessing records a duration observation.
func (s *SinkRecorder) ObserveProcessing(context.Context, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Observed++
}

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
)

// GCSStore implements Store on Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore initializes the client. Prefers ADC; explicit JSON credentials
// can be supplied via GCS_CREDENTIALS_JSON for local runs.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		return &GCSStore{client: client}, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

// Get reads an object in full.
func (s *GCSStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("open object %s/%s: %w", bucket, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Put writes an object and returns its key.
func (s *GCSStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("write object %s/%s: %w", bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s/%s: %w", bucket, key, err)
	}
	return key, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

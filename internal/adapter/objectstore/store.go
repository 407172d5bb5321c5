package objectstore

import "context"

// Store holds raw uploaded payloads and rendered PDFs by key.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

package objectstore

import (
	"context"

	"go.uber.org/fx"
)

// Module wires the GCS object store and its lifecycle.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *GCSStore) Store { return s }),
	fx.Invoke(registerLifecycle),
)

func newStore(ctx context.Context) (*GCSStore, error) {
	return NewGCSStore(ctx)
}

func registerLifecycle(lc fx.Lifecycle, store *GCSStore) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
}

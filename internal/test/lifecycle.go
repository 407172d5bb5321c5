package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks appended during wiring so tests can run
// them directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores the hook without executing it.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called when a graceful shutdown is requested.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown records the invocation; it never blocks.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

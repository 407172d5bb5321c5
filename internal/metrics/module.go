package metrics

import "go.uber.org/fx"

// Module wires the metrics sink for dependency injection.
var Module = fx.Options(
	fx.Provide(NewOTelSink),
	fx.Provide(func(s *OTelSink) Sink { return s }),
)

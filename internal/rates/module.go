package rates

import "go.uber.org/fx"

// Module wires the static rate table for dependency injection.
var Module = fx.Provide(NewTable)

package agent

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/config"
)

// Module exposes agent client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.AgentRuntimeAddress, p.Config.AgentInvocationTimeout, p.Logger)
}

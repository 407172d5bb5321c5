package renderer

import (
	"go.uber.org/fx"

	"github.com/globalinvoice/invoiceflow/internal/config"
)

// Module wires the Chromium-backed renderer.
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) *ChromiumRenderer {
		return NewChromiumRenderer(cfg.ChromiumPath, cfg.PDFRenderTimeout)
	}),
	fx.Provide(func(r *ChromiumRenderer) Renderer { return r }),
)

package fulfillment

import "go.uber.org/fx"

// Module exposes the fulfillment orchestrator via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)

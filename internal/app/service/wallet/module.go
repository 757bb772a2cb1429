package wallet

import "go.uber.org/fx"

// Module exposes the wallet service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)

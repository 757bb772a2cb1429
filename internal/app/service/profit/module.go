package profit

import "go.uber.org/fx"

// Module exposes the profit ledger service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)

package notify

import "go.uber.org/fx"

// Module exposes the notification gateway via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Notifier { return s }),
)

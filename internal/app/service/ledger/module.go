package ledger

import "go.uber.org/fx"

// Module exposes the gorm-backed ledger store behind its narrow interfaces.
var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Provide(func(s *Store) PaymentStore { return s }),
	fx.Provide(func(s *Store) OrderStore { return s }),
	fx.Provide(func(s *Store) FulfillmentLogStore { return s }),
	fx.Provide(func(s *Store) BlacklistStore { return s }),
	fx.Provide(func(s *Store) TrackingStore { return s }),
	fx.Provide(func(s *Store) SettingsProvider { return s }),
)

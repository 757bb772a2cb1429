package webhook

import (
	"go.uber.org/fx"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/fulfillment"
)

// Module exposes the webhook handler via Fx.
var Module = fx.Options(
	fx.Provide(func(s *fulfillment.Service) Fulfiller { return s }),
	fx.Provide(NewHandler),
)

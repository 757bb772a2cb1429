package provider

import (
	"go.uber.org/fx"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

func newRegistry(cfg *config.Config) *Registry {
	return NewRegistry(
		NewMTNClient(cfg.Providers.MTN),
		NewCodeCraftClient(cfg.Providers.CodeCraft, types.NetworkFamilyATIShare),
		NewCodeCraftClient(cfg.Providers.CodeCraft, types.NetworkFamilyATBigTime),
		NewCodeCraftClient(cfg.Providers.CodeCraft, types.NetworkFamilyTelecel),
	)
}

// Module exposes the provider client registry via Fx.
var Module = fx.Options(
	fx.Provide(newRegistry),
)

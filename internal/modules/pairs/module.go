package pairs

import (
	"go.uber.org/fx"

	"wunder_bot/internal/modules/config"
	"wunder_bot/internal/modules/pairs/service"
)

func NewProvider(cfg *config.Config) *service.Provider {
	return service.NewProvider(cfg.Pairs.File)
}

func Module() fx.Option {
	return fx.Module("pairs",
		fx.Provide(
			NewProvider,
		),
	)
}

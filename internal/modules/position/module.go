package position

import (
	"context"

	"go.uber.org/fx"

	"wunder_bot/internal/modules/config"
	pairssvc "wunder_bot/internal/modules/pairs/service"
	"wunder_bot/internal/modules/position/service"
	"wunder_bot/pkg/db"
	"wunder_bot/pkg/logger"
)

// NewRepository: Postgres, если поднят пул, иначе позиции живут только в памяти.
func NewRepository(ctx context.Context, tx *db.PgTxManager) (service.Repository, error) {
	if tx == nil {
		logger.Info("positions: in-memory only")
		return service.NopRepository{}, nil
	}
	repo := service.NewPgRepository(tx)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func NewGate(cfg *config.Config, store *service.Store, repo service.Repository) *service.Gate {
	return service.NewGate(store, cfg.Engine.Cooldown, service.WithRepository(repo))
}

func Module() fx.Option {
	return fx.Module("position",
		fx.Provide(
			service.NewStore,
			NewRepository,
			NewGate,
		),
		fx.Invoke(func(lc fx.Lifecycle, store *service.Store, repo service.Repository, pairs *pairssvc.Provider) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					all, err := pairs.Load(ctx)
					if err != nil {
						// пары перечитаются в цикле; стартуем с сохранённым состоянием
						logger.Warn("positions: pairs not loaded at start: %v", err)
					}
					return service.Bootstrap(ctx, store, repo, all)
				},
			})
		}),
	)
}

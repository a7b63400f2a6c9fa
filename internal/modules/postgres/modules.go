package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"wunder_bot/internal/modules/config"
	"wunder_bot/pkg/db"
	"wunder_bot/pkg/logger"
)

// NewTxManager returns nil without a DSN: persistence is optional.
func NewTxManager(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
	if cfg.DB == "" {
		return nil, nil
	}

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.DB,
		MaxConns: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	tx := db.NewPgTxManager(poolMaster)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tx.Close()
			return nil
		},
	})
	logger.Info("postgres connected")
	return tx, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			NewTxManager,
		),
	)
}

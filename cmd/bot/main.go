package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"wunder_bot/internal/modules/alert"
	"wunder_bot/internal/modules/config"
	"wunder_bot/internal/modules/engine"
	"wunder_bot/internal/modules/health"
	"wunder_bot/internal/modules/market"
	"wunder_bot/internal/modules/pairs"
	"wunder_bot/internal/modules/position"
	"wunder_bot/internal/modules/postgres"
	"wunder_bot/internal/strategy"
	"wunder_bot/pkg/logger"
	"wunder_bot/pkg/tracing"
)

func newFxLogger(cfg *config.Config) fxevent.Logger {
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)

	l, err := logger.Init(cfg.Log.Level)
	if err != nil {
		l = zap.NewExample()
		logger.Set(l)
		logger.Warn("logger init: %v", err)
	}
	return &fxevent.ZapLogger{Logger: l}
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	_, closer, err := tracing.InitTracer(tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}

func main() {
	defer logger.Sync()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		fx.WithLogger(newFxLogger),
		config.Module(),
		fx.Invoke(initTracing),
		postgres.Module(),
		market.Module(),
		pairs.Module(),
		position.Module(),
		strategy.Module(),
		alert.Module(),
		health.Module(),
		engine.Module(),
	)
	app.Run()
}

package engine

import (
	"go.uber.org/fx"

	alertsvc "wunder_bot/internal/modules/alert/service"
	"wunder_bot/internal/modules/config"
	"wunder_bot/internal/modules/engine/service"
	healthsvc "wunder_bot/internal/modules/health/service"
	marketsvc "wunder_bot/internal/modules/market/service"
	pairssvc "wunder_bot/internal/modules/pairs/service"
	positionsvc "wunder_bot/internal/modules/position/service"
	"wunder_bot/internal/strategy"
	"wunder_bot/pkg/metrics"
)

func NewCycle(
	cfg *config.Config,
	pairs *pairssvc.Provider,
	supplier marketsvc.Supplier,
	registry *strategy.Registry,
	gate *positionsvc.Gate,
	sink alertsvc.Sink,
	rec *metrics.Recorder,
	state *healthsvc.State,
) *service.Cycle {
	return service.NewCycle(pairs, supplier, registry, gate, sink, rec, state, cfg.Exchange.Limit)
}

func NewScheduler(
	cfg *config.Config,
	cycle *service.Cycle,
	streamer marketsvc.Streamer,
	pairs *pairssvc.Provider,
	state *healthsvc.State,
) *service.Scheduler {
	return service.NewScheduler(cycle, streamer, pairs, state, service.SchedulerConfig{
		Interval: cfg.Engine.CheckInterval,
		Trigger:  cfg.Engine.Trigger,
	})
}

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			NewCycle,
			NewScheduler,
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Scheduler) {
			lc.Append(fx.Hook{
				OnStart: s.Start,
				OnStop:  s.Stop,
			})
		}),
	)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"wunder_bot/internal/models"
	alertsvc "wunder_bot/internal/modules/alert/service"
	healthsvc "wunder_bot/internal/modules/health/service"
	marketsvc "wunder_bot/internal/modules/market/service"
	pairssvc "wunder_bot/internal/modules/pairs/service"
	positionsvc "wunder_bot/internal/modules/position/service"
	"wunder_bot/pkg/logger"
	"wunder_bot/pkg/metrics"
	"wunder_bot/pkg/tracing"
)

var ErrNoCandles = errors.New("supplier returned no candles")

// InstrumentSource отдаёт актуальный список инструментов (перечитывается каждый цикл).
type InstrumentSource interface {
	Load(ctx context.Context) ([]models.Instrument, error)
}

type Evaluator interface {
	Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal
}

// Result: итог оценки одного инструмента.
type Result struct {
	Key      models.PositionKey
	Signal   models.Signal
	Decision positionsvc.Decision
	Err      error
}

type Cycle struct {
	pairs    InstrumentSource
	supplier marketsvc.Supplier
	eval     Evaluator
	gate     *positionsvc.Gate
	sink     alertsvc.Sink
	metrics  *metrics.Recorder
	state    *healthsvc.State
	limit    int
}

func NewCycle(
	pairs InstrumentSource,
	supplier marketsvc.Supplier,
	eval Evaluator,
	gate *positionsvc.Gate,
	sink alertsvc.Sink,
	rec *metrics.Recorder,
	state *healthsvc.State,
	limit int,
) *Cycle {
	if rec == nil {
		rec = metrics.New(nil)
	}
	if state == nil {
		state = healthsvc.NewState()
	}
	return &Cycle{
		pairs:    pairs,
		supplier: supplier,
		eval:     eval,
		gate:     gate,
		sink:     sink,
		metrics:  rec,
		state:    state,
		limit:    limit,
	}
}

// Run оценивает все включённые инструменты параллельно и ждёт их.
func (c *Cycle) Run(ctx context.Context) {
	start := time.Now()
	defer func() { c.metrics.CycleDuration(time.Since(start).Seconds()) }()

	all, err := c.pairs.Load(ctx)
	if err != nil {
		// цикл без списка пар не считается завершённым: /readyz остаётся как был
		c.metrics.Error(metrics.ErrConfig)
		logger.Error("cycle: load instruments: %v", err)
		return
	}
	defer func() { c.state.MarkCycle(time.Now()) }()
	enabled := pairssvc.Enabled(all)
	if len(enabled) == 0 {
		logger.Warn("cycle: no enabled instruments")
		return
	}

	var wg sync.WaitGroup
	for _, inst := range enabled {
		wg.Add(1)
		go func(inst models.Instrument) {
			defer wg.Done()
			c.RunInstrument(ctx, inst)
		}(inst)
	}
	wg.Wait()

	logger.Debug("cycle: %d instruments in %s", len(enabled), time.Since(start).Truncate(time.Millisecond))
}

// RunInstrument: свечи -> стратегия -> гейт -> алерт. Любая ошибка остаётся внутри.
func (c *Cycle) RunInstrument(ctx context.Context, inst models.Instrument) (res Result) {
	key := inst.Key()
	res.Key = key

	span, ctx := tracing.StartSpan(ctx, "engine.instrument", map[string]string{
		"symbol":    inst.Symbol,
		"timeframe": inst.Timeframe,
		"strategy":  string(inst.Strategy.Type),
	})
	defer span.Finish()

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic evaluating %s: %v", key, p)
			c.metrics.Error(metrics.ErrPanic)
			span.SetTag("error", true)
			logger.Error("%v\n%s", res.Err, debug.Stack())
		}
	}()

	candles, err := c.supplier.Candles(ctx, inst.Symbol, inst.Timeframe, c.limit)
	if err == nil && len(candles) == 0 {
		err = ErrNoCandles
	}
	if err != nil {
		res.Err = fmt.Errorf("fetch candles %s: %w", key, err)
		c.metrics.Error(metrics.ErrDataFetch)
		span.SetTag("error", true)
		logger.Warn("%s skipped: %v", key, err)
		return res
	}

	sig := c.eval.Evaluate(candles, inst.Strategy)
	res.Signal = sig
	c.metrics.LastPrice(inst.Symbol, inst.Timeframe, sig.Price)
	if sig.Kind == models.SignalHold {
		logger.Debug("%s HOLD @ %.4f", key, sig.Price)
		return res
	}
	logger.Info("%s %s @ %.4f (%s)", key, sig.Kind, sig.Price, sig.Reason)

	emit := func(ctx context.Context, kind models.SignalKind) error {
		code := inst.Alerts.CodeFor(kind)
		if code == "" {
			return fmt.Errorf("%s: %w", kind, alertsvc.ErrNoAlertCode)
		}
		return c.sink.Send(ctx, alertsvc.Alert{
			Code:      code,
			Symbol:    inst.Symbol,
			Timeframe: inst.Timeframe,
			Kind:      kind,
			Price:     sig.Price,
		})
	}

	d, err := c.gate.Process(ctx, key, sig, emit)
	res.Decision = d
	span.SetTag("decision", d.Reason)
	switch {
	case err != nil:
		res.Err = err
		c.metrics.Error(metrics.ErrDelivery)
		span.SetTag("error", true)
		logger.Error("%s delivery failed: %v", key, err)
	case d.Emitted:
		c.metrics.SignalEmitted(inst.Symbol, inst.Timeframe, string(d.Kind))
		logger.Info("%s %s emitted, position %s", key, d.Kind, d.Position)
	default:
		c.metrics.SignalSuppressed(inst.Symbol, inst.Timeframe, string(d.Kind))
		logger.Info("%s %s suppressed: %s", key, d.Kind, d.Reason)
	}
	return res
}

package service

import (
	"context"
	"sync"
	"time"

	"wunder_bot/internal/models"
	healthsvc "wunder_bot/internal/modules/health/service"
	marketsvc "wunder_bot/internal/modules/market/service"
	pairssvc "wunder_bot/internal/modules/pairs/service"
	"wunder_bot/pkg/logger"
)

const (
	TriggerInterval = "interval"
	TriggerStream   = "stream"
)

// Runner: то, что умеет Cycle; выделено для планировщика.
type Runner interface {
	Run(ctx context.Context)
	RunInstrument(ctx context.Context, inst models.Instrument) Result
}

type SchedulerConfig struct {
	Interval time.Duration
	Trigger  string
}

// Scheduler: сразу один цикл, дальше тикер или закрытые бары из стрима.
type Scheduler struct {
	runner   Runner
	streamer marketsvc.Streamer
	pairs    InstrumentSource
	state    *healthsvc.State
	cfg      SchedulerConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(runner Runner, streamer marketsvc.Streamer, pairs InstrumentSource, state *healthsvc.State, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if state == nil {
		state = healthsvc.NewState()
	}
	return &Scheduler{runner: runner, streamer: streamer, pairs: pairs, state: state, cfg: cfg}
}

// Start не блокирует; ctx хука не используется для работы цикла.
func (s *Scheduler) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state.SetRunning(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()

	logger.Info("scheduler started: trigger=%s interval=%s", s.cfg.Trigger, s.cfg.Interval)
	return nil
}

// Stop cancels work and waits for in-flight tasks until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	s.state.SetRunning(false)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("scheduler stop: in-flight tasks still running")
		return ctx.Err()
	}
}

func (s *Scheduler) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Scheduler) loop(ctx context.Context) {
	s.spawn(func() { s.runner.Run(ctx) })

	if s.cfg.Trigger == TriggerStream && s.streamer != nil {
		keys := s.streamKeys(ctx)
		if len(keys) == 0 {
			logger.Warn("scheduler: nothing to stream, falling back to interval")
		} else {
			s.streamLoop(ctx, keys)
			if ctx.Err() != nil {
				return
			}
			// стрим закрылся сам (нет поддерживаемых таймфреймов и т.п.): без тикера оценок больше не будет
			logger.Warn("scheduler: bar stream closed, falling back to interval %s", s.cfg.Interval)
		}
	}
	s.tickLoop(ctx)
}

// tickLoop запускает каждый цикл в своей горутине: долгий цикл не сдвигает следующий тик.
func (s *Scheduler) tickLoop(ctx context.Context) {
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.spawn(func() { s.runner.Run(ctx) })
		}
	}
}

func (s *Scheduler) streamKeys(ctx context.Context) []models.PositionKey {
	all, err := s.pairs.Load(ctx)
	if err != nil {
		logger.Error("scheduler: load instruments: %v", err)
		return nil
	}
	enabled := pairssvc.Enabled(all)
	keys := make([]models.PositionKey, 0, len(enabled))
	for _, inst := range enabled {
		keys = append(keys, inst.Key())
	}
	return keys
}

func (s *Scheduler) streamLoop(ctx context.Context, keys []models.PositionKey) {
	bars := s.streamer.Stream(ctx, keys)
	s.state.SetStreamConnected(true)
	defer s.state.SetStreamConnected(false)

	for {
		select {
		case <-ctx.Done():
			return
		case bar, ok := <-bars:
			if !ok {
				return
			}
			inst, found := s.lookup(ctx, models.PositionKey{Symbol: bar.Symbol, Timeframe: bar.Timeframe})
			if !found {
				logger.Debug("scheduler: bar for unknown %s@%s", bar.Symbol, bar.Timeframe)
				continue
			}
			s.spawn(func() { s.runner.RunInstrument(ctx, inst) })
		}
	}
}

// lookup перечитывает пары, чтобы правки файла действовали и в режиме стрима.
func (s *Scheduler) lookup(ctx context.Context, key models.PositionKey) (models.Instrument, bool) {
	all, err := s.pairs.Load(ctx)
	if err != nil {
		logger.Warn("scheduler: load instruments: %v", err)
		return models.Instrument{}, false
	}
	for _, inst := range pairssvc.Enabled(all) {
		if inst.Key() == key {
			return inst, true
		}
	}
	return models.Instrument{}, false
}

package strategy

import (
	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

// Registry: закрытый набор стратегий по типу (регистр не важен).
type Registry struct {
	byType map[models.StrategyType]Strategy
}

func NewRegistry() *Registry {
	r := &Registry{byType: make(map[models.StrategyType]Strategy)}
	for _, s := range []Strategy{TMH{}, SSLChannel{}, WTCross{}, EMASTWT{}} {
		r.byType[s.Name()] = s
	}
	return r
}

// Lookup resolves a type; an empty type means ema_st_wt.
func (r *Registry) Lookup(t models.StrategyType) (Strategy, bool) {
	key := t.Normalize()
	if key == "" {
		key = models.StrategyEMASTWT
	}
	s, ok := r.byType[key]
	return s, ok
}

func (r *Registry) Types() []models.StrategyType {
	return []models.StrategyType{models.StrategyTMH, models.StrategySSLChannel, models.StrategyWTCross, models.StrategyEMASTWT}
}

// Evaluate выбирает стратегию и при signal_on_close отбрасывает формирующийся бар.
// Неизвестный тип не ломает цикл: HOLD по последнему close.
func (r *Registry) Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal {
	s, ok := r.Lookup(cfg.Type)
	if !ok {
		logger.Warn("unknown strategy type %q (known: %v), holding", cfg.Type, r.Types())
		sig := models.Hold(models.LastClose(candles))
		sig.Reason = "unknown strategy type " + string(cfg.Type)
		return sig
	}
	if cfg.SignalOnClose && len(candles) > 0 {
		candles = candles[:len(candles)-1]
	}
	return s.Evaluate(candles, cfg)
}

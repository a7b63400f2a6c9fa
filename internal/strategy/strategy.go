package strategy

import (
	"fmt"

	"wunder_bot/internal/models"
)

// MinCandles: меньше этого любая стратегия отвечает HOLD.
const MinCandles = 50

// Strategy: один вариант из закрытого набора. Позицию не знает:
// решение о допустимости сигнала принимает position gate.
type Strategy interface {
	Name() models.StrategyType
	Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal
}

func insufficient(candles []models.Candle) (models.Signal, bool) {
	if len(candles) < MinCandles {
		sig := models.Hold(models.LastClose(candles))
		sig.Reason = fmt.Sprintf("insufficient data: %d/%d candles", len(candles), MinCandles)
		return sig, true
	}
	return models.Signal{}, false
}

func signal(kind models.SignalKind, price float64, reason string) models.Signal {
	return models.Signal{Kind: kind, Price: price, Reason: reason, Exit: models.SignalHold}
}

// withExit marks an enter that the same reading also qualifies as exit.
func withExit(s models.Signal, exit models.SignalKind) models.Signal {
	s.Exit = exit
	return s
}

// crossSignal maps an up/down crossover to an enter, or with enterExit to the
// opposite exit. Shared by the crossover strategies.
func crossSignal(up, down, enterExit bool, price float64, reason string) models.Signal {
	switch {
	case up && enterExit:
		return signal(models.SignalExitShort, price, reason+" cross up")
	case up:
		return signal(models.SignalEnterLong, price, reason+" cross up")
	case down && enterExit:
		return signal(models.SignalExitLong, price, reason+" cross down")
	case down:
		return signal(models.SignalEnterShort, price, reason+" cross down")
	}
	return models.Hold(price)
}

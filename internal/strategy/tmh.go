package strategy

import (
	"fmt"
	"strings"

	"wunder_bot/internal/indicator"
	"wunder_bot/internal/models"
)

const (
	ModeAny2of3        = "any_2_of_3"
	ModeAll3           = "all_3"
	ModeSupertrendOnly = "supertrend_only"
	ModeAny1of3        = "any_1_of_3"
)

// TMH: EMA fast/slow + Supertrend.
type TMH struct{}

func (TMH) Name() models.StrategyType { return models.StrategyTMH }

type tmhVotes struct {
	emaBull, emaBear bool
	stBull, stBear   bool
	bull, bear       int
}

func voteTMH(candles []models.Candle, cfg models.StrategyConfig) tmhVotes {
	closes := indicator.Closes(candles)
	last := len(closes) - 1
	fast := indicator.EMA(closes, cfg.EMAFast)[last]
	slow := indicator.EMA(closes, cfg.EMASlow)[last]
	dir := indicator.Supertrend(candles, cfg.SupertrendPeriod, cfg.SupertrendMultiplier).Last()
	price := closes[last]

	v := tmhVotes{
		emaBull: fast > slow && price > fast,
		emaBear: fast < slow && price < fast,
		stBull:  dir == indicator.Bullish,
		stBear:  dir == indicator.Bearish,
	}
	v.bull = btoi(v.emaBull) + btoi(v.stBull)
	v.bear = btoi(v.emaBear) + btoi(v.stBear)
	return v
}

func (TMH) Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal {
	if sig, ok := insufficient(candles); ok {
		return sig
	}
	price := models.LastClose(candles)
	v := voteTMH(candles, cfg)
	reason := fmt.Sprintf("tmh bull %d/2 bear %d/2", v.bull, v.bear)

	switch strings.ToLower(strings.TrimSpace(cfg.ConfirmationMode)) {
	case ModeSupertrendOnly:
		// направление всегда ±1, поэтому выход виден только через Exit
		if v.stBull {
			return withExit(signal(models.SignalEnterLong, price, "tmh supertrend up"), models.SignalExitShort)
		}
		if v.stBear {
			return withExit(signal(models.SignalEnterShort, price, "tmh supertrend down"), models.SignalExitLong)
		}
	default:
		// all_3 и any_2_of_3 при двух голосах совпадают;
		// exit по встречному давлению >= 2 совпадает с порогом входа
		switch {
		case v.bull >= 2:
			return withExit(signal(models.SignalEnterLong, price, reason), models.SignalExitShort)
		case v.bear >= 2:
			return withExit(signal(models.SignalEnterShort, price, reason), models.SignalExitLong)
		}
	}
	return models.Hold(price)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

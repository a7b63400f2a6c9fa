package strategy

import (
	"fmt"
	"strings"

	"wunder_bot/internal/indicator"
	"wunder_bot/internal/models"
)

// EMASTWT: голосование EMA, Supertrend и кросса WaveTrend в зоне
// перепроданности/перекупленности. Тип по умолчанию для пустого strategy.type.
type EMASTWT struct{}

func (EMASTWT) Name() models.StrategyType { return models.StrategyEMASTWT }

// requiredVotes понимает и snake_case, и старые подписи из таблиц ("All 3 Required").
func requiredVotes(mode string) int {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeAny1of3, "any 1 of 3":
		return 1
	case ModeAll3, "all 3 required":
		return 3
	}
	return 2
}

func (EMASTWT) Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal {
	if sig, ok := insufficient(candles); ok {
		return sig
	}
	closes := indicator.Closes(candles)
	last := len(closes) - 1
	price := closes[last]

	fast := indicator.EMA(closes, cfg.EMAFast)[last]
	slow := indicator.EMA(closes, cfg.EMASlow)[last]
	dir := indicator.Supertrend(candles, cfg.SupertrendPeriod, cfg.SupertrendMultiplier).Last()
	wt := indicator.WaveTrend(candles, cfg.WTChannel, cfg.WTAverage)

	wtBull := indicator.CrossOver(wt.WT1, wt.WT2, last) && wt.WT1[last] <= cfg.WTOversold
	wtBear := indicator.CrossUnder(wt.WT1, wt.WT2, last) && wt.WT1[last] >= cfg.WTOverbought

	bull := btoi(fast > slow && price > fast) + btoi(dir == indicator.Bullish) + btoi(wtBull)
	bear := btoi(fast < slow && price < fast) + btoi(dir == indicator.Bearish) + btoi(wtBear)
	required := requiredVotes(cfg.ConfirmationMode)

	exitLong := bear >= 2 || price < slow
	exitShort := bull >= 2 || price > slow

	switch {
	case bull >= required:
		s := signal(models.SignalEnterLong, price, fmt.Sprintf("bull %d/%d", bull, required))
		if exitShort {
			s = withExit(s, models.SignalExitShort)
		}
		return s
	case bear >= required:
		s := signal(models.SignalEnterShort, price, fmt.Sprintf("bear %d/%d", bear, required))
		if exitLong {
			s = withExit(s, models.SignalExitLong)
		}
		return s
	case exitLong:
		return signal(models.SignalExitLong, price, "exit long")
	case exitShort:
		return signal(models.SignalExitShort, price, "exit short")
	}
	return models.Hold(price)
}

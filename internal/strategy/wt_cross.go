package strategy

import (
	"wunder_bot/internal/indicator"
	"wunder_bot/internal/models"
)

type WTCross struct{}

func (WTCross) Name() models.StrategyType { return models.StrategyWTCross }

func (WTCross) Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal {
	if sig, ok := insufficient(candles); ok {
		return sig
	}
	res := indicator.WTCross(candles, cfg.N1, cfg.N2, cfg.OBLevel2, cfg.OSLevel2, indicator.ParseWTMode(cfg.Mode))
	last := len(candles) - 1
	return crossSignal(res.Bull[last], res.Bear[last], cfg.EnterExit, models.LastClose(candles), "wt")
}

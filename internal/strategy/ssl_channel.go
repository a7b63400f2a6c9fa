package strategy

import (
	"wunder_bot/internal/indicator"
	"wunder_bot/internal/models"
)

type SSLChannel struct{}

func (SSLChannel) Name() models.StrategyType { return models.StrategySSLChannel }

func (SSLChannel) Evaluate(candles []models.Candle, cfg models.StrategyConfig) models.Signal {
	if sig, ok := insufficient(candles); ok {
		return sig
	}
	ssl := indicator.SSLChannel(candles, cfg.SSLPeriod)
	last := len(candles) - 1
	return crossSignal(ssl.CrossUp(last), ssl.CrossDown(last), cfg.EnterExit, models.LastClose(candles), "ssl")
}

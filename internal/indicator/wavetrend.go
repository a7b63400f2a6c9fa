package indicator

import (
	"math"

	"wunder_bot/internal/models"
)

const channelScale = 0.015

type WaveTrendResult struct {
	WT1 []float64
	WT2 []float64
}

// channelIndex: (src-esa) / (0.015*d), нефинитные значения -> 0.
func channelIndex(src []float64, channelLen int) []float64 {
	esa := EMA(src, channelLen)
	dev := make([]float64, len(src))
	for i := range src {
		dev[i] = math.Abs(src[i] - esa[i])
	}
	d := EMA(dev, channelLen)

	ci := make([]float64, len(src))
	for i := range src {
		ci[i] = finiteOrZero((src[i] - esa[i]) / (channelScale * d[i]))
	}
	return ci
}

// WaveTrend: wt1 = EMA(ci, avgLen), wt2 = SMA(wt1, 4).
func WaveTrend(candles []models.Candle, channelLen, avgLen int) WaveTrendResult {
	wt1 := EMA(channelIndex(HLC3(candles), channelLen), avgLen)
	return WaveTrendResult{WT1: wt1, WT2: SMA(wt1, 4)}
}

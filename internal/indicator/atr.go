package indicator

import (
	"math"

	"wunder_bot/internal/models"
)

// TrueRange: TR[0] = high-low, дальше max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(candles []models.Candle) []float64 {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		hl := c.High - c.Low
		if i == 0 {
			tr[i] = hl
			continue
		}
		prev := candles[i-1].Close
		tr[i] = math.Max(hl, math.Max(math.Abs(c.High-prev), math.Abs(c.Low-prev)))
	}
	return tr
}

func ATR(candles []models.Candle, period int) []float64 {
	return SMA(TrueRange(candles), period)
}

func HL2(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = (c.High + c.Low) / 2
	}
	return out
}

func HLC3(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = (c.High + c.Low + c.Close) / 3
	}
	return out
}

func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

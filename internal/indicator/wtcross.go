package indicator

import (
	"strings"

	"wunder_bot/internal/models"
)

type WTMode string

const (
	WTModeBasic             WTMode = "basic"
	WTModeOversoldBullish   WTMode = "oversold_bullish"
	WTModeOverboughtBearish WTMode = "overbought_bearish"
	WTModeDualFiltered      WTMode = "dual_filtered"
)

// ParseWTMode is case-insensitive; unknown modes fall back to basic.
func ParseWTMode(s string) WTMode {
	switch m := WTMode(strings.ToLower(strings.TrimSpace(s))); m {
	case WTModeOversoldBullish, WTModeOverboughtBearish, WTModeDualFiltered:
		return m
	default:
		return WTModeBasic
	}
}

func (m WTMode) filtersBull() bool { return m == WTModeOversoldBullish || m == WTModeDualFiltered }
func (m WTMode) filtersBear() bool { return m == WTModeOverboughtBearish || m == WTModeDualFiltered }

type WTCrossResult struct {
	WT1  []float64
	WT2  []float64
	Bull []bool
	Bear []bool
}

// WTCross: кроссы wt1/wt2 с фильтром зоны по mode.
// wt2 усредняет и неполные окна в начале серии.
func WTCross(candles []models.Candle, n1, n2 int, obLevel, osLevel float64, mode WTMode) WTCrossResult {
	wt1 := EMA(channelIndex(HLC3(candles), n1), n2)
	wt2 := RollingMean(wt1, 4)

	res := WTCrossResult{
		WT1:  wt1,
		WT2:  wt2,
		Bull: make([]bool, len(candles)),
		Bear: make([]bool, len(candles)),
	}
	for i := 1; i < len(candles); i++ {
		bull := CrossOver(wt1, wt2, i)
		bear := CrossUnder(wt1, wt2, i)
		if mode.filtersBull() {
			bull = bull && wt2[i] < osLevel
		}
		if mode.filtersBear() {
			bear = bear && wt2[i] > obLevel
		}
		res.Bull[i] = bull
		res.Bear[i] = bear
	}
	return res
}

package indicator

import "wunder_bot/internal/models"

type SSLResult struct {
	Up    []float64
	Down  []float64
	Trend []int
}

// SSLChannel selects the up/down lines from rolling high/low means by the trend flag.
func SSLChannel(candles []models.Candle, period int) SSLResult {
	n := len(candles)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}
	smaHigh := SMA(highs, period)
	smaLow := SMA(lows, period)

	res := SSLResult{Up: make([]float64, n), Down: make([]float64, n), Trend: make([]int, n)}
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			res.Trend[i] = Bullish
		case candles[i].Close > smaHigh[i]:
			res.Trend[i] = Bullish
		case candles[i].Close < smaLow[i]:
			res.Trend[i] = Bearish
		default:
			res.Trend[i] = res.Trend[i-1]
		}

		if res.Trend[i] < 0 {
			res.Down[i], res.Up[i] = smaHigh[i], smaLow[i]
		} else {
			res.Down[i], res.Up[i] = smaLow[i], smaHigh[i]
		}
	}
	return res
}

func (r SSLResult) CrossUp(i int) bool   { return CrossOver(r.Up, r.Down, i) }
func (r SSLResult) CrossDown(i int) bool { return CrossUnder(r.Up, r.Down, i) }

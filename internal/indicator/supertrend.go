package indicator

import (
	"math"

	"wunder_bot/internal/models"
)

const (
	Bullish = 1
	Bearish = -1
)

type SupertrendResult struct {
	Direction []int
	Band      []float64
	ATR       []float64
}

// Supertrend: полосы hl2 ± mult*ATR.
// close <= upper => медвежье направление и верхняя полоса, иначе бычье и нижняя.
// Пока ATR не определён, полоса и направление переносятся с прошлого бара.
func Supertrend(candles []models.Candle, period int, multiplier float64) SupertrendResult {
	n := len(candles)
	res := SupertrendResult{
		Direction: make([]int, n),
		Band:      nanSeries(n),
		ATR:       ATR(candles, period),
	}
	if n == 0 {
		return res
	}

	hl2 := HL2(candles)
	upper := func(i int) float64 { return hl2[i] + multiplier*res.ATR[i] }
	lower := func(i int) float64 { return hl2[i] - multiplier*res.ATR[i] }

	res.Band[0] = upper(0)
	res.Direction[0] = Bullish
	for i := 1; i < n; i++ {
		if math.IsNaN(res.ATR[i]) {
			res.Band[i] = res.Band[i-1]
			res.Direction[i] = res.Direction[i-1]
			continue
		}
		if up := upper(i); candles[i].Close <= up {
			res.Band[i] = up
			res.Direction[i] = Bearish
		} else {
			res.Band[i] = lower(i)
			res.Direction[i] = Bullish
		}
	}
	return res
}

func (r SupertrendResult) Last() int {
	if len(r.Direction) == 0 {
		return 0
	}
	return r.Direction[len(r.Direction)-1]
}

package indicator

import "github.com/markcheno/go-talib"

// SMA: скользящее среднее по полным окнам, первые period-1 значений NaN.
// Input must be finite: a NaN poisons the running sum.
func SMA(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period <= 0 || period > len(series) {
		return out
	}
	sma := talib.Sma(series, period)
	copy(out[period-1:], sma[period-1:])
	return out
}

// RollingMean is SMA that also averages the partial windows at the head of the series.
func RollingMean(series []float64, window int) []float64 {
	if window <= 0 {
		return nanSeries(len(series))
	}
	out := SMA(series, window)
	var sum float64
	for i := 0; i < len(series) && i < window-1; i++ {
		sum += series[i]
		out[i] = sum / float64(i+1)
	}
	return out
}

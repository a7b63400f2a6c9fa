// Package indicator holds pure series transforms used by the strategies.
// Undefined warm-up values are NaN; every comparison against NaN is false.
package indicator

import "math"

type emaState struct {
	alpha  float64
	value  float64
	seeded bool
}

func newEMA(period int) emaState {
	if period <= 1 {
		period = 1
	}
	return emaState{alpha: 2.0 / (float64(period) + 1)}
}

func (e *emaState) Update(v float64) float64 {
	if !e.seeded {
		e.value = v
		e.seeded = true
		return e.value
	}
	if e.alpha == 1 {
		e.value = v
		return e.value
	}
	// та же формула alpha*v + (1-alpha)*prev, но постоянный ряд остаётся точным
	e.value += e.alpha * (v - e.value)
	return e.value
}

// EMA: рекурсивное сглаживание, seed = первое значение, alpha = 2/(n+1).
// period <= 1 возвращает копию входа.
func EMA(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	e := newEMA(period)
	for i, v := range series {
		out[i] = e.Update(v)
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// finiteOrZero maps NaN and ±Inf to 0.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

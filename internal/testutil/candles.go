// Package testutil builds synthetic candle series for package tests.
package testutil

import (
	"math"
	"time"

	"wunder_bot/internal/models"
)

var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const Bar = 15 * time.Minute

// Series строит свечи из приращений цены: open = предыдущий close,
// тело без теней, поэтому TR каждой свечи равен |step|.
func Series(start float64, steps []float64) []models.Candle {
	out := make([]models.Candle, len(steps))
	prev := start
	for i, s := range steps {
		open, closePx := prev, prev+s
		out[i] = models.Candle{
			Time:   Epoch.Add(time.Duration(i) * Bar),
			Open:   open,
			High:   math.Max(open, closePx),
			Low:    math.Min(open, closePx),
			Close:  closePx,
			Volume: 1000,
		}
		prev = closePx
	}
	return out
}

func Repeat(step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = step
	}
	return out
}

func Uptrend(n int, start, step float64) []models.Candle {
	return Series(start, Repeat(step, n))
}

func Downtrend(n int, start, step float64) []models.Candle {
	return Series(start, Repeat(-step, n))
}

// Breakout is an uptrend whose bar at index `at` moves k times the usual step.
func Breakout(n int, start, step, k float64, at int) []models.Candle {
	steps := Repeat(step, n)
	if at >= 0 && at < n {
		steps[at] = step * k
	}
	return Series(start, steps)
}

// Wave: синусоида вокруг base, пригодна для проверки кроссов осцилляторов.
func Wave(n int, base, amp float64, period int) []models.Candle {
	steps := make([]float64, n)
	prev := base
	for i := range steps {
		px := base + amp*math.Sin(2*math.Pi*float64(i+1)/float64(period))
		steps[i] = px - prev
		prev = px
	}
	return Series(base, steps)
}

// Continue appends a series that starts at the last close of prev.
func Continue(prev []models.Candle, steps []float64) []models.Candle {
	start := models.LastClose(prev)
	next := Series(start, steps)
	offset := time.Duration(len(prev)) * Bar
	for i := range next {
		next[i].Time = next[i].Time.Add(offset)
	}
	return append(append([]models.Candle(nil), prev...), next...)
}

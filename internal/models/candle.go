package models

import "time"

// Candle: одна закрытая (или формирующаяся) свеча OHLCV.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// LastClose returns the close of the newest candle or 0 for an empty series.
func LastClose(cs []Candle) float64 {
	if len(cs) == 0 {
		return 0
	}
	return cs[len(cs)-1].Close
}

// BarClose is emitted by a market stream when a bar of symbol/timeframe closes.
type BarClose struct {
	Symbol    string
	Timeframe string
	Candle    Candle
}

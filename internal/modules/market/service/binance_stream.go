package service

import (
	"context"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

// Stream подписывается на combined kline streams и отдаёт только финальные свечи.
func (b *Binance) Stream(ctx context.Context, keys []models.PositionKey) <-chan models.BarClose {
	ch := make(chan models.BarClose)

	go func() {
		defer close(ch)
		if len(keys) == 0 {
			return
		}

		pairs := make(map[string]string, len(keys))
		byStream := make(map[string]models.PositionKey, len(keys))
		for _, k := range keys {
			iv := binanceInterval(k.Timeframe)
			sym := strings.ToUpper(k.Symbol)
			if prev, ok := pairs[sym]; ok && prev != iv {
				// combined kline stream держит один интервал на символ
				logger.Warn("binance stream: %s already on %s, skip %s", sym, prev, k)
				continue
			}
			pairs[sym] = iv
			byStream[sym+"|"+iv] = k
		}

		handler := func(ev *binance.WsKlineEvent) {
			if ev == nil || !ev.Kline.IsFinal {
				return
			}
			key, ok := byStream[strings.ToUpper(ev.Symbol)+"|"+ev.Kline.Interval]
			if !ok {
				return
			}
			c, err := parseKline(ev.Kline.StartTime, ev.Kline.Open, ev.Kline.High, ev.Kline.Low, ev.Kline.Close, ev.Kline.Volume)
			if err != nil {
				logger.Warn("binance stream: bad kline %s: %v", key, err)
				return
			}
			select {
			case ch <- models.BarClose{Symbol: key.Symbol, Timeframe: key.Timeframe, Candle: c}:
			case <-ctx.Done():
			}
		}
		errHandler := func(err error) { logger.Warn("binance stream: %v", err) }

		for {
			doneC, stopC, err := binance.WsCombinedKlineServe(pairs, handler, errHandler)
			if err != nil {
				logger.Warn("binance stream connect: %v", err)
			} else {
				logger.Info("binance stream: subscribed %d symbols", len(pairs))
				select {
				case <-ctx.Done():
					close(stopC)
					<-doneC
					return
				case <-doneC:
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()

	return ch
}

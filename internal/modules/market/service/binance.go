package service

import (
	"context"
	"net/http"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"wunder_bot/internal/models"
)

type BinanceConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
}

// Binance: спотовые свечи /api/v3/klines.
type Binance struct {
	client *binance.Client
}

func NewBinance(cfg BinanceConfig) *Binance {
	c := binance.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Binance{client: c}
}

func (b *Binance) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(binanceInterval(timeframe)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "binance klines %s %s", symbol, timeframe)
	}

	out := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		c, err := parseKline(k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "binance kline %s at %d", symbol, k.OpenTime)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseKline(openTime int64, o, h, l, c, v string) (models.Candle, error) {
	var (
		candle = models.Candle{Time: time.UnixMilli(openTime).UTC()}
		err    error
	)
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&candle.Open, o}, {&candle.High, h}, {&candle.Low, l}, {&candle.Close, c}, {&candle.Volume, v},
	} {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return candle, err
		}
	}
	return candle, nil
}

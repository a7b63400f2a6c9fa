package market

import (
	"time"

	"go.uber.org/fx"

	"wunder_bot/internal/modules/config"
	"wunder_bot/internal/modules/market/service"
	"wunder_bot/pkg/logger"
)

const retryBackoff = 500 * time.Millisecond

type Out struct {
	fx.Out

	Supplier service.Supplier
	Streamer service.Streamer
}

// NewExchange выбирает биржу по конфигу; REST-запросы оборачиваются ретраями.
func NewExchange(cfg *config.Config) Out {
	switch cfg.Exchange.Name {
	case config.ExchangeOKX:
		o := service.NewOKX(service.OKXConfig{
			BaseURL: cfg.Exchange.BaseURL,
			WSURL:   cfg.Exchange.WSURL,
			Timeout: cfg.Exchange.Timeout,
		})
		logger.Info("market: okx candles, limit=%d", cfg.Exchange.Limit)
		return Out{Supplier: service.NewRetrying(o, cfg.Exchange.Retries, retryBackoff), Streamer: o}
	default:
		b := service.NewBinance(service.BinanceConfig{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.APISecret,
			BaseURL:   cfg.Exchange.BaseURL,
			Timeout:   cfg.Exchange.Timeout,
		})
		logger.Info("market: binance candles, limit=%d", cfg.Exchange.Limit)
		return Out{Supplier: service.NewRetrying(b, cfg.Exchange.Retries, retryBackoff), Streamer: b}
	}
}

// Module поднимает поставщика свечей и стример закрытых баров.
func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			NewExchange,
		),
	)
}

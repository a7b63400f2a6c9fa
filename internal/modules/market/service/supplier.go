package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

// Supplier отдаёт свечи от старых к новым.
type Supplier interface {
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// Streamer сообщает о закрытии бара по каждому подписанному ключу.
type Streamer interface {
	Stream(ctx context.Context, keys []models.PositionKey) <-chan models.BarClose
}

// Retrying повторяет запрос с линейной задержкой.
type Retrying struct {
	next    Supplier
	retries int
	backoff time.Duration
}

func NewRetrying(next Supplier, retries int, backoff time.Duration) *Retrying {
	if retries < 0 {
		retries = 0
	}
	return &Retrying{next: next, retries: retries, backoff: backoff}
}

func (r *Retrying) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			logger.Debug("retry %d/%d candles %s@%s: %v", attempt, r.retries, symbol, timeframe, lastErr)
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "candles retry aborted")
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}

		candles, err := r.next.Candles(ctx, symbol, timeframe, limit)
		if err == nil {
			return candles, nil
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "candles %s@%s after %d attempts", symbol, timeframe, r.retries+1)
}

package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

const okxPingEvery = 20 * time.Second

type okxFrame struct {
	Arg struct {
		Channel string `json:"channel"`
		InstID  string `json:"instId"`
	} `json:"arg"`
	Data [][]string `json:"data"`
}

// Stream: один WebSocket на все ключи, отдаёт только закрытые свечи (confirm=1).
// При обрыве переподключается, пока жив ctx.
func (o *OKX) Stream(ctx context.Context, keys []models.PositionKey) <-chan models.BarClose {
	ch := make(chan models.BarClose)

	go func() {
		defer close(ch)
		if len(keys) == 0 {
			return
		}

		// channel+instId -> исходный ключ
		byArg := make(map[string]models.PositionKey, len(keys))
		args := make([]map[string]string, 0, len(keys))
		for _, k := range keys {
			bar, err := okxBar(k.Timeframe)
			if err != nil {
				logger.Warn("okx stream: skip %s: %v", k, err)
				continue
			}
			channel, instID := "candle"+bar, okxInstID(k.Symbol)
			byArg[channel+"|"+instID] = k
			args = append(args, map[string]string{"channel": channel, "instId": instID})
		}
		if len(args) == 0 {
			return
		}

		dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		for {
			if err := o.streamOnce(ctx, dialer, args, byArg, ch); err != nil {
				logger.Warn("okx stream: %v", err)
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

func (o *OKX) streamOnce(
	ctx context.Context,
	dialer *websocket.Dialer,
	args []map[string]string,
	byArg map[string]models.PositionKey,
	out chan<- models.BarClose,
) error {
	conn, _, err := dialer.DialContext(ctx, o.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"op": "subscribe", "args": args}); err != nil {
		return err
	}
	logger.Info("okx stream: subscribed %d channels", len(args))

	// keepalive ping каждые 20s, иначе OKX рвёт соединение с 4004
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		t := time.NewTicker(okxPingEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-stop:
				return
			case <-t.C:
				_ = conn.WriteMessage(websocket.TextMessage, []byte("ping"))
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame okxFrame
		if err := sonic.Unmarshal(msg, &frame); err != nil || len(frame.Data) == 0 {
			continue // pong и служебные события
		}
		key, ok := byArg[frame.Arg.Channel+"|"+frame.Arg.InstID]
		if !ok {
			continue
		}

		for _, row := range frame.Data {
			// confirm всегда в последнем элементе
			if len(row) < 5 || row[len(row)-1] != "1" {
				continue
			}
			c, ok := parseOKXRow(row)
			if !ok {
				continue
			}
			select {
			case out <- models.BarClose{Symbol: key.Symbol, Timeframe: key.Timeframe, Candle: c}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

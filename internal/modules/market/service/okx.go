package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"wunder_bot/internal/models"
)

const (
	okxRESTURL = "https://www.okx.com"
	okxWSURL   = "wss://ws.okx.com:8443/ws/v5/business"
)

type OKXConfig struct {
	BaseURL string
	WSURL   string
	Timeout time.Duration
}

type OKX struct {
	baseURL string
	wsURL   string
	http    *http.Client
}

func NewOKX(cfg OKXConfig) *OKX {
	o := &OKX{
		baseURL: okxRESTURL,
		wsURL:   okxWSURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	if cfg.BaseURL != "" {
		o.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.WSURL != "" {
		o.wsURL = cfg.WSURL
	}
	if cfg.Timeout > 0 {
		o.http.Timeout = cfg.Timeout
	}
	return o
}

type okxCandlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// Candles: строка OKX [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (o *OKX) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	bar, err := okxBar(timeframe)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
		o.baseURL, url.QueryEscape(okxInstID(symbol)), url.QueryEscape(bar), limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "okx candles request")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "okx candles body")
	}
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("okx candles http %d: %s", resp.StatusCode, string(b))
	}

	var r okxCandlesResponse
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "okx candles decode")
	}
	if r.Code != "0" {
		return nil, errors.Errorf("okx candles error: code=%s msg=%s", r.Code, r.Msg)
	}

	// OKX отдаёт newest-first -> разворачиваем
	out := make([]models.Candle, 0, len(r.Data))
	for i := len(r.Data) - 1; i >= 0; i-- {
		c, ok := parseOKXRow(r.Data[i])
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseOKXRow(row []string) (models.Candle, bool) {
	if len(row) < 5 {
		return models.Candle{}, false
	}
	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Candle{}, false
	}
	var vol string
	if len(row) >= 6 {
		vol = row[5]
	} else {
		vol = "0"
	}
	c, err := parseKline(tsMs, row[1], row[2], row[3], row[4], vol)
	if err != nil || c.Close <= 0 {
		return models.Candle{}, false
	}
	return c, true
}

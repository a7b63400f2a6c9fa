package service

import (
	"fmt"
	"strings"
)

// binanceIntervals: поддерживаемые интервалы; неизвестный таймфрейм уходит в 15m.
var binanceIntervals = map[string]string{
	"1m": "1m", "3m": "3m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "1h", "2h": "2h", "4h": "4h", "6h": "6h", "12h": "12h",
	"1d": "1d", "3d": "3d", "1w": "1w",
}

func binanceInterval(tf string) string {
	if iv, ok := binanceIntervals[strings.ToLower(strings.TrimSpace(tf))]; ok {
		return iv
	}
	return "15m"
}

func okxBar(tf string) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(tf)); s {
	case "1m", "3m", "5m", "15m", "30m":
		return s, nil
	case "60m", "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil
	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	}
	return "", fmt.Errorf("unsupported timeframe for OKX bar: %q", tf)
}

// okxInstID: BTCUSDT -> BTC-USDT, уже разделённые символы не трогаем.
func okxInstID(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(s, "-") {
		return s
	}
	for _, quote := range []string{"USDT", "USDC", "USD", "BTC", "ETH"} {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s[:len(s)-len(quote)] + "-" + quote
		}
	}
	return s
}

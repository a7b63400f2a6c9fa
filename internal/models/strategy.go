package models

import (
	"strings"

	"github.com/creasty/defaults"
)

type StrategyType string

const (
	StrategyTMH        StrategyType = "tmh"
	StrategySSLChannel StrategyType = "ssl_channel"
	StrategyWTCross    StrategyType = "wt_cross"
	StrategyEMASTWT    StrategyType = "ema_st_wt"
)

// Normalize lower-cases and trims the identifier coming from config.
func (t StrategyType) Normalize() StrategyType {
	return StrategyType(strings.ToLower(strings.TrimSpace(string(t))))
}

// StrategyConfig: параметры стратегии из pairs-файла.
// Defaults are applied before decoding, so an explicit false/0 in the file wins.
type StrategyConfig struct {
	Type StrategyType `mapstructure:"type" json:"type"`

	// TMH / EMA-ST-WT
	EMAFast              int     `mapstructure:"ema_fast" json:"ema_fast" default:"12" validate:"gte=1"`
	EMASlow              int     `mapstructure:"ema_slow" json:"ema_slow" default:"26" validate:"gte=1"`
	SupertrendPeriod     int     `mapstructure:"supertrend_period" json:"supertrend_period" default:"10" validate:"gte=1"`
	SupertrendMultiplier float64 `mapstructure:"supertrend_multiplier" json:"supertrend_multiplier" default:"2.0" validate:"gt=0"`
	ConfirmationMode     string  `mapstructure:"confirmation_mode" json:"confirmation_mode" default:"any_2_of_3"`

	// WaveTrend vote of ema_st_wt
	WTChannel    int     `mapstructure:"wt_channel" json:"wt_channel" default:"9" validate:"gte=1"`
	WTAverage    int     `mapstructure:"wt_average" json:"wt_average" default:"12" validate:"gte=1"`
	WTOverbought float64 `mapstructure:"wt_overbought" json:"wt_overbought" default:"60"`
	WTOversold   float64 `mapstructure:"wt_oversold" json:"wt_oversold" default:"-60"`

	// SSL channel
	SSLPeriod int `mapstructure:"ssl_period" json:"ssl_period" default:"10" validate:"gte=1"`

	// WT cross
	N1       int     `mapstructure:"n1" json:"n1" default:"10" validate:"gte=1"`
	N2       int     `mapstructure:"n2" json:"n2" default:"21" validate:"gte=1"`
	OBLevel2 float64 `mapstructure:"obLevel2" json:"obLevel2" default:"53"`
	OSLevel2 float64 `mapstructure:"osLevel2" json:"osLevel2" default:"-53"`
	Mode     string  `mapstructure:"mode" json:"mode" default:"basic"`

	// EnterExit turns crossover enters into exits of the opposite side.
	EnterExit bool `mapstructure:"enter_exit" json:"enter_exit"`
	// SignalOnClose drops the still-forming newest bar before evaluation.
	SignalOnClose bool `mapstructure:"signal_on_close" json:"signal_on_close" default:"true"`
}

// DefaultStrategyConfig returns a config with every documented default applied.
func DefaultStrategyConfig() StrategyConfig {
	var cfg StrategyConfig
	_ = defaults.Set(&cfg)
	return cfg
}

// Alerts: коды алертов для вебхука по каждому типу сигнала.
type Alerts struct {
	EnterLong  string `mapstructure:"enter_long" json:"enter_long"`
	ExitLong   string `mapstructure:"exit_long" json:"exit_long"`
	EnterShort string `mapstructure:"enter_short" json:"enter_short"`
	ExitShort  string `mapstructure:"exit_short" json:"exit_short"`
	ExitAll    string `mapstructure:"exit_all" json:"exit_all,omitempty"`
}

// CodeFor returns the alert code of kind. Exits fall back to exit_all.
func (a Alerts) CodeFor(kind SignalKind) string {
	var code string
	switch kind {
	case SignalEnterLong:
		code = a.EnterLong
	case SignalEnterShort:
		code = a.EnterShort
	case SignalExitLong:
		code = a.ExitLong
	case SignalExitShort:
		code = a.ExitShort
	}
	if code == "" && kind.IsExit() {
		code = a.ExitAll
	}
	return code
}

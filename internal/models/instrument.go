package models

// Instrument: одна запись из pairs-файла.
type Instrument struct {
	Symbol          string         `mapstructure:"symbol" json:"symbol" validate:"required"`
	Timeframe       string         `mapstructure:"timeframe" json:"timeframe" default:"15m" validate:"required"`
	Enabled         bool           `mapstructure:"enabled" json:"enabled" default:"true"`
	InitialPosition string         `mapstructure:"initial_position" json:"initial_position,omitempty"`
	Strategy        StrategyConfig `mapstructure:"strategy" json:"strategy"`
	Alerts          Alerts         `mapstructure:"alerts" json:"alerts"`
}

func (i Instrument) Key() PositionKey {
	return PositionKey{Symbol: i.Symbol, Timeframe: i.Timeframe}
}

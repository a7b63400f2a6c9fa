package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"wunder_bot/internal/models"
)

type ProviderTestSuite struct {
	suite.Suite
	dir string
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (s *ProviderTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ProviderTestSuite) write(name, body string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

const pairsJSON = `{
  "pairs": [
    {
      "symbol": "btcusdt",
      "timeframe": "15m",
      "initial_position": "long",
      "strategy": {"type": "TMH", "confirmation_mode": "any_2_of_3", "ema_fast": "9"},
      "alerts": {"enter_long": "EL-1", "exit_long": "XL-1", "enter_short": "ES-1", "exit_short": "XS-1"}
    },
    {
      "symbol": "ETHUSDT",
      "enabled": false,
      "strategy": {"type": "ssl_channel", "ssl_period": 14, "enter_exit": true, "signal_on_close": false}
    },
    "not-a-record",
    {"timeframe": "1h"},
    {"symbol": "SOLUSDT", "strategy": {"ema_fast": "fast"}},
    {"symbol": "ADAUSDT", "initial_position": "sideways"},
    {"symbol": "XRPUSDT", "strategy": {"supertrend_multiplier": 0}}
  ]
}`

func (s *ProviderTestSuite) TestLoadSkipsMalformedRecords() {
	p := NewProvider(s.write("pairs.json", pairsJSON))

	got, err := p.Load(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 2)

	btc := got[0]
	s.Equal("BTCUSDT", btc.Symbol)
	s.Equal("15m", btc.Timeframe)
	s.True(btc.Enabled)
	s.Equal("LONG", btc.InitialPosition)
	s.Equal(models.StrategyType("TMH"), btc.Strategy.Type)
	s.Equal(9, btc.Strategy.EMAFast)
	s.Equal(26, btc.Strategy.EMASlow)
	s.InDelta(2.0, btc.Strategy.SupertrendMultiplier, 1e-12)
	s.True(btc.Strategy.SignalOnClose)
	s.Equal("EL-1", btc.Alerts.EnterLong)
	s.Equal("XS-1", btc.Alerts.ExitShort)

	eth := got[1]
	s.False(eth.Enabled)
	s.Equal("15m", eth.Timeframe)
	s.Equal("", eth.InitialPosition)
	s.Equal(14, eth.Strategy.SSLPeriod)
	s.True(eth.Strategy.EnterExit)
	s.False(eth.Strategy.SignalOnClose)

	s.Len(Enabled(got), 1)
	s.Equal(got, p.Last())
}

func (s *ProviderTestSuite) TestLoadYAML() {
	p := NewProvider(s.write("pairs.yaml", `
pairs:
  - symbol: BTCUSDT
    timeframe: 1h
    strategy:
      type: wt_cross
      obLevel2: 60
      osLevel2: -60
      mode: dual_filtered
    alerts:
      exit_all: XA
`))
	got, err := p.Load(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("1h", got[0].Timeframe)
	s.InDelta(60.0, got[0].Strategy.OBLevel2, 1e-12)
	s.InDelta(-60.0, got[0].Strategy.OSLevel2, 1e-12)
	s.Equal("dual_filtered", got[0].Strategy.Mode)
	s.Equal("XA", got[0].Alerts.CodeFor(models.SignalExitLong))
}

func (s *ProviderTestSuite) TestLoadPicksUpEdits() {
	path := s.write("pairs.json", `{"pairs": [{"symbol": "BTCUSDT"}]}`)
	p := NewProvider(path)

	got, err := p.Load(context.Background())
	s.Require().NoError(err)
	s.Len(got, 1)

	s.write("pairs.json", `{"pairs": [{"symbol": "BTCUSDT"}, {"symbol": "ETHUSDT"}]}`)
	got, err = p.Load(context.Background())
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *ProviderTestSuite) TestLoadErrors() {
	_, err := NewProvider(filepath.Join(s.dir, "absent.json")).Load(context.Background())
	s.Error(err)

	_, err = NewProvider(s.write("bad.json", `{"pairs": {"symbol": "BTCUSDT"}}`)).Load(context.Background())
	s.Error(err)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wunder_bot/internal/models"
	alertmocks "wunder_bot/internal/modules/alert/mocks"
	alertsvc "wunder_bot/internal/modules/alert/service"
	enginemocks "wunder_bot/internal/modules/engine/mocks"
	healthsvc "wunder_bot/internal/modules/health/service"
	positionsvc "wunder_bot/internal/modules/position/service"
	"wunder_bot/internal/strategy"
	"wunder_bot/internal/testutil"
	"wunder_bot/pkg/metrics"
)

type mockPairs struct {
	mock.Mock
}

func (m *mockPairs) Load(ctx context.Context) ([]models.Instrument, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Instrument)
	return list, args.Error(1)
}

type CycleTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	supplier *enginemocks.MockSupplier
	sink     *alertmocks.MockSink
	pairs    *mockPairs
	gate     *positionsvc.Gate
	state    *healthsvc.State
	cycle    *Cycle
}

func TestCycleSuite(t *testing.T) {
	suite.Run(t, new(CycleTestSuite))
}

func (s *CycleTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.supplier = enginemocks.NewMockSupplier(s.ctrl)
	s.sink = alertmocks.NewMockSink(s.ctrl)
	s.pairs = &mockPairs{}
	s.gate = positionsvc.NewGate(positionsvc.NewStore(), positionsvc.DefaultCooldown)
	s.state = healthsvc.NewState()
	s.cycle = NewCycle(s.pairs, s.supplier, strategy.NewRegistry(), s.gate, s.sink, metrics.New(nil), s.state, 200)
}

func instrument(symbol string, t models.StrategyType) models.Instrument {
	cfg := models.DefaultStrategyConfig()
	cfg.Type = t
	return models.Instrument{
		Symbol:    symbol,
		Timeframe: "15m",
		Enabled:   true,
		Strategy:  cfg,
		Alerts: models.Alerts{
			EnterLong:  "enter_long_" + symbol,
			EnterShort: "enter_short_" + symbol,
			ExitAll:    "exit_all_" + symbol,
		},
	}
}

func (s *CycleTestSuite) expectCandles(symbol string, candles []models.Candle) *gomock.Call {
	return s.supplier.EXPECT().Candles(gomock.Any(), symbol, "15m", 200).Return(candles, nil)
}

func (s *CycleTestSuite) position(symbol string) models.Position {
	return s.gate.Store().Get(models.PositionKey{Symbol: symbol, Timeframe: "15m"}).Position
}

func (s *CycleTestSuite) TestLongRoundTrip() {
	ctx := context.Background()
	inst := instrument("BTCUSDT", "TMH")
	breakout := testutil.Breakout(61, 100, 0.5, 10, 59)
	down := testutil.Downtrend(61, 100, 0.5)

	gomock.InOrder(
		s.expectCandles("BTCUSDT", breakout).Times(2),
		s.expectCandles("BTCUSDT", down).Times(2),
	)
	gomock.InOrder(
		s.sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a alertsvc.Alert) error {
			s.Equal("enter_long_BTCUSDT", a.Code)
			s.Equal(models.SignalEnterLong, a.Kind)
			s.Equal(breakout[59].Close, a.Price)
			return nil
		}),
		s.sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a alertsvc.Alert) error {
			// ENTER-SHORT при LONG разрешается как выход
			s.Equal(models.SignalExitLong, a.Kind)
			s.Equal("exit_all_BTCUSDT", a.Code)
			return nil
		}),
		s.sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a alertsvc.Alert) error {
			s.Equal(models.SignalEnterShort, a.Kind)
			s.Equal("enter_short_BTCUSDT", a.Code)
			return nil
		}),
	)

	res := s.cycle.RunInstrument(ctx, inst)
	s.Require().NoError(res.Err)
	s.True(res.Decision.Emitted)
	s.Equal(models.PositionLong, s.position("BTCUSDT"))

	res = s.cycle.RunInstrument(ctx, inst)
	s.Require().NoError(res.Err)
	s.Equal(models.SignalEnterLong, res.Signal.Kind)
	s.False(res.Decision.Authorized)

	res = s.cycle.RunInstrument(ctx, inst)
	s.Require().NoError(res.Err)
	s.Equal(models.SignalEnterShort, res.Signal.Kind)
	s.Equal(models.SignalExitLong, res.Decision.Kind)
	s.Equal(models.PositionNone, s.position("BTCUSDT"))

	res = s.cycle.RunInstrument(ctx, inst)
	s.Require().NoError(res.Err)
	s.Equal(models.SignalEnterShort, res.Decision.Kind)
	s.Equal(models.PositionShort, s.position("BTCUSDT"))
	s.Equal(int64(3), s.gate.TotalEmitted())
}

func (s *CycleTestSuite) TestFetchFailureSkipsInstrument() {
	s.supplier.EXPECT().Candles(gomock.Any(), "ETHUSDT", "15m", 200).Return(nil, errors.New("timeout"))

	res := s.cycle.RunInstrument(context.Background(), instrument("ETHUSDT", "tmh"))
	s.Require().Error(res.Err)
	s.Contains(res.Err.Error(), "timeout")
	s.Equal(models.PositionNone, s.position("ETHUSDT"))
}

func (s *CycleTestSuite) TestEmptyCandlesSkipInstrument() {
	s.expectCandles("ETHUSDT", nil)

	res := s.cycle.RunInstrument(context.Background(), instrument("ETHUSDT", "tmh"))
	s.ErrorIs(res.Err, ErrNoCandles)
}

func (s *CycleTestSuite) TestFailedDeliveryLeavesPositionUntouched() {
	s.expectCandles("BTCUSDT", testutil.Breakout(61, 100, 0.5, 10, 59))
	s.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("502"))

	res := s.cycle.RunInstrument(context.Background(), instrument("BTCUSDT", "tmh"))
	s.Require().Error(res.Err)
	s.True(res.Decision.Authorized)
	s.False(res.Decision.Emitted)
	s.Equal(models.PositionNone, s.position("BTCUSDT"))
}

func (s *CycleTestSuite) TestMissingAlertCodeIsDeliveryError() {
	inst := instrument("BTCUSDT", "tmh")
	inst.Alerts.EnterLong = ""
	s.expectCandles("BTCUSDT", testutil.Breakout(61, 100, 0.5, 10, 59))

	res := s.cycle.RunInstrument(context.Background(), inst)
	s.ErrorIs(res.Err, alertsvc.ErrNoAlertCode)
	s.Equal(models.PositionNone, s.position("BTCUSDT"))
}

func (s *CycleTestSuite) TestUnknownStrategyHolds() {
	candles := testutil.Uptrend(60, 100, 0.5)
	s.expectCandles("BTCUSDT", candles)

	res := s.cycle.RunInstrument(context.Background(), instrument("BTCUSDT", "grid_v9"))
	s.Require().NoError(res.Err)
	s.Equal(models.SignalHold, res.Signal.Kind)
	s.Equal(models.LastClose(candles), res.Signal.Price)
}

func (s *CycleTestSuite) TestPanicIsContained() {
	s.supplier.EXPECT().Candles(gomock.Any(), "BTCUSDT", "15m", 200).DoAndReturn(
		func(context.Context, string, string, int) ([]models.Candle, error) {
			panic("boom")
		})

	var res Result
	s.NotPanics(func() { res = s.cycle.RunInstrument(context.Background(), instrument("BTCUSDT", "tmh")) })
	s.Require().Error(res.Err)
	s.Contains(res.Err.Error(), "boom")
}

func (s *CycleTestSuite) TestRunIsolatesFailures() {
	broken := instrument("ETHUSDT", "tmh")
	disabled := instrument("XRPUSDT", "tmh")
	disabled.Enabled = false
	s.pairs.On("Load", mock.Anything).Return([]models.Instrument{
		instrument("BTCUSDT", "tmh"), broken, disabled,
	}, nil).Once()

	s.expectCandles("BTCUSDT", testutil.Breakout(61, 100, 0.5, 10, 59))
	s.supplier.EXPECT().Candles(gomock.Any(), "ETHUSDT", "15m", 200).Return(nil, errors.New("rate limited"))
	s.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	s.False(s.state.Ready())
	s.cycle.Run(context.Background())

	s.True(s.state.Ready())
	s.False(s.state.LastCycle().IsZero())
	s.Equal(models.PositionLong, s.position("BTCUSDT"))
	s.Equal(models.PositionNone, s.position("ETHUSDT"))
	s.pairs.AssertExpectations(s.T())
}

func (s *CycleTestSuite) TestRunWithoutEnabledInstruments() {
	off := instrument("BTCUSDT", "tmh")
	off.Enabled = false
	s.pairs.On("Load", mock.Anything).Return([]models.Instrument{off}, nil).Once()

	s.cycle.Run(context.Background())
	s.Equal(int64(1), s.state.Cycles())
}

func (s *CycleTestSuite) TestRunSurvivesUnreadablePairs() {
	s.pairs.On("Load", mock.Anything).Return(nil, errors.New("no such file")).Once()

	s.NotPanics(func() { s.cycle.Run(context.Background()) })
	s.pairs.AssertExpectations(s.T())
	s.False(s.state.Ready())
	s.True(s.state.LastCycle().IsZero())
	s.Equal(int64(0), s.state.Cycles())
}

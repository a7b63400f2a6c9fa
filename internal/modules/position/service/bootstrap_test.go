package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wunder_bot/internal/models"
)

type loadRepo struct {
	states []models.PositionState
	err    error
}

func (r loadRepo) LoadAll(context.Context) ([]models.PositionState, error) { return r.states, r.err }
func (r loadRepo) Save(context.Context, models.PositionState) error        { return nil }

func TestBootstrapSeedsOverRestored(t *testing.T) {
	btc := models.PositionKey{Symbol: "BTCUSDT", Timeframe: "15m"}
	eth := models.PositionKey{Symbol: "ETHUSDT", Timeframe: "1h"}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	repo := loadRepo{states: []models.PositionState{
		{Key: btc, Position: models.PositionLong, LastSignal: models.SignalEnterLong, LastEmittedAt: at},
		{Key: eth, Position: models.PositionShort, LastSignal: models.SignalEnterShort, LastEmittedAt: at},
	}}
	store := NewStore()

	err := Bootstrap(context.Background(), store, repo, []models.Instrument{
		{Symbol: "BTCUSDT", Timeframe: "15m"},
		{Symbol: "ETHUSDT", Timeframe: "1h", InitialPosition: "none"},
		{Symbol: "SOLUSDT", Timeframe: "15m", InitialPosition: "SHORT"},
		{Symbol: "XRPUSDT", Timeframe: "15m", InitialPosition: "sideways"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PositionLong, store.Get(btc).Position)
	assert.Equal(t, at, store.Get(btc).LastEmittedAt)

	st := store.Get(eth)
	assert.Equal(t, models.PositionNone, st.Position)
	assert.True(t, st.LastEmittedAt.IsZero())

	assert.Equal(t, models.PositionShort, store.Get(models.PositionKey{Symbol: "SOLUSDT", Timeframe: "15m"}).Position)
	assert.Equal(t, models.PositionNone, store.Get(models.PositionKey{Symbol: "XRPUSDT", Timeframe: "15m"}).Position)
}

func TestBootstrapRepositoryError(t *testing.T) {
	err := Bootstrap(context.Background(), NewStore(), loadRepo{err: errors.New("conn refused")}, nil)
	assert.ErrorContains(t, err, "conn refused")
}

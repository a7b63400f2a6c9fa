package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/db"
)

type execCall struct {
	sql  string
	args []any
}

type fakeTx struct {
	calls []execCall
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

type fakeTxManager struct {
	tx   *fakeTx
	runs int
}

func (m *fakeTxManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx db.Transaction) error) error {
	m.runs++
	return fn(ctx, m.tx)
}

func (m *fakeTxManager) Conn() db.Transaction { return m.tx }

func TestPgRepositorySaveUpserts(t *testing.T) {
	tm := &fakeTxManager{tx: &fakeTx{}}
	repo := NewPgRepository(tm)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	err := repo.Save(context.Background(), models.PositionState{
		Key:           models.PositionKey{Symbol: "BTCUSDT", Timeframe: "15m"},
		Position:      models.PositionLong,
		LastSignal:    models.SignalEnterLong,
		LastEmittedAt: at,
		EmittedAt: map[models.SignalKind]time.Time{
			models.SignalEnterLong: at,
			models.SignalExitLong:  at.Add(-time.Minute),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, tm.runs)
	require.Len(t, tm.tx.calls, 1)

	call := tm.tx.calls[0]
	assert.Contains(t, call.sql, "ON CONFLICT (symbol, timeframe)")
	require.Len(t, call.args, 6)
	assert.Equal(t, "BTCUSDT", call.args[0])
	assert.Equal(t, "15m", call.args[1])
	assert.Equal(t, "LONG", call.args[2])
	assert.Equal(t, "ENTER-LONG", call.args[3])
	ts, ok := call.args[4].(*time.Time)
	require.True(t, ok)
	assert.True(t, ts.Equal(at))
	assert.Equal(t, time.UTC, ts.Location())

	byKind, err := decodeEmittedAt([]byte(call.args[5].(string)))
	require.NoError(t, err)
	require.Len(t, byKind, 2)
	assert.True(t, byKind[models.SignalEnterLong].Equal(at))
	assert.True(t, byKind[models.SignalExitLong].Equal(at.Add(-time.Minute)))
}

func TestPgRepositorySaveWithoutEmissionStoresNull(t *testing.T) {
	tm := &fakeTxManager{tx: &fakeTx{}}
	require.NoError(t, NewPgRepository(tm).Save(context.Background(), models.PositionState{
		Key:      models.PositionKey{Symbol: "ETHUSDT", Timeframe: "1h"},
		Position: models.PositionShort,
	}))
	assert.Nil(t, tm.tx.calls[0].args[4].(*time.Time))
	assert.Equal(t, "{}", tm.tx.calls[0].args[5])
}

func TestDecodeEmittedAtEmpty(t *testing.T) {
	for _, raw := range []string{"", "{}"} {
		byKind, err := decodeEmittedAt([]byte(raw))
		require.NoError(t, err)
		assert.Nil(t, byKind, raw)
	}
	_, err := decodeEmittedAt([]byte("[1,2"))
	assert.Error(t, err)
}

func TestPgRepositoryMigrate(t *testing.T) {
	tm := &fakeTxManager{tx: &fakeTx{}}
	require.NoError(t, NewPgRepository(tm).Migrate(context.Background()))
	require.Len(t, tm.tx.calls, 2)
	assert.Contains(t, tm.tx.calls[0].sql, "CREATE TABLE IF NOT EXISTS position_states")
	assert.Contains(t, tm.tx.calls[1].sql, "ADD COLUMN IF NOT EXISTS emitted_at")
}

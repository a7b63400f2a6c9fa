package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/db"
)

// Repository: необязательное хранение таблицы позиций между рестартами.
type Repository interface {
	LoadAll(ctx context.Context) ([]models.PositionState, error)
	Save(ctx context.Context, st models.PositionState) error
}

type NopRepository struct{}

func (NopRepository) LoadAll(context.Context) ([]models.PositionState, error) { return nil, nil }
func (NopRepository) Save(context.Context, models.PositionState) error         { return nil }

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS position_states (
	symbol          TEXT        NOT NULL,
	timeframe       TEXT        NOT NULL,
	position        TEXT        NOT NULL,
	last_signal     TEXT        NOT NULL DEFAULT '',
	last_emitted_at TIMESTAMPTZ NULL,
	emitted_at      JSONB       NOT NULL DEFAULT '{}'::jsonb,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (symbol, timeframe)
)`

	// таблицы, созданные до появления emitted_at
	addEmittedAtSQL = `ALTER TABLE position_states ADD COLUMN IF NOT EXISTS emitted_at JSONB NOT NULL DEFAULT '{}'::jsonb`

	upsertSQL = `INSERT INTO position_states (symbol, timeframe, position, last_signal, last_emitted_at, emitted_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, now())
ON CONFLICT (symbol, timeframe) DO UPDATE SET
	position = EXCLUDED.position,
	last_signal = EXCLUDED.last_signal,
	last_emitted_at = EXCLUDED.last_emitted_at,
	emitted_at = EXCLUDED.emitted_at,
	updated_at = now()`

	selectAllSQL = `SELECT symbol, timeframe, position, last_signal, last_emitted_at, emitted_at FROM position_states`
)

type PgRepository struct {
	tx db.TxManager
}

func NewPgRepository(tx db.TxManager) *PgRepository {
	return &PgRepository{tx: tx}
}

func (r *PgRepository) Migrate(ctx context.Context) error {
	if _, err := r.tx.Conn().Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create position_states: %w", err)
	}
	if _, err := r.tx.Conn().Exec(ctx, addEmittedAtSQL); err != nil {
		return fmt.Errorf("migrate position_states.emitted_at: %w", err)
	}
	return nil
}

func (r *PgRepository) Save(ctx context.Context, st models.PositionState) error {
	var emittedAt *time.Time
	if !st.LastEmittedAt.IsZero() {
		t := st.LastEmittedAt.UTC()
		emittedAt = &t
	}
	byKind, err := encodeEmittedAt(st.EmittedAt)
	if err != nil {
		return err
	}
	return r.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, upsertSQL,
			st.Key.Symbol, st.Key.Timeframe, string(st.Position), string(st.LastSignal), emittedAt, byKind)
		return err
	})
}

func encodeEmittedAt(byKind map[models.SignalKind]time.Time) (string, error) {
	if len(byKind) == 0 {
		return "{}", nil
	}
	utc := make(map[models.SignalKind]time.Time, len(byKind))
	for k, t := range byKind {
		utc[k] = t.UTC()
	}
	data, err := sonic.Marshal(utc)
	if err != nil {
		return "", fmt.Errorf("encode emitted_at: %w", err)
	}
	return string(data), nil
}

func decodeEmittedAt(raw []byte) (map[models.SignalKind]time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var byKind map[models.SignalKind]time.Time
	if err := sonic.Unmarshal(raw, &byKind); err != nil {
		return nil, fmt.Errorf("decode emitted_at: %w", err)
	}
	if len(byKind) == 0 {
		return nil, nil
	}
	return byKind, nil
}

func (r *PgRepository) LoadAll(ctx context.Context) ([]models.PositionState, error) {
	rows, err := r.tx.Conn().Query(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("select position_states: %w", err)
	}
	defer rows.Close()

	var out []models.PositionState
	for rows.Next() {
		var (
			st        models.PositionState
			pos, last string
			emittedAt *time.Time
			byKind    []byte
		)
		if err := rows.Scan(&st.Key.Symbol, &st.Key.Timeframe, &pos, &last, &emittedAt, &byKind); err != nil {
			return nil, fmt.Errorf("scan position_states: %w", err)
		}
		if st.Position, err = models.ParsePosition(pos); err != nil {
			return nil, err
		}
		if kind, ok := models.ParseSignalKind(last); ok {
			st.LastSignal = kind
		}
		if emittedAt != nil {
			st.LastEmittedAt = *emittedAt
		}
		if st.EmittedAt, err = decodeEmittedAt(byKind); err != nil {
			return nil, fmt.Errorf("%s: %w", st.Key, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

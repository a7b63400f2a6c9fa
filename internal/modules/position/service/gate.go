package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"wunder_bot/internal/models"
	"wunder_bot/pkg/logger"
)

const DefaultCooldown = 90 * time.Second

// EmitFunc delivers the resolved kind downstream. A nil error confirms delivery.
type EmitFunc func(ctx context.Context, kind models.SignalKind) error

type Decision struct {
	Key        models.PositionKey
	Kind       models.SignalKind
	Authorized bool
	Emitted    bool
	Reason     string
	Position   models.Position
}

// Gate: автомат позиций и антидребезга поверх Store.
type Gate struct {
	store    *Store
	repo     Repository
	cooldown time.Duration
	now      func() time.Time

	emitted atomic.Int64
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option { return func(g *Gate) { g.now = now } }

func WithRepository(r Repository) Option { return func(g *Gate) { g.repo = r } }

func NewGate(store *Store, cooldown time.Duration, opts ...Option) *Gate {
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	g := &Gate{
		store:    store,
		repo:     NopRepository{},
		cooldown: cooldown,
		now:      time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Gate) Store() *Store          { return g.store }
func (g *Gate) Cooldown() time.Duration { return g.cooldown }

// TotalEmitted counts confirmed emissions since start.
func (g *Gate) TotalEmitted() int64 { return g.emitted.Load() }

// Allowed: проверка по позиции. HOLD не проходит никогда.
func Allowed(pos models.Position, kind models.SignalKind) bool {
	switch kind {
	case models.SignalEnterLong:
		return pos != models.PositionLong
	case models.SignalEnterShort:
		return pos != models.PositionShort
	case models.SignalExitLong:
		return pos == models.PositionLong
	case models.SignalExitShort:
		return pos == models.PositionShort
	}
	return false
}

// Resolve picks the exit when the reading also qualifies for a legal exit,
// otherwise the raw kind.
func Resolve(pos models.Position, sig models.Signal) models.SignalKind {
	if sig.Exit.IsExit() && Allowed(pos, sig.Exit) {
		return sig.Exit
	}
	return sig.Kind
}

// Process проверяет сигнал и при допуске вызывает emit под локом ключа.
// Состояние меняется только после успешной доставки и целиком.
func (g *Gate) Process(ctx context.Context, key models.PositionKey, sig models.Signal, emit EmitFunc) (Decision, error) {
	e := g.store.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state
	d := Decision{Key: key, Kind: Resolve(st.Position, sig), Position: st.Position}

	if d.Kind == models.SignalHold {
		d.Reason = "hold"
		return d, nil
	}
	if !Allowed(st.Position, d.Kind) {
		d.Reason = fmt.Sprintf("%s not allowed while %s", d.Kind, st.Position)
		return d, nil
	}

	now := g.now()
	// антидребезг по виду сигнала: ENTER-LONG -> EXIT-LONG -> ENTER-LONG за 20s не пройдёт
	if last := st.LastEmitted(d.Kind); !last.IsZero() {
		if since := now.Sub(last); since < g.cooldown {
			d.Reason = fmt.Sprintf("cooldown: %s sent %s ago", d.Kind, since.Truncate(time.Second))
			return d, nil
		}
	}

	d.Authorized = true
	if err := emit(ctx, d.Kind); err != nil {
		d.Reason = "emit failed"
		return d, fmt.Errorf("emit %s for %s: %w", d.Kind, key, err)
	}

	st.Key = key
	next := st.Emitted(d.Kind, now)
	e.state = next
	g.emitted.Add(1)

	d.Emitted = true
	d.Position = next.Position
	d.Reason = "emitted"

	if err := g.repo.Save(ctx, next); err != nil {
		logger.Error("persist position %s: %v", key, err)
	}
	return d, nil
}

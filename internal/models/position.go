package models

import (
	"fmt"
	"strings"
	"time"
)

type Position string

const (
	PositionNone  Position = "NONE"
	PositionLong  Position = "LONG"
	PositionShort Position = "SHORT"
)

// ParsePosition maps "", "none", "long", "short" (any case) to a Position.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE", "NULL":
		return PositionNone, nil
	case "LONG":
		return PositionLong, nil
	case "SHORT":
		return PositionShort, nil
	}
	return PositionNone, fmt.Errorf("unknown position %q", s)
}

// PositionKey: инструмент + таймфрейм.
type PositionKey struct {
	Symbol    string
	Timeframe string
}

func (k PositionKey) String() string { return k.Symbol + "@" + k.Timeframe }

// ParsePositionKey is the inverse of PositionKey.String.
func ParsePositionKey(s string) (PositionKey, bool) {
	i := strings.LastIndexByte(s, '@')
	if i <= 0 || i >= len(s)-1 {
		return PositionKey{}, false
	}
	return PositionKey{Symbol: s[:i], Timeframe: s[i+1:]}, true
}

// PositionState is what the engine believes about one key. LastSignal and
// LastEmittedAt always change together; a zero LastEmittedAt means never.
// EmittedAt keeps the last emission per kind for the cooldown and is never
// mutated in place: every emission builds a new map.
type PositionState struct {
	Key           PositionKey              `json:"-"`
	Position      Position                 `json:"position"`
	LastSignal    SignalKind               `json:"last_signal,omitempty"`
	LastEmittedAt time.Time                `json:"last_emitted_at"`
	EmittedAt     map[SignalKind]time.Time `json:"emitted_at,omitempty"`
}

// LastEmitted returns when kind was last emitted for the key, zero if never.
func (s PositionState) LastEmitted(kind SignalKind) time.Time {
	if t, ok := s.EmittedAt[kind]; ok {
		return t
	}
	if s.LastSignal == kind {
		return s.LastEmittedAt
	}
	return time.Time{}
}

// Emitted returns the state after kind went out at `at`.
func (s PositionState) Emitted(kind SignalKind, at time.Time) PositionState {
	byKind := make(map[SignalKind]time.Time, len(s.EmittedAt)+1)
	for k, t := range s.EmittedAt {
		byKind[k] = t
	}
	byKind[kind] = at

	return PositionState{
		Key:           s.Key,
		Position:      PositionAfter(s.Position, kind),
		LastSignal:    kind,
		LastEmittedAt: at,
		EmittedAt:     byKind,
	}
}

// PositionAfter returns the position that results from emitting kind.
func PositionAfter(current Position, kind SignalKind) Position {
	switch kind {
	case SignalEnterLong:
		return PositionLong
	case SignalEnterShort:
		return PositionShort
	case SignalExitLong, SignalExitShort:
		return PositionNone
	}
	return current
}

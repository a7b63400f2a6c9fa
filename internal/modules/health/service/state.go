package service

import (
	"sync/atomic"
	"time"
)

// State: живые флаги процесса для /readyz и /status.
type State struct {
	ready     atomic.Bool
	running   atomic.Bool
	startedAt time.Time

	streamConnected atomic.Bool
	lastCycleNano   atomic.Int64
	cycles          atomic.Int64
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetRunning(v bool) { s.running.Store(v) }
func (s *State) Running() bool     { return s.running.Load() }

// Ready становится true после первого завершённого цикла.
func (s *State) Ready() bool { return s.ready.Load() }

func (s *State) SetStreamConnected(v bool) { s.streamConnected.Store(v) }
func (s *State) StreamConnected() bool     { return s.streamConnected.Load() }

// MarkCycle records a completed evaluation cycle.
func (s *State) MarkCycle(t time.Time) {
	s.lastCycleNano.Store(t.UnixNano())
	s.cycles.Add(1)
	s.ready.Store(true)
}

func (s *State) LastCycle() time.Time {
	n := s.lastCycleNano.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (s *State) Cycles() int64 { return s.cycles.Load() }

func (s *State) StartedAt() time.Time  { return s.startedAt }
func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

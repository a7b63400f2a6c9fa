package service

import (
	"sort"
	"sync"

	"wunder_bot/internal/models"
)

type entry struct {
	mu    sync.Mutex
	state models.PositionState
}

// Store: таблица состояний по ключу symbol@tf.
// Карта под RWMutex, у каждой записи свой mutex: разные ключи друг друга не ждут.
type Store struct {
	mu      sync.RWMutex
	entries map[models.PositionKey]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[models.PositionKey]*entry)}
}

// entry lazily creates the record with position NONE.
func (s *Store) entry(key models.PositionKey) *entry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[key]; ok {
		return e
	}
	e = &entry{state: models.PositionState{Key: key, Position: models.PositionNone}}
	s.entries[key] = e
	return e
}

// Seed выставляет позицию без истории сигналов (синхронизация при старте).
func (s *Store) Seed(key models.PositionKey, pos models.Position) {
	e := s.entry(key)
	e.mu.Lock()
	e.state = models.PositionState{Key: key, Position: pos}
	e.mu.Unlock()
}

// Restore loads persisted states as they were saved.
func (s *Store) Restore(states []models.PositionState) {
	for _, st := range states {
		e := s.entry(st.Key)
		e.mu.Lock()
		e.state = st
		e.mu.Unlock()
	}
}

// Lookup is Get without creating the record.
func (s *Store) Lookup(key models.PositionKey) (models.PositionState, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return models.PositionState{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, true
}

func (s *Store) Get(key models.PositionKey) models.PositionState {
	e := s.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a copy of the table ordered by key.
func (s *Store) Snapshot() []models.PositionState {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]models.PositionState, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.state)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out
}

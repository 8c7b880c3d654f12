// internal/store/memory.go
//
// In-memory implementation of the Store interface.
//
// Characteristics:
//   - Stores copies of *game.Game keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/numeros/internal/game"
)

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[string]*game.Game)}
}

// Save adds or updates the game in the map.
func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = clone(g)
	return nil
}

// Get looks up a game by ID and returns a private copy.
func (m *Memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return clone(g), nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

// DeleteIdle drops every game whose UpdatedAt is before cutoff.
func (m *Memory) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored games.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

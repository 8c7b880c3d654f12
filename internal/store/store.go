// internal/store/store.go
//
// Persistence interface for in-progress quiz sessions.
// Implementations:
//   - memory: map guarded by RWMutex (default, lost on restart).
//   - redis:  JSON blobs with a TTL.
//   - sqlite: JSON blobs in a games table, swept by the janitor.
//
// Sessions are scratch state: nothing here aggregates scores across games.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/numeros/internal/game"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("game not found")

//go:generate mockgen -package=mocks -destination=mocks/mock_store.go github.com/robalobadob/numeros/internal/store Store

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	// Returns ErrNotFound if the game is not stored.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game.
	Delete(ctx context.Context, id string) error
}

// Sweeper is implemented by stores that cannot expire entries on their own.
type Sweeper interface {
	// DeleteIdle removes games last updated before cutoff and reports how many.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// clone copies g so callers never share a stored value.
func clone(g *game.Game) *game.Game {
	c := *g
	c.Answers = make([]game.Answer, len(g.Answers))
	copy(c.Answers, g.Answers)
	return &c
}

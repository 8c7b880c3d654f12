// internal/quiz/service.go
//
// Quiz service: loads a session from the store, applies one event with the
// current time, and saves it back. Both front ends (HTTP and Telegram) go
// through here.

package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numeros/internal/common/clock"
	"github.com/robalobadob/numeros/internal/common/uuid"
	"github.com/robalobadob/numeros/internal/daily"
	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/store"
)

// Config holds the service dependencies.
type Config struct {
	Store     store.Store
	Clock     clock.Clock
	UUID      uuid.UUID
	DailySalt string
	// Rounds per session; zero means game.DefaultRounds.
	Rounds int
}

// Service runs quiz sessions on top of a Store.
type Service struct {
	store     store.Store
	clock     clock.Clock
	uuid      uuid.UUID
	dailySalt string
	rounds    int
	locks     *gameLocks
}

// New validates cfg and builds a Service.
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Store == nil {
		return nil, ErrNilStore
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	return &Service{
		store:     cfg.Store,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
		dailySalt: cfg.DailySalt,
		rounds:    cfg.Rounds,
		locks:     newGameLocks(),
	}, nil
}

// Start creates a session with a fresh ID.
func (s *Service) Start(ctx context.Context, mode game.Mode) (*game.Game, error) {
	return s.StartWithID(ctx, s.uuid.NewUUID(), mode)
}

// StartWithID creates (or replaces) the session stored under id.
func (s *Service) StartWithID(ctx context.Context, id string, mode game.Mode) (*game.Game, error) {
	defer s.locks.lock(id)()

	now := s.clock.Now()
	g := game.New(id, mode, s.seed(mode), s.rounds, now)
	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save new game: %w", err)
	}
	log.Debug().Str("gameId", g.ID).Str("mode", string(mode)).Msg("game started")
	return g, nil
}

// Get loads a session and refreshes its elapsed time. The refreshed value
// is not saved; elapsed is recomputed from StartedAt on every read.
func (s *Service) Get(ctx context.Context, id string) (*game.Game, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	g.Tick(s.clock.Now())
	return g, nil
}

// Answer resolves round with the option at index choice. A round of 0
// skips the stale-round check.
func (s *Service) Answer(ctx context.Context, id string, round, choice int) (*game.Game, game.Result, error) {
	var res game.Result
	g, err := s.update(ctx, id, round, func(g *game.Game) error {
		var err error
		res, err = g.Answer(choice, s.clock.Now())
		return err
	})
	if err != nil {
		return g, res, err
	}
	log.Debug().Str("gameId", id).Int("round", round).Bool("correct", res.Correct).Msg("answer")
	return g, res, nil
}

// Skip moves past round without scoring it.
func (s *Service) Skip(ctx context.Context, id string, round int) (*game.Game, error) {
	return s.update(ctx, id, round, func(g *game.Game) error {
		return g.Skip(s.clock.Now())
	})
}

// Restart resets the session in place. Daily sessions replay the same
// numbers when restarted on the same day.
func (s *Service) Restart(ctx context.Context, id string) (*game.Game, error) {
	return s.update(ctx, id, 0, func(g *game.Game) error {
		g.Restart(s.seed(g.Mode), s.clock.Now())
		return nil
	})
}

// Discard removes a session that is being replaced. A session that is
// already gone is not an error.
func (s *Service) Discard(ctx context.Context, id string) error {
	defer s.locks.lock(id)()

	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	log.Debug().Str("gameId", id).Msg("game discarded")
	return nil
}

// update loads id, checks round, applies fn and saves the result. The
// whole load-check-save runs under the game's lock, so of two submissions
// for the same round only the first is applied.
func (s *Service) update(ctx context.Context, id string, round int, fn func(*game.Game) error) (*game.Game, error) {
	defer s.locks.lock(id)()

	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	if round > 0 && round != g.Round && !g.Finished {
		g.Tick(s.clock.Now())
		return g, ErrStaleRound
	}
	if err := fn(g); err != nil {
		return g, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save game %s: %w", id, err)
	}
	return g, nil
}

func (s *Service) seed(mode game.Mode) uint64 {
	if mode == game.ModeDaily {
		return daily.Seed(s.clock.Now(), s.dailySalt)
	}
	return game.RandomSeed()
}

// internal/game/engine.go
//
// Round orchestration for a single quiz session.
// Responsibilities:
//   - Create sessions and draw each round's number and options.
//   - Resolve answers and skips, keeping score.
//   - Track elapsed time; freeze it when the last round resolves.
//
// Notes:
//   - Every event takes the current time from the caller, so the engine
//     never reads the wall clock.
//   - A round's number and options depend only on (Seed, Round).

package game

import (
	"math/rand/v2"
	"time"

	"github.com/robalobadob/numeros/internal/numbers"
)

// New constructs a session and draws its first round.
// Rounds <= 0 falls back to DefaultRounds.
func New(id string, mode Mode, seed uint64, rounds int, now time.Time) *Game {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	g := &Game{ID: id, Mode: mode, Rounds: rounds}
	g.Restart(seed, now)
	return g
}

// Restart resets score, rounds and timer, keeping ID, Mode and Rounds.
func (g *Game) Restart(seed uint64, now time.Time) {
	g.Seed = seed
	g.Round = 0
	g.Score = 0
	g.Answers = []Answer{}
	g.StartedAt = now
	g.UpdatedAt = now
	g.Elapsed = 0
	g.Finished = false
	g.nextRound()
}

// Answer resolves the current round with the option at index choice.
// After the last round the game finishes and the timer stops.
func (g *Game) Answer(choice int, now time.Time) (Result, error) {
	if g.Finished {
		return Result{State: g.State()}, ErrFinished
	}
	if choice < 0 || choice >= len(g.Options.Labels) {
		return Result{State: g.State()}, ErrInvalidChoice
	}

	number := g.Target
	expected := numbers.Name(number)
	chosen := g.Options.Labels[choice]
	correct := chosen == expected
	if correct {
		g.Score++
	}
	g.Answers = append(g.Answers, Answer{
		Round:   g.Round,
		Number:  number,
		Chosen:  chosen,
		Correct: correct,
	})
	g.advance(now)

	return Result{Number: number, Correct: correct, Chosen: chosen, Expected: expected, State: g.State()}, nil
}

// Skip moves past the current round without scoring it.
func (g *Game) Skip(now time.Time) error {
	if g.Finished {
		return ErrFinished
	}
	g.Answers = append(g.Answers, Answer{Round: g.Round, Number: g.Target, Skipped: true})
	g.advance(now)
	return nil
}

// Tick refreshes Elapsed while the game is running and returns it.
func (g *Game) Tick(now time.Time) time.Duration {
	if !g.Finished {
		g.Elapsed = wholeSeconds(now.Sub(g.StartedAt))
	}
	return g.Elapsed
}

// State reports "playing" or "finished".
func (g *Game) State() string {
	if g.Finished {
		return StateFinished
	}
	return StatePlaying
}

// Correct reports the correct label of the current round.
func (g *Game) Correct() string {
	return g.Options.Labels[g.Options.Correct]
}

func (g *Game) advance(now time.Time) {
	g.Tick(now)
	g.UpdatedAt = now
	if g.Round >= g.Rounds {
		g.Finished = true
		return
	}
	g.nextRound()
}

func (g *Game) nextRound() {
	g.Round++
	r := roundRand(g.Seed, g.Round)
	g.Target = numbers.Draw(r)
	g.Options = numbers.NewOptionSet(r, g.Target)
}

// roundRand returns the generator for one round of a seeded session.
func roundRand(seed uint64, round int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(round)))
}

// RandomSeed returns a fresh seed for ModeRandom sessions.
func RandomSeed() uint64 { return rand.Uint64() }

func wholeSeconds(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

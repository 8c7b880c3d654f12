// internal/game/types.go
//
// Core type definitions for the number quiz.
// Defines:
//   - Mode:   how a session picks its numbers (random or daily).
//   - Game:   state of a single ten-round session.
//   - Answer: one resolved round.
//   - Result: outcome of answering the current round.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/numeros/internal/numbers"
)

// DefaultRounds is the number of rounds in a session.
const DefaultRounds = 10

// Mode selects where a session's seed comes from.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// State values reported by Game.State.
const (
	StatePlaying  = "playing"
	StateFinished = "finished"
)

var (
	ErrFinished      = errors.New("game finished")
	ErrInvalidChoice = errors.New("invalid choice")
)

// ParseMode maps user input to a Mode, defaulting to ModeRandom.
func ParseMode(s string) Mode {
	if Mode(s) == ModeDaily {
		return ModeDaily
	}
	return ModeRandom
}

// Game holds the state of a single quiz session.
//
// The value is plain data so any store can serialize it; per-round
// randomness is rebuilt from Seed and Round.
type Game struct {
	ID        string            `json:"id"`
	Mode      Mode              `json:"mode"`
	Seed      uint64            `json:"seed"`
	Rounds    int               `json:"rounds"`
	Round     int               `json:"round"` // 1-based, the round on screen
	Target    int               `json:"target"`
	Options   numbers.OptionSet `json:"options"`
	Score     int               `json:"score"`
	Answers   []Answer          `json:"answers"`
	StartedAt time.Time         `json:"startedAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Elapsed   time.Duration     `json:"elapsed"`
	Finished  bool              `json:"finished"`
}

// Answer records how one round was resolved.
type Answer struct {
	Round   int    `json:"round"`
	Number  int    `json:"number"`
	Chosen  string `json:"chosen,omitempty"`
	Correct bool   `json:"correct"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Result is returned by Game.Answer.
type Result struct {
	Number   int    `json:"number"` // the number that was asked
	Correct  bool   `json:"correct"`
	Chosen   string `json:"chosen"`
	Expected string `json:"expected"`
	State    string `json:"state"`
}

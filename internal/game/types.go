// internal/game/types.go
//
// Core type definitions for the hangman engine.
// Defines:
//   - Status: coarse lifecycle of a game (playing/won/lost).
//   - Game: mutable state for the single active game.
//   - Snapshot: immutable copy handed out to callers outside the store lock.

package game

import "time"

// Status reports where a game stands. It never blocks further guesses.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Game holds the state of one hangman game.
type Game struct {
	ID        string        // Unique game identifier (UUID).
	Word      string        // The secret word, case-preserved as received.
	Attempts  int           // Remaining wrong guesses before the game is lost.
	Output    string        // Masked display, e.g. "c _ t ".
	StartedAt time.Time     // When the game was created.
	guessed   map[rune]bool // lowercase letters guessed so far
	order     []rune        // same letters, in guess order
	status    Status
}

// Snapshot is a point-in-time copy of a Game.
type Snapshot struct {
	ID        string
	Word      string
	Guessed   string // guessed letters in guess order
	Attempts  int
	Output    string
	Status    Status
	StartedAt time.Time
}

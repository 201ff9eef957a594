// internal/store/memory.go
//
// In-memory holder for the single active hangman game.
//
// Characteristics:
//   - Holds at most one *game.Game; Replace discards the previous one.
//   - Every read-modify-write runs under one mutex, so concurrent guesses
//     cannot interleave.
//   - Callers only ever see game.Snapshot copies, never the live pointer.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNoActiveGame is returned when no game has been started yet.
var ErrNoActiveGame = errors.New("no active game")

// Store defines how the active game is held.
type Store interface {
	// Replace installs g as the active game.
	Replace(ctx context.Context, g *game.Game) error

	// Update runs fn against the active game while holding the lock and
	// returns a snapshot taken after fn. If fn fails the snapshot is of the
	// unchanged game.
	Update(ctx context.Context, fn func(g *game.Game) error) (game.Snapshot, error)

	// Current returns a snapshot of the active game.
	Current(ctx context.Context) (game.Snapshot, error)
}

// memory is the single-slot Store implementation.
type memory struct {
	mu     sync.Mutex // guards active
	active *game.Game
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) Replace(ctx context.Context, g *game.Game) error {
	if g == nil {
		return errors.New("store: nil game")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = g
	return nil
}

func (m *memory) Update(ctx context.Context, fn func(g *game.Game) error) (game.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return game.Snapshot{}, ErrNoActiveGame
	}
	err := fn(m.active)
	return m.active.Snapshot(), err
}

func (m *memory) Current(ctx context.Context) (game.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return game.Snapshot{}, ErrNoActiveGame
	}
	return m.active.Snapshot(), nil
}

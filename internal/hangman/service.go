// Package hangman holds the single active game and implements the four
// player operations on it: start, guess, attempts and solution.
package hangman

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/history"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Service owns the active game. It is safe for concurrent use.
type Service struct {
	words   words.Source
	store   store.Store
	history history.Recorder
	now     func() time.Time
}

// NewService wires a Service. A nil recorder disables the results log.
func NewService(src words.Source, st store.Store, rec history.Recorder) *Service {
	if rec == nil {
		rec = history.Nop()
	}
	return &Service{words: src, store: st, history: rec, now: time.Now}
}

// Start fetches a word and replaces the active game with a fresh one.
// If the word source fails the previous game is kept and the error wraps
// words.ErrUnavailable.
func (s *Service) Start(ctx context.Context, maxAttempts int) (game.Snapshot, error) {
	word, err := s.words.RandomWord(ctx)
	if err != nil {
		return game.Snapshot{}, err
	}
	g, err := game.New(word, maxAttempts)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %w", words.ErrUnavailable, err)
	}
	snap := g.Snapshot()
	if err := s.store.Replace(ctx, g); err != nil {
		return game.Snapshot{}, err
	}
	log.Info().Str("game", snap.ID).Int("letters", len([]rune(snap.Word))).
		Int("max_attempts", snap.Attempts).Msg("game started")
	return snap, nil
}

// Guess applies one letter to the active game.
// Errors: store.ErrNoActiveGame, game.ErrInvalidLetter, game.ErrAlreadyGuessed.
func (s *Service) Guess(ctx context.Context, letter string) (game.Snapshot, error) {
	var res game.Result
	snap, err := s.store.Update(ctx, func(g *game.Game) error {
		var err error
		res, err = g.ApplyGuess(letter)
		return err
	})
	if err != nil {
		return game.Snapshot{}, err
	}
	log.Debug().Str("game", snap.ID).Bool("hit", res.Hit).Int("attempts", snap.Attempts).Msg("guess")
	if res.Finished {
		s.finish(ctx, snap)
	}
	return snap, nil
}

// Attempts returns the remaining attempts of the active game.
func (s *Service) Attempts(ctx context.Context) (int, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Attempts, nil
}

// Solution returns the secret word of the active game.
func (s *Service) Solution(ctx context.Context) (string, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return "", err
	}
	return snap.Word, nil
}

// History lists recently finished games, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.Entry, error) {
	return s.history.Recent(ctx, limit)
}

// finish appends the game to the results log. Failures are logged only.
func (s *Service) finish(ctx context.Context, snap game.Snapshot) {
	log.Info().Str("game", snap.ID).Str("status", string(snap.Status)).Msg("game finished")
	err := s.history.Record(ctx, history.Entry{
		GameID:     snap.ID,
		Word:       snap.Word,
		Status:     string(snap.Status),
		Attempts:   snap.Attempts,
		Guessed:    snap.Guessed,
		StartedAt:  snap.StartedAt,
		FinishedAt: s.now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("game", snap.ID).Msg("record finished game")
	}
}

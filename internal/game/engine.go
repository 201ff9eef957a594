// internal/game/engine.go
//
// Core game engine for a single hangman game.
// Responsibilities:
//   - Create new games from a word and an attempt budget.
//   - Validate and apply single-letter guesses (case-insensitive).
//   - Rebuild the masked output after a correct guess.
//   - Track the playing → won/lost transition.
//
// Notes:
//   - The initial mask is one placeholder per character of the word; it does
//     not reveal non-letters. Masks rebuilt after a hit do.
//   - Attempts stop at 0; guessing after that is still accepted.
package game

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxAttempts is the attempt budget when the caller supplies none.
const DefaultMaxAttempts = 6

const placeholder = "_"

var (
	ErrInvalidLetter  = errors.New("invalid letter")
	ErrAlreadyGuessed = errors.New("letter already guessed")
	ErrEmptyWord      = errors.New("empty word")
)

// Result describes the effect of one accepted guess.
type Result struct {
	Hit      bool // the letter occurs in the word
	Finished bool // this guess moved the game from playing to won or lost
}

// New constructs a game for word with maxAttempts wrong guesses allowed.
func New(word string, maxAttempts int) (*Game, error) {
	if strings.TrimSpace(word) == "" {
		return nil, ErrEmptyWord
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	g := &Game{
		ID:        uuid.NewString(),
		Word:      word,
		Attempts:  maxAttempts,
		Output:    strings.Repeat(placeholder+" ", utf8.RuneCountInString(word)),
		StartedAt: time.Now().UTC(),
		guessed:   make(map[rune]bool),
		status:    StatusPlaying,
	}
	if maxAttempts == 0 {
		g.status = StatusLost
	}
	return g, nil
}

// ParseLetter validates a raw guess and returns its lowercase form.
// The guess must be exactly one Unicode letter.
func ParseLetter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, ErrInvalidLetter
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return 0, ErrInvalidLetter
	}
	return unicode.ToLower(r), nil
}

// ApplyGuess validates letter and applies it to the game.
// Nothing is mutated when an error is returned.
func (g *Game) ApplyGuess(letter string) (Result, error) {
	r, err := ParseLetter(letter)
	if err != nil {
		return Result{}, err
	}
	if g.guessed[r] {
		return Result{}, ErrAlreadyGuessed
	}
	g.guessed[r] = true
	g.order = append(g.order, r)

	res := Result{Hit: containsLetter(g.Word, r)}
	if res.Hit {
		g.Output = Mask(g.Word, g.guessed)
	} else if g.Attempts > 0 {
		g.Attempts--
	}
	if g.status == StatusPlaying {
		switch {
		case g.solved():
			g.status = StatusWon
		case g.Attempts == 0:
			g.status = StatusLost
		}
		res.Finished = g.status != StatusPlaying
	}
	return res, nil
}

// Status reports won once every letter is revealed, lost once attempts hit 0.
// The first of the two to happen sticks.
func (g *Game) Status() Status { return g.status }

// Snapshot copies the game for use outside the store lock.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:        g.ID,
		Word:      g.Word,
		Guessed:   string(g.order),
		Attempts:  g.Attempts,
		Output:    g.Output,
		Status:    g.Status(),
		StartedAt: g.StartedAt,
	}
}

// solved is true when no letter of the word is still hidden.
func (g *Game) solved() bool {
	for _, c := range g.Word {
		if unicode.IsLetter(c) && !g.guessed[unicode.ToLower(c)] {
			return false
		}
	}
	return true
}

// Mask renders word with guessed letters and non-letters shown literally and
// every other character replaced by the placeholder, each followed by a space.
func Mask(word string, guessed map[rune]bool) string {
	var b strings.Builder
	b.Grow(len(word) * 2)
	for _, c := range word {
		if guessed[unicode.ToLower(c)] || !unicode.IsLetter(c) {
			b.WriteRune(c)
		} else {
			b.WriteString(placeholder)
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// containsLetter reports whether r occurs in word, ignoring case.
func containsLetter(word string, r rune) bool {
	for _, c := range word {
		if unicode.ToLower(c) == r {
			return true
		}
	}
	return false
}

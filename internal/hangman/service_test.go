package hangman

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/history"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// fixedSource hands out its words in order, then fails.
type fixedSource struct {
	mu    sync.Mutex
	words []string
	err   error
}

func (f *fixedSource) RandomWord(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if len(f.words) == 0 {
		return "", fmt.Errorf("%w: exhausted", words.ErrUnavailable)
	}
	w := f.words[0]
	f.words = f.words[1:]
	return w, nil
}

// memRecorder keeps recorded entries in a slice.
type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
	err     error
}

func (m *memRecorder) Record(ctx context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memRecorder) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]history.Entry{}, m.entries...), nil
}

func (m *memRecorder) Close() error { return nil }

func newService(ws ...string) (*Service, *fixedSource, *memRecorder) {
	src := &fixedSource{words: ws}
	rec := &memRecorder{}
	return NewService(src, store.NewMemoryStore(), rec), src, rec
}

func TestQueriesBeforeStart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.Attempts(ctx)
	assert.ErrorIs(t, err, store.ErrNoActiveGame)

	_, err = svc.Solution(ctx)
	assert.ErrorIs(t, err, store.ErrNoActiveGame)
}

func TestGuessChecksActiveGameFirst(t *testing.T) {
	svc, _, _ := newService()
	for _, in := range []string{"a", "ab", "1", ""} {
		_, err := svc.Guess(context.Background(), in)
		assert.ErrorIs(t, err, store.ErrNoActiveGame, "%q", in)
	}
}

func TestCatScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newService("cat")

	snap, err := svc.Start(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "_ _ _ ", snap.Output)
	assert.Equal(t, 6, snap.Attempts)
	assert.Equal(t, "", snap.Guessed)

	steps := []struct {
		letter   string
		output   string
		attempts int
	}{
		{"c", "c _ _ ", 6},
		{"z", "c _ _ ", 5},
		{"t", "c _ t ", 5},
		{"a", "c a t ", 5},
	}
	for _, st := range steps {
		snap, err = svc.Guess(ctx, st.letter)
		require.NoError(t, err, st.letter)
		assert.Equal(t, st.output, snap.Output, st.letter)
		assert.Equal(t, st.attempts, snap.Attempts, st.letter)
	}

	n, err := svc.Attempts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	w, err := svc.Solution(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cat", w)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "won", rec.entries[0].Status)
	assert.Equal(t, "cat", rec.entries[0].Word)
	assert.Equal(t, "czta", rec.entries[0].Guessed)
	assert.Equal(t, snap.ID, rec.entries[0].GameID)
}

func TestRejectedGuessesDoNotMutate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService("cat")
	_, err := svc.Start(ctx, 6)
	require.NoError(t, err)
	_, err = svc.Guess(ctx, "c")
	require.NoError(t, err)

	for _, in := range []string{"ab", "1", ""} {
		_, err := svc.Guess(ctx, in)
		assert.ErrorIs(t, err, game.ErrInvalidLetter, "%q", in)
	}
	_, err = svc.Guess(ctx, "C")
	assert.ErrorIs(t, err, game.ErrAlreadyGuessed)

	snap, err := svc.store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", snap.Guessed)
	assert.Equal(t, 6, snap.Attempts)
	assert.Equal(t, "c _ _ ", snap.Output)
}

func TestStartReplacesGame(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService("cat", "Dog")

	_, err := svc.Start(ctx, 6)
	require.NoError(t, err)
	_, err = svc.Guess(ctx, "x")
	require.NoError(t, err)

	snap, err := svc.Start(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "_ _ _ ", snap.Output)
	assert.Equal(t, "", snap.Guessed)
	assert.Equal(t, 3, snap.Attempts)

	w, err := svc.Solution(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dog", w)

	// x is a fresh guess again.
	_, err = svc.Guess(ctx, "X")
	assert.NoError(t, err)
}

func TestStartFailureKeepsPreviousGame(t *testing.T) {
	ctx := context.Background()
	svc, src, _ := newService("cat")
	_, err := svc.Start(ctx, 6)
	require.NoError(t, err)

	src.err = fmt.Errorf("%w: connection refused", words.ErrUnavailable)
	_, err = svc.Start(ctx, 6)
	assert.ErrorIs(t, err, words.ErrUnavailable)

	w, err := svc.Solution(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cat", w)
}

func TestStartRejectsEmptyWord(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService("")

	_, err := svc.Start(ctx, 6)
	assert.ErrorIs(t, err, words.ErrUnavailable)

	_, err = svc.Solution(ctx)
	assert.ErrorIs(t, err, store.ErrNoActiveGame)
}

func TestLossIsRecordedOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newService("cat")
	_, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	snap, err := svc.Guess(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Attempts)
	assert.Equal(t, game.StatusLost, snap.Status)

	snap, err = svc.Guess(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Attempts)

	got, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lost", got[0].Status)
	assert.Len(t, rec.entries, 1)
}

func TestRecorderFailureDoesNotFailGuess(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newService("a")
	rec.err = errors.New("disk full")

	_, err := svc.Start(ctx, 6)
	require.NoError(t, err)
	snap, err := svc.Guess(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a ", snap.Output)
}

func TestNilRecorderUsesNop(t *testing.T) {
	svc := NewService(&fixedSource{words: []string{"a"}}, store.NewMemoryStore(), nil)
	ctx := context.Background()
	_, err := svc.Start(ctx, 6)
	require.NoError(t, err)
	_, err = svc.Guess(ctx, "a")
	require.NoError(t, err)

	got, err := svc.History(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

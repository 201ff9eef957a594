package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/internal/game"
)

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Current(ctx)
	assert.ErrorIs(t, err, ErrNoActiveGame)

	called := false
	_, err = st.Update(ctx, func(g *game.Game) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNoActiveGame)
	assert.False(t, called)
}

func TestReplaceDiscardsPreviousGame(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	first, err := game.New("cat", 6)
	require.NoError(t, err)
	require.NoError(t, st.Replace(ctx, first))

	second, err := game.New("dog", 3)
	require.NoError(t, err)
	require.NoError(t, st.Replace(ctx, second))

	snap, err := st.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, snap.ID)
	assert.Equal(t, "dog", snap.Word)
	assert.Equal(t, 3, snap.Attempts)

	assert.Error(t, st.Replace(ctx, nil))
}

func TestUpdateReturnsSnapshotOnError(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, err := game.New("cat", 6)
	require.NoError(t, err)
	require.NoError(t, st.Replace(ctx, g))

	boom := errors.New("boom")
	snap, err := st.Update(ctx, func(g *game.Game) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "_ _ _ ", snap.Output)
}

func TestConcurrentGuessesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, err := game.New("q", 26)
	require.NoError(t, err)
	require.NoError(t, st.Replace(ctx, g))

	// 25 distinct misses, all racing.
	misses := strings.Split("abcdefghijklmnoprstuvwxyz", "")
	var wg sync.WaitGroup
	for _, l := range misses {
		wg.Add(1)
		go func(l string) {
			defer wg.Done()
			_, err := st.Update(ctx, func(g *game.Game) error {
				_, err := g.ApplyGuess(l)
				return err
			})
			assert.NoError(t, err)
		}(l)
	}
	wg.Wait()

	snap, err := st.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Attempts)
	assert.Len(t, snap.Guessed, len(misses))
}

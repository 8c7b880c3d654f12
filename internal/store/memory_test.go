package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numeros/internal/game"
)

var testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)

func TestMemorySaveGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	g := game.New("g1", game.ModeRandom, 7, 0, testNow)

	require.NoError(t, m.Save(ctx, g))
	got, err := m.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	// mutations on the returned copy are not visible until saved
	_, err = got.Answer(got.Options.Correct, testNow.Add(time.Second))
	require.NoError(t, err)
	again, err := m.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Round)
	assert.Empty(t, again.Answers)
}

func TestMemoryMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestMemoryDeleteIdle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Save(ctx, game.New("old", game.ModeRandom, 1, 0, testNow)))
	require.NoError(t, m.Save(ctx, game.New("new", game.ModeRandom, 2, 0, testNow.Add(time.Hour))))

	n, err := m.DeleteIdle(ctx, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "new")
	assert.NoError(t, err)
}

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	g, err := freecell.NewGame(freecell.DefaultConfig())
	require.NoError(t, err)
	return NewSession(g, "anon-1", ModeNormal)
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err, "session ids are UUIDs")

	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, s))
	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(ctx, s.ID))
	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, st.Delete(ctx, s.ID))
}

func TestSaveRejectsMissingID(t *testing.T) {
	st := NewMemoryStore()
	assert.Error(t, st.Save(context.Background(), nil))
	assert.Error(t, st.Save(context.Background(), &Session{}))
}

func TestSessionLockSerializesMoves(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Game.Start(freecell.NewDeck(), false))

	// Every goroutine tries the same move; exactly one can succeed.
	m := freecell.Move{Source: freecell.Cascade, Pile: 0, CardIndex: 12, Dest: freecell.Open, DestPile: 0}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock()
			err := s.Game.Move(m)
			s.Unlock()
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, s.Game.Moves())
}

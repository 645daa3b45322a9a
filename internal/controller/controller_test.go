package controller

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
	"github.com/robalobadob/freecell/apps/go-server/internal/render"
)

func newGame(t *testing.T) *freecell.Game {
	t.Helper()
	g, err := freecell.NewGame(freecell.DefaultConfig())
	require.NoError(t, err)
	return g
}

// expected replays moves on a fresh canonical game and returns the rendered
// table after the deal and after each move.
func expected(t *testing.T, moves ...freecell.Move) []string {
	t.Helper()
	g := newGame(t)
	require.NoError(t, g.Start(freecell.NewDeck(), false))
	out := []string{render.State(g.Snapshot())}
	for _, m := range moves {
		require.NoError(t, g.Move(m))
		out = append(out, render.State(g.Snapshot()))
	}
	return out
}

func play(t *testing.T, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	c, err := New(strings.NewReader(input), &out)
	require.NoError(t, err)
	err = c.Play(newGame(t), freecell.NewDeck(), false)
	return out.String(), err
}

var aceOfSpadesHome = freecell.Move{Source: freecell.Cascade, Pile: 0, CardIndex: 12, Dest: freecell.Foundation, DestPile: 0}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil, &strings.Builder{})
	assert.Error(t, err)
	_, err = New(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestQuit(t *testing.T) {
	for _, q := range []string{"q", "Q", "C1 q", "C1 13 Q F1"} {
		out, err := play(t, q)
		require.NoError(t, err, q)
		assert.Equal(t, expected(t)[0]+"\nGame quit prematurely.", out, q)
	}
}

func TestValidMove(t *testing.T) {
	states := expected(t, aceOfSpadesHome)
	out, err := play(t, "C1 13 F1\nq")
	require.NoError(t, err)
	assert.Equal(t, states[0]+"\n"+states[1]+"\nGame quit prematurely.", out)
}

func TestSkipsMalformedTokens(t *testing.T) {
	states := expected(t, aceOfSpadesHome)
	out, err := play(t, "hello c1 C1 -3 x13 13 13x F1 q")
	require.NoError(t, err)
	assert.Equal(t, states[0]+"\n"+states[1]+"\nGame quit prematurely.", out)
}

func TestInvalidMove(t *testing.T) {
	states := expected(t)
	out, err := play(t, "C1 1 F1 O1 1 C2 q")
	require.NoError(t, err)
	assert.Equal(t, states[0]+"\n"+
		"Invalid move. Try again. card 1 is not the top card of cascade pile 1\n"+
		"Invalid move. Try again. open pile 1 holds no cards\n"+
		"Game quit prematurely.", out)
}

func TestInputExhausted(t *testing.T) {
	out, err := play(t, "C1 13")
	assert.ErrorIs(t, err, ErrInputExhausted)
	assert.Equal(t, expected(t)[0]+"\n", out)
}

func TestPlaysToGameOver(t *testing.T) {
	var moves []freecell.Move
	var input strings.Builder
	for i := 12; i >= 0; i-- {
		for n := 0; n < 4; n++ {
			moves = append(moves, freecell.Move{Source: freecell.Cascade, Pile: n, CardIndex: i, Dest: freecell.Foundation, DestPile: n})
			fmt.Fprintf(&input, "C%d %d F%d\n", n+1, i+1, n+1)
		}
	}
	input.WriteString("C1 1 F1\n")

	states := expected(t, moves...)
	out, err := play(t, input.String())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, states[len(states)-1]+"\n"+states[len(states)-1]+"\nGame over."))
	assert.Equal(t, strings.Join(states, "\n")+"\n"+states[len(states)-1]+"\nGame over.", out)
}

func TestInvalidDeck(t *testing.T) {
	var out strings.Builder
	c, err := New(strings.NewReader("q"), &out)
	require.NoError(t, err)
	err = c.Play(newGame(t), freecell.NewDeck()[:40], false)
	assert.ErrorIs(t, err, freecell.ErrInvalidDeck)
	assert.Empty(t, out.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWriteFailure(t *testing.T) {
	c, err := New(strings.NewReader("q"), brokenWriter{})
	require.NoError(t, err)
	err = c.Play(newGame(t), freecell.NewDeck(), false)
	assert.ErrorContains(t, err, "pipe closed")
}

func TestColorRenderer(t *testing.T) {
	var out strings.Builder
	c, err := New(strings.NewReader("q"), &out, WithRenderer(func(freecell.Snapshot) string { return "TABLE" }))
	require.NoError(t, err)
	require.NoError(t, c.Play(newGame(t), freecell.NewDeck(), false))
	assert.Equal(t, "TABLE\nGame quit prematurely.", out.String())
}

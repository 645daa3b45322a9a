package freecell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multi(cascades, opens int) Config {
	return Config{Cascades: cascades, Opens: opens, Variant: VariantMulti}
}

func TestMaxRun(t *testing.T) {
	tests := []struct {
		open, cascade, want int
	}{
		{0, 0, 1},
		{1, 0, 2},
		{4, 0, 5},
		{1, 1, 4},
		{1, 2, 8},
		{3, 3, 32},
		{0, 7, 128},
		{-1, -1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d open %d cascade", tt.open, tt.cascade), func(t *testing.T) {
			assert.Equal(t, tt.want, MaxRun(tt.open, tt.cascade))
		})
	}
}

// fullTable has no empty cascade pile: C1 ends in a six-card build headed by
// 10♠, C2 tops out at J♥, C3 at 10♣ and C4 at 3♦.
func fullTable(t *testing.T, opens int) *Game {
	return tableWith(t, multi(4, opens), layout{
		Cascade: {
			0: cs(t, "KC", "10S", "9H", "8C", "7D", "6S", "5H"),
			1: cs(t, "2S", "JH"),
			2: cs(t, "2C", "10C"),
			3: cs(t, "3D"),
		},
	})
}

func TestMultiMoveWithinCapacity(t *testing.T) {
	// Four empty open piles, no empty cascades: (4+1)*2^0 = 5 cards.
	g := fullTable(t, 4)

	before := g.Snapshot()
	err := g.Move(mv(Cascade, 0, 1, Cascade, 1))
	assert.ErrorIs(t, err, ErrInsufficientCapacity, "six cards need more than five slots")
	assert.Equal(t, before, g.Snapshot())

	require.NoError(t, g.Move(mv(Cascade, 0, 2, Cascade, 2)))
	snap := g.Snapshot()
	assert.Equal(t, cs(t, "KC", "10S"), snap.Cascades[0])
	assert.Equal(t, cs(t, "2C", "10C", "9H", "8C", "7D", "6S", "5H"), snap.Cascades[2])
	assert.Equal(t, 1, g.Moves())
}

func TestMultiMoveOccupiedOpensShrinkCapacity(t *testing.T) {
	g := fullTable(t, 4)
	require.NoError(t, g.Move(mv(Cascade, 3, 0, Open, 0)))
	// C4 is now empty too: (3+1)*2^1 = 8 when moving to an existing pile.
	require.NoError(t, g.Move(mv(Cascade, 0, 1, Cascade, 1)))
	assert.Len(t, g.Snapshot().Cascades[1], 8)
}

func TestMultiMoveToEmptyCascade(t *testing.T) {
	// One empty open, two empty cascades (C3, C4).
	base := layout{
		Cascade: {
			0: cs(t, "KD", "7S", "6H", "5C", "4D", "3S", "2H"),
			1: cs(t, "8H"),
		},
	}

	g := tableWith(t, multi(4, 1), base)
	require.NoError(t, g.Move(mv(Cascade, 0, 1, Cascade, 1)), "(1+1)*2^2 = 8 onto an occupied pile")

	g = tableWith(t, multi(4, 1), base)
	before := g.Snapshot()
	err := g.Move(mv(Cascade, 0, 1, Cascade, 2))
	assert.ErrorIs(t, err, ErrInsufficientCapacity, "the empty destination is not scratch space: (1+1)*2^1 = 4")
	assert.Equal(t, before, g.Snapshot())

	require.NoError(t, g.Move(mv(Cascade, 0, 3, Cascade, 2)))
	assert.Equal(t, cs(t, "5C", "4D", "3S", "2H"), g.Snapshot().Cascades[2])
}

func TestMultiMoveWholePile(t *testing.T) {
	g := tableWith(t, multi(4, 1), layout{
		Cascade: {
			0: cs(t, "9S", "8D"),
			1: cs(t, "10H"),
			2: cs(t, "AC"),
		},
	})
	require.NoError(t, g.Move(mv(Cascade, 0, 0, Cascade, 1)))
	assert.False(t, g.piles.Exists(Cascade, 0))
	assert.Equal(t, cs(t, "10H", "9S", "8D"), g.Snapshot().Cascades[1])
}

func TestMultiMoveRejectsBrokenRun(t *testing.T) {
	g := tableWith(t, multi(4, 4), layout{
		Cascade: {
			0: cs(t, "9S", "8D", "7D"),
			1: cs(t, "10H"),
			2: cs(t, "9C", "7H", "6S"),
			3: cs(t, "8S"),
		},
	})
	before := g.Snapshot()

	err := g.Move(mv(Cascade, 0, 0, Cascade, 1))
	assert.ErrorIs(t, err, ErrInvalidBuild, "8♦ 7♦ share a colour")
	err = g.Move(mv(Cascade, 2, 0, Cascade, 1))
	assert.ErrorIs(t, err, ErrInvalidBuild, "9♣ 7♥ skip a rank")
	err = g.Move(mv(Cascade, 2, 1, Cascade, 1))
	assert.ErrorIs(t, err, ErrInvalidBuild, "run head 7♥ does not fit on 10♥")
	err = g.Move(mv(Cascade, 0, 3, Cascade, 1))
	assert.ErrorIs(t, err, ErrNotTopCard)
	err = g.Move(mv(Cascade, 0, -1, Cascade, 1))
	assert.ErrorIs(t, err, ErrNotTopCard)
	assert.Equal(t, before, g.Snapshot())

	require.NoError(t, g.Move(mv(Cascade, 2, 1, Cascade, 3)), "7♥ 6♠ onto 8♠")
}

func TestMultiMoveSingleCardDestinations(t *testing.T) {
	g := tableWith(t, multi(4, 2), layout{
		Cascade: {
			0: cs(t, "3H", "2S", "AH"),
			1: cs(t, "KS"),
		},
	})
	before := g.Snapshot()

	err := g.Move(mv(Cascade, 0, 1, Open, 0))
	assert.ErrorIs(t, err, ErrMultiCardDestinationUnsupported)
	err = g.Move(mv(Cascade, 0, 1, Foundation, 0))
	assert.ErrorIs(t, err, ErrMultiCardDestinationUnsupported)
	assert.Equal(t, before, g.Snapshot())

	require.NoError(t, g.Move(mv(Cascade, 0, 2, Foundation, 0)))
	require.NoError(t, g.Move(mv(Cascade, 0, 1, Open, 1)))
	err = g.Move(mv(Cascade, 0, 0, Foundation, 1))
	assert.ErrorIs(t, err, ErrFoundationMustStartWithAce)

	// Single-card sources behave as in the single variant.
	require.NoError(t, g.Move(mv(Open, 1, 0, Cascade, 0)))
	assert.Equal(t, cs(t, "3H", "2S"), g.Snapshot().Cascades[0])
}

func TestMultiMoveNoop(t *testing.T) {
	g := fullTable(t, 1)
	before := g.Snapshot()
	require.NoError(t, g.Move(mv(Cascade, 0, 6, Cascade, 0)))
	err := g.Move(mv(Cascade, 0, 2, Cascade, 0))
	assert.ErrorIs(t, err, ErrInvalidBuild, "a run cannot land on its own top")
	assert.Equal(t, before, g.Snapshot())
	assert.Zero(t, g.Moves())
}

func TestSingleVariantRejectsRuns(t *testing.T) {
	g := tableWith(t, single(4, 4), layout{
		Cascade: {
			0: cs(t, "9S", "8D"),
			1: cs(t, "10H"),
		},
	})
	err := g.Move(mv(Cascade, 0, 0, Cascade, 1))
	assert.ErrorIs(t, err, ErrNotTopCard)
}

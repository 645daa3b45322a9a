package freecell

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomMove picks a move that is plausible often enough to drive the game
// forward: a real source pile, usually its top card.
func randomMove(rng *rand.Rand, g *Game) Move {
	kinds := PileKinds
	src := kinds[rng.IntN(len(kinds))]
	pile := rng.IntN(g.piles.Limit(src) + 1)
	idx := g.piles.Size(src, pile) - 1
	if rng.IntN(4) == 0 && idx > 0 {
		idx = rng.IntN(idx + 1)
	}
	dst := kinds[rng.IntN(len(kinds))]
	return Move{Source: src, Pile: pile, CardIndex: idx, Dest: dst, DestPile: rng.IntN(g.piles.Limit(dst) + 1)}
}

func checkInvariants(t *testing.T, snap Snapshot) {
	t.Helper()
	require.Equal(t, DeckSize, snap.CardCount())
	for _, p := range snap.Opens {
		require.LessOrEqual(t, len(p), 1)
	}
	for _, p := range snap.Foundations {
		for i, c := range p {
			require.Equal(t, p[0].Suit, c.Suit)
			require.Equal(t, Rank(i+1), c.Rank)
		}
	}
	seen := map[Card]bool{}
	for _, k := range PileKinds {
		for _, p := range snap.Piles(k) {
			for _, c := range p {
				require.False(t, seen[c], "%s appears twice", c)
				seen[c] = true
			}
		}
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for _, variant := range []Variant{VariantSingle, VariantMulti} {
		for seed := uint64(1); seed <= 20; seed++ {
			rng := rand.New(rand.NewPCG(seed, 7))
			cfg := Config{Cascades: 4 + int(seed%5), Opens: 1 + int(seed%4), Variant: variant}
			g, err := NewGame(cfg, WithSeed(seed))
			require.NoError(t, err)
			require.NoError(t, g.Start(NewDeck(), true))

			applied := 0
			for i := 0; i < 2000; i++ {
				m := randomMove(rng, g)
				before := g.Snapshot()
				movesBefore := g.Moves()
				if err := g.Move(m); err != nil {
					assert.NotEmpty(t, Code(err), "unexpected error %v", err)
					require.Equal(t, before, g.Snapshot(), "%s failed with %v but changed the table", m, err)
					require.Equal(t, movesBefore, g.Moves())
					continue
				}
				applied++
				checkInvariants(t, g.Snapshot())
			}
			assert.Positive(t, applied, "variant %s seed %d made no progress", variant, seed)
		}
	}
}

// apps/go-server/internal/freecell/game.go
//
// Game aggregate for a single FreeCell session.
// Responsibilities:
//   - Deal (and optionally shuffle) a validated deck; every deal is a full reset.
//   - Validate and apply moves through the configured variant.
//   - Report lifecycle status and a structured snapshot of every pile.
//
// Notes:
//   - A rejected move never changes a pile: validation finishes before the
//     first append.
//   - "Over" is a query, not a lock. Moves stay legal after the game is won.
//   - A Game is not safe for concurrent use; callers serialize access.

package freecell

import (
	"fmt"
	"math/rand/v2"
)

// Status is the coarse lifecycle state of a game.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusOver       Status = "over"
)

// Game is one FreeCell table.
type Game struct {
	cfg      Config
	piles    *PileStore
	strategy strategy
	rng      *rand.Rand
	moves    int
}

// Option customizes a new Game.
type Option func(*Game)

// WithSeed makes shuffling reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// NewGame returns an unstarted game. cfg must be valid.
func NewGame(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		piles:    NewPileStore(cfg),
		strategy: strategyFor(cfg.Variant),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g, nil
}

// Config returns the game's configuration.
func (g *Game) Config() Config { return g.cfg }

// Start deals deck, shuffled first if asked. The caller's slice is copied,
// never reordered. An invalid deck leaves the current table untouched.
func (g *Game) Start(deck []Card, shuffleDeck bool) error {
	cards := make([]Card, len(deck))
	copy(cards, deck)
	if err := ValidateDeck(cards); err != nil {
		return err
	}
	if shuffleDeck {
		shuffle(g.rng, cards)
	}
	if err := g.piles.Deal(cards); err != nil {
		return err
	}
	g.moves = 0
	return nil
}

// Move validates m against the table and applies it.
func (g *Game) Move(m Move) error {
	if !g.piles.Populated() {
		return fail(ErrGameNotStarted, "deal a deck before moving")
	}
	if !g.piles.Exists(m.Source, m.Pile) {
		return fail(ErrSourcePileNotFound, "%s pile %d holds no cards", m.Source, m.Pile+1)
	}
	if g.isNoop(m) {
		return nil
	}

	run, err := g.strategy.run(g.piles, m)
	if err != nil {
		return err
	}
	if err := checkDestination(g.piles, m.Dest, m.DestPile, run); err != nil {
		return err
	}
	if err := g.strategy.fits(g.piles, m, len(run)); err != nil {
		return err
	}

	if err := g.piles.Append(m.Dest, m.DestPile, run...); err != nil {
		return fmt.Errorf("apply %s: %w", m, err)
	}
	g.piles.TruncateFrom(m.Source, m.Pile, m.CardIndex)
	g.moves++
	return nil
}

// isNoop reports whether m would put the source's top card back where it is.
func (g *Game) isNoop(m Move) bool {
	return m.Source == m.Dest && m.Pile == m.DestPile &&
		m.CardIndex == g.piles.Size(m.Source, m.Pile)-1
}

// IsOver reports whether every foundation holds a complete suit.
func (g *Game) IsOver() bool { return g.piles.IsComplete() }

// Status reports the lifecycle state.
func (g *Game) Status() Status {
	switch {
	case !g.piles.Populated():
		return StatusNotStarted
	case g.piles.IsComplete():
		return StatusOver
	}
	return StatusInProgress
}

// Moves counts applied moves since the last deal. No-ops are not counted.
func (g *Game) Moves() int { return g.moves }

// Snapshot copies every configured pile.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{Started: g.piles.Populated()}
	for _, k := range PileKinds {
		piles := make([][]Card, g.piles.Limit(k))
		for n := range piles {
			piles[n] = g.piles.Cards(k, n)
		}
		snap.set(k, piles)
	}
	return snap
}

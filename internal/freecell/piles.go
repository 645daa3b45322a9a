// apps/go-server/internal/freecell/piles.go
//
// PileStore: ownership of the three pile collections.
// Responsibilities:
//   - Deal a deck round-robin into the cascade piles.
//   - Create piles lazily on first append, within the configured bounds.
//   - Remove a pile entry once its last card leaves (absent again).
//   - Answer existence, size, top-card and completion queries.
//
// Presence is map membership. An absent pile and a pile that was never
// created are the same thing; a present pile is never empty.

package freecell

import (
	"fmt"
	"strings"
)

// PileKind names one of the three pile collections.
type PileKind uint8

const (
	Foundation PileKind = iota + 1
	Open
	Cascade
)

// PileKinds lists the kinds in rendering order.
var PileKinds = []PileKind{Foundation, Open, Cascade}

func (k PileKind) String() string {
	switch k {
	case Foundation:
		return "foundation"
	case Open:
		return "open"
	case Cascade:
		return "cascade"
	}
	return "unknown"
}

// Letter is the one-letter prefix used by the text protocol (F, O, C).
func (k PileKind) Letter() string {
	switch k {
	case Foundation:
		return "F"
	case Open:
		return "O"
	case Cascade:
		return "C"
	}
	return "?"
}

// ParsePileKind accepts the full name or the one-letter prefix, any case.
func ParsePileKind(s string) (PileKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "foundation", "f":
		return Foundation, nil
	case "open", "o":
		return Open, nil
	case "cascade", "c":
		return Cascade, nil
	}
	return 0, fmt.Errorf("unknown pile kind %q", s)
}

func (k PileKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PileKind) UnmarshalText(b []byte) error {
	parsed, err := ParsePileKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type pileSet struct {
	limit int
	piles map[int][]Card
}

func newPileSet(limit int) *pileSet {
	return &pileSet{limit: limit, piles: make(map[int][]Card)}
}

// PileStore holds the cascade, foundation and open piles of one game.
type PileStore struct {
	sets map[PileKind]*pileSet
}

// NewPileStore returns an empty store sized by cfg.
func NewPileStore(cfg Config) *PileStore {
	return &PileStore{sets: map[PileKind]*pileSet{
		Foundation: newPileSet(FoundationCount),
		Open:       newPileSet(cfg.Opens),
		Cascade:    newPileSet(cfg.Cascades),
	}}
}

func (s *PileStore) set(k PileKind) *pileSet {
	if ps, ok := s.sets[k]; ok {
		return ps
	}
	return &pileSet{}
}

// Deal validates deck, clears every pile and deals card i to cascade pile
// i mod cascades. The caller's slice is not retained.
func (s *PileStore) Deal(deck []Card) error {
	if err := ValidateDeck(deck); err != nil {
		return err
	}
	for _, ps := range s.sets {
		clear(ps.piles)
	}
	cascades := s.sets[Cascade]
	for i, c := range deck {
		n := i % cascades.limit
		cascades.piles[n] = append(cascades.piles[n], c)
	}
	return nil
}

// Limit is the configured number of piles of kind k.
func (s *PileStore) Limit(k PileKind) int { return s.set(k).limit }

// InRange reports whether pile number n is configured for kind k.
func (s *PileStore) InRange(k PileKind, n int) bool {
	return n >= 0 && n < s.set(k).limit
}

// Exists reports whether pile n of kind k currently holds cards.
func (s *PileStore) Exists(k PileKind, n int) bool {
	_, ok := s.set(k).piles[n]
	return ok
}

// Size is the number of cards in pile n (0 if absent).
func (s *PileStore) Size(k PileKind, n int) int { return len(s.set(k).piles[n]) }

// Top returns the last card of pile n.
func (s *PileStore) Top(k PileKind, n int) (Card, error) {
	p := s.set(k).piles[n]
	if len(p) == 0 {
		return Card{}, fmt.Errorf("%s pile %d is empty", k, n+1)
	}
	return p[len(p)-1], nil
}

// Cards returns a copy of pile n, bottom first.
func (s *PileStore) Cards(k PileKind, n int) []Card {
	p := s.set(k).piles[n]
	out := make([]Card, len(p))
	copy(out, p)
	return out
}

// Append adds cards to pile n, creating it if absent.
func (s *PileStore) Append(k PileKind, n int, cards ...Card) error {
	if !s.InRange(k, n) {
		return fail(ErrDestinationOutOfRange, "%s pile %d does not exist (have %d)", k, n+1, s.Limit(k))
	}
	if len(cards) == 0 {
		return nil
	}
	ps := s.set(k)
	ps.piles[n] = append(ps.piles[n], cards...)
	return nil
}

// TruncateFrom removes cards at and above index from pile n and drops the
// pile entry once it is empty.
func (s *PileStore) TruncateFrom(k PileKind, n, index int) {
	ps := s.set(k)
	p, ok := ps.piles[n]
	if !ok || index < 0 || index >= len(p) {
		return
	}
	if index == 0 {
		delete(ps.piles, n)
		return
	}
	// Clip capacity so a later append can't write into a moved run's backing array.
	ps.piles[n] = p[:index:index]
}

// Populated reports whether any pile holds a card.
func (s *PileStore) Populated() bool {
	for _, ps := range s.sets {
		if len(ps.piles) > 0 {
			return true
		}
	}
	return false
}

// EmptySlots counts configured piles of kind k that hold no card.
func (s *PileStore) EmptySlots(k PileKind) int {
	ps := s.set(k)
	return ps.limit - len(ps.piles)
}

// IsComplete is true when all four foundations hold a full suit.
func (s *PileStore) IsComplete() bool {
	f := s.sets[Foundation]
	if len(f.piles) != FoundationCount {
		return false
	}
	for _, p := range f.piles {
		if len(p) != int(King) {
			return false
		}
	}
	return true
}

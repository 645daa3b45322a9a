package freecell

import "fmt"

// Move names a card (and, in the multi variant, the run above it) and where
// it should go. Pile numbers and CardIndex are 0-based.
type Move struct {
	Source    PileKind `json:"source"`
	Pile      int      `json:"pile"`
	CardIndex int      `json:"cardIndex"`
	Dest      PileKind `json:"dest"`
	DestPile  int      `json:"destPile"`
}

// String renders the move in the 1-based text protocol, e.g. "C1 7 F1".
func (m Move) String() string {
	return fmt.Sprintf("%s%d %d %s%d", m.Source.Letter(), m.Pile+1, m.CardIndex+1, m.Dest.Letter(), m.DestPile+1)
}

// strategy decides which cards leave the source and whether the scratch
// space allows them to travel together.
type strategy interface {
	run(s *PileStore, m Move) ([]Card, error)
	fits(s *PileStore, m Move, n int) error
}

func strategyFor(v Variant) strategy {
	if v == VariantMulti {
		return multiCard{}
	}
	return singleCard{}
}

type singleCard struct{}

func (singleCard) run(s *PileStore, m Move) ([]Card, error) {
	top := s.Size(m.Source, m.Pile) - 1
	if m.CardIndex != top {
		return nil, fail(ErrNotTopCard, "card %d is not the top card of %s pile %d", m.CardIndex+1, m.Source, m.Pile+1)
	}
	return s.Cards(m.Source, m.Pile)[top:], nil
}

func (singleCard) fits(*PileStore, Move, int) error { return nil }

type multiCard struct{}

func (multiCard) run(s *PileStore, m Move) ([]Card, error) {
	if m.Source != Cascade {
		return singleCard{}.run(s, m)
	}
	top := s.Size(Cascade, m.Pile) - 1
	if m.CardIndex < 0 || m.CardIndex > top {
		return nil, fail(ErrNotTopCard, "cascade pile %d has no card %d", m.Pile+1, m.CardIndex+1)
	}
	if m.Dest != Cascade && m.CardIndex != top {
		return nil, fail(ErrMultiCardDestinationUnsupported, "a run of %d cards can only move to a cascade pile", top-m.CardIndex+1)
	}
	run := s.Cards(Cascade, m.Pile)[m.CardIndex:]
	if err := checkBuild(run); err != nil {
		return nil, err
	}
	return run, nil
}

func (multiCard) fits(s *PileStore, m Move, n int) error {
	if m.Dest != Cascade || n <= 1 {
		return nil
	}
	emptyOpen := s.EmptySlots(Open)
	emptyCascade := s.EmptySlots(Cascade)
	if !s.Exists(Cascade, m.DestPile) {
		// The destination itself can't serve as scratch space.
		emptyCascade--
	}
	if limit := MaxRun(emptyOpen, emptyCascade); n > limit {
		return fail(ErrInsufficientCapacity, "%d cards need more room: %d empty open and %d empty cascade piles move at most %d",
			n, emptyOpen, max(emptyCascade, 0), limit)
	}
	return nil
}

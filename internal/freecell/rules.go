package freecell

// checkDestination validates placing run onto pile n of kind k. run[0] is
// the card that lands on the destination's current top.
func checkDestination(s *PileStore, k PileKind, n int, run []Card) error {
	card := run[0]
	switch k {
	case Foundation:
		if len(run) > 1 {
			return fail(ErrMultiCardDestinationUnsupported, "only one card at a time may go to a foundation pile")
		}
		if s.Exists(Foundation, n) {
			top, _ := s.Top(Foundation, n)
			if !follows(card, top) {
				return fail(ErrBrokenFoundationSequence, "%s cannot follow %s on foundation pile %d", card, top, n+1)
			}
			return nil
		}
		if !s.InRange(Foundation, n) {
			return fail(ErrDestinationOutOfRange, "foundation pile %d does not exist (have %d)", n+1, FoundationCount)
		}
		if card.Rank != Ace {
			return fail(ErrFoundationMustStartWithAce, "%s cannot start foundation pile %d", card, n+1)
		}
	case Cascade:
		if s.Exists(Cascade, n) {
			top, _ := s.Top(Cascade, n)
			if !stacksOn(card, top) {
				return fail(ErrInvalidBuild, "%s cannot go on %s in cascade pile %d", card, top, n+1)
			}
			return nil
		}
		if !s.InRange(Cascade, n) {
			return fail(ErrDestinationOutOfRange, "cascade pile %d does not exist (have %d)", n+1, s.Limit(Cascade))
		}
	case Open:
		if len(run) > 1 {
			return fail(ErrMultiCardDestinationUnsupported, "only one card at a time may go to an open pile")
		}
		if !s.InRange(Open, n) {
			return fail(ErrDestinationOutOfRange, "open pile %d does not exist (have %d)", n+1, s.Limit(Open))
		}
		if s.Exists(Open, n) {
			top, _ := s.Top(Open, n)
			return fail(ErrOpenPileOccupied, "open pile %d already holds %s", n+1, top)
		}
	default:
		return fail(ErrDestinationOutOfRange, "unknown destination pile kind %d", k)
	}
	return nil
}

// checkBuild verifies that run descends by one rank with alternating colours.
func checkBuild(run []Card) error {
	for i := 0; i+1 < len(run); i++ {
		if !stacksOn(run[i+1], run[i]) {
			return fail(ErrInvalidBuild, "%s on %s does not form a build", run[i+1], run[i])
		}
	}
	return nil
}

// MaxRun is the longest build that can be relocated using emptyOpen free
// open piles and emptyCascade free cascade piles as scratch space.
func MaxRun(emptyOpen, emptyCascade int) int {
	if emptyOpen < 0 {
		emptyOpen = 0
	}
	if emptyCascade < 0 {
		emptyCascade = 0
	}
	return (emptyOpen + 1) << emptyCascade
}

package freecell

// Snapshot is a read-only copy of the table. Every configured pile is listed;
// absent piles appear as empty lists. Cards are ordered bottom first.
type Snapshot struct {
	Started     bool     `json:"started"`
	Foundations [][]Card `json:"foundations"`
	Opens       [][]Card `json:"opens"`
	Cascades    [][]Card `json:"cascades"`
}

// Piles returns the piles of kind k.
func (s Snapshot) Piles(k PileKind) [][]Card {
	switch k {
	case Foundation:
		return s.Foundations
	case Open:
		return s.Opens
	case Cascade:
		return s.Cascades
	}
	return nil
}

func (s *Snapshot) set(k PileKind, piles [][]Card) {
	switch k {
	case Foundation:
		s.Foundations = piles
	case Open:
		s.Opens = piles
	case Cascade:
		s.Cascades = piles
	}
}

// CardCount totals the cards on the table.
func (s Snapshot) CardCount() int {
	n := 0
	for _, k := range PileKinds {
		for _, p := range s.Piles(k) {
			n += len(p)
		}
	}
	return n
}

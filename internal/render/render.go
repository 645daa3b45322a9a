// apps/go-server/internal/render/render.go
//
// Text rendering of a FreeCell table.
// Format (one line per pile, no trailing newline):
//   F1: A♠, 2♠
//   ...
//   O1:7♥
//   ...
//   C1: K♣, 10♠
//
// Foundations come first (always four), then every configured open pile,
// then every configured cascade pile. Empty piles render as "F2:". An open
// pile holds at most one card, written right after the colon.
// An unstarted table renders as "".

package render

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

// State renders snap in the plain text format.
func State(snap freecell.Snapshot) string {
	return state(snap, freecell.Card.String)
}

// Colorize renders snap with red suits highlighted for terminals.
func Colorize(snap freecell.Snapshot) string {
	return state(snap, colorCard)
}

func colorCard(c freecell.Card) string {
	if c.Color() == freecell.Red {
		return pterm.LightRed(c.String())
	}
	return c.String()
}

func state(snap freecell.Snapshot, card func(freecell.Card) string) string {
	if !snap.Started {
		return ""
	}
	var lines []string
	for _, k := range freecell.PileKinds {
		for n, pile := range snap.Piles(k) {
			label := k.Letter() + strconv.Itoa(n+1)
			if k == freecell.Open {
				lines = append(lines, openLine(label, pile, card))
				continue
			}
			lines = append(lines, line(label, pile, card))
		}
	}
	return strings.Join(lines, "\n")
}

func line(label string, pile []freecell.Card, card func(freecell.Card) string) string {
	var b strings.Builder
	b.WriteString(label)
	b.WriteByte(':')
	for i, c := range pile {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(card(c))
	}
	return b.String()
}

func openLine(label string, pile []freecell.Card, card func(freecell.Card) string) string {
	if len(pile) == 0 {
		return label + ":"
	}
	return label + ":" + card(pile[0])
}

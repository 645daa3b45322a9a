// apps/go-server/internal/freecell/card.go
//
// Card value types for the FreeCell engine.
// Defines:
//   - Suit, Rank, Color: small enums with their canonical renderings.
//   - Card: an immutable (suit, rank) value, compared by value.
//
// Canonical text form is <rank><suit-symbol>, e.g. "10♦" or "A♠".

package freecell

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four suits.
type Suit uint8

const (
	Spades Suit = iota + 1
	Clubs
	Diamonds
	Hearts
)

// Suits lists the suits in canonical order.
var Suits = []Suit{Spades, Clubs, Diamonds, Hearts}

var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Clubs:    "♣",
	Diamonds: "♦",
	Hearts:   "♥",
}

// String returns the suit symbol.
func (s Suit) String() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s >= Spades && s <= Hearts }

// Color is the derived colour of a suit.
type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Color returns black for spades and clubs, red otherwise.
func (s Suit) Color() Color {
	if s == Spades || s == Clubs {
		return Black
	}
	return Red
}

// Rank is a card rank from Ace (1) to King (13).
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = [...]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if r.Valid() {
		return rankNames[r]
	}
	return "?"
}

// Valid reports whether r is between Ace and King.
func (r Rank) Valid() bool { return r >= Ace && r <= King }

// Card is a playing card. The zero value is not a valid card.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard returns the card with the given suit and rank.
func NewCard(s Suit, r Rank) Card { return Card{Suit: s, Rank: r} }

// Color returns the card's derived colour.
func (c Card) Color() Color { return c.Suit.Color() }

// Valid reports whether both suit and rank are legal.
func (c Card) Valid() bool { return c.Suit.Valid() && c.Rank.Valid() }

// String renders the card as <rank><suit>.
func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// MarshalText encodes the card in its canonical form so JSON carries "Q♥".
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal card: invalid card %d/%d", c.Suit, c.Rank)
	}
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses "10♦", "A♠" or the ASCII forms "10D", "as".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("parse card: empty token")
	}
	suit, rest, ok := cutSuit(s)
	if !ok {
		return Card{}, fmt.Errorf("parse card %q: unknown suit", s)
	}
	rank, ok := parseRank(rest)
	if !ok {
		return Card{}, fmt.Errorf("parse card %q: unknown rank", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

func cutSuit(s string) (Suit, string, bool) {
	for suit, sym := range suitSymbols {
		if rest, ok := strings.CutSuffix(s, sym); ok {
			return suit, rest, true
		}
	}
	last := s[len(s)-1]
	rest := s[:len(s)-1]
	switch last {
	case 'S', 's':
		return Spades, rest, true
	case 'C', 'c':
		return Clubs, rest, true
	case 'D', 'd':
		return Diamonds, rest, true
	case 'H', 'h':
		return Hearts, rest, true
	}
	return 0, "", false
}

func parseRank(s string) (Rank, bool) {
	s = strings.ToUpper(s)
	if s == "T" {
		return Ten, true
	}
	for r := Ace; r <= King; r++ {
		if rankNames[r] == s {
			return r, true
		}
	}
	return 0, false
}

// stacksOn reports whether top may sit on bottom in a cascade build:
// one rank lower and of the opposite colour.
func stacksOn(top, bottom Card) bool {
	return top.Rank+1 == bottom.Rank && top.Color() != bottom.Color()
}

// follows reports whether next continues a foundation whose top is prev.
func follows(next, prev Card) bool {
	return next.Suit == prev.Suit && next.Rank == prev.Rank+1
}

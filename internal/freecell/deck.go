package freecell

import (
	"bufio"
	"math/rand/v2"
	"strings"
)

// DeckSize is the number of cards in a complete deck.
const DeckSize = 52

// NewDeck returns the canonical deck: Kings first down to Aces, and within a
// rank the suits in ♠ ♣ ♦ ♥ order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := King; r >= Ace; r-- {
		for _, s := range Suits {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ValidateDeck checks that cards holds each of the 52 cards exactly once.
func ValidateDeck(cards []Card) error {
	if len(cards) != DeckSize {
		return fail(ErrInvalidDeck, "deck has %d cards, want %d", len(cards), DeckSize)
	}
	seen := make(map[Card]struct{}, DeckSize)
	for i, c := range cards {
		if !c.Valid() {
			return fail(ErrInvalidDeck, "card %d is not a playing card", i)
		}
		if _, dup := seen[c]; dup {
			return fail(ErrInvalidDeck, "duplicate card %s", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// ParseDeck reads card tokens separated by whitespace or commas. Lines
// starting with '#' are ignored. The result is not validated.
func ParseDeck(text string) ([]Card, error) {
	var out []Card
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, tok := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			c, err := ParseCard(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, sc.Err()
}

func shuffle(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// apps/go-server/internal/decks/decks.go
//
// Provides the deck new games are dealt from.
//
// Initialization behavior (Init, given config.Config.DeckFile):
//   1. If a path is given, load that file: card tokens separated by
//      whitespace or commas ("A♠, 2♠" or "AS 2S"), '#' comment lines allowed.
//      The file must describe a complete 52-card deck.
//   2. Otherwise use the canonical deck (Kings down to Aces, ♠ ♣ ♦ ♥).
//
// The path comes from DECK_FILE=/path/to/deck.txt (see internal/config).
//
// Initialization is run once (sync.Once).

package decks

import (
	"fmt"
	"os"
	"sync"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

var (
	initOnce   sync.Once
	deck       []freecell.Card
	source     = "canonical"
	initialErr error
)

// Init loads the deck from path (empty: canonical deck) exactly once.
func Init(path string) error {
	initOnce.Do(func() {
		deck, source, initialErr = resolve(path)
	})
	return initialErr
}

func resolve(path string) ([]freecell.Card, string, error) {
	if path == "" {
		return freecell.NewDeck(), "canonical", nil
	}
	d, err := Load(path)
	if err != nil {
		return nil, "canonical", err
	}
	return d, path, nil
}

// Load reads and validates a deck file.
func Load(path string) ([]freecell.Card, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	cards, err := freecell.ParseDeck(string(b))
	if err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}
	if err := freecell.ValidateDeck(cards); err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return cards, nil
}

// Deck returns a copy of the loaded deck, or the canonical deck if Init has
// not loaded one.
func Deck() []freecell.Card {
	if len(deck) == 0 {
		return freecell.NewDeck()
	}
	out := make([]freecell.Card, len(deck))
	copy(out, deck)
	return out
}

// Source names where the deck came from: "canonical" or the file path.
func Source() string { return source }

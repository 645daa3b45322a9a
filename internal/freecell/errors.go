package freecell

import (
	"errors"
	"fmt"
)

// Rule violations. Every failure returned by the engine unwraps to one of these.
var (
	ErrInvalidConfig                   = errors.New("invalid configuration")
	ErrInvalidDeck                     = errors.New("invalid deck")
	ErrGameNotStarted                  = errors.New("game not started")
	ErrSourcePileNotFound              = errors.New("source pile not found")
	ErrNotTopCard                      = errors.New("not the top card")
	ErrDestinationOutOfRange           = errors.New("destination pile out of range")
	ErrFoundationMustStartWithAce      = errors.New("foundation must start with an ace")
	ErrBrokenFoundationSequence        = errors.New("broken foundation sequence")
	ErrInvalidBuild                    = errors.New("invalid build")
	ErrOpenPileOccupied                = errors.New("open pile occupied")
	ErrInsufficientCapacity            = errors.New("insufficient capacity")
	ErrMultiCardDestinationUnsupported = errors.New("multi-card move to this destination is unsupported")
)

var codes = map[error]string{
	ErrInvalidConfig:                   "invalid_config",
	ErrInvalidDeck:                     "invalid_deck",
	ErrGameNotStarted:                  "game_not_started",
	ErrSourcePileNotFound:              "source_pile_not_found",
	ErrNotTopCard:                      "not_top_card",
	ErrDestinationOutOfRange:           "destination_out_of_range",
	ErrFoundationMustStartWithAce:      "foundation_must_start_with_ace",
	ErrBrokenFoundationSequence:        "broken_foundation_sequence",
	ErrInvalidBuild:                    "invalid_build",
	ErrOpenPileOccupied:                "open_pile_occupied",
	ErrInsufficientCapacity:            "insufficient_capacity",
	ErrMultiCardDestinationUnsupported: "multi_card_destination_unsupported",
}

// RuleError carries the violated rule and a human-readable detail.
type RuleError struct {
	Kind   error
	Detail string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *RuleError) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) error {
	return &RuleError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Code returns the wire code for an engine error, or "" for foreign errors.
func Code(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return codes[re.Kind]
	}
	for kind, code := range codes {
		if errors.Is(err, kind) {
			return code
		}
	}
	return ""
}

// Detail returns the human-readable part of an engine error.
func Detail(err error) string {
	var re *RuleError
	if errors.As(err, &re) && re.Detail != "" {
		return re.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

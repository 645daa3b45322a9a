// apps/go-server/internal/controller/controller.go
//
// Terminal controller for a FreeCell game.
// Responsibilities:
//   - Deal the game, print the table.
//   - Read moves as three whitespace-separated tokens: source pile ("C1",
//     "O2", "F4"), 1-based card index, destination pile.
//   - Print the table after every applied move, a retry hint after a
//     rejected one, and stop on "q"/"Q", on a won game or at end of input.
//
// Tokens that don't fit the slot being read are skipped, so "C1 x 7 F1"
// still reads as C1 7 F1.

package controller

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
	"github.com/robalobadob/freecell/apps/go-server/internal/render"
)

// ErrInputExhausted is returned when input ends before the game does.
var ErrInputExhausted = errors.New("input exhausted before the game ended")

var (
	pileToken  = regexp.MustCompile(`^[OCF][0-9]+$`)
	indexToken = regexp.MustCompile(`^[0-9]+$`)
)

// Controller drives one game from a reader and reports to a writer.
type Controller struct {
	in     io.Reader
	out    io.Writer
	render func(freecell.Snapshot) string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRenderer replaces the plain text renderer (e.g. render.Colorize).
func WithRenderer(fn func(freecell.Snapshot) string) Option {
	return func(c *Controller) { c.render = fn }
}

// New returns a controller reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) (*Controller, error) {
	if in == nil {
		return nil, errors.New("controller: nil input")
	}
	if out == nil {
		return nil, errors.New("controller: nil output")
	}
	c := &Controller{in: in, out: out, render: render.State}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Play deals deck into g and runs the read loop until the player quits, wins
// or runs out of input.
func (c *Controller) Play(g *freecell.Game, deck []freecell.Card, shuffle bool) error {
	if g == nil {
		return errors.New("controller: nil game")
	}
	if err := g.Start(deck, shuffle); err != nil {
		return err
	}
	if err := c.write(c.render(g.Snapshot()), "\n"); err != nil {
		return err
	}

	sc := bufio.NewScanner(c.in)
	sc.Split(bufio.ScanWords)

	var (
		m                  freecell.Move
		haveSrc, haveIndex bool
	)
	for sc.Scan() {
		tok := sc.Text()
		if tok == "q" || tok == "Q" {
			return c.write("Game quit prematurely.")
		}

		switch {
		case !haveSrc:
			if !pileToken.MatchString(tok) {
				continue
			}
			m.Source, m.Pile = parsePile(tok)
			haveSrc = true
			continue
		case !haveIndex:
			if !indexToken.MatchString(tok) {
				continue
			}
			n, _ := strconv.Atoi(tok)
			m.CardIndex = n - 1
			haveIndex = true
			continue
		default:
			if !pileToken.MatchString(tok) {
				continue
			}
			m.Dest, m.DestPile = parsePile(tok)
		}
		haveSrc, haveIndex = false, false

		if err := c.apply(g, m); err != nil {
			return err
		}
		if g.IsOver() {
			return c.write(c.render(g.Snapshot()), "\nGame over.")
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read moves: %w", err)
	}
	return ErrInputExhausted
}

func (c *Controller) apply(g *freecell.Game, m freecell.Move) error {
	if err := g.Move(m); err != nil {
		return c.write("Invalid move. Try again. ", freecell.Detail(err), "\n")
	}
	return c.write(c.render(g.Snapshot()), "\n")
}

func (c *Controller) write(parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(c.out, p); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// parsePile reads a token already matched by pileToken. Numbers are 1-based.
func parsePile(tok string) (freecell.PileKind, int) {
	kind, _ := freecell.ParsePileKind(tok[:1])
	n, _ := strconv.Atoi(tok[1:])
	return kind, n - 1
}

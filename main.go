// apps/go-server/main.go
//
// Entry point.
//   freecell [serve]   start the HTTP service (default)
//   freecell play      play one game in the terminal on stdin/stdout
//
// Settings come from the environment (see internal/config); play flags
// override the configured table layout for that run.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/freecell/apps/go-server/internal/config"
	"github.com/robalobadob/freecell/apps/go-server/internal/controller"
	"github.com/robalobadob/freecell/apps/go-server/internal/database"
	"github.com/robalobadob/freecell/apps/go-server/internal/decks"
	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
	"github.com/robalobadob/freecell/apps/go-server/internal/httpserver"
	"github.com/robalobadob/freecell/apps/go-server/internal/render"
	"github.com/robalobadob/freecell/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := decks.Init(cfg.DeckFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load deck")
	}

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && (args[0] == "serve" || args[0] == "play") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "play":
		// Logs go to stderr in a readable form so they don't mix with the table.
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if err := play(cfg, args); err != nil {
			log.Fatal().Err(err).Msg("play")
		}
	default:
		serve(cfg)
	}
}

func serve(cfg config.Config) {
	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	srv := httpserver.New(store.NewMemoryStore(), db, cfg, httpserver.WithDeck(decks.Deck))
	log.Info().
		Str("port", cfg.Port).
		Str("deck", decks.Source()).
		Int("cascades", cfg.Game.Cascades).
		Int("opens", cfg.Game.Opens).
		Str("variant", string(cfg.Game.Variant)).
		Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func play(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	cascades := fs.Int("cascades", cfg.Game.Cascades, "number of cascade piles (4-8)")
	opens := fs.Int("opens", cfg.Game.Opens, "number of open piles (1-4)")
	variant := fs.String("variant", string(cfg.Game.Variant), "move variant: single or multi")
	shuffle := fs.Bool("shuffle", true, "shuffle the deck before dealing")
	seed := fs.Uint64("seed", 0, "shuffle seed (0: random)")
	color := fs.Bool("color", true, "paint red suits")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gameCfg, err := freecell.NewBuilder().
		Cascades(*cascades).
		Opens(*opens).
		Variant(freecell.Variant(*variant)).
		Build()
	if err != nil {
		return err
	}
	var opts []freecell.Option
	if *seed != 0 {
		opts = append(opts, freecell.WithSeed(*seed))
	}
	g, err := freecell.NewGame(gameCfg, opts...)
	if err != nil {
		return err
	}

	var copts []controller.Option
	if *color {
		copts = append(copts, controller.WithRenderer(render.Colorize))
	}
	c, err := controller.New(os.Stdin, os.Stdout, copts...)
	if err != nil {
		return err
	}
	err = c.Play(g, decks.Deck(), *shuffle)
	fmt.Fprintln(os.Stdout)
	if errors.Is(err, controller.ErrInputExhausted) {
		return nil
	}
	return err
}

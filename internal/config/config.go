// apps/go-server/internal/config/config.go
//
// Process configuration, read once at startup from the environment.
// A .env file in the working directory is loaded first when present
// (development convenience); real environment variables win.
//
// Environment variables (defaults in parentheses):
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/app.db),
//   JWT_SECRET (dev_secret_change_me), JWT_EXPIRES_DAYS (14),
//   COOKIE_NAME (freecell_token), CLIENT_ORIGIN (http://localhost:5173),
//   DAILY_SALT (local_dev_salt), DECK_FILE (unset: canonical deck),
//   FREECELL_CASCADES (4), FREECELL_OPENS (1), FREECELL_VARIANT (single),
//   NODE_ENV (unset; "production" marks cookies Secure).

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

// Config holds every setting the server and the terminal game need.
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	DeckFile       string
	Production     bool

	// Game is the table layout used when a request or the CLI doesn't choose one.
	Game freecell.Config
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   getEnv("COOKIE_NAME", "freecell_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		DeckFile:     os.Getenv("DECK_FILE"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return c, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	c.LogLevel = lvl

	if c.JWTExpiresDays, err = getInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return c, err
	}

	def := freecell.DefaultConfig()
	cascades, err := getInt("FREECELL_CASCADES", def.Cascades)
	if err != nil {
		return c, err
	}
	opens, err := getInt("FREECELL_OPENS", def.Opens)
	if err != nil {
		return c, err
	}
	c.Game, err = freecell.NewBuilder().
		Cascades(cascades).
		Opens(opens).
		Variant(freecell.Variant(getEnv("FREECELL_VARIANT", string(def.Variant)))).
		Build()
	if err != nil {
		return c, fmt.Errorf("game defaults: %w", err)
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", k, v)
	}
	return n, nil
}

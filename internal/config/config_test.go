package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/freecell/apps/go-server/internal/freecell"
)

var keys = []string{
	"PORT", "LOG_LEVEL", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS", "COOKIE_NAME",
	"CLIENT_ORIGIN", "DAILY_SALT", "DECK_FILE", "NODE_ENV",
	"FREECELL_CASCADES", "FREECELL_OPENS", "FREECELL_VARIANT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, "./data/app.db", c.DBPath)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.Equal(t, "freecell_token", c.CookieName)
	assert.False(t, c.Production)
	assert.Empty(t, c.DeckFile)
	assert.Equal(t, freecell.DefaultConfig(), c.Game)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_EXPIRES_DAYS", "2")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("FREECELL_CASCADES", "8")
	t.Setenv("FREECELL_OPENS", "4")
	t.Setenv("FREECELL_VARIANT", "multi")
	t.Setenv("DECK_FILE", "/srv/decks/fixed.txt")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, 2, c.JWTExpiresDays)
	assert.True(t, c.Production)
	assert.Equal(t, "/srv/decks/fixed.txt", c.DeckFile)
	assert.Equal(t, freecell.Config{Cascades: 8, Opens: 4, Variant: freecell.VariantMulti}, c.Game)
}

func TestRejects(t *testing.T) {
	cases := map[string]string{
		"LOG_LEVEL":         "loud",
		"JWT_EXPIRES_DAYS":  "soon",
		"FREECELL_CASCADES": "9",
		"FREECELL_OPENS":    "0",
		"FREECELL_VARIANT":  "spider",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestBadPileCountIsConfigError(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREECELL_CASCADES", "3")
	_, err := FromEnv()
	assert.ErrorIs(t, err, freecell.ErrInvalidConfig)
}

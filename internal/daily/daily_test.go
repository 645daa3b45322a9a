package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/freecell/apps/go-server/internal/database"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	assert.Equal(t, "2024-03-01", DateKey(time.Date(2024, 3, 2, 5, 0, 0, 0, loc)))
}

func TestSeed(t *testing.T) {
	morning := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"), "same day, same deal")
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning.AddDate(0, 0, 1), "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "pepper"))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenMigrated(database.Memory)
	require.NoError(t, err)
	defer db.Close()
	st := NewStore(db)

	played, err := st.AlreadyPlayed(ctx, "alice", "2024-03-01")
	require.NoError(t, err)
	assert.False(t, played)

	seed := Seed(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "salt")
	for _, r := range []Result{
		{UserID: "alice", Date: "2024-03-01", Seed: seed, Moves: 90, ElapsedMs: 1000},
		{UserID: "bob", Date: "2024-03-01", Seed: seed, Moves: 80, ElapsedMs: 9000},
		{UserID: "carol", Date: "2024-03-01", Seed: seed, Moves: 80, ElapsedMs: 5000},
		{UserID: "alice", Date: "2024-03-01", Seed: seed, Moves: 10, ElapsedMs: 10},
		{UserID: "dave", Date: "2024-03-02", Seed: seed, Moves: 1, ElapsedMs: 1},
	} {
		require.NoError(t, st.InsertResult(ctx, r))
	}

	played, err = st.AlreadyPlayed(ctx, "alice", "2024-03-01")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := st.Leaderboard(ctx, "2024-03-01", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "carol", Moves: 80, ElapsedMs: 5000},
		{UserID: "bob", Moves: 80, ElapsedMs: 9000},
		{UserID: "alice", Moves: 90, ElapsedMs: 1000},
	}, rows, "second result for alice is ignored")

	rows, err = st.Leaderboard(ctx, "2024-03-01", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = st.Leaderboard(ctx, "1999-01-01", 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

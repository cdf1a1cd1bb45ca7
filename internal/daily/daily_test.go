package daily_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bossdle/internal/daily"
	"github.com/robalobadob/bossdle/internal/database"
)

func TestGameDayRollover(t *testing.T) {
	c := daily.DefaultClock
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		// 08:59 UTC = 05:59 UTC-3, still the previous game-day
		{"before rollover", time.Date(2024, 1, 2, 8, 59, 0, 0, time.UTC), "2024-01-01"},
		// 09:00 UTC = 06:00 UTC-3
		{"at rollover", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "2024-01-02"},
		// 01:00 UTC on Jan 3 = 22:00 on Jan 2 local
		{"late evening local", time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC), "2024-01-02"},
		// 08:00 UTC on Mar 1 = 05:00 local, before rollover
		{"month boundary", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), "2024-02-29"},
		{"other input zone", time.Date(2024, 1, 2, 10, 0, 0, 0, time.FixedZone("CET", 3600)), "2024-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.GameDay(tt.now))
		})
	}
}

func TestHashKnownValue(t *testing.T) {
	assert.Equal(t, int32(-613341632), daily.Hash("2024-01-01"))
	assert.Equal(t, int32(-613341631), daily.Hash("2024-01-02"))
	assert.Equal(t, int32(0), daily.Hash(""))
}

func TestDayIndexExample(t *testing.T) {
	names := []string{"Asylum Demon", "Taurus Demon"}
	for i := 0; i < 3; i++ {
		idx := daily.DayIndex("2024-01-01", len(names))
		assert.Equal(t, 0, idx)
		assert.Equal(t, "Asylum Demon", names[idx])
	}
	assert.Equal(t, 1, daily.DayIndex("2024-01-02", 2))
	assert.Equal(t, 0, daily.DayIndex("2024-01-02", 0))
}

func TestIndexStableWithinGameDayAndInRange(t *testing.T) {
	c := daily.DefaultClock
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) // 06:00 local
	for _, n := range []int{1, 2, 7, 33, 1000} {
		want := c.Index(start, n)
		for h := 0; h < 24; h++ {
			got := c.Index(start.Add(time.Duration(h)*time.Hour+59*time.Minute), n)
			require.Equal(t, want, got, "n=%d hour=%d", n, h)
		}
	}
	for d := 0; d < 400; d++ {
		idx := c.Index(start.AddDate(0, 0, d), 13)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 13)
	}
}

func TestPreviousDay(t *testing.T) {
	assert.Equal(t, "2023-12-31", daily.PreviousDay("2024-01-01"))
	assert.Equal(t, "", daily.PreviousDay("yesterday"))
}

func TestRandomIndex(t *testing.T) {
	assert.Equal(t, 0, daily.RandomIndex(0))
	for i := 0; i < 100; i++ {
		idx := daily.RandomIndex(5)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 5)
	}
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.SQLite, filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	s := daily.NewStore(db)
	require.NoError(t, s.InsertResult(ctx, daily.Result{PlayerID: "a", Mode: "bossdle", Date: "2024-01-01", Guesses: 4}))
	require.NoError(t, s.InsertResult(ctx, daily.Result{PlayerID: "b", Mode: "bossdle", Date: "2024-01-01", Guesses: 2}))
	// duplicate ignored
	require.NoError(t, s.InsertResult(ctx, daily.Result{PlayerID: "a", Mode: "bossdle", Date: "2024-01-01", Guesses: 1}))
	require.NoError(t, s.InsertResult(ctx, daily.Result{PlayerID: "a", Mode: "eldendle", Date: "2024-01-01", Guesses: 9}))

	played, err := s.AlreadyPlayed(ctx, "a", "bossdle", "2024-01-01")
	require.NoError(t, err)
	assert.True(t, played)
	played, err = s.AlreadyPlayed(ctx, "c", "bossdle", "2024-01-01")
	require.NoError(t, err)
	assert.False(t, played)

	rows, err := s.Leaderboard(ctx, "bossdle", "2024-01-01", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, daily.LBRow{PlayerID: "b", Guesses: 2}, rows[0])
	assert.Equal(t, daily.LBRow{PlayerID: "a", Guesses: 4}, rows[1])

	require.NoError(t, s.ClaimPlayer(ctx, "b", "user-1"))
	played, err = s.AlreadyPlayed(ctx, "user-1", "bossdle", "2024-01-01")
	require.NoError(t, err)
	assert.True(t, played)
}

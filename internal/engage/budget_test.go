package engage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombardier/internal/config"
	"bombardier/internal/store/sqlite"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAllowRespectsGlobalBudgets(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := config.EngagementConfig{MaxPerHour: 2, MaxPerDay: 3}

	ok, err := Allow(ctx, db, cfg, "dm", now)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, Record(ctx, db, "dm", "a", now))
	require.NoError(t, Record(ctx, db, "reply", "b", now.Add(5*time.Minute)))
	ok, err = Allow(ctx, db, cfg, "dm", now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "hourly budget counts every type")

	require.NoError(t, Record(ctx, db, "dm", "c", now.Add(65*time.Minute)))
	ok, err = Allow(ctx, db, cfg, "dm", now.Add(70*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "daily budget")

	ok, err = Allow(ctx, db, cfg, "dm", now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok, "next day")
}

func TestAllowRespectsPerTypeBudget(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := config.EngagementConfig{
		MaxPerHour: 10,
		PerType:    map[string]config.Budget{"dm": {MaxPerHour: 1}},
	}

	require.NoError(t, Record(ctx, db, "dm", "a", now))
	ok, err := Allow(ctx, db, cfg, "dm", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Allow(ctx, db, cfg, "reply", now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowWithoutLimits(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, Record(ctx, db, "dm", "x", now))
	}
	ok, err := Allow(ctx, db, config.EngagementConfig{}, "dm", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

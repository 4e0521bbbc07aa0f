package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/config"
	"mindbloom/internal/logger"
	"mindbloom/internal/memstore"
	"mindbloom/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemoryBackend(t *testing.T) *server.Backend {
	t.Helper()
	t.Setenv("LOG_MODE", "prod")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_ADDR", "")

	store := memstore.NewStore()
	backend := &server.Backend{Name: "memory", Store: store, Cache: analytics.UserRecordCache{Users: store}}
	ctx := context.Background()
	require.NoError(t, store.UpsertUser(ctx, analytics.UserRecord{ID: "u1", Streak: 5}))
	_, err := store.InsertSession(ctx, analytics.TrainingSession{
		UserID:       "u1",
		IsComplete:   true,
		AverageScore: 0.85,
		FocusAreas:   []string{"memory"},
		CreatedAt:    time.Now().UTC(),
		ExerciseResults: []analytics.ExerciseResult{
			{ExerciseID: "word_pairs", Score: 0.85, TimeSpent: 45},
		},
	})
	require.NoError(t, err)

	prev := openBackend
	openBackend = func(context.Context, config.Config, *logger.Logger) (*server.Backend, error) {
		return backend, nil
	}
	t.Cleanup(func() { openBackend = prev })
	return backend
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	compact = false
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	useMemoryBackend(t)

	out, err := run(t, "show", "u1")
	require.NoError(t, err)

	var summary analytics.ProgressSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 5, summary.CurrentStreak)
	assert.InDelta(t, 85, summary.OverallAverageScore, 1e-9)
	assert.Equal(t, []string{"memory"}, summary.Strengths)
}

func TestRecalcThenCached(t *testing.T) {
	backend := useMemoryBackend(t)

	out, err := run(t, "recalc", "u1", "--compact")
	require.NoError(t, err)
	assert.NotContains(t, out, "\n  ", "compact output should not be indented")

	u, err := backend.Store.FindUser(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u.CachedProgress)
	assert.Equal(t, 1, u.CachedProgress.TotalSessions)

	out, err = run(t, "cached", "u1")
	require.NoError(t, err)
	var cached analytics.CachedProgress
	require.NoError(t, json.Unmarshal([]byte(out), &cached))
	assert.True(t, cached.LastUpdated.Equal(u.CachedProgress.LastUpdated), "fresh projection should be served as is")
}

func TestToday(t *testing.T) {
	useMemoryBackend(t)

	out, err := run(t, "today", "u1")
	require.NoError(t, err)

	var today analytics.TodaySummary
	require.NoError(t, json.Unmarshal([]byte(out), &today))
	assert.True(t, today.HasData)
	assert.Equal(t, 85, today.AverageScore)
}

func TestArgsAndBackendErrors(t *testing.T) {
	useMemoryBackend(t)

	_, err := run(t, "show")
	assert.Error(t, err, "user id is required")

	openBackend = func(context.Context, config.Config, *logger.Logger) (*server.Backend, error) {
		return nil, errors.New("connection refused")
	}
	_, err = run(t, "show", "u1")
	assert.ErrorContains(t, err, "opening storage")
}

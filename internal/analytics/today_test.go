package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayPerformance_NoSessions(t *testing.T) {
	store := newFakeStore(completeSession("yesterday", fixedNow.AddDate(0, 0, -1), []string{AreaMemory}, 80.0))
	e := newTestEngine(store)

	got := e.TodayPerformance(context.Background(), "u1")

	assert.False(t, got.HasData)
	assert.NotEmpty(t, got.Message)
	assert.NotNil(t, got.Areas)
	require.NotNil(t, store.lastQuery.CreatedFrom)
	assert.Equal(t, 0, store.lastQuery.CreatedFrom.Hour())
}

func TestTodayPerformance_Summarizes(t *testing.T) {
	morning := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 1, 0, 0, 0, time.UTC)
	s1 := completeSession("s1", morning, []string{AreaMemory, AreaAttention}, 0.8,
		result("word_pairs", 0.8),
		result("mystery_one", 70),
		result("mystery_two", 90),
		result("mystery_three", 50),
	)
	s1.Mood = ""
	s2 := completeSession("s2", morning.Add(2*time.Hour), nil, 61.0, result("unknown", 61))
	s2.Mood = "energized"
	e := newTestEngine(newFakeStore(s1, s2))

	got := e.TodayPerformance(context.Background(), "u1")

	require.True(t, got.HasData)
	assert.Empty(t, got.Message)
	assert.Equal(t, 2, got.SessionsCount)
	assert.Equal(t, 5, got.TotalExercises)
	assert.Equal(t, 5, got.CompletedExercises)
	assert.Equal(t, 71, got.AverageScore)
	assert.Equal(t, 5, got.Duration)
	assert.Equal(t, "energized", got.Mood)

	memory := got.Areas[AreaMemory]
	assert.Equal(t, 2, memory.Count)
	assert.Equal(t, 75, memory.Average)
	attention := got.Areas[AreaAttention]
	assert.Equal(t, 2, attention.Count)
	assert.Equal(t, 70, attention.Average)
	assert.Equal(t, 1, got.Areas[AreaGeneral].Count)
}

func TestTodayPerformance_DefaultMood(t *testing.T) {
	s := completeSession("s1", fixedNow, []string{AreaMemory}, 50.0, result("word_pairs", 50))
	s.Mood = ""
	e := newTestEngine(newFakeStore(s))

	got := e.TodayPerformance(context.Background(), "u1")

	assert.Equal(t, "focused", got.Mood)
}

func TestTodayPerformance_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.sessionErr = errors.New("offline")
	e := newTestEngine(store)

	got := e.TodayPerformance(context.Background(), "u1")

	assert.False(t, got.HasData)
}

func TestPositionalArea(t *testing.T) {
	areas := []string{AreaMemory, AreaLanguage}
	assert.Equal(t, AreaMemory, positionalArea("x", areas, 0, 4))
	assert.Equal(t, AreaMemory, positionalArea("x", areas, 1, 4))
	assert.Equal(t, AreaLanguage, positionalArea("x", areas, 2, 4))
	assert.Equal(t, AreaLanguage, positionalArea("x", areas, 4, 5))
	assert.Equal(t, AreaMemory, positionalArea("x", areas, 0, 1))
	assert.Equal(t, AreaGeneral, positionalArea("x", nil, 0, 1))
	assert.Equal(t, AreaAttention, positionalArea("blue_dots", areas, 0, 1))
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrend_ThreeConsecutiveDays(t *testing.T) {
	sessions := []TrainingSession{
		completeSession("s1", day(0), []string{AreaMemory}, 50.0),
		completeSession("s2", day(1), []string{AreaMemory}, 70.0),
		completeSession("s3", day(2), []string{AreaMemory}, 90.0),
	}

	trend := BuildTrend(sessions, day(2).Add(time.Hour), 30)

	require.Len(t, trend, 3)
	for i, want := range []float64{50, 70, 90} {
		d := day(i)
		assert.Equal(t, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), trend[i].Date)
		assert.Equal(t, want, trend[i].Score)
		assert.Equal(t, 0, trend[i].Activities)
	}
}

func TestBuildTrend_GroupsByCalendarDay(t *testing.T) {
	morning := day(0)
	evening := day(0).Add(10 * time.Hour)
	sessions := []TrainingSession{
		completeSession("s1", morning, nil, 0.6, result("word_pairs", 60), result("attention", 60)),
		completeSession("s2", evening, nil, 80.0, result("word_pairs", 80)),
		{ID: "s3", ExerciseResults: []ExerciseResult{result("attention", 10)}, CreatedAt: evening},
	}

	trend := BuildTrend(sessions, day(1), 30)

	require.Len(t, trend, 1)
	assert.InDelta(t, 70.0, trend[0].Score, 1e-9)
	assert.Equal(t, 4, trend[0].Activities)
}

func TestBuildTrend_WindowCutoff(t *testing.T) {
	now := day(40)
	sessions := []TrainingSession{
		completeSession("old", day(0), nil, 10.0),
		completeSession("edge", now.AddDate(0, 0, -30), nil, 20.0),
		completeSession("recent", day(39), nil, 30.0),
	}

	trend := BuildTrend(sessions, now, 30)

	require.Len(t, trend, 2)
	assert.Equal(t, 20.0, trend[0].Score)
	assert.Equal(t, 30.0, trend[1].Score)
}

func TestBuildTrend_EmptyWindow(t *testing.T) {
	trend := BuildTrend([]TrainingSession{completeSession("s1", day(0), nil, 50.0)}, day(100), 30)
	assert.NotNil(t, trend)
	assert.Empty(t, trend)

	assert.Empty(t, BuildTrend(nil, day(0), 30))
}

func TestBuildTrend_DayWithoutScores(t *testing.T) {
	s := completeSession("s1", day(0), nil, nil, result("word_pairs", 90))
	trend := BuildTrend([]TrainingSession{s}, day(1), 30)

	require.Len(t, trend, 1)
	assert.Equal(t, 0.0, trend[0].Score)
	assert.Equal(t, 1, trend[0].Activities)
}

package analytics

import (
	"sort"
	"time"
)

const DefaultTrendWindowDays = 30

type dayBucket struct {
	scores     []float64
	activities int
}

// BuildTrend buckets the sessions created in the last windowDays into daily
// points (UTC calendar days), oldest first.
func BuildTrend(sessions []TrainingSession, now time.Time, windowDays int) []PerformanceTrend {
	cutoff := now.AddDate(0, 0, -windowDays)
	buckets := make(map[time.Time]*dayBucket)

	for _, s := range sessions {
		if s.CreatedAt.IsZero() || s.CreatedAt.Before(cutoff) {
			continue
		}
		t := s.CreatedAt.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{}
			buckets[day] = b
		}
		if hasScore(s.AverageScore) {
			b.scores = append(b.scores, CanonicalScore(s.AverageScore))
		}
		b.activities += len(s.ExerciseResults)
	}

	days := make([]time.Time, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	trend := make([]PerformanceTrend, 0, len(days))
	for _, d := range days {
		b := buckets[d]
		trend = append(trend, PerformanceTrend{
			Date:       d,
			Score:      mean(b.scores),
			Activities: b.activities,
		})
	}
	return trend
}

package analytics

import "time"

const (
	// Trend detection compares the last trendRecentPoints points with the
	// ones before them; the threshold is in percentage points.
	trendRecentPoints     = 3
	trendChangeThreshold  = 10.0
	areaTrendHistoryLimit = 10

	// With fewer than trendRecentPoints points the status comes from the
	// current score alone.
	BootstrapImprovingThreshold = 70.0
	BootstrapStableThreshold    = 60.0
)

type areaPoint struct {
	date  time.Time
	score float64
}

type areaScore struct {
	area  string
	score float64
}

// AggregateAreas folds sessions (oldest first) into per-area analytics. Areas
// are returned in the order they first appear.
func AggregateAreas(sessions []TrainingSession) []FocusAreaAnalytics {
	var order []string
	timelines := make(map[string][]areaPoint)

	for _, s := range sessions {
		for _, as := range sessionAreaScores(s) {
			if _, seen := timelines[as.area]; !seen {
				order = append(order, as.area)
			}
			timelines[as.area] = append(timelines[as.area], areaPoint{date: s.CreatedAt, score: as.score})
		}
	}

	analytics := make([]FocusAreaAnalytics, 0, len(order))
	for _, area := range order {
		if points := timelines[area]; len(points) > 0 {
			analytics = append(analytics, summarizeArea(area, points))
		}
	}
	return analytics
}

// sessionAreaScores returns the score each area earned in one session, one
// entry per area, in selection order. Sessions that selected no area score
// the areas their exercises map to, in the order those first appear.
func sessionAreaScores(s TrainingSession) []areaScore {
	areas := uniqueAreas(s.FocusAreas)
	// Absent averages normalize to 0.
	avg := CanonicalScore(s.AverageScore)

	if len(s.ExerciseResults) == 0 {
		scores := make([]areaScore, 0, len(areas))
		for _, a := range areas {
			scores = append(scores, areaScore{area: a, score: avg})
		}
		return scores
	}

	var mappedOrder []string
	mapped := make(map[string][]float64)
	var unmapped []float64
	for _, r := range s.ExerciseResults {
		score := CanonicalScore(r.Score)
		if area, ok := MapToArea(r.ExerciseID, s.FocusAreas); ok {
			if _, seen := mapped[area]; !seen {
				mappedOrder = append(mappedOrder, area)
			}
			mapped[area] = append(mapped[area], score)
		} else {
			unmapped = append(unmapped, score)
		}
	}

	if len(areas) == 0 {
		scores := make([]areaScore, 0, len(mappedOrder))
		for _, area := range mappedOrder {
			scores = append(scores, areaScore{area: area, score: mean(mapped[area])})
		}
		return scores
	}

	scores := make([]areaScore, 0, len(areas))
	for _, a := range areas {
		switch {
		case len(mapped[a]) > 0:
			scores = append(scores, areaScore{area: a, score: mean(mapped[a])})
		case len(unmapped) > 0:
			scores = append(scores, areaScore{area: a, score: mean(unmapped)})
		default:
			scores = append(scores, areaScore{area: a, score: avg})
		}
	}
	return scores
}

func summarizeArea(area string, points []areaPoint) FocusAreaAnalytics {
	scores := make([]float64, len(points))
	for i, p := range points {
		scores[i] = p.score
	}

	start := 0
	if len(points) > areaTrendHistoryLimit {
		start = len(points) - areaTrendHistoryLimit
	}
	trend := make([]PerformanceTrend, 0, len(points)-start)
	for _, p := range points[start:] {
		trend = append(trend, PerformanceTrend{Date: p.date, Score: p.score})
	}

	current := scores[len(scores)-1]
	return FocusAreaAnalytics{
		AreaName:          area,
		CurrentScore:      current,
		ImprovementStatus: improvementStatus(scores),
		SessionsCount:     len(scores),
		AverageScore:      mean(scores),
		BestScore:         maxOf(scores),
		TrendData:         trend,
	}
}

func improvementStatus(scores []float64) ImprovementStatus {
	n := len(scores)
	if n == 0 {
		return StatusStable
	}
	if n < trendRecentPoints {
		current := scores[n-1]
		switch {
		case current >= BootstrapImprovingThreshold:
			return StatusImproving
		case current >= BootstrapStableThreshold:
			return StatusStable
		default:
			return StatusDeclining
		}
	}

	recent := scores[n-trendRecentPoints:]
	earlier := scores[:1]
	if n > trendRecentPoints {
		earlier = scores[:n-trendRecentPoints]
	}
	diff := mean(recent) - mean(earlier)
	switch {
	case diff > trendChangeThreshold:
		return StatusImproving
	case diff < -trendChangeThreshold:
		return StatusDeclining
	default:
		return StatusStable
	}
}

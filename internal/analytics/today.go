package analytics

import (
	"context"
	"math"
	"time"
)

const defaultMood = "focused"

type TodayArea struct {
	Scores  []float64 `json:"scores"`
	Average int       `json:"average"`
	Count   int       `json:"count"`
}

type TodaySummary struct {
	HasData            bool                 `json:"hasData"`
	Message            string               `json:"message,omitempty"`
	Areas              map[string]TodayArea `json:"areas"`
	TotalExercises     int                  `json:"totalExercises"`
	CompletedExercises int                  `json:"completedExercises"`
	AverageScore       int                  `json:"averageScore"`
	Duration           int                  `json:"duration"` // minutes
	Mood               string               `json:"mood"`
	SessionsCount      int                  `json:"sessionsCount"`
}

func noTodayData() TodaySummary {
	return TodaySummary{
		Message: "No training sessions completed today",
		Areas:   map[string]TodayArea{},
	}
}

// TodayPerformance summarizes the sessions the user played since UTC
// midnight.
func (e *Engine) TodayPerformance(ctx context.Context, userID string) (today TodaySummary) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("today performance panicked", "user_id", userID, "panic", r)
			today = noTodayData()
		}
	}()

	now := e.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	sessions, err := e.Sessions.FindSessions(ctx, SessionQuery{
		UserID:      userID,
		UsableOnly:  true,
		CreatedFrom: &start,
		CreatedTo:   &end,
	})
	if err != nil {
		e.log.Error("finding today's sessions", "user_id", userID, "error", err)
		return noTodayData()
	}
	return summarizeToday(sessions)
}

func summarizeToday(sessions []TrainingSession) TodaySummary {
	today := noTodayData()
	var sessionScores []float64
	areaScores := make(map[string][]float64)
	totalTime := 0

	for _, s := range sessions {
		if !s.IsUsable() {
			continue
		}
		today.SessionsCount++
		if today.Mood == "" && s.Mood != "" {
			today.Mood = s.Mood
		}
		if hasScore(s.AverageScore) {
			sessionScores = append(sessionScores, CanonicalScore(s.AverageScore))
		}
		for i, r := range s.ExerciseResults {
			today.TotalExercises++
			if r.TimeSpent > 0 {
				totalTime += r.TimeSpent
			}
			area := positionalArea(r.ExerciseID, s.FocusAreas, i, len(s.ExerciseResults))
			areaScores[area] = append(areaScores[area], CanonicalScore(r.Score))
		}
	}
	if today.SessionsCount == 0 {
		return today
	}

	for area, scores := range areaScores {
		today.Areas[area] = TodayArea{
			Scores:  scores,
			Average: int(math.Round(mean(scores))),
			Count:   len(scores),
		}
	}
	today.HasData = true
	today.Message = ""
	today.CompletedExercises = today.TotalExercises
	today.AverageScore = int(math.Round(mean(sessionScores)))
	today.Duration = int(math.Round(float64(totalTime) / 60))
	if today.Mood == "" {
		today.Mood = defaultMood
	}
	return today
}

// positionalArea maps a known exercise directly. Unknown exercises are spread
// evenly over the session's focus areas by their position in the session.
func positionalArea(exerciseID string, focusAreas []string, index, total int) string {
	if area, ok := MapToArea(exerciseID, focusAreas); ok {
		return area
	}
	if len(focusAreas) == 0 {
		return AreaGeneral
	}
	perArea := total / len(focusAreas)
	if perArea == 0 {
		return focusAreas[0]
	}
	i := index / perArea
	if i > len(focusAreas)-1 {
		i = len(focusAreas) - 1
	}
	return focusAreas[i]
}

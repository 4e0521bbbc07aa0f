package analytics

import "time"

var baseDay = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseDay.AddDate(0, 0, n)
}

func result(id string, score any) ExerciseResult {
	return ExerciseResult{ExerciseID: id, Score: score, TimeSpent: 60}
}

func completeSession(id string, created time.Time, areas []string, avg any, results ...ExerciseResult) TrainingSession {
	return TrainingSession{
		ID:              id,
		UserID:          "u1",
		Mood:            "calm",
		FocusAreas:      areas,
		ExerciseResults: results,
		AverageScore:    avg,
		IsComplete:      true,
		CreatedAt:       created,
	}
}

func findArea(areas []FocusAreaAnalytics, name string) *FocusAreaAnalytics {
	for i := range areas {
		if areas[i].AreaName == name {
			return &areas[i]
		}
	}
	return nil
}

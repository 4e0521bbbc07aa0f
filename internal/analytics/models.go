package analytics

import "time"

type ImprovementStatus string

const (
	StatusImproving ImprovementStatus = "improving"
	StatusStable    ImprovementStatus = "stable"
	StatusDeclining ImprovementStatus = "declining"
)

// ExerciseResult is one played exercise inside a session. Score is kept raw
// because historical records disagree on its type and scale.
type ExerciseResult struct {
	ExerciseID  string     `json:"exerciseId"`
	Score       any        `json:"score"`
	TimeSpent   int        `json:"timeSpent"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type TrainingSession struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Mood            string           `json:"mood"`
	FocusAreas      []string         `json:"focusAreas"`
	Exercises       []map[string]any `json:"exercises"`
	ExerciseResults []ExerciseResult `json:"exerciseResults"`
	AverageScore    any              `json:"averageScore"`
	IsComplete      bool             `json:"isComplete"`
	CreatedAt       time.Time        `json:"createdAt"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
}

// IsUsable reports whether the session carries any signal: complete, or
// partially played.
func (s TrainingSession) IsUsable() bool {
	return s.IsComplete || len(s.ExerciseResults) > 0
}

type UserRecord struct {
	ID             string
	Streak         int
	TotalSessions  int
	CachedProgress *CachedProgress
}

type PerformanceTrend struct {
	Date       time.Time `json:"date"`
	Score      float64   `json:"score"`
	Activities int       `json:"activities"`
}

type FocusAreaAnalytics struct {
	AreaName          string             `json:"area_name"`
	CurrentScore      float64            `json:"current_score"`
	ImprovementStatus ImprovementStatus  `json:"improvement_status"`
	SessionsCount     int                `json:"sessions_count"`
	AverageScore      float64            `json:"average_score"`
	BestScore         float64            `json:"best_score"`
	TrendData         []PerformanceTrend `json:"trend_data"`
}

type ProgressSummary struct {
	UserID                 string               `json:"user_id"`
	TotalSessions          int                  `json:"total_sessions"`
	CurrentStreak          int                  `json:"current_streak"`
	OverallAverageScore    float64              `json:"overall_average_score"`
	BestSessionScore       float64              `json:"best_session_score"`
	TotalTimeSpent         int                  `json:"total_time_spent"` // seconds
	FocusAreasAnalytics    []FocusAreaAnalytics `json:"focus_areas_analytics"`
	RecentPerformanceTrend []PerformanceTrend   `json:"recent_performance_trend"`
	ImprovementAreas       []string             `json:"improvement_areas"`
	Strengths              []string             `json:"strengths"`
	GeneratedAt            time.Time            `json:"generated_at"`
}

// CachedProgress is the projection of a ProgressSummary kept on the user
// record for the fast path.
type CachedProgress struct {
	ImprovementAreas    []string  `json:"improvement_areas" bson:"improvement_areas"`
	Strengths           []string  `json:"strengths" bson:"strengths"`
	LastUpdated         time.Time `json:"last_updated" bson:"last_updated"`
	TotalSessions       int       `json:"total_sessions" bson:"total_sessions"`
	OverallAverageScore float64   `json:"overall_average_score" bson:"overall_average_score"`
}

// FreshAt reports whether the projection is younger than ttl at now.
func (c *CachedProgress) FreshAt(now time.Time, ttl time.Duration) bool {
	if c == nil || c.LastUpdated.IsZero() {
		return false
	}
	return now.Sub(c.LastUpdated) < ttl
}

func emptySummary(userID string, now time.Time) ProgressSummary {
	return ProgressSummary{
		UserID:                 userID,
		FocusAreasAnalytics:    []FocusAreaAnalytics{},
		RecentPerformanceTrend: []PerformanceTrend{},
		ImprovementAreas:       []string{},
		Strengths:              []string{},
		GeneratedAt:            now,
	}
}

func emptyProjection(now time.Time) CachedProgress {
	return CachedProgress{
		ImprovementAreas: []string{},
		Strengths:        []string{},
		LastUpdated:      now,
	}
}

func projectionOf(s ProgressSummary, now time.Time) CachedProgress {
	return CachedProgress{
		ImprovementAreas:    s.ImprovementAreas,
		Strengths:           s.Strengths,
		LastUpdated:         now,
		TotalSessions:       s.TotalSessions,
		OverallAverageScore: s.OverallAverageScore,
	}
}

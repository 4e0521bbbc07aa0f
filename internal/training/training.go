package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/logger"
)

var ErrSessionComplete = errors.New("training session already completed")

// Completion is the final state written when a session is completed.
type Completion struct {
	Results      []analytics.ExerciseResult
	AverageScore float64
	CompletedAt  time.Time
}

type Store interface {
	// GetSession returns analytics.ErrSessionNotFound unless the session
	// exists and belongs to userID.
	GetSession(ctx context.Context, sessionID, userID string) (*analytics.TrainingSession, error)
	AppendExerciseResult(ctx context.Context, sessionID string, r analytics.ExerciseResult) (*analytics.TrainingSession, error)
	CompleteSession(ctx context.Context, sessionID string, c Completion) error
	// IncrementUserStats bumps streak and total sessions and returns the
	// updated record.
	IncrementUserStats(ctx context.Context, userID string) (*analytics.UserRecord, error)
}

type Recalculator interface {
	RecalculateAndCache(ctx context.Context, userID string) analytics.CachedProgress
}

type ExerciseRecorded struct {
	Message                 string   `json:"message"`
	CompletedAreas          []string `json:"completedAreas"`
	RemainingAreas          []string `json:"remainingAreas"`
	CurrentAverage          float64  `json:"currentAverage"`
	TotalExercisesCompleted int      `json:"totalExercisesCompleted"`
}

type SessionCompleted struct {
	Message       string  `json:"message"`
	AverageScore  float64 `json:"averageScore"`
	NewStreak     int     `json:"newStreak"`
	TotalSessions int     `json:"totalSessions"`
}

// Service records exercise results and completes sessions, refreshing the
// user's cached progress after each change.
type Service struct {
	store    Store
	progress Recalculator
	log      *logger.Logger
	Now      func() time.Time
}

func NewService(store Store, progress Recalculator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		store:    store,
		progress: progress,
		log:      log.With("service", "TrainingService"),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) RecordExercise(ctx context.Context, userID, sessionID string, r analytics.ExerciseResult) (*ExerciseRecorded, error) {
	session, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	if session.IsComplete {
		return nil, ErrSessionComplete
	}

	now := s.Now()
	r.CompletedAt = &now
	if r.TimeSpent < 0 {
		r.TimeSpent = 0
	}
	updated, err := s.store.AppendExerciseResult(ctx, sessionID, r)
	if err != nil {
		return nil, fmt.Errorf("appending exercise result: %w", err)
	}

	completed, remaining := coveredAreas(updated.FocusAreas, updated.ExerciseResults)
	s.progress.RecalculateAndCache(ctx, userID)

	return &ExerciseRecorded{
		Message:                 "Exercise result saved successfully",
		CompletedAreas:          completed,
		RemainingAreas:          remaining,
		CurrentAverage:          analytics.MeanResultScore(updated.ExerciseResults),
		TotalExercisesCompleted: len(updated.ExerciseResults),
	}, nil
}

// CompleteSession merges submitted results that were not already recorded,
// stores the session average and bumps the user's stats.
func (s *Service) CompleteSession(ctx context.Context, userID, sessionID string, submitted []analytics.ExerciseResult) (*SessionCompleted, error) {
	session, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	if session.IsComplete {
		return nil, ErrSessionComplete
	}

	now := s.Now()
	results := append([]analytics.ExerciseResult{}, session.ExerciseResults...)
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		seen[r.ExerciseID] = true
	}
	for _, r := range submitted {
		if seen[r.ExerciseID] {
			continue
		}
		seen[r.ExerciseID] = true
		r.CompletedAt = &now
		if r.TimeSpent < 0 {
			r.TimeSpent = 0
		}
		results = append(results, r)
	}

	avg := analytics.MeanResultScore(results)
	if err := s.store.CompleteSession(ctx, sessionID, Completion{Results: results, AverageScore: avg, CompletedAt: now}); err != nil {
		return nil, fmt.Errorf("completing session: %w", err)
	}

	user, err := s.store.IncrementUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("updating user stats: %w", err)
	}

	s.progress.RecalculateAndCache(ctx, userID)
	s.log.Info("training session completed", "user_id", userID, "session_id", sessionID, "average_score", avg)

	return &SessionCompleted{
		Message:       "Training session completed successfully",
		AverageScore:  avg,
		NewStreak:     user.Streak,
		TotalSessions: user.TotalSessions,
	}, nil
}

// coveredAreas splits the selected areas into those a result has already
// exercised and those still to play.
func coveredAreas(focusAreas []string, results []analytics.ExerciseResult) (completed, remaining []string) {
	completed = []string{}
	remaining = append([]string{}, focusAreas...)
	for _, r := range results {
		area, ok := analytics.MapToArea(r.ExerciseID, focusAreas)
		if !ok {
			continue
		}
		for i, a := range remaining {
			if a == area {
				completed = append(completed, area)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return completed, remaining
}

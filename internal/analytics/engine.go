package analytics

import (
	"context"
	"fmt"
	"time"

	"mindbloom/internal/logger"
	"mindbloom/internal/metrics"
)

const CacheTTL = time.Hour

// Engine builds progress summaries. Every entry point degrades to an empty
// result instead of failing: progress is never on the critical path of the
// training workflow.
type Engine struct {
	Sessions        SessionStore
	Users           UserStore
	Cache           ProgressCache
	Notifier        Notifier // optional
	Metrics         *metrics.Metrics
	Now             func() time.Time
	CacheTTL        time.Duration
	TrendWindowDays int

	log *logger.Logger
}

func NewEngine(sessions SessionStore, users UserStore, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		Sessions:        sessions,
		Users:           users,
		Cache:           UserRecordCache{Users: users},
		Now:             func() time.Time { return time.Now().UTC() },
		CacheTTL:        CacheTTL,
		TrendWindowDays: DefaultTrendWindowDays,
		log:             log.With("service", "ProgressEngine"),
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

// GetProgressAnalytics recomputes the full summary for a user.
func (e *Engine) GetProgressAnalytics(ctx context.Context, userID string) (summary ProgressSummary) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("progress analytics panicked", "user_id", userID, "panic", r)
			summary = emptySummary(userID, e.now())
		}
	}()

	summary, err := e.compute(ctx, userID)
	if err != nil {
		e.log.Error("computing progress analytics", "user_id", userID, "error", err)
		return emptySummary(userID, e.now())
	}
	return summary
}

// RecalculateAndCache recomputes the summary and overwrites the cached
// projection. Nothing is written when the computation fails.
func (e *Engine) RecalculateAndCache(ctx context.Context, userID string) (progress CachedProgress) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("progress recalculation panicked", "user_id", userID, "panic", r)
			progress = emptyProjection(e.now())
		}
	}()

	summary, err := e.compute(ctx, userID)
	if err != nil {
		e.log.Error("recalculating progress", "user_id", userID, "error", err)
		return emptyProjection(e.now())
	}

	progress = projectionOf(summary, e.now())
	if err := e.Cache.Write(ctx, userID, progress); err != nil {
		e.Metrics.CacheWrite("error")
		e.log.Warn("writing cached progress", "user_id", userID, "error", err)
	} else {
		e.Metrics.CacheWrite("ok")
	}
	if e.Notifier != nil {
		e.Notifier.ProgressUpdated(userID, progress)
	}
	return progress
}

// GetCachedOrCalculate serves the cached projection while it is fresher than
// CacheTTL and recalculates otherwise.
func (e *Engine) GetCachedOrCalculate(ctx context.Context, userID string) (progress CachedProgress) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("cached progress lookup panicked", "user_id", userID, "panic", r)
			progress = emptyProjection(e.now())
		}
	}()

	cached, err := e.Cache.Read(ctx, userID)
	switch {
	case err != nil:
		e.Metrics.CacheLookup("error")
		e.log.Warn("reading cached progress", "user_id", userID, "error", err)
	case cached == nil:
		e.Metrics.CacheLookup("miss")
	case cached.FreshAt(e.now(), e.CacheTTL):
		e.Metrics.CacheLookup("hit")
		return withCollections(*cached)
	default:
		e.Metrics.CacheLookup("stale")
	}
	return e.RecalculateAndCache(ctx, userID)
}

func (e *Engine) compute(ctx context.Context, userID string) (ProgressSummary, error) {
	started := time.Now()
	now := e.now()

	sessions, err := SelectUsableSessions(ctx, e.Sessions, userID)
	if err != nil {
		e.Metrics.ObserveComputation("error", time.Since(started))
		return ProgressSummary{}, fmt.Errorf("selecting sessions: %w", err)
	}
	if len(sessions) == 0 {
		e.Metrics.ObserveComputation("empty", time.Since(started))
		return emptySummary(userID, now), nil
	}

	summary := emptySummary(userID, now)
	summary.TotalSessions = len(sessions)

	var sessionScores []float64
	for _, s := range sessions {
		if hasScore(s.AverageScore) {
			sessionScores = append(sessionScores, CanonicalScore(s.AverageScore))
		}
		for _, r := range s.ExerciseResults {
			if r.TimeSpent > 0 {
				summary.TotalTimeSpent += r.TimeSpent
			}
		}
	}
	summary.OverallAverageScore = mean(sessionScores)
	summary.BestSessionScore = maxOf(sessionScores)
	summary.CurrentStreak = e.currentStreak(ctx, userID)

	summary.FocusAreasAnalytics = AggregateAreas(sessions)
	summary.RecentPerformanceTrend = BuildTrend(sessions, now, e.trendWindow())
	summary.ImprovementAreas, summary.Strengths = Classify(summary.FocusAreasAnalytics)

	e.Metrics.ObserveComputation("ok", time.Since(started))
	return summary, nil
}

// currentStreak is owned by the user record; a missing record or a failed
// lookup counts as no streak.
func (e *Engine) currentStreak(ctx context.Context, userID string) int {
	user, err := e.Users.FindUser(ctx, userID)
	if err != nil {
		e.log.Warn("finding user for streak", "user_id", userID, "error", err)
		return 0
	}
	if user == nil || user.Streak < 0 {
		return 0
	}
	return user.Streak
}

func (e *Engine) trendWindow() int {
	if e.TrendWindowDays <= 0 {
		return DefaultTrendWindowDays
	}
	return e.TrendWindowDays
}

func withCollections(p CachedProgress) CachedProgress {
	if p.ImprovementAreas == nil {
		p.ImprovementAreas = []string{}
	}
	if p.Strengths == nil {
		p.Strengths = []string{}
	}
	return p
}

package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/training"

	"github.com/google/uuid"
)

// Store keeps sessions and users in memory. It backs the server when no
// database is configured.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*analytics.TrainingSession
	users    map[string]*analytics.UserRecord
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*analytics.TrainingSession),
		users:    make(map[string]*analytics.UserRecord),
	}
}

// InsertSession stores a copy of s, assigning an id when it has none.
func (s *Store) InsertSession(ctx context.Context, session analytics.TrainingSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	cp := cloneSession(session)
	s.sessions[session.ID] = &cp
	return session.ID, nil
}

func (s *Store) UpsertUser(ctx context.Context, user analytics.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) FindSessions(ctx context.Context, q analytics.SessionQuery) ([]analytics.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]analytics.TrainingSession, 0)
	for _, session := range s.sessions {
		if session.UserID != q.UserID {
			continue
		}
		if q.UsableOnly && !session.IsUsable() {
			continue
		}
		if q.CreatedFrom != nil && session.CreatedAt.Before(*q.CreatedFrom) {
			continue
		}
		if q.CreatedTo != nil && !session.CreatedAt.Before(*q.CreatedTo) {
			continue
		}
		out = append(out, cloneSession(*session))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) FindUser(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	if u.CachedProgress != nil {
		progress := *u.CachedProgress
		cp.CachedProgress = &progress
	}
	return &cp, nil
}

func (s *Store) UpdateCachedProgress(ctx context.Context, userID string, progress analytics.CachedProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return analytics.ErrUserNotFound
	}
	u.CachedProgress = &progress
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID, userID string) (*analytics.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, analytics.ErrSessionNotFound
	}
	cp := cloneSession(*session)
	return &cp, nil
}

func (s *Store) AppendExerciseResult(ctx context.Context, sessionID string, r analytics.ExerciseResult) (*analytics.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, analytics.ErrSessionNotFound
	}
	session.ExerciseResults = append(session.ExerciseResults, r)
	cp := cloneSession(*session)
	return &cp, nil
}

func (s *Store) CompleteSession(ctx context.Context, sessionID string, c training.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return analytics.ErrSessionNotFound
	}
	completedAt := c.CompletedAt
	session.ExerciseResults = append([]analytics.ExerciseResult{}, c.Results...)
	session.AverageScore = c.AverageScore
	session.IsComplete = true
	session.CompletedAt = &completedAt
	return nil
}

func (s *Store) IncrementUserStats(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, analytics.ErrUserNotFound
	}
	u.Streak++
	u.TotalSessions++
	cp := *u
	return &cp, nil
}

func cloneSession(s analytics.TrainingSession) analytics.TrainingSession {
	s.FocusAreas = append([]string(nil), s.FocusAreas...)
	s.ExerciseResults = append([]analytics.ExerciseResult(nil), s.ExerciseResults...)
	return s
}

var (
	_ analytics.SessionStore = (*Store)(nil)
	_ analytics.UserStore    = (*Store)(nil)
	_ training.Store         = (*Store)(nil)
)

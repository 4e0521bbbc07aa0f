package analytics

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("training session not found")
	ErrUserNotFound    = errors.New("user not found")
)

// SessionQuery filters a user's training sessions. CreatedFrom is inclusive,
// CreatedTo exclusive. Results are ordered by createdAt, ascending unless
// Descending is set. Limit <= 0 means no limit.
type SessionQuery struct {
	UserID      string
	UsableOnly  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Descending  bool
	Limit       int
}

type SessionStore interface {
	FindSessions(ctx context.Context, q SessionQuery) ([]TrainingSession, error)
}

type UserStore interface {
	// FindUser returns nil, nil when the user does not exist.
	FindUser(ctx context.Context, userID string) (*UserRecord, error)
	UpdateCachedProgress(ctx context.Context, userID string, progress CachedProgress) error
}

// ProgressCache holds the projection served by GetCachedOrCalculate.
type ProgressCache interface {
	// Read returns nil, nil on a miss.
	Read(ctx context.Context, userID string) (*CachedProgress, error)
	Write(ctx context.Context, userID string, progress CachedProgress) error
}

// Notifier is told about every freshly written projection.
type Notifier interface {
	ProgressUpdated(userID string, progress CachedProgress)
}

// UserRecordCache keeps the projection on the user record itself.
type UserRecordCache struct {
	Users UserStore
}

func (c UserRecordCache) Read(ctx context.Context, userID string) (*CachedProgress, error) {
	user, err := c.Users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.CachedProgress, nil
}

func (c UserRecordCache) Write(ctx context.Context, userID string, progress CachedProgress) error {
	return c.Users.UpdateCachedProgress(ctx, userID, progress)
}

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mindbloom/internal/analytics"
)

func (d *DB) UpsertUser(ctx context.Context, u analytics.UserRecord) error {
	var progress any
	if u.CachedProgress != nil {
		b, err := json.Marshal(u.CachedProgress)
		if err != nil {
			return fmt.Errorf("encoding cached progress: %w", err)
		}
		progress = string(b)
	}
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO users (id, streak, total_sessions, cached_progress)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET streak = $2, total_sessions = $3, cached_progress = $4
	`, u.ID, u.Streak, u.TotalSessions, progress)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (d *DB) FindUser(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	var (
		u        analytics.UserRecord
		progress []byte
	)
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, streak, total_sessions, cached_progress FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Streak, &u.TotalSessions, &progress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if len(progress) > 0 {
		var cp analytics.CachedProgress
		if err := json.Unmarshal(progress, &cp); err != nil {
			return nil, fmt.Errorf("decoding cached progress: %w", err)
		}
		u.CachedProgress = &cp
	}
	return &u, nil
}

// UpdateCachedProgress replaces only the cached_progress column.
func (d *DB) UpdateCachedProgress(ctx context.Context, userID string, progress analytics.CachedProgress) error {
	b, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding cached progress: %w", err)
	}
	res, err := d.conn.ExecContext(ctx, `
		UPDATE users SET cached_progress = $2 WHERE id = $1
	`, userID, string(b))
	if err != nil {
		return fmt.Errorf("updating cached progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return analytics.ErrUserNotFound
	}
	return nil
}

func (d *DB) IncrementUserStats(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	var u analytics.UserRecord
	err := d.conn.QueryRowContext(ctx, `
		UPDATE users SET streak = streak + 1, total_sessions = total_sessions + 1
		WHERE id = $1
		RETURNING id, streak, total_sessions
	`, userID).Scan(&u.ID, &u.Streak, &u.TotalSessions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analytics.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("incrementing user stats: %w", err)
	}
	return &u, nil
}

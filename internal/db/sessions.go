package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/training"

	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, mood, focus_areas, exercises, exercise_results, average_score, is_complete, created_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (d *DB) InsertSession(ctx context.Context, s analytics.TrainingSession) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	focus, err := encodeList(s.FocusAreas)
	if err != nil {
		return "", fmt.Errorf("encoding focus areas: %w", err)
	}
	exercises, err := encodeList(s.Exercises)
	if err != nil {
		return "", fmt.Errorf("encoding exercises: %w", err)
	}
	results, err := encodeList(s.ExerciseResults)
	if err != nil {
		return "", fmt.Errorf("encoding exercise results: %w", err)
	}
	avg, err := encodeScore(s.AverageScore)
	if err != nil {
		return "", fmt.Errorf("encoding average score: %w", err)
	}

	_, err = d.conn.ExecContext(ctx, `
		INSERT INTO training_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, s.ID, s.UserID, s.Mood, focus, exercises, results, avg, s.IsComplete, s.CreatedAt, s.CompletedAt)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return s.ID, nil
}

func (d *DB) FindSessions(ctx context.Context, q analytics.SessionQuery) ([]analytics.TrainingSession, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{q.UserID}
	)
	if q.UsableOnly {
		where = append(where, "(is_complete OR jsonb_array_length(exercise_results) > 0)")
	}
	if q.CreatedFrom != nil {
		args = append(args, *q.CreatedFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.CreatedTo != nil {
		args = append(args, *q.CreatedTo)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	order := "ASC"
	if q.Descending {
		order = "DESC"
	}
	query := "SELECT " + sessionColumns + " FROM training_sessions WHERE " +
		strings.Join(where, " AND ") + " ORDER BY created_at " + order
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]analytics.TrainingSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (d *DB) GetSession(ctx context.Context, sessionID, userID string) (*analytics.TrainingSession, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1 AND user_id = $2
	`, sessionID, userID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analytics.ErrSessionNotFound
	}
	return s, err
}

func (d *DB) AppendExerciseResult(ctx context.Context, sessionID string, r analytics.ExerciseResult) (*analytics.TrainingSession, error) {
	entry, err := json.Marshal([]analytics.ExerciseResult{r})
	if err != nil {
		return nil, fmt.Errorf("encoding exercise result: %w", err)
	}
	row := d.conn.QueryRowContext(ctx, `
		UPDATE training_sessions SET exercise_results = exercise_results || $2::jsonb
		WHERE id = $1
		RETURNING `+sessionColumns, sessionID, string(entry))
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analytics.ErrSessionNotFound
	}
	return s, err
}

func (d *DB) CompleteSession(ctx context.Context, sessionID string, c training.Completion) error {
	results, err := encodeList(c.Results)
	if err != nil {
		return fmt.Errorf("encoding exercise results: %w", err)
	}
	avg, err := encodeScore(c.AverageScore)
	if err != nil {
		return fmt.Errorf("encoding average score: %w", err)
	}
	res, err := d.conn.ExecContext(ctx, `
		UPDATE training_sessions
		SET exercise_results = $2, average_score = $3, is_complete = true, completed_at = $4
		WHERE id = $1
	`, sessionID, results, avg, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("completing session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return analytics.ErrSessionNotFound
	}
	return nil
}

func scanSession(row rowScanner) (*analytics.TrainingSession, error) {
	var (
		s                         analytics.TrainingSession
		focus, exercises, results []byte
		avg                       []byte
		completedAt               sql.NullTime
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Mood, &focus, &exercises, &results, &avg, &s.IsComplete, &s.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if err := decodeJSON(focus, &s.FocusAreas); err != nil {
		return nil, fmt.Errorf("decoding focus areas of %s: %w", s.ID, err)
	}
	if err := decodeJSON(exercises, &s.Exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises of %s: %w", s.ID, err)
	}
	if err := decodeJSON(results, &s.ExerciseResults); err != nil {
		return nil, fmt.Errorf("decoding exercise results of %s: %w", s.ID, err)
	}
	if len(avg) > 0 {
		if err := decodeJSON(avg, &s.AverageScore); err != nil {
			return nil, fmt.Errorf("decoding average score of %s: %w", s.ID, err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return &s, nil
}

// decodeJSON keeps numbers as json.Number so stored scores reach the
// normalizer with their original representation.
func decodeJSON(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

// encodeList writes nil slices as an empty JSON array.
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

// encodeScore returns nil for an absent score so the column stays NULL.
func encodeScore(score any) (any, error) {
	if score == nil {
		return nil, nil
	}
	b, err := json.Marshal(score)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

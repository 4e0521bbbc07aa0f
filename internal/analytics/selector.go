package analytics

import (
	"context"
	"fmt"
	"sort"
)

// SelectUsableSessions loads the user's sessions that carry analytics signal,
// oldest first. Stores that ignore UsableOnly are filtered here as well.
func SelectUsableSessions(ctx context.Context, store SessionStore, userID string) ([]TrainingSession, error) {
	sessions, err := store.FindSessions(ctx, SessionQuery{UserID: userID, UsableOnly: true})
	if err != nil {
		return nil, fmt.Errorf("finding sessions: %w", err)
	}
	usable := make([]TrainingSession, 0, len(sessions))
	for _, s := range sessions {
		if s.IsUsable() {
			usable = append(usable, s)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].CreatedAt.Before(usable[j].CreatedAt)
	})
	return usable, nil
}

package events

import "mindbloom/internal/analytics"

type ProgressEvent struct {
	UserID   string
	Progress analytics.CachedProgress
}

type Bus struct {
	ProgressUpdates chan ProgressEvent
}

func NewBus() *Bus {
	return &Bus{
		ProgressUpdates: make(chan ProgressEvent, 64),
	}
}

// ProgressUpdated publishes without blocking the caller; the event is dropped
// when nobody is draining the bus.
func (b *Bus) ProgressUpdated(userID string, progress analytics.CachedProgress) {
	select {
	case b.ProgressUpdates <- ProgressEvent{UserID: userID, Progress: progress}:
	default:
	}
}

var _ analytics.Notifier = (*Bus)(nil)

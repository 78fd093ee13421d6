package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/necropreneur/embedding-inspector/internal/retry"
)

// Event announces a newly saved embedding file.
type Event struct {
	ID      uuid.UUID `json:"id"`
	Path    string    `json:"path"`
	SavedAt time.Time `json:"saved_at"`
}

// Notifier signals that an embedding file was written so the loaded
// set can be refreshed without restarting the process.
type Notifier interface {
	EmbeddingsSaved(ctx context.Context, path string) error
}

// NotifyWithRetry attempts to notify with retries and exponential backoff.
func NotifyWithRetry(ctx context.Context, n Notifier, path string, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := n.EmbeddingsSaved(ctx, path); err == nil {
			return nil
		} else if attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.ExponentialBackoff(attempt, base)):
		}
	}
	return nil
}

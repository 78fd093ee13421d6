package notify

import (
	"context"
	"log/slog"

	"github.com/necropreneur/embedding-inspector/internal/store"
)

// InProcess reloads the store directly: the single-binary behavior where
// a save becomes visible before the operation returns.
type InProcess struct {
	log   *slog.Logger
	store store.Store
}

func NewInProcess(log *slog.Logger, st store.Store) *InProcess {
	return &InProcess{log: log, store: st}
}

func (n *InProcess) EmbeddingsSaved(_ context.Context, path string) error {
	n.log.Info("reloading embeddings after save", "path", path)
	return n.store.Reload()
}

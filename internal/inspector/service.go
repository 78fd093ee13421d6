// Package inspector implements the embedding diagnostics operations:
// resolving names and IDs to vectors, similarity inspection against the
// vocabulary table, mixing embeddings into new ones, and listing the
// loaded set.
package inspector

import (
	"log/slog"
	"strings"
	"time"

	"github.com/necropreneur/embedding-inspector/internal/cache"
	"github.com/necropreneur/embedding-inspector/internal/model"
	"github.com/necropreneur/embedding-inspector/internal/notify"
	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/tokenizer"
)

const (
	// MaxNumMix is the number of embeddings that can be mixed.
	MaxNumMix = 6

	// MaxSimilar is the number of similar embeddings to show.
	MaxSimilar = 30
)

var sepStr = strings.Repeat("-", 80)

// Service bundles the collaborators every operation reads: tokenizer,
// vocabulary table, loaded-embeddings store, neighbor cache, and the
// save notifier.
type Service struct {
	log      *slog.Logger
	tok      tokenizer.Tokenizer
	table    *model.Table
	store    store.Store
	cache    cache.Cache
	notifier notify.Notifier
	cacheTTL time.Duration
}

func New(log *slog.Logger, tok tokenizer.Tokenizer, table *model.Table, st store.Store, c cache.Cache, n notify.Notifier, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		tok:      tok,
		table:    table,
		store:    st,
		cache:    c,
		notifier: n,
		cacheTTL: cacheTTL,
	}
}

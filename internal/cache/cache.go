package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// Cache stores computed nearest-neighbor lists. The similarity scan is a
// full pass over the vocabulary table per inspected row, so repeat
// inspections of the same vector are worth short-circuiting.
type Cache interface {
	// GetNeighbors retrieves a cached neighbor list by key.
	// Returns nil if not found.
	GetNeighbors(ctx context.Context, key string) ([]Neighbor, error)

	// SetNeighbors stores a neighbor list with TTL.
	SetNeighbors(ctx context.Context, key string, neighbors []Neighbor, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Neighbor is one vocabulary entry in a similarity ranking.
type Neighbor struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// GenerateKey derives a cache key from the table fingerprint, the row
// content, and the neighbor count. Different tables or rows never share
// keys.
func GenerateKey(fingerprint string, row vector.Vector, k int) string {
	h := fnv.New64a()
	_ = binary.Write(h, binary.LittleEndian, []float32(row))
	return fmt.Sprintf("%s:%016x:%d", fingerprint, h.Sum64(), k)
}

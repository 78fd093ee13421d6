package inspector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/necropreneur/embedding-inspector/internal/cache"
	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// Inspect resolves text to an embedding and renders its metadata, row
// values, and nearest vocabulary neighbors by cosine similarity. Rows
// whose dimension does not match the table report the mismatch and the
// remaining rows still render.
func (s *Service) Inspect(ctx context.Context, text string) (string, error) {
	res, err := s.Resolve(text)
	if err != nil {
		return "", err
	}

	var results []string
	results = append(results, fmt.Sprintf("Embedding name: %q", res.Name))
	if res.Internal() {
		results = append(results, "Embedding ID: "+res.DisplayID+" (internal)")
	} else {
		results = append(results, "Embedding ID: "+res.DisplayID+" (loaded)")
		if res.Loaded.Step != nil {
			results = append(results, fmt.Sprintf("Step: %d", *res.Loaded.Step))
		}
		if res.Loaded.SourceCheckpoint != "" {
			results = append(results, "Checkpoint: "+res.Loaded.SourceCheckpoint)
		}
	}
	results = append(results,
		fmt.Sprintf("Vector count: %d", len(res.Vectors)),
		"Vector size: "+vectorSize(res.Vectors),
		sepStr,
	)

	for v, row := range res.Vectors {
		results = append(results, fmt.Sprintf("Vector[%d] = %s", v, formatVector(row)))

		if len(row) != s.table.Dim() {
			results = append(results, ErrDimensionMismatch.Error())
			results = append(results, sepStr)
			continue
		}

		neighbors := s.neighbors(ctx, row, MaxSimilar)
		rendered := make([]string, len(neighbors))
		for i, n := range neighbors {
			rendered[i] = fmt.Sprintf("%s(%d)", n.Name, n.ID)
		}
		results = append(results,
			"",
			"Similar embeddings:",
			strings.Join(rendered, "   "),
			sepStr,
		)
	}

	return strings.Join(results, "\n"), nil
}

// neighbors ranks every vocabulary row against the given row and keeps
// the top k, ties broken by ascending ID. Results go through the cache;
// cache failures only cost the scan.
func (s *Service) neighbors(ctx context.Context, row vector.Vector, k int) []cache.Neighbor {
	if k > s.table.Rows() {
		k = s.table.Rows()
	}
	key := cache.GenerateKey(s.table.Fingerprint(), row, k)
	if cached, err := s.cache.GetNeighbors(ctx, key); err != nil {
		s.log.Warn("neighbor cache read failed", "err", err)
	} else if cached != nil {
		return cached
	}

	scored := make([]cache.Neighbor, s.table.Rows())
	for id := range scored {
		candidate, _ := s.table.Row(id)
		scored[id] = cache.Neighbor{
			ID:    id,
			Score: vector.CosineSimilarity(candidate, row),
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	top := scored[:k]
	for i := range top {
		top[i].Name = s.tok.IDToName(top[i].ID)
	}

	if err := s.cache.SetNeighbors(ctx, key, top, s.cacheTTL); err != nil {
		s.log.Warn("neighbor cache write failed", "err", err)
	}
	return top
}

// formatVector truncates the value display to the first and last three
// components. Presentation only; saved records keep full precision.
func formatVector(row vector.Vector) string {
	format := func(vals vector.Vector) string {
		parts := make([]string, len(vals))
		for i, x := range vals {
			parts[i] = fmt.Sprintf("%.4f", x)
		}
		return strings.Join(parts, ", ")
	}
	if len(row) <= 7 {
		return "[" + format(row) + "]"
	}
	return "[" + format(row[:3]) + ", ..., " + format(row[len(row)-3:]) + "]"
}

func vectorSize(rows []vector.Vector) string {
	if len(rows) == 0 {
		return "0"
	}
	dim := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != dim {
			return "mixed"
		}
	}
	return fmt.Sprintf("%d", dim)
}

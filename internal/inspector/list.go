package inspector

import (
	"fmt"
	"strings"
)

// ListLoaded renders the loaded-embeddings mapping in iteration order.
// A record with no readable vectors renders as an opaque error line; the
// listing never aborts on one bad entry.
func (s *Service) ListLoaded() string {
	records := s.store.List()

	results := []string{
		fmt.Sprintf("Loaded embeddings (%d):", len(records)),
		"",
	}

	for _, rec := range records {
		if rec == nil || len(rec.Vectors) == 0 {
			results = append(results, "!error!")
			continue
		}

		rows, dim, ragged := rec.Shape()
		shape := fmt.Sprintf("%d x %d", rows, dim)
		if ragged {
			shape = fmt.Sprintf("%d x mixed", rows)
		}

		var sb strings.Builder
		sb.WriteString(rec.Name)
		sb.WriteString("    [" + rec.Checksum() + "]")
		sb.WriteString("    Vectors: " + shape)
		if rec.SourceCheckpoint != "" {
			sb.WriteString("    Ckpt:" + rec.SourceCheckpoint)
		}
		results = append(results, sb.String())
	}

	return strings.Join(results, "\n")
}

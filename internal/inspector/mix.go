package inspector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/necropreneur/embedding-inspector/internal/notify"
	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// MixEntry is one named embedding and its weight.
type MixEntry struct {
	Name   string
	Weight float32
}

// MixSpec describes a mix request: up to MaxNumMix entries, a global
// multiplier, and the combination mode.
type MixSpec struct {
	Entries    []MixEntry
	Multiplier float32
	Concat     bool
}

// Mix combines the named embeddings. Sum mode accumulates weighted rows
// of one shared dimension, zero-padding along the row axis when entries
// disagree on row count. Concat mode appends weighted rows in input
// order with no reconciliation. Entries that fail to resolve or fit are
// logged and skipped; the mix never aborts for one bad entry.
func (s *Service) Mix(spec MixSpec) ([]vector.Vector, []string, error) {
	entries := spec.Entries
	if len(entries) > MaxNumMix {
		entries = entries[:MaxNumMix]
	}

	var lines []string
	var tot []vector.Vector
	vecSize := -1

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" || entry.Weight == 0 {
			continue
		}

		res, err := s.Resolve(name)
		if err != nil {
			lines = append(lines, fmt.Sprintf("! could not resolve %q, skipping", name))
			continue
		}
		if len(res.Vectors) == 0 {
			lines = append(lines, fmt.Sprintf("! %s(%s) has no vectors, skipping", res.Name, res.DisplayID))
			continue
		}

		label := fmt.Sprintf("%s(%s) x %s", res.Name, res.DisplayID, formatWeight(entry.Weight))

		if spec.Concat {
			tot = append(tot, vector.ScaleRows(res.Vectors, entry.Weight)...)
			lines = append(lines, "> "+label)
			continue
		}

		dim, ok := uniformDim(res.Vectors)
		if !ok {
			lines = append(lines, fmt.Sprintf("! %s(%s) has ragged rows, skipping", res.Name, res.DisplayID))
			continue
		}
		if vecSize == -1 {
			vecSize = dim
		} else if vecSize != dim {
			lines = append(lines, fmt.Sprintf("! Vector size is not compatible, skipping %s(%s)", res.Name, res.DisplayID))
			continue
		}

		if tot == nil {
			tot = []vector.Vector{vector.Zero(vecSize)}
		}
		weighted := vector.ScaleRows(res.Vectors, entry.Weight)
		if len(weighted) < len(tot) {
			weighted = vector.PadRows(weighted, len(tot), vecSize)
		} else if len(tot) < len(weighted) {
			tot = vector.PadRows(tot, len(weighted), vecSize)
		}
		for i := range tot {
			vector.Add(tot[i], weighted[i])
		}
		lines = append(lines, "+ "+label)
	}

	if tot == nil {
		return nil, lines, ErrNothingToMix
	}

	tot = vector.ScaleRows(tot, spec.Multiplier)
	if spec.Multiplier != 1.0 {
		lines = append(lines, "x global multiplier "+formatWeight(spec.Multiplier))
	}
	return tot, lines, nil
}

// Save runs the mix and persists the result under the embeddings
// directory, then signals a reload so the new file becomes visible as a
// loaded embedding. An existing target without overwrite enabled fails
// before anything is mixed or written.
func (s *Service) Save(ctx context.Context, spec MixSpec, filename string, overwrite bool, stepText string) (string, error) {
	name := store.SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: filename is empty", ErrSave)
	}

	var lines []string
	target := filepath.Join(s.store.Dir(), name+store.Extension)
	if _, err := os.Stat(target); err == nil {
		if !overwrite {
			return "", fmt.Errorf("%q: %w", target, ErrFileExists)
		}
		lines = append(lines, "File already exists, overwrite is enabled")
	}

	var step *int
	if text := strings.TrimSpace(stepText); text != "" {
		if v, err := strconv.Atoi(text); err == nil {
			step = &v
		} else {
			lines = append(lines, "Step value is invalid, ignoring")
		}
	}

	rows, mixLines, err := s.Mix(spec)
	lines = append(lines, mixLines...)
	if err != nil {
		lines = append(lines, err.Error())
		return strings.Join(lines, "\n"), err
	}

	rec := &store.Record{Name: name, Vectors: rows, Step: step}
	if step != nil {
		lines = append(lines, fmt.Sprintf("Setting step value to %d", *step))
	}

	path, err := s.store.Save(rec, name, overwrite)
	if err != nil {
		s.log.Error("failed to save mixed embedding", "target", target, "err", err)
		lines = append(lines, fmt.Sprintf("Error saving %q", target))
		return strings.Join(lines, "\n"), fmt.Errorf("%w: %v", ErrSave, err)
	}
	lines = append(lines, fmt.Sprintf("Saved %q", path))

	lines = append(lines, "Reloading all embeddings")
	if err := notify.NotifyWithRetry(ctx, s.notifier, path, 3, 200*time.Millisecond); err != nil {
		s.log.Warn("reload notification failed", "path", path, "err", err)
		lines = append(lines, "! reload notification failed, embeddings may be stale")
	}

	return strings.Join(lines, "\n"), nil
}

func uniformDim(rows []vector.Vector) (int, bool) {
	dim := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != dim {
			return 0, false
		}
	}
	return dim, true
}

func formatWeight(w float32) string {
	return strconv.FormatFloat(float64(w), 'g', -1, 32)
}

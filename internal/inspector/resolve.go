package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// Resolved is an embedding located by name or ID, with its provenance.
type Resolved struct {
	Name      string
	ID        int    // vocabulary ID; -1 for loaded embeddings
	DisplayID string // "123" for internal, "[ab12]" for loaded
	Vectors   []vector.Vector
	Loaded    *store.Record // nil for internal embeddings
}

// Internal reports whether the embedding came from the vocabulary table.
func (r Resolved) Internal() bool { return r.Loaded == nil }

// Resolve locates an embedding for the given text. Loaded embeddings
// match by exact name first; "#nnnnn" addresses a vocabulary row
// directly; anything else is tokenized and the first ID wins.
func (s *Service) Resolve(text string) (Resolved, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Resolved{}, ErrResolution
	}

	if rec, ok := s.store.Lookup(text); ok {
		return Resolved{
			Name:      rec.Name,
			ID:        -1,
			DisplayID: "[" + rec.Checksum() + "]",
			Vectors:   rec.Vectors,
			Loaded:    rec,
		}, nil
	}

	id := -1
	if rest, ok := strings.CutPrefix(text, "#"); ok {
		if v, err := strconv.Atoi(rest); err == nil && v >= 0 && v < s.table.Rows() {
			id = v
		}
	}
	if id < 0 {
		ids, err := s.tok.TokenizeToIDs(text)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: tokenize %q: %v", ErrResolution, text, err)
		}
		if len(ids) == 0 {
			return Resolved{}, fmt.Errorf("%w: %q", ErrEmptyTokenization, text)
		}
		id = ids[0]
	}

	row, err := s.table.Row(id)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %v", ErrResolution, err)
	}
	return Resolved{
		Name:      s.tok.IDToName(id),
		ID:        id,
		DisplayID: strconv.Itoa(id),
		Vectors:   []vector.Vector{row},
	}, nil
}

package store

import (
	"errors"
	"fmt"

	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// Extension is the fixed file extension for persisted embedding records.
const Extension = ".embedding"

// ErrExists is returned by Save when the target file exists and
// overwriting was not enabled.
var ErrExists = errors.New("file already exists")

// Record is a user-loaded embedding: named vector rows plus optional
// training metadata.
type Record struct {
	Name             string
	Vectors          []vector.Vector
	Step             *int
	SourceCheckpoint string
}

// Checksum is a 4-hex-digit content hash used as the record's display ID.
// The fold runs over the flattened rows scaled by 100, truncated toward
// zero, matching the IDs users see elsewhere for the same files.
func (r *Record) Checksum() string {
	var h uint32
	for _, row := range r.Vectors {
		for _, v := range row {
			h = (h * 281) ^ (uint32(int32(v*100)) * 997)
		}
	}
	return fmt.Sprintf("%04x", h&0xffff)
}

// Shape reports the row count and per-row dimension. Ragged row sets
// report the first row's dimension with ragged set.
func (r *Record) Shape() (rows, dim int, ragged bool) {
	rows = len(r.Vectors)
	if rows == 0 {
		return 0, 0, false
	}
	dim = len(r.Vectors[0])
	for _, row := range r.Vectors[1:] {
		if len(row) != dim {
			ragged = true
		}
	}
	return rows, dim, ragged
}

// Store is the loaded-embeddings mapping: lookup and iteration over
// user-loaded records, reload from disk, and persisting new records.
type Store interface {
	// Lookup returns the record for an exact name match.
	Lookup(name string) (*Record, bool)

	// List returns all records in iteration order.
	List() []*Record

	// Len returns the number of loaded records.
	Len() int

	// Reload re-scans the backing directory, replacing the in-memory set.
	Reload() error

	// Save persists a record under the sanitized filename plus Extension.
	// Returns ErrExists when the target exists and overwrite is false; an
	// existing file is left untouched on any failure.
	Save(rec *Record, filename string, overwrite bool) (string, error)

	// Dir returns the backing embeddings directory.
	Dir() string
}

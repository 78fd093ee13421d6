package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// fileRecord is the on-disk JSON shape of a persisted embedding.
type fileRecord struct {
	Name             string      `json:"name"`
	Step             *int        `json:"step,omitempty"`
	SourceCheckpoint string      `json:"sd_checkpoint_name,omitempty"`
	Vectors          [][]float32 `json:"vectors"`
}

// DirStore keeps loaded embeddings from a directory of JSON record files.
// Iteration order is the sorted directory scan order of the last reload.
type DirStore struct {
	dir string

	mu     sync.RWMutex
	names  []string
	byName map[string]*Record
}

// NewDirStore creates the directory if needed and performs an initial scan.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create embeddings dir: %w", err)
	}
	s := &DirStore{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Lookup(name string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byName[name]
	return rec, ok
}

func (s *DirStore) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}

func (s *DirStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Reload re-scans the directory. A record file that fails to parse still
// occupies its slot, with no vectors, so listings can report it instead
// of silently dropping it.
func (s *DirStore) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("scan embeddings dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		paths = append(paths, e.Name())
	}
	sort.Strings(paths)

	names := make([]string, 0, len(paths))
	byName := make(map[string]*Record, len(paths))
	for _, p := range paths {
		rec := s.readRecord(filepath.Join(s.dir, p))
		if rec.Name == "" {
			rec.Name = strings.TrimSuffix(p, Extension)
		}
		if _, dup := byName[rec.Name]; dup {
			continue
		}
		names = append(names, rec.Name)
		byName[rec.Name] = rec
	}

	s.mu.Lock()
	s.names = names
	s.byName = byName
	s.mu.Unlock()
	return nil
}

func (s *DirStore) readRecord(path string) *Record {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Record{}
	}
	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return &Record{}
	}
	rows := make([]vector.Vector, len(fr.Vectors))
	for i, row := range fr.Vectors {
		rows[i] = vector.Vector(row)
	}
	return &Record{
		Name:             fr.Name,
		Vectors:          rows,
		Step:             fr.Step,
		SourceCheckpoint: fr.SourceCheckpoint,
	}
}

// Save writes the record atomically: marshal, write to a temp file in the
// same directory, then rename over the target. An existing target is only
// replaced when overwrite is enabled, and never touched on failure.
func (s *DirStore) Save(rec *Record, filename string, overwrite bool) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	target := filepath.Join(s.dir, name+Extension)

	if _, err := os.Stat(target); err == nil {
		if !overwrite {
			return "", fmt.Errorf("%s: %w", target, ErrExists)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat %s: %w", target, err)
	}

	fr := fileRecord{
		Name:             rec.Name,
		Step:             rec.Step,
		SourceCheckpoint: rec.SourceCheckpoint,
		Vectors:          make([][]float32, len(rec.Vectors)),
	}
	for i, row := range rec.Vectors {
		fr.Vectors[i] = []float32(row)
	}
	data, err := json.MarshalIndent(fr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename into place: %w", err)
	}
	return target, nil
}

// SanitizeFilename strips any path components and characters that do not
// belong in an embedding filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, Extension)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.' || r == ' ':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "." || out == ".." {
		return ""
	}
	return out
}

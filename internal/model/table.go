// Package model holds the vocabulary token-embedding table: the model's
// own weight matrix, loaded whole so similarity scans run against memory.
package model

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"

	"github.com/necropreneur/embedding-inspector/internal/vector"
)

// magic identifies a serialized embedding table file.
var magic = []byte("EMBTBL1\n")

// Table is an immutable rows x dim matrix of token embeddings.
type Table struct {
	rows        int
	dim         int
	data        []float32
	fingerprint string
}

// New wraps raw row-major data as a table. len(data) must be rows*dim.
func New(rows, dim int, data []float32) (*Table, error) {
	if rows < 0 || dim <= 0 {
		return nil, fmt.Errorf("invalid table shape %d x %d", rows, dim)
	}
	if len(data) != rows*dim {
		return nil, fmt.Errorf("table data length %d does not match shape %d x %d", len(data), rows, dim)
	}
	t := &Table{rows: rows, dim: dim, data: data}
	t.fingerprint = computeFingerprint(rows, dim, data)
	return t, nil
}

// Load reads a table from its binary file: magic, uint32 row count,
// uint32 dimension, then rows*dim little-endian float32 values.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read decodes a table from a stream.
func Read(r io.Reader) (*Table, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read table magic: %w", err)
	}
	if !bytes.Equal(header, magic) {
		return nil, fmt.Errorf("not an embedding table file (bad magic %q)", header)
	}
	var rows, dim uint32
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, fmt.Errorf("read table row count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read table dimension: %w", err)
	}
	if dim == 0 {
		return nil, fmt.Errorf("table dimension is zero")
	}
	data := make([]float32, int(rows)*int(dim))
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("read table data: %w", err)
	}
	return New(int(rows), int(dim), data)
}

// Write encodes the table in the binary file format.
func (t *Table) Write(w io.Writer) error {
	if _, err := w.Write(magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(t.rows)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(t.dim)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, t.data)
}

// Rows returns the vocabulary size.
func (t *Table) Rows() int { return t.rows }

// Dim returns the embedding dimension.
func (t *Table) Dim() int { return t.dim }

// Row returns the embedding vector for an ID. The returned slice aliases
// the table data and must not be modified.
func (t *Table) Row(id int) (vector.Vector, error) {
	if id < 0 || id >= t.rows {
		return nil, fmt.Errorf("row %d out of range [0, %d)", id, t.rows)
	}
	return vector.Vector(t.data[id*t.dim : (id+1)*t.dim]), nil
}

// Fingerprint is a stable content hash, used for cache keys.
func (t *Table) Fingerprint() string { return t.fingerprint }

func computeFingerprint(rows, dim int, data []float32) string {
	h := fnv.New64a()
	_ = binary.Write(h, binary.LittleEndian, uint32(rows))
	_ = binary.Write(h, binary.LittleEndian, uint32(dim))
	_ = binary.Write(h, binary.LittleEndian, data)
	return fmt.Sprintf("%016x", h.Sum64())
}

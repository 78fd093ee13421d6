package model

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		dim     int
		dataLen int
		wantErr bool
	}{
		{"valid", 2, 3, 6, false},
		{"empty table", 0, 3, 0, false},
		{"zero dim", 2, 0, 0, true},
		{"negative rows", -1, 3, 0, true},
		{"data length mismatch", 2, 3, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.dim, make([]float32, tt.dataLen))
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d, len %d): err = %v, wantErr %v", tt.rows, tt.dim, tt.dataLen, err, tt.wantErr)
			}
		})
	}
}

func TestRowAccess(t *testing.T) {
	tbl, err := New(2, 3, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	row, err := tbl.Row(1)
	if err != nil {
		t.Fatalf("Row(1) failed: %v", err)
	}
	want := []float32{4, 5, 6}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("Row(1) = %v, want %v", row, want)
		}
	}

	if _, err := tbl.Row(2); err == nil {
		t.Error("expected out-of-range error for Row(2)")
	}
	if _, err := tbl.Row(-1); err == nil {
		t.Error("expected out-of-range error for Row(-1)")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	tbl, err := New(3, 2, []float32{0.5, -1, 2, 3, -4.25, 5})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tbl.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Rows() != 3 || got.Dim() != 2 {
		t.Errorf("shape = %d x %d, want 3 x 2", got.Rows(), got.Dim())
	}
	if got.Fingerprint() != tbl.Fingerprint() {
		t.Errorf("fingerprint changed across round trip: %s vs %s", got.Fingerprint(), tbl.Fingerprint())
	}
	row, err := got.Row(1)
	if err != nil {
		t.Fatal(err)
	}
	if row[0] != 2 || row[1] != 3 {
		t.Errorf("Row(1) = %v, want [2 3]", row)
	}
}

func TestLoadFromFile(t *testing.T) {
	tbl, err := New(1, 4, []float32{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "embs.tbl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := tbl.Write(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Rows() != 1 || got.Dim() != 4 {
		t.Errorf("shape = %d x %d, want 1 x 4", got.Rows(), got.Dim())
	}
}

func TestReadBadMagic(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("NOTATBL\n\x00\x00\x00\x00"))); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a, _ := New(1, 2, []float32{1, 2})
	b, _ := New(1, 2, []float32{1, 3})
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different data produced identical fingerprints")
	}
}

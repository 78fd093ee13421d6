package tokenizer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testVocab() map[string]int {
	return map[string]int{
		"a":        0,
		"b":        1,
		"c":        2,
		"a</w>":    3,
		"b</w>":    4,
		"c</w>":    5,
		"ab":       6,
		"abc</w>":  7,
		"&</w>":    8,
		"Ã©</w>":  9, // bytes of "é" through the byte encoder
		"Ã":        10,
	}
}

func testMerges() [][2]string {
	return [][2]string{
		{"a", "b"},
		{"ab", "c</w>"},
		{"Ã", "©</w>"},
	}
}

func TestCLIPTokenizeToIDs(t *testing.T) {
	tok := NewCLIP(testVocab(), testMerges())

	tests := []struct {
		name string
		text string
		want []int
	}{
		{"full merge chain", "abc", []int{7}},
		{"two words", "a b", []int{3, 4}},
		{"partial merge falls back to symbols", "ab", []int{0, 4}},
		{"lowercased before encoding", "ABC", []int{7}},
		{"whitespace cleaned", "  a \t b ", []int{3, 4}},
		{"empty input", "", nil},
		{"whitespace only", "   ", nil},
		{"multibyte word", "é", []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tok.TokenizeToIDs(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenCLIPUnescapesEntities(t *testing.T) {
	tok := NewOpenCLIP(testVocab(), testMerges())

	got, err := tok.TokenizeToIDs("&amp;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{8}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// double-escaped entities unescape fully
	got, err = tok.TokenizeToIDs("&amp;amp;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("double escape: got %v, want %v", got, want)
	}
}

func TestIDToName(t *testing.T) {
	tok := NewCLIP(testVocab(), testMerges())

	tests := []struct {
		name string
		id   int
		want string
	}{
		{"known token keeps end-of-word marker", 7, "abc</w>"},
		{"multibyte token decodes to utf8", 9, "é</w>"},
		{"invalid utf8 renders as escape", 10, `\xc3`},
		{"unknown id", 9999, UnknownName},
		{"negative id", -1, UnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.IDToName(tt.id); got != tt.want {
				t.Errorf("IDToName(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestLoadAssets(t *testing.T) {
	dir := t.TempDir()

	vocabPath := filepath.Join(dir, "vocab.json")
	if err := os.WriteFile(vocabPath, []byte(`{"a</w>": 0, "b</w>": 1, "ab": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	mergesPath := filepath.Join(dir, "merges.txt")
	merges := "#version: 0.2\n\na b\n"
	if err := os.WriteFile(mergesPath, []byte(merges), 0o644); err != nil {
		t.Fatal(err)
	}

	tok, err := LoadCLIP(vocabPath, mergesPath)
	if err != nil {
		t.Fatalf("LoadCLIP failed: %v", err)
	}
	ids, err := tok.TokenizeToIDs("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{0}) {
		t.Errorf("got %v, want [0]", ids)
	}
}

func TestLoadMergesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merges.txt")
	if err := os.WriteFile(path, []byte("justoneword\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMerges(path); err == nil {
		t.Error("expected error for malformed merge line")
	}
}

func TestLoadVocabMissingFile(t *testing.T) {
	if _, err := LoadVocab(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing vocab file")
	}
}

package tokenizer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadVocab reads a token→ID vocabulary from a JSON file.
func LoadVocab(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	var vocab map[string]int
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("parse vocab %s: %w", path, err)
	}
	return vocab, nil
}

// LoadMerges reads a BPE merge list, one "left right" pair per line.
// Header lines starting with '#' and blank lines are skipped.
func LoadMerges(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read merges: %w", err)
	}
	defer f.Close()

	var merges [][2]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed merge line in %s: %q", path, line)
		}
		merges = append(merges, [2]string{parts[0], parts[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan merges: %w", err)
	}
	return merges, nil
}

// LoadCLIP builds the SD1.x tokenizer from vocab and merges files.
func LoadCLIP(vocabPath, mergesPath string) (*CLIP, error) {
	vocab, merges, err := loadAssets(vocabPath, mergesPath)
	if err != nil {
		return nil, err
	}
	return NewCLIP(vocab, merges), nil
}

// LoadOpenCLIP builds the SD2.x tokenizer from vocab and merges files.
func LoadOpenCLIP(vocabPath, mergesPath string) (*OpenCLIP, error) {
	vocab, merges, err := loadAssets(vocabPath, mergesPath)
	if err != nil {
		return nil, err
	}
	return NewOpenCLIP(vocab, merges), nil
}

func loadAssets(vocabPath, mergesPath string) (map[string]int, [][2]string, error) {
	vocab, err := LoadVocab(vocabPath)
	if err != nil {
		return nil, nil, err
	}
	merges, err := LoadMerges(mergesPath)
	if err != nil {
		return nil, nil, err
	}
	return vocab, merges, nil
}

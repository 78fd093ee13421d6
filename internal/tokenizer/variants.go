package tokenizer

import (
	"html"
	"strings"
)

// CLIP is the SD1.x tokenizer: lowercasing byte-level BPE with </w>
// end-of-word markers.
type CLIP struct {
	e *engine
}

// NewCLIP builds a CLIP tokenizer from a parsed vocabulary and merge list.
func NewCLIP(vocab map[string]int, merges [][2]string) *CLIP {
	return &CLIP{e: newEngine(vocab, merges)}
}

func (t *CLIP) TokenizeToIDs(text string) ([]int, error) {
	return t.e.encode(strings.ToLower(cleanWhitespace(text))), nil
}

func (t *CLIP) IDToName(id int) string {
	return t.e.idToName(id)
}

// OpenCLIP is the SD2.x tokenizer: the same BPE engine with open_clip's
// HTML entity unescaping applied before encoding.
type OpenCLIP struct {
	e *engine
}

// NewOpenCLIP builds an OpenCLIP tokenizer from a parsed vocabulary and
// merge list.
func NewOpenCLIP(vocab map[string]int, merges [][2]string) *OpenCLIP {
	return &OpenCLIP{e: newEngine(vocab, merges)}
}

func (t *OpenCLIP) TokenizeToIDs(text string) ([]int, error) {
	cleaned := html.UnescapeString(html.UnescapeString(text))
	return t.e.encode(strings.ToLower(cleanWhitespace(cleaned))), nil
}

func (t *OpenCLIP) IDToName(id int) string {
	return t.e.idToName(id)
}

package tokenizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// tokenPattern matches the word groups the CLIP tokenizers operate on.
// Input is lowercased before matching, so no case-insensitive flag.
var tokenPattern = regexp.MustCompile(`<\|startoftext\|>|<\|endoftext\|>|'s|'t|'re|'ve|'m|'ll|'d|[\p{L}]+|[\p{N}]|[^\s\p{L}\p{N}]+`)

var whitespacePattern = regexp.MustCompile(`\s+`)

type mergePair struct {
	left, right string
}

// engine is a byte-level BPE encoder/decoder shared by both variants.
type engine struct {
	encoder     map[string]int
	decoder     map[int]string
	ranks       map[mergePair]int
	byteEncoder [256]rune
	byteDecoder map[rune]byte
}

func newEngine(vocab map[string]int, merges [][2]string) *engine {
	e := &engine{
		encoder:     vocab,
		decoder:     make(map[int]string, len(vocab)),
		ranks:       make(map[mergePair]int, len(merges)),
		byteDecoder: make(map[rune]byte, 256),
	}
	for tok, id := range vocab {
		e.decoder[id] = tok
	}
	for i, m := range merges {
		e.ranks[mergePair{m[0], m[1]}] = i
	}
	n := 0
	for b := 0; b < 256; b++ {
		if (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF) {
			e.byteEncoder[b] = rune(b)
		} else {
			e.byteEncoder[b] = rune(256 + n)
			n++
		}
	}
	for b, r := range e.byteEncoder {
		e.byteDecoder[r] = byte(b)
	}
	return e
}

func (e *engine) encode(text string) []int {
	var ids []int
	for _, word := range tokenPattern.FindAllString(text, -1) {
		for _, sym := range e.bpe(word) {
			if id, ok := e.encoder[sym]; ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// bpe maps a word through the byte encoder and repeatedly merges the
// lowest-ranked adjacent symbol pair until no merge applies. The last
// symbol carries the end-of-word marker.
func (e *engine) bpe(word string) []string {
	var symbols []string
	for _, b := range []byte(word) {
		symbols = append(symbols, string(e.byteEncoder[b]))
	}
	if len(symbols) == 0 {
		return nil
	}
	symbols[len(symbols)-1] += "</w>"

	for len(symbols) > 1 {
		best := -1
		bestRank := 0
		for i := 0; i < len(symbols)-1; i++ {
			rank, ok := e.ranks[mergePair{symbols[i], symbols[i+1]}]
			if ok && (best == -1 || rank < bestRank) {
				best = i
				bestRank = rank
			}
		}
		if best == -1 {
			break
		}
		merged := symbols[best] + symbols[best+1]
		pair := mergePair{symbols[best], symbols[best+1]}

		out := symbols[:0:0]
		for i := 0; i < len(symbols); {
			if i < len(symbols)-1 && symbols[i] == pair.left && symbols[i+1] == pair.right {
				out = append(out, merged)
				i += 2
			} else {
				out = append(out, symbols[i])
				i++
			}
		}
		symbols = out
	}
	return symbols
}

func (e *engine) idToName(id int) string {
	tok, ok := e.decoder[id]
	if !ok {
		return UnknownName
	}
	buf := make([]byte, 0, len(tok))
	for _, r := range tok {
		b, ok := e.byteDecoder[r]
		if !ok {
			return UnknownName
		}
		buf = append(buf, b)
	}
	return decodeLossy(buf)
}

// decodeLossy decodes UTF-8, rendering invalid bytes as \xNN escapes so
// partial multi-byte tokens still have a printable name.
func decodeLossy(buf []byte) string {
	var sb strings.Builder
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, `\x%02x`, buf[0])
		} else {
			sb.WriteRune(r)
		}
		buf = buf[size:]
	}
	return sb.String()
}

func cleanWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

package inspector

import (
	"fmt"
	"strconv"
	"strings"
)

// MiniResult is the outcome of a mini-tokenizer run: the raw IDs, their
// "#nnnnn" rendering, and the possibly updated mixer slots.
type MiniResult struct {
	IDs    []int
	Tokens string
	Slots  []string
	Concat bool
}

// MiniTokenize tokenizes a short prompt into vocabulary IDs. With
// sendToMix the first MaxNumMix IDs replace the mixer name slots, any
// remaining slots are cleared, and concat mode is forced on. Without it
// the slots pass through untouched.
func (s *Service) MiniTokenize(input string, sendToMix bool, slots []string, concat bool) (MiniResult, error) {
	out := make([]string, MaxNumMix)
	copy(out, slots)

	ids, err := s.tok.TokenizeToIDs(strings.TrimSpace(input))
	if err != nil {
		return MiniResult{}, fmt.Errorf("%w: tokenize %q: %v", ErrResolution, input, err)
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		idStr := "#" + strconv.Itoa(id)
		parts[i] = idStr
		if sendToMix && i < MaxNumMix {
			out[i] = idStr
		}
	}

	if sendToMix {
		concat = true
		for i := len(ids); i < MaxNumMix; i++ {
			out[i] = ""
		}
	}

	return MiniResult{
		IDs:    ids,
		Tokens: strings.Join(parts, " "),
		Slots:  out,
		Concat: concat,
	}, nil
}

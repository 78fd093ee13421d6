package tokenizer

// UnknownName is returned for IDs outside the vocabulary.
const UnknownName = "!Unknown ID!"

// Tokenizer converts text to vocabulary IDs and IDs back to display names.
// Two model variants implement this contract; selection happens at
// configuration time.
type Tokenizer interface {
	// TokenizeToIDs encodes text into vocabulary IDs, no special tokens.
	TokenizeToIDs(text string) ([]int, error)

	// IDToName resolves an ID to its display name through the byte-decode
	// table. Unknown IDs return UnknownName rather than an error.
	IDToName(id int) string
}

package inspector

import "errors"

// Operation failures surface as one of these sentinels; callers render
// them as report text rather than propagating process-level faults.
var (
	// ErrResolution means the input text matched no loaded embedding,
	// vocabulary ID, or tokenizable word.
	ErrResolution = errors.New("need embedding name or embedding ID as #nnnnn")

	// ErrEmptyTokenization means the tokenizer produced no IDs.
	ErrEmptyTokenization = errors.New("text produced no tokens")

	// ErrDimensionMismatch marks a row incompatible with the current
	// model's embedding width. Reported per row, never fatal to a call.
	ErrDimensionMismatch = errors.New("vector size is not compatible with current model")

	// ErrNothingToMix means no mixer entry contributed a vector.
	ErrNothingToMix = errors.New("no embeddings were mixed, nothing to save")

	// ErrFileExists means the save target exists and overwrite is off.
	ErrFileExists = errors.New("file already exists, overwrite not enabled, aborting save")

	// ErrSave wraps I/O failures while writing an embedding record.
	ErrSave = errors.New("error saving embedding")
)

package tagboost

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the embedding model file does not exist.
	ErrModelNotFound = errors.New("tagboost: model file not found")

	// ErrInvalidModel indicates the model file exists but is malformed.
	ErrInvalidModel = errors.New("tagboost: invalid model format")

	// ErrTokenizerFailed indicates tokenizer initialization failed.
	ErrTokenizerFailed = errors.New("tagboost: tokenizer initialization failed")

	// ErrUnknownStrategy indicates a boost strategy name that is not registered.
	ErrUnknownStrategy = errors.New("tagboost: unknown boost strategy")
)

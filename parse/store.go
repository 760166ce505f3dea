package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotParsed reports a caption with no stored parse.
var ErrNotParsed = errors.New("parse: caption not in store")

// Store serves dependency parses precomputed by an external parser and
// exported as a JSON object keyed by caption text. It implements Parser.
type Store struct {
	sentences map[string]Sentence
}

// LoadStore reads a parse export file.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parse store: %w", err)
	}

	var sentences map[string]Sentence
	if err := json.Unmarshal(data, &sentences); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	return &Store{sentences: sentences}, nil
}

// Parse returns the stored parse for caption, or ErrNotParsed.
func (s *Store) Parse(_ context.Context, caption string) (Sentence, error) {
	sent, ok := s.sentences[caption]
	if !ok {
		return Sentence{}, fmt.Errorf("%w: %q", ErrNotParsed, caption)
	}
	return sent, nil
}

// Len reports the number of stored parses.
func (s *Store) Len() int { return len(s.sentences) }

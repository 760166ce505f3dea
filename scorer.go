package tagboost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"tagboost/emb"
)

// Embedder produces a fixed-length semantic vector for a string.
// emb.Encoder is the ONNX-backed implementation.
type Embedder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// Scorer computes semantic similarity between texts, memoizing embeddings.
//
// The cache is keyed by exact string equality; callers are responsible for
// consistent casing. Entries are never evicted, so memory grows with the
// number of distinct strings seen over the Scorer's lifetime.
type Scorer struct {
	embedder Embedder
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string][]float32
}

// New creates a Scorer backed by an ONNX sentence-embedding model.
func New(modelPath, tokenizerPath string, opts ...Option) (*Scorer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}
	if _, err := os.Stat(tokenizerPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTokenizerFailed, tokenizerPath)
		}
		return nil, fmt.Errorf("checking tokenizer file: %w", err)
	}

	encoder, err := emb.NewEncoder(modelPath, tokenizerPath, emb.WithPoolSize(cfg.poolSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	cfg.logger.Debug("scorer initialized", "model", modelPath, "pool_size", cfg.poolSize)
	return NewScorer(encoder, opts...), nil
}

// NewScorer creates a Scorer backed by the given embedder.
func NewScorer(embedder Embedder, opts ...Option) *Scorer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Scorer{
		embedder: embedder,
		logger:   cfg.logger,
		cache:    make(map[string][]float32),
	}
}

// Embedding returns the embedding for text, computing and caching it on
// first use.
func (s *Scorer) Embedding(ctx context.Context, text string) ([]float32, error) {
	s.mu.RLock()
	vec, ok := s.cache[text]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := s.embedder.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding %q: %w", text, err)
	}

	s.mu.Lock()
	// Another goroutine may have populated the entry meanwhile; keep the
	// first vector so repeated lookups stay stable.
	if existing, ok := s.cache[text]; ok {
		vec = existing
	} else {
		s.cache[text] = vec
	}
	s.mu.Unlock()

	return vec, nil
}

// Similarity computes the cosine similarity of the two texts' embeddings.
// The result lies in [-1, 1].
func (s *Scorer) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	emb1, err := s.Embedding(ctx, text1)
	if err != nil {
		return 0, err
	}
	emb2, err := s.Embedding(ctx, text2)
	if err != nil {
		return 0, err
	}
	return cosine(emb1, emb2), nil
}

// Close releases the underlying embedder.
func (s *Scorer) Close() error {
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// CacheSize returns the number of distinct strings embedded so far.
func (s *Scorer) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

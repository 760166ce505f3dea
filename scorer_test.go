package tagboost

import (
	"context"
	"errors"
	"math"
	"testing"
)

// stubEmbedder returns canned vectors and counts Encode calls.
type stubEmbedder struct {
	vecs  map[string][]float32
	calls int
}

func (s *stubEmbedder) Encode(_ context.Context, text string) ([]float32, error) {
	s.calls++
	vec, ok := s.vecs[text]
	if !ok {
		return nil, errors.New("no vector for " + text)
	}
	return vec, nil
}

func (s *stubEmbedder) Close() error { return nil }

func TestScorerCachesEmbeddings(t *testing.T) {
	emb := &stubEmbedder{vecs: map[string][]float32{
		"speech": {1, 0},
	}}
	scorer := NewScorer(emb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := scorer.Embedding(ctx, "speech"); err != nil {
			t.Fatalf("Embedding() failed: %v", err)
		}
	}

	if emb.calls != 1 {
		t.Errorf("Encode called %d times, want 1", emb.calls)
	}
	if got := scorer.CacheSize(); got != 1 {
		t.Errorf("CacheSize() = %d, want 1", got)
	}
}

func TestScorerExactKeying(t *testing.T) {
	// No case folding: "Speech" and "speech" are distinct cache entries.
	emb := &stubEmbedder{vecs: map[string][]float32{
		"Speech": {1, 0},
		"speech": {0, 1},
	}}
	scorer := NewScorer(emb)
	ctx := context.Background()

	if _, err := scorer.Embedding(ctx, "Speech"); err != nil {
		t.Fatalf("Embedding() failed: %v", err)
	}
	if _, err := scorer.Embedding(ctx, "speech"); err != nil {
		t.Fatalf("Embedding() failed: %v", err)
	}

	if emb.calls != 2 {
		t.Errorf("Encode called %d times, want 2", emb.calls)
	}
	if got := scorer.CacheSize(); got != 2 {
		t.Errorf("CacheSize() = %d, want 2", got)
	}
}

func TestSimilarity(t *testing.T) {
	emb := &stubEmbedder{vecs: map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},
		"c": {0, 1},
		"d": {-1, 0},
	}}
	scorer := NewScorer(emb)
	ctx := context.Background()

	tests := []struct {
		name   string
		t1, t2 string
		want   float64
	}{
		{"identical direction", "a", "b", 1},
		{"orthogonal", "a", "c", 0},
		{"opposite", "a", "d", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.Similarity(ctx, tt.t1, tt.t2)
			if err != nil {
				t.Fatalf("Similarity() failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.t1, tt.t2, got, tt.want)
			}
		})
	}
}

func TestSimilarityPropagatesEmbedderError(t *testing.T) {
	emb := &stubEmbedder{vecs: map[string][]float32{"a": {1}}}
	scorer := NewScorer(emb)

	if _, err := scorer.Similarity(context.Background(), "a", "missing"); err == nil {
		t.Error("expected error for unknown text")
	}
}

func TestCosineZeroVector(t *testing.T) {
	if got := cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("cosine(zero, unit) = %v, want 0", got)
	}
}

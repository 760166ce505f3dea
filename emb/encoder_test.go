package emb

import (
	"context"
	"math"
	"os"
	"testing"
)

const (
	testModelPath     = "testdata/model.onnx"
	testTokenizerPath = "testdata/tokenizer.json"
)

// skipIfNoModel skips the test when the ONNX model files are not available.
func skipIfNoModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: ONNX model not available at %s", testModelPath)
	}
	if _, err := os.Stat(testTokenizerPath); err != nil {
		t.Skipf("Skipping: tokenizer not available at %s", testTokenizerPath)
	}
}

func TestEncoderEncode(t *testing.T) {
	skipIfNoModel(t)

	enc, err := NewEncoder(testModelPath, testTokenizerPath)
	if err != nil {
		t.Fatalf("NewEncoder() failed: %v", err)
	}
	defer func() { _ = enc.Close() }()

	vec, err := enc.Encode(context.Background(), "a man is speaking")
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(vec) == 0 {
		t.Fatal("expected non-empty embedding")
	}

	// Embeddings are L2-normalized.
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-3 {
		t.Errorf("squared norm = %v, want 1.0", sum)
	}
}

func TestEncoderBatch(t *testing.T) {
	skipIfNoModel(t)

	enc, err := NewEncoder(testModelPath, testTokenizerPath, WithPoolSize(2))
	if err != nil {
		t.Fatalf("NewEncoder() failed: %v", err)
	}
	defer func() { _ = enc.Close() }()

	vecs, err := enc.EncodeBatch(context.Background(), []string{"speech", "music"})
	if err != nil {
		t.Fatalf("EncodeBatch() failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	if len(vecs[0]) != len(vecs[1]) {
		t.Errorf("dimension mismatch: %d vs %d", len(vecs[0]), len(vecs[1]))
	}
}

func TestEncoderMissingModel(t *testing.T) {
	if _, err := NewEncoder("testdata/missing.onnx", "testdata/missing.json"); err == nil {
		t.Error("expected error for missing files")
	}
}

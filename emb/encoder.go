package emb

import (
	"context"
	"fmt"
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	// defaultMaxSeqLen matches the sequence limit of MiniLM-class
	// sentence-embedding models.
	defaultMaxSeqLen = 256

	// defaultPoolSize keeps one session; the evaluation pipeline is
	// sequential unless the sweep is configured with workers.
	defaultPoolSize = 1
)

// Option configures an Encoder.
type Option func(*config)

type config struct {
	maxSeqLen int
	poolSize  int
}

func defaultEncoderConfig() config {
	return config{
		maxSeqLen: defaultMaxSeqLen,
		poolSize:  defaultPoolSize,
	}
}

// WithMaxSeqLen sets the token truncation limit (default: 256).
func WithMaxSeqLen(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSeqLen = n
		}
	}
}

// WithPoolSize sets the ONNX session pool size (default: 1).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// Encoder embeds text with a MiniLM-class ONNX model: WordPiece tokenize,
// run the transformer, mean-pool over attended tokens, L2-normalize.
// Safe for concurrent use; sessions are pooled.
type Encoder struct {
	tk        *tokenizer.Tokenizer
	pool      *pool
	maxSeqLen int
}

// NewEncoder loads the tokenizer (a HuggingFace tokenizer.json) and creates
// the session pool for the ONNX model.
func NewEncoder(modelPath, tokenizerPath string, opts ...Option) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tk, err := pretrained.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer: %w", err)
	}

	p, err := newPool(modelPath, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating session pool: %w", err)
	}

	return &Encoder{
		tk:        tk,
		pool:      p,
		maxSeqLen: cfg.maxSeqLen,
	}, nil
}

// Encode returns the unit-length embedding vector for text.
func (e *Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	enc, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenizing %q: %w", text, err)
	}

	n := len(enc.Ids)
	if n == 0 {
		return nil, fmt.Errorf("no tokens produced for %q", text)
	}
	if n > e.maxSeqLen {
		n = e.maxSeqLen
	}

	inputIDs := make([]int64, n)
	attentionMask := make([]int64, n)
	typeIDs := make([]int64, n)
	for i := 0; i < n; i++ {
		inputIDs[i] = int64(enc.Ids[i])
		attentionMask[i] = int64(enc.AttentionMask[i])
		typeIDs[i] = int64(enc.TypeIds[i])
	}

	var pooled []float32
	err = e.pool.withSession(ctx, func(s *Session) error {
		var inferErr error
		pooled, inferErr = s.Infer(ctx, inputIDs, attentionMask, typeIDs)
		return inferErr
	})
	if err != nil {
		return nil, err
	}

	normalize(pooled)
	return pooled, nil
}

// EncodeBatch embeds a slice of strings sequentially.
func (e *Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Encode(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Close releases the session pool.
func (e *Encoder) Close() error {
	if e.pool != nil {
		return e.pool.Close()
	}
	return nil
}

// normalize scales vec to unit length in place. A zero vector stays zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

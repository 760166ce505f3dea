package tagboost

import "log/slog"

// Option configures a Scorer.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	poolSize int
}

func defaultConfig() config {
	return config{
		logger:   slog.Default(),
		poolSize: 1,
	}
}

// WithPoolSize sets the ONNX session pool size used by New (default: 1).
// Size it to the sweep worker count when evaluating grid points in parallel.
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

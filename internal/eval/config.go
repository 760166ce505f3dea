package eval

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// SweepConfig describes the parameter grid and how to run it.
type SweepConfig struct {
	// Strategy selects the boost formula: "ratio" or "maxsim".
	Strategy string `toml:"strategy"`

	// Alphas are the text/audio interpolation weights (ratio strategy).
	Alphas []float64 `toml:"alphas"`

	// ConfThresholds select boosted tags at or above the threshold.
	ConfThresholds []float64 `toml:"confidence_thresholds"`

	// SimThresholds gate phrase-tag matches (ratio strategy).
	SimThresholds []float64 `toml:"similarity_thresholds"`

	// Weights scale the best-similarity bonus (maxsim strategy).
	Weights []float64 `toml:"weights"`

	// CaptionCategory picks the caption list: audio, visual, audio_visual
	// or generated.
	CaptionCategory string `toml:"caption_category"`

	// Workers evaluates grid points in parallel when > 1.
	Workers int `toml:"workers"`
}

// DefaultSweepConfig returns the standard grid.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Strategy:        "ratio",
		Alphas:          []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9},
		ConfThresholds:  []float64{0.3, 0.5},
		SimThresholds:   []float64{0.3, 0.5},
		Weights:         []float64{0.3, 0.5},
		CaptionCategory: "audio",
		Workers:         1,
	}
}

// LoadSweepConfig reads a TOML sweep configuration; absent keys keep their
// defaults.
func LoadSweepConfig(path string) (SweepConfig, error) {
	cfg := DefaultSweepConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read sweep config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse sweep config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects grids that cannot run.
func (c SweepConfig) Validate() error {
	switch c.Strategy {
	case "ratio":
		if len(c.Alphas) == 0 || len(c.SimThresholds) == 0 {
			return fmt.Errorf("ratio sweep needs alphas and similarity_thresholds")
		}
	case "maxsim":
		if len(c.Weights) == 0 {
			return fmt.Errorf("maxsim sweep needs weights")
		}
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}

	if len(c.ConfThresholds) == 0 {
		return fmt.Errorf("sweep needs confidence_thresholds")
	}
	if _, err := (CaptionSet{}).Category(c.CaptionCategory); err != nil {
		return err
	}
	return nil
}

// Params is one grid point. Alpha and SimThreshold drive the ratio strategy,
// Weight drives maxsim; unused fields stay zero.
type Params struct {
	Alpha         float64
	ConfThreshold float64
	SimThreshold  float64
	Weight        float64
}

// GridPoints expands the configured value lists into the Cartesian product
// for the selected strategy, in deterministic order.
func (c SweepConfig) GridPoints() []Params {
	var points []Params

	switch c.Strategy {
	case "maxsim":
		for _, w := range c.Weights {
			for _, conf := range c.ConfThresholds {
				points = append(points, Params{Weight: w, ConfThreshold: conf})
			}
		}
	default:
		for _, alpha := range c.Alphas {
			for _, conf := range c.ConfThresholds {
				for _, sim := range c.SimThresholds {
					points = append(points, Params{Alpha: alpha, ConfThreshold: conf, SimThreshold: sim})
				}
			}
		}
	}

	return points
}

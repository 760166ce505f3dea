package tagboost

import (
	"context"
	"fmt"
)

// AudioTag is one (label, confidence) prediction from the audio tagger.
// Confidence lies in [0, 1]. Labels are unique within a clip.
type AudioTag struct {
	Label      string
	Confidence float64
}

// BoostResult holds the outcome of boosting one tag.
type BoostResult struct {
	Tag        string
	Original   float64
	Boosted    float64
	MatchCount int
	MatchRatio float64
}

// Strategy combines a tag's audio confidence with caption evidence into a
// boosted confidence. Strategies rescale confidences only; no tag is ever
// dropped.
type Strategy interface {
	// Name identifies the strategy in configuration and output.
	Name() string

	// Boost scores every tag against the clip's caption phrases.
	// Results preserve the input tag order.
	Boost(ctx context.Context, scorer *Scorer, tags []AudioTag, phrases []string, numCaptions int) ([]BoostResult, error)
}

// RatioStrategy interpolates between the phrase match ratio and the original
// audio confidence: boosted = min(1, alpha*ratio + (1-alpha)*original).
//
// Alpha = 0 ignores text entirely; alpha = 1 ignores the audio confidence.
// A phrase matches a tag when their similarity strictly exceeds
// SimilarityThreshold.
type RatioStrategy struct {
	Alpha               float64
	SimilarityThreshold float64
}

// Name implements Strategy.
func (r RatioStrategy) Name() string { return "ratio" }

// Boost implements Strategy.
func (r RatioStrategy) Boost(ctx context.Context, scorer *Scorer, tags []AudioTag, phrases []string, numCaptions int) ([]BoostResult, error) {
	results := make([]BoostResult, 0, len(tags))

	for _, tag := range tags {
		matchCount := 0
		for _, phrase := range phrases {
			sim, err := scorer.Similarity(ctx, phrase, tag.Label)
			if err != nil {
				return nil, fmt.Errorf("scoring %q against %q: %w", phrase, tag.Label, err)
			}
			if sim > r.SimilarityThreshold {
				matchCount++
			}
		}

		ratio := 0.0
		if numCaptions > 0 {
			ratio = float64(matchCount) / float64(numCaptions)
			if ratio > 1 {
				ratio = 1
			}
		}

		boosted := r.Alpha*ratio + (1-r.Alpha)*tag.Confidence
		if boosted > 1 {
			boosted = 1
		}

		results = append(results, BoostResult{
			Tag:        tag.Label,
			Original:   tag.Confidence,
			Boosted:    boosted,
			MatchCount: matchCount,
			MatchRatio: ratio,
		})
	}

	return results, nil
}

// maxSimGate is the fixed similarity a phrase must exceed before
// MaxSimilarityStrategy applies any bonus.
const maxSimGate = 0.5

// MaxSimilarityStrategy adds a bonus scaled from the single best phrase
// similarity: boosted = min(1, original + maxSim*Weight) when maxSim exceeds
// the 0.5 gate, else the original confidence unchanged.
type MaxSimilarityStrategy struct {
	Weight float64
}

// Name implements Strategy.
func (m MaxSimilarityStrategy) Name() string { return "maxsim" }

// Boost implements Strategy.
func (m MaxSimilarityStrategy) Boost(ctx context.Context, scorer *Scorer, tags []AudioTag, phrases []string, numCaptions int) ([]BoostResult, error) {
	results := make([]BoostResult, 0, len(tags))

	for _, tag := range tags {
		maxSim := 0.0
		matchCount := 0
		for _, phrase := range phrases {
			sim, err := scorer.Similarity(ctx, phrase, tag.Label)
			if err != nil {
				return nil, fmt.Errorf("scoring %q against %q: %w", phrase, tag.Label, err)
			}
			if sim > maxSim {
				maxSim = sim
			}
			if sim > maxSimGate {
				matchCount++
			}
		}

		boosted := tag.Confidence
		if maxSim > maxSimGate {
			boosted += maxSim * m.Weight
			if boosted > 1 {
				boosted = 1
			}
		}

		ratio := 0.0
		if numCaptions > 0 {
			ratio = float64(matchCount) / float64(numCaptions)
			if ratio > 1 {
				ratio = 1
			}
		}

		results = append(results, BoostResult{
			Tag:        tag.Label,
			Original:   tag.Confidence,
			Boosted:    boosted,
			MatchCount: matchCount,
			MatchRatio: ratio,
		})
	}

	return results, nil
}

// StrategyByName returns the named strategy configured with the given
// parameters. Ratio uses alpha and simThreshold; maxsim uses weight.
func StrategyByName(name string, alpha, simThreshold, weight float64) (Strategy, error) {
	switch name {
	case "ratio":
		return RatioStrategy{Alpha: alpha, SimilarityThreshold: simThreshold}, nil
	case "maxsim":
		return MaxSimilarityStrategy{Weight: weight}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Package tagboost rescales audio-event tag confidences using textual
// evidence extracted from captions of the same clip.
//
// # Quick Start
//
//	enc, err := emb.NewEncoder("model.onnx", "tokenizer.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer enc.Close()
//
//	scorer := tagboost.NewScorer(enc)
//	strategy := tagboost.RatioStrategy{Alpha: 0.5, SimilarityThreshold: 0.5}
//
//	results, err := strategy.Boost(ctx, scorer, tags, phrases, len(captions))
//
// # Boost Strategies
//
// Two strategies are provided. RatioStrategy interpolates between the
// fraction of caption phrases that semantically match a tag and the tag's
// original audio confidence. MaxSimilarityStrategy adds a bonus proportional
// to the single best phrase similarity. They are not interchangeable; sweeps
// select one by name.
//
// # Thread Safety
//
// Scorer is safe for concurrent use. Its embedding cache is guarded, so a
// parameter sweep may evaluate grid points in parallel against one Scorer.
package tagboost

package eval

import (
	"context"
	"fmt"
	"sync"

	"tagboost"
)

// Record holds the aggregate metrics for one grid point, averaged over all
// scored clips.
type Record struct {
	Params
	Precision float64
	Recall    float64
	F1        float64
	Clips     int
}

// ClipEval is the outcome of evaluating one clip at one grid point.
type ClipEval struct {
	Metrics
	Selected []string
	Boosted  []tagboost.BoostResult
}

// EvaluateClip boosts the clip's tags with the given strategy, selects those
// at or above confThreshold, and scores the selection against ground truth.
func EvaluateClip(ctx context.Context, scorer *tagboost.Scorer, strategy tagboost.Strategy, clip Clip, confThreshold float64) (ClipEval, error) {
	boosted, err := strategy.Boost(ctx, scorer, clip.Tags, clip.Phrases, len(clip.Captions))
	if err != nil {
		return ClipEval{}, fmt.Errorf("boosting clip %s: %w", clip.ID, err)
	}

	var selected []string
	for _, r := range boosted {
		if r.Boosted >= confThreshold {
			selected = append(selected, r.Tag)
		}
	}

	return ClipEval{
		Metrics:  Score(selected, clip.GroundTruth),
		Selected: selected,
		Boosted:  boosted,
	}, nil
}

// evaluatePoint computes the clip-mean metrics for one grid point.
func evaluatePoint(ctx context.Context, scorer *tagboost.Scorer, cfg SweepConfig, clips []Clip, p Params) (Record, error) {
	strategy, err := tagboost.StrategyByName(cfg.Strategy, p.Alpha, p.SimThreshold, p.Weight)
	if err != nil {
		return Record{}, err
	}

	rec := Record{Params: p}
	var sumP, sumR, sumF float64

	for _, clip := range clips {
		ce, err := EvaluateClip(ctx, scorer, strategy, clip, p.ConfThreshold)
		if err != nil {
			return Record{}, err
		}
		sumP += ce.Precision
		sumR += ce.Recall
		sumF += ce.F1
		rec.Clips++
	}

	if rec.Clips > 0 {
		n := float64(rec.Clips)
		rec.Precision = sumP / n
		rec.Recall = sumR / n
		rec.F1 = sumF / n
	}
	return rec, nil
}

// Sweep evaluates every grid point over the clips and returns one Record per
// point, in grid order. With cfg.Workers > 1 the points run in parallel; the
// scorer's cache makes that safe.
func Sweep(ctx context.Context, scorer *tagboost.Scorer, clips []Clip, cfg SweepConfig) ([]Record, error) {
	points := cfg.GridPoints()
	records := make([]Record, len(points))

	workers := cfg.Workers
	if workers <= 1 {
		for i, p := range points {
			rec, err := evaluatePoint(ctx, scorer, cfg, clips, p)
			if err != nil {
				return nil, err
			}
			records[i] = rec
		}
		return records, nil
	}

	type job struct {
		idx    int
		params Params
	}

	// Buffer every job up front so workers that stop on error never leave
	// the producer blocked.
	jobs := make(chan job, len(points))
	for i, p := range points {
		jobs <- job{idx: i, params: p}
	}
	close(jobs)

	errs := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rec, err := evaluatePoint(ctx, scorer, cfg, clips, j.params)
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					return
				}
				records[j.idx] = rec
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	return records, nil
}

// Best returns the record with the highest F1, ties resolved by grid order.
func Best(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.F1 > best.F1 {
			best = r
		}
	}
	return best, true
}

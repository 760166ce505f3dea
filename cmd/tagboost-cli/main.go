package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tagboost"
	"tagboost/internal/eval"
	"tagboost/parse"
)

func main() {
	var (
		modelPath     = flag.String("model", "", "Path to ONNX embedding model file (required)")
		tokenizerPath = flag.String("tokenizer", "", "Path to tokenizer.json file (required)")
		predictions   = flag.String("predictions", "", "Path to audio-tag prediction CSV (required)")
		captions      = flag.String("captions", "", "Path to caption store JSON (required)")
		truth         = flag.String("truth", "", "Path to ground-truth JSON (optional)")
		parses        = flag.String("parses", "", "Path to precomputed caption parse JSON (required)")
		clipID        = flag.String("clip", "", "Clip identifier to inspect (required)")
		category      = flag.String("category", "audio", "Caption category: audio, visual, audio_visual, generated")
		strategy      = flag.String("strategy", "ratio", "Boost strategy: ratio or maxsim")
		alpha         = flag.Float64("alpha", 0.5, "Text/audio interpolation weight (ratio)")
		simThreshold  = flag.Float64("sim", 0.5, "Phrase-tag similarity threshold (ratio)")
		weight        = flag.Float64("weight", 0.3, "Best-similarity bonus weight (maxsim)")
	)
	flag.Parse()

	for name, v := range map[string]*string{
		"model":       modelPath,
		"tokenizer":   tokenizerPath,
		"predictions": predictions,
		"captions":    captions,
		"parses":      parses,
		"clip":        clipID,
	} {
		if *v == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s required\n", name)
			flag.PrintDefaults()
			os.Exit(1)
		}
	}

	preds, err := eval.LoadPredictions(*predictions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	capsByID, err := eval.LoadCaptions(*captions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	set, ok := capsByID[*clipID]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no captions for clip %q\n", *clipID)
		os.Exit(1)
	}
	clipCaptions, err := set.Category(*category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	filename := *clipID
	if !strings.Contains(filename, ".") {
		filename += ".wav"
	}
	tags, ok := preds[filename]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no prediction row for %q\n", filename)
		os.Exit(1)
	}

	var groundTruth map[string]bool
	if *truth != "" {
		all, err := eval.LoadGroundTruth(*truth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		groundTruth = make(map[string]bool)
		for _, label := range all[filename] {
			groundTruth[label] = true
		}
	}

	store, err := parse.LoadStore(*parses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	phrases, err := parse.ExtractPhrases(ctx, store, clipCaptions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	strat, err := tagboost.StrategyByName(*strategy, *alpha, *simThreshold, *weight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scorer, err := tagboost.New(*modelPath, *tokenizerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scorer: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = scorer.Close() }() // Cleanup error ignored in CLI

	results, err := strat.Boost(ctx, scorer, tags, phrases, len(clipCaptions))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clip: %s (%d %s captions, strategy %s)\n", *clipID, len(clipCaptions), *category, strat.Name())
	fmt.Printf("Phrases (%d):\n", len(phrases))
	for _, p := range phrases {
		fmt.Printf("  %q\n", p)
	}
	fmt.Println()
	fmt.Println(renderResults(results, groundTruth))
}

func renderResults(results []tagboost.BoostResult, groundTruth map[string]bool) string {
	sorted := make([]tagboost.BoostResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Boosted > sorted[j].Boosted
	})

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"tag", "original", "boosted", "matches", "ratio", "gt"})

	for _, r := range sorted {
		gt := ""
		if groundTruth[r.Tag] {
			gt = "yes"
		}
		tw.AppendRow(table.Row{
			r.Tag,
			fmt.Sprintf("%.3f", r.Original),
			fmt.Sprintf("%.3f", r.Boosted),
			r.MatchCount,
			fmt.Sprintf("%.2f", r.MatchRatio),
			gt,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}

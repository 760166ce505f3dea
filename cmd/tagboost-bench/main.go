package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

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
		truth         = flag.String("truth", "", "Path to ground-truth JSON (required)")
		parses        = flag.String("parses", "", "Path to precomputed caption parse JSON (required)")
		configPath    = flag.String("config", "", "Path to TOML sweep configuration (optional)")
		category      = flag.String("category", "", "Caption category override: audio, visual, audio_visual, generated")
		workers       = flag.Int("workers", 0, "Parallel grid workers override")
		outCSV        = flag.String("out-csv", "", "Write sweep records to this CSV file")
	)
	flag.Parse()

	for name, v := range map[string]*string{
		"model":       modelPath,
		"tokenizer":   tokenizerPath,
		"predictions": predictions,
		"captions":    captions,
		"truth":       truth,
		"parses":      parses,
	} {
		if *v == "" {
			fmt.Fprintf(os.Stderr, "error: -%s required\n", name)
			flag.Usage()
			os.Exit(1)
		}
	}

	cfg := eval.DefaultSweepConfig()
	if *configPath != "" {
		var err error
		cfg, err = eval.LoadSweepConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading sweep config: %v\n", err)
			os.Exit(1)
		}
	}
	if *category != "" {
		cfg.CaptionCategory = *category
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	corpus, err := eval.LoadCorpus(*predictions, *captions, *truth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}

	clips, skips, err := corpus.Join(cfg.CaptionCategory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error joining corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d scorable clips (%s captions)\n", len(clips), cfg.CaptionCategory)
	printSkips(skips)

	store, err := parse.LoadStore(*parses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading parses: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := eval.AttachPhrases(ctx, store, clips); err != nil {
		fmt.Fprintf(os.Stderr, "error extracting phrases: %v\n", err)
		os.Exit(1)
	}

	scorer, err := tagboost.New(*modelPath, *tokenizerPath, tagboost.WithPoolSize(cfg.Workers))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating scorer: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = scorer.Close() }()

	records, err := eval.Sweep(ctx, scorer, clips, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(eval.RenderTable(records, cfg.Strategy))

	if best, ok := eval.Best(records); ok {
		switch cfg.Strategy {
		case "maxsim":
			fmt.Printf("\nBest: weight=%.2f conf=%.2f (F1 %.3f over %d clips)\n",
				best.Weight, best.ConfThreshold, best.F1, best.Clips)
		default:
			fmt.Printf("\nBest: alpha=%.2f conf=%.2f sim=%.2f (F1 %.3f over %d clips)\n",
				best.Alpha, best.ConfThreshold, best.SimThreshold, best.F1, best.Clips)
		}
	}

	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating %s: %v\n", *outCSV, err)
			os.Exit(1)
		}
		if err := eval.WriteCSV(f, records, cfg.Strategy); err != nil {
			_ = f.Close()
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *outCSV, err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing %s: %v\n", *outCSV, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d records to %s\n", len(records), *outCSV)
	}
}

func printSkips(skips map[eval.SkipReason]int) {
	if len(skips) == 0 {
		return
	}
	reasons := make([]string, 0, len(skips))
	for r := range skips {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Printf("  skipped %d: %s\n", skips[eval.SkipReason(r)], r)
	}
}

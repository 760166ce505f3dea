// Package eval loads the evaluation corpus and sweeps boost parameters
// against ground truth.
package eval

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"tagboost"
	"tagboost/parse"
)

// maxTagColumns is the number of tagN/tagNprob column pairs in the
// prediction table.
const maxTagColumns = 10

// CaptionSet holds the categorized caption lists for one clip.
type CaptionSet struct {
	Audio       []string `json:"audio_captions"`
	Visual      []string `json:"visual_captions"`
	AudioVisual []string `json:"audio_visual_captions"`
	Generated   []string `json:"GPT_AV_captions"`
}

// Category returns the caption list for a category name.
func (c CaptionSet) Category(name string) ([]string, error) {
	switch name {
	case "audio":
		return c.Audio, nil
	case "visual":
		return c.Visual, nil
	case "audio_visual":
		return c.AudioVisual, nil
	case "generated":
		return c.Generated, nil
	default:
		return nil, fmt.Errorf("unknown caption category %q", name)
	}
}

// SkipReason explains why a clip was excluded from scoring.
type SkipReason string

const (
	SkipNoPredictions    SkipReason = "no prediction row"
	SkipNoGroundTruth    SkipReason = "no ground-truth entry"
	SkipEmptyGroundTruth SkipReason = "empty ground truth"
)

// Clip is one fully joined evaluation item.
type Clip struct {
	ID          string // clip identifier without extension
	Filename    string // prediction-table and ground-truth key
	Tags        []tagboost.AudioTag
	Captions    []string
	Phrases     []string
	GroundTruth []string
}

// Corpus holds the three persisted inputs, each keyed as stored on disk.
type Corpus struct {
	Predictions map[string][]tagboost.AudioTag // by filename
	Captions    map[string]CaptionSet          // by clip id
	GroundTruth map[string][]string            // by filename
}

// LoadCorpus reads the prediction table, caption store and ground truth.
func LoadCorpus(predictionsPath, captionsPath, groundTruthPath string) (*Corpus, error) {
	preds, err := LoadPredictions(predictionsPath)
	if err != nil {
		return nil, fmt.Errorf("loading predictions: %w", err)
	}

	captions, err := LoadCaptions(captionsPath)
	if err != nil {
		return nil, fmt.Errorf("loading captions: %w", err)
	}

	truth, err := LoadGroundTruth(groundTruthPath)
	if err != nil {
		return nil, fmt.Errorf("loading ground truth: %w", err)
	}

	return &Corpus{
		Predictions: preds,
		Captions:    captions,
		GroundTruth: truth,
	}, nil
}

// LoadPredictions parses the prediction table: one row per clip with a
// filename column and up to ten tagN/tagNprob column pairs.
func LoadPredictions(path string) (map[string][]tagboost.AudioTag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // trailing columns vary across exports

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	fileCol, ok := col["filename"]
	if !ok {
		return nil, fmt.Errorf("prediction table has no filename column")
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	preds := make(map[string][]tagboost.AudioTag)
	line := 1
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		if fileCol >= len(row) {
			continue
		}
		filename := strings.TrimSpace(row[fileCol])
		if filename == "" {
			continue
		}

		var tags []tagboost.AudioTag
		for i := 1; i <= maxTagColumns; i++ {
			tag := cell(row, fmt.Sprintf("tag%d", i))
			prob := cell(row, fmt.Sprintf("tag%dprob", i))
			if tag == "" || prob == "" {
				// Clips with fewer than ten tags leave trailing cells blank.
				continue
			}
			conf, err := strconv.ParseFloat(prob, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): bad probability %q for tag %q", line, filename, prob, tag)
			}
			tags = append(tags, tagboost.AudioTag{Label: tag, Confidence: conf})
		}
		preds[filename] = tags
	}

	return preds, nil
}

// LoadCaptions parses the caption store: clip id to categorized captions.
func LoadCaptions(path string) (map[string]CaptionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}

	var captions map[string]CaptionSet
	if err := json.Unmarshal(data, &captions); err != nil {
		return nil, fmt.Errorf("parse captions: %w", err)
	}
	return captions, nil
}

// LoadGroundTruth parses the ground-truth mapping: filename to label list.
func LoadGroundTruth(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}

	var truth map[string][]string
	if err := json.Unmarshal(data, &truth); err != nil {
		return nil, fmt.Errorf("parse ground truth: %w", err)
	}
	return truth, nil
}

// Join matches captions, predictions and ground truth by clip identifier.
// All joins are keyed, never positional. Returned clips are the scorable
// ones; everything else is tallied in skips by reason.
func (c *Corpus) Join(category string) ([]Clip, map[SkipReason]int, error) {
	ids := make([]string, 0, len(c.Captions))
	for id := range c.Captions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	skips := make(map[SkipReason]int)
	var clips []Clip

	for _, id := range ids {
		filename := id
		if !strings.Contains(filename, ".") {
			filename = id + ".wav"
		}

		tags, ok := c.Predictions[filename]
		if !ok {
			skips[SkipNoPredictions]++
			continue
		}

		truth, ok := c.GroundTruth[filename]
		if !ok {
			skips[SkipNoGroundTruth]++
			continue
		}
		if len(truth) == 0 {
			skips[SkipEmptyGroundTruth]++
			continue
		}

		captions, err := c.Captions[id].Category(category)
		if err != nil {
			return nil, nil, err
		}

		clips = append(clips, Clip{
			ID:          id,
			Filename:    filename,
			Tags:        tags,
			Captions:    captions,
			GroundTruth: truth,
		})
	}

	return clips, skips, nil
}

// AttachPhrases extracts caption phrases for every clip. Extraction does not
// depend on sweep parameters, so it runs once before the sweep.
func AttachPhrases(ctx context.Context, parser parse.Parser, clips []Clip) error {
	for i := range clips {
		phrases, err := parse.ExtractPhrases(ctx, parser, clips[i].Captions)
		if err != nil {
			return fmt.Errorf("clip %s: %w", clips[i].ID, err)
		}
		clips[i].Phrases = phrases
	}
	return nil
}

package parse

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeParser returns canned parses keyed by caption text.
type fakeParser struct {
	sents map[string]Sentence
}

func (f *fakeParser) Parse(_ context.Context, caption string) (Sentence, error) {
	sent, ok := f.sents[caption]
	if !ok {
		return Sentence{}, errors.New("no parse for " + caption)
	}
	return sent, nil
}

// manPlayingGuitar is "A man is playing a guitar".
func manPlayingGuitar() Sentence {
	return Sentence{
		Tokens: []Token{
			{Index: 0, Text: "A", POS: "DET", Dep: "det", Head: 1, IsStop: true},
			{Index: 1, Text: "man", POS: "NOUN", Dep: "nsubj", Head: 3},
			{Index: 2, Text: "is", POS: "AUX", Dep: "aux", Head: 3, IsStop: true},
			{Index: 3, Text: "playing", POS: "VERB", Dep: "ROOT", Head: 3},
			{Index: 4, Text: "a", POS: "DET", Dep: "det", Head: 5, IsStop: true},
			{Index: 5, Text: "guitar", POS: "NOUN", Dep: "dobj", Head: 3},
		},
		NounChunks: []Span{{Start: 0, End: 2}, {Start: 4, End: 6}},
	}
}

func TestSentencePhrasesSVO(t *testing.T) {
	got := SentencePhrases(manPlayingGuitar())
	want := []string{"man playing guitar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SentencePhrases() = %v, want %v", got, want)
	}
}

func TestSentencePhrasesVerbPartials(t *testing.T) {
	tests := []struct {
		name string
		sent Sentence
		want []string
	}{
		{
			name: "verb with object only",
			sent: Sentence{
				Tokens: []Token{
					{Index: 0, Text: "Playing", POS: "VERB", Dep: "ROOT", Head: 0},
					{Index: 1, Text: "a", POS: "DET", Dep: "det", Head: 2, IsStop: true},
					{Index: 2, Text: "guitar", POS: "NOUN", Dep: "dobj", Head: 0},
				},
			},
			want: []string{"playing guitar"},
		},
		{
			name: "verb with subject only",
			sent: Sentence{
				Tokens: []Token{
					{Index: 0, Text: "Birds", POS: "NOUN", Dep: "nsubj", Head: 1},
					{Index: 1, Text: "sing", POS: "VERB", Dep: "ROOT", Head: 1},
				},
			},
			want: []string{"birds sing"},
		},
		{
			name: "verb with neither is skipped",
			sent: Sentence{
				Tokens: []Token{
					{Index: 0, Text: "Run", POS: "VERB", Dep: "ROOT", Head: 0},
				},
			},
			want: nil,
		},
		{
			name: "prepositional object attaches through prep",
			sent: Sentence{
				Tokens: []Token{
					{Index: 0, Text: "man", POS: "NOUN", Dep: "nsubj", Head: 1},
					{Index: 1, Text: "sits", POS: "VERB", Dep: "ROOT", Head: 1},
					{Index: 2, Text: "on", POS: "ADP", Dep: "prep", Head: 1, IsStop: true},
					{Index: 3, Text: "chair", POS: "NOUN", Dep: "pobj", Head: 2},
				},
				NounChunks: []Span{{Start: 3, End: 4}},
			},
			// The prep token joins the span but is filtered as a stop word;
			// its pobj child belongs to the prep, not the verb.
			want: []string{"man sits", "chair"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentencePhrases(tt.sent)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SentencePhrases() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentencePhrasesNounChunks(t *testing.T) {
	sent := Sentence{
		Tokens: []Token{
			{Index: 0, Text: "the", POS: "DET", Dep: "det", Head: 2, IsStop: true},
			{Index: 1, Text: "heavy", POS: "ADJ", Dep: "amod", Head: 2},
			{Index: 2, Text: "rain", POS: "NOUN", Dep: "ROOT", Head: 2},
		},
		NounChunks: []Span{{Start: 0, End: 3}},
	}

	got := SentencePhrases(sent)
	want := []string{"heavy rain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SentencePhrases() = %v, want %v", got, want)
	}
}

func TestSentencePhrasesCompound(t *testing.T) {
	sent := Sentence{
		Tokens: []Token{
			{Index: 0, Text: "Wind", POS: "NOUN", Dep: "compound", Head: 1},
			{Index: 1, Text: "noise", POS: "NOUN", Dep: "ROOT", Head: 1},
		},
	}

	got := SentencePhrases(sent)
	want := []string{"wind noise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SentencePhrases() = %v, want %v", got, want)
	}
}

func TestSentencePhrasesCompoundRejectsStopAndNonNounHead(t *testing.T) {
	sent := Sentence{
		Tokens: []Token{
			// Head is a verb, not a noun: no compound phrase.
			{Index: 0, Text: "spin", POS: "NOUN", Dep: "compound", Head: 1},
			{Index: 1, Text: "drying", POS: "VERB", Dep: "ROOT", Head: 1},
			// Stop-word modifier: no compound phrase.
			{Index: 2, Text: "some", POS: "DET", Dep: "compound", Head: 3, IsStop: true},
			{Index: 3, Text: "music", POS: "NOUN", Dep: "conj", Head: 1},
		},
	}

	if got := SentencePhrases(sent); got != nil {
		t.Errorf("SentencePhrases() = %v, want none", got)
	}
}

func TestSentencePhrasesTokenOverlapExclusive(t *testing.T) {
	// The noun chunks overlap the SVO span, so only the SVO phrase survives.
	got := SentencePhrases(manPlayingGuitar())
	if len(got) != 1 {
		t.Fatalf("got %d phrases %v, want exactly 1", len(got), got)
	}
}

func TestSentencePhrasesStopOnlySpanDropped(t *testing.T) {
	sent := Sentence{
		Tokens: []Token{
			{Index: 0, Text: "it", POS: "PRON", Dep: "nsubj", Head: 1, IsStop: true},
			{Index: 1, Text: "is", POS: "VERB", Dep: "ROOT", Head: 1, IsStop: true},
			{Index: 2, Text: ".", POS: "PUNCT", Dep: "punct", Head: 1, IsPunct: true},
		},
		NounChunks: []Span{{Start: 0, End: 1}},
	}

	if got := SentencePhrases(sent); got != nil {
		t.Errorf("SentencePhrases() = %v, want none", got)
	}
}

func TestSentencePhrasesEmptyRenderDoesNotConsume(t *testing.T) {
	// The SVO span renders empty (all stop words), so the noun chunk over
	// the same tokens must still be eligible.
	sent := Sentence{
		Tokens: []Token{
			{Index: 0, Text: "it", POS: "PRON", Dep: "nsubj", Head: 1, IsStop: true},
			{Index: 1, Text: "is", POS: "VERB", Dep: "ROOT", Head: 1, IsStop: true},
			{Index: 2, Text: "loud", POS: "ADJ", Dep: "amod", Head: 1},
		},
		NounChunks: []Span{{Start: 0, End: 3}},
	}

	got := SentencePhrases(sent)
	want := []string{"loud"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SentencePhrases() = %v, want %v", got, want)
	}
}

func TestExtractPhrases(t *testing.T) {
	parser := &fakeParser{sents: map[string]Sentence{
		"A man is playing a guitar": manPlayingGuitar(),
		"Wind noise": {
			Tokens: []Token{
				{Index: 0, Text: "Wind", POS: "NOUN", Dep: "compound", Head: 1},
				{Index: 1, Text: "noise", POS: "NOUN", Dep: "ROOT", Head: 1},
			},
		},
	}}
	ctx := context.Background()
	captions := []string{"A man is playing a guitar", "Wind noise"}

	got, err := ExtractPhrases(ctx, parser, captions)
	if err != nil {
		t.Fatalf("ExtractPhrases() failed: %v", err)
	}
	want := []string{"man playing guitar", "wind noise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractPhrases() = %v, want %v", got, want)
	}

	// Idempotent: a second run over identical captions yields the same set.
	again, err := ExtractPhrases(ctx, parser, captions)
	if err != nil {
		t.Fatalf("ExtractPhrases() failed: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("second run = %v, first = %v", again, got)
	}
}

func TestExtractPhrasesEmptyCaptions(t *testing.T) {
	got, err := ExtractPhrases(context.Background(), &fakeParser{}, nil)
	if err != nil {
		t.Fatalf("ExtractPhrases() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ExtractPhrases() = %v, want empty", got)
	}
}

func TestExtractPhrasesDeduplicatesAcrossCaptions(t *testing.T) {
	sent := Sentence{
		Tokens: []Token{
			{Index: 0, Text: "Wind", POS: "NOUN", Dep: "compound", Head: 1},
			{Index: 1, Text: "noise", POS: "NOUN", Dep: "ROOT", Head: 1},
		},
	}
	parser := &fakeParser{sents: map[string]Sentence{
		"Wind noise":       sent,
		"Wind noise again": sent,
	}}

	got, err := ExtractPhrases(context.Background(), parser, []string{"Wind noise", "Wind noise again"})
	if err != nil {
		t.Fatalf("ExtractPhrases() failed: %v", err)
	}
	want := []string{"wind noise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractPhrases() = %v, want %v", got, want)
	}
}

func TestExtractPhrasesParserError(t *testing.T) {
	_, err := ExtractPhrases(context.Background(), &fakeParser{}, []string{"unknown"})
	if err == nil {
		t.Error("expected error from parser")
	}
}

package parse

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Dependency roles that qualify as subjects and objects of a verb.
var (
	subjectDeps = map[string]bool{"nsubj": true, "nsubjpass": true}
	objectDeps  = map[string]bool{"dobj": true, "attr": true, "prep": true, "pobj": true}
)

// ExtractPhrases parses every caption and unions the per-caption phrase sets.
// The result is deduplicated and sorted; order carries no meaning downstream.
func ExtractPhrases(ctx context.Context, parser Parser, captions []string) ([]string, error) {
	set := make(map[string]struct{})

	for _, caption := range captions {
		sent, err := parser.Parse(ctx, caption)
		if err != nil {
			return nil, fmt.Errorf("parsing caption %q: %w", caption, err)
		}
		for _, phrase := range SentencePhrases(sent) {
			set[phrase] = struct{}{}
		}
	}

	phrases := make([]string, 0, len(set))
	for p := range set {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	return phrases, nil
}

// SentencePhrases extracts candidate phrases from one parsed sentence.
//
// Three constructs are tried in fixed order, so longer spans win token
// priority over shorter ones: subject-verb-object spans, then noun chunks,
// then compound-noun pairs. A construct is rejected when any of its token
// indices was already consumed by an earlier accepted span in this sentence.
func SentencePhrases(sent Sentence) []string {
	var phrases []string
	used := make(map[int]bool)

	emit := func(idxs []int) {
		for _, i := range idxs {
			if used[i] {
				return
			}
		}
		phrase := renderSpan(sent, idxs)
		if phrase == "" {
			return
		}
		phrases = append(phrases, phrase)
		for _, i := range idxs {
			used[i] = true
		}
	}

	// Subject-verb-object spans.
	for _, verb := range sent.Tokens {
		if verb.POS != "VERB" {
			continue
		}

		var subj, obj []int
		for _, child := range sent.children(verb.Index) {
			switch {
			case subjectDeps[child.Dep]:
				subj = append(subj, child.Index)
			case objectDeps[child.Dep]:
				obj = append(obj, child.Index)
			}
		}
		if len(subj) == 0 && len(obj) == 0 {
			continue
		}

		idxs := make([]int, 0, len(subj)+1+len(obj))
		idxs = append(idxs, subj...)
		idxs = append(idxs, verb.Index)
		idxs = append(idxs, obj...)
		emit(idxs)
	}

	// Noun chunks.
	for _, chunk := range sent.NounChunks {
		idxs := make([]int, 0, chunk.End-chunk.Start)
		for i := chunk.Start; i < chunk.End; i++ {
			idxs = append(idxs, i)
		}
		emit(idxs)
	}

	// Compound nouns: "modifier head" pairs.
	for _, tok := range sent.Tokens {
		if tok.Dep != "compound" || tok.Head == tok.Index {
			continue
		}
		if tok.Head < 0 || tok.Head >= len(sent.Tokens) {
			continue
		}
		head := sent.Tokens[tok.Head]
		if head.POS != "NOUN" {
			continue
		}
		if tok.IsStop || tok.IsPunct || head.IsStop || head.IsPunct {
			continue
		}
		emit([]int{tok.Index, head.Index})
	}

	return phrases
}

// renderSpan joins the lowercased text of the non-stop, non-punctuation
// tokens at idxs in original sentence order. Returns "" when nothing
// survives the filter.
func renderSpan(sent Sentence, idxs []int) string {
	ordered := make([]int, len(idxs))
	copy(ordered, idxs)
	sort.Ints(ordered)

	var words []string
	for _, i := range ordered {
		if i < 0 || i >= len(sent.Tokens) {
			continue
		}
		tok := sent.Tokens[i]
		if tok.IsStop || tok.IsPunct {
			continue
		}
		words = append(words, strings.ToLower(tok.Text))
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

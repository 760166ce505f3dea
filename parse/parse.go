// Package parse assembles candidate semantic phrases from dependency-parsed
// captions.
//
// The dependency parse itself comes from an external collaborator behind the
// Parser interface; this package only consumes per-token syntactic roles and
// noun-chunk spans.
package parse

import "context"

// Token is one parsed token of a caption sentence.
type Token struct {
	Index   int    `json:"i"`    // position within the sentence, 0-based
	Text    string `json:"text"` // surface form
	POS     string `json:"pos"`  // coarse part-of-speech tag, e.g. "VERB", "NOUN"
	Dep     string `json:"dep"`  // dependency relation to Head, e.g. "nsubj", "compound"
	Head    int    `json:"head"` // index of the head token; a root points at itself
	IsStop  bool   `json:"is_stop"`
	IsPunct bool   `json:"is_punct"`
}

// Span is a half-open token index range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Sentence is one parsed caption with its noun-chunk spans.
type Sentence struct {
	Tokens     []Token `json:"tokens"`
	NounChunks []Span  `json:"noun_chunks"`
}

// Parser produces a dependency parse of one caption.
type Parser interface {
	Parse(ctx context.Context, caption string) (Sentence, error)
}

// children returns the tokens whose head is the token at index head,
// excluding the token itself.
func (s Sentence) children(head int) []Token {
	var out []Token
	for _, t := range s.Tokens {
		if t.Head == head && t.Index != head {
			out = append(out, t)
		}
	}
	return out
}

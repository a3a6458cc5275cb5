// Package dictionary provides term lookup with a network provider, optional
// translation enrichment, an offline fallback, and a TTL cache in front.
package dictionary

import (
	"context"
)

//go:generate mockgen -source=model.go -destination=../mocks/dictionary/mock_dictionary.go -package=mock_dictionary

// Result is the outcome of resolving a single term. Confidence encodes
// provenance: network-derived results score higher than offline ones.
type Result struct {
	Reading    string
	Meanings   []string
	Examples   []ExamplePair
	Confidence float64
}

// ExamplePair is an example sentence in the source language with its
// translation.
type ExamplePair struct {
	Source string
	Target string
}

// Provider looks up a term. A nil result with a nil error means the provider
// was reachable but found nothing for the term.
type Provider interface {
	Search(ctx context.Context, term string) (*Result, error)
}

// Translator translates a single text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// TranslateAll translates each text sequentially. Sequential on purpose: the
// translation endpoints this is used with rate-limit aggressively.
func TranslateAll(ctx context.Context, t Translator, texts []string, sourceLang, targetLang string) ([]string, error) {
	results := make([]string, 0, len(texts))
	for _, text := range texts {
		translated, err := t.Translate(ctx, text, sourceLang, targetLang)
		if err != nil {
			return nil, err
		}
		results = append(results, translated)
	}
	return results, nil
}

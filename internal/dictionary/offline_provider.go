package dictionary

import (
	"context"
	"fmt"

	"github.com/coby5502/dango/internal/cache"
)

// OfflineProvider synthesizes deterministic placeholder results without any
// network access. It never fails. It consults the shared cache first so a
// concurrent resolution that already degraded does not produce a second,
// newer placeholder.
type OfflineProvider struct {
	cache *cache.Cache[*Result]
}

// NewOfflineProvider creates an OfflineProvider backed by the shared cache.
func NewOfflineProvider(c *cache.Cache[*Result]) *OfflineProvider {
	return &OfflineProvider{cache: c}
}

// Search implements Provider.
func (p *OfflineProvider) Search(_ context.Context, term string) (*Result, error) {
	if cached, ok := p.cache.Get(term); ok {
		return cached, nil
	}

	result := &Result{
		Reading: estimateReading(term),
		Meanings: []string{
			fmt.Sprintf("(offline) %s - meaning 1", term),
			fmt.Sprintf("(offline) %s - meaning 2", term),
		},
		Examples: []ExamplePair{
			{Source: fmt.Sprintf("%sの例文です。", term), Target: fmt.Sprintf("%s의 예문입니다.", term)},
			{Source: fmt.Sprintf("これは%sです。", term), Target: fmt.Sprintf("이것은 %s입니다.", term)},
		},
		Confidence: 0.4,
	}
	p.cache.Set(term, result)
	return result, nil
}

// estimateReading returns the term itself when it is written entirely in a
// phonetic script (hiragana or katakana), else "".
func estimateReading(term string) string {
	for _, r := range term {
		if !isHiragana(r) && !isKatakana(r) {
			return ""
		}
	}
	return term
}

func isHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

func isKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}

package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coby5502/dango/internal/dictionary/jisho"
)

// maxMeanings caps how many senses are extracted from a dictionary entry.
const maxMeanings = 8

// DefaultJishoBaseURL is the public word search API.
const DefaultJishoBaseURL = "https://jisho.org"

// JishoConfig configures the network dictionary provider.
type JishoConfig struct {
	BaseURL string
	// Timeout bounds a single search request. Zero means no client-side
	// bound beyond the transport's.
	Timeout    time.Duration
	SourceLang string
	TargetLang string
}

// JishoProvider looks up terms against the Jisho word search API and
// optionally translates the extracted meanings.
type JishoProvider struct {
	config     JishoConfig
	client     *resty.Client
	translator Translator
}

// NewJishoProvider creates a JishoProvider. translator may be nil, in which
// case meanings are returned untranslated.
func NewJishoProvider(config JishoConfig, translator Translator) *JishoProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultJishoBaseURL
	}
	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	return &JishoProvider{
		config:     config,
		client:     client,
		translator: translator,
	}
}

func (p *JishoProvider) searchAPI(ctx context.Context, term string) ([]byte, error) {
	res, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("keyword", term).
		Get("/api/v1/search/words")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return res.Body(), nil
}

// Search implements Provider. It returns (nil, nil) when the service answers
// with no entries, which callers must treat as a legitimate empty answer
// rather than a failure.
func (p *JishoProvider) Search(ctx context.Context, term string) (*Result, error) {
	body, err := p.searchAPI(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("p.searchAPI > %w", err)
	}

	var resp jisho.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	entry := resp.Data[0]

	meanings := make([]string, 0, maxMeanings)
	for i, sense := range entry.Senses {
		if i == maxMeanings {
			break
		}
		meaning := strings.TrimSpace(strings.Join(sense.EnglishDefinitions, "; "))
		if meaning == "" {
			continue
		}
		meanings = append(meanings, meaning)
	}

	if p.translator != nil && len(meanings) > 0 {
		translated, err := TranslateAll(ctx, p.translator, meanings, p.config.SourceLang, p.config.TargetLang)
		if err != nil {
			return nil, fmt.Errorf("dictionary.TranslateAll > %w", err)
		}
		meanings = translated
	}

	confidence := 0.6
	if len(meanings) > 0 {
		confidence = 0.9
	}

	return &Result{
		Reading:    entry.FirstReading(),
		Meanings:   meanings,
		Confidence: confidence,
	}, nil
}

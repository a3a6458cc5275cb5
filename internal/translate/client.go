// Package translate provides a best-effort text translation client.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the keyless gtx translation endpoint. Best-effort
	// only; responses are parsed loosely and failures fall back to the
	// input text where the shape allows.
	DefaultBaseURL = "https://translate.googleapis.com"

	// DefaultMaxRetryAttempts is the retry budget per translation call.
	DefaultMaxRetryAttempts = 3
)

// Client translates text through the gtx endpoint.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

// NewClient creates a Client. baseURL falls back to DefaultBaseURL when empty.
func NewClient(baseURL string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

// Close releases the underlying HTTP client.
func (client *Client) Close() error {
	return client.httpClient.Close()
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

// Translate implements the dictionary.Translator interface.
func (client *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}

	var result string
	if err := retry.Do(
		func() error {
			translated, err := client.translate(ctx, trimmed, sourceLang, targetLang)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = translated
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     sourceLang,
			"tl":     targetLang,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	// The response is a nested array like [[["<translated>","<source>",...],...],...].
	// Parse loosely and keep the input text when the shape is unusable.
	var root []json.RawMessage
	if err := json.Unmarshal(response.Bytes(), &root); err != nil {
		return "", fmt.Errorf("json.Unmarshal > %w", err)
	}
	if len(root) == 0 {
		return text, nil
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return text, nil
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(segment[0], &piece); err != nil {
			continue
		}
		builder.WriteString(piece)
	}

	if builder.Len() == 0 {
		return text, nil
	}
	return builder.String(), nil
}

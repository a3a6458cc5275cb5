package dictionary

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/coby5502/dango/internal/cache"
)

// Cascade resolves a term through an ordered fallback chain: cache, primary
// network provider, offline fallback. Callers observe three outcomes only:
// nil (empty input, or a reachable service legitimately found nothing), a
// high-confidence result from the network path, or a low-confidence result
// from the offline path. Provider errors never reach the caller.
type Cascade struct {
	cache    *cache.Cache[*Result]
	primary  Provider
	fallback Provider

	mu       sync.Mutex
	inflight map[string]*flight
}

// flight is a single in-progress resolution shared by concurrent callers of
// the same term.
type flight struct {
	done   chan struct{}
	result *Result
	err    error
}

// NewCascade creates a Cascade. primary and fallback are required; fallback
// must not fail and must not touch the network.
func NewCascade(c *cache.Cache[*Result], primary, fallback Provider) *Cascade {
	return &Cascade{
		cache:    c,
		primary:  primary,
		fallback: fallback,
		inflight: make(map[string]*flight),
	}
}

// Resolve looks up term. A cache hit is returned unchanged, even when it was
// written by an earlier fallback; within the TTL window responsiveness wins
// over freshness.
func (c *Cascade) Resolve(ctx context.Context, term string) (*Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	if cached, ok := c.cache.Get(term); ok {
		return cached, nil
	}

	// Coalesce duplicate concurrent resolutions of the same term so only
	// one of them hits the network.
	c.mu.Lock()
	if f, ok := c.inflight[term]; ok {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.result, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	c.inflight[term] = f
	c.mu.Unlock()

	f.result, f.err = c.resolve(ctx, term)

	c.mu.Lock()
	delete(c.inflight, term)
	c.mu.Unlock()
	close(f.done)

	return f.result, f.err
}

func (c *Cascade) resolve(ctx context.Context, term string) (*Result, error) {
	result, err := c.primary.Search(ctx, term)
	if err == nil {
		// A reachable service with no entries is a valid empty answer,
		// not a failure: no fallback, nothing cached.
		if result != nil {
			c.cache.Set(term, result)
		}
		return result, nil
	}

	slog.Default().Debug("primary dictionary provider failed, using offline fallback",
		"term", term,
		"error", err,
	)

	fallbackResult, fallbackErr := c.fallback.Search(ctx, term)
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	if fallbackResult != nil {
		c.cache.Set(term, fallbackResult)
	}
	return fallbackResult, nil
}

// Package autofill debounces live-input dictionary lookups and cancels
// superseded ones.
package autofill

import (
	"context"
	"sync"
	"time"

	"github.com/coby5502/dango/internal/dictionary"
)

// DefaultDebounceDelay is how long input must be quiet before a lookup fires.
const DefaultDebounceDelay = 400 * time.Millisecond

// TermResolver resolves a term to a dictionary result.
type TermResolver interface {
	Resolve(ctx context.Context, term string) (*dictionary.Result, error)
}

// Resolver runs at most one in-flight lookup. A new Trigger supersedes the
// previous one; a superseded lookup never delivers its result.
type Resolver struct {
	resolver TermResolver
	delay    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDebounceDelay overrides the debounce delay. Used in tests.
func WithDebounceDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
	}
}

// NewResolver creates a Resolver over resolver.
func NewResolver(resolver TermResolver, opts ...Option) *Resolver {
	r := &Resolver{
		resolver: resolver,
		delay:    DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger schedules a lookup for term after the debounce delay and delivers
// the outcome to fn. Cancelling or re-triggering before delivery discards the
// lookup; fn is then never called.
func (r *Resolver) Trigger(term string, fn func(*dictionary.Result, error)) {
	ctx := r.replaceInflight()

	go func() {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return
		}

		result, err := r.resolver.Resolve(ctx, term)

		// Check cancellation immediately before delivering so a stale
		// lookup cannot overwrite caller-visible state.
		if ctx.Err() != nil {
			return
		}
		fn(result, err)
	}()
}

// Cancel discards any in-flight lookup.
func (r *Resolver) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) replaceInflight() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	return ctx
}

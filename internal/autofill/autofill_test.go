package autofill_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coby5502/dango/internal/autofill"
	"github.com/coby5502/dango/internal/dictionary"
)

type recordingResolver struct {
	mu    sync.Mutex
	terms []string
}

func (r *recordingResolver) Resolve(_ context.Context, term string) (*dictionary.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, term)
	return &dictionary.Result{Reading: term, Confidence: 0.9}, nil
}

func (r *recordingResolver) resolved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

func TestResolver_Trigger_DeliversAfterQuietPeriod(t *testing.T) {
	backend := &recordingResolver{}
	resolver := autofill.NewResolver(backend, autofill.WithDebounceDelay(10*time.Millisecond))

	delivered := make(chan *dictionary.Result, 1)
	resolver.Trigger("猫", func(result *dictionary.Result, err error) {
		require.NoError(t, err)
		delivered <- result
	})

	select {
	case result := <-delivered:
		assert.Equal(t, "猫", result.Reading)
	case <-time.After(time.Second):
		t.Fatal("lookup was never delivered")
	}
	assert.Equal(t, []string{"猫"}, backend.resolved())
}

func TestResolver_Trigger_SupersedesPendingLookup(t *testing.T) {
	backend := &recordingResolver{}
	resolver := autofill.NewResolver(backend, autofill.WithDebounceDelay(50*time.Millisecond))

	delivered := make(chan string, 2)
	resolver.Trigger("ね", func(result *dictionary.Result, err error) {
		delivered <- result.Reading
	})
	// Retyped before the quiet period elapsed: only the final term resolves.
	time.Sleep(10 * time.Millisecond)
	resolver.Trigger("ねこ", func(result *dictionary.Result, err error) {
		delivered <- result.Reading
	})

	select {
	case term := <-delivered:
		assert.Equal(t, "ねこ", term)
	case <-time.After(time.Second):
		t.Fatal("lookup was never delivered")
	}

	// Give any stale delivery a chance to surface.
	time.Sleep(100 * time.Millisecond)
	select {
	case term := <-delivered:
		t.Fatalf("superseded lookup delivered %q", term)
	default:
	}
	assert.Equal(t, []string{"ねこ"}, backend.resolved())
}

func TestResolver_Cancel_DiscardsPendingLookup(t *testing.T) {
	backend := &recordingResolver{}
	resolver := autofill.NewResolver(backend, autofill.WithDebounceDelay(20*time.Millisecond))

	resolver.Trigger("猫", func(result *dictionary.Result, err error) {
		t.Error("cancelled lookup must not deliver")
	})
	resolver.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, backend.resolved())
}

func TestResolver_Cancel_WithoutInflightIsHarmless(t *testing.T) {
	resolver := autofill.NewResolver(&recordingResolver{})
	resolver.Cancel()
	resolver.Cancel()
}

package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"contractscan/internal/cache"
	"contractscan/internal/model"
)

// Cached wraps a Provider with a transparent response cache keyed by the
// analyzed text. It only avoids repeat API cost: the service itself is not
// deterministic, so a cache hit may return findings a fresh call would not.
type Cached struct {
	inner Provider
	store cache.Cache
	model string
	ttl   time.Duration
}

// NewCached creates a caching wrapper around a provider
func NewCached(inner Provider, store cache.Cache, providerModel string, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		store: store,
		model: providerModel,
		ttl:   ttl,
	}
}

// Name returns the wrapped provider's name
func (c *Cached) Name() string {
	return c.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (c *Cached) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

// Analyze serves findings from the cache when the same text was analyzed
// recently, calling the wrapped provider otherwise. Cached findings keep
// the identifiers assigned at first receipt.
func (c *Cached) Analyze(ctx context.Context, contractText string) ([]model.Finding, error) {
	key := cache.Key(c.inner.Name(), c.model, contractText)

	if raw, found := c.store.Get(key); found {
		var findings []model.Finding
		if err := json.Unmarshal(raw, &findings); err == nil {
			return findings, nil
		}
		// Corrupt entry: drop it and fall through to a fresh call.
		_ = c.store.Delete(key)
	}

	findings, err := c.inner.Analyze(ctx, contractText)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(findings); err == nil {
		if err := c.store.Set(key, raw, c.ttl); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache analysis response: %v\n", err)
		}
	}

	return findings, nil
}

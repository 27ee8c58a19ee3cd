package rebac

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// DefaultDecisionTTL is the validity window of a cached decision. Checks
// are read-heavy and tuples change comparatively rarely, so a short
// best-effort window amortizes repeated checks of the same tuple without
// wiring invalidation into the grant/revoke path.
const DefaultDecisionTTL = 2000 * time.Millisecond

// cacheKeyPrefix namespaces decision entries in the key-value service.
const cacheKeyPrefix = "ruleCache:"

// KV is the contract required from the external key-value service.
// RedisKV is the production implementation; MemoryKV serves tests and
// single-instance deployments.
type KV interface {
	// SetWithExpiry writes a value that expires after ttl. It overwrites
	// any existing entry for the key.
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key, or ok=false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Decision is the tri-state result of a cache lookup. A miss must never be
// conflated with a cached denial: a miss triggers the fallback query path,
// a denial is a valid answer.
type Decision int

const (
	DecisionMiss Decision = iota
	DecisionDenied
	DecisionAllowed
)

// Hit reports whether the lookup found a live entry.
func (d Decision) Hit() bool { return d != DecisionMiss }

// Allowed reports whether the cached decision grants access.
func (d Decision) Allowed() bool { return d == DecisionAllowed }

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionDenied:
		return "denied"
	default:
		return "miss"
	}
}

// DecisionCache stores prior boolean authorization decisions keyed by
// computed tuple, each valid for a fixed window from write time. Entries
// self-expire; nothing here invalidates them early on tuple mutation. That
// staleness is a deliberate trade-off bounded by the TTL — callers needing
// stronger consistency must fire an explicit invalidation from their
// grant/revoke path.
type DecisionCache struct {
	kv  KV
	ttl time.Duration
}

// CacheOption configures a DecisionCache.
type CacheOption func(*DecisionCache)

// WithTTL overrides the decision validity window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *DecisionCache) {
		c.ttl = ttl
	}
}

// NewDecisionCache creates a decision cache backed by the given key-value
// handle.
func NewDecisionCache(kv KV, opts ...CacheOption) *DecisionCache {
	c := &DecisionCache{
		kv:  kv,
		ttl: DefaultDecisionTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func cacheKey(computedTuple string) string {
	return cacheKeyPrefix + computedTuple
}

// Store writes a decision for the computed tuple, overwriting any prior
// entry. The value is serialized as "true" or "false".
func (c *DecisionCache) Store(ctx context.Context, computedTuple string, allowed bool) error {
	if err := c.kv.SetWithExpiry(ctx, cacheKey(computedTuple), strconv.FormatBool(allowed), c.ttl); err != nil {
		return fmt.Errorf("rebac: cache store failed: %w", err)
	}
	return nil
}

// Lookup returns the cached decision for the computed tuple, or
// DecisionMiss when no live entry exists. A miss is not an error.
func (c *DecisionCache) Lookup(ctx context.Context, computedTuple string) (Decision, error) {
	value, ok, err := c.kv.Get(ctx, cacheKey(computedTuple))
	if err != nil {
		return DecisionMiss, fmt.Errorf("rebac: cache lookup failed: %w", err)
	}
	if !ok {
		return DecisionMiss, nil
	}

	allowed, err := strconv.ParseBool(value)
	if err != nil {
		return DecisionMiss, fmt.Errorf("rebac: cache entry for %q is not a boolean: %w", computedTuple, err)
	}
	if allowed {
		return DecisionAllowed, nil
	}
	return DecisionDenied, nil
}

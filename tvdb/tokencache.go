package tvdb

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
)

// DefaultTokenTTL is how long a login token is reused before logging in
// again. TheTVDB tokens are valid for a month.
const DefaultTokenTTL = 2_500_000 * time.Second

// TokenCache stores bearer tokens keyed by credential pin.
type TokenCache interface {
	// Get retrieves a token from the cache.
	// Returns the token, whether it was found, and any error.
	Get(ctx context.Context, key string) (Token, bool, error)

	// Set stores a token in the cache for ttl.
	Set(ctx context.Context, key string, token Token, ttl time.Duration) error

	// Invalidate removes a token from the cache.
	Invalidate(ctx context.Context, key string) error
}

// MemoryTokenCache is an in-process TokenCache backed by otter. Expiry is
// checked against the injected clock on every read.
type MemoryTokenCache struct {
	cache   *otter.Cache[string, Token]
	counter *stats.Counter
	now     func() time.Time
}

// NewMemoryTokenCache creates a cache holding at most maxSize tokens. A nil
// clock uses time.Now.
func NewMemoryTokenCache(maxSize int, now func() time.Time) *MemoryTokenCache {
	if now == nil {
		now = time.Now
	}
	counter := stats.NewCounter()
	cache := otter.Must(&otter.Options[string, Token]{
		MaximumSize:   maxSize,
		StatsRecorder: counter,
	})

	return &MemoryTokenCache{
		cache:   cache,
		counter: counter,
		now:     now,
	}
}

// Get returns the token stored under key unless it has expired. Expired
// entries are evicted.
func (m *MemoryTokenCache) Get(ctx context.Context, key string) (Token, bool, error) {
	entry, ok := m.cache.GetEntry(key)
	if !ok {
		return Token{}, false, nil
	}

	if entry.Value.Expired(m.now()) {
		m.cache.Invalidate(key)
		return Token{}, false, nil
	}

	return entry.Value, true, nil
}

// Set stores token under key. AcquiredAt defaults to the current time and
// ExpiresAt is derived from ttl.
func (m *MemoryTokenCache) Set(ctx context.Context, key string, token Token, ttl time.Duration) error {
	if token.AcquiredAt.IsZero() {
		token.AcquiredAt = m.now()
	}
	token.ExpiresAt = token.AcquiredAt.Add(ttl)
	m.cache.Set(key, token)
	return nil
}

// Invalidate removes a token from the cache.
func (m *MemoryTokenCache) Invalidate(ctx context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

// Stats returns a snapshot of cache hits and misses.
func (m *MemoryTokenCache) Stats() stats.Stats {
	return m.counter.Snapshot()
}

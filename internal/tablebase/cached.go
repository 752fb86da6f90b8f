package tablebase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-logr/logr"
)

// DefaultCacheSize is the number of positions NewCachedLichessProber keeps.
const DefaultCacheSize = 100_000

type cacheEntry struct {
	fen    string
	result Result
}

// CachedProber wraps another prober with a bounded cache of found
// positions. This reduces API calls for frequently probed positions.
type CachedProber struct {
	inner  Prober
	cache  *ristretto.Cache[uint64, cacheEntry]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedProber creates a cached prober holding up to size positions.
func NewCachedProber(inner Prober, size int64) (*CachedProber, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, cacheEntry]{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("tablebase: create cache: %w", err)
	}
	return &CachedProber{inner: inner, cache: cache}, nil
}

// NewCachedLichessProber creates a cached Lichess prober with default cache size.
func NewCachedLichessProber(baseURL string, log logr.Logger) (*CachedProber, error) {
	return NewCachedProber(NewLichessProber(baseURL, log), DefaultCacheSize)
}

// Probe serves fen from the cache, or asks the inner prober and caches a
// found result. Errors and unknown positions are not cached.
func (cp *CachedProber) Probe(ctx context.Context, fen string) (Result, error) {
	key := xxhash.Sum64String(fen)
	if e, ok := cp.cache.Get(key); ok && e.fen == fen {
		cp.hits.Add(1)
		return e.result, nil
	}
	cp.misses.Add(1)

	result, err := cp.inner.Probe(ctx, fen)
	if err != nil || !result.Found {
		return result, err
	}
	cp.cache.Set(key, cacheEntry{fen: fen, result: result}, 1)
	cp.cache.Wait()
	return result, nil
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	hits, misses := cp.hits.Load(), cp.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Clear clears the cache.
func (cp *CachedProber) Clear() {
	cp.cache.Clear()
	cp.hits.Store(0)
	cp.misses.Store(0)
}

// Close releases the cache's background goroutines.
func (cp *CachedProber) Close() {
	cp.cache.Close()
}

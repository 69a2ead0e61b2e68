package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// SnapshotCache holds materialized views under an opaque token for a short
// TTL: queue pages stay stable across a reviewer's pagination even while
// corrections land, and domain rollups avoid recomputation on every read.
type SnapshotCache struct {
	cache *gocache.Cache
}

// NewSnapshotCache creates a snapshot cache with the given TTL
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotCache{
		cache: gocache.New(ttl, ttl),
	}
}

// Put stores a snapshot under the token
func (s *SnapshotCache) Put(token string, v interface{}) {
	s.cache.Set(token, v, gocache.DefaultExpiration)
}

// Get retrieves a snapshot by token
func (s *SnapshotCache) Get(token string) (interface{}, bool) {
	return s.cache.Get(token)
}

// Invalidate drops every cached snapshot
func (s *SnapshotCache) Invalidate() {
	s.cache.Flush()
}

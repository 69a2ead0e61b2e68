// Package cache wraps the expiring in-memory stores backing the review
// queue: checkout leases and pagination snapshots. TTL expiry is the only
// way a lease is reclaimed without an explicit release.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LeaseStore tracks time-bound checkout leases keyed by fact id. A lease
// that expires simply disappears, returning the item to the pool.
type LeaseStore struct {
	cache *gocache.Cache
}

// NewLeaseStore creates a lease store with the given lease duration
func NewLeaseStore(ttl time.Duration) *LeaseStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LeaseStore{
		cache: gocache.New(ttl, ttl/2),
	}
}

// Acquire claims the fact for the holder. Returns false if another holder
// already has an unexpired lease on it.
func (s *LeaseStore) Acquire(factID, holder string) bool {
	return s.cache.Add(factID, holder, gocache.DefaultExpiration) == nil
}

// Holder returns the current lease holder of a fact, if any
func (s *LeaseStore) Holder(factID string) (string, bool) {
	v, ok := s.cache.Get(factID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Release drops the lease if it is held by the given holder. Releasing a
// lease someone else holds is a no-op.
func (s *LeaseStore) Release(factID, holder string) bool {
	v, ok := s.cache.Get(factID)
	if !ok || v.(string) != holder {
		return false
	}
	s.cache.Delete(factID)
	return true
}

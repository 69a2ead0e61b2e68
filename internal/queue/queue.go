// Package queue presents flagged facts to reviewers: stable ordering and
// pagination over point-in-time snapshots, plus lease-based checkout so two
// reviewers are never handed the same item.
package queue

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
)

// ErrNoWork signals an empty queue or one where every item is leased out
var ErrNoWork = errors.New("no unleased items in the review queue")

// ErrSnapshotExpired signals a pagination token whose snapshot aged out
var ErrSnapshotExpired = errors.New("queue snapshot expired, request a new page")

// Entry is one fact awaiting review: a derived view, never persisted
type Entry struct {
	FactID     string         `json:"fact_id"`
	Domain     model.Domain   `json:"domain"`
	Category   string         `json:"category"`
	Item       string         `json:"item"`
	Value      model.Value    `json:"value"`
	Confidence int            `json:"confidence"`
	Version    int            `json:"version"`
	Severity   model.Severity `json:"severity"`   // Highest open flag severity
	FlaggedAt  time.Time      `json:"flagged_at"` // Earliest open flag creation
	OpenFlags  []model.Flag   `json:"open_flags"`
}

// Filter selects queue entries. Zero-valued fields match everything;
// set fields combine with AND semantics.
type Filter struct {
	Domain   model.Domain
	Severity *model.Severity
	Category string
}

func (f Filter) matches(e Entry) bool {
	if f.Domain != "" && e.Domain != f.Domain {
		return false
	}
	if f.Severity != nil && e.Severity != *f.Severity {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	return true
}

// Queue serves review work from the committed fact set
type Queue struct {
	mu        sync.Mutex
	store     store.Store
	cfg       model.QueueConfig
	leases    *cache.LeaseStore
	snapshots *cache.SnapshotCache
}

// New creates a review queue over the store
func New(st store.Store, cfg model.QueueConfig) *Queue {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &Queue{
		store:     st,
		cfg:       cfg,
		leases:    cache.NewLeaseStore(cfg.LeaseTTL),
		snapshots: cache.NewSnapshotCache(cfg.SnapshotTTL),
	}
}

// Page materializes a fresh snapshot for the filter and returns the
// requested zero-based page plus a token that pins the snapshot for
// subsequent pages. Ordering: severity descending, then domain, then
// earliest flag time.
func (q *Queue) Page(f Filter, page int) (entries []Entry, token string, total int, err error) {
	snap := q.buildSnapshot(f)
	token = uuid.NewString()
	q.snapshots.Put(token, snap)
	entries, total = paginate(snap, page, q.cfg.PageSize)
	return entries, token, total, nil
}

// PageByToken pages through a previously materialized snapshot, so the
// ordering stays stable even as corrections land concurrently
func (q *Queue) PageByToken(token string, page int) ([]Entry, int, error) {
	v, ok := q.snapshots.Get(token)
	if !ok {
		return nil, 0, ErrSnapshotExpired
	}
	snap := v.([]Entry)
	entries, total := paginate(snap, page, q.cfg.PageSize)
	return entries, total, nil
}

// Checkout hands the reviewer the highest-priority item they can lease.
// An item the reviewer already holds is returned again; items leased by
// others are skipped. Returns ErrNoWork when nothing is available.
func (q *Queue) Checkout(reviewer string) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.buildSnapshot(Filter{}) {
		if holder, held := q.leases.Holder(e.FactID); held {
			if holder == reviewer {
				return e, nil
			}
			continue
		}
		if q.leases.Acquire(e.FactID, reviewer) {
			return e, nil
		}
	}
	return Entry{}, ErrNoWork
}

// Skip releases the reviewer's lease without mutating the fact; the item
// stays in the queue for someone else
func (q *Queue) Skip(factID, reviewer string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.leases.Release(factID, reviewer)
}

// Release drops the reviewer's lease after a committed decision
func (q *Queue) Release(factID, reviewer string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.leases.Release(factID, reviewer)
}

// Invalidate drops cached snapshots after the fact set changed
func (q *Queue) Invalidate() {
	q.snapshots.Invalidate()
}

// buildSnapshot materializes the ordered queue view from committed state
func (q *Queue) buildSnapshot(f Filter) []Entry {
	var entries []Entry
	for _, fact := range q.store.Facts() {
		if fact.Status == model.StatusRejected {
			continue
		}
		open := q.store.OpenFlags(fact.ID)
		if len(open) == 0 {
			continue
		}

		e := Entry{
			FactID:     fact.ID,
			Domain:     fact.Domain,
			Category:   fact.Category,
			Item:       fact.Item,
			Value:      fact.Value,
			Confidence: fact.Confidence,
			Version:    fact.Version,
			Severity:   model.SeverityInfo,
			FlaggedAt:  open[0].CreatedAt,
			OpenFlags:  open,
		}
		for _, fl := range open {
			if fl.Severity > e.Severity {
				e.Severity = fl.Severity
			}
			if fl.CreatedAt.Before(e.FlaggedAt) {
				e.FlaggedAt = fl.CreatedAt
			}
		}
		if f.matches(e) {
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Severity != entries[j].Severity {
			return entries[i].Severity > entries[j].Severity
		}
		if entries[i].Domain.Rank() != entries[j].Domain.Rank() {
			return entries[i].Domain.Rank() < entries[j].Domain.Rank()
		}
		if !entries[i].FlaggedAt.Equal(entries[j].FlaggedAt) {
			return entries[i].FlaggedAt.Before(entries[j].FlaggedAt)
		}
		return entries[i].FactID < entries[j].FactID
	})
	return entries
}

// paginate slices one page out of an ordered snapshot
func paginate(snap []Entry, page, size int) ([]Entry, int) {
	total := len(snap)
	if page < 0 {
		page = 0
	}
	start := page * size
	if start >= total {
		return nil, total
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]Entry, end-start)
	copy(out, snap[start:end])
	return out, total
}

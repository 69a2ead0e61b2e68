// Package audit keeps the append-only history of every fact mutation.
// Entries are never updated or deleted; the trail only grows.
package audit

import (
	"sort"
	"sync"

	"github.com/ppiankov/credence/internal/model"
)

// Trail is the append-only sequence of correction records
type Trail struct {
	mu      sync.RWMutex
	entries []model.CorrectionRecord
	byFact  map[string][]int // fact id -> indexes into entries, append order
}

// NewTrail creates an empty audit trail
func NewTrail() *Trail {
	return &Trail{byFact: make(map[string][]int)}
}

// Append adds a record to the trail
func (t *Trail) Append(rec model.CorrectionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byFact[rec.FactID] = append(t.byFact[rec.FactID], len(t.entries))
	t.entries = append(t.entries, rec)
}

// ForFact returns the records for one fact in append order
func (t *Trail) ForFact(factID string) []model.CorrectionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	idxs := t.byFact[factID]
	out := make([]model.CorrectionRecord, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, t.entries[i])
	}
	return out
}

// All returns every record in global chronological order. Records appended
// within the same instant keep their append order.
func (t *Trail) All() []model.CorrectionRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.CorrectionRecord, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Len returns the number of records in the trail
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/audit"
	"github.com/ppiankov/credence/internal/match"
	"github.com/ppiankov/credence/internal/model"
)

// MemStore is the in-memory Store. Implements Store.
type MemStore struct {
	mu    sync.RWMutex
	facts map[string]*model.Fact
	flags map[string]*model.Flag // flag id -> flag
	trail *audit.Trail
}

// NewMemStore returns an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		facts: make(map[string]*model.Fact),
		flags: make(map[string]*model.Flag),
		trail: audit.NewTrail(),
	}
}

// Fact returns a deep copy of the fact, if present
func (s *MemStore) Fact(id string) (model.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facts[id]
	if !ok {
		return model.Fact{}, false
	}
	return f.Clone(), true
}

// Facts returns deep copies of all facts in stable id order
func (s *MemStore) Facts() []model.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CategoryCount returns the number of non-rejected facts in a category
func (s *MemStore) CategoryCount(d model.Domain, category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, f := range s.facts {
		if f.Domain == d && f.Category == category && f.Status != model.StatusRejected {
			count++
		}
	}
	return count
}

// FindItem finds a non-rejected fact by domain and item name,
// case-insensitively
func (s *MemStore) FindItem(d model.Domain, item string) (model.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(item))
	for _, f := range s.facts {
		if f.Domain == d && f.Status != model.StatusRejected &&
			strings.ToLower(strings.TrimSpace(f.Item)) == needle {
			return f.Clone(), true
		}
	}
	return model.Fact{}, false
}

// OpenFlags returns the unresolved flags of a fact, oldest first
func (s *MemStore) OpenFlags(factID string) []model.Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flagsLocked(factID, true)
}

// FlagsFor returns all flags of a fact, open and resolved, oldest first
func (s *MemStore) FlagsFor(factID string) []model.Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flagsLocked(factID, false)
}

func (s *MemStore) flagsLocked(factID string, openOnly bool) []model.Flag {
	var out []model.Flag
	for _, fl := range s.flags {
		if fl.FactID != factID {
			continue
		}
		if openOnly && fl.Resolved {
			continue
		}
		out = append(out, *fl)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// Flags returns every flag in the store
func (s *MemStore) Flags() []model.Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Flag, 0, len(s.flags))
	for _, fl := range s.flags {
		out = append(out, *fl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Put inserts a new fact. Ingest only: the id must not exist yet.
func (s *MemStore) Put(f model.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.facts[f.ID]; exists {
		return fmt.Errorf("fact %s already exists", f.ID)
	}
	c := f.Clone()
	s.facts[f.ID] = &c
	return nil
}

// Commit applies a change set atomically: every update bumps its fact's
// version by exactly 1 and appends its audit record; readers never observe
// a partially applied set.
func (s *MemStore) Commit(cs ChangeSet) error {
	if err := cs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Verify the whole set before touching anything
	for _, u := range cs.Updates {
		if _, ok := s.facts[u.FactID]; !ok {
			return fmt.Errorf("commit: %w: %s", model.ErrFactNotFound, u.FactID)
		}
	}

	for i, u := range cs.Updates {
		f := s.facts[u.FactID]
		f.Value = u.NewValue.Clone()
		if u.NewStatus != "" {
			f.Status = u.NewStatus
		}
		f.Evidence = append(f.Evidence, u.AddEvidence...)
		// Quotes are immutable but their match scores track the value
		match.Rescore(f)
		f.Version++

		rec := cs.Records[i]
		rec.Version = f.Version
		s.trail.Append(rec)
	}
	return nil
}

// AppendRecord adds a non-mutating audit entry (skip)
func (s *MemStore) AppendRecord(rec model.CorrectionRecord) {
	s.trail.Append(rec)
}

// ReconcileFlags brings a fact's open flags in line with the desired set
// produced by rule evaluation. Open flags whose (fact, rule) key is absent
// from the desired set are resolved; desired outcomes without an open flag
// get a new one; already-open matches are kept untouched so regeneration
// stays idempotent. Returns the fact's open flags after reconciliation.
func (s *MemStore) ReconcileFlags(factID string, desired []model.Flag) []model.Flag {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	wanted := make(map[string]model.Flag, len(desired))
	for _, fl := range desired {
		wanted[fl.RuleID] = fl
	}

	open := make(map[string]*model.Flag)
	for _, fl := range s.flags {
		if fl.FactID == factID && !fl.Resolved {
			open[fl.RuleID] = fl
		}
	}

	// Resolve flags whose condition no longer holds
	for ruleID, fl := range open {
		if _, still := wanted[ruleID]; !still {
			fl.Resolved = true
			t := now
			fl.ResolvedAt = &t
		}
	}

	// Raise flags for newly triggered conditions
	for ruleID, fl := range wanted {
		if _, already := open[ruleID]; already {
			continue
		}
		nf := fl
		nf.FactID = factID
		nf.Resolved = false
		if nf.CreatedAt.IsZero() {
			nf.CreatedAt = now
		}
		s.flags[nf.ID] = &nf
		if f, ok := s.facts[factID]; ok {
			f.FlagIDs = append(f.FlagIDs, nf.ID)
		}
	}

	return s.flagsLocked(factID, true)
}

// SetAssessment updates a fact's derived confidence and status. These are
// recomputed bookkeeping, not workflow mutations: no version bump, no
// audit record.
func (s *MemStore) SetAssessment(factID string, confidence int, status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.facts[factID]; ok {
		f.Confidence = confidence
		if status != "" {
			f.Status = status
		}
	}
}

// History returns the audit records of one fact in append order
func (s *MemStore) History(factID string) []model.CorrectionRecord {
	return s.trail.ForFact(factID)
}

// FullHistory returns every audit record in chronological order
func (s *MemStore) FullHistory() []model.CorrectionRecord {
	return s.trail.All()
}

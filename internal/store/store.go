// Package store holds the committed fact set, its flags, and the audit
// trail behind a single lock, so a correction's change set becomes visible
// to readers all at once or not at all.
package store

import (
	"fmt"

	"github.com/ppiankov/credence/internal/model"
)

// FactUpdate is one fact's portion of an atomic change set. The engine
// computes updates against a snapshot; the store applies them under one lock.
type FactUpdate struct {
	FactID      string
	NewValue    model.Value
	NewStatus   model.Status // Empty means status unchanged
	AddEvidence []model.Evidence
}

// ChangeSet is the full effect of one correction: the target fact plus all
// rippled dependents, with exactly one audit record per updated fact.
type ChangeSet struct {
	Updates []FactUpdate
	Records []model.CorrectionRecord
}

// Validate checks the one-record-per-update contract before commit
func (cs ChangeSet) Validate() error {
	if len(cs.Updates) != len(cs.Records) {
		return fmt.Errorf("change set has %d updates but %d records", len(cs.Updates), len(cs.Records))
	}
	return nil
}

// Store is the engine's view of fact persistence. MemStore is the only
// implementation shipped here; the contract is what a durable backend
// would have to honor (atomic commits, versioning, immutable history).
type Store interface {
	// Reads. Facts are returned as deep copies of committed state.
	Fact(id string) (model.Fact, bool)
	Facts() []model.Fact
	CategoryCount(d model.Domain, category string) int
	FindItem(d model.Domain, item string) (model.Fact, bool)

	// Flag reads.
	OpenFlags(factID string) []model.Flag
	FlagsFor(factID string) []model.Flag
	Flags() []model.Flag

	// Writes.
	Put(f model.Fact) error
	Commit(cs ChangeSet) error
	AppendRecord(rec model.CorrectionRecord)
	ReconcileFlags(factID string, desired []model.Flag) []model.Flag
	SetAssessment(factID string, confidence int, status model.Status)

	// History.
	History(factID string) []model.CorrectionRecord
	FullHistory() []model.CorrectionRecord
}

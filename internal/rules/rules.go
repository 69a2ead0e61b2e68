// Package rules implements the flagging rule engine. Evaluation is a pure
// function of a committed fact snapshot: running it twice without
// intervening changes yields the identical outcome set, which is what lets
// flag regeneration stay idempotent.
package rules

import (
	"sync"

	"github.com/ppiankov/credence/internal/model"
)

// Snapshot is a read-only view of the committed fact set. Rules never see
// in-flight correction state.
type Snapshot interface {
	Facts() []model.Fact
	Fact(id string) (model.Fact, bool)
	CategoryCount(d model.Domain, category string) int
	FindItem(d model.Domain, item string) (model.Fact, bool)
}

// Outcome is one triggered rule condition for one fact. Outcomes are keyed
// by (fact id, rule id) downstream, so a rule emits at most one per fact.
type Outcome struct {
	RuleID   string
	Type     model.FlagType
	Severity model.Severity
	Message  string
}

// Rule evaluates a single fact against the snapshot
type Rule interface {
	ID() string
	Evaluate(f model.Fact, snap Snapshot) (Outcome, bool)
}

// Engine runs the full rule set over a fact snapshot
type Engine struct {
	rules   []Rule
	workers int
}

// NewEngine creates the engine with the standard rule set.
// partialThreshold is the evidence match score below which support counts
// as partial (taken from the scoring config so both engines agree).
func NewEngine(cfg model.RulesConfig, partialThreshold int) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	return &Engine{
		workers: workers,
		rules: []Rule{
			&evidenceMissingRule{},
			&evidencePartialRule{threshold: partialThreshold},
			&minItemsRule{minItems: cfg.MinItems},
			&requiredFieldRule{required: cfg.RequiredFields},
			&totalMismatchRule{tolerance: cfg.Tolerance},
			&ratioRangeRule{ranges: cfg.RatioRanges},
			&crossDomainRule{},
		},
	}
}

// Evaluate runs every rule against every non-rejected fact and returns the
// triggered outcomes keyed by fact id. Facts are evaluated concurrently;
// outcomes for one fact keep the fixed rule order, so the result is
// deterministic for a given snapshot.
func (e *Engine) Evaluate(snap Snapshot) map[string][]Outcome {
	facts := snap.Facts()
	results := make([][]Outcome, len(facts))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.workers)

	for i, f := range facts {
		if f.Status == model.StatusRejected {
			continue
		}
		wg.Add(1)
		go func(idx int, fact model.Fact) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[idx] = e.EvaluateFact(fact, snap)
		}(i, f)
	}
	wg.Wait()

	out := make(map[string][]Outcome, len(facts))
	for i, f := range facts {
		if len(results[i]) > 0 {
			out[f.ID] = results[i]
		}
	}
	return out
}

// EvaluateFact runs the rule set against a single fact
func (e *Engine) EvaluateFact(f model.Fact, snap Snapshot) []Outcome {
	var outcomes []Outcome
	for _, r := range e.rules {
		if o, triggered := r.Evaluate(f, snap); triggered {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes
}

package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/credence/internal/graph"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
)

// Decision is one reviewer verdict on a fact
type Decision struct {
	FactID          string
	Action          model.ActionKind // confirm, correct, or reject
	NewValue        *model.Value     // Required for correct, ignored otherwise
	Reason          string           // Required, non-empty
	Reviewer        string
	ExpectedVersion int              // Optimistic concurrency check
	NewEvidence     []model.Evidence // Optional evidence attached by the correction
}

// PlannedChange is one fact's value change within a correction, either the
// reviewed target or a rippled dependent
type PlannedChange struct {
	FactID      string           `json:"fact_id"`
	Action      model.ActionKind `json:"action"`
	Before      model.Value      `json:"before"`
	After       model.Value      `json:"after"`
	FromVersion int              `json:"from_version"`
	ToVersion   int              `json:"to_version"`
	Reason      string           `json:"reason"`
}

// Summary is the full effect of a correction: the target change plus every
// rippled recomputation, in propagation order
type Summary struct {
	Changes   []PlannedChange `json:"changes"`
	Truncated bool            `json:"truncated"` // Ripple stopped at the depth bound
}

// Preview computes the full set of would-be changes without committing
// anything, so a reviewer can inspect the ripple before applying.
func (e *Engine) Preview(d Decision) (*Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(d, true)
}

// Apply validates and commits a reviewer decision as one atomic unit of
// work: either the target fact and all its rippled dependents are updated
// together, or nothing is.
func (e *Engine) Apply(ctx context.Context, d Decision) (*Summary, error) {
	if err := e.limiter.Wait(ctx, d.Reviewer); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(d, false)
}

func (e *Engine) applyLocked(d Decision, dryRun bool) (*Summary, error) {
	f, ok := e.store.Fact(d.FactID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrFactNotFound, d.FactID)
	}

	// Boundary validation: no state is touched past this block
	if strings.TrimSpace(d.Reason) == "" {
		return nil, fmt.Errorf("fact %s: %w", d.FactID, model.ErrMissingReason)
	}
	if d.ExpectedVersion != f.Version {
		return nil, &model.StaleVersionError{FactID: d.FactID, Expected: d.ExpectedVersion, Current: f.Version}
	}
	target, err := targetStatus(d.Action)
	if err != nil {
		return nil, err
	}
	if err := e.checkTransition(f, target); err != nil {
		return nil, err
	}

	newValue := f.Value
	if d.Action == model.ActionCorrect {
		if d.NewValue == nil {
			return nil, fmt.Errorf("fact %s: correction carries no new value", d.FactID)
		}
		newValue = *d.NewValue
	}

	// The dependency graph must be acyclic before any propagation starts.
	// A cycle is a data-model defect, not a reviewer mistake.
	g, err := graph.Build(e.store.Facts())
	if err != nil {
		e.log.Error("aborting correction: dependency cycle", "fact", d.FactID, "err", err)
		return nil, err
	}

	summary, err := e.plan(g, f, d, newValue)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return summary, nil
	}

	cs := e.changeSet(d, summary)
	if err := e.store.Commit(cs); err != nil {
		return nil, err
	}

	e.revalidateLocked()
	e.queue.Release(d.FactID, d.Reviewer)
	return summary, nil
}

// plan computes the target change and the breadth-first ripple over the
// dependents of the corrected fact, without writing anything. Every
// reachable dependent is recomputed exactly once, after all of its own
// inputs have settled, so a diamond-shaped graph yields a single change
// (and later a single audit record) per fact.
func (e *Engine) plan(g *graph.Graph, f model.Fact, d Decision, newValue model.Value) (*Summary, error) {
	summary := &Summary{
		Changes: []PlannedChange{{
			FactID:      f.ID,
			Action:      d.Action,
			Before:      f.Value,
			After:       newValue,
			FromVersion: f.Version,
			ToVersion:   f.Version + 1,
			Reason:      d.Reason,
		}},
	}

	// Confirm and reject keep the value; nothing downstream changes
	if d.Action != model.ActionCorrect {
		return summary, nil
	}

	scratch := map[string]model.Value{f.ID: newValue}
	lookup := func(id string) (model.Value, bool) {
		if v, ok := scratch[id]; ok {
			return v, true
		}
		dep, ok := e.store.Fact(id)
		if !ok {
			return model.Value{}, false
		}
		return dep.Value, true
	}

	order, truncated, err := e.rippleOrder(g, f.ID)
	if err != nil {
		return nil, err
	}
	summary.Truncated = truncated

	for _, id := range order {
		dep, ok := e.store.Fact(id)
		if !ok || dep.Derivation == nil {
			continue
		}
		recomputed, rerr := graph.Recompute(*dep.Derivation, lookup)
		if rerr != nil {
			e.log.Warn("skipping ripple step", "fact", id, "err", rerr)
			continue
		}
		if recomputed.Equal(dep.Value) {
			// Fixed point for this branch
			continue
		}
		scratch[id] = recomputed
		summary.Changes = append(summary.Changes, PlannedChange{
			FactID:      id,
			Action:      model.ActionRipple,
			Before:      dep.Value,
			After:       recomputed,
			FromVersion: dep.Version,
			ToVersion:   dep.Version + 1,
			Reason:      "ripple from " + f.ID,
		})
	}
	return summary, nil
}

// rippleOrder returns the dependents reachable from root within the depth
// bound, in an order where every fact appears after all of its inputs.
// Facts are layered by longest path from the corrected fact; in an acyclic
// graph every dependency edge strictly increases that depth, so ordering
// by it is a topological order of the reachable subgraph. The depth bound
// also guarantees termination if a cycle slips past validation.
func (e *Engine) rippleOrder(g *graph.Graph, root string) (order []string, truncated bool, err error) {
	depth := map[string]int{root: 0}
	frontier := []string{root}

	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			if depth[id] >= e.cfg.Ripple.MaxDepth {
				truncated = true
				continue
			}
			for _, dep := range g.Dependents(id) {
				if dep == root {
					// Defensive: the graph was validated acyclic already
					return nil, false, &model.CycleError{Path: []string{root, id, root}}
				}
				nd := depth[id] + 1
				if cur, seen := depth[dep]; !seen || nd > cur {
					depth[dep] = nd
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}

	order = make([]string, 0, len(depth)-1)
	for id := range depth {
		if id != root {
			order = append(order, id)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if depth[order[i]] != depth[order[j]] {
			return depth[order[i]] < depth[order[j]]
		}
		return order[i] < order[j]
	})
	return order, truncated, nil
}

// changeSet converts a planned summary into the atomic commit payload,
// with exactly one audit record per changed fact
func (e *Engine) changeSet(d Decision, summary *Summary) store.ChangeSet {
	now := time.Now().UTC()
	var cs store.ChangeSet

	for i, ch := range summary.Changes {
		update := store.FactUpdate{FactID: ch.FactID, NewValue: ch.After}
		rec := model.CorrectionRecord{
			ID:        uuid.NewString(),
			FactID:    ch.FactID,
			Action:    ch.Action,
			Before:    ch.Before,
			After:     ch.After,
			Reason:    ch.Reason,
			Reviewer:  model.SystemReviewer,
			Timestamp: now,
		}

		if i == 0 {
			// The reviewed target carries the decision, reviewer, and
			// any newly attached evidence
			status, _ := targetStatus(d.Action)
			update.NewStatus = status
			rec.Reviewer = d.Reviewer
			for _, ev := range d.NewEvidence {
				if ev.ID == "" {
					ev.ID = uuid.NewString()
				}
				update.AddEvidence = append(update.AddEvidence, ev)
			}
			rec.Evidence = update.AddEvidence
		}

		cs.Updates = append(cs.Updates, update)
		cs.Records = append(cs.Records, rec)
	}
	return cs
}

// targetStatus maps a decision action to the status it moves the fact into
func targetStatus(a model.ActionKind) (model.Status, error) {
	switch a {
	case model.ActionConfirm:
		return model.StatusConfirmed, nil
	case model.ActionCorrect:
		return model.StatusCorrected, nil
	case model.ActionReject:
		return model.StatusRejected, nil
	}
	return "", fmt.Errorf("unsupported decision action %q", a)
}

// checkTransition enforces the fact status machine. Confirmed and Rejected
// are terminal except for a superseding correction; confirmation is blocked
// while Critical or Error flags stay open.
func (e *Engine) checkTransition(f model.Fact, to model.Status) error {
	switch f.Status {
	case model.StatusConfirmed, model.StatusRejected:
		if to != model.StatusCorrected {
			return &model.InvalidTransitionError{
				FactID: f.ID,
				From:   f.Status,
				To:     to,
				Note:   "only a superseding correction may follow a terminal decision",
			}
		}
	}

	if to == model.StatusConfirmed {
		var blocking []string
		for _, fl := range e.store.OpenFlags(f.ID) {
			if fl.Severity.Blocking() {
				blocking = append(blocking, fl.RuleID)
			}
		}
		if len(blocking) > 0 {
			return &model.InvalidTransitionError{
				FactID: f.ID,
				From:   f.Status,
				To:     to,
				Note:   "open blocking flags must be resolved first: " + strings.Join(blocking, ", "),
			}
		}
	}
	return nil
}

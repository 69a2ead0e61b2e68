package rules

import (
	"fmt"
	"math"

	"github.com/ppiankov/credence/internal/graph"
	"github.com/ppiankov/credence/internal/model"
)

// totalMismatchRule fires when a derived numeric value does not reconcile
// with its recomputation over current inputs within the configured relative
// tolerance. A corrected component that has not yet rippled shows up here.
type totalMismatchRule struct {
	tolerance float64
}

func (r *totalMismatchRule) ID() string { return "consistency.total_mismatch" }

func (r *totalMismatchRule) Evaluate(f model.Fact, snap Snapshot) (Outcome, bool) {
	if f.Derivation == nil || f.Value.Kind != model.ValueNumber {
		return Outcome{}, false
	}

	expected, err := graph.Recompute(*f.Derivation, func(id string) (model.Value, bool) {
		dep, ok := snap.Fact(id)
		if !ok {
			return model.Value{}, false
		}
		return dep.Value, true
	})
	if err != nil {
		// Unresolvable inputs are a completeness problem, not a mismatch
		return Outcome{}, false
	}

	diff := math.Abs(f.Value.Number - expected.Number)
	allowed := r.tolerance * math.Max(math.Abs(expected.Number), 1)
	if diff <= allowed {
		return Outcome{}, false
	}
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagConsistency,
		Severity: model.SeverityError,
		Message: fmt.Sprintf("%q is %s but its components give %s",
			f.Item, f.Value.String(), expected.String()),
	}, true
}

// ratioRangeRule fires when a derived ratio falls outside the expected
// numeric range configured for its category.
type ratioRangeRule struct {
	ranges map[string]model.RatioRange
}

func (r *ratioRangeRule) ID() string { return "consistency.ratio_range" }

func (r *ratioRangeRule) Evaluate(f model.Fact, _ Snapshot) (Outcome, bool) {
	rr, ok := r.ranges[f.Category]
	if !ok || f.Value.Kind != model.ValueNumber {
		return Outcome{}, false
	}
	if f.Value.Number >= rr.Min && f.Value.Number <= rr.Max {
		return Outcome{}, false
	}
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagConsistency,
		Severity: model.SeverityWarning,
		Message: fmt.Sprintf("%q is %s, outside the expected range [%g, %g]",
			f.Item, f.Value.String(), rr.Min, rr.Max),
	}, true
}

package rules

import (
	"fmt"

	"github.com/ppiankov/credence/internal/match"
	"github.com/ppiankov/credence/internal/model"
)

// evidenceMissingRule fires when no attached quote supports the claimed
// value at all: either the fact carries no evidence, or no quote shares a
// single token with the value.
type evidenceMissingRule struct{}

func (r *evidenceMissingRule) ID() string { return "evidence.missing" }

func (r *evidenceMissingRule) Evaluate(f model.Fact, _ Snapshot) (Outcome, bool) {
	if len(f.Evidence) == 0 {
		return Outcome{
			RuleID:   r.ID(),
			Type:     model.FlagEvidence,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("%q has no supporting evidence attached", f.Item),
		}, true
	}
	if match.Best(f) == 0 {
		return Outcome{
			RuleID:   r.ID(),
			Type:     model.FlagEvidence,
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("no quote matches the claimed value %q", f.Value.String()),
		}, true
	}
	return Outcome{}, false
}

// evidencePartialRule fires when the best quote only partially matches the
// claimed value. Subsumed by evidence.missing when there is no match at all.
type evidencePartialRule struct {
	threshold int
}

func (r *evidencePartialRule) ID() string { return "evidence.partial" }

func (r *evidencePartialRule) Evaluate(f model.Fact, _ Snapshot) (Outcome, bool) {
	best := match.Best(f)
	if best == 0 || best >= r.threshold || len(f.Evidence) == 0 {
		return Outcome{}, false
	}
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagEvidence,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("best quote matches the claimed value only partially (%d/100)", best),
	}, true
}

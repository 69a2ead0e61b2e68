package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// crossDomainRule fires when an entity a fact references has no
// corroborating record in the expected domain. A server named in the
// financials domain should also exist in the infrastructure inventory.
type crossDomainRule struct{}

func (r *crossDomainRule) ID() string { return "crossdomain.missing_record" }

func (r *crossDomainRule) Evaluate(f model.Fact, snap Snapshot) (Outcome, bool) {
	var missing []string
	for _, ref := range f.References {
		if _, ok := snap.FindItem(ref.Domain, ref.Item); !ok {
			missing = append(missing, fmt.Sprintf("%q in %s", ref.Item, ref.Domain))
		}
	}
	if len(missing) == 0 {
		return Outcome{}, false
	}
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagCrossDomain,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("%q has no corroborating record for %s", f.Item, strings.Join(missing, ", ")),
	}, true
}

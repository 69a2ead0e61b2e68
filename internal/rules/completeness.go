package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// minItemsRule fires on every fact of a category that holds fewer items
// than the configured minimum. Extraction gaps show up as thin categories.
type minItemsRule struct {
	minItems map[string]int
}

func (r *minItemsRule) ID() string { return "completeness.min_items" }

func (r *minItemsRule) Evaluate(f model.Fact, snap Snapshot) (Outcome, bool) {
	min, ok := r.minItems[f.Category]
	if !ok {
		return Outcome{}, false
	}
	count := snap.CategoryCount(f.Domain, f.Category)
	if count >= min {
		return Outcome{}, false
	}
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagCompleteness,
		Severity: model.SeverityWarning,
		Message:  fmt.Sprintf("category %q has %d items, expected at least %d", f.Category, count, min),
	}, true
}

// requiredFieldRule fires when a fact's value is empty or a structured
// value is missing configured required fields.
type requiredFieldRule struct {
	required map[string][]string
}

func (r *requiredFieldRule) ID() string { return "completeness.required_field" }

func (r *requiredFieldRule) Evaluate(f model.Fact, _ Snapshot) (Outcome, bool) {
	if f.Value.Empty() {
		return Outcome{
			RuleID:   r.ID(),
			Type:     model.FlagCompleteness,
			Severity: model.SeverityError,
			Message:  fmt.Sprintf("%q has no value", f.Item),
		}, true
	}

	required, ok := r.required[f.Category]
	if !ok || f.Value.Kind != model.ValueStruct {
		return Outcome{}, false
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(f.Value.Fields[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return Outcome{}, false
	}
	sort.Strings(missing)
	return Outcome{
		RuleID:   r.ID(),
		Type:     model.FlagCompleteness,
		Severity: model.SeverityError,
		Message:  fmt.Sprintf("%q is missing required fields: %s", f.Item, strings.Join(missing, ", ")),
	}, true
}

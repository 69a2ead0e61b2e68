package aggregate

import (
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
)

func testAggregateConfig() model.AggregateConfig {
	return model.AggregateConfig{GoodConfidence: 80, WarnConfidence: 60, CacheTTL: time.Minute}
}

func seed(t *testing.T, st *store.MemStore, f model.Fact) {
	t.Helper()
	if f.Version == 0 {
		f.Version = 1
	}
	if err := st.Put(f); err != nil {
		t.Fatalf("put %s: %v", f.ID, err)
	}
}

func TestAggregator_WeightedConfidence(t *testing.T) {
	st := store.NewMemStore()
	// Weight is 1 + evidence count: 100 * 3 + 40 * 1 over weight 4 = 85
	seed(t, st, model.Fact{
		ID: "org-1", Domain: model.DomainOrganization, Confidence: 100,
		Evidence: []model.Evidence{{ID: "e1"}, {ID: "e2"}},
	})
	seed(t, st, model.Fact{ID: "org-2", Domain: model.DomainOrganization, Confidence: 40})

	statuses := New(st, testAggregateConfig()).Status()
	if len(statuses) != 1 {
		t.Fatalf("expected one domain, got %d", len(statuses))
	}
	s := statuses[0]
	if s.FactCount != 2 {
		t.Errorf("expected 2 facts, got %d", s.FactCount)
	}
	if s.MeanConfidence != 70 {
		t.Errorf("expected mean 70, got %d", s.MeanConfidence)
	}
	if s.WeightedConfidence != 85 {
		t.Errorf("expected weighted 85, got %d", s.WeightedConfidence)
	}
	if s.Icon != IconGood {
		t.Errorf("expected good icon at 85 with no blocking flags, got %s", s.Icon)
	}
}

func TestAggregator_BlockingFlagsNeverGood(t *testing.T) {
	st := store.NewMemStore()
	seed(t, st, model.Fact{
		ID: "fin-1", Domain: model.DomainFinancials, Confidence: 95,
		Evidence: []model.Evidence{{ID: "e1"}},
	})
	st.ReconcileFlags("fin-1", []model.Flag{
		{ID: "fl1", RuleID: "consistency.total_mismatch", Severity: model.SeverityError},
	})

	s := New(st, testAggregateConfig()).Status()[0]
	if s.OpenError != 1 {
		t.Errorf("expected 1 open error flag counted, got %d", s.OpenError)
	}
	if s.Icon == IconGood {
		t.Error("a domain with open blocking flags must not show good")
	}
}

func TestAggregator_LowConfidenceWithBlockingIsError(t *testing.T) {
	st := store.NewMemStore()
	seed(t, st, model.Fact{ID: "sec-1", Domain: model.DomainSecurity, Confidence: 10})
	st.ReconcileFlags("sec-1", []model.Flag{
		{ID: "fl1", RuleID: "evidence.missing", Severity: model.SeverityCritical},
	})

	s := New(st, testAggregateConfig()).Status()[0]
	if s.Icon != IconError {
		t.Errorf("expected error icon, got %s", s.Icon)
	}
	if s.OpenCritical != 1 {
		t.Errorf("expected 1 open critical flag, got %d", s.OpenCritical)
	}
}

func TestAggregator_ExcludesRejectedAndOrdersDomains(t *testing.T) {
	st := store.NewMemStore()
	seed(t, st, model.Fact{ID: "fin-1", Domain: model.DomainFinancials, Confidence: 90})
	seed(t, st, model.Fact{ID: "org-1", Domain: model.DomainOrganization, Confidence: 90})
	seed(t, st, model.Fact{ID: "org-2", Domain: model.DomainOrganization, Confidence: 0, Status: model.StatusRejected})

	statuses := New(st, testAggregateConfig()).Status()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(statuses))
	}
	if statuses[0].Domain != model.DomainOrganization || statuses[1].Domain != model.DomainFinancials {
		t.Errorf("expected stable domain order, got %v then %v", statuses[0].Domain, statuses[1].Domain)
	}
	if statuses[0].FactCount != 1 {
		t.Errorf("expected rejected fact excluded, got %d", statuses[0].FactCount)
	}
}

func TestAggregator_CacheAndInvalidate(t *testing.T) {
	st := store.NewMemStore()
	seed(t, st, model.Fact{ID: "org-1", Domain: model.DomainOrganization, Confidence: 50})

	agg := New(st, testAggregateConfig())
	before := agg.Status()[0].MeanConfidence

	st.SetAssessment("org-1", 90, "")

	if got := agg.Status()[0].MeanConfidence; got != before {
		t.Errorf("expected cached rollup until invalidation, got %d", got)
	}

	agg.Invalidate()
	if got := agg.Status()[0].MeanConfidence; got != 90 {
		t.Errorf("expected recomputed rollup after invalidation, got %d", got)
	}
}

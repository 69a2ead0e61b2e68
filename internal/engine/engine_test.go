package engine

import (
	"errors"
	"testing"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	return New(model.DefaultConfig(), WithStore(st)), st
}

// headcountFacts is the standing scenario: two team headcounts, their
// derived total, an annual cost, and a derived cost per person in Team A.
func headcountFacts() []model.Fact {
	return []model.Fact{
		{
			ID: "team-a-headcount", Domain: model.DomainOrganization, Category: "headcount",
			Item:     "Team A headcount",
			Value:    model.NumberValue(10),
			Evidence: []model.Evidence{{ID: "e1", Quote: "Team A has 10 engineers on staff", Source: "org-chart.pdf"}},
		},
		{
			ID: "team-b-headcount", Domain: model.DomainOrganization, Category: "headcount",
			Item:     "Team B headcount",
			Value:    model.NumberValue(20),
			Evidence: []model.Evidence{{ID: "e2", Quote: "Team B has 20 engineers on staff", Source: "org-chart.pdf"}},
		},
		{
			ID: "total-it-headcount", Domain: model.DomainOrganization, Category: "headcount",
			Item:       "Total IT headcount",
			Value:      model.NumberValue(30),
			Evidence:   []model.Evidence{{ID: "e3", Quote: "30 IT staff in total", Source: "report.pdf"}},
			DependsOn:  []string{"team-a-headcount", "team-b-headcount"},
			Derivation: &model.Derivation{Op: model.DeriveSum, Inputs: []string{"team-a-headcount", "team-b-headcount"}},
		},
		{
			ID: "it-cost-total", Domain: model.DomainFinancials, Category: "costs",
			Item:     "Annual Team A cost",
			Value:    model.NumberValue(500000),
			Evidence: []model.Evidence{{ID: "e4", Quote: "Team A costs 500000 annually", Source: "budget.xlsx"}},
		},
		{
			ID: "cost-per-person", Domain: model.DomainFinancials, Category: "costs",
			Item:       "Cost per person in Team A",
			Value:      model.NumberValue(50000),
			Evidence:   []model.Evidence{{ID: "e5", Quote: "works out to 50000 per head", Source: "budget.xlsx"}},
			DependsOn:  []string{"it-cost-total", "team-a-headcount"},
			Derivation: &model.Derivation{Op: model.DeriveRatio, Inputs: []string{"it-cost-total", "team-a-headcount"}},
		},
	}
}

func TestIngest_ScoresAndValidates(t *testing.T) {
	eng, st := newTestEngine(t)
	if err := eng.Ingest(headcountFacts()); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	f, ok := st.Fact("team-a-headcount")
	if !ok {
		t.Fatal("expected team-a-headcount stored")
	}
	if f.Confidence != 100 {
		t.Errorf("expected full confidence for a fully supported claim, got %d", f.Confidence)
	}
	if f.Status != model.StatusAIValidated {
		t.Errorf("expected ai_validated without blocking flags, got %s", f.Status)
	}
	if f.Version != 1 {
		t.Errorf("expected version 1 after ingest, got %d", f.Version)
	}
	if len(st.OpenFlags("team-a-headcount")) != 0 {
		t.Errorf("expected no flags, got %v", st.OpenFlags("team-a-headcount"))
	}
}

func TestIngest_CycleRejectedWithoutSideEffects(t *testing.T) {
	eng, st := newTestEngine(t)

	cyclic := []model.Fact{
		{ID: "a", Value: model.NumberValue(1), DependsOn: []string{"b"}},
		{ID: "b", Value: model.NumberValue(2), DependsOn: []string{"a"}},
	}
	err := eng.Ingest(cyclic)
	if !errors.Is(err, model.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	if len(st.Facts()) != 0 {
		t.Error("a rejected batch must leave the store empty")
	}
}

func TestIngest_SupportedTextClaim(t *testing.T) {
	eng, st := newTestEngine(t)
	facts := []model.Fact{{
		ID: "hypervisor", Domain: model.DomainInfrastructure, Category: "virtualization",
		Item:  "Hypervisor",
		Value: model.TextValue("VMware vSphere 6.7"),
		Evidence: []model.Evidence{{
			ID: "e1", Quote: "VMware vSphere 6.7 hosting 340 production VMs", Source: "assessment.docx",
		}},
	}}
	if err := eng.Ingest(facts); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	f, _ := st.Fact("hypervisor")
	if f.Confidence != 100 {
		t.Errorf("expected maximal confidence for a quoted claim, got %d", f.Confidence)
	}
	if len(st.OpenFlags("hypervisor")) != 0 {
		t.Errorf("expected no flags, got %v", st.OpenFlags("hypervisor"))
	}
	if f.Evidence[0].MatchScore != 100 {
		t.Errorf("expected evidence match 100, got %d", f.Evidence[0].MatchScore)
	}
}

func TestIngest_UnsupportedClaimRoutedToReview(t *testing.T) {
	eng, st := newTestEngine(t)
	facts := []model.Fact{{
		ID: "hypervisor", Domain: model.DomainInfrastructure, Category: "virtualization",
		Item:  "Hypervisor",
		Value: model.TextValue("Hyper-V 2019"),
		Evidence: []model.Evidence{{
			ID: "e1", Quote: "The estate runs VMware vSphere 6.7 across two datacenters", Source: "assessment.docx",
		}},
	}}
	if err := eng.Ingest(facts); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	f, _ := st.Fact("hypervisor")
	if f.Status != model.StatusHumanPending {
		t.Errorf("expected human_pending for an unsupported claim, got %s", f.Status)
	}
	if f.Confidence != 0 {
		t.Errorf("expected zero confidence, got %d", f.Confidence)
	}

	open := st.OpenFlags("hypervisor")
	if len(open) != 1 || open[0].RuleID != "evidence.missing" {
		t.Fatalf("expected a single evidence.missing flag, got %v", open)
	}
	if open[0].Severity != model.SeverityCritical {
		t.Errorf("expected critical severity, got %v", open[0].Severity)
	}
}

func TestRevalidate_Idempotent(t *testing.T) {
	eng, st := newTestEngine(t)
	if err := eng.Ingest([]model.Fact{{
		ID: "hypervisor", Domain: model.DomainInfrastructure,
		Item: "Hypervisor", Value: model.TextValue("Hyper-V"),
	}}); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	first := st.OpenFlags("hypervisor")
	eng.Revalidate()
	second := st.OpenFlags("hypervisor")

	if len(first) != len(second) {
		t.Fatalf("revalidation changed the open flag count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("revalidation replaced flag %s with %s", first[i].ID, second[i].ID)
		}
	}
}

func TestSkip_RecordsAuditWithoutMutation(t *testing.T) {
	eng, st := newTestEngine(t)
	if err := eng.Ingest(headcountFacts()); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if err := eng.Skip("team-a-headcount", "alice", "need the org chart first"); err != nil {
		t.Fatalf("skip failed: %v", err)
	}

	f, _ := st.Fact("team-a-headcount")
	if f.Version != 1 {
		t.Errorf("skip must not bump the version, got %d", f.Version)
	}

	history := eng.History("team-a-headcount")
	if len(history) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(history))
	}
	rec := history[0]
	if rec.Action != model.ActionSkip || rec.Reviewer != "alice" || rec.Version != 1 {
		t.Errorf("unexpected skip record %+v", rec)
	}
}

func TestAssess_Breakdown(t *testing.T) {
	eng, _ := newTestEngine(t)
	if err := eng.Ingest(headcountFacts()); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	asmt, err := eng.Assess("team-a-headcount")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if asmt.Confidence != 100 || asmt.Band != model.BandHigh {
		t.Errorf("expected 100/high, got %d/%s", asmt.Confidence, asmt.Band)
	}

	if _, err := eng.Assess("ghost"); !errors.Is(err, model.ErrFactNotFound) {
		t.Errorf("expected ErrFactNotFound, got %v", err)
	}
}

func TestNextStatus(t *testing.T) {
	blocking := []model.Flag{{Severity: model.SeverityCritical}}
	clean := []model.Flag{{Severity: model.SeverityWarning}}

	tests := []struct {
		name string
		cur  model.Status
		open []model.Flag
		want model.Status
	}{
		{"extracted clean", model.StatusExtracted, clean, model.StatusAIValidated},
		{"extracted blocked", model.StatusExtracted, blocking, model.StatusHumanPending},
		{"pending cleared", model.StatusHumanPending, clean, model.StatusAIValidated},
		{"pending still blocked", model.StatusHumanPending, blocking, ""},
		{"confirmed pulled back", model.StatusConfirmed, blocking, model.StatusHumanPending},
		{"confirmed stays", model.StatusConfirmed, clean, ""},
		{"rejected stays", model.StatusRejected, blocking, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextStatus(tt.cur, tt.open); got != tt.want {
				t.Errorf("nextStatus(%s): expected %q, got %q", tt.cur, tt.want, got)
			}
		})
	}
}

package match

import (
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func TestScore_FullContainment(t *testing.T) {
	value := model.TextValue("VMware vSphere 6.7")
	quote := "The estate runs VMware vSphere 6.7 across two datacenters"

	if got := Score(value, quote); got != 100 {
		t.Errorf("expected 100 for contained claim, got %d", got)
	}
}

func TestScore_CaseAndPunctuationInsensitive(t *testing.T) {
	value := model.TextValue("vSphere 6.7")
	quote := "Virtualization: VSPHERE, 6.7!"

	if got := Score(value, quote); got != 100 {
		t.Errorf("expected 100 regardless of casing and punctuation, got %d", got)
	}
}

func TestScore_NumericClaim(t *testing.T) {
	value := model.NumberValue(10)
	quote := "Team A has 10 engineers on staff"

	if got := Score(value, quote); got != 100 {
		t.Errorf("expected 100 for numeric claim present in quote, got %d", got)
	}
}

func TestScore_NoSharedTokens(t *testing.T) {
	value := model.TextValue("Hyper-V 2019")
	quote := "The mainframe handles batch settlement overnight"

	if got := Score(value, quote); got != 0 {
		t.Errorf("expected 0 for zero shared tokens, got %d", got)
	}
}

func TestScore_PartialTokenOverlap(t *testing.T) {
	// Claim tokens: vmware vsphere 6 7; quote shares only "vsphere"
	value := model.TextValue("VMware vSphere 6.7")
	quote := "vSphere is deployed"

	if got := Score(value, quote); got != 25 {
		t.Errorf("expected 25 for 1 of 4 matched tokens, got %d", got)
	}
}

func TestScore_EmptyInputs(t *testing.T) {
	if got := Score(model.TextValue(""), "some quote"); got != 0 {
		t.Errorf("expected 0 for empty claim, got %d", got)
	}
	if got := Score(model.TextValue("claim"), ""); got != 0 {
		t.Errorf("expected 0 for empty quote, got %d", got)
	}
}

func TestBest_PicksHighestScore(t *testing.T) {
	f := model.Fact{
		Evidence: []model.Evidence{
			{Quote: "a", MatchScore: 40},
			{Quote: "b", MatchScore: 90},
			{Quote: "c", MatchScore: 10},
		},
	}
	if got := Best(f); got != 90 {
		t.Errorf("expected best 90, got %d", got)
	}

	if got := Best(model.Fact{}); got != 0 {
		t.Errorf("expected 0 for no evidence, got %d", got)
	}
}

func TestRescore_TracksValueChanges(t *testing.T) {
	f := model.Fact{
		Value: model.NumberValue(10),
		Evidence: []model.Evidence{
			{Quote: "Team A has 10 engineers"},
			{Quote: "budget review pending"},
		},
	}

	if best := Rescore(&f); best != 100 {
		t.Errorf("expected best 100 after rescore, got %d", best)
	}
	if f.Evidence[1].MatchScore != 0 {
		t.Errorf("expected unrelated quote to score 0, got %d", f.Evidence[1].MatchScore)
	}

	// A corrected value no longer present in the quotes drops the score
	f.Value = model.NumberValue(15)
	if best := Rescore(&f); best != 0 {
		t.Errorf("expected best 0 after value change, got %d", best)
	}
}

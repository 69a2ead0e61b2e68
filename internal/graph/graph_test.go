package graph

import (
	"errors"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func TestBuild_EdgesFromDependsOn(t *testing.T) {
	facts := []model.Fact{
		{ID: "team-a"},
		{ID: "team-b"},
		{ID: "total", DependsOn: []string{"team-a", "team-b"}},
		{ID: "per-head", DependsOn: []string{"total"}},
	}

	g, err := Build(facts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	deps := g.Dependents("team-a")
	if len(deps) != 1 || deps[0] != "total" {
		t.Errorf("expected team-a dependents [total], got %v", deps)
	}
	ins := g.Dependencies("per-head")
	if len(ins) != 1 || ins[0] != "total" {
		t.Errorf("expected per-head dependencies [total], got %v", ins)
	}
	if !g.Contains("team-b") {
		t.Error("expected graph to contain team-b")
	}
	if g.Contains("ghost") {
		t.Error("expected graph not to contain unknown id")
	}
}

func TestBuild_UnknownDependencyIgnored(t *testing.T) {
	facts := []model.Fact{
		{ID: "total", DependsOn: []string{"not-ingested"}},
	}

	g, err := Build(facts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if deps := g.Dependencies("total"); len(deps) != 0 {
		t.Errorf("expected no edges from unknown facts, got %v", deps)
	}
}

func TestBuild_CycleDetected(t *testing.T) {
	facts := []model.Fact{
		{ID: "a", DependsOn: []string{"c"}},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"b"}},
	}

	_, err := Build(facts)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if !errors.Is(err, model.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}

	var cerr *model.CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *model.CycleError, got %T", err)
	}
	if len(cerr.Path) < 4 {
		t.Errorf("expected cycle path of at least 4 ids, got %v", cerr.Path)
	}
	if cerr.Path[0] != cerr.Path[len(cerr.Path)-1] {
		t.Errorf("expected cycle path to close on itself, got %v", cerr.Path)
	}
}

func TestBuild_SelfCycleDetected(t *testing.T) {
	facts := []model.Fact{
		{ID: "a", DependsOn: []string{"a"}},
	}

	_, err := Build(facts)
	if !errors.Is(err, model.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected for self edge, got %v", err)
	}
}

func TestBuild_DiamondIsAcyclic(t *testing.T) {
	facts := []model.Fact{
		{ID: "root"},
		{ID: "left", DependsOn: []string{"root"}},
		{ID: "right", DependsOn: []string{"root"}},
		{ID: "sink", DependsOn: []string{"left", "right"}},
	}

	if _, err := Build(facts); err != nil {
		t.Errorf("diamond should be acyclic, got %v", err)
	}
}

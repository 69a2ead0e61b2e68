package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

const ingestYAML = `facts:
  - id: team-a-headcount
    domain: organization
    category: headcount
    item: Team A headcount
    value:
      kind: number
      number: 10
    evidence:
      - quote: Team A has 10 engineers on staff
        source: org-chart.pdf
  - id: team-b-headcount
    domain: organization
    category: headcount
    item: Team B headcount
    value:
      kind: number
      number: 20
  - id: total-it-headcount
    domain: organization
    category: headcount
    item: Total IT headcount
    value:
      kind: number
      number: 30
    depends_on: [team-a-headcount, team-b-headcount]
    derivation:
      op: sum
      inputs: [team-a-headcount, team-b-headcount]
`

func writeIngest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facts.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadIngestFile(t *testing.T) {
	file, err := ReadIngestFile(writeIngest(t, ingestYAML))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(file.Facts) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(file.Facts))
	}
	if file.Facts[2].Derivation == nil || file.Facts[2].Derivation.Op != model.DeriveSum {
		t.Error("expected sum derivation parsed")
	}
}

func TestReadIngestFile_Invalid(t *testing.T) {
	if _, err := ReadIngestFile(writeIngest(t, "facts:\n  - domain: organization\n")); err == nil {
		t.Error("expected error for a fact without an id")
	}

	noEdges := `facts:
  - id: total
    value:
      kind: number
      number: 30
    derivation:
      op: sum
      inputs: [a, b]
`
	if _, err := ReadIngestFile(writeIngest(t, noEdges)); err == nil {
		t.Error("expected error for a derivation without depends_on edges")
	}
}

func TestToFacts_DenormalizesDependents(t *testing.T) {
	file, err := ReadIngestFile(writeIngest(t, ingestYAML))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	facts := file.ToFacts()
	byID := make(map[string]model.Fact, len(facts))
	for _, f := range facts {
		byID[f.ID] = f
	}

	teamA := byID["team-a-headcount"]
	if len(teamA.Dependents) != 1 || teamA.Dependents[0] != "total-it-headcount" {
		t.Errorf("expected dependents denormalized from depends_on, got %v", teamA.Dependents)
	}
	if teamA.Status != model.StatusExtracted || teamA.Version != 1 {
		t.Errorf("expected fresh facts at extracted/v1, got %s/v%d", teamA.Status, teamA.Version)
	}
	if len(teamA.Evidence) != 1 || teamA.Evidence[0].ID == "" {
		t.Error("expected evidence carried over with generated ids")
	}
}

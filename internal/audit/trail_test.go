package audit

import (
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

func TestTrail_AppendAndForFact(t *testing.T) {
	trail := NewTrail()
	now := time.Now().UTC()

	trail.Append(model.CorrectionRecord{ID: "r1", FactID: "team-a", Timestamp: now})
	trail.Append(model.CorrectionRecord{ID: "r2", FactID: "total", Timestamp: now.Add(time.Second)})
	trail.Append(model.CorrectionRecord{ID: "r3", FactID: "team-a", Timestamp: now.Add(2 * time.Second)})

	if trail.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", trail.Len())
	}

	forFact := trail.ForFact("team-a")
	if len(forFact) != 2 {
		t.Fatalf("expected 2 records for team-a, got %d", len(forFact))
	}
	if forFact[0].ID != "r1" || forFact[1].ID != "r3" {
		t.Errorf("expected append order r1, r3, got %s, %s", forFact[0].ID, forFact[1].ID)
	}

	if got := trail.ForFact("unknown"); len(got) != 0 {
		t.Errorf("expected no records for unknown fact, got %d", len(got))
	}
}

func TestTrail_AllChronological(t *testing.T) {
	trail := NewTrail()
	now := time.Now().UTC()

	// Appended out of timestamp order
	trail.Append(model.CorrectionRecord{ID: "later", Timestamp: now.Add(time.Minute)})
	trail.Append(model.CorrectionRecord{ID: "earlier", Timestamp: now})

	all := trail.All()
	if all[0].ID != "earlier" || all[1].ID != "later" {
		t.Errorf("expected chronological order, got %s then %s", all[0].ID, all[1].ID)
	}
}

func TestTrail_AllReturnsCopy(t *testing.T) {
	trail := NewTrail()
	trail.Append(model.CorrectionRecord{ID: "r1", FactID: "team-a", Timestamp: time.Now()})

	all := trail.All()
	all[0].ID = "tampered"

	if trail.All()[0].ID != "r1" {
		t.Error("mutating the returned slice leaked into the trail")
	}
}

package model

import (
	"encoding/json"
	"testing"
)

func TestSeverity_Ordering(t *testing.T) {
	if !(SeverityCritical > SeverityError && SeverityError > SeverityWarning && SeverityWarning > SeverityInfo) {
		t.Error("severity constants must order critical > error > warning > info")
	}
}

func TestSeverity_Blocking(t *testing.T) {
	if SeverityWarning.Blocking() || SeverityInfo.Blocking() {
		t.Error("warning and info must not block confirmation")
	}
	if !SeverityError.Blocking() || !SeverityCritical.Blocking() {
		t.Error("error and critical must block confirmation")
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("critical")
	if err != nil || s != SeverityCritical {
		t.Errorf("expected critical, got %v (%v)", s, err)
	}
	if _, err := ParseSeverity("catastrophic"); err == nil {
		t.Error("expected error for unknown severity name")
	}
}

func TestSeverity_JSONByName(t *testing.T) {
	data, err := json.Marshal(SeverityError)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"error"` {
		t.Errorf("expected severity to serialize by name, got %s", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"warning"`), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s != SeverityWarning {
		t.Errorf("expected warning, got %v", s)
	}
}

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		confidence int
		band       ConfidenceBand
	}{
		{100, BandHigh},
		{80, BandHigh},
		{79, BandMedium},
		{60, BandMedium},
		{59, BandLow},
		{40, BandLow},
		{39, BandCritical},
		{0, BandCritical},
	}
	for _, tt := range tests {
		if got := BandFor(tt.confidence); got != tt.band {
			t.Errorf("BandFor(%d): expected %s, got %s", tt.confidence, tt.band, got)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	if !StatusRejected.Terminal() {
		t.Error("rejected must be terminal")
	}
	for _, s := range []Status{StatusExtracted, StatusAIValidated, StatusHumanPending, StatusConfirmed, StatusCorrected} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestFlag_Key(t *testing.T) {
	f := Flag{FactID: "team-a", RuleID: "evidence.missing"}
	if f.Key() != "team-a/evidence.missing" {
		t.Errorf("unexpected flag key %q", f.Key())
	}
}

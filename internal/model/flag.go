package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity orders flags for review priority: Critical > Error > Warning > Info
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity parses a severity name as used in config files and CLI filters
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "critical":
		return SeverityCritical, nil
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", s)
}

// MarshalJSON serializes the severity by name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Blocking reports whether an open flag of this severity prevents confirmation
func (s Severity) Blocking() bool {
	return s >= SeverityError
}

// FlagType classifies which rule family raised the flag
type FlagType string

const (
	FlagEvidence     FlagType = "evidence"     // Claimed value poorly supported by its quotes
	FlagCompleteness FlagType = "completeness" // Category thinner than expected or missing fields
	FlagConsistency  FlagType = "consistency"  // Components do not reconcile with totals/ranges
	FlagCrossDomain  FlagType = "cross_domain" // No corroborating record in a related domain
)

// Flag is a system-raised concern about one fact. Flags are keyed by
// (fact id, rule id): the same rule never holds two open flags on one fact.
type Flag struct {
	ID         string     `json:"id"`
	FactID     string     `json:"fact_id"`
	RuleID     string     `json:"rule_id"`
	Type       FlagType   `json:"type"`
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	Resolved   bool       `json:"resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Key returns the dedup key for open flags
func (f Flag) Key() string {
	return f.FactID + "/" + f.RuleID
}

package model

import "time"

// ActionKind is the kind of reviewer (or system) action recorded in the audit trail
type ActionKind string

const (
	ActionConfirm ActionKind = "confirm"
	ActionCorrect ActionKind = "correct"
	ActionReject  ActionKind = "reject"
	ActionSkip    ActionKind = "skip"
	ActionRipple  ActionKind = "system-ripple"
)

// SystemReviewer is the actor recorded on ripple-generated corrections
const SystemReviewer = "system"

// CorrectionRecord is one immutable audit entry. Exactly one record is
// appended for every fact mutation; Skip entries carry no version bump.
type CorrectionRecord struct {
	ID        string     `json:"id"`
	FactID    string     `json:"fact_id"`
	Action    ActionKind `json:"action"`
	Before    Value      `json:"before"`
	After     Value      `json:"after"`
	Reason    string     `json:"reason"`
	Reviewer  string     `json:"reviewer"`
	Evidence  []Evidence `json:"evidence,omitempty"` // Evidence attached by this correction
	Version   int        `json:"version"`            // Resulting fact version
	Timestamp time.Time  `json:"timestamp"`
}

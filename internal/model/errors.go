package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the correction workflow. Callers match with errors.Is;
// the typed errors below carry details and unwrap to these.
var (
	ErrMissingReason     = errors.New("missing reason")
	ErrStaleVersion      = errors.New("stale version conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCycleDetected     = errors.New("dependency cycle detected")
	ErrFactNotFound      = errors.New("fact not found")
)

// StaleVersionError rejects a correction whose expected_version no longer
// matches. The caller must refetch and retry.
type StaleVersionError struct {
	FactID   string
	Expected int
	Current  int
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("fact %s: expected version %d, current is %d", e.FactID, e.Expected, e.Current)
}

func (e *StaleVersionError) Unwrap() error { return ErrStaleVersion }

// InvalidTransitionError rejects a correction the status graph does not allow
type InvalidTransitionError struct {
	FactID string
	From   Status
	To     Status
	Note   string // Optional detail, e.g. which blocking flags are still open
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("fact %s: cannot move from %s to %s", e.FactID, e.From, e.To)
	if e.Note != "" {
		msg += ": " + e.Note
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// CycleError aborts a correction whose dependency graph contains a cycle.
// Nothing is committed; a cycle means the ingested edge set is defective.
type CycleError struct {
	Path []string // Fact ids along the cycle, first == last
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

package score

import (
	"fmt"

	"github.com/ppiankov/credence/internal/match"
	"github.com/ppiankov/credence/internal/model"
)

// Scorer computes a fact's 0-100 confidence from its evidence support and
// the penalties of its open flags. Scoring is deterministic: identical
// inputs always yield the identical score.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a new scorer with the given penalty policy
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Assessment is the transparent result of a confidence computation
type Assessment struct {
	Confidence int                  `json:"confidence"` // Final score, clamped to [0,100]
	Band       model.ConfidenceBand `json:"band"`
	Base       int                  `json:"base"`    // Best evidence match score
	Penalty    int                  `json:"penalty"` // Sum of open-flag penalties
	Breakdown  []Component          `json:"breakdown,omitempty"`
}

// Component documents one contribution to the final score
type Component struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Note   string `json:"note,omitempty"`
}

// Calculate computes the confidence of a fact given its currently open flags.
// The base is the best evidence match score; each open flag subtracts its
// severity's penalty; the result is floored at 0 and capped at 100.
func (s *Scorer) Calculate(f model.Fact, openFlags []model.Flag) Assessment {
	base := match.Best(f)
	breakdown := []Component{
		{
			Name:   "evidence_match",
			Points: base,
			Note:   fmt.Sprintf("best match across %d evidence entries", len(f.Evidence)),
		},
	}

	penalty := 0
	for _, fl := range openFlags {
		p := s.penaltyFor(fl.Severity)
		if p == 0 {
			continue
		}
		penalty += p
		breakdown = append(breakdown, Component{
			Name:   "flag:" + fl.RuleID,
			Points: -p,
			Note:   fl.Severity.String(),
		})
	}

	confidence := clamp(base - penalty)

	return Assessment{
		Confidence: confidence,
		Band:       model.BandFor(confidence),
		Base:       base,
		Penalty:    penalty,
		Breakdown:  breakdown,
	}
}

// penaltyFor maps a flag severity to its configured confidence penalty
func (s *Scorer) penaltyFor(sev model.Severity) int {
	switch sev {
	case model.SeverityCritical:
		return s.cfg.PenaltyCritical
	case model.SeverityError:
		return s.cfg.PenaltyError
	case model.SeverityWarning:
		return s.cfg.PenaltyWarning
	default:
		return s.cfg.PenaltyInfo
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package model

// Evidence is a quoted span from a source document supporting a fact's value.
// Evidence is immutable once attached: a correction may add new evidence but
// never edits or removes an existing entry.
type Evidence struct {
	ID         string `json:"id" yaml:"id"`
	Quote      string `json:"quote" yaml:"quote"`             // Quoted span from the source
	Source     string `json:"source" yaml:"source"`           // Document reference, e.g. "contracts/dc-lease.pdf#p4"
	MatchScore int    `json:"match_score" yaml:"match_score"` // 0-100 fuzzy similarity to the claimed value
}

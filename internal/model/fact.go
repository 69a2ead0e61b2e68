package model

// Domain groups facts by the area of the assessed estate they describe
type Domain string

const (
	DomainOrganization   Domain = "organization"   // Teams, headcount, roles
	DomainInfrastructure Domain = "infrastructure" // Hosts, virtualization, storage
	DomainApplications   Domain = "applications"   // Business applications and licenses
	DomainNetwork        Domain = "network"        // Sites, links, network gear
	DomainSecurity       Domain = "security"       // Controls, certificates, incidents
	DomainFinancials     Domain = "financials"     // Costs, contracts, budgets
)

// domainOrder is the stable display/queue order for domains
var domainOrder = map[Domain]int{
	DomainOrganization:   0,
	DomainInfrastructure: 1,
	DomainApplications:   2,
	DomainNetwork:        3,
	DomainSecurity:       4,
	DomainFinancials:     5,
}

// Rank returns the stable sort position of the domain.
// Unknown domains sort after all known ones.
func (d Domain) Rank() int {
	if r, ok := domainOrder[d]; ok {
		return r
	}
	return len(domainOrder)
}

// Status is the review state of a fact
type Status string

const (
	StatusExtracted    Status = "extracted"     // Fresh from the extraction pipeline
	StatusAIValidated  Status = "ai_validated"  // Scored and flagged, no blocking flags
	StatusHumanPending Status = "human_pending" // Waiting for a reviewer decision
	StatusConfirmed    Status = "confirmed"     // Reviewer accepted the value as-is
	StatusCorrected    Status = "corrected"     // Reviewer supplied a replacement value
	StatusRejected     Status = "rejected"      // Reviewer discarded the claim
)

// DerivationOp identifies how a derived fact is recomputed from its inputs
type DerivationOp string

const (
	DeriveSum        DerivationOp = "sum"        // Value = sum of input values
	DeriveDifference DerivationOp = "difference" // Value = inputs[0] - inputs[1] - ...
	DeriveProduct    DerivationOp = "product"    // Value = product of input values
	DeriveRatio      DerivationOp = "ratio"      // Value = inputs[0] / inputs[1]
)

// Derivation declares the recomputation formula of a derived fact.
// Inputs are fact ids and must match the fact's DependsOn edges.
type Derivation struct {
	Op     DerivationOp `json:"op" yaml:"op"`
	Inputs []string     `json:"inputs" yaml:"inputs"`
}

// EntityRef names a record expected to corroborate a fact in another domain
type EntityRef struct {
	Domain Domain `json:"domain" yaml:"domain"`
	Item   string `json:"item" yaml:"item"`
}

// Fact is a single extracted claim. It is owned by the engine and mutated
// only through the correction workflow; every mutation bumps Version.
type Fact struct {
	ID         string     `json:"id" yaml:"id"`
	Domain     Domain     `json:"domain" yaml:"domain"`
	Category   string     `json:"category" yaml:"category"`
	Item       string     `json:"item" yaml:"item"`
	Value      Value      `json:"value" yaml:"value"`
	Confidence int        `json:"confidence" yaml:"confidence"` // 0-100
	Status     Status     `json:"status" yaml:"status"`
	Evidence   []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	FlagIDs    []string   `json:"flag_ids,omitempty" yaml:"flag_ids,omitempty"`

	DependsOn  []string    `json:"depends_on,omitempty" yaml:"depends_on,omitempty"` // Facts this value is derived from
	Dependents []string    `json:"dependents,omitempty" yaml:"dependents,omitempty"` // Facts that recompute when this changes
	Derivation *Derivation `json:"derivation,omitempty" yaml:"derivation,omitempty"`
	References []EntityRef `json:"references,omitempty" yaml:"references,omitempty"` // Expected cross-domain corroboration

	Version int `json:"version" yaml:"version"`
}

// Clone returns a deep copy of the fact, safe to hand to readers
func (f Fact) Clone() Fact {
	c := f
	c.Evidence = append([]Evidence(nil), f.Evidence...)
	c.FlagIDs = append([]string(nil), f.FlagIDs...)
	c.DependsOn = append([]string(nil), f.DependsOn...)
	c.Dependents = append([]string(nil), f.Dependents...)
	c.References = append([]EntityRef(nil), f.References...)
	if f.Derivation != nil {
		d := *f.Derivation
		d.Inputs = append([]string(nil), f.Derivation.Inputs...)
		c.Derivation = &d
	}
	c.Value = f.Value.Clone()
	return c
}

// Terminal reports whether the status accepts no further automatic transitions.
// Rejected facts are left alone; Confirmed facts can still be superseded by a
// later correction or pulled back to review by a new blocking flag.
func (s Status) Terminal() bool {
	return s == StatusRejected
}

// ConfidenceBand is the descriptive band for a 0-100 confidence score
type ConfidenceBand string

const (
	BandHigh     ConfidenceBand = "high"     // 80-100
	BandMedium   ConfidenceBand = "medium"   // 60-79
	BandLow      ConfidenceBand = "low"      // 40-59
	BandCritical ConfidenceBand = "critical" // 0-39
)

// BandFor maps a confidence score to its descriptive band
func BandFor(confidence int) ConfidenceBand {
	switch {
	case confidence >= 80:
		return BandHigh
	case confidence >= 60:
		return BandMedium
	case confidence >= 40:
		return BandLow
	default:
		return BandCritical
	}
}

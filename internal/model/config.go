package model

import "time"

// Config carries the policy parameters of the engine. Every value here is a
// tuning knob, not a structural decision: thresholds, tolerances, and depth
// bounds are expected to be adjusted per engagement.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Queue     QueueConfig     `yaml:"queue" mapstructure:"queue"`
	Ripple    RippleConfig    `yaml:"ripple" mapstructure:"ripple"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Review    ReviewConfig    `yaml:"review" mapstructure:"review"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// ScoringConfig controls the confidence scoring engine
type ScoringConfig struct {
	// PartialMatchThreshold is the evidence match score below which a quote
	// counts as only partially supporting the claimed value.
	PartialMatchThreshold int `yaml:"partial_match_threshold" mapstructure:"partial_match_threshold"`

	// Per-severity confidence penalties applied for each open flag.
	PenaltyCritical int `yaml:"penalty_critical" mapstructure:"penalty_critical"`
	PenaltyError    int `yaml:"penalty_error" mapstructure:"penalty_error"`
	PenaltyWarning  int `yaml:"penalty_warning" mapstructure:"penalty_warning"`
	PenaltyInfo     int `yaml:"penalty_info" mapstructure:"penalty_info"`
}

// RatioRange is an inclusive expected range for a derived ratio
type RatioRange struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max"`
}

// RulesConfig controls the flagging rule engine
type RulesConfig struct {
	// MinItems maps a category to the minimum number of facts expected in it.
	MinItems map[string]int `yaml:"min_items" mapstructure:"min_items"`

	// RequiredFields maps a category to field names a structured value must carry.
	RequiredFields map[string][]string `yaml:"required_fields" mapstructure:"required_fields"`

	// RatioRanges maps a category to the expected range of its derived ratio.
	RatioRanges map[string]RatioRange `yaml:"ratio_ranges" mapstructure:"ratio_ranges"`

	// Tolerance is the relative tolerance when reconciling components
	// against a stated total (0.01 = 1%).
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`

	// Workers bounds concurrent per-fact rule evaluation.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// QueueConfig controls the review queue
type QueueConfig struct {
	PageSize    int           `yaml:"page_size" mapstructure:"page_size"`
	LeaseTTL    time.Duration `yaml:"lease_ttl" mapstructure:"lease_ttl"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl" mapstructure:"snapshot_ttl"`
}

// RippleConfig controls correction propagation
type RippleConfig struct {
	// MaxDepth bounds transitive recomputation so propagation terminates
	// even if the dependency data is defective.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// AggregateConfig controls the per-domain rollup thresholds
type AggregateConfig struct {
	GoodConfidence int           `yaml:"good_confidence" mapstructure:"good_confidence"`
	WarnConfidence int           `yaml:"warn_confidence" mapstructure:"warn_confidence"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// ReviewConfig throttles correction submissions per reviewer
type ReviewConfig struct {
	CorrectionsPerSecond float64 `yaml:"corrections_per_second" mapstructure:"corrections_per_second"`
	Burst                int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			PartialMatchThreshold: 80,
			PenaltyCritical:       40,
			PenaltyError:          25,
			PenaltyWarning:        10,
			PenaltyInfo:           0,
		},
		Rules: RulesConfig{
			MinItems:       map[string]int{},
			RequiredFields: map[string][]string{},
			RatioRanges:    map[string]RatioRange{},
			Tolerance:      0.01,
			Workers:        8,
		},
		Queue: QueueConfig{
			PageSize:    20,
			LeaseTTL:    15 * time.Minute,
			SnapshotTTL: 5 * time.Minute,
		},
		Ripple: RippleConfig{
			MaxDepth: 25,
		},
		Aggregate: AggregateConfig{
			GoodConfidence: 80,
			WarnConfidence: 60,
			CacheTTL:       time.Minute,
		},
		Review: ReviewConfig{
			CorrectionsPerSecond: 5,
			Burst:                10,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}

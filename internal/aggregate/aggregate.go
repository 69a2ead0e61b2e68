// Package aggregate rolls fact-level confidence and open flags up to
// per-domain status. Rollups are derived views recomputed from committed
// state, cached briefly, and invalidated on every correction; they never
// hold mutable state of their own that could drift from the facts.
package aggregate

import (
	"sort"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/store"
)

// Icon is the three-state dashboard status of a domain
type Icon string

const (
	IconGood    Icon = "good"
	IconWarning Icon = "warning"
	IconError   Icon = "error"
)

// DomainStatus is the rollup for one domain
type DomainStatus struct {
	Domain             model.Domain `json:"domain"`
	FactCount          int          `json:"fact_count"`
	MeanConfidence     int          `json:"mean_confidence"`
	WeightedConfidence int          `json:"weighted_confidence"` // Weighted by evidence count
	OpenCritical       int          `json:"open_critical"`
	OpenError          int          `json:"open_error"`
	OpenWarning        int          `json:"open_warning"`
	OpenInfo           int          `json:"open_info"`
	Icon               Icon         `json:"icon"`
}

const statusToken = "domain-status"

// Aggregator computes per-domain rollups over the store
type Aggregator struct {
	store store.Store
	cfg   model.AggregateConfig
	cache *cache.SnapshotCache
}

// New creates an aggregator over the store
func New(st store.Store, cfg model.AggregateConfig) *Aggregator {
	return &Aggregator{
		store: st,
		cfg:   cfg,
		cache: cache.NewSnapshotCache(cfg.CacheTTL),
	}
}

// Status returns the rollup for every domain that has facts, in stable
// domain order. Results are cached until Invalidate or TTL expiry.
func (a *Aggregator) Status() []DomainStatus {
	if v, ok := a.cache.Get(statusToken); ok {
		return v.([]DomainStatus)
	}
	statuses := a.compute()
	a.cache.Put(statusToken, statuses)
	return statuses
}

// Invalidate drops the cached rollup after a fact or flag change
func (a *Aggregator) Invalidate() {
	a.cache.Invalidate()
}

func (a *Aggregator) compute() []DomainStatus {
	type acc struct {
		status     DomainStatus
		confSum    int
		weightSum  int
		wConfSum   int
	}
	byDomain := make(map[model.Domain]*acc)

	for _, f := range a.store.Facts() {
		if f.Status == model.StatusRejected {
			continue
		}
		ag, ok := byDomain[f.Domain]
		if !ok {
			ag = &acc{status: DomainStatus{Domain: f.Domain}}
			byDomain[f.Domain] = ag
		}
		ag.status.FactCount++
		ag.confSum += f.Confidence

		// Facts backed by more evidence weigh more
		weight := 1 + len(f.Evidence)
		ag.weightSum += weight
		ag.wConfSum += weight * f.Confidence

		for _, fl := range a.store.OpenFlags(f.ID) {
			switch fl.Severity {
			case model.SeverityCritical:
				ag.status.OpenCritical++
			case model.SeverityError:
				ag.status.OpenError++
			case model.SeverityWarning:
				ag.status.OpenWarning++
			default:
				ag.status.OpenInfo++
			}
		}
	}

	out := make([]DomainStatus, 0, len(byDomain))
	for _, ag := range byDomain {
		s := ag.status
		if s.FactCount > 0 {
			s.MeanConfidence = ag.confSum / s.FactCount
		}
		if ag.weightSum > 0 {
			s.WeightedConfidence = ag.wConfSum / ag.weightSum
		}
		s.Icon = a.icon(s)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain.Rank() < out[j].Domain.Rank() })
	return out
}

// icon maps a rollup to its three-state status via fixed thresholds
func (a *Aggregator) icon(s DomainStatus) Icon {
	blocking := s.OpenCritical + s.OpenError
	if s.WeightedConfidence >= a.cfg.GoodConfidence && blocking == 0 {
		return IconGood
	}
	if s.WeightedConfidence >= a.cfg.WarnConfidence || blocking == 0 {
		return IconWarning
	}
	return IconError
}

// Package engine ties the validation components together and implements
// the correction workflow: optimistic versioning, the fact status machine,
// and transactional ripple propagation across the dependency graph.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/credence/internal/aggregate"
	"github.com/ppiankov/credence/internal/graph"
	"github.com/ppiankov/credence/internal/match"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/queue"
	"github.com/ppiankov/credence/internal/rules"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/store"
	"github.com/ppiankov/credence/internal/worker"
)

// Engine owns the fact set and is the only writer to it
type Engine struct {
	cfg     model.Config
	store   store.Store
	rules   *rules.Engine
	scorer  *score.Scorer
	queue   *queue.Queue
	agg     *aggregate.Aggregator
	limiter *worker.Limiter
	log     *slog.Logger

	// mu serializes corrections; readers are isolated by the store's own
	// snapshot semantics and never see a half-applied change set.
	mu sync.Mutex
}

// Option configures an Engine
type Option func(*options)

type options struct {
	store  store.Store
	logger *slog.Logger
}

// WithStore substitutes the backing store (default: fresh MemStore)
func WithStore(st store.Store) Option {
	return func(o *options) { o.store = st }
}

// WithLogger sets the engine logger (default: slog.Default)
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates an engine with the given policy configuration
func New(cfg model.Config, opts ...Option) *Engine {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = store.NewMemStore()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		store:   o.store,
		rules:   rules.NewEngine(cfg.Rules, cfg.Scoring.PartialMatchThreshold),
		scorer:  score.NewScorer(cfg.Scoring),
		queue:   queue.New(o.store, cfg.Queue),
		agg:     aggregate.New(o.store, cfg.Aggregate),
		limiter: worker.NewLimiter(cfg.Review.CorrectionsPerSecond, cfg.Review.Burst),
		log:     o.logger,
	}
}

// Store exposes read access to the committed fact set
func (e *Engine) Store() store.Store { return e.store }

// Queue exposes the review queue
func (e *Engine) Queue() *queue.Queue { return e.queue }

// Aggregates returns the per-domain confidence rollups
func (e *Engine) Aggregates() []aggregate.DomainStatus { return e.agg.Status() }

// Ingest accepts a batch of facts from the extraction pipeline. The
// declared dependency edges are validated for acyclicity before anything
// is stored; evidence match scores are computed here. Rejects the whole
// batch on a cycle.
func (e *Engine) Ingest(facts []model.Fact) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := append(e.store.Facts(), facts...)
	if _, err := graph.Build(all); err != nil {
		e.log.Error("rejecting ingest: dependency edges form a cycle", "err", err)
		return err
	}

	for _, f := range facts {
		match.Rescore(&f)
		if f.Status == "" {
			f.Status = model.StatusExtracted
		}
		if f.Version == 0 {
			f.Version = 1
		}
		if err := e.store.Put(f); err != nil {
			return err
		}
	}

	e.revalidateLocked()
	return nil
}

// Revalidate re-runs flagging and scoring over the committed fact set.
// Evaluation is pure, so calling this twice without intervening changes
// leaves the flag set identical.
func (e *Engine) Revalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revalidateLocked()
}

func (e *Engine) revalidateLocked() {
	outcomes := e.rules.Evaluate(e.store)

	for _, f := range e.store.Facts() {
		desired := make([]model.Flag, 0, len(outcomes[f.ID]))
		for _, o := range outcomes[f.ID] {
			desired = append(desired, model.Flag{
				ID:       uuid.NewString(),
				FactID:   f.ID,
				RuleID:   o.RuleID,
				Type:     o.Type,
				Severity: o.Severity,
				Message:  o.Message,
			})
		}
		open := e.store.ReconcileFlags(f.ID, desired)
		asmt := e.scorer.Calculate(f, open)
		e.store.SetAssessment(f.ID, asmt.Confidence, nextStatus(f.Status, open))
	}

	e.queue.Invalidate()
	e.agg.Invalidate()
}

// nextStatus applies the automatic part of the fact status machine: any
// open Critical/Error flag pulls a fact back to human review; a fact that
// clears review moves on. Rejected facts stay where they are.
func nextStatus(cur model.Status, open []model.Flag) model.Status {
	if cur.Terminal() {
		return ""
	}
	blocking := false
	for _, fl := range open {
		if fl.Severity.Blocking() {
			blocking = true
			break
		}
	}
	switch {
	case blocking && cur != model.StatusHumanPending:
		return model.StatusHumanPending
	case !blocking && cur == model.StatusExtracted:
		return model.StatusAIValidated
	case !blocking && cur == model.StatusHumanPending:
		return model.StatusAIValidated
	}
	return ""
}

// Assess returns the transparent confidence breakdown for one fact
func (e *Engine) Assess(factID string) (score.Assessment, error) {
	f, ok := e.store.Fact(factID)
	if !ok {
		return score.Assessment{}, fmt.Errorf("%w: %s", model.ErrFactNotFound, factID)
	}
	return e.scorer.Calculate(f, e.store.OpenFlags(factID)), nil
}

// Checkout leases the highest-priority unleased queue item to the reviewer
func (e *Engine) Checkout(reviewer string) (queue.Entry, error) {
	return e.queue.Checkout(reviewer)
}

// Skip releases the reviewer's lease without mutating the fact and records
// the skip in the audit trail. The item stays in the queue.
func (e *Engine) Skip(factID, reviewer, note string) error {
	f, ok := e.store.Fact(factID)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrFactNotFound, factID)
	}
	e.queue.Skip(factID, reviewer)
	e.store.AppendRecord(model.CorrectionRecord{
		ID:        uuid.NewString(),
		FactID:    factID,
		Action:    model.ActionSkip,
		Before:    f.Value,
		After:     f.Value,
		Reason:    note,
		Reviewer:  reviewer,
		Version:   f.Version,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// History returns the audit records of one fact
func (e *Engine) History(factID string) []model.CorrectionRecord {
	return e.store.History(factID)
}

// FullHistory returns the global chronological audit trail
func (e *Engine) FullHistory() []model.CorrectionRecord {
	return e.store.FullHistory()
}

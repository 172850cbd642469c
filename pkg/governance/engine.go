package governance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/omeonechain/governance/pkg/telemetry"
)

// Options configures a new Engine. Store, Ledger, Reputation, Content, and
// CommitLog are required collaborators; Logger, Metrics, and Clock default
// to no-op logging, disabled metrics, and time.Now.
type Options struct {
	// Config holds the governance parameters. Zero value means
	// DefaultConfig.
	Config Config

	// Store is the repository backing all engine state.
	Store Store

	// Ledger is the token custody collaborator.
	Ledger TokenLedger

	// Reputation is the trust score source.
	Reputation ReputationSource

	// Content offloads large proposal bodies.
	Content ContentStore

	// CommitLog is the best-effort audit trail.
	CommitLog CommitLog

	// Logger receives structured engine logs.
	Logger *telemetry.Logger

	// Metrics receives engine metrics.
	Metrics *telemetry.Metrics

	// Clock overrides the time source, used by tests.
	Clock func() time.Time
}

// Engine owns all state transitions for staking, the proposal lifecycle,
// voting, execution, and milestone evaluation. Every public operation runs
// to completion against the store before returning; per-user and
// per-proposal keyed mutexes preserve the single-active-stake and
// one-vote-per-voter invariants under concurrent calls.
type Engine struct {
	cfg        Config
	store      Store
	ledger     TokenLedger
	reputation ReputationSource
	content    ContentStore
	commitLog  CommitLog
	logger     *telemetry.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time
	validate   *validator.Validate

	handlersMu sync.RWMutex
	handlers   map[ProposalType]ProposalHandler

	userLocks     keyedMutex
	proposalLocks keyedMutex
}

// New creates a governance engine and seeds the milestone set if the store
// does not hold one yet.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("governance: store is required")
	}
	if opts.Ledger == nil {
		return nil, fmt.Errorf("governance: token ledger is required")
	}
	if opts.Reputation == nil {
		return nil, fmt.Errorf("governance: reputation source is required")
	}
	if opts.Content == nil {
		return nil, fmt.Errorf("governance: content store is required")
	}
	if opts.CommitLog == nil {
		return nil, fmt.Errorf("governance: commit log is required")
	}

	cfg := opts.Config
	if len(cfg.Tiers) == 0 {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics, _ = telemetry.NewMetrics(telemetry.MetricsConfig{})
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	e := &Engine{
		cfg:        cfg,
		store:      opts.Store,
		ledger:     opts.Ledger,
		reputation: opts.Reputation,
		content:    opts.Content,
		commitLog:  opts.CommitLog,
		logger:     logger.NewComponentLogger("governance"),
		metrics:    metrics,
		now:        clock,
		validate:   validator.New(),
		handlers:   make(map[ProposalType]ProposalHandler),
	}
	e.registerDefaultHandlers()

	if err := e.seedMilestones(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns a copy of the engine's governance parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// seedMilestones writes the configured milestone set on first start.
// Already-stored milestones keep their achieved state.
func (e *Engine) seedMilestones(ctx context.Context) error {
	existing, err := e.store.ListMilestones(ctx)
	if err != nil {
		return fmt.Errorf("governance: listing milestones: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.ID] = true
	}
	for _, p := range e.cfg.Milestones {
		if known[p.ID] {
			continue
		}
		m := &Milestone{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Requirements: p.Requirements,
			Unlocks:      p.Unlocks,
		}
		if err := e.store.PutMilestone(ctx, m); err != nil {
			return fmt.Errorf("governance: seeding milestone %s: %w", p.ID, err)
		}
	}
	return nil
}

// audit emits a record to the chain/commit log. Submission failures are
// logged and counted, never propagated; governance state is authoritative
// once applied.
func (e *Engine) audit(ctx context.Context, eventType string, data map[string]any) {
	record := AuditRecord{
		Type:      eventType,
		Data:      data,
		Timestamp: e.now(),
	}
	if _, err := e.commitLog.Submit(ctx, record); err != nil {
		e.logger.WithError(err).WithField("event_type", eventType).
			Warn("audit submission failed; governance state unaffected")
		e.metrics.RecordAuditSubmission("failed")
		return
	}
	e.metrics.RecordAuditSubmission("ok")
}

// keyedMutex provides one mutex per string key. Keys are never removed; the
// key space (users, proposals) is small relative to the state they guard.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}

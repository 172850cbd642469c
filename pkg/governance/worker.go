package governance

import (
	"context"
	"math"
	"time"

	"github.com/omeonechain/governance/pkg/telemetry"
)

const (
	defaultPollInterval = time.Minute
	maxExecutionRetries = 10
	baseRetryDelay      = time.Minute
	maxRetryDelay       = 24 * time.Hour
)

// ExecutionWorker drives the durable deferred executions scheduled by
// FinalizeProposal. It polls the store for due records and invokes
// ExecuteProposal, so pending executions survive process restarts. The
// worker also sweeps stale ACTIVE proposals to EXPIRED.
type ExecutionWorker struct {
	engine   *Engine
	logger   *telemetry.Logger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExecutionWorker creates a worker polling at the given interval. A zero
// interval selects the default of one minute.
func NewExecutionWorker(engine *Engine, logger *telemetry.Logger, interval time.Duration) *ExecutionWorker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	return &ExecutionWorker{
		engine:   engine,
		logger:   logger.NewComponentLogger("execution-worker"),
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called or the context is
// cancelled. One sweep runs immediately on start to pick up executions that
// came due while the process was down.
func (w *ExecutionWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.doneCh)
		w.sweep(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the polling loop and waits for the in-flight sweep to finish.
func (w *ExecutionWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// sweep runs one pass: due executions first, then the expiration sweep.
func (w *ExecutionWorker) sweep(ctx context.Context) {
	now := w.engine.now()
	due, err := w.engine.store.DueExecutions(ctx, now.UnixNano())
	if err != nil {
		w.logger.WithError(err).Error("listing due executions failed")
		return
	}
	for _, exec := range due {
		w.runOne(ctx, exec)
	}

	if _, err := w.engine.ExpireStaleProposals(ctx); err != nil {
		w.logger.WithError(err).Error("expiration sweep failed")
	}
}

// runOne attempts a single scheduled execution. Validation failures (the
// proposal already reached a terminal state) retire the record; every other
// failure, including store errors, pushes the due time out with exponential
// backoff so a transient hiccup never cancels a timelocked execution.
func (w *ExecutionWorker) runOne(ctx context.Context, exec *ScheduledExecution) {
	err := w.engine.ExecuteProposal(ctx, exec.ProposalID)
	exec.Attempts++

	switch {
	case err == nil:
		exec.Done = true
	case IsValidation(err):
		// Terminal proposal state or the proposal is gone; nothing left
		// to execute.
		exec.Done = true
		w.logger.WithProposalID(exec.ProposalID).WithError(err).
			Debug("retiring schedule for non-executable proposal")
	case exec.Attempts >= maxExecutionRetries:
		exec.Done = true
		w.logger.WithProposalID(exec.ProposalID).WithError(err).
			Error("execution retries exhausted; proposal remains PASSED for manual retry")
	default:
		exec.DueAt = w.engine.now().Add(w.backoff(exec.Attempts))
		w.logger.WithProposalID(exec.ProposalID).
			WithError(err).
			WithField("attempt", exec.Attempts).
			Warn("execution failed, retry scheduled")
	}

	if updateErr := w.engine.store.UpdateExecution(ctx, exec); updateErr != nil {
		w.logger.WithProposalID(exec.ProposalID).WithError(updateErr).
			Error("updating scheduled execution failed")
	}
}

// backoff returns the exponential retry delay for the given attempt count,
// capped at one day.
func (w *ExecutionWorker) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(baseRetryDelay) * math.Pow(2, float64(attempt-1)))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

package chainlog

import (
	"context"
	"time"

	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/telemetry"
)

const (
	defaultDrainInterval = 30 * time.Second
	defaultDrainBatch    = 50
)

// Buffered wraps a commit log with a durable retry queue. When the inner
// log rejects a submission, the record is parked in the audit queue and a
// background drain loop retries it until the ledger accepts it. Submit
// still reports the original error so callers can count the failure.
type Buffered struct {
	inner  governance.CommitLog
	queue  governance.AuditQueue
	logger *telemetry.Logger

	interval time.Duration
	batch    int

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBuffered creates a buffered commit log. A zero interval selects the
// default drain interval.
func NewBuffered(inner governance.CommitLog, queue governance.AuditQueue, logger *telemetry.Logger, interval time.Duration) *Buffered {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	if interval <= 0 {
		interval = defaultDrainInterval
	}
	return &Buffered{
		inner:    inner,
		queue:    queue,
		logger:   logger.NewComponentLogger("chainlog"),
		interval: interval,
		batch:    defaultDrainBatch,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// SetDrainBatch overrides the per-pass retry batch size. Zero or negative
// values keep the default. Not safe to call after Start.
func (b *Buffered) SetDrainBatch(n int) {
	if n > 0 {
		b.batch = n
	}
}

// Submit appends a record, parking it for retry when the inner log fails.
func (b *Buffered) Submit(ctx context.Context, record governance.AuditRecord) (governance.Receipt, error) {
	receipt, err := b.inner.Submit(ctx, record)
	if err == nil {
		return receipt, nil
	}

	if qErr := b.queue.EnqueueAudit(ctx, record); qErr != nil {
		b.logger.WithError(qErr).
			WithField("record_type", record.Type).
			Error("Audit record lost: submission and enqueue both failed")
	} else {
		b.logger.WithError(err).
			WithField("record_type", record.Type).
			Warn("Audit submission failed, record parked for retry")
	}

	return governance.Receipt{}, err
}

// Start launches the background drain loop. Call Stop to terminate it.
func (b *Buffered) Start(ctx context.Context) {
	go func() {
		defer close(b.doneCh)

		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopCh:
				return
			case <-ticker.C:
				b.drain(ctx)
			}
		}
	}()
}

// Stop terminates the drain loop and waits for it to exit.
func (b *Buffered) Stop() {
	close(b.stopCh)
	<-b.doneCh
}

// Drain retries parked records once, immediately. Exposed for CLI use.
func (b *Buffered) Drain(ctx context.Context) (int, error) {
	return b.drain(ctx)
}

func (b *Buffered) drain(ctx context.Context) (int, error) {
	pending, err := b.queue.PendingAudits(ctx, b.batch)
	if err != nil {
		b.logger.WithError(err).Error("Failed to read pending audits")
		return 0, err
	}

	drained := 0
	for _, p := range pending {
		if _, err := b.inner.Submit(ctx, p.Record); err != nil {
			// Ledger still unavailable; keep the rest parked and try
			// again next tick.
			b.logger.WithError(err).Debug("Ledger still rejecting audit records")
			return drained, err
		}

		if err := b.queue.DeletePendingAudit(ctx, p.ID); err != nil {
			b.logger.WithError(err).
				WithField("pending_id", p.ID).
				Warn("Failed to remove drained audit record")
			continue
		}
		drained++
	}

	if drained > 0 {
		b.logger.WithField("count", drained).Info("Backfilled parked audit records")
	}

	return drained, nil
}

package chainlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/stores"
)

var (
	_ governance.CommitLog = (*LocalLog)(nil)
	_ governance.CommitLog = (*Buffered)(nil)
)

// flakyLog fails submissions until unblocked.
type flakyLog struct {
	failing bool
	inner   *LocalLog
	submits int
}

func (f *flakyLog) Submit(ctx context.Context, record governance.AuditRecord) (governance.Receipt, error) {
	f.submits++
	if f.failing {
		return governance.Receipt{}, errors.New("ledger unavailable")
	}
	return f.inner.Submit(ctx, record)
}

func testRecord(recordType string) governance.AuditRecord {
	return governance.AuditRecord{
		Type:      recordType,
		Data:      map[string]any{"proposal_id": "prop-1"},
		Timestamp: time.Now(),
	}
}

// TestLocalLogSequencing verifies monotonically increasing sequence numbers
func TestLocalLogSequencing(t *testing.T) {
	log := NewLocalLog(nil)
	ctx := context.Background()

	var last uint64
	for i := 0; i < 5; i++ {
		receipt, err := log.Submit(ctx, testRecord(governance.AuditStake))
		if err != nil {
			t.Fatalf("failed to submit record: %v", err)
		}
		if receipt.ID == "" {
			t.Error("expected non-empty receipt ID")
		}
		if receipt.Sequence <= last {
			t.Errorf("expected sequence > %d, got %d", last, receipt.Sequence)
		}
		last = receipt.Sequence
	}

	if log.Sequence() != 5 {
		t.Errorf("expected final sequence 5, got %d", log.Sequence())
	}
}

// TestBufferedParksFailures verifies failed submissions land in the queue
func TestBufferedParksFailures(t *testing.T) {
	queue := stores.NewMemoryStore()
	flaky := &flakyLog{failing: true, inner: NewLocalLog(nil)}
	buffered := NewBuffered(flaky, queue, nil, time.Hour)
	ctx := context.Background()

	_, err := buffered.Submit(ctx, testRecord(governance.AuditVote))
	if err == nil {
		t.Fatal("expected submission error")
	}

	pending, err := queue.PendingAudits(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read pending audits: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 parked record, got %d", len(pending))
	}
	if pending[0].Record.Type != governance.AuditVote {
		t.Errorf("expected governance_vote record, got %s", pending[0].Record.Type)
	}
}

// TestBufferedDrain verifies parked records are retried and removed
func TestBufferedDrain(t *testing.T) {
	queue := stores.NewMemoryStore()
	flaky := &flakyLog{failing: true, inner: NewLocalLog(nil)}
	buffered := NewBuffered(flaky, queue, nil, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = buffered.Submit(ctx, testRecord(governance.AuditResult))
	}

	// Ledger still down: drain makes no progress
	drained, err := buffered.Drain(ctx)
	if err == nil {
		t.Fatal("expected drain error while ledger is down")
	}
	if drained != 0 {
		t.Errorf("expected 0 drained, got %d", drained)
	}

	// Ledger recovers
	flaky.failing = false
	drained, err = buffered.Drain(ctx)
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if drained != 3 {
		t.Errorf("expected 3 drained, got %d", drained)
	}

	pending, err := queue.PendingAudits(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read pending audits: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected empty queue, got %d records", len(pending))
	}
}

// TestBufferedPassThrough verifies healthy submissions skip the queue
func TestBufferedPassThrough(t *testing.T) {
	queue := stores.NewMemoryStore()
	buffered := NewBuffered(NewLocalLog(nil), queue, nil, time.Hour)
	ctx := context.Background()

	receipt, err := buffered.Submit(ctx, testRecord(governance.AuditExecuted))
	if err != nil {
		t.Fatalf("failed to submit record: %v", err)
	}
	if receipt.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", receipt.Sequence)
	}

	pending, err := queue.PendingAudits(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read pending audits: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected empty queue, got %d records", len(pending))
	}
}

// TestBufferedStartStop verifies the drain loop terminates cleanly
func TestBufferedStartStop(t *testing.T) {
	queue := stores.NewMemoryStore()
	buffered := NewBuffered(NewLocalLog(nil), queue, nil, 10*time.Millisecond)

	buffered.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	buffered.Stop()
}

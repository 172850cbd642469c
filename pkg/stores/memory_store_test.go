package stores

import (
	"context"
	"testing"
	"time"

	"github.com/omeonechain/governance/pkg/governance"
)

var (
	_ governance.Store      = (*SQLiteStore)(nil)
	_ governance.AuditQueue = (*SQLiteStore)(nil)
	_ governance.Store      = (*MemoryStore)(nil)
	_ governance.AuditQueue = (*MemoryStore)(nil)
)

// TestMemoryStakeLifecycle mirrors the SQLite stake tests against the
// in-memory implementation.
func TestMemoryStakeLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.PutStake(ctx, testStake("alice", 100)); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}
	if err := store.PutStake(ctx, testStake("bob", 400)); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}

	total, err := store.TotalActiveStake(ctx)
	if err != nil {
		t.Fatalf("failed to sum stakes: %v", err)
	}
	if total != 500 {
		t.Errorf("expected total 500, got %v", total)
	}

	stake, err := store.GetActiveStake(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get stake: %v", err)
	}

	stake.IsActive = false
	if err := store.PutStake(ctx, stake); err != nil {
		t.Fatalf("failed to deactivate stake: %v", err)
	}

	_, err = store.GetActiveStake(ctx, "alice")
	if governance.ErrorCode(err) != governance.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// TestMemoryVoteUniqueness verifies duplicate rejection in the memory store
func TestMemoryVoteUniqueness(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	vote := &governance.Vote{
		ID:         "vote-1",
		ProposalID: "prop-1",
		Voter:      "alice",
		Type:       governance.VoteYes,
		Timestamp:  time.Now(),
	}
	if err := store.PutVote(ctx, vote); err != nil {
		t.Fatalf("failed to put vote: %v", err)
	}

	duplicate := &governance.Vote{
		ID:         "vote-2",
		ProposalID: "prop-1",
		Voter:      "alice",
		Type:       governance.VoteNo,
		Timestamp:  time.Now(),
	}
	err := store.PutVote(ctx, duplicate)
	if governance.ErrorCode(err) != governance.ErrCodeAlreadyVoted {
		t.Errorf("expected ALREADY_VOTED, got %v", err)
	}
}

// TestMemoryIsolation verifies returned entities are copies
func TestMemoryIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	proposal := testProposal("prop-1", governance.StatusDraft)
	if err := store.PutProposal(ctx, proposal); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	got, err := store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}

	// Mutating the returned copy must not affect the stored proposal
	got.Status = governance.StatusActive

	again, err := store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}
	if again.Status != governance.StatusDraft {
		t.Errorf("expected stored proposal to remain DRAFT, got %s", again.Status)
	}
}

// TestMemoryDueExecutions verifies due filtering and ordering
func TestMemoryDueExecutions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"exec-later", "exec-sooner"} {
		exec := &governance.ScheduledExecution{
			ID:         id,
			ProposalID: "prop-1",
			DueAt:      now.Add(-time.Duration(i+1) * time.Hour),
			CreatedAt:  now,
		}
		if err := store.ScheduleExecution(ctx, exec); err != nil {
			t.Fatalf("failed to schedule execution: %v", err)
		}
	}

	due, err := store.DueExecutions(ctx, now.UnixNano())
	if err != nil {
		t.Fatalf("failed to list due executions: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due executions, got %d", len(due))
	}
	if due[0].ID != "exec-sooner" {
		t.Errorf("expected earliest due first, got %s", due[0].ID)
	}

	due[0].Done = true
	if err := store.UpdateExecution(ctx, due[0]); err != nil {
		t.Fatalf("failed to update execution: %v", err)
	}

	remaining, err := store.DueExecutions(ctx, now.UnixNano())
	if err != nil {
		t.Fatalf("failed to list due executions: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 remaining execution, got %d", len(remaining))
	}
}

// TestMemoryPendingAudits verifies queue ordering and limits
func TestMemoryPendingAudits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		record := governance.AuditRecord{
			Type:      governance.AuditStake,
			Timestamp: time.Now(),
		}
		if err := store.EnqueueAudit(ctx, record); err != nil {
			t.Fatalf("failed to enqueue audit: %v", err)
		}
	}

	pending, err := store.PendingAudits(ctx, 3)
	if err != nil {
		t.Fatalf("failed to list pending audits: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending audits, got %d", len(pending))
	}
	if pending[0].ID >= pending[1].ID {
		t.Error("expected pending audits in enqueue order")
	}

	for _, p := range pending {
		if err := store.DeletePendingAudit(ctx, p.ID); err != nil {
			t.Fatalf("failed to delete pending audit: %v", err)
		}
	}

	remaining, err := store.PendingAudits(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list pending audits: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining audits, got %d", len(remaining))
	}
}

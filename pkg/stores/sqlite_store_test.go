package stores

import (
	"context"
	"testing"
	"time"

	"github.com/omeonechain/governance/pkg/governance"
)

// setupTestStore creates an in-memory SQLite store for testing
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	return store
}

func testStake(userID string, amount float64) *governance.Stake {
	return &governance.Stake{
		ID:               "stake-" + userID,
		UserID:           userID,
		Amount:           amount,
		Tier:             governance.TierExplorer,
		StakedAt:         time.Now(),
		LockDurationDays: 30,
		IsActive:         true,
	}
}

func testProposal(id string, status governance.ProposalStatus) *governance.Proposal {
	return &governance.Proposal{
		ID:               id,
		Author:           "author-1",
		Type:             governance.ProposalParameterChange,
		Status:           status,
		Title:            "Adjust reward curve",
		Description:      "Lower the reward curve exponent.",
		CreatedAt:        time.Now(),
		RequiredQuorum:   0.1,
		RequiredMajority: 0.5,
		StakingRequirements: governance.StakingRequirements{
			MinTrustScore: 0.4,
		},
		AuthorReputationAtCreation: 0.8,
		ExecutionParameters: governance.ExecutionParameters{
			TimelockDays:   2,
			VetoWindowDays: 3,
		},
	}
}

// TestStoreLifecycle tests database initialization and closure
func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(Config{
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

// TestStoreRequiresPath verifies configuration validation
func TestStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(Config{}); err == nil {
		t.Fatal("expected error for empty database path")
	}
}

// TestStoreAppliesPoolConfig verifies configured pool limits reach the
// connection pool.
func TestStoreAppliesPoolConfig(t *testing.T) {
	store, err := NewSQLiteStore(Config{
		Path:            ":memory:",
		MaxOpenConns:    3,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	defer store.Close()

	if got := store.db.Stats().MaxOpenConnections; got != 3 {
		t.Errorf("expected MaxOpenConnections 3, got %d", got)
	}
}

// TestStoreMigrations verifies the schema is created
func TestStoreMigrations(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	// Check that tables exist by querying them
	tables := []string{"stakes", "proposals", "votes", "milestones", "scheduled_executions", "pending_audits"}
	for _, table := range tables {
		query := "SELECT COUNT(*) FROM " + table
		var count int
		err := store.db.QueryRowContext(ctx, query).Scan(&count)
		if err != nil {
			t.Errorf("table %s does not exist or is not accessible: %v", table, err)
		}
	}
}

// TestStakeRoundTrip tests stake persistence and active-stake lookup
func TestStakeRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	stake := testStake("alice", 150)
	if err := store.PutStake(ctx, stake); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}

	got, err := store.GetActiveStake(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get active stake: %v", err)
	}
	if got.Amount != 150 {
		t.Errorf("expected amount 150, got %v", got.Amount)
	}
	if got.Tier != governance.TierExplorer {
		t.Errorf("expected tier EXPLORER, got %s", got.Tier)
	}
	if !got.IsActive {
		t.Error("expected stake to be active")
	}

	// Deactivate and verify lookup fails with NOT_FOUND
	stake.IsActive = false
	if err := store.PutStake(ctx, stake); err != nil {
		t.Fatalf("failed to update stake: %v", err)
	}

	_, err = store.GetActiveStake(ctx, "alice")
	if governance.ErrorCode(err) != governance.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// TestTotalActiveStake tests stake aggregation
func TestTotalActiveStake(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.PutStake(ctx, testStake("alice", 100)); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}
	if err := store.PutStake(ctx, testStake("bob", 250)); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}

	inactive := testStake("carol", 999)
	inactive.IsActive = false
	if err := store.PutStake(ctx, inactive); err != nil {
		t.Fatalf("failed to put stake: %v", err)
	}

	total, err := store.TotalActiveStake(ctx)
	if err != nil {
		t.Fatalf("failed to sum stakes: %v", err)
	}
	if total != 350 {
		t.Errorf("expected total 350, got %v", total)
	}

	active, err := store.ListActiveStakes(ctx)
	if err != nil {
		t.Fatalf("failed to list stakes: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active stakes, got %d", len(active))
	}
}

// TestProposalRoundTrip tests proposal persistence including nullable voting times
func TestProposalRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	proposal := testProposal("prop-1", governance.StatusDraft)
	if err := store.PutProposal(ctx, proposal); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	got, err := store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}
	if got.Status != governance.StatusDraft {
		t.Errorf("expected status DRAFT, got %s", got.Status)
	}
	if got.VotingStartTime != nil {
		t.Error("expected nil voting start time for draft")
	}
	if got.StakingRequirements.MinTrustScore != 0.4 {
		t.Errorf("expected min trust score 0.4, got %v", got.StakingRequirements.MinTrustScore)
	}
	if got.ExecutionParameters.VetoWindowDays != 3 {
		t.Errorf("expected veto window 3, got %d", got.ExecutionParameters.VetoWindowDays)
	}

	// Activate and verify voting times survive the round trip
	start := time.Now()
	end := start.Add(7 * 24 * time.Hour)
	proposal.Status = governance.StatusActive
	proposal.VotingStartTime = &start
	proposal.VotingEndTime = &end
	if err := store.PutProposal(ctx, proposal); err != nil {
		t.Fatalf("failed to update proposal: %v", err)
	}

	got, err = store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}
	if got.VotingEndTime == nil {
		t.Fatal("expected voting end time to be set")
	}
	if !got.VotingEndTime.Equal(end) {
		t.Errorf("expected voting end %v, got %v", end, got.VotingEndTime)
	}
}

// TestProposalNotFound verifies the NOT_FOUND error code
func TestProposalNotFound(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	_, err := store.GetProposal(context.Background(), "missing")
	if governance.ErrorCode(err) != governance.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// TestListProposalsByStatus tests status filtering
func TestListProposalsByStatus(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.PutProposal(ctx, testProposal("prop-1", governance.StatusActive)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}
	if err := store.PutProposal(ctx, testProposal("prop-2", governance.StatusActive)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}
	if err := store.PutProposal(ctx, testProposal("prop-3", governance.StatusDraft)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	active, err := store.ListProposalsByStatus(ctx, governance.StatusActive)
	if err != nil {
		t.Fatalf("failed to list proposals: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active proposals, got %d", len(active))
	}

	count, err := store.CountProposals(ctx)
	if err != nil {
		t.Fatalf("failed to count proposals: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 proposals, got %d", count)
	}
}

// TestVoteUniqueness verifies the one-vote-per-voter constraint
func TestVoteUniqueness(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.PutProposal(ctx, testProposal("prop-1", governance.StatusActive)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	vote := &governance.Vote{
		ID:          "vote-1",
		ProposalID:  "prop-1",
		Voter:       "alice",
		Type:        governance.VoteYes,
		VotingPower: 12.5,
		StakingTier: governance.TierCurator,
		Timestamp:   time.Now(),
	}
	if err := store.PutVote(ctx, vote); err != nil {
		t.Fatalf("failed to put vote: %v", err)
	}

	duplicate := &governance.Vote{
		ID:          "vote-2",
		ProposalID:  "prop-1",
		Voter:       "alice",
		Type:        governance.VoteNo,
		StakingTier: governance.TierCurator,
		Timestamp:   time.Now(),
	}
	err := store.PutVote(ctx, duplicate)
	if governance.ErrorCode(err) != governance.ErrCodeAlreadyVoted {
		t.Errorf("expected ALREADY_VOTED, got %v", err)
	}

	got, err := store.GetVote(ctx, "prop-1", "alice")
	if err != nil {
		t.Fatalf("failed to get vote: %v", err)
	}
	if got.Type != governance.VoteYes {
		t.Errorf("expected original YES vote to survive, got %s", got.Type)
	}
}

// TestVotesInCastOrder verifies votes list ordered by timestamp
func TestVotesInCastOrder(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.PutProposal(ctx, testProposal("prop-1", governance.StatusActive)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	base := time.Now()
	voters := []string{"carol", "alice", "bob"}
	for i, voter := range voters {
		vote := &governance.Vote{
			ID:          "vote-" + voter,
			ProposalID:  "prop-1",
			Voter:       voter,
			Type:        governance.VoteYes,
			StakingTier: governance.TierExplorer,
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		}
		if err := store.PutVote(ctx, vote); err != nil {
			t.Fatalf("failed to put vote: %v", err)
		}
	}

	votes, err := store.ListVotesByProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("failed to list votes: %v", err)
	}
	if len(votes) != 3 {
		t.Fatalf("expected 3 votes, got %d", len(votes))
	}
	for i, voter := range voters {
		if votes[i].Voter != voter {
			t.Errorf("expected voter %s at position %d, got %s", voter, i, votes[i].Voter)
		}
	}

	distinct, err := store.CountDistinctVoters(ctx)
	if err != nil {
		t.Fatalf("failed to count voters: %v", err)
	}
	if distinct != 3 {
		t.Errorf("expected 3 distinct voters, got %d", distinct)
	}
}

// TestMilestonePersistence tests milestone round trips and seed ordering
func TestMilestonePersistence(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	first := &governance.Milestone{
		ID:           "economic-stake",
		Name:         "Economic Stake",
		Requirements: map[string]float64{"totalStaked": 1000000},
		Unlocks:      []string{"parameter_votes"},
	}
	second := &governance.Milestone{
		ID:           "network-scale",
		Name:         "Network Scale",
		Requirements: map[string]float64{"totalStaked": 5000000, "dailyActiveUsers": 10000},
		Unlocks:      []string{"treasury_votes"},
	}

	if err := store.PutMilestone(ctx, first); err != nil {
		t.Fatalf("failed to put milestone: %v", err)
	}
	if err := store.PutMilestone(ctx, second); err != nil {
		t.Fatalf("failed to put milestone: %v", err)
	}

	// Mark the first achieved; ordering must not change
	now := time.Now()
	first.Achieved = true
	first.AchievedAt = &now
	if err := store.PutMilestone(ctx, first); err != nil {
		t.Fatalf("failed to update milestone: %v", err)
	}

	milestones, err := store.ListMilestones(ctx)
	if err != nil {
		t.Fatalf("failed to list milestones: %v", err)
	}
	if len(milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(milestones))
	}
	if milestones[0].ID != "economic-stake" {
		t.Errorf("expected economic-stake first, got %s", milestones[0].ID)
	}
	if !milestones[0].Achieved {
		t.Error("expected first milestone to be achieved")
	}
	if milestones[0].AchievedAt == nil {
		t.Error("expected achieved_at to be set")
	}
	if milestones[0].Requirements["totalStaked"] != 1000000 {
		t.Errorf("expected requirement 1000000, got %v", milestones[0].Requirements["totalStaked"])
	}
}

// TestScheduledExecutions tests the due-at queue
func TestScheduledExecutions(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.PutProposal(ctx, testProposal("prop-1", governance.StatusPassed)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}
	if err := store.PutProposal(ctx, testProposal("prop-2", governance.StatusPassed)); err != nil {
		t.Fatalf("failed to put proposal: %v", err)
	}

	now := time.Now()
	due := &governance.ScheduledExecution{
		ID:         "exec-1",
		ProposalID: "prop-1",
		DueAt:      now.Add(-time.Hour),
		CreatedAt:  now,
	}
	notDue := &governance.ScheduledExecution{
		ID:         "exec-2",
		ProposalID: "prop-2",
		DueAt:      now.Add(time.Hour),
		CreatedAt:  now,
	}

	if err := store.ScheduleExecution(ctx, due); err != nil {
		t.Fatalf("failed to schedule execution: %v", err)
	}
	if err := store.ScheduleExecution(ctx, notDue); err != nil {
		t.Fatalf("failed to schedule execution: %v", err)
	}

	pending, err := store.DueExecutions(ctx, now.UnixNano())
	if err != nil {
		t.Fatalf("failed to list due executions: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 due execution, got %d", len(pending))
	}
	if pending[0].ID != "exec-1" {
		t.Errorf("expected exec-1, got %s", pending[0].ID)
	}

	// Mark done and verify it drops out
	pending[0].Done = true
	pending[0].Attempts = 1
	if err := store.UpdateExecution(ctx, pending[0]); err != nil {
		t.Fatalf("failed to update execution: %v", err)
	}

	pending, err = store.DueExecutions(ctx, now.UnixNano())
	if err != nil {
		t.Fatalf("failed to list due executions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no due executions, got %d", len(pending))
	}
}

// TestPendingAudits tests the audit parking lot
func TestPendingAudits(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := governance.AuditRecord{
			Type:      governance.AuditVote,
			Data:      map[string]any{"proposal_id": "prop-1"},
			Timestamp: time.Now(),
		}
		if err := store.EnqueueAudit(ctx, record); err != nil {
			t.Fatalf("failed to enqueue audit: %v", err)
		}
	}

	pending, err := store.PendingAudits(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list pending audits: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending audits, got %d", len(pending))
	}
	if pending[0].Record.Type != governance.AuditVote {
		t.Errorf("expected governance_vote record, got %s", pending[0].Record.Type)
	}

	if err := store.DeletePendingAudit(ctx, pending[0].ID); err != nil {
		t.Fatalf("failed to delete pending audit: %v", err)
	}

	remaining, err := store.PendingAudits(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list pending audits: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining audits, got %d", len(remaining))
	}

	err = store.DeletePendingAudit(ctx, 9999)
	if governance.ErrorCode(err) != governance.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

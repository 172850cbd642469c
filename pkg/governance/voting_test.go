package governance_test

import (
	"context"
	"testing"
	"time"

	"github.com/omeonechain/governance/pkg/governance"
)

// TestVoteSnapshotsPowerAndStake verifies a vote freezes power, tier, and
// reputation at cast time.
func TestVoteSnapshotsPowerAndStake(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	h.stake(t, "alice", 1000, 365, 0.8)
	id := h.activeProposal(t, "alice")

	vote, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, "supports growth")
	if err != nil {
		t.Fatalf("VoteOnProposal failed: %v", err)
	}
	if vote.VotingPower <= 0 {
		t.Errorf("expected positive voting power, got %.4f", vote.VotingPower)
	}
	if vote.StakeAmount != 1000 || vote.StakingTier != governance.TierValidatorDelegate {
		t.Errorf("expected stake snapshot 1000/VALIDATOR_DELEGATE, got %.0f/%s",
			vote.StakeAmount, vote.StakingTier)
	}
	if vote.ReputationAtVote != 0.8 {
		t.Errorf("expected reputation snapshot 0.8, got %.2f", vote.ReputationAtVote)
	}
	if vote.Reason != "supports growth" {
		t.Errorf("unexpected reason %q", vote.Reason)
	}
}

// TestVoteImmutable verifies one vote per user per proposal.
func TestVoteImmutable(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	h.stake(t, "alice", 100, 90, 0.8)
	id := h.activeProposal(t, "alice")

	if _, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, ""); err != nil {
		t.Fatalf("VoteOnProposal failed: %v", err)
	}
	_, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteNo, "changed my mind")
	if governance.ErrorCode(err) != governance.ErrCodeAlreadyVoted {
		t.Fatalf("expected ALREADY_VOTED, got %v", err)
	}

	votes, err := h.engine.GetProposalVotes(ctx, id)
	if err != nil {
		t.Fatalf("GetProposalVotes failed: %v", err)
	}
	if len(votes) != 1 || votes[0].Type != governance.VoteYes {
		t.Fatalf("expected the original YES vote to survive, got %+v", votes)
	}
}

// TestVoteRejectsInvalidInputs verifies unknown vote types and non-voting
// proposal states are rejected.
func TestVoteRejectsInvalidInputs(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	h.stake(t, "alice", 100, 90, 0.8)
	id, err := h.engine.CreateProposal(ctx, h.draft("alice"))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}

	// Draft proposals are not open for voting.
	_, err = h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, "")
	if governance.ErrorCode(err) != governance.ErrCodeInvalidState {
		t.Fatalf("expected INVALID_STATE for draft vote, got %v", err)
	}

	_, err = h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteType("MAYBE"), "")
	if governance.ErrorCode(err) != governance.ErrCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for unknown vote type, got %v", err)
	}
}

// TestMajorityExcludesAbstains verifies abstains count toward quorum but
// not the yes/no ratio: a 2-1 yes result passes through a wall of abstains.
func TestMajorityExcludesAbstains(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	// Equal stakes so the whale cap equalizes every vote's power.
	voters := []string{"alice", "y1", "n1", "a1", "a2", "a3", "a4", "a5", "a6"}
	for _, v := range voters {
		h.stake(t, v, 100, 90, 0.8)
	}
	id := h.activeProposal(t, "alice")

	cast := func(user string, vote governance.VoteType) {
		t.Helper()
		if _, err := h.engine.VoteOnProposal(ctx, id, user, vote, ""); err != nil {
			t.Fatalf("vote by %s failed: %v", user, err)
		}
	}
	cast("alice", governance.VoteYes)
	cast("y1", governance.VoteYes)
	cast("n1", governance.VoteNo)
	for _, a := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		cast(a, governance.VoteAbstain)
	}

	h.clock.Advance(time.Hour + time.Minute)
	result, err := h.engine.FinalizeProposal(ctx, id)
	if err != nil {
		t.Fatalf("FinalizeProposal failed: %v", err)
	}

	if !result.QuorumReached {
		t.Errorf("expected quorum with %.1f%% participation", result.ParticipationRate*100)
	}
	if !result.MajorityAchieved {
		t.Errorf("expected 2-1 yes majority despite %.2f abstain power", result.AbstainVotes)
	}
	if result.AbstainVotes <= result.YesVotes {
		t.Errorf("test setup expects abstain power to dominate, got yes=%.2f abstain=%.2f",
			result.YesVotes, result.AbstainVotes)
	}

	proposal, _ := h.engine.GetProposal(ctx, id)
	if proposal.Status != governance.StatusPassed {
		t.Fatalf("expected PASSED, got %s", proposal.Status)
	}
}

// TestExactTieFails verifies a dead-even yes/no split does not reach a 50%
// majority; yes must exceed the threshold, not meet it.
func TestExactTieFails(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	for _, v := range []string{"alice", "bob"} {
		h.stake(t, v, 100, 90, 0.8)
	}
	id := h.activeProposal(t, "alice")

	if _, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := h.engine.VoteOnProposal(ctx, id, "bob", governance.VoteNo, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	h.clock.Advance(time.Hour + time.Minute)
	result, err := h.engine.FinalizeProposal(ctx, id)
	if err != nil {
		t.Fatalf("FinalizeProposal failed: %v", err)
	}
	if result.MajorityAchieved {
		t.Error("expected an exact tie to fail the majority check")
	}
}

// TestLateVotesExcludedFromTally verifies votes cast after the voting end
// never change the finalized result.
func TestLateVotesExcludedFromTally(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	for _, v := range []string{"alice", "bob", "carol"} {
		h.stake(t, v, 100, 90, 0.8)
	}

	// The whale cap holds one vote to 3% participation, so a single yes
	// voter needs a quorum below that.
	draft := h.draft("alice")
	draft.RequiredQuorum = 0.02
	id, err := h.engine.CreateProposal(ctx, draft)
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	if err := h.engine.ActivateProposal(ctx, id); err != nil {
		t.Fatalf("ActivateProposal failed: %v", err)
	}

	if _, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	// Voting closes; finalize passes on the single yes vote.
	h.clock.Advance(time.Hour + time.Minute)
	result, err := h.engine.FinalizeProposal(ctx, id)
	if err != nil {
		t.Fatalf("FinalizeProposal failed: %v", err)
	}
	if !result.MajorityAchieved {
		t.Fatal("expected single yes vote to pass")
	}

	// A NO vote in the veto window is accepted but stays out of the tally.
	if _, err := h.engine.VoteOnProposal(ctx, id, "bob", governance.VoteNo, ""); err != nil {
		t.Fatalf("veto-window vote failed: %v", err)
	}
	votes, _ := h.engine.GetProposalVotes(ctx, id)
	if len(votes) != 2 {
		t.Fatalf("expected 2 recorded votes, got %d", len(votes))
	}

	// YES and ABSTAIN are not veto votes and are rejected after voting ends.
	_, err = h.engine.VoteOnProposal(ctx, id, "carol", governance.VoteYes, "")
	if governance.ErrorCode(err) != governance.ErrCodeInvalidState {
		t.Fatalf("expected INVALID_STATE for late YES vote, got %v", err)
	}
}

// TestTallyBreakdowns verifies the per-tier and per-reputation-bucket
// observability breakdowns.
func TestTallyBreakdowns(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	h.stake(t, "alice", 1000, 365, 0.8)
	h.stake(t, "dave", 25, 30, 0.3)
	id := h.activeProposal(t, "alice")

	if _, err := h.engine.VoteOnProposal(ctx, id, "alice", governance.VoteYes, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := h.engine.VoteOnProposal(ctx, id, "dave", governance.VoteNo, ""); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	h.clock.Advance(time.Hour + time.Minute)
	result, err := h.engine.FinalizeProposal(ctx, id)
	if err != nil {
		t.Fatalf("FinalizeProposal failed: %v", err)
	}

	if got := result.ByTier[governance.TierValidatorDelegate].Count; got != 1 {
		t.Errorf("expected 1 validator-delegate vote, got %d", got)
	}
	if got := result.ByTier[governance.TierExplorer].Count; got != 1 {
		t.Errorf("expected 1 explorer vote, got %d", got)
	}
	if got := result.ByReputation["high"].Count; got != 1 {
		t.Errorf("expected 1 high-reputation vote, got %d", got)
	}
	if got := result.ByReputation["low"].Count; got != 1 {
		t.Errorf("expected 1 low-reputation vote, got %d", got)
	}
}

package governance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// VoteOnProposal casts a vote. Voting power, reputation, and stake are
// snapshotted at cast time and the vote is immutable; a second vote from the
// same voter on the same proposal fails with ALREADY_VOTED.
//
// Votes are accepted while the proposal is ACTIVE. A NO vote is additionally
// accepted on a PASSED proposal inside its veto window; such votes count
// toward the veto tally in ExecuteProposal but never reopen the finalized
// result.
func (e *Engine) VoteOnProposal(ctx context.Context, proposalID, userID string, voteType VoteType, reason string) (*Vote, error) {
	switch voteType {
	case VoteYes, VoteNo, VoteAbstain:
	default:
		return nil, NewValidationError(ErrCodeValidation,
			fmt.Sprintf("unknown vote type %q", voteType))
	}

	unlock := e.proposalLocks.lock(proposalID)
	defer unlock()

	proposal, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	switch proposal.Status {
	case StatusActive:
		// Normal voting.
	case StatusPassed:
		if voteType != VoteNo || !e.inVetoWindow(proposal, now) {
			return nil, NewValidationError(ErrCodeInvalidState,
				"only NO votes inside the veto window are accepted on a passed proposal")
		}
	default:
		return nil, NewValidationError(ErrCodeInvalidState,
			fmt.Sprintf("proposal is %s and not accepting votes", proposal.Status))
	}

	if _, err := e.store.GetVote(ctx, proposalID, userID); err == nil {
		return nil, NewConflictError(ErrCodeAlreadyVoted,
			"one vote per user per proposal; votes cannot be edited or retracted")
	} else if ErrorCode(err) != ErrCodeNotFound {
		return nil, NewPermanentError(ErrCodeStoreFailure, "checking for existing vote", err)
	}

	power, stake, trustScore, err := e.votingPower(ctx, userID)
	if err != nil {
		return nil, err
	}

	vote := &Vote{
		ID:               uuid.New().String(),
		ProposalID:       proposalID,
		Voter:            userID,
		Type:             voteType,
		VotingPower:      power,
		ReputationAtVote: trustScore,
		Timestamp:        now,
		Reason:           reason,
	}
	if stake != nil {
		vote.StakeAmount = stake.Amount
		vote.StakingTier = stake.Tier
	}

	if err := e.store.PutVote(ctx, vote); err != nil {
		if ErrorCode(err) == ErrCodeAlreadyVoted {
			return nil, err
		}
		return nil, NewPermanentError(ErrCodeStoreFailure, "recording vote", err)
	}

	e.logger.WithProposalID(proposalID).
		WithUserID(userID).
		WithField("vote_type", string(voteType)).
		WithField("voting_power", power).
		Info("vote cast")
	e.metrics.RecordVote(string(voteType))

	e.audit(ctx, AuditVote, map[string]any{
		"vote_id":      vote.ID,
		"proposal_id":  proposalID,
		"voter":        userID,
		"vote_type":    string(voteType),
		"voting_power": power,
	})
	return vote, nil
}

// GetUserVotingPower computes the power a vote from this user would carry
// right now.
func (e *Engine) GetUserVotingPower(ctx context.Context, userID string) (float64, error) {
	power, _, _, err := e.votingPower(ctx, userID)
	return power, err
}

// votingPower computes voting power at call time:
//
//  1. No active stake means zero power.
//  2. Geometric mean sqrt(stake * trust * rescale) blends economic weight
//     with reputation.
//  3. The tier multiplier rewards longer commitments.
//  4. The whale cap limits any single vote to a fraction of the current
//     total active stake; the effective cap drifts as others stake and
//     unstake.
func (e *Engine) votingPower(ctx context.Context, userID string) (float64, *Stake, float64, error) {
	stake, err := e.store.GetActiveStake(ctx, userID)
	if err != nil {
		if ErrorCode(err) == ErrCodeNotFound {
			return 0, nil, 0, nil
		}
		return 0, nil, 0, NewPermanentError(ErrCodeStoreFailure, "reading voter stake", err)
	}

	trustScore, err := e.reputation.GetTrustScore(ctx, userID)
	if err != nil {
		return 0, nil, 0, NewTransientError(ErrCodeReputationFailure, "reading voter trust score", err)
	}

	power := math.Sqrt(stake.Amount*trustScore*e.cfg.TrustRescale) * e.tierMultiplier(stake.Tier)

	total, err := e.store.TotalActiveStake(ctx)
	if err != nil {
		return 0, nil, 0, NewPermanentError(ErrCodeStoreFailure, "reading total active stake", err)
	}
	if limit := total * e.cfg.VotingPowerCap; power > limit {
		power = limit
	}
	return power, stake, trustScore, nil
}

// tally computes the voting result for a proposal from its recorded votes.
// Veto-window votes (cast after the voting end) are excluded from the
// finalization tally.
func (e *Engine) tally(ctx context.Context, proposal *Proposal) (*VotingResult, error) {
	votes, err := e.store.ListVotesByProposal(ctx, proposal.ID)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "listing votes", err)
	}

	result := &VotingResult{
		ProposalID:   proposal.ID,
		ByTier:       make(map[StakingTier]TierTally),
		ByReputation: make(map[string]ReputationTally),
		FinalizedAt:  e.now(),
	}
	for _, v := range votes {
		if proposal.VotingEndTime != nil && v.Timestamp.After(*proposal.VotingEndTime) {
			continue
		}
		switch v.Type {
		case VoteYes:
			result.YesVotes += v.VotingPower
		case VoteNo:
			result.NoVotes += v.VotingPower
		case VoteAbstain:
			result.AbstainVotes += v.VotingPower
		}

		tt := result.ByTier[v.StakingTier]
		tt.Count++
		tt.Power += v.VotingPower
		result.ByTier[v.StakingTier] = tt

		rt := result.ByReputation[reputationBucket(v.ReputationAtVote)]
		rt.Count++
		rt.Power += v.VotingPower
		result.ByReputation[reputationBucket(v.ReputationAtVote)] = rt
	}
	result.TotalVotingPower = result.YesVotes + result.NoVotes + result.AbstainVotes

	total, err := e.store.TotalActiveStake(ctx)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "reading total active stake", err)
	}
	result.TotalPossibleVotingPower = total
	if total > 0 {
		result.ParticipationRate = result.TotalVotingPower / total
	}
	result.QuorumReached = result.ParticipationRate >= proposal.RequiredQuorum

	// Abstains affect quorum but not the yes/no ratio.
	decisive := result.YesVotes + result.NoVotes
	result.MajorityAchieved = result.YesVotes > decisive*proposal.RequiredMajority

	return result, nil
}

// reputationBucket maps a trust score to its observability bucket.
func reputationBucket(score float64) string {
	switch {
	case score >= 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// inVetoWindow reports whether now falls between a proposal's voting end and
// the end of its veto window.
func (e *Engine) inVetoWindow(proposal *Proposal, now time.Time) bool {
	if proposal.VotingEndTime == nil {
		return false
	}
	vetoEnd := proposal.VotingEndTime.Add(e.cfg.Days(proposal.ExecutionParameters.VetoWindowDays))
	return now.After(*proposal.VotingEndTime) && now.Before(vetoEnd)
}

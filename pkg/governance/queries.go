package governance

import (
	"context"
)

// GetProposal returns a proposal by ID.
func (e *Engine) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	return e.store.GetProposal(ctx, id)
}

// GetProposalsByStatus returns all proposals in the given state.
func (e *Engine) GetProposalsByStatus(ctx context.Context, status ProposalStatus) ([]*Proposal, error) {
	return e.store.ListProposalsByStatus(ctx, status)
}

// GetActiveProposals returns all proposals currently open for voting.
func (e *Engine) GetActiveProposals(ctx context.Context) ([]*Proposal, error) {
	return e.store.ListProposalsByStatus(ctx, StatusActive)
}

// GetUserStake returns the user's active stake, or a NO_ACTIVE_STAKE
// validation error when none exists.
func (e *Engine) GetUserStake(ctx context.Context, userID string) (*Stake, error) {
	stake, err := e.store.GetActiveStake(ctx, userID)
	if err != nil {
		if ErrorCode(err) == ErrCodeNotFound {
			return nil, NewValidationError(ErrCodeNoActiveStake, "user has no active stake")
		}
		return nil, NewPermanentError(ErrCodeStoreFailure, "reading stake", err)
	}
	return stake, nil
}

// GetProposalVotes returns all votes cast on a proposal.
func (e *Engine) GetProposalVotes(ctx context.Context, proposalID string) ([]*Vote, error) {
	if _, err := e.store.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return e.store.ListVotesByProposal(ctx, proposalID)
}

// GetMilestones returns the milestone set with current achievement state.
func (e *Engine) GetMilestones(ctx context.Context) ([]*Milestone, error) {
	return e.store.ListMilestones(ctx)
}

// GetGovernanceStats returns the aggregate governance view and refreshes the
// corresponding gauges.
func (e *Engine) GetGovernanceStats(ctx context.Context) (*GovernanceStats, error) {
	stats := &GovernanceStats{}

	total, err := e.store.CountProposals(ctx)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "counting proposals", err)
	}
	stats.TotalProposals = total

	active, err := e.store.ListProposalsByStatus(ctx, StatusActive)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "listing active proposals", err)
	}
	stats.ActiveProposals = len(active)

	stakes, err := e.store.ListActiveStakes(ctx)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "listing active stakes", err)
	}
	stats.UniqueStakers = len(stakes)
	for _, s := range stakes {
		stats.TotalStaked += s.Amount
	}
	stats.TotalVotingPower = stats.TotalStaked

	voters, err := e.store.CountDistinctVoters(ctx)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "counting voters", err)
	}
	stats.UniqueVoters = voters

	milestones, err := e.store.ListMilestones(ctx)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "listing milestones", err)
	}
	stats.MilestonesTotal = len(milestones)
	for _, m := range milestones {
		if m.Achieved {
			stats.MilestonesAchieved++
		}
	}

	e.metrics.SetGovernanceGauges(
		stats.TotalStaked,
		float64(stats.UniqueStakers),
		float64(stats.ActiveProposals),
		float64(stats.MilestonesAchieved),
	)
	return stats, nil
}

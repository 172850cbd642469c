package governance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ProposalDraft is the caller-supplied input to CreateProposal.
type ProposalDraft struct {
	// Author is the proposing user.
	Author string `json:"author" validate:"required"`

	// Type selects the execution handler.
	Type ProposalType `json:"type" validate:"required,oneof=PARAMETER_CHANGE TREASURY_SPEND PROTOCOL_UPGRADE GOVERNANCE_CHANGE EMERGENCY_ACTION"`

	// Title is a short summary.
	Title string `json:"title" validate:"required,max=200"`

	// Description is the full proposal body.
	Description string `json:"description" validate:"required"`

	// RequiredQuorum is the participation fraction needed for the vote to
	// count (0-1).
	RequiredQuorum float64 `json:"required_quorum" validate:"gt=0,lte=1"`

	// RequiredMajority is the required fraction of yes votes among
	// non-abstain votes (0-1).
	RequiredMajority float64 `json:"required_majority" validate:"gt=0,lte=1"`

	// MinTrustScore gates the author's trust score at creation.
	MinTrustScore float64 `json:"min_trust_score" validate:"gte=0,lte=1"`

	// TimelockDays is the delay between passing and execution.
	TimelockDays int `json:"timelock_days" validate:"gte=0"`

	// VetoWindowDays is the post-voting veto period.
	VetoWindowDays int `json:"veto_window_days" validate:"gte=0"`
}

// CreateProposal records a DRAFT proposal. The author must hold an active
// stake and meet the draft's trust-score requirement. Descriptions longer
// than the offload threshold are stored in the content store and anchored
// by hash; the description itself is retained for fast reads.
func (e *Engine) CreateProposal(ctx context.Context, draft ProposalDraft) (string, error) {
	if err := e.validate.Struct(draft); err != nil {
		return "", NewValidationError(ErrCodeValidation, err.Error())
	}

	if _, err := e.store.GetActiveStake(ctx, draft.Author); err != nil {
		if ErrorCode(err) == ErrCodeNotFound {
			return "", NewValidationError(ErrCodeNotStaked,
				"proposal authors must hold an active governance stake")
		}
		return "", NewPermanentError(ErrCodeStoreFailure, "reading author stake", err)
	}

	trustScore, err := e.reputation.GetTrustScore(ctx, draft.Author)
	if err != nil {
		return "", NewTransientError(ErrCodeReputationFailure, "reading author trust score", err)
	}
	if trustScore < draft.MinTrustScore {
		return "", NewValidationError(ErrCodeInsufficientTrustScore,
			fmt.Sprintf("author trust score %.2f is below the required %.2f",
				trustScore, draft.MinTrustScore))
	}

	proposal := &Proposal{
		ID:               uuid.New().String(),
		Author:           draft.Author,
		Type:             draft.Type,
		Status:           StatusDraft,
		Title:            draft.Title,
		Description:      draft.Description,
		CreatedAt:        e.now(),
		RequiredQuorum:   draft.RequiredQuorum,
		RequiredMajority: draft.RequiredMajority,
		StakingRequirements: StakingRequirements{
			MinTrustScore: draft.MinTrustScore,
		},
		AuthorReputationAtCreation: trustScore,
		ExecutionParameters: ExecutionParameters{
			TimelockDays:   draft.TimelockDays,
			VetoWindowDays: draft.VetoWindowDays,
		},
	}

	if len(draft.Description) > e.cfg.DescriptionOffloadLimit {
		hash, err := e.content.Store(ctx, []byte(draft.Description))
		if err != nil {
			return "", NewTransientError(ErrCodeStoreFailure, "offloading proposal body", err)
		}
		proposal.ContentHash = hash
	}

	if err := e.store.PutProposal(ctx, proposal); err != nil {
		return "", NewPermanentError(ErrCodeStoreFailure, "recording proposal", err)
	}

	e.logger.WithProposalID(proposal.ID).
		WithUserID(draft.Author).
		WithField("proposal_type", string(draft.Type)).
		Info("proposal created")
	e.metrics.RecordProposalCreated(string(draft.Type))

	e.audit(ctx, AuditProposal, map[string]any{
		"proposal_id":  proposal.ID,
		"author":       proposal.Author,
		"type":         string(proposal.Type),
		"content_hash": proposal.ContentHash,
	})
	return proposal.ID, nil
}

// ActivateProposal moves a DRAFT proposal to ACTIVE and opens its voting
// window.
func (e *Engine) ActivateProposal(ctx context.Context, id string) error {
	unlock := e.proposalLocks.lock(id)
	defer unlock()

	proposal, err := e.store.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	if proposal.Status != StatusDraft {
		return NewValidationError(ErrCodeInvalidState,
			fmt.Sprintf("proposal is %s, only DRAFT proposals can be activated", proposal.Status))
	}

	start := e.now()
	end := start.Add(e.cfg.VotingPeriod)
	proposal.Status = StatusActive
	proposal.VotingStartTime = &start
	proposal.VotingEndTime = &end

	if err := e.store.PutProposal(ctx, proposal); err != nil {
		return NewPermanentError(ErrCodeStoreFailure, "activating proposal", err)
	}

	e.logger.WithProposalID(id).
		WithField("voting_end", end).
		Info("proposal activated")
	e.metrics.SetProposalStatus(string(StatusActive), 1)

	e.audit(ctx, AuditActivate, map[string]any{
		"proposal_id":       id,
		"voting_start_time": start,
		"voting_end_time":   end,
	})
	return nil
}

// FinalizeProposal tallies an ACTIVE proposal whose voting window has
// closed. On quorum and majority the proposal becomes PASSED and a durable
// deferred execution is scheduled after its timelock; otherwise it becomes
// REJECTED.
func (e *Engine) FinalizeProposal(ctx context.Context, id string) (*VotingResult, error) {
	unlock := e.proposalLocks.lock(id)
	defer unlock()

	proposal, err := e.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != StatusActive {
		return nil, NewValidationError(ErrCodeInvalidState,
			fmt.Sprintf("proposal is %s, only ACTIVE proposals can be finalized", proposal.Status))
	}
	now := e.now()
	if proposal.VotingEndTime == nil || now.Before(*proposal.VotingEndTime) {
		return nil, NewValidationError(ErrCodeVotingStillOpen,
			"voting window has not closed yet")
	}

	result, err := e.tally(ctx, proposal)
	if err != nil {
		return nil, err
	}

	if result.QuorumReached && result.MajorityAchieved {
		proposal.Status = StatusPassed
	} else {
		proposal.Status = StatusRejected
	}
	if err := e.store.PutProposal(ctx, proposal); err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "finalizing proposal", err)
	}

	if proposal.Status == StatusPassed {
		exec := &ScheduledExecution{
			ID:         uuid.New().String(),
			ProposalID: proposal.ID,
			DueAt:      now.Add(e.cfg.Days(proposal.ExecutionParameters.TimelockDays)),
			CreatedAt:  now,
		}
		if err := e.store.ScheduleExecution(ctx, exec); err != nil {
			return nil, NewPermanentError(ErrCodeStoreFailure, "scheduling execution", err)
		}
		e.logger.WithProposalID(id).
			WithField("due_at", exec.DueAt).
			Info("proposal passed, execution scheduled")
	} else {
		e.logger.WithProposalID(id).
			WithField("participation_rate", result.ParticipationRate).
			Info("proposal rejected")
	}
	e.metrics.RecordProposalFinalized(string(proposal.Status))

	e.audit(ctx, AuditResult, map[string]any{
		"proposal_id": id,
		"status":      string(proposal.Status),
		"result":      result,
	})
	return result, nil
}

// ExpireStaleProposals sweeps ACTIVE proposals whose voting window closed
// more than the configured grace period ago without finalization. Returns
// the IDs moved to EXPIRED.
func (e *Engine) ExpireStaleProposals(ctx context.Context) ([]string, error) {
	active, err := e.store.ListProposalsByStatus(ctx, StatusActive)
	if err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "listing active proposals", err)
	}
	now := e.now()
	var expired []string
	for _, p := range active {
		if p.VotingEndTime == nil || now.Before(p.VotingEndTime.Add(e.cfg.ExpireAfter)) {
			continue
		}
		unlock := e.proposalLocks.lock(p.ID)
		// Re-read under the lock; a racing finalize may have moved it on.
		current, err := e.store.GetProposal(ctx, p.ID)
		if err == nil && current.Status == StatusActive {
			current.Status = StatusExpired
			err = e.store.PutProposal(ctx, current)
			if err == nil {
				expired = append(expired, current.ID)
				e.logger.WithProposalID(current.ID).Warn("unfinalized proposal expired")
			}
		}
		unlock()
		if err != nil {
			return expired, NewPermanentError(ErrCodeStoreFailure, "expiring proposal", err)
		}
	}
	return expired, nil
}

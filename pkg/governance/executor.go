package governance

import (
	"context"
	"fmt"
)

// RegisterHandler installs the handler for a proposal type, replacing the
// default. Collaborating subsystems register their concrete effects here;
// the engine only owns the dispatch and the lifecycle around it.
func (e *Engine) RegisterHandler(proposalType ProposalType, handler ProposalHandler) {
	e.handlersMu.Lock()
	defer e.handlersMu.Unlock()
	e.handlers[proposalType] = handler
}

// registerDefaultHandlers installs logging stubs for every proposal type.
// Deployments replace them via RegisterHandler; the stubs keep the lifecycle
// executable end to end without the surrounding application.
func (e *Engine) registerDefaultHandlers() {
	for _, t := range []ProposalType{
		ProposalParameterChange,
		ProposalTreasurySpend,
		ProposalProtocolUpgrade,
		ProposalGovernanceChange,
		ProposalEmergencyAction,
	} {
		proposalType := t
		e.handlers[proposalType] = ProposalHandlerFunc(func(ctx context.Context, p *Proposal) error {
			e.logger.WithProposalID(p.ID).
				WithField("proposal_type", string(proposalType)).
				Info("no handler registered; recording execution without side effects")
			return nil
		})
	}
}

// ExecuteProposal executes a PASSED proposal. The veto tally is checked
// first: when NO votes cast during the veto window exceed the configured
// fraction of total possible voting power, the proposal is VETOED and no
// handler runs. The check applies however late execution happens; a timelock
// longer than the veto window must not outrun a successful veto. A handler
// failure leaves the proposal PASSED so an operator (or the execution
// worker) can retry; it surfaces as a retryable error.
func (e *Engine) ExecuteProposal(ctx context.Context, id string) error {
	unlock := e.proposalLocks.lock(id)
	defer unlock()

	proposal, err := e.store.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	if proposal.Status != StatusPassed {
		return NewValidationError(ErrCodeNotExecutable,
			fmt.Sprintf("proposal is %s, only PASSED proposals can be executed", proposal.Status))
	}

	vetoed, vetoPower, err := e.vetoCheck(ctx, proposal)
	if err != nil {
		return err
	}
	if vetoed {
		proposal.Status = StatusVetoed
		if err := e.store.PutProposal(ctx, proposal); err != nil {
			return NewPermanentError(ErrCodeStoreFailure, "recording veto", err)
		}
		e.logger.WithProposalID(id).
			WithField("veto_power", vetoPower).
			Warn("execution blocked by veto")
		e.metrics.RecordProposalExecution("vetoed")
		e.audit(ctx, AuditExecuted, map[string]any{
			"proposal_id": id,
			"status":      string(StatusVetoed),
			"veto_power":  vetoPower,
		})
		return nil
	}

	e.handlersMu.RLock()
	handler := e.handlers[proposal.Type]
	e.handlersMu.RUnlock()
	if handler == nil {
		return NewPermanentError(ErrCodeHandlerFailed,
			fmt.Sprintf("no handler for proposal type %s", proposal.Type), nil)
	}

	if err := handler.Execute(ctx, proposal); err != nil {
		// Fail open, stay retryable: the proposal remains PASSED.
		e.logger.WithProposalID(id).WithError(err).
			Error("execution handler failed; proposal remains PASSED for retry")
		e.metrics.RecordProposalExecution("failed")
		return NewTransientError(ErrCodeHandlerFailed, "execution handler failed", err)
	}

	proposal.Status = StatusExecuted
	if err := e.store.PutProposal(ctx, proposal); err != nil {
		return NewPermanentError(ErrCodeStoreFailure, "recording execution", err)
	}

	e.logger.WithProposalID(id).Info("proposal executed")
	e.metrics.RecordProposalExecution("executed")
	e.audit(ctx, AuditExecuted, map[string]any{
		"proposal_id": id,
		"status":      string(StatusExecuted),
		"type":        string(proposal.Type),
	})
	return nil
}

// vetoCheck sums the power of NO votes cast after the voting end and
// compares it against the veto threshold fraction of the current total
// possible voting power.
func (e *Engine) vetoCheck(ctx context.Context, proposal *Proposal) (bool, float64, error) {
	votes, err := e.store.ListVotesByProposal(ctx, proposal.ID)
	if err != nil {
		return false, 0, NewPermanentError(ErrCodeStoreFailure, "listing votes for veto check", err)
	}
	var vetoPower float64
	for _, v := range votes {
		if v.Type != VoteNo || proposal.VotingEndTime == nil {
			continue
		}
		if v.Timestamp.After(*proposal.VotingEndTime) {
			vetoPower += v.VotingPower
		}
	}
	total, err := e.store.TotalActiveStake(ctx)
	if err != nil {
		return false, 0, NewPermanentError(ErrCodeStoreFailure, "reading total active stake", err)
	}
	return vetoPower > total*e.cfg.VetoThreshold, vetoPower, nil
}

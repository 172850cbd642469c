package governance

import (
	"context"
)

// TokenLedger is the external token custody collaborator. The engine never
// holds funds itself; it instructs the ledger to lock, unlock, and burn.
type TokenLedger interface {
	// GetBalance returns the user's spendable balance.
	GetBalance(ctx context.Context, userID string) (float64, error)

	// LockTokens moves amount from the user's spendable balance into a
	// governance lock for the given duration.
	LockTokens(ctx context.Context, userID string, amount float64, durationDays int) error

	// UnlockTokens releases amount from the user's governance lock back to
	// the spendable balance.
	UnlockTokens(ctx context.Context, userID string, amount float64) error

	// BurnTokens permanently destroys amount from locked supply.
	BurnTokens(ctx context.Context, amount float64) error
}

// ReputationSource exposes trust scores in [0, 1].
type ReputationSource interface {
	// GetTrustScore returns the user's current trust score.
	GetTrustScore(ctx context.Context, userID string) (float64, error)
}

// ContentStore offloads large proposal bodies and returns a content hash.
type ContentStore interface {
	// Store persists the document and returns its content hash.
	Store(ctx context.Context, document []byte) (string, error)
}

// Receipt acknowledges a commit-log submission.
type Receipt struct {
	// ID is the submission identifier assigned by the log.
	ID string `json:"id"`

	// Sequence is the monotonically increasing sequence number assigned to
	// the record.
	Sequence uint64 `json:"sequence"`
}

// CommitLog is the append-only, best-effort audit trail. Submission failures
// never roll back governance state; the engine logs them and moves on.
type CommitLog interface {
	// Submit appends a record to the log.
	Submit(ctx context.Context, record AuditRecord) (Receipt, error)
}

// Store is the repository backing the engine's four entity collections plus
// the scheduled-execution queue. Implementations must be safe for concurrent
// use; the engine provides per-user and per-proposal mutual exclusion on top.
type Store interface {
	// PutStake inserts or updates a stake by ID.
	PutStake(ctx context.Context, stake *Stake) error

	// GetActiveStake returns the user's active stake, or a NOT_FOUND
	// governance error when none is active.
	GetActiveStake(ctx context.Context, userID string) (*Stake, error)

	// ListActiveStakes returns all currently active stakes.
	ListActiveStakes(ctx context.Context) ([]*Stake, error)

	// TotalActiveStake returns the sum of all active stake amounts.
	TotalActiveStake(ctx context.Context) (float64, error)

	// PutProposal inserts or updates a proposal by ID.
	PutProposal(ctx context.Context, proposal *Proposal) error

	// GetProposal returns a proposal by ID, or a NOT_FOUND governance
	// error.
	GetProposal(ctx context.Context, id string) (*Proposal, error)

	// ListProposalsByStatus returns proposals in the given state.
	ListProposalsByStatus(ctx context.Context, status ProposalStatus) ([]*Proposal, error)

	// CountProposals returns the total number of proposals.
	CountProposals(ctx context.Context) (int, error)

	// PutVote records a vote. Implementations reject a second vote for the
	// same (proposal, voter) pair with an ALREADY_VOTED governance error.
	PutVote(ctx context.Context, vote *Vote) error

	// GetVote returns the vote cast by voter on the proposal, or a
	// NOT_FOUND governance error.
	GetVote(ctx context.Context, proposalID, voter string) (*Vote, error)

	// ListVotesByProposal returns all votes on a proposal in cast order.
	ListVotesByProposal(ctx context.Context, proposalID string) ([]*Vote, error)

	// CountDistinctVoters returns the number of distinct voters across all
	// proposals.
	CountDistinctVoters(ctx context.Context) (int, error)

	// PutMilestone inserts or updates a milestone by ID.
	PutMilestone(ctx context.Context, milestone *Milestone) error

	// ListMilestones returns all milestones in seed order.
	ListMilestones(ctx context.Context) ([]*Milestone, error)

	// ScheduleExecution persists a due-at record for deferred execution.
	ScheduleExecution(ctx context.Context, exec *ScheduledExecution) error

	// DueExecutions returns pending execution records due at or before now.
	DueExecutions(ctx context.Context, now int64) ([]*ScheduledExecution, error)

	// UpdateExecution updates attempt count, due time, and done flag.
	UpdateExecution(ctx context.Context, exec *ScheduledExecution) error
}

// AuditQueue is the durable parking lot for audit records whose commit-log
// submission failed. A backfill worker drains it.
type AuditQueue interface {
	// EnqueueAudit parks a failed audit record for later retry.
	EnqueueAudit(ctx context.Context, record AuditRecord) error

	// PendingAudits returns up to limit parked records in enqueue order,
	// each paired with its queue entry ID.
	PendingAudits(ctx context.Context, limit int) ([]PendingAudit, error)

	// DeletePendingAudit removes a drained queue entry.
	DeletePendingAudit(ctx context.Context, id int64) error
}

// PendingAudit pairs a parked audit record with its queue entry ID.
type PendingAudit struct {
	ID     int64       `json:"id"`
	Record AuditRecord `json:"record"`
}

// ProposalHandler applies the concrete effect of one proposal type. The
// engine dispatches to the handler registered for proposal.Type once the
// timelock has elapsed and the veto window is clear.
type ProposalHandler interface {
	// Execute applies the proposal's effect. A returned error leaves the
	// proposal PASSED for manual retry.
	Execute(ctx context.Context, proposal *Proposal) error
}

// ProposalHandlerFunc adapts a function to the ProposalHandler interface.
type ProposalHandlerFunc func(ctx context.Context, proposal *Proposal) error

// Execute implements ProposalHandler.
func (f ProposalHandlerFunc) Execute(ctx context.Context, proposal *Proposal) error {
	return f(ctx, proposal)
}

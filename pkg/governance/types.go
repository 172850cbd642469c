package governance

import (
	"time"
)

// StakingTier represents a staking bracket determining governance privileges
// and vote-weight multiplier.
type StakingTier string

const (
	TierExplorer          StakingTier = "EXPLORER"
	TierCurator           StakingTier = "CURATOR"
	TierPassport          StakingTier = "PASSPORT"
	TierValidatorDelegate StakingTier = "VALIDATOR_DELEGATE"
)

// ProposalType identifies what kind of change a proposal requests.
type ProposalType string

const (
	ProposalParameterChange  ProposalType = "PARAMETER_CHANGE"
	ProposalTreasurySpend    ProposalType = "TREASURY_SPEND"
	ProposalProtocolUpgrade  ProposalType = "PROTOCOL_UPGRADE"
	ProposalGovernanceChange ProposalType = "GOVERNANCE_CHANGE"
	ProposalEmergencyAction  ProposalType = "EMERGENCY_ACTION"
)

// ProposalStatus represents the lifecycle state of a proposal.
//
// Transitions: DRAFT -> ACTIVE -> {PASSED, REJECTED}; PASSED -> {EXECUTED,
// VETOED}. REJECTED, EXECUTED, EXPIRED, and VETOED are terminal.
type ProposalStatus string

const (
	StatusDraft    ProposalStatus = "DRAFT"
	StatusActive   ProposalStatus = "ACTIVE"
	StatusPassed   ProposalStatus = "PASSED"
	StatusRejected ProposalStatus = "REJECTED"
	StatusExecuted ProposalStatus = "EXECUTED"
	StatusExpired  ProposalStatus = "EXPIRED"
	StatusVetoed   ProposalStatus = "VETOED"
)

// IsTerminal returns true for states that no transition exits.
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusExecuted, StatusExpired, StatusVetoed:
		return true
	}
	return false
}

// VoteType represents a voter's decision.
type VoteType string

const (
	VoteYes     VoteType = "YES"
	VoteNo      VoteType = "NO"
	VoteAbstain VoteType = "ABSTAIN"
)

// Stake represents a user's governance stake. A user holds at most one
// active stake at a time; inactive stakes are retained for historical
// voting-power attribution and never deleted.
type Stake struct {
	// ID is the unique identifier for this stake.
	ID string `json:"id"`

	// UserID is the staking user.
	UserID string `json:"user_id"`

	// Amount is the staked token quantity. Positive while the stake is active.
	Amount float64 `json:"amount"`

	// Tier is the staking tier derived at stake time.
	Tier StakingTier `json:"tier"`

	// StakedAt is when the stake was created.
	StakedAt time.Time `json:"staked_at"`

	// LockDurationDays is the commitment period in days.
	LockDurationDays int `json:"lock_duration_days"`

	// IsActive is false once the user unstakes.
	IsActive bool `json:"is_active"`
}

// StakingRequirements are the author-side requirements attached to a proposal.
type StakingRequirements struct {
	// MinTrustScore is the minimum trust score the author must hold at
	// creation time.
	MinTrustScore float64 `json:"min_trust_score"`
}

// ExecutionParameters control when a passed proposal takes effect.
type ExecutionParameters struct {
	// TimelockDays is the mandatory delay between passing and execution.
	TimelockDays int `json:"timelock_days"`

	// VetoWindowDays is the post-voting period during which opposing power
	// can block execution.
	VetoWindowDays int `json:"veto_window_days"`
}

// Proposal is a governance change request.
type Proposal struct {
	// ID is the generated opaque identifier.
	ID string `json:"id"`

	// Author is the proposing user.
	Author string `json:"author"`

	// Type identifies which execution handler applies.
	Type ProposalType `json:"type"`

	// Status is the current lifecycle state.
	Status ProposalStatus `json:"status"`

	// Title is a short human-readable summary.
	Title string `json:"title"`

	// Description is the full proposal body. Retained even when offloaded
	// to the content store.
	Description string `json:"description"`

	// ContentHash is set when the description exceeds the offload threshold
	// and was stored in the content store.
	ContentHash string `json:"content_hash,omitempty"`

	// CreatedAt is when the proposal was created.
	CreatedAt time.Time `json:"created_at"`

	// VotingStartTime is set when the proposal is activated.
	VotingStartTime *time.Time `json:"voting_start_time,omitempty"`

	// VotingEndTime is set when the proposal is activated.
	VotingEndTime *time.Time `json:"voting_end_time,omitempty"`

	// RequiredQuorum is the fraction of total possible voting power that
	// must participate (0-1).
	RequiredQuorum float64 `json:"required_quorum"`

	// RequiredMajority is the required fraction of yes votes among
	// non-abstain votes (0-1).
	RequiredMajority float64 `json:"required_majority"`

	// StakingRequirements gates who may author the proposal.
	StakingRequirements StakingRequirements `json:"staking_requirements"`

	// AuthorReputationAtCreation is the author's trust score snapshot at
	// creation time, frozen for later audit.
	AuthorReputationAtCreation float64 `json:"author_reputation_at_creation"`

	// ExecutionParameters control timelock and veto window.
	ExecutionParameters ExecutionParameters `json:"execution_parameters"`
}

// Vote is a single immutable vote on a proposal. At most one vote exists per
// (proposal, voter) pair.
type Vote struct {
	// ID is the unique identifier for this vote.
	ID string `json:"id"`

	// ProposalID is the proposal voted on.
	ProposalID string `json:"proposal_id"`

	// Voter is the voting user.
	Voter string `json:"voter"`

	// Type is the voter's decision.
	Type VoteType `json:"type"`

	// VotingPower is the power computed at cast time.
	VotingPower float64 `json:"voting_power"`

	// ReputationAtVote is the voter's trust score snapshot at cast time.
	ReputationAtVote float64 `json:"reputation_at_vote"`

	// StakeAmount is the voter's active stake amount at cast time.
	StakeAmount float64 `json:"stake_amount"`

	// StakingTier is the voter's tier at cast time.
	StakingTier StakingTier `json:"staking_tier"`

	// Timestamp is when the vote was cast.
	Timestamp time.Time `json:"timestamp"`

	// Reason is an optional free-form justification.
	Reason string `json:"reason,omitempty"`
}

// Milestone is a decentralization-progress checkpoint. The set is seeded at
// engine construction and achievement is irreversible.
type Milestone struct {
	// ID is the stable milestone identifier.
	ID string `json:"id"`

	// Name is the human-readable milestone name.
	Name string `json:"name"`

	// Description explains what the milestone represents.
	Description string `json:"description,omitempty"`

	// Requirements maps requirement names to numeric thresholds. All
	// requirements must be satisfied for the milestone to be achieved.
	// Requirement keys without a registered evaluator are treated as
	// always satisfied, pending integration with external metrics.
	Requirements map[string]float64 `json:"requirements"`

	// Unlocks describes the governance authority granted on achievement.
	Unlocks []string `json:"unlocks"`

	// Achieved flips true irreversibly once every requirement is met.
	Achieved bool `json:"achieved"`

	// AchievedAt is when the milestone was achieved.
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// TierTally is the per-tier vote breakdown in a voting result.
type TierTally struct {
	// Count is the number of votes cast by this tier.
	Count int `json:"count"`

	// Power is the summed voting power cast by this tier.
	Power float64 `json:"power"`
}

// ReputationTally is the per-reputation-bucket vote breakdown.
type ReputationTally struct {
	Count int     `json:"count"`
	Power float64 `json:"power"`
}

// VotingResult is the tally computed when a proposal is finalized. The tier
// and reputation breakdowns are observability data and do not affect the
// pass/fail outcome.
type VotingResult struct {
	// ProposalID is the tallied proposal.
	ProposalID string `json:"proposal_id"`

	// YesVotes is the summed power of YES votes.
	YesVotes float64 `json:"yes_votes"`

	// NoVotes is the summed power of NO votes.
	NoVotes float64 `json:"no_votes"`

	// AbstainVotes is the summed power of ABSTAIN votes.
	AbstainVotes float64 `json:"abstain_votes"`

	// TotalVotingPower is the summed power of all votes cast.
	TotalVotingPower float64 `json:"total_voting_power"`

	// TotalPossibleVotingPower is the sum of all active stake amounts at
	// finalize time.
	TotalPossibleVotingPower float64 `json:"total_possible_voting_power"`

	// ParticipationRate is TotalVotingPower / TotalPossibleVotingPower.
	ParticipationRate float64 `json:"participation_rate"`

	// QuorumReached is true when the participation rate meets the
	// proposal's required quorum.
	QuorumReached bool `json:"quorum_reached"`

	// MajorityAchieved is true when yes votes exceed the required fraction
	// of non-abstain votes. Abstains affect quorum but not the majority.
	MajorityAchieved bool `json:"majority_achieved"`

	// ByTier breaks the tally down per staking tier.
	ByTier map[StakingTier]TierTally `json:"by_tier"`

	// ByReputation breaks the tally down per reputation bucket
	// (high >= 0.7, medium >= 0.4, low < 0.4).
	ByReputation map[string]ReputationTally `json:"by_reputation"`

	// FinalizedAt is when the tally was computed.
	FinalizedAt time.Time `json:"finalized_at"`
}

// UnstakeResult reports the outcome of an unstake operation.
type UnstakeResult struct {
	// Returned is the token amount unlocked back to the user.
	Returned float64 `json:"returned"`

	// Burned is the early-exit penalty amount, zero after lock expiry.
	Burned float64 `json:"burned"`

	// Early is true when the unstake happened before lock expiry.
	Early bool `json:"early"`
}

// GovernanceStats is the aggregate view returned by GetGovernanceStats.
type GovernanceStats struct {
	TotalProposals     int     `json:"total_proposals"`
	ActiveProposals    int     `json:"active_proposals"`
	TotalStaked        float64 `json:"total_staked"`
	UniqueStakers      int     `json:"unique_stakers"`
	TotalVotingPower   float64 `json:"total_voting_power"`
	MilestonesAchieved int     `json:"milestones_achieved"`
	MilestonesTotal    int     `json:"milestones_total"`
	UniqueVoters       int     `json:"unique_voters"`
}

// ScheduledExecution is a durable due-at record for the deferred execution of
// a passed proposal. Records survive process restarts and are polled by the
// execution worker.
type ScheduledExecution struct {
	// ID is the unique identifier for this schedule entry.
	ID string `json:"id"`

	// ProposalID is the proposal to execute.
	ProposalID string `json:"proposal_id"`

	// DueAt is the earliest time execution may be attempted.
	DueAt time.Time `json:"due_at"`

	// Attempts counts execution attempts so far.
	Attempts int `json:"attempts"`

	// Done is true once the proposal reached a terminal state.
	Done bool `json:"done"`

	// CreatedAt is when the execution was scheduled.
	CreatedAt time.Time `json:"created_at"`
}

// Audit event types emitted to the chain/commit log.
const (
	AuditStake     = "governance_stake"
	AuditUnstake   = "governance_unstake"
	AuditProposal  = "governance_proposal"
	AuditActivate  = "governance_activate"
	AuditVote      = "governance_vote"
	AuditResult    = "governance_result"
	AuditExecuted  = "governance_executed"
	AuditMilestone = "governance_milestone"
)

// AuditRecord is the uniform envelope written to the chain/commit log.
type AuditRecord struct {
	// Type is one of the governance_* event names.
	Type string `json:"type"`

	// Data is the event-specific payload.
	Data map[string]any `json:"data"`

	// Timestamp is when the record was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Sequence is a monotonically increasing number assigned by the
	// commit-log adapter, zero until assigned.
	Sequence uint64 `json:"sequence,omitempty"`
}

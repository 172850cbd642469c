package stores

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/omeonechain/governance/pkg/governance"
)

// MemoryStore implements governance.Store and governance.AuditQueue in memory.
// It is used by tests and by the dev CLI mode; nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	stakes      map[string]*governance.Stake
	proposals   map[string]*governance.Proposal
	votes       map[string][]*governance.Vote
	milestones  []*governance.Milestone
	executions  map[string]*governance.ScheduledExecution
	audits      map[int64]governance.AuditRecord
	nextAuditID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stakes:     make(map[string]*governance.Stake),
		proposals:  make(map[string]*governance.Proposal),
		votes:      make(map[string][]*governance.Vote),
		executions: make(map[string]*governance.ScheduledExecution),
		audits:     make(map[int64]governance.AuditRecord),
	}
}

// PutStake inserts or updates a stake by ID.
func (m *MemoryStore) PutStake(_ context.Context, stake *governance.Stake) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *stake
	m.stakes[stake.ID] = &copied
	return nil
}

// GetActiveStake returns the user's active stake.
func (m *MemoryStore) GetActiveStake(_ context.Context, userID string) (*governance.Stake, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, stake := range m.stakes {
		if stake.UserID == userID && stake.IsActive {
			copied := *stake
			return &copied, nil
		}
	}

	return nil, governance.NewValidationError(governance.ErrCodeNotFound,
		fmt.Sprintf("no active stake for user %s", userID))
}

// ListActiveStakes returns all currently active stakes.
func (m *MemoryStore) ListActiveStakes(_ context.Context) ([]*governance.Stake, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stakes := []*governance.Stake{}
	for _, stake := range m.stakes {
		if stake.IsActive {
			copied := *stake
			stakes = append(stakes, &copied)
		}
	}

	sort.Slice(stakes, func(i, j int) bool {
		return stakes[i].StakedAt.Before(stakes[j].StakedAt)
	})

	return stakes, nil
}

// TotalActiveStake returns the sum of all active stake amounts.
func (m *MemoryStore) TotalActiveStake(_ context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	for _, stake := range m.stakes {
		if stake.IsActive {
			total += stake.Amount
		}
	}

	return total, nil
}

// PutProposal inserts or updates a proposal by ID.
func (m *MemoryStore) PutProposal(_ context.Context, proposal *governance.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *proposal
	m.proposals[proposal.ID] = &copied
	return nil
}

// GetProposal retrieves a proposal by ID.
func (m *MemoryStore) GetProposal(_ context.Context, id string) (*governance.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	proposal, ok := m.proposals[id]
	if !ok {
		return nil, governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("proposal not found: %s", id))
	}

	copied := *proposal
	return &copied, nil
}

// ListProposalsByStatus returns proposals in the given state.
func (m *MemoryStore) ListProposalsByStatus(_ context.Context, status governance.ProposalStatus) ([]*governance.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	proposals := []*governance.Proposal{}
	for _, proposal := range m.proposals {
		if proposal.Status == status {
			copied := *proposal
			proposals = append(proposals, &copied)
		}
	}

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
	})

	return proposals, nil
}

// CountProposals returns the total number of proposals.
func (m *MemoryStore) CountProposals(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.proposals), nil
}

// PutVote records a vote, rejecting duplicates per (proposal, voter).
func (m *MemoryStore) PutVote(_ context.Context, vote *governance.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.votes[vote.ProposalID] {
		if existing.Voter == vote.Voter {
			return governance.NewConflictError(governance.ErrCodeAlreadyVoted,
				fmt.Sprintf("user %s already voted on proposal %s", vote.Voter, vote.ProposalID))
		}
	}

	copied := *vote
	m.votes[vote.ProposalID] = append(m.votes[vote.ProposalID], &copied)
	return nil
}

// GetVote returns the vote cast by voter on the proposal.
func (m *MemoryStore) GetVote(_ context.Context, proposalID, voter string) (*governance.Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, vote := range m.votes[proposalID] {
		if vote.Voter == voter {
			copied := *vote
			return &copied, nil
		}
	}

	return nil, governance.NewValidationError(governance.ErrCodeNotFound,
		fmt.Sprintf("no vote by %s on proposal %s", voter, proposalID))
}

// ListVotesByProposal returns all votes on a proposal in cast order.
func (m *MemoryStore) ListVotesByProposal(_ context.Context, proposalID string) ([]*governance.Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	votes := make([]*governance.Vote, 0, len(m.votes[proposalID]))
	for _, vote := range m.votes[proposalID] {
		copied := *vote
		votes = append(votes, &copied)
	}

	return votes, nil
}

// CountDistinctVoters returns the number of distinct voters across all proposals.
func (m *MemoryStore) CountDistinctVoters(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	voters := map[string]struct{}{}
	for _, votes := range m.votes {
		for _, vote := range votes {
			voters[vote.Voter] = struct{}{}
		}
	}

	return len(voters), nil
}

// PutMilestone inserts or updates a milestone by ID.
func (m *MemoryStore) PutMilestone(_ context.Context, milestone *governance.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *milestone
	for i, existing := range m.milestones {
		if existing.ID == milestone.ID {
			m.milestones[i] = &copied
			return nil
		}
	}

	m.milestones = append(m.milestones, &copied)
	return nil
}

// ListMilestones returns all milestones in seed order.
func (m *MemoryStore) ListMilestones(_ context.Context) ([]*governance.Milestone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	milestones := make([]*governance.Milestone, 0, len(m.milestones))
	for _, milestone := range m.milestones {
		copied := *milestone
		milestones = append(milestones, &copied)
	}

	return milestones, nil
}

// ScheduleExecution persists a due-at record for deferred execution.
func (m *MemoryStore) ScheduleExecution(_ context.Context, exec *governance.ScheduledExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *exec
	m.executions[exec.ID] = &copied
	return nil
}

// DueExecutions returns pending execution records due at or before now.
func (m *MemoryStore) DueExecutions(_ context.Context, now int64) ([]*governance.ScheduledExecution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	due := []*governance.ScheduledExecution{}
	for _, exec := range m.executions {
		if !exec.Done && exec.DueAt.UnixNano() <= now {
			copied := *exec
			due = append(due, &copied)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].DueAt.Before(due[j].DueAt)
	})

	return due, nil
}

// UpdateExecution updates attempt count, due time, and done flag.
func (m *MemoryStore) UpdateExecution(_ context.Context, exec *governance.ScheduledExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.executions[exec.ID]; !ok {
		return governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("execution not found: %s", exec.ID))
	}

	copied := *exec
	m.executions[exec.ID] = &copied
	return nil
}

// EnqueueAudit parks a failed audit record for later retry.
func (m *MemoryStore) EnqueueAudit(_ context.Context, record governance.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAuditID++
	m.audits[m.nextAuditID] = record
	return nil
}

// PendingAudits returns up to limit parked records in enqueue order.
func (m *MemoryStore) PendingAudits(_ context.Context, limit int) ([]governance.PendingAudit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.audits))
	for id := range m.audits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pending := []governance.PendingAudit{}
	for _, id := range ids {
		if len(pending) >= limit {
			break
		}
		pending = append(pending, governance.PendingAudit{ID: id, Record: m.audits[id]})
	}

	return pending, nil
}

// DeletePendingAudit removes a drained queue entry.
func (m *MemoryStore) DeletePendingAudit(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.audits[id]; !ok {
		return governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("pending audit not found: %d", id))
	}

	delete(m.audits, id)
	return nil
}

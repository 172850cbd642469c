package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/omeonechain/governance/pkg/governance"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements governance.Store and governance.AuditQueue using SQLite
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteStore{
		cfg: cfg,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	// Open database with SQLite-specific connection parameters
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	// Verify connection and set PRAGMAs
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Ensure foreign keys are enabled (connection-level setting)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// Create migration source from embedded FS
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// Create database driver
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	// Create migration instance
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}

// PutStake inserts or updates a stake by ID
func (s *SQLiteStore) PutStake(ctx context.Context, stake *governance.Stake) error {
	query := `
		INSERT INTO stakes (id, user_id, amount, tier, staked_at, lock_duration_days, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			tier = excluded.tier,
			staked_at = excluded.staked_at,
			lock_duration_days = excluded.lock_duration_days,
			is_active = excluded.is_active
	`

	_, err := s.db.ExecContext(ctx, query,
		stake.ID,
		stake.UserID,
		stake.Amount,
		string(stake.Tier),
		stake.StakedAt.UnixNano(),
		stake.LockDurationDays,
		boolToInt(stake.IsActive),
	)

	if err != nil {
		return fmt.Errorf("failed to put stake: %w", err)
	}

	return nil
}

// GetActiveStake returns the user's active stake
func (s *SQLiteStore) GetActiveStake(ctx context.Context, userID string) (*governance.Stake, error) {
	query := `
		SELECT id, user_id, amount, tier, staked_at, lock_duration_days, is_active
		FROM stakes
		WHERE user_id = ? AND is_active = 1
	`

	stake, err := scanStake(s.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("no active stake for user %s", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active stake: %w", err)
	}

	return stake, nil
}

// ListActiveStakes returns all currently active stakes
func (s *SQLiteStore) ListActiveStakes(ctx context.Context) ([]*governance.Stake, error) {
	query := `
		SELECT id, user_id, amount, tier, staked_at, lock_duration_days, is_active
		FROM stakes
		WHERE is_active = 1
		ORDER BY staked_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active stakes: %w", err)
	}
	defer rows.Close()

	stakes := []*governance.Stake{}
	for rows.Next() {
		stake, err := scanStake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stake: %w", err)
		}
		stakes = append(stakes, stake)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stakes: %w", err)
	}

	return stakes, nil
}

// TotalActiveStake returns the sum of all active stake amounts
func (s *SQLiteStore) TotalActiveStake(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM stakes WHERE is_active = 1`

	var total float64
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum active stakes: %w", err)
	}

	return total, nil
}

// PutProposal inserts or updates a proposal by ID
func (s *SQLiteStore) PutProposal(ctx context.Context, proposal *governance.Proposal) error {
	query := `
		INSERT INTO proposals (
			id, author, type, status, title, description, content_hash,
			created_at, voting_start_time, voting_end_time,
			required_quorum, required_majority, min_trust_score,
			author_reputation, timelock_days, veto_window_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			title = excluded.title,
			description = excluded.description,
			content_hash = excluded.content_hash,
			voting_start_time = excluded.voting_start_time,
			voting_end_time = excluded.voting_end_time,
			required_quorum = excluded.required_quorum,
			required_majority = excluded.required_majority
	`

	_, err := s.db.ExecContext(ctx, query,
		proposal.ID,
		proposal.Author,
		string(proposal.Type),
		string(proposal.Status),
		proposal.Title,
		proposal.Description,
		proposal.ContentHash,
		proposal.CreatedAt.UnixNano(),
		timePtrToNano(proposal.VotingStartTime),
		timePtrToNano(proposal.VotingEndTime),
		proposal.RequiredQuorum,
		proposal.RequiredMajority,
		proposal.StakingRequirements.MinTrustScore,
		proposal.AuthorReputationAtCreation,
		proposal.ExecutionParameters.TimelockDays,
		proposal.ExecutionParameters.VetoWindowDays,
	)

	if err != nil {
		return fmt.Errorf("failed to put proposal: %w", err)
	}

	return nil
}

// GetProposal retrieves a proposal by ID
func (s *SQLiteStore) GetProposal(ctx context.Context, id string) (*governance.Proposal, error) {
	query := `
		SELECT id, author, type, status, title, description, content_hash,
			   created_at, voting_start_time, voting_end_time,
			   required_quorum, required_majority, min_trust_score,
			   author_reputation, timelock_days, veto_window_days
		FROM proposals
		WHERE id = ?
	`

	proposal, err := scanProposal(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("proposal not found: %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	return proposal, nil
}

// ListProposalsByStatus returns proposals in the given state
func (s *SQLiteStore) ListProposalsByStatus(ctx context.Context, status governance.ProposalStatus) ([]*governance.Proposal, error) {
	query := `
		SELECT id, author, type, status, title, description, content_hash,
			   created_at, voting_start_time, voting_end_time,
			   required_quorum, required_majority, min_trust_score,
			   author_reputation, timelock_days, veto_window_days
		FROM proposals
		WHERE status = ?
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []*governance.Proposal{}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proposals: %w", err)
	}

	return proposals, nil
}

// CountProposals returns the total number of proposals
func (s *SQLiteStore) CountProposals(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM proposals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return count, nil
}

// PutVote records a vote. A second vote for the same (proposal, voter) pair
// is rejected with an ALREADY_VOTED governance error.
func (s *SQLiteStore) PutVote(ctx context.Context, vote *governance.Vote) error {
	query := `
		INSERT INTO votes (
			id, proposal_id, voter, type, voting_power, reputation_at_vote,
			stake_amount, staking_tier, timestamp, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		vote.ID,
		vote.ProposalID,
		vote.Voter,
		string(vote.Type),
		vote.VotingPower,
		vote.ReputationAtVote,
		vote.StakeAmount,
		string(vote.StakingTier),
		vote.Timestamp.UnixNano(),
		vote.Reason,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return governance.NewConflictError(governance.ErrCodeAlreadyVoted,
				fmt.Sprintf("user %s already voted on proposal %s", vote.Voter, vote.ProposalID))
		}
		return fmt.Errorf("failed to put vote: %w", err)
	}

	return nil
}

// GetVote returns the vote cast by voter on the proposal
func (s *SQLiteStore) GetVote(ctx context.Context, proposalID, voter string) (*governance.Vote, error) {
	query := `
		SELECT id, proposal_id, voter, type, voting_power, reputation_at_vote,
			   stake_amount, staking_tier, timestamp, reason
		FROM votes
		WHERE proposal_id = ? AND voter = ?
	`

	vote, err := scanVote(s.db.QueryRowContext(ctx, query, proposalID, voter))
	if err == sql.ErrNoRows {
		return nil, governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("no vote by %s on proposal %s", voter, proposalID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

// ListVotesByProposal returns all votes on a proposal in cast order
func (s *SQLiteStore) ListVotesByProposal(ctx context.Context, proposalID string) ([]*governance.Vote, error) {
	query := `
		SELECT id, proposal_id, voter, type, voting_power, reputation_at_vote,
			   stake_amount, staking_tier, timestamp, reason
		FROM votes
		WHERE proposal_id = ?
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	votes := []*governance.Vote{}
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}

	return votes, nil
}

// CountDistinctVoters returns the number of distinct voters across all proposals
func (s *SQLiteStore) CountDistinctVoters(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT voter) FROM votes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct voters: %w", err)
	}
	return count, nil
}

// PutMilestone inserts or updates a milestone by ID
func (s *SQLiteStore) PutMilestone(ctx context.Context, milestone *governance.Milestone) error {
	requirements, err := json.Marshal(milestone.Requirements)
	if err != nil {
		return fmt.Errorf("failed to encode requirements: %w", err)
	}

	unlocks, err := json.Marshal(milestone.Unlocks)
	if err != nil {
		return fmt.Errorf("failed to encode unlocks: %w", err)
	}

	query := `
		INSERT INTO milestones (id, name, description, requirements, unlocks, achieved, achieved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			requirements = excluded.requirements,
			unlocks = excluded.unlocks,
			achieved = excluded.achieved,
			achieved_at = excluded.achieved_at
	`

	_, err = s.db.ExecContext(ctx, query,
		milestone.ID,
		milestone.Name,
		milestone.Description,
		string(requirements),
		string(unlocks),
		boolToInt(milestone.Achieved),
		timePtrToNano(milestone.AchievedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to put milestone: %w", err)
	}

	return nil
}

// ListMilestones returns all milestones in seed order
func (s *SQLiteStore) ListMilestones(ctx context.Context) ([]*governance.Milestone, error) {
	query := `
		SELECT id, name, description, requirements, unlocks, achieved, achieved_at
		FROM milestones
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []*governance.Milestone{}
	for rows.Next() {
		milestone := &governance.Milestone{}
		var requirements, unlocks string
		var achieved int
		var achievedAt sql.NullInt64

		err := rows.Scan(
			&milestone.ID,
			&milestone.Name,
			&milestone.Description,
			&requirements,
			&unlocks,
			&achieved,
			&achievedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}

		if err := json.Unmarshal([]byte(requirements), &milestone.Requirements); err != nil {
			return nil, fmt.Errorf("failed to decode requirements: %w", err)
		}
		if err := json.Unmarshal([]byte(unlocks), &milestone.Unlocks); err != nil {
			return nil, fmt.Errorf("failed to decode unlocks: %w", err)
		}

		milestone.Achieved = achieved != 0
		milestone.AchievedAt = nanoToTimePtr(achievedAt)

		milestones = append(milestones, milestone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}

	return milestones, nil
}

// ScheduleExecution persists a due-at record for deferred execution
func (s *SQLiteStore) ScheduleExecution(ctx context.Context, exec *governance.ScheduledExecution) error {
	query := `
		INSERT INTO scheduled_executions (id, proposal_id, due_at, attempts, done, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		exec.ID,
		exec.ProposalID,
		exec.DueAt.UnixNano(),
		exec.Attempts,
		boolToInt(exec.Done),
		exec.CreatedAt.UnixNano(),
	)

	if err != nil {
		return fmt.Errorf("failed to schedule execution: %w", err)
	}

	return nil
}

// DueExecutions returns pending execution records due at or before now
func (s *SQLiteStore) DueExecutions(ctx context.Context, now int64) ([]*governance.ScheduledExecution, error) {
	query := `
		SELECT id, proposal_id, due_at, attempts, done, created_at
		FROM scheduled_executions
		WHERE done = 0 AND due_at <= ?
		ORDER BY due_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due executions: %w", err)
	}
	defer rows.Close()

	execs := []*governance.ScheduledExecution{}
	for rows.Next() {
		exec := &governance.ScheduledExecution{}
		var dueAt, createdAt int64
		var done int

		err := rows.Scan(
			&exec.ID,
			&exec.ProposalID,
			&dueAt,
			&exec.Attempts,
			&done,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		exec.DueAt = time.Unix(0, dueAt)
		exec.Done = done != 0
		exec.CreatedAt = time.Unix(0, createdAt)

		execs = append(execs, exec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return execs, nil
}

// UpdateExecution updates attempt count, due time, and done flag
func (s *SQLiteStore) UpdateExecution(ctx context.Context, exec *governance.ScheduledExecution) error {
	query := `
		UPDATE scheduled_executions
		SET due_at = ?, attempts = ?, done = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		exec.DueAt.UnixNano(),
		exec.Attempts,
		boolToInt(exec.Done),
		exec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("execution not found: %s", exec.ID))
	}

	return nil
}

// EnqueueAudit parks a failed audit record for later retry
func (s *SQLiteStore) EnqueueAudit(ctx context.Context, record governance.AuditRecord) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}

	query := `INSERT INTO pending_audits (record, enqueued_at) VALUES (?, ?)`

	if _, err := s.db.ExecContext(ctx, query, string(encoded), time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to enqueue audit: %w", err)
	}

	return nil
}

// PendingAudits returns up to limit parked records in enqueue order
func (s *SQLiteStore) PendingAudits(ctx context.Context, limit int) ([]governance.PendingAudit, error) {
	query := `
		SELECT id, record
		FROM pending_audits
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending audits: %w", err)
	}
	defer rows.Close()

	pending := []governance.PendingAudit{}
	for rows.Next() {
		var id int64
		var encoded string
		if err := rows.Scan(&id, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan pending audit: %w", err)
		}

		var record governance.AuditRecord
		if err := json.Unmarshal([]byte(encoded), &record); err != nil {
			return nil, fmt.Errorf("failed to decode audit record: %w", err)
		}

		pending = append(pending, governance.PendingAudit{ID: id, Record: record})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending audits: %w", err)
	}

	return pending, nil
}

// DeletePendingAudit removes a drained queue entry
func (s *SQLiteStore) DeletePendingAudit(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pending_audits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending audit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return governance.NewValidationError(governance.ErrCodeNotFound,
			fmt.Sprintf("pending audit not found: %d", id))
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanStake(row scanner) (*governance.Stake, error) {
	stake := &governance.Stake{}
	var tier string
	var stakedAt int64
	var isActive int

	err := row.Scan(
		&stake.ID,
		&stake.UserID,
		&stake.Amount,
		&tier,
		&stakedAt,
		&stake.LockDurationDays,
		&isActive,
	)
	if err != nil {
		return nil, err
	}

	stake.Tier = governance.StakingTier(tier)
	stake.StakedAt = time.Unix(0, stakedAt)
	stake.IsActive = isActive != 0

	return stake, nil
}

func scanProposal(row scanner) (*governance.Proposal, error) {
	proposal := &governance.Proposal{}
	var ptype, status string
	var createdAt int64
	var votingStart, votingEnd sql.NullInt64

	err := row.Scan(
		&proposal.ID,
		&proposal.Author,
		&ptype,
		&status,
		&proposal.Title,
		&proposal.Description,
		&proposal.ContentHash,
		&createdAt,
		&votingStart,
		&votingEnd,
		&proposal.RequiredQuorum,
		&proposal.RequiredMajority,
		&proposal.StakingRequirements.MinTrustScore,
		&proposal.AuthorReputationAtCreation,
		&proposal.ExecutionParameters.TimelockDays,
		&proposal.ExecutionParameters.VetoWindowDays,
	)
	if err != nil {
		return nil, err
	}

	proposal.Type = governance.ProposalType(ptype)
	proposal.Status = governance.ProposalStatus(status)
	proposal.CreatedAt = time.Unix(0, createdAt)
	proposal.VotingStartTime = nanoToTimePtr(votingStart)
	proposal.VotingEndTime = nanoToTimePtr(votingEnd)

	return proposal, nil
}

func scanVote(row scanner) (*governance.Vote, error) {
	vote := &governance.Vote{}
	var vtype, tier string
	var timestamp int64

	err := row.Scan(
		&vote.ID,
		&vote.ProposalID,
		&vote.Voter,
		&vtype,
		&vote.VotingPower,
		&vote.ReputationAtVote,
		&vote.StakeAmount,
		&tier,
		&timestamp,
		&vote.Reason,
	)
	if err != nil {
		return nil, err
	}

	vote.Type = governance.VoteType(vtype)
	vote.StakingTier = governance.StakingTier(tier)
	vote.Timestamp = time.Unix(0, timestamp)

	return vote, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtrToNano(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}

func nanoToTimePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}

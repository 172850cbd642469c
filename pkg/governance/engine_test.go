package governance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/omeonechain/governance/pkg/chainlog"
	"github.com/omeonechain/governance/pkg/devledger"
	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/stores"
)

// fakeClock is a manually advanced time source shared by the engine and the
// tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness bundles an engine with its in-memory collaborators.
type harness struct {
	engine *governance.Engine
	store  *stores.MemoryStore
	ledger *devledger.Ledger
	log    *chainlog.LocalLog
	clock  *fakeClock
}

// newTestEngine builds an engine on in-memory collaborators with shrunken
// time windows: one-hour voting, one-minute days. mutate adjusts the config
// before construction.
func newTestEngine(t *testing.T, mutate func(*governance.Config)) *harness {
	t.Helper()

	cfg := governance.DefaultConfig()
	cfg.VotingPeriod = time.Hour
	cfg.DayLength = time.Minute
	cfg.ExpireAfter = time.Hour
	if mutate != nil {
		mutate(&cfg)
	}

	store := stores.NewMemoryStore()
	ledger, err := devledger.NewLedger("")
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	content, err := devledger.NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create content store: %v", err)
	}
	log := chainlog.NewLocalLog(nil)
	clock := newFakeClock()

	engine, err := governance.New(context.Background(), governance.Options{
		Config:     cfg,
		Store:      store,
		Ledger:     ledger,
		Reputation: ledger,
		Content:    content,
		CommitLog:  log,
		Clock:      clock.Now,
	})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	return &harness{
		engine: engine,
		store:  store,
		ledger: ledger,
		log:    log,
		clock:  clock,
	}
}

// fund credits a ledger account and sets its trust score.
func (h *harness) fund(t *testing.T, userID string, balance, trust float64) {
	t.Helper()
	if err := h.ledger.Credit(userID, balance); err != nil {
		t.Fatalf("failed to credit %s: %v", userID, err)
	}
	if err := h.ledger.SetTrustScore(userID, trust); err != nil {
		t.Fatalf("failed to set trust score for %s: %v", userID, err)
	}
}

// stake funds the user and stakes for them in one step.
func (h *harness) stake(t *testing.T, userID string, amount float64, lockDays int, trust float64) *governance.Stake {
	t.Helper()
	h.fund(t, userID, amount, trust)
	stake, err := h.engine.StakeForGovernance(context.Background(), userID, amount, lockDays)
	if err != nil {
		t.Fatalf("failed to stake for %s: %v", userID, err)
	}
	return stake
}

// draft returns a minimal valid proposal draft.
func (h *harness) draft(author string) governance.ProposalDraft {
	return governance.ProposalDraft{
		Author:           author,
		Type:             governance.ProposalParameterChange,
		Title:            "Adjust reward split",
		Description:      "Shift one percent of the reward pool to curators.",
		RequiredQuorum:   0.05,
		RequiredMajority: 0.5,
		MinTrustScore:    0.4,
		TimelockDays:     2,
		VetoWindowDays:   2,
	}
}

// activeProposal creates and activates a proposal authored by author, who
// must already hold a stake.
func (h *harness) activeProposal(t *testing.T, author string) string {
	t.Helper()
	ctx := context.Background()
	id, err := h.engine.CreateProposal(ctx, h.draft(author))
	if err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	if err := h.engine.ActivateProposal(ctx, id); err != nil {
		t.Fatalf("failed to activate proposal: %v", err)
	}
	return id
}

// TestEngineRequiresCollaborators verifies that construction fails without
// its required collaborators.
func TestEngineRequiresCollaborators(t *testing.T) {
	_, err := governance.New(context.Background(), governance.Options{})
	if err == nil {
		t.Fatal("expected error for missing collaborators, got nil")
	}
}

// TestEngineSeedsMilestones verifies the milestone set is seeded once and
// keeps achievement state across restarts.
func TestEngineSeedsMilestones(t *testing.T) {
	h := newTestEngine(t, nil)
	ctx := context.Background()

	milestones, err := h.engine.GetMilestones(ctx)
	if err != nil {
		t.Fatalf("GetMilestones failed: %v", err)
	}
	if len(milestones) != 3 {
		t.Fatalf("expected 3 seeded milestones, got %d", len(milestones))
	}

	// A second engine over the same store must not duplicate the set.
	ledger, _ := devledger.NewLedger("")
	content, _ := devledger.NewContentStore(t.TempDir())
	_, err = governance.New(ctx, governance.Options{
		Store:      h.store,
		Ledger:     ledger,
		Reputation: ledger,
		Content:    content,
		CommitLog:  chainlog.NewLocalLog(nil),
	})
	if err != nil {
		t.Fatalf("failed to create second engine: %v", err)
	}
	milestones, err = h.engine.GetMilestones(ctx)
	if err != nil {
		t.Fatalf("GetMilestones failed: %v", err)
	}
	if len(milestones) != 3 {
		t.Errorf("expected 3 milestones after reseed, got %d", len(milestones))
	}
}

// TestAuditTrail verifies that governance operations emit audit records to
// the commit log.
func TestAuditTrail(t *testing.T) {
	h := newTestEngine(t, nil)

	h.stake(t, "alice", 1000, 365, 0.8)
	if h.log.Sequence() == 0 {
		t.Error("expected staking to emit an audit record")
	}

	before := h.log.Sequence()
	if _, err := h.engine.CreateProposal(context.Background(), h.draft("alice")); err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	if h.log.Sequence() != before+1 {
		t.Errorf("expected one audit record for proposal creation, sequence went %d -> %d",
			before, h.log.Sequence())
	}
}

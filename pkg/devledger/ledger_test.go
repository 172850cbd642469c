package devledger

import (
	"context"
	"path/filepath"
	"testing"
)

// TestLedgerLockUnlock tests the basic lock and unlock flow
func TestLedgerLockUnlock(t *testing.T) {
	ledger, err := NewLedger("")
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	ctx := context.Background()

	if err := ledger.Credit("alice", 500); err != nil {
		t.Fatalf("failed to credit: %v", err)
	}

	if err := ledger.LockTokens(ctx, "alice", 150, 90); err != nil {
		t.Fatalf("failed to lock tokens: %v", err)
	}

	balance, err := ledger.GetBalance(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if balance != 350 {
		t.Errorf("expected balance 350, got %v", balance)
	}

	account := ledger.Account("alice")
	if account.Locked != 150 {
		t.Errorf("expected locked 150, got %v", account.Locked)
	}

	if err := ledger.UnlockTokens(ctx, "alice", 150); err != nil {
		t.Fatalf("failed to unlock tokens: %v", err)
	}

	balance, _ = ledger.GetBalance(ctx, "alice")
	if balance != 500 {
		t.Errorf("expected balance 500, got %v", balance)
	}
}

// TestLedgerInsufficientBalance verifies lock rejection
func TestLedgerInsufficientBalance(t *testing.T) {
	ledger, _ := NewLedger("")
	ctx := context.Background()

	if err := ledger.Credit("alice", 10); err != nil {
		t.Fatalf("failed to credit: %v", err)
	}

	if err := ledger.LockTokens(ctx, "alice", 100, 30); err == nil {
		t.Fatal("expected error locking more than balance")
	}

	if err := ledger.UnlockTokens(ctx, "alice", 1); err == nil {
		t.Fatal("expected error unlocking with nothing locked")
	}
}

// TestLedgerBurn tests the early-exit burn accounting
func TestLedgerBurn(t *testing.T) {
	ledger, _ := NewLedger("")
	ctx := context.Background()

	if err := ledger.Credit("alice", 100); err != nil {
		t.Fatalf("failed to credit: %v", err)
	}
	if err := ledger.LockTokens(ctx, "alice", 100, 30); err != nil {
		t.Fatalf("failed to lock tokens: %v", err)
	}

	// Early unstake: burn 5%, unlock the rest
	if err := ledger.BurnTokens(ctx, 5); err != nil {
		t.Fatalf("failed to burn tokens: %v", err)
	}
	if err := ledger.UnlockTokens(ctx, "alice", 95); err != nil {
		t.Fatalf("failed to unlock tokens: %v", err)
	}

	if ledger.Burned() != 5 {
		t.Errorf("expected burned 5, got %v", ledger.Burned())
	}

	balance, _ := ledger.GetBalance(ctx, "alice")
	if balance != 95 {
		t.Errorf("expected balance 95, got %v", balance)
	}
}

// TestLedgerTrustScore tests the reputation source behavior
func TestLedgerTrustScore(t *testing.T) {
	ledger, _ := NewLedger("")
	ctx := context.Background()

	score, err := ledger.GetTrustScore(ctx, "stranger")
	if err != nil {
		t.Fatalf("failed to get trust score: %v", err)
	}
	if score != 0 {
		t.Errorf("expected zero trust for unknown user, got %v", score)
	}

	if err := ledger.SetTrustScore("alice", 0.75); err != nil {
		t.Fatalf("failed to set trust score: %v", err)
	}

	score, _ = ledger.GetTrustScore(ctx, "alice")
	if score != 0.75 {
		t.Errorf("expected trust 0.75, got %v", score)
	}
}

// TestLedgerPersistence verifies state survives a reload
func TestLedgerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	ctx := context.Background()

	ledger, err := NewLedger(path)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	if err := ledger.Credit("alice", 300); err != nil {
		t.Fatalf("failed to credit: %v", err)
	}
	if err := ledger.SetTrustScore("alice", 0.6); err != nil {
		t.Fatalf("failed to set trust score: %v", err)
	}
	if err := ledger.LockTokens(ctx, "alice", 100, 90); err != nil {
		t.Fatalf("failed to lock tokens: %v", err)
	}

	reloaded, err := NewLedger(path)
	if err != nil {
		t.Fatalf("failed to reload ledger: %v", err)
	}

	balance, _ := reloaded.GetBalance(ctx, "alice")
	if balance != 200 {
		t.Errorf("expected balance 200 after reload, got %v", balance)
	}

	account := reloaded.Account("alice")
	if account.Locked != 100 {
		t.Errorf("expected locked 100 after reload, got %v", account.Locked)
	}
	if account.TrustScore != 0.6 {
		t.Errorf("expected trust 0.6 after reload, got %v", account.TrustScore)
	}
}

// TestContentStoreRoundTrip tests content-addressed storage
func TestContentStoreRoundTrip(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create content store: %v", err)
	}
	ctx := context.Background()

	document := []byte("a very long proposal body")
	hash, err := store.Store(ctx, document)
	if err != nil {
		t.Fatalf("failed to store document: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64-char SHA-256 hex digest, got %d chars", len(hash))
	}

	// Identical content must map to the same hash
	again, err := store.Store(ctx, document)
	if err != nil {
		t.Fatalf("failed to re-store document: %v", err)
	}
	if again != hash {
		t.Errorf("expected identical hash, got %s and %s", hash, again)
	}

	loaded, err := store.Load(hash)
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}
	if string(loaded) != string(document) {
		t.Errorf("loaded document differs from stored")
	}
}

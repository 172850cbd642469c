package devledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/omeonechain/governance/pkg/governance"
)

// Account is one user's dev-ledger state.
type Account struct {
	// Balance is the spendable token balance.
	Balance float64 `yaml:"balance"`

	// Locked is the amount held under governance lock.
	Locked float64 `yaml:"locked"`

	// TrustScore is the user's trust score in [0, 1].
	TrustScore float64 `yaml:"trust_score"`
}

// ledgerFile is the on-disk YAML document.
type ledgerFile struct {
	Accounts map[string]*Account `yaml:"accounts"`
	Burned   float64             `yaml:"burned"`
}

// Ledger is a YAML-file-backed token ledger and reputation source for dev
// mode and integration tests. Burns draw from the aggregate locked supply;
// the per-account locked residue after an early unstake is the burned
// portion.
type Ledger struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*Account
	burned   float64
}

// NewLedger creates a ledger. When path is non-empty the ledger loads any
// existing state from the file and persists every mutation back to it.
func NewLedger(path string) (*Ledger, error) {
	l := &Ledger{
		path:     path,
		accounts: make(map[string]*Account),
	}

	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var file ledgerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}

	if file.Accounts != nil {
		l.accounts = file.Accounts
	}
	l.burned = file.Burned

	return l, nil
}

// GetBalance returns the user's spendable balance.
func (l *Ledger) GetBalance(_ context.Context, userID string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[userID]
	if !ok {
		return 0, nil
	}
	return account.Balance, nil
}

// LockTokens moves amount from spendable balance into the governance lock.
func (l *Ledger) LockTokens(_ context.Context, userID string, amount float64, _ int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[userID]
	if !ok || account.Balance < amount {
		return fmt.Errorf("insufficient balance for user %s", userID)
	}

	account.Balance -= amount
	account.Locked += amount

	return l.save()
}

// UnlockTokens releases amount from the governance lock back to spendable.
func (l *Ledger) UnlockTokens(_ context.Context, userID string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[userID]
	if !ok || account.Locked < amount {
		return fmt.Errorf("insufficient locked balance for user %s", userID)
	}

	account.Locked -= amount
	account.Balance += amount

	return l.save()
}

// BurnTokens permanently destroys amount from locked supply.
func (l *Ledger) BurnTokens(_ context.Context, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.burned += amount

	return l.save()
}

// GetTrustScore returns the user's trust score, zero for unknown users.
func (l *Ledger) GetTrustScore(_ context.Context, userID string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[userID]
	if !ok {
		return 0, nil
	}
	return account.TrustScore, nil
}

// Credit adds amount to the user's spendable balance, creating the account
// if needed. Used by the CLI to seed dev accounts.
func (l *Ledger) Credit(userID string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.account(userID).Balance += amount
	return l.save()
}

// SetTrustScore sets the user's trust score, creating the account if needed.
func (l *Ledger) SetTrustScore(userID string, score float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.account(userID).TrustScore = score
	return l.save()
}

// Burned returns the total burned amount.
func (l *Ledger) Burned() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burned
}

// Account returns a copy of the user's account state.
func (l *Ledger) Account(userID string) Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	if account, ok := l.accounts[userID]; ok {
		return *account
	}
	return Account{}
}

func (l *Ledger) account(userID string) *Account {
	account, ok := l.accounts[userID]
	if !ok {
		account = &Account{}
		l.accounts[userID] = account
	}
	return account
}

// save persists the ledger atomically. Callers must hold the mutex.
func (l *Ledger) save() error {
	if l.path == "" {
		return nil
	}

	data, err := yaml.Marshal(ledgerFile{
		Accounts: l.accounts,
		Burned:   l.burned,
	})
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	return nil
}

// EnsureDir creates the parent directory for a ledger or content path.
func EnsureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0755)
}

var (
	_ governance.TokenLedger      = (*Ledger)(nil)
	_ governance.ReputationSource = (*Ledger)(nil)
)

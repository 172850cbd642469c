package governance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StakeForGovernance locks amount tokens for lockDurationDays and records an
// active stake for the user. The assigned tier is the highest whose token,
// duration, and trust thresholds are all met, falling back to the lowest
// tier. A user with an existing active stake must unstake first.
func (e *Engine) StakeForGovernance(ctx context.Context, userID string, amount float64, lockDurationDays int) (*Stake, error) {
	if userID == "" {
		return nil, NewValidationError(ErrCodeValidation, "user id is required")
	}
	if amount <= 0 {
		return nil, NewValidationError(ErrCodeValidation, "stake amount must be positive")
	}
	if lockDurationDays <= 0 {
		return nil, NewValidationError(ErrCodeValidation, "lock duration must be positive")
	}

	unlock := e.userLocks.lock(userID)
	defer unlock()

	if _, err := e.store.GetActiveStake(ctx, userID); err == nil {
		return nil, NewConflictError(ErrCodeAlreadyStaked,
			"user already holds an active stake; unstake first")
	} else if ErrorCode(err) != ErrCodeNotFound {
		return nil, NewPermanentError(ErrCodeStoreFailure, "reading active stake", err)
	}

	balance, err := e.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, NewTransientError(ErrCodeLedgerFailure, "reading balance", err)
	}
	if balance < amount {
		return nil, NewValidationError(ErrCodeInsufficientBalance,
			fmt.Sprintf("balance %.2f is below stake amount %.2f", balance, amount))
	}

	trustScore, err := e.reputation.GetTrustScore(ctx, userID)
	if err != nil {
		return nil, NewTransientError(ErrCodeReputationFailure, "reading trust score", err)
	}

	tier := e.determineTier(amount, lockDurationDays, trustScore)
	if trustScore < tier.TrustScoreMinimum {
		return nil, NewValidationError(ErrCodeInsufficientTrustScore,
			fmt.Sprintf("trust score %.2f is below the %.2f required for tier %s",
				trustScore, tier.TrustScoreMinimum, tier.Name)).
			WithDetail("tier", string(tier.Name))
	}

	if err := e.ledger.LockTokens(ctx, userID, amount, lockDurationDays); err != nil {
		return nil, NewTransientError(ErrCodeLedgerFailure, "locking tokens", err)
	}

	stake := &Stake{
		ID:               uuid.New().String(),
		UserID:           userID,
		Amount:           amount,
		Tier:             tier.Name,
		StakedAt:         e.now(),
		LockDurationDays: lockDurationDays,
		IsActive:         true,
	}
	if err := e.store.PutStake(ctx, stake); err != nil {
		// Locked funds without a recorded stake would strand the user;
		// release the lock before reporting.
		if unlockErr := e.ledger.UnlockTokens(ctx, userID, amount); unlockErr != nil {
			e.logger.WithError(unlockErr).WithUserID(userID).
				Error("failed to release lock after store failure")
		}
		return nil, NewPermanentError(ErrCodeStoreFailure, "recording stake", err)
	}

	e.logger.WithUserID(userID).
		WithField("amount", amount).
		WithField("tier", string(tier.Name)).
		Info("governance stake created")
	e.metrics.RecordStake(string(tier.Name), amount)

	e.audit(ctx, AuditStake, map[string]any{
		"stake_id":           stake.ID,
		"user_id":            userID,
		"amount":             amount,
		"tier":               string(tier.Name),
		"lock_duration_days": lockDurationDays,
	})
	return stake, nil
}

// UnstakeTokens releases the user's active stake. Unstaking before lock
// expiry burns the configured early-exit fraction and unlocks the remainder;
// after expiry the full amount is unlocked. The stake record is retained
// inactive for historical voting-power attribution.
func (e *Engine) UnstakeTokens(ctx context.Context, userID string) (*UnstakeResult, error) {
	unlock := e.userLocks.lock(userID)
	defer unlock()

	stake, err := e.store.GetActiveStake(ctx, userID)
	if err != nil {
		if ErrorCode(err) == ErrCodeNotFound {
			return nil, NewValidationError(ErrCodeNoActiveStake, "no active stake to release")
		}
		return nil, NewPermanentError(ErrCodeStoreFailure, "reading active stake", err)
	}

	lockExpiry := stake.StakedAt.Add(e.cfg.Days(stake.LockDurationDays))
	result := &UnstakeResult{Returned: stake.Amount}
	if e.now().Before(lockExpiry) {
		result.Early = true
		result.Burned = stake.Amount * e.cfg.EarlyUnstakeBurnRate
		result.Returned = stake.Amount - result.Burned
	}

	if result.Burned > 0 {
		if err := e.ledger.BurnTokens(ctx, result.Burned); err != nil {
			return nil, NewTransientError(ErrCodeLedgerFailure, "burning early-exit penalty", err)
		}
	}
	if err := e.ledger.UnlockTokens(ctx, userID, result.Returned); err != nil {
		return nil, NewTransientError(ErrCodeLedgerFailure, "unlocking tokens", err)
	}

	stake.IsActive = false
	if err := e.store.PutStake(ctx, stake); err != nil {
		return nil, NewPermanentError(ErrCodeStoreFailure, "deactivating stake", err)
	}

	e.logger.WithUserID(userID).
		WithField("returned", result.Returned).
		WithField("burned", result.Burned).
		Info("governance stake released")
	e.metrics.RecordUnstake(string(stake.Tier), result.Early)

	e.audit(ctx, AuditUnstake, map[string]any{
		"stake_id": stake.ID,
		"user_id":  userID,
		"returned": result.Returned,
		"burned":   result.Burned,
		"early":    result.Early,
	})
	return result, nil
}

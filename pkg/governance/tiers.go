package governance

// determineTier returns the highest tier (by MinTokens, descending) whose
// token, duration, and trust requirements are all satisfied. When nothing
// qualifies the lowest tier is returned; sub-minimum stakes are not rejected
// here, only the trust-score gate in StakeForGovernance can reject.
func (e *Engine) determineTier(amount float64, lockDurationDays int, trustScore float64) TierParams {
	for i := len(e.cfg.Tiers) - 1; i >= 0; i-- {
		t := e.cfg.Tiers[i]
		if amount >= t.MinTokens &&
			lockDurationDays >= t.MinDurationDays &&
			trustScore >= t.TrustScoreMinimum {
			return t
		}
	}
	return e.cfg.Tiers[0]
}

// TierPrivileges returns the privilege set unlocked by the named tier.
// Privileges are metadata for collaborators; the engine does not enforce
// them.
func (e *Engine) TierPrivileges(tier StakingTier) []string {
	t, ok := e.cfg.TierByName(tier)
	if !ok {
		return nil
	}
	out := make([]string, len(t.Privileges))
	copy(out, t.Privileges)
	return out
}

// tierMultiplier returns the vote-weight multiplier for a tier, defaulting
// to the lowest tier's multiplier for unknown names (stakes recorded under
// a since-removed tier still vote).
func (e *Engine) tierMultiplier(tier StakingTier) float64 {
	if t, ok := e.cfg.TierByName(tier); ok {
		return t.VoteMultiplier
	}
	return e.cfg.Tiers[0].VoteMultiplier
}

package governance

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// TierParams defines one staking tier: its entry thresholds, vote-weight
// multiplier, and the privilege set it unlocks. Privileges are informational
// metadata consumed by collaborators; the engine itself only enforces the
// trust-score minimum.
type TierParams struct {
	// Name is the tier identifier.
	Name StakingTier `json:"name" yaml:"name" validate:"required"`

	// MinTokens is the minimum stake amount for this tier.
	MinTokens float64 `json:"min_tokens" yaml:"min_tokens" validate:"gt=0"`

	// MinDurationDays is the minimum lock duration for this tier.
	MinDurationDays int `json:"min_duration_days" yaml:"min_duration_days" validate:"gt=0"`

	// TrustScoreMinimum is the minimum trust score for this tier.
	TrustScoreMinimum float64 `json:"trust_score_minimum" yaml:"trust_score_minimum" validate:"gte=0,lte=1"`

	// VoteMultiplier scales the geometric-mean voting power for this tier.
	VoteMultiplier float64 `json:"vote_multiplier" yaml:"vote_multiplier" validate:"gt=0"`

	// Privileges lists the capabilities unlocked at this tier.
	Privileges []string `json:"privileges" yaml:"privileges"`
}

// MilestoneParams seeds one decentralization milestone at construction.
type MilestoneParams struct {
	ID           string             `json:"id" yaml:"id" validate:"required"`
	Name         string             `json:"name" yaml:"name" validate:"required"`
	Description  string             `json:"description" yaml:"description"`
	Requirements map[string]float64 `json:"requirements" yaml:"requirements" validate:"required,min=1"`
	Unlocks      []string           `json:"unlocks" yaml:"unlocks"`
}

// Config holds every governance tunable. All values have documented defaults
// (DefaultConfig); tests shrink the time windows via DayLength and
// VotingPeriod to exercise the full lifecycle quickly.
type Config struct {
	// Tiers is the staking tier table in ascending MinTokens order.
	Tiers []TierParams `json:"tiers" yaml:"tiers" validate:"required,min=1,dive"`

	// VotingPeriod is the length of the voting window opened by proposal
	// activation.
	VotingPeriod time.Duration `json:"voting_period" yaml:"voting_period" validate:"gt=0"`

	// DayLength converts day-denominated parameters (lock durations,
	// timelocks, veto windows) into wall-clock time. 24h in production;
	// tests shrink it for accelerated clocks.
	DayLength time.Duration `json:"day_length" yaml:"day_length" validate:"gt=0"`

	// EarlyUnstakeBurnRate is the fraction of the stake burned when
	// unstaking before lock expiry.
	EarlyUnstakeBurnRate float64 `json:"early_unstake_burn_rate" yaml:"early_unstake_burn_rate" validate:"gte=0,lt=1"`

	// VetoThreshold is the fraction of total possible voting power whose
	// opposition during the veto window blocks execution.
	VetoThreshold float64 `json:"veto_threshold" yaml:"veto_threshold" validate:"gt=0,lte=1"`

	// VotingPowerCap caps any single vote's power at this fraction of the
	// total possible voting power at cast time.
	VotingPowerCap float64 `json:"voting_power_cap" yaml:"voting_power_cap" validate:"gt=0,lte=1"`

	// TrustRescale lifts a [0,1] trust score into the same order of
	// magnitude as token amounts inside the geometric mean, so neither
	// term dominates the square root.
	TrustRescale float64 `json:"trust_rescale" yaml:"trust_rescale" validate:"gt=0"`

	// DescriptionOffloadLimit is the description length in characters above
	// which the body is offloaded to the content store.
	DescriptionOffloadLimit int `json:"description_offload_limit" yaml:"description_offload_limit" validate:"gt=0"`

	// ExpireAfter is the grace period past the voting end after which an
	// unfinalized ACTIVE proposal is swept to EXPIRED.
	ExpireAfter time.Duration `json:"expire_after" yaml:"expire_after" validate:"gt=0"`

	// Milestones seeds the fixed milestone set.
	Milestones []MilestoneParams `json:"milestones" yaml:"milestones" validate:"required,min=1,dive"`
}

// DefaultConfig returns the production governance parameters.
func DefaultConfig() Config {
	return Config{
		Tiers: []TierParams{
			{
				Name:              TierExplorer,
				MinTokens:         25,
				MinDurationDays:   30,
				TrustScoreMinimum: 0.3,
				VoteMultiplier:    1.0,
				Privileges:        []string{"comment", "vote_basic", "propose_basic"},
			},
			{
				Name:              TierCurator,
				MinTokens:         100,
				MinDurationDays:   90,
				TrustScoreMinimum: 0.4,
				VoteMultiplier:    1.2,
				Privileges:        []string{"comment", "vote_basic", "propose_basic", "list_royalties", "ai_discount"},
			},
			{
				Name:              TierPassport,
				MinTokens:         500,
				MinDurationDays:   180,
				TrustScoreMinimum: 0.5,
				VoteMultiplier:    1.5,
				Privileges: []string{
					"comment", "vote_basic", "propose_basic", "list_royalties",
					"ai_discount", "vote_enhanced", "propose_advanced",
				},
			},
			{
				// Validator tier carries equal vote weight to passport; its
				// extra privileges are non-voting.
				Name:              TierValidatorDelegate,
				MinTokens:         1000,
				MinDurationDays:   365,
				TrustScoreMinimum: 0.6,
				VoteMultiplier:    1.5,
				Privileges: []string{
					"comment", "vote_basic", "propose_basic", "list_royalties",
					"ai_discount", "vote_enhanced", "propose_advanced",
					"run_indexer", "multisig_candidate",
				},
			},
		},
		VotingPeriod:            7 * 24 * time.Hour,
		DayLength:               24 * time.Hour,
		EarlyUnstakeBurnRate:    0.05,
		VetoThreshold:           0.10,
		VotingPowerCap:          0.03,
		TrustRescale:            1000,
		DescriptionOffloadLimit: 1000,
		ExpireAfter:             30 * 24 * time.Hour,
		Milestones: []MilestoneParams{
			{
				ID:          "economic-stake",
				Name:        "Economic Stake",
				Description: "Enough value is locked in governance that capture is expensive.",
				Requirements: map[string]float64{
					"totalStaked":  1_000_000,
					"uniqueVoters": 1_000,
				},
				Unlocks: []string{
					"Treasury spend proposals",
					"Parameter change execution without multisig countersign",
				},
			},
			{
				ID:          "network-scale",
				Name:        "Network Scale",
				Description: "The network has organic usage beyond the founding community.",
				Requirements: map[string]float64{
					"totalStaked":       5_000_000,
					"dailyActiveUsers":  10_000,
					"exchangeLiquidity": 500_000,
				},
				Unlocks: []string{
					"Protocol upgrade proposals",
					"Validator delegate elections",
				},
			},
			{
				ID:          "ecosystem-maturity",
				Name:        "Ecosystem Maturity",
				Description: "Independent builders and auditors sustain the protocol.",
				Requirements: map[string]float64{
					"uniqueVoters":     10_000,
					"independentDApps": 5,
					"securityAudits":   2,
				},
				Unlocks: []string{
					"Governance change proposals",
					"Emergency action sunset",
				},
			},
		},
	}
}

// Validate checks the configuration for structural validity.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid governance config: %w", err)
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i].MinTokens <= c.Tiers[i-1].MinTokens {
			return fmt.Errorf(
				"invalid governance config: tier %s must require more tokens than %s",
				c.Tiers[i].Name, c.Tiers[i-1].Name,
			)
		}
	}
	return nil
}

// TierByName returns the tier parameters for the named tier.
func (c *Config) TierByName(name StakingTier) (TierParams, bool) {
	for _, t := range c.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return TierParams{}, false
}

// Days converts a day-denominated parameter to a duration using DayLength.
func (c *Config) Days(days int) time.Duration {
	return time.Duration(days) * c.DayLength
}

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newStakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake USER AMOUNT LOCK_DAYS",
		Short: "Stake tokens for governance",
		Long: `Lock tokens for governance participation.

The amount and lock duration together determine the staking tier. Each
tier unlocks privileges and a vote-weight multiplier; the tier table is
part of the governance configuration. A user holds at most one active
stake at a time.`,
		Example: `  # Stake 1000 tokens for a year (validator delegate tier)
  governd stake alice 1000 365

  # Stake the explorer minimum
  governd stake dave 25 30`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			lockDays, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid lock duration %q: %w", args[2], err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				stake, err := a.engine.StakeForGovernance(ctx, userID, amount, lockDays)
				if err != nil {
					return err
				}

				log.Info().
					Str("user", userID).
					Str("tier", string(stake.Tier)).
					Msg("Stake created")

				if jsonOutput {
					return printJSON(stake)
				}

				fmt.Printf("Staked %.2f tokens for %s\n", stake.Amount, stake.UserID)
				fmt.Printf("  Tier:     %s\n", stake.Tier)
				fmt.Printf("  Locked:   %d days\n", stake.LockDurationDays)
				fmt.Printf("  StakedAt: %s\n", stake.StakedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}

	return cmd
}

func newUnstakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unstake USER",
		Short: "Withdraw a governance stake",
		Long: `Withdraw the user's active governance stake.

Unstaking after the lock period returns the full amount. Unstaking early
burns a fraction of the stake as an exit penalty and returns the rest.
Either way the stake is deactivated and the user loses governance
privileges until they stake again.`,
		Example: `  # Withdraw a stake
  governd unstake alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.engine.UnstakeTokens(ctx, userID)
				if err != nil {
					return err
				}

				log.Info().
					Str("user", userID).
					Bool("early", result.Early).
					Msg("Stake withdrawn")

				if jsonOutput {
					return printJSON(result)
				}

				fmt.Printf("Unstaked %s\n", userID)
				fmt.Printf("  Returned: %.2f\n", result.Returned)
				fmt.Printf("  Burned:   %.2f\n", result.Burned)
				if result.Early {
					fmt.Printf("  Early exit penalty applied\n")
				}
				return nil
			})
		},
	}

	return cmd
}

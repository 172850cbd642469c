package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "governd",
		Short: "OmeoneChain governance engine",
		Long: `governd runs the OmeoneChain governance engine: token staking with
tiered privileges, reputation-weighted proposal voting, timelocked
execution with a community veto window, and progressive decentralization
milestones.

Features:
  - Four staking tiers with lock durations and vote multipliers
  - Voting power from the geometric mean of stake and trust score
  - Proposal lifecycle with quorum, majority, veto, and timelock
  - Durable execution scheduling that survives restarts
  - Best-effort on-chain audit trail with a local retry queue`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "governd.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newStakeCommand())
	rootCmd.AddCommand(newUnstakeCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newProposeCommand())
	rootCmd.AddCommand(newActivateCommand())
	rootCmd.AddCommand(newVoteCommand())
	rootCmd.AddCommand(newFinalizeCommand())
	rootCmd.AddCommand(newExecuteCommand())
	rootCmd.AddCommand(newProposalsCommand())
	rootCmd.AddCommand(newMilestonesCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newAuditCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

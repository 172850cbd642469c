package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMilestonesCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Show decentralization milestones",
		Long: `Show the decentralization milestones and their achievement state.

With --check, current governance metrics are evaluated against each
unachieved milestone's requirements first. Achievement is irreversible:
once a milestone is reached it stays reached even if the metrics later
fall below the thresholds.`,
		Example: `  # Show milestone status
  governd milestones

  # Evaluate requirements before showing
  governd milestones --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if check {
					achieved, err := a.engine.CheckMilestones(ctx)
					if err != nil {
						return err
					}
					for _, m := range achieved {
						log.Info().Str("milestone", m.ID).Msg("Milestone achieved")
					}
				}

				milestones, err := a.engine.GetMilestones(ctx)
				if err != nil {
					return err
				}

				if jsonOutput {
					return printJSON(milestones)
				}

				for _, m := range milestones {
					marker := " "
					if m.Achieved {
						marker = "✓"
					}
					fmt.Printf("%s %s: %s\n", marker, m.ID, m.Name)
					for req, threshold := range m.Requirements {
						fmt.Printf("    %-20s >= %.0f\n", req, threshold)
					}
					if m.Achieved && m.AchievedAt != nil {
						fmt.Printf("    achieved %s\n", m.AchievedAt.Format("2006-01-02"))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "evaluate requirements before showing")

	return cmd
}

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate governance statistics",
		Example: `  # Show governance stats as JSON
  governd stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				stats, err := a.engine.GetGovernanceStats(ctx)
				if err != nil {
					return err
				}

				if jsonOutput {
					return printJSON(stats)
				}

				fmt.Printf("Governance statistics\n")
				fmt.Printf("  Proposals:       %d total, %d active\n",
					stats.TotalProposals, stats.ActiveProposals)
				fmt.Printf("  Staked:          %.2f tokens across %d stakers\n",
					stats.TotalStaked, stats.UniqueStakers)
				fmt.Printf("  Voting power:    %.4f\n", stats.TotalVotingPower)
				fmt.Printf("  Unique voters:   %d\n", stats.UniqueVoters)
				fmt.Printf("  Milestones:      %d / %d achieved\n",
					stats.MilestonesAchieved, stats.MilestonesTotal)
				return nil
			})
		},
	}

	return cmd
}

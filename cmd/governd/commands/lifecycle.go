package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/governance"
)

func newActivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate PROPOSAL_ID",
		Short: "Open voting on a draft proposal",
		Long: `Move a DRAFT proposal to ACTIVE and open its voting window.

The voting window length is fixed by the governance configuration.
Votes cast outside the window are rejected.`,
		Example: `  # Activate a proposal
  governd activate 5e3c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.engine.ActivateProposal(ctx, id); err != nil {
					return err
				}

				proposal, err := a.engine.GetProposal(ctx, id)
				if err != nil {
					return err
				}

				log.Info().Str("proposal_id", id).Msg("Proposal activated")

				if jsonOutput {
					return printJSON(proposal)
				}

				fmt.Printf("Proposal %s is now ACTIVE\n", id)
				if proposal.VotingEndTime != nil {
					fmt.Printf("  Voting closes: %s\n",
						proposal.VotingEndTime.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}

	return cmd
}

func newVoteCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "vote PROPOSAL_ID USER VOTE",
		Short: "Cast a vote on an active proposal",
		Long: `Cast a YES, NO, or ABSTAIN vote on an active proposal.

Voting power is derived from the geometric mean of the voter's stake and
trust score, scaled by their tier multiplier and capped at a fraction of
the total active stake. Votes are immutable; a second vote from the same
user is rejected.`,
		Example: `  # Vote yes
  governd vote 5e3c... alice YES

  # Vote no with a reason
  governd vote 5e3c... bob NO --reason "Threshold too aggressive"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposalID, userID := args[0], args[1]
			voteType := governance.VoteType(args[2])

			return withApp(cmd, func(ctx context.Context, a *app) error {
				vote, err := a.engine.VoteOnProposal(ctx, proposalID, userID, voteType, reason)
				if err != nil {
					return err
				}

				log.Info().
					Str("proposal_id", proposalID).
					Str("voter", userID).
					Str("vote", string(vote.Type)).
					Msg("Vote cast")

				if jsonOutput {
					return printJSON(vote)
				}

				fmt.Printf("Vote recorded: %s voted %s\n", vote.Voter, vote.Type)
				fmt.Printf("  Voting power: %.4f\n", vote.VotingPower)
				fmt.Printf("  Tier:         %s\n", vote.StakingTier)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "optional vote justification")

	return cmd
}

func newFinalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize PROPOSAL_ID",
		Short: "Tally an active proposal after its voting window",
		Long: `Tally the votes on an ACTIVE proposal whose voting window has closed.

The proposal moves to PASSED when both quorum and majority are met and
to REJECTED otherwise. Abstain votes count toward quorum but are
excluded from the majority calculation. Passing schedules a durable
execution after the proposal's timelock.`,
		Example: `  # Finalize after the voting window
  governd finalize 5e3c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.engine.FinalizeProposal(ctx, id)
				if err != nil {
					return err
				}

				log.Info().
					Str("proposal_id", id).
					Bool("quorum", result.QuorumReached).
					Bool("majority", result.MajorityAchieved).
					Msg("Proposal finalized")

				if jsonOutput {
					return printJSON(result)
				}

				printVotingResult(result)
				return nil
			})
		},
	}

	return cmd
}

func newExecuteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute PROPOSAL_ID",
		Short: "Execute a passed proposal",
		Long: `Execute a PASSED proposal whose timelock has elapsed.

Execution first re-checks the veto condition: if opposing power during
the veto window reached the veto threshold, the proposal moves to VETOED
instead. A handler failure leaves the proposal PASSED so execution can
be retried.`,
		Example: `  # Execute once the timelock has elapsed
  governd execute 5e3c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.engine.ExecuteProposal(ctx, id); err != nil {
					return err
				}

				proposal, err := a.engine.GetProposal(ctx, id)
				if err != nil {
					return err
				}

				log.Info().
					Str("proposal_id", id).
					Str("status", string(proposal.Status)).
					Msg("Execution attempted")

				if jsonOutput {
					return printJSON(proposal)
				}

				fmt.Printf("Proposal %s is now %s\n", id, proposal.Status)
				return nil
			})
		},
	}

	return cmd
}

// printVotingResult writes a human-readable tally.
func printVotingResult(result *governance.VotingResult) {
	fmt.Printf("Proposal %s tallied\n", result.ProposalID)
	fmt.Printf("  Yes:         %.4f\n", result.YesVotes)
	fmt.Printf("  No:          %.4f\n", result.NoVotes)
	fmt.Printf("  Abstain:     %.4f\n", result.AbstainVotes)
	fmt.Printf("  Turnout:     %.1f%%\n", result.ParticipationRate*100)
	fmt.Printf("  Quorum:      %v\n", result.QuorumReached)
	fmt.Printf("  Majority:    %v\n", result.MajorityAchieved)
	if len(result.ByTier) > 0 {
		fmt.Printf("  By tier:\n")
		for tier, tally := range result.ByTier {
			fmt.Printf("    %-20s %d votes, %.4f power\n", tier, tally.Count, tally.Power)
		}
	}
}

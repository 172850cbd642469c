package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/governance"
)

func newProposalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Inspect proposals",
	}

	cmd.AddCommand(newProposalsListCommand())
	cmd.AddCommand(newProposalsShowCommand())

	return cmd
}

func newProposalsListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		Example: `  # List active proposals
  governd proposals list --status ACTIVE

  # List everything awaiting execution
  governd proposals list --status PASSED`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var proposals []*governance.Proposal
				var err error
				if status != "" {
					proposals, err = a.engine.GetProposalsByStatus(ctx, governance.ProposalStatus(status))
				} else {
					proposals, err = a.engine.GetActiveProposals(ctx)
				}
				if err != nil {
					return err
				}

				if jsonOutput {
					return printJSON(proposals)
				}

				if len(proposals) == 0 {
					fmt.Println("No proposals found")
					return nil
				}
				for _, p := range proposals {
					fmt.Printf("%s  %-10s %-18s %s\n", p.ID, p.Status, p.Type, p.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (default: ACTIVE)")

	return cmd
}

func newProposalsShowCommand() *cobra.Command {
	var withVotes bool

	cmd := &cobra.Command{
		Use:   "show PROPOSAL_ID",
		Short: "Show one proposal in detail",
		Example: `  # Show a proposal with its votes
  governd proposals show 5e3c... --votes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				proposal, err := a.engine.GetProposal(ctx, id)
				if err != nil {
					return err
				}

				var votes []*governance.Vote
				if withVotes {
					votes, err = a.engine.GetProposalVotes(ctx, id)
					if err != nil {
						return err
					}
				}

				if jsonOutput {
					return printJSON(map[string]any{
						"proposal": proposal,
						"votes":    votes,
					})
				}

				fmt.Printf("Proposal %s\n", proposal.ID)
				fmt.Printf("  Title:    %s\n", proposal.Title)
				fmt.Printf("  Author:   %s\n", proposal.Author)
				fmt.Printf("  Type:     %s\n", proposal.Type)
				fmt.Printf("  Status:   %s\n", proposal.Status)
				fmt.Printf("  Created:  %s\n", proposal.CreatedAt.Format("2006-01-02 15:04:05"))
				if proposal.VotingStartTime != nil {
					fmt.Printf("  Voting:   %s - %s\n",
						proposal.VotingStartTime.Format("2006-01-02 15:04:05"),
						proposal.VotingEndTime.Format("2006-01-02 15:04:05"))
				}
				fmt.Printf("  Quorum:   %.0f%%  Majority: %.0f%%\n",
					proposal.RequiredQuorum*100, proposal.RequiredMajority*100)
				if proposal.ContentHash != "" {
					fmt.Printf("  Content:  %s\n", proposal.ContentHash)
				}

				for _, v := range votes {
					fmt.Printf("  %-8s %-10s power %.4f (%s)\n",
						v.Type, v.Voter, v.VotingPower, v.StakingTier)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withVotes, "votes", false, "include individual votes")

	return cmd
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/governance"
)

func newProposeCommand() *cobra.Command {
	var (
		author          string
		proposalType    string
		title           string
		description     string
		descriptionFile string
		quorum          float64
		majority        float64
		minTrust        float64
		timelockDays    int
		vetoWindowDays  int
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Create a draft proposal",
		Long: `Create a governance proposal in DRAFT state.

The author must hold an active stake and meet the proposal's trust-score
requirement. The proposal stays in DRAFT until activated, which opens
its voting window. Long descriptions are anchored in the content store
by hash.`,
		Example: `  # Propose a parameter change
  governd propose --author alice --type PARAMETER_CHANGE \
    --title "Raise explorer minimum" \
    --description "Raise the explorer tier minimum stake to 50 tokens."

  # Read the description from a file, with a longer timelock
  governd propose --author alice --type PROTOCOL_UPGRADE \
    --title "v2 upgrade" --description-file upgrade.md \
    --timelock-days 7 --veto-window-days 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if descriptionFile != "" {
				data, err := os.ReadFile(descriptionFile)
				if err != nil {
					return fmt.Errorf("failed to read description file: %w", err)
				}
				description = string(data)
			}

			draft := governance.ProposalDraft{
				Author:           author,
				Type:             governance.ProposalType(proposalType),
				Title:            title,
				Description:      description,
				RequiredQuorum:   quorum,
				RequiredMajority: majority,
				MinTrustScore:    minTrust,
				TimelockDays:     timelockDays,
				VetoWindowDays:   vetoWindowDays,
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				id, err := a.engine.CreateProposal(ctx, draft)
				if err != nil {
					return err
				}

				log.Info().
					Str("proposal_id", id).
					Str("author", author).
					Msg("Proposal created")

				if jsonOutput {
					return printJSON(map[string]string{"proposal_id": id})
				}

				fmt.Printf("Created proposal %s\n", id)
				fmt.Printf("Activate it to open voting:\n")
				fmt.Printf("  governd activate %s\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "proposing user")
	cmd.Flags().StringVar(&proposalType, "type", "", "proposal type (PARAMETER_CHANGE, TREASURY_SPEND, PROTOCOL_UPGRADE, GOVERNANCE_CHANGE, EMERGENCY_ACTION)")
	cmd.Flags().StringVar(&title, "title", "", "short proposal title")
	cmd.Flags().StringVar(&description, "description", "", "full proposal body")
	cmd.Flags().StringVar(&descriptionFile, "description-file", "", "read the proposal body from a file")
	cmd.Flags().Float64Var(&quorum, "quorum", 0.2, "required participation fraction (0-1)")
	cmd.Flags().Float64Var(&majority, "majority", 0.5, "required yes fraction among non-abstain votes (0-1)")
	cmd.Flags().Float64Var(&minTrust, "min-trust", 0.4, "minimum author trust score")
	cmd.Flags().IntVar(&timelockDays, "timelock-days", 2, "delay between passing and execution, in days")
	cmd.Flags().IntVar(&vetoWindowDays, "veto-window-days", 2, "post-voting veto period, in days")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

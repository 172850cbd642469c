package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage development ledger accounts",
		Long: `Inspect and modify accounts in the development token ledger.

These commands exist for local development and testing. In a deployed
network, balances and trust scores come from the chain's token ledger
and the reputation system, not from governd.`,
	}

	cmd.AddCommand(newAccountShowCommand())
	cmd.AddCommand(newAccountCreditCommand())
	cmd.AddCommand(newAccountTrustCommand())

	return cmd
}

func newAccountShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show USER",
		Short: "Show an account's balance and trust score",
		Example: `  # Show alice's ledger account
  governd account show alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			return withApp(cmd, func(ctx context.Context, a *app) error {
				acct := a.ledger.Account(userID)

				if jsonOutput {
					return printJSON(acct)
				}

				fmt.Printf("Account %s\n", userID)
				fmt.Printf("  Balance:    %.2f\n", acct.Balance)
				fmt.Printf("  Locked:     %.2f\n", acct.Locked)
				fmt.Printf("  TrustScore: %.2f\n", acct.TrustScore)
				return nil
			})
		},
	}

	return cmd
}

func newAccountCreditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit USER AMOUNT",
		Short: "Credit tokens to an account",
		Example: `  # Give bob 500 tokens
  governd account credit bob 500`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.ledger.Credit(userID, amount); err != nil {
					return err
				}
				fmt.Printf("Credited %.2f to %s (balance: %.2f)\n",
					amount, userID, a.ledger.Account(userID).Balance)
				return nil
			})
		},
	}

	return cmd
}

func newAccountTrustCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust USER SCORE",
		Short: "Set an account's trust score",
		Example: `  # Set carol's trust score
  governd account trust carol 0.55`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[1], err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.ledger.SetTrustScore(userID, score); err != nil {
					return err
				}
				fmt.Printf("Set trust score for %s to %.2f\n", userID, score)
				return nil
			})
		},
	}

	return cmd
}

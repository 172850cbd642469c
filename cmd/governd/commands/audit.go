package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Manage the audit commit log",
	}

	cmd.AddCommand(newAuditDrainCommand())

	return cmd
}

func newAuditDrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Retry parked audit records",
		Long: `Retry audit records that were parked locally after the commit log
rejected them.

The serve loop drains the queue on an interval; this command forces one
drain pass immediately, useful after a ledger outage.`,
		Example: `  # Force a drain pass
  governd audit drain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				drained, err := a.commit.Drain(ctx)
				if err != nil {
					return fmt.Errorf("drain stopped after %d records: %w", drained, err)
				}
				fmt.Printf("Drained %d parked audit records\n", drained)
				return nil
			})
		},
	}

	return cmd
}

package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/config"
	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/telemetry"
)

// gaugeRefreshInterval is how often aggregate gauges and milestone checks
// run in serve mode.
const gaugeRefreshInterval = time.Minute

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the governance engine as a long-lived service",
		Long: `Run the governance engine until interrupted.

Serve mode owns the background work that one-shot commands skip:
  - The execution worker sweeps due timelocked executions and expires
    stale proposals
  - The audit drain loop retries parked audit records
  - Milestone requirements are re-evaluated periodically
  - Aggregate metrics gauges are refreshed
  - The configuration file is watched; log-level changes apply live`,
		Example: `  # Run with the default config file
  governd serve

  # Run with an explicit config
  governd serve --config /etc/omeonechain/governd.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			logger := a.logger.NewComponentLogger("serve")
			logger.WithField("store", a.cfg.Store.Backend).Info("Governance engine starting")

			// Metrics endpoint
			if a.cfg.Metrics.Enabled {
				if err := a.tel.StartMetricsServer(); err != nil {
					return err
				}
				logger.WithField("address", a.cfg.Metrics.ListenAddress).
					Info("Metrics server started")
			}

			// Audit drain loop
			a.commit.Start(ctx)
			defer a.commit.Stop()

			// Execution worker
			worker := governance.NewExecutionWorker(a.engine, a.logger, a.cfg.Worker.PollInterval)
			worker.Start(ctx)
			defer worker.Stop()

			// Live reload for log level changes
			watcher := config.NewWatcher(configPath, a.logger)
			err = watcher.Watch(ctx, func(cfg *config.Config) error {
				telemetry.SetGlobalLevel(cfg.Logging.Level)
				return nil
			})
			if err != nil {
				logger.WithError(err).Warn("Config watch unavailable, continuing without live reload")
			} else {
				defer func() { _ = watcher.Stop() }()
			}

			// Periodic gauge refresh and milestone evaluation
			go refreshLoop(ctx, a, logger)

			logger.Info("Governance engine ready")
			<-ctx.Done()
			logger.Info("Governance engine shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return a.tel.Shutdown(shutdownCtx)
		},
	}

	return cmd
}

// refreshLoop periodically re-evaluates milestones and updates the aggregate
// gauges from governance stats.
func refreshLoop(ctx context.Context, a *app, logger *telemetry.Logger) {
	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if achieved, err := a.engine.CheckMilestones(ctx); err != nil {
				logger.WithError(err).Warn("Milestone check failed")
			} else {
				for _, m := range achieved {
					logger.WithField("milestone", m.ID).Info("Milestone achieved")
				}
			}

			stats, err := a.engine.GetGovernanceStats(ctx)
			if err != nil {
				logger.WithError(err).Warn("Stats refresh failed")
				continue
			}
			a.tel.Metrics.SetGovernanceGauges(
				stats.TotalStaked,
				float64(stats.UniqueStakers),
				float64(stats.ActiveProposals),
				float64(stats.MilestonesAchieved),
			)
		}
	}
}

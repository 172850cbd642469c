// Package telemetry provides observability instrumentation for the governance engine.
//
// The telemetry package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), and metrics (Prometheus) into a unified system for monitoring
// and debugging governance operations.
//
// # Architecture
//
// The telemetry system is built on three pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//
// On-chain audit records are not part of this package; they are handled by the
// chainlog package, which submits them to the distributed ledger adapter.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "governd"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	// Start metrics server
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context propagation:
//
//	logger := tel.Logger.NewComponentLogger("engine")
//	logger = logger.WithProposalID("prop-123").WithUserID("user-456")
//	logger.Info("Finalizing proposal")
//	logger.WithError(err).Error("Finalization failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into request flow and performance:
//
//	ctx, span := tel.Tracer.Start(ctx, "proposal.finalize")
//	defer span.End()
//
//	span.SetAttributes(
//	    telemetry.AttrProposalID.String(proposalID),
//	    telemetry.AttrProposalStatus.String("PASSED"),
//	)
//
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: OTLP (production), Stdout (development)
//
// # Metrics
//
// Prometheus metrics track governance activity:
//
//	tel.Metrics.RecordStake("CURATOR", 150)
//	tel.Metrics.RecordVote("yes")
//	tel.Metrics.RecordProposalFinalized("PASSED")
//	tel.Metrics.RecordAuditSubmission("ok")
//
// Metrics are exposed via HTTP at /metrics (default: :9090/metrics)
//
// Key metrics exposed:
//
//   - governance_stakes_created_total{tier}
//   - governance_unstakes_total{tier,early}
//   - governance_proposals_created_total{type}
//   - governance_proposals_finalized_total{status}
//   - governance_proposal_executions_total{status}
//   - governance_votes_cast_total{vote}
//   - governance_audit_submissions_total{status}
//   - governance_milestones_reached_total{milestone}
//   - governance_total_staked_tokens
//   - governance_active_proposals
//
// # Configuration
//
// The package provides pre-configured setups for different environments:
//
//	// Development (verbose logging, stdout traces, full sampling)
//	cfg := telemetry.DevelopmentConfig()
//
//	// Production (JSON logs, OTLP traces, 10% sampling)
//	cfg := telemetry.ProductionConfig()
//
// # Graceful Shutdown
//
// Always shut down telemetry gracefully to flush pending traces:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	if err := tel.Shutdown(ctx); err != nil {
//	    log.Printf("Telemetry shutdown error: %v", err)
//	}
package telemetry

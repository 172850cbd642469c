package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the governance engine.
type Metrics struct {
	config MetricsConfig

	// Staking metrics
	stakesCreated *prometheus.CounterVec
	stakeAmount   *prometheus.HistogramVec
	unstakes      *prometheus.CounterVec

	// Proposal metrics
	proposalsCreated   *prometheus.CounterVec
	proposalsFinalized *prometheus.CounterVec
	proposalExecutions *prometheus.CounterVec
	proposalsByStatus  *prometheus.GaugeVec

	// Vote metrics
	votesCast *prometheus.CounterVec

	// Audit metrics
	auditSubmissions *prometheus.CounterVec

	// Milestone metrics
	milestonesReached *prometheus.CounterVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// System gauges
	totalStaked        prometheus.Gauge
	uniqueStakers      prometheus.Gauge
	activeProposals    prometheus.Gauge
	milestonesAchieved prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Staking metrics
		stakesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stakes_created_total",
				Help:      "Total number of governance stakes created",
			},
			[]string{"tier"},
		),
		stakeAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stake_amount_tokens",
				Help:      "Distribution of staked token amounts",
				Buckets:   []float64{25, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"tier"},
		),
		unstakes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unstakes_total",
				Help:      "Total number of unstake operations",
			},
			[]string{"tier", "early"},
		),

		// Proposal metrics
		proposalsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proposals_created_total",
				Help:      "Total number of proposals created",
			},
			[]string{"type"},
		),
		proposalsFinalized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proposals_finalized_total",
				Help:      "Total number of proposals finalized",
			},
			[]string{"status"},
		),
		proposalExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proposal_executions_total",
				Help:      "Total number of proposal execution attempts",
			},
			[]string{"status"},
		),
		proposalsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "proposals_by_status",
				Help:      "Current number of proposals in each lifecycle state",
			},
			[]string{"status"},
		),

		// Vote metrics
		votesCast: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_cast_total",
				Help:      "Total number of votes cast",
			},
			[]string{"vote"},
		),

		// Audit metrics
		auditSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_submissions_total",
				Help:      "Total number of audit record submissions",
			},
			[]string{"status"},
		),

		// Milestone metrics
		milestonesReached: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "milestones_reached_total",
				Help:      "Total number of decentralization milestones reached",
			},
			[]string{"milestone"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// System gauges
		totalStaked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "total_staked_tokens",
				Help:      "Current total of actively staked tokens",
			},
		),
		uniqueStakers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "unique_stakers",
				Help:      "Current number of users with an active stake",
			},
		),
		activeProposals: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_proposals",
				Help:      "Current number of proposals open for voting",
			},
		),
		milestonesAchieved: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "milestones_achieved",
				Help:      "Number of decentralization milestones achieved",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.stakesCreated,
		m.stakeAmount,
		m.unstakes,
		m.proposalsCreated,
		m.proposalsFinalized,
		m.proposalExecutions,
		m.proposalsByStatus,
		m.votesCast,
		m.auditSubmissions,
		m.milestonesReached,
		m.errorsByClass,
		m.errorsByCode,
		m.totalStaked,
		m.uniqueStakers,
		m.activeProposals,
		m.milestonesAchieved,
	)

	return m, nil
}

// Staking Metrics

// RecordStake records a newly created stake with its tier and amount.
func (m *Metrics) RecordStake(tier string, amount float64) {
	if m.stakesCreated == nil {
		return
	}
	m.stakesCreated.WithLabelValues(tier).Inc()
	m.stakeAmount.WithLabelValues(tier).Observe(amount)
}

// RecordUnstake records an unstake operation, distinguishing early exits.
func (m *Metrics) RecordUnstake(tier string, early bool) {
	if m.unstakes == nil {
		return
	}
	earlyLabel := "false"
	if early {
		earlyLabel = "true"
	}
	m.unstakes.WithLabelValues(tier, earlyLabel).Inc()
}

// Proposal Metrics

// RecordProposalCreated increments the counter for created proposals.
func (m *Metrics) RecordProposalCreated(proposalType string) {
	if m.proposalsCreated == nil {
		return
	}
	m.proposalsCreated.WithLabelValues(proposalType).Inc()
}

// RecordProposalFinalized records a proposal finalization with its outcome.
func (m *Metrics) RecordProposalFinalized(status string) {
	if m.proposalsFinalized == nil {
		return
	}
	m.proposalsFinalized.WithLabelValues(status).Inc()
}

// RecordProposalExecution records a proposal execution attempt.
func (m *Metrics) RecordProposalExecution(status string) {
	if m.proposalExecutions == nil {
		return
	}
	m.proposalExecutions.WithLabelValues(status).Inc()
}

// SetProposalStatus sets the current number of proposals in a lifecycle state.
func (m *Metrics) SetProposalStatus(status string, count float64) {
	if m.proposalsByStatus == nil {
		return
	}
	m.proposalsByStatus.WithLabelValues(status).Set(count)
}

// Vote Metrics

// RecordVote records a cast vote by its type (yes, no, abstain).
func (m *Metrics) RecordVote(voteType string) {
	if m.votesCast == nil {
		return
	}
	m.votesCast.WithLabelValues(voteType).Inc()
}

// Audit Metrics

// RecordAuditSubmission records an audit record submission outcome.
func (m *Metrics) RecordAuditSubmission(status string) {
	if m.auditSubmissions == nil {
		return
	}
	m.auditSubmissions.WithLabelValues(status).Inc()
}

// Milestone Metrics

// RecordMilestoneAchieved records a milestone being reached.
func (m *Metrics) RecordMilestoneAchieved(milestoneID string) {
	if m.milestonesReached == nil {
		return
	}
	m.milestonesReached.WithLabelValues(milestoneID).Inc()
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// System Metrics

// SetGovernanceGauges updates the system-wide governance gauges.
func (m *Metrics) SetGovernanceGauges(totalStaked, uniqueStakers, activeProposals, milestonesAchieved float64) {
	if m.totalStaked == nil {
		return
	}
	m.totalStaked.Set(totalStaked)
	m.uniqueStakers.Set(uniqueStakers)
	m.activeProposals.Set(activeProposals)
	m.milestonesAchieved.Set(milestonesAchieved)
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}

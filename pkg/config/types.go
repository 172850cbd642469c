package config

import (
	"time"

	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/telemetry"
)

// Config is the top-level governd configuration file. Every section has a
// working default, so an empty file (or no file at all) yields a runnable
// development setup: an in-process SQLite store, a YAML dev ledger, and
// console logging.
type Config struct {
	// Service identifies this governd instance in logs and traces.
	Service ServiceConfig `yaml:"service"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing configures distributed tracing export.
	Tracing TracingConfig `yaml:"tracing"`

	// Metrics configures the Prometheus metrics endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Store configures governance state persistence.
	Store StoreConfig `yaml:"store"`

	// Ledger configures the development token ledger and content store.
	Ledger LedgerConfig `yaml:"ledger"`

	// Governance holds the engine parameters (tiers, voting windows,
	// burn rate, milestones). Omitted fields keep their production
	// defaults.
	Governance governance.Config `yaml:"governance"`

	// Worker configures the background execution and expiry sweeper.
	Worker WorkerConfig `yaml:"worker"`

	// Audit configures the buffered audit commit log.
	Audit AuditConfig `yaml:"audit"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	// Name is the service name reported in telemetry.
	Name string `yaml:"name" validate:"required"`

	// Version is the service version reported in telemetry.
	Version string `yaml:"version" validate:"required"`

	// Environment is the deployment environment (development, staging,
	// production).
	Environment string `yaml:"environment" validate:"oneof=development staging production"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal).
	Level string `yaml:"level" validate:"oneof=trace debug info warn error fatal"`

	// Format is the log output format (console, json).
	Format string `yaml:"format" validate:"oneof=console json"`

	// Output is where logs are written (stdout, stderr, or a file path).
	Output string `yaml:"output" validate:"required"`

	// EnableCaller adds file:line caller information to log entries.
	EnableCaller bool `yaml:"enable_caller"`
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled controls whether traces are exported at all.
	Enabled bool `yaml:"enabled"`

	// Exporter selects the trace exporter (otlp, stdout, none).
	Exporter string `yaml:"exporter" validate:"oneof=otlp stdout none"`

	// Endpoint is the OTLP collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// SamplingRate is the fraction of traces sampled, between 0 and 1.
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`

	// Insecure disables TLS on the exporter connection.
	Insecure bool `yaml:"insecure"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics HTTP server binds to.
	ListenAddress string `yaml:"listen_address" validate:"required_if=Enabled true"`

	// Path is the HTTP path serving the metrics, default "/metrics".
	Path string `yaml:"path"`
}

// StoreConfig configures governance state persistence.
type StoreConfig struct {
	// Backend selects the store implementation (sqlite, memory). The
	// memory backend loses all state on restart and exists for tests
	// and throwaway experiments.
	Backend string `yaml:"backend" validate:"oneof=sqlite memory"`

	// Path is the SQLite database file. Ignored by the memory backend.
	Path string `yaml:"path" validate:"required_if=Backend sqlite"`
}

// LedgerConfig configures the development token ledger.
type LedgerConfig struct {
	// Path is the YAML file holding account balances and trust scores.
	// Empty keeps the ledger purely in memory.
	Path string `yaml:"path"`

	// ContentDir is the directory for offloaded proposal descriptions.
	ContentDir string `yaml:"content_dir" validate:"required"`
}

// WorkerConfig configures the background proposal sweeper.
type WorkerConfig struct {
	// PollInterval is how often the worker scans for due executions and
	// stale proposals.
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
}

// AuditConfig configures the buffered audit commit log.
type AuditConfig struct {
	// DrainInterval is how often parked audit records are retried.
	DrainInterval time.Duration `yaml:"drain_interval" validate:"gt=0"`

	// DrainBatch is the maximum records retried per drain pass.
	DrainBatch int `yaml:"drain_batch" validate:"gt=0"`
}

// Default returns the development defaults for every section. Load starts
// from this value, so a config file only needs to name what it changes.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "governd",
			Version:     "dev",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			Output:       "stdout",
			EnableCaller: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			SamplingRate: 1.0,
			Insecure:     true,
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			ListenAddress: ":9090",
			Path:          "/metrics",
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "governance.db",
		},
		Ledger: LedgerConfig{
			Path:       "ledger.yaml",
			ContentDir: "content",
		},
		Governance: governance.DefaultConfig(),
		Worker: WorkerConfig{
			PollInterval: time.Minute,
		},
		Audit: AuditConfig{
			DrainInterval: 30 * time.Second,
			DrainBatch:    50,
		},
	}
}

// Telemetry maps the file configuration onto the telemetry stack's config.
func (c *Config) Telemetry() *telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.ServiceName = c.Service.Name
	tc.ServiceVersion = c.Service.Version
	tc.Environment = c.Service.Environment
	tc.Logging.Level = c.Logging.Level
	tc.Logging.Format = c.Logging.Format
	tc.Logging.Output = c.Logging.Output
	tc.Logging.EnableCaller = c.Logging.EnableCaller
	tc.Tracing.Enabled = c.Tracing.Enabled
	tc.Tracing.Exporter = c.Tracing.Exporter
	tc.Tracing.Endpoint = c.Tracing.Endpoint
	tc.Tracing.SamplingRate = c.Tracing.SamplingRate
	tc.Tracing.Insecure = c.Tracing.Insecure
	tc.Metrics.Enabled = c.Metrics.Enabled
	tc.Metrics.ListenAddress = c.Metrics.ListenAddress
	if c.Metrics.Path != "" {
		tc.Metrics.Path = c.Metrics.Path
	}
	return tc
}

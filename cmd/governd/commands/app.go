package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omeonechain/governance/pkg/chainlog"
	"github.com/omeonechain/governance/pkg/config"
	"github.com/omeonechain/governance/pkg/devledger"
	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/stores"
	"github.com/omeonechain/governance/pkg/telemetry"
)

// app bundles the fully wired governance stack for one command invocation.
type app struct {
	cfg    *config.Config
	tel    *telemetry.Telemetry
	logger *telemetry.Logger
	store  governance.Store
	ledger *devledger.Ledger
	commit *chainlog.Buffered
	engine *governance.Engine

	sqlite *stores.SQLiteStore
}

// newApp loads the configuration and wires the store, ledger, commit log,
// and engine. Callers must invoke close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.NewTelemetry(cfg.Telemetry())
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry: %w", err)
	}
	logger := tel.Logger

	a := &app{cfg: cfg, tel: tel, logger: logger}

	var queue governance.AuditQueue
	switch cfg.Store.Backend {
	case "memory":
		mem := stores.NewMemoryStore()
		a.store = mem
		queue = mem
	default:
		sqlite, err := stores.NewSQLiteStore(stores.Config{Path: cfg.Store.Path})
		if err != nil {
			return nil, err
		}
		if err := sqlite.Init(ctx); err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx); err != nil {
			_ = sqlite.Close()
			return nil, err
		}
		a.store = sqlite
		a.sqlite = sqlite
		queue = sqlite
	}

	ledger, err := devledger.NewLedger(cfg.Ledger.Path)
	if err != nil {
		a.close()
		return nil, err
	}
	a.ledger = ledger

	content, err := devledger.NewContentStore(cfg.Ledger.ContentDir)
	if err != nil {
		a.close()
		return nil, err
	}

	a.commit = chainlog.NewBuffered(chainlog.NewLocalLog(logger), queue, logger, cfg.Audit.DrainInterval)
	a.commit.SetDrainBatch(cfg.Audit.DrainBatch)

	engine, err := governance.New(ctx, governance.Options{
		Config:     cfg.Governance,
		Store:      a.store,
		Ledger:     ledger,
		Reputation: ledger,
		Content:    content,
		CommitLog:  a.commit,
		Logger:     logger,
		Metrics:    tel.Metrics,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = engine

	return a, nil
}

// close releases the store connection.
func (a *app) close() {
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
}

// withApp wires the stack, runs fn, and tears down again. Every one-shot
// command body goes through here.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

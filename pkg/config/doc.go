// Package config loads and validates the governd configuration file.
//
// Configuration is a single YAML document merged over built-in development
// defaults, so an absent or empty file still produces a runnable setup.
// Sections cover service identity, telemetry (logging, tracing, metrics),
// the persistence backend, the development token ledger, the governance
// engine parameters, and the background worker cadence.
//
// Loading:
//
//	cfg, err := config.Load("governd.yaml")
//	if err != nil {
//	    return err
//	}
//	store, err := stores.NewSQLiteStore(stores.Config{Path: cfg.Store.Path})
//
// Unknown keys in the file are rejected at load time so a typo never
// silently falls back to a default. Validation combines struct tags with
// the governance engine's own parameter checks (tier ordering, threshold
// ranges).
//
// Live reload:
//
//	w := config.NewWatcher("governd.yaml", logger)
//	err := w.Watch(ctx, func(cfg *config.Config) error {
//	    return applyLogLevel(cfg.Logging.Level)
//	})
//
// The watcher debounces editor save bursts and drops configs that fail to
// parse or validate, keeping the previous configuration in effect.
package config

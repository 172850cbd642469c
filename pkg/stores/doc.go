// Package stores provides persistence layer implementations for the
// governance engine. It includes SQLite-based storage with WAL mode,
// connection pooling, and embedded migrations for stakes, proposals, votes,
// milestones, scheduled executions, and the pending-audit queue, plus an
// in-memory implementation for tests and dev mode.
package stores

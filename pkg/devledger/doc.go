// Package devledger provides file-backed implementations of the engine's
// external collaborators for dev mode and integration tests: a YAML token
// ledger that doubles as the reputation source, and a SHA-256
// content-addressed store for offloaded proposal bodies.
//
// Production deployments replace these with adapters over the real token
// ledger, reputation service, and off-chain storage.
package devledger

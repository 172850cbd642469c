// Package governance implements the OmeoneChain governance engine: a
// staking-tier model, weighted-voting proposal lifecycle, quorum and
// majority calculation, and milestone tracking for progressive
// decentralization.
//
// # Overview
//
// The engine is a stateful orchestrator over four entity collections
// (stakes, proposals, votes, milestones) persisted behind the Store
// repository interface, and four external collaborators accessed through
// narrow interfaces:
//
//   - TokenLedger: fund custody (balance, lock, unlock, burn)
//   - ReputationSource: trust scores in [0, 1]
//   - ContentStore: offload for large proposal bodies
//   - CommitLog: append-only, best-effort audit trail
//
// Control flow is request/response: each public operation validates its
// preconditions against current state, mutates state, and emits an audit
// record. The one asynchronous piece is the deferred execution of passed
// proposals, implemented as durable due-at records drained by an
// ExecutionWorker so pending executions survive restarts.
//
// # Lifecycle
//
// Proposals move DRAFT -> ACTIVE -> {PASSED, REJECTED}; PASSED proposals
// move to EXECUTED after their timelock, or to VETOED when enough opposing
// power arrives during the veto window. REJECTED, EXECUTED, EXPIRED, and
// VETOED are terminal.
//
// Voting power blends economic weight with reputation:
//
//	power = sqrt(stake * trust * rescale) * tierMultiplier
//
// capped at a configured fraction of the total active stake at cast time.
//
// # Errors
//
// All operations return *GovernanceError with a stable code (see errors.go)
// so callers can render distinct guidance per failed precondition.
// Commit-log failures are never surfaced as operation failures: governance
// state is authoritative once applied and the audit write is best-effort.
package governance

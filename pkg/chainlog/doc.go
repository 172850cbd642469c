// Package chainlog provides commit-log adapters for the governance audit
// trail. Every governance state change emits an AuditRecord; adapters in
// this package decide where those records land.
//
// LocalLog assigns sequence numbers in process and writes records to the
// structured log. It backs dev mode and tests.
//
// Buffered wraps any commit log with a durable retry queue: submissions the
// underlying log rejects are parked in a governance.AuditQueue and a
// background drain loop retries them until the ledger accepts. Audit
// submission is best-effort by contract; governance state never rolls back
// on a failed submission.
package chainlog

package chainlog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/omeonechain/governance/pkg/governance"
	"github.com/omeonechain/governance/pkg/telemetry"
)

// LocalLog is an in-process commit log. It assigns sequence numbers and
// writes each record to the structured log instead of a distributed ledger.
// Used in dev mode and tests; production deployments wrap a real ledger
// client in the CommitLog interface instead.
type LocalLog struct {
	mu     sync.Mutex
	seq    uint64
	logger *telemetry.Logger
}

// NewLocalLog creates a local commit log writing through the given logger.
func NewLocalLog(logger *telemetry.Logger) *LocalLog {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	return &LocalLog{
		logger: logger.NewComponentLogger("chainlog"),
	}
}

// Submit appends a record to the log.
func (l *LocalLog) Submit(_ context.Context, record governance.AuditRecord) (governance.Receipt, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	receipt := governance.Receipt{
		ID:       uuid.New().String(),
		Sequence: seq,
	}

	l.logger.WithFields(map[string]interface{}{
		"record_type": record.Type,
		"sequence":    receipt.Sequence,
		"receipt_id":  receipt.ID,
	}).Debug("Audit record committed")

	return receipt, nil
}

// Sequence returns the last assigned sequence number.
func (l *LocalLog) Sequence() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

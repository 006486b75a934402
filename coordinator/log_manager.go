package coordinator

import (
	"fmt"
	"sync"

	"github.com/tidwall/wal"

	"bank2pc/configs"
)

// LogManager is the coordinator's decision log: each decision is appended
// before the decision phase broadcasts. It is write-only for now; no replay
// path is implemented, but the log exists so a future recovery path has
// something to read.
type LogManager struct {
	mu   sync.Mutex
	lsn  uint64
	logs *wal.Log
}

// NewLogManager opens (or no-ops, when configs.UseWAL is false) the
// decision log for coordinatorID.
func NewLogManager(coordinatorID string) *LogManager {
	lm := &LogManager{}
	if !configs.UseWAL {
		return lm
	}
	log, err := wal.Open(fmt.Sprintf("./logs/coordinator-%s", coordinatorID), nil)
	configs.CheckError(err)
	lm.logs = log
	lsn, err := log.LastIndex()
	configs.CheckError(err)
	lm.lsn = lsn
	return lm
}

// WriteDecision appends (transactionID, decision) before the decision phase
// broadcasts.
func (lm *LogManager) WriteDecision(transactionID, decision string) {
	if !configs.UseWAL {
		return
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.lsn++
	entry := fmt.Sprintf("(%s,%s)", transactionID, decision)
	configs.CheckError(lm.logs.Write(lm.lsn, []byte(entry)))
}

// Close releases the underlying log file, if one was opened.
func (lm *LogManager) Close() error {
	if lm.logs == nil {
		return nil
	}
	return lm.logs.Close()
}

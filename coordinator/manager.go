package coordinator

import (
	"context"
	"sync"
	"time"

	"bank2pc/configs"
	"bank2pc/network"
)

// Manager drives account-creation transactions across the configured
// participants. It owns only the per-transaction decisions it has taken,
// never account rows.
type Manager struct {
	cfg Config
	log *LogManager

	mu        sync.Mutex
	decisions map[string]string // transaction_id -> "commit"|"abort", for GetTxOutcome.
}

// NewManager wires a Manager to cfg, opening the decision log.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:       cfg,
		log:       NewLogManager(cfg.CoordinatorID),
		decisions: make(map[string]string),
	}
}

// ErrNoParticipants is returned by CreateAccount when the participant list
// is empty and configs.ZeroParticipantsCommits is false.
const ErrNoParticipants = "no participants configured"

// CreateAccount runs the full two-phase commit for one account creation
// request and returns the client-facing summary.
func (m *Manager) CreateAccount(ctx context.Context, req network.CreateAccountReq) network.CreateAccountResp {
	txnID := newTransactionID()
	configs.TxnPrint(txnID, "CreateAccount begin email=%s", req.Email)

	tx := &TX{
		TransactionID:  txnID,
		Participants:   m.cfg.Participants,
		Name:           req.Name,
		Email:          req.Email,
		InitialBalance: req.InitialBalance,
	}

	if len(tx.Participants) == 0 {
		if !configs.ZeroParticipantsCommits {
			return network.CreateAccountResp{Success: false, Message: "internal error: " + ErrNoParticipants}
		}
		// Degenerate immediate COMMIT: nothing to vote on.
		m.recordDecision(txnID, true)
		return m.finish(txnID, req, true, "")
	}

	votes := collectVotes(ctx, tx, m.cfg.Deadline)
	decision := true
	for _, v := range votes {
		if !v.commit {
			decision = false
			break
		}
	}

	m.recordDecision(txnID, decision)

	decisionPhaseCtx, cancel := context.WithTimeout(context.Background(), m.cfg.Deadline+time.Second)
	defer cancel()
	broadcastDecision(decisionPhaseCtx, tx, decision, m.cfg.Deadline)

	reason := ""
	if !decision {
		reason = reasonSummary(votes)
	}
	return m.finish(txnID, req, decision, reason)
}

func (m *Manager) finish(txnID string, req network.CreateAccountReq, commit bool, abortReason string) network.CreateAccountResp {
	if commit {
		configs.TxnPrint(txnID, "decision=COMMIT")
		return network.CreateAccountResp{
			Success:   true,
			Message:   "account created",
			Name:      req.Name,
			Email:     req.Email,
			Balance:   req.InitialBalance,
			CreatedAt: time.Now(),
		}
	}
	configs.TxnPrint(txnID, "decision=ABORT reason=%s", abortReason)
	return network.CreateAccountResp{Success: false, Message: abortReason}
}

func (m *Manager) recordDecision(txnID string, commit bool) {
	decision := configs.AbortPhase
	if commit {
		decision = configs.CommitPhase
	}
	m.log.WriteDecision(txnID, decision)
	m.mu.Lock()
	m.decisions[txnID] = decision
	m.mu.Unlock()
}

// GetTxOutcome is a recovery hook: a participant with a stale PREPARED
// entry could poll this to learn the decision it missed. No poller is
// wired up; this only exposes the in-memory decision cache.
func (m *Manager) GetTxOutcome(transactionID string) (decision string, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	decision, known = m.decisions[transactionID]
	return
}

// Close releases the decision log.
func (m *Manager) Close() error {
	return m.log.Close()
}

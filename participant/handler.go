package participant

import (
	"time"

	"bank2pc/configs"
	"bank2pc/network"
)

// Handler is the stateless per-node protocol handler: it exposes
// Prepare/Commit/Abort and simply drives a Store.
type Handler struct {
	NodeID string
	Store  *Store
}

// NewHandler wires a Handler to a fresh Store for node nodeID.
func NewHandler(nodeID string) *Handler {
	return &Handler{NodeID: nodeID, Store: NewStore()}
}

// Prepare votes on whether the requested account can be created.
func (h *Handler) Prepare(req network.PrepareReq) network.PrepareResp {
	configs.TxnPrint(req.TransactionID, "%s: prepare begin email=%s", h.NodeID, req.Email)
	voteCommit, reason, _ := h.Store.Prepare(req.TransactionID, req.Name, req.Email, req.InitialBalance, time.Now())
	configs.TxnPrint(req.TransactionID, "%s: prepare done vote=%v reason=%s", h.NodeID, voteCommit, reason)
	return network.PrepareResp{VoteCommit: voteCommit, Reason: reason}
}

// Commit makes transactionID's reservation durable. Idempotent, never fails.
func (h *Handler) Commit(req network.CommitReq) network.Empty {
	accountID, promoted := h.Store.Promote(req.TransactionID)
	if promoted {
		configs.TxnPrint(req.TransactionID, "%s: committed account_id=%s", h.NodeID, accountID)
	} else {
		configs.TxnPrint(req.TransactionID, "%s: commit no-op (no pending reservation)", h.NodeID)
	}
	return network.Empty{}
}

// Abort discards transactionID's reservation. Idempotent, never fails.
func (h *Handler) Abort(req network.AbortReq) network.Empty {
	discarded := h.Store.Discard(req.TransactionID)
	configs.TxnPrint(req.TransactionID, "%s: abort discarded=%v", h.NodeID, discarded)
	return network.Empty{}
}

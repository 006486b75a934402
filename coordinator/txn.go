package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"

	"bank2pc/configs"
	"bank2pc/network"
)

// TX is the coordinator's per-transaction view: the tx id it minted and the
// ordered list of participant endpoints to contact. Duplicates are allowed;
// each occurrence is an independent vote.
type TX struct {
	TransactionID string
	Participants  []string
	Name          string
	Email         string
	InitialBalance float64
}

// vote is one participant's outcome in the voting phase: a transport
// failure or a deadline is folded into a NO vote here, same as a business
// ABORT.
type vote struct {
	participant string
	commit      bool
	reason      string
}

// collectVotes sends Prepare to every participant in tx.Participants in
// parallel, each under its own deadline, and returns one vote per
// participant, including participants contacted more than once.
func collectVotes(parentCtx context.Context, tx *TX, deadline time.Duration) []vote {
	results := make([]vote, len(tx.Participants))
	responded := mapset.NewSet() // distinct endpoints heard from, for logging only.
	var respondedMu sync.Mutex

	var wg sync.WaitGroup
	for i, addr := range tx.Participants {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(parentCtx, deadline)
			defer cancel()

			req := network.PrepareReq{
				TransactionID:  tx.TransactionID,
				Name:           tx.Name,
				Email:          tx.Email,
				InitialBalance: tx.InitialBalance,
			}
			var resp network.PrepareResp
			err := network.Call(ctx, addr, configs.PreparePhase, req, &resp)
			if err != nil {
				results[i] = vote{participant: addr, commit: false, reason: "RPC error: " + err.Error()}
				configs.TxnPrint(tx.TransactionID, "prepare to %s failed: %s", addr, err.Error())
				return
			}
			respondedMu.Lock()
			responded.Add(addr)
			respondedMu.Unlock()
			results[i] = vote{participant: addr, commit: resp.VoteCommit, reason: resp.Reason}
		}(i, addr)
	}
	wg.Wait()
	configs.TxnPrint(tx.TransactionID, "voting phase done, %d/%d distinct participants responded",
		responded.Cardinality(), len(uniqueAddrs(tx.Participants)))
	return results
}

// broadcastDecision sends Commit or Abort to every contacted participant,
// including ones that voted ABORT or timed out, since Abort on a
// participant that never reserved anything is a harmless no-op. Failures
// here are logged, never surfaced to the client: the decision is already
// final.
func broadcastDecision(parentCtx context.Context, tx *TX, isCommit bool, deadline time.Duration) {
	phase := configs.AbortPhase
	if isCommit {
		phase = configs.CommitPhase
	}
	var wg sync.WaitGroup
	for _, addr := range tx.Participants {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(parentCtx, deadline)
			defer cancel()
			var resp network.Empty
			var err error
			if isCommit {
				err = network.Call(ctx, addr, phase, network.CommitReq{TransactionID: tx.TransactionID}, &resp)
			} else {
				err = network.Call(ctx, addr, phase, network.AbortReq{TransactionID: tx.TransactionID}, &resp)
			}
			if err != nil {
				configs.TxnPrint(tx.TransactionID, "decision phase delivery to %s failed: %s", addr, err.Error())
			}
		}(addr)
	}
	wg.Wait()
}

func uniqueAddrs(addrs []string) map[string]struct{} {
	out := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		out[a] = struct{}{}
	}
	return out
}

// reasonSummary joins NO-vote reasons by participant id, semicolon
// separated, for the client-facing message on ABORT.
func reasonSummary(votes []vote) string {
	summary := ""
	for _, v := range votes {
		if v.commit {
			continue
		}
		if summary != "" {
			summary += "; "
		}
		summary += fmt.Sprintf("%s: %s", v.participant, v.reason)
	}
	return summary
}

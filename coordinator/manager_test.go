package coordinator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank2pc/configs"
	"bank2pc/network"
	"bank2pc/participant"
)

// testKit spins up n participant servers on loopback ephemeral ports and
// returns a Manager wired to them, plus the raw participant.Server handles
// for state inspection.
func testKit(t *testing.T, n int) (*Manager, []*participant.Server) {
	t.Helper()
	servers := make([]*participant.Server, n)
	addrs := make([]string, n)
	for i := 0; i < n; i++ {
		srv, err := participant.NewServer(nodeName(i), "127.0.0.1:0")
		require.NoError(t, err)
		servers[i] = srv
		addrs[i] = srv.Addr()
		go srv.Serve()
	}
	t.Cleanup(func() {
		for _, s := range servers {
			s.Close()
		}
	})
	m := NewManager(Config{CoordinatorID: "c1", Participants: addrs, Deadline: 2 * time.Second})
	t.Cleanup(func() { m.Close() })
	return m, servers
}

func nodeName(i int) string {
	return string(rune('A' + i))
}

func TestCreateAccountSingleHappyPath(t *testing.T) {
	m, servers := testKit(t, 1)
	resp := m.CreateAccount(context.Background(), network.CreateAccountReq{
		Name: "A", Email: "a@x", InitialBalance: 100,
	})
	require.True(t, resp.Success)

	committed := servers[0].Store().Committed()
	require.Len(t, committed, 1)
	for id, acc := range committed {
		require.Equal(t, "1", id)
		require.Equal(t, "a@x", acc.Email)
	}
}

func TestGetTxOutcomeReflectsCreateAccountDecision(t *testing.T) {
	m, _ := testKit(t, 1)
	resp := m.CreateAccount(context.Background(), network.CreateAccountReq{
		Name: "A", Email: "outcome@x", InitialBalance: 5,
	})
	require.True(t, resp.Success)

	m.mu.Lock()
	var txnID string
	for id := range m.decisions {
		txnID = id
	}
	m.mu.Unlock()
	require.NotEmpty(t, txnID)

	decision, known := m.GetTxOutcome(txnID)
	require.True(t, known)
	require.Equal(t, configs.CommitPhase, decision)

	_, known = m.GetTxOutcome("never-happened")
	require.False(t, known)
}

func TestCreateAccountZeroParticipantsCommits(t *testing.T) {
	m := NewManager(Config{CoordinatorID: "c1", Participants: nil, Deadline: time.Second})
	defer m.Close()
	resp := m.CreateAccount(context.Background(), network.CreateAccountReq{Name: "A", Email: "a@x", InitialBalance: 1})
	require.True(t, resp.Success)
}

func TestCreateAccountCommittedEmailRejectsNewTx(t *testing.T) {
	m, _ := testKit(t, 1)
	first := m.CreateAccount(context.Background(), network.CreateAccountReq{Name: "A", Email: "a@x", InitialBalance: 100})
	require.True(t, first.Success)

	second := m.CreateAccount(context.Background(), network.CreateAccountReq{Name: "A2", Email: "a@x", InitialBalance: 1})
	require.False(t, second.Success)
	require.Contains(t, second.Message, "email exists (committed)")
}

func TestCreateAccountParticipantDownAborts(t *testing.T) {
	m, servers := testKit(t, 2)
	// Take participant 2 down before voting begins.
	require.NoError(t, servers[1].Close())

	resp := m.CreateAccount(context.Background(), network.CreateAccountReq{Name: "B", Email: "b@x", InitialBalance: 50})
	require.False(t, resp.Success)
	require.True(t, strings.Contains(resp.Message, "RPC error") || strings.Contains(resp.Message, "deadline"))

	require.Empty(t, servers[0].Store().Pending())
}

func TestCreateAccountEmailConflictAcrossConcurrentTxs(t *testing.T) {
	m, servers := testKit(t, 2)

	results := make(chan network.CreateAccountResp, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- m.CreateAccount(context.Background(), network.CreateAccountReq{
				Name: "Dup", Email: "dup@x", InitialBalance: 10,
			})
		}()
	}
	r1 := <-results
	r2 := <-results

	successCount := 0
	for _, r := range []network.CreateAccountResp{r1, r2} {
		if r.Success {
			successCount++
		} else {
			require.True(t, strings.Contains(r.Message, "email pending") || strings.Contains(r.Message, "email exists"))
		}
	}
	require.Equal(t, 1, successCount)

	for _, s := range servers {
		count := 0
		for _, acc := range s.Store().Committed() {
			if acc.Email == "dup@x" {
				count++
			}
		}
		require.Equal(t, 1, count)
	}
}

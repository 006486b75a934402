// Package e2e exercises the account-creation protocol across real
// participant.Server and coordinator.Server instances over the actual TCP
// transport, as opposed to the in-process Manager calls in
// coordinator/manager_test.go.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bank2pc/coordinator"
	"bank2pc/network"
	"bank2pc/participant"
)

func startParticipants(t *testing.T, nodeIDs ...string) []*participant.Server {
	t.Helper()
	servers := make([]*participant.Server, len(nodeIDs))
	for i, id := range nodeIDs {
		srv, err := participant.NewServer(id, "127.0.0.1:0")
		require.NoError(t, err)
		servers[i] = srv
		go srv.Serve()
	}
	t.Cleanup(func() {
		for _, s := range servers {
			s.Close()
		}
	})
	return servers
}

func startCoordinator(t *testing.T, participants []*participant.Server) *coordinator.Server {
	t.Helper()
	addrs := make([]string, len(participants))
	for i, p := range participants {
		addrs[i] = p.Addr()
	}
	manager := coordinator.NewManager(coordinator.Config{
		CoordinatorID: "e2e",
		Participants:  addrs,
		Deadline:      2 * time.Second,
	})
	srv, err := coordinator.NewServer("127.0.0.1:0", manager)
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() {
		srv.Close()
		manager.Close()
	})
	return srv
}

func createAccount(t *testing.T, coordAddr string, req network.CreateAccountReq) network.CreateAccountResp {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var resp network.CreateAccountResp
	require.NoError(t, network.Call(ctx, coordAddr, "create_account", req, &resp))
	return resp
}

func TestEndToEndThreeParticipantsHappyPath(t *testing.T) {
	participants := startParticipants(t, "p1", "p2", "p3")
	coord := startCoordinator(t, participants)

	resp := createAccount(t, coord.Addr(), network.CreateAccountReq{
		Name: "Alice", Email: "alice@example.com", InitialBalance: 250,
	})
	require.True(t, resp.Success)
	require.Equal(t, "alice@example.com", resp.Email)

	for _, p := range participants {
		committed := p.Store().Committed()
		require.Len(t, committed, 1)
		require.Empty(t, p.Store().Pending())
	}
}

func TestEndToEndPrepareRetryIsIdempotent(t *testing.T) {
	participants := startParticipants(t, "p1", "p2")
	coord := startCoordinator(t, participants)

	req := network.PrepareReq{TransactionID: "fixed-tx", Name: "Bob", Email: "bob@example.com", InitialBalance: 10}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var first, second network.PrepareResp
	require.NoError(t, network.Call(ctx, participants[0].Addr(), "prepare", req, &first))
	require.NoError(t, network.Call(ctx, participants[0].Addr(), "prepare", req, &second))

	require.True(t, first.VoteCommit)
	require.True(t, second.VoteCommit)
	require.Equal(t, "already prepared", second.Reason)

	_ = coord
}

func TestEndToEndOneParticipantVotesNoAbortsAll(t *testing.T) {
	participants := startParticipants(t, "p1", "p2")
	coord := startCoordinator(t, participants)

	// Pre-seed a committed account on p2 only, so p2 votes NO on the same email.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var prepResp network.PrepareResp
	require.NoError(t, network.Call(ctx, participants[1].Addr(), "prepare", network.PrepareReq{
		TransactionID: "seed-tx", Name: "Seed", Email: "carol@example.com", InitialBalance: 1,
	}, &prepResp))
	require.True(t, prepResp.VoteCommit)
	var commitResp network.Empty
	require.NoError(t, network.Call(ctx, participants[1].Addr(), "commit", network.CommitReq{TransactionID: "seed-tx"}, &commitResp))
	cancel()

	resp := createAccount(t, coord.Addr(), network.CreateAccountReq{
		Name: "Carol", Email: "carol@example.com", InitialBalance: 75,
	})
	require.False(t, resp.Success)

	require.Empty(t, participants[0].Store().Pending())
	require.Empty(t, participants[0].Store().Committed())
}

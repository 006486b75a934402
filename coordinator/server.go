package coordinator

import (
	"context"

	"bank2pc/configs"
	"bank2pc/network"
)

// Server exposes Manager.CreateAccount to clients over the same
// line-oriented transport used between coordinator and participants.
type Server struct {
	manager *Manager
	net     *network.Server
}

// NewServer binds address and wires the single client-facing operation.
func NewServer(address string, manager *Manager) (*Server, error) {
	ns, err := network.NewServer(address)
	if err != nil {
		return nil, err
	}
	s := &Server{manager: manager, net: ns}
	ns.Handle("create_account", func(env network.Envelope) network.Envelope {
		var req network.CreateAccountReq
		configs.CheckError(env.Unpack(&req))
		resp := s.manager.CreateAccount(context.Background(), req)
		out, err := network.Pack("create_account", resp)
		configs.CheckError(err)
		return out
	})
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.net.Addr() }

// Serve blocks accepting client connections until Close is called.
func (s *Server) Serve() error { return s.net.Serve() }

// Close stops the listener.
func (s *Server) Close() error { return s.net.Close() }

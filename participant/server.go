package participant

import (
	"bank2pc/configs"
	"bank2pc/network"
)

// Server binds a Handler to a network.Server, dispatching the prepare,
// commit, and abort message kinds.
type Server struct {
	handler *Handler
	net     *network.Server
}

// NewServer starts listening on address (":PORT") for node nodeID.
func NewServer(nodeID, address string) (*Server, error) {
	ns, err := network.NewServer(address)
	if err != nil {
		return nil, err
	}
	s := &Server{handler: NewHandler(nodeID), net: ns}

	ns.Handle(configs.PreparePhase, func(env network.Envelope) network.Envelope {
		var req network.PrepareReq
		configs.CheckError(env.Unpack(&req))
		resp := s.handler.Prepare(req)
		out, err := network.Pack(configs.PreparePhase, resp)
		configs.CheckError(err)
		return out
	})
	ns.Handle(configs.CommitPhase, func(env network.Envelope) network.Envelope {
		var req network.CommitReq
		configs.CheckError(env.Unpack(&req))
		resp := s.handler.Commit(req)
		out, err := network.Pack(configs.CommitPhase, resp)
		configs.CheckError(err)
		return out
	})
	ns.Handle(configs.AbortPhase, func(env network.Envelope) network.Envelope {
		var req network.AbortReq
		configs.CheckError(env.Unpack(&req))
		resp := s.handler.Abort(req)
		out, err := network.Pack(configs.AbortPhase, resp)
		configs.CheckError(err)
		return out
	})
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.net.Addr() }

// Store exposes the underlying Participant Store, mainly for tests.
func (s *Server) Store() *Store { return s.handler.Store }

// Serve blocks accepting connections until Close is called.
func (s *Server) Serve() error { return s.net.Serve() }

// Close stops the listener.
func (s *Server) Close() error { return s.net.Close() }

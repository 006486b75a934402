package network

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"bank2pc/configs"
)

// ErrDeadlineExceeded is returned by Call when no reply arrives before ctx is done.
var ErrDeadlineExceeded = errors.New("network: deadline exceeded")

// Server is a line-oriented TCP listener that dispatches each inbound
// Envelope to a registered handler and writes back the handler's Envelope
// reply on the same connection. Accept-loop parallelism is bounded by a
// semaphore.
type Server struct {
	listener net.Listener
	sem      chan struct{}
	handlers map[string]func(Envelope) Envelope
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewServer binds address and prepares the dispatch table. Handlers must be
// registered via Handle before Serve is called.
func NewServer(address string) (*Server, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: l,
		sem:      make(chan struct{}, configs.MaxConnectionHandler),
		handlers: make(map[string]func(Envelope) Envelope),
		done:     make(chan struct{}),
	}, nil
}

// Handle registers the handler invoked for envelopes tagged kind.
func (s *Server) Handle(kind string, fn func(Envelope) Envelope) {
	s.handlers[kind] = fn
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until Close is called.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
				return err
			}
		}
		s.sem <- struct{}{}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			return
		}
		fn, ok := s.handlers[env.Kind]
		if !ok {
			return
		}
		reply := fn(env)
		out, err := json.Marshal(reply)
		if err != nil {
			return
		}
		out = append(out, '\n')
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

// Close stops accepting and waits for in-flight handlers to drain. Closing an
// already closed Server returns nil.
func (s *Server) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

// Call dials address, sends one request envelope, and waits for one reply
// envelope or ctx's deadline, whichever comes first. One connection per call
// keeps the per-RPC deadline exact without needing a connection pool's own
// timeout bookkeeping.
func Call(ctx context.Context, address string, kind string, req interface{}, resp interface{}) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout(ctx))
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return err
	}
	defer conn.Close()

	env, err := Pack(kind, req)
	if err != nil {
		return err
	}
	out, err := json.Marshal(env)
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		if _, err := conn.Write(out); err != nil {
			ch <- result{err: err}
			return
		}
		line, err := bufio.NewReader(conn).ReadBytes('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return ErrDeadlineExceeded
	case r := <-ch:
		if r.err != nil {
			return r.err
		}
		var replyEnv Envelope
		if err := json.Unmarshal(r.line, &replyEnv); err != nil {
			return err
		}
		return replyEnv.Unpack(resp)
	}
}

func dialTimeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 && d < configs.DialTimeout {
			return d
		}
	}
	return configs.DialTimeout
}

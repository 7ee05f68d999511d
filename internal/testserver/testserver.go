// Package testserver provides a scriptable in-process RESP server used by
// the driver's tests. Each accepted connection reads command frames and
// answers them through a handler supplied by the test, so connection and
// discovery scenarios (stale roles, dropped peers, unknown services) can
// be staged deterministically without a real Redis deployment.
package testserver

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// Request is one decoded inbound command.
type Request struct {
	Verb string   // upper-cased
	Args []string // remaining tokens, in order
}

// Arg returns the i-th argument or "" when absent.
func (r Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return r.Args[i]
}

// Response describes what the server does with one request.
type Response struct {
	Value protocol.Value

	// Drop suppresses the reply entirely
	Drop bool

	// CloseAfter closes the connection once the reply (if any) went out
	CloseAfter bool
}

// Handler produces the response for one request. Handlers run on the
// connection's goroutine; state shared across connections needs the
// test's own synchronization.
type Handler func(req Request) Response

// Server is a minimal RESP server bound to a loopback port.
type Server struct {
	listener net.Listener
	handler  Handler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	accepted int
}

// Start listens on an ephemeral loopback port and serves with the given
// handler until Close.
func Start(handler Handler) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		listener: listener,
		handler:  handler,
		ctx:      ctx,
		cancel:   cancel,
	}

	s.wg.Add(1)
	go s.acceptLoop()

	return s, nil
}

// Close stops accepting and tears down the listener.
func (s *Server) Close() {
	s.cancel()
	s.listener.Close()
	s.wg.Wait()
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the listen host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Addr())
	return host
}

// Port returns the listen port.
func (s *Server) Port() int {
	_, portStr, _ := net.SplitHostPort(s.Addr())
	port, _ := strconv.Atoi(portStr)
	return port
}

// Accepted returns how many connections the server has accepted.
func (s *Server) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				continue
			}
		}

		s.mu.Lock()
		s.accepted++
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	reader := protocol.NewReader(conn)
	writer := protocol.NewWriter(conn)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		value, err := reader.ReadNext()
		if err != nil {
			return
		}

		req, err := parseRequest(value)
		if err != nil {
			_ = writer.WriteValue(Err("ERR " + err.Error()))
			_ = writer.Flush()
			continue
		}

		resp := s.handler(req)
		if !resp.Drop {
			if err := writer.WriteValue(resp.Value); err != nil {
				return
			}
			if err := writer.Flush(); err != nil {
				return
			}
		}
		if resp.CloseAfter {
			return
		}
	}
}

// parseRequest converts an inbound array-of-bulk-strings frame.
func parseRequest(v protocol.Value) (Request, error) {
	if v.Type != protocol.TypeArray || len(v.Array) == 0 {
		return Request{}, fmt.Errorf("invalid command format")
	}

	req := Request{
		Verb: strings.ToUpper(string(v.Array[0].Data)),
		Args: make([]string, len(v.Array)-1),
	}
	for i := 1; i < len(v.Array); i++ {
		if v.Array[i].Type != protocol.TypeBulkString {
			return Request{}, fmt.Errorf("command arguments must be bulk strings")
		}
		req.Args[i-1] = string(v.Array[i].Data)
	}
	return req, nil
}

// Reply helpers for readable handler tables.

// OK is the simple-string OK reply.
func OK() Response {
	return Respond(Simple("OK"))
}

// Respond wraps a value in a plain reply.
func Respond(v protocol.Value) Response {
	return Response{Value: v}
}

// Simple builds a simple-string value.
func Simple(s string) protocol.Value {
	return protocol.Value{Type: protocol.TypeSimpleString, Data: []byte(s)}
}

// Bulk builds a bulk-string value.
func Bulk(s string) protocol.Value {
	return protocol.Value{Type: protocol.TypeBulkString, Data: []byte(s)}
}

// Int builds an integer value.
func Int(n int64) protocol.Value {
	return protocol.Value{Type: protocol.TypeInteger, Integer: n}
}

// Err builds an error value.
func Err(msg string) protocol.Value {
	return protocol.Value{Type: protocol.TypeError, Data: []byte(msg)}
}

// NullBulk builds the RESP2 null bulk string.
func NullBulk() protocol.Value {
	return protocol.Value{Type: protocol.TypeBulkString, IsNull: true}
}

// Array builds an array value.
func Array(elems ...protocol.Value) protocol.Value {
	return protocol.Value{Type: protocol.TypeArray, Array: elems}
}

// MasterRole builds a ROLE reply for a master with no attached replicas.
func MasterRole(offset int64) protocol.Value {
	return Array(Bulk("master"), Int(offset), Array())
}

// ReplicaRole builds a ROLE reply for a replica of the given master.
func ReplicaRole(masterHost string, masterPort int, state string, offset int64) protocol.Value {
	return Array(Bulk("slave"), Bulk(masterHost), Int(int64(masterPort)), Bulk(state), Int(offset))
}

// MasterAddr builds a get-master-addr-by-name reply.
func MasterAddr(host string, port int) protocol.Value {
	return Array(Bulk(host), Bulk(strconv.Itoa(port)))
}

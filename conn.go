package redisclient

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// ConnState is the connection lifecycle state.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateAuthenticating
	StateSelectingDatabase
	StateReady
	StateReconnecting
	StateFailed
)

// String returns a human-readable rendering of the state
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSelectingDatabase:
		return "selecting-database"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Conn is a single client connection to a Redis server. It owns exactly
// one live transport and the configuration used to (re)establish it.
//
// A Conn is not safe for concurrent use: exactly one command may be
// outstanding at a time, and callers must serialize all access. Concurrency
// across logical operations requires independent connections or an external
// pooling layer.
type Conn struct {
	cfg *config

	conn   net.Conn
	reader *protocol.Reader
	writer *protocol.Writer
	state  ConnState

	logger  Logger
	metrics MetricsCollector
}

// Connect establishes a connection per the supplied options: it opens the
// transport (resolving the master through sentinels for a monitored
// topology), authenticates when a credential is configured, and selects
// the configured logical database. Any handshake failure aborts without
// retry.
func Connect(opts ...Option) (*Conn, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Conn{
		cfg:     cfg,
		state:   StateDisconnected,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}

	if err := c.establish(); err != nil {
		c.state = StateFailed
		return nil, err
	}

	return c, nil
}

// State returns the current lifecycle state.
func (c *Conn) State() ConnState {
	return c.state
}

// RemoteAddr returns the address of the live transport, or "" when
// disconnected.
func (c *Conn) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// Reconnect discards the current transport entirely, dials a fresh one
// against the same configuration and replays the full handshake. The old
// stream is never reused or drained.
func (c *Conn) Reconnect() error {
	c.state = StateReconnecting
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	if err := c.establish(); err != nil {
		c.state = StateFailed
		return err
	}

	c.metrics.RecordReconnection()
	return nil
}

// Close tears down the transport. The Conn may be revived with Reconnect.
func (c *Conn) Close() error {
	c.state = StateDisconnected
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Write serializes and flushes exactly one command frame. A write against
// a peer-closed stream fails explicitly.
func (c *Conn) Write(cmd *protocol.Command) error {
	if c.conn == nil {
		return &ClientError{Message: "write on closed connection", Err: ErrNotConnected}
	}

	c.logger.Debug("Sending command", F("command", cmd.String()))

	if err := c.writer.WriteCommand(cmd); err != nil {
		c.metrics.RecordError("write")
		return &TransportError{Addr: c.RemoteAddr(), Err: err}
	}
	if err := c.writer.Flush(); err != nil {
		c.metrics.RecordError("write")
		return &TransportError{Addr: c.RemoteAddr(), Err: err}
	}
	return nil
}

// Read blocks until the next fully decoded reply arrives. When the peer
// closes the stream without sending one it returns io.EOF.
func (c *Conn) Read() (protocol.Value, error) {
	if c.conn == nil {
		return protocol.Value{}, &ClientError{Message: "read on closed connection", Err: ErrNotConnected}
	}

	v, err := c.reader.ReadNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return protocol.Value{}, io.EOF
		}
		c.metrics.RecordError("read")
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return protocol.Value{}, &TransportError{Addr: c.RemoteAddr(), Err: err}
		}
		return protocol.Value{}, &ProtocolError{Message: "malformed reply frame", Err: err}
	}

	c.logger.Debug("Received reply", F("reply", v.Summary()))
	return v, nil
}

// Send performs one command-in/one-reply-out exchange. End of stream is
// reported as a "disconnected by peer" failure and an error reply is
// surfaced as a *ServerError, never returned as data. A failed Send leaves
// the connection state indeterminate; callers should discard the
// connection or Reconnect explicitly.
func (c *Conn) Send(cmd *protocol.Command) (protocol.Value, error) {
	start := time.Now()

	if err := c.Write(cmd); err != nil {
		return protocol.Value{}, err
	}

	v, err := c.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.metrics.RecordError("disconnected")
			return protocol.Value{}, &ClientError{Message: "no reply", Err: ErrDisconnected}
		}
		return protocol.Value{}, err
	}

	c.metrics.RecordCommand(cmd.Verb(), time.Since(start))

	if v.IsError() {
		c.metrics.RecordError("server")
		return protocol.Value{}, &ServerError{Message: v.ErrorMessage()}
	}

	return v, nil
}

// establish runs the full connect sequence: open a transport per the
// configured topology, then authenticate and select the database.
func (c *Conn) establish() error {
	c.state = StateConnecting

	if c.cfg.sentinel != nil {
		master, err := c.discoverMaster(c.cfg.sentinel)
		if err != nil {
			return err
		}
		c.adopt(master.conn, master.reader, master.writer)
	} else {
		nc, err := dialEndpoint(*c.cfg.addr, c.cfg.tlsConfig)
		if err != nil {
			c.metrics.RecordError("connect")
			return &TransportError{Addr: c.cfg.addr.Addr(), Err: err}
		}
		c.adopt(nc, nil, nil)
	}

	if err := c.handshake(); err != nil {
		c.conn.Close()
		c.conn = nil
		return err
	}

	c.state = StateReady
	c.metrics.RecordConnect()
	c.logger.Info("Connected", F("addr", c.RemoteAddr()))
	return nil
}

// adopt installs a fresh transport. Reader and writer are rebound so no
// bytes from a previous transport generation survive.
func (c *Conn) adopt(nc net.Conn, reader *protocol.Reader, writer *protocol.Writer) {
	c.conn = nc

	if reader != nil {
		// Transport handed over from a discovery connection; keep its
		// reader so already-buffered bytes are not lost.
		c.reader = reader
		c.writer = writer
		return
	}

	if c.reader == nil {
		c.reader = protocol.NewReader(nc)
		c.writer = protocol.NewWriter(nc)
	} else {
		c.reader.Reset(nc)
		c.writer.Reset(nc)
	}
}

// handshake authenticates and selects the logical database when the
// configuration asks for either. Failures abort, without retry.
func (c *Conn) handshake() error {
	if c.cfg.password != "" {
		c.state = StateAuthenticating
		if err := c.auth(c.cfg.username, c.cfg.password); err != nil {
			c.metrics.RecordError("auth")
			return err
		}
	}

	if c.cfg.database != 0 {
		c.state = StateSelectingDatabase
		if err := c.selectDatabase(c.cfg.database); err != nil {
			c.metrics.RecordError("select")
			return err
		}
	}

	return nil
}

// dialEndpoint opens the transport: plain TCP, or TLS when a TLS
// configuration is supplied. No client-side timeout is applied at this
// layer; an unreachable endpoint blocks until the OS-level dial fails.
func dialEndpoint(ep Endpoint, tlsConfig *tls.Config) (net.Conn, error) {
	if tlsConfig != nil {
		return tls.Dial("tcp", ep.Addr(), tlsConfig)
	}
	return net.Dial("tcp", ep.Addr())
}

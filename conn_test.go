package redisclient

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raniellyferreira/redis-wire-client/internal/testserver"
	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// commandLog records every request a test server sees.
type commandLog struct {
	mu   sync.Mutex
	seen []string
}

func (l *commandLog) add(req testserver.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := req.Verb
	for _, a := range req.Args {
		line += " " + a
	}
	l.seen = append(l.seen, line)
}

func (l *commandLog) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.seen...)
}

func (l *commandLog) count(verb string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.seen {
		if len(line) >= len(verb) && line[:len(verb)] == verb {
			n++
		}
	}
	return n
}

// okHandler answers the handshake commands and PING; everything else is an
// error reply.
func okHandler(log *commandLog) testserver.Handler {
	return func(req testserver.Request) testserver.Response {
		if log != nil {
			log.add(req)
		}
		switch req.Verb {
		case "AUTH", "SELECT":
			return testserver.OK()
		case "PING":
			return testserver.Respond(testserver.Simple("PONG"))
		default:
			return testserver.Respond(testserver.Err("ERR unknown command '" + req.Verb + "'"))
		}
	}
}

func TestConnectPlain(t *testing.T) {
	srv, err := testserver.Start(okHandler(nil))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, StateReady, conn.State())
	assert.Equal(t, srv.Addr(), conn.RemoteAddr())
	assert.NoError(t, conn.Ping())
}

func TestConnectHandshakeOrder(t *testing.T) {
	var log commandLog
	srv, err := testserver.Start(okHandler(&log))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(
		WithAddr(srv.Host(), srv.Port()),
		WithAuth("admin", "secret"),
		WithDatabase(3),
	)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, []string{"AUTH admin secret", "SELECT 3"}, log.lines())
	assert.Equal(t, StateReady, conn.State())
}

func TestConnectSkipsHandshakeWhenNotConfigured(t *testing.T) {
	var log commandLog
	srv, err := testserver.Start(okHandler(&log))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	assert.Empty(t, log.lines())
}

func TestConnectAuthFailureAborts(t *testing.T) {
	srv, err := testserver.Start(func(req testserver.Request) testserver.Response {
		return testserver.Respond(testserver.Err("WRONGPASS invalid username-password pair"))
	})
	require.NoError(t, err)
	defer srv.Close()

	_, err = Connect(WithAddr(srv.Host(), srv.Port()), WithAuth("", "bad"))
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "WRONGPASS invalid username-password pair", serverErr.Message)
}

func TestConnectRefusedEndpoint(t *testing.T) {
	srv, err := testserver.Start(okHandler(nil))
	require.NoError(t, err)
	host, port := srv.Host(), srv.Port()
	srv.Close()

	_, err = Connect(WithAddr(host, port))
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestSendServerErrorIsNeverData(t *testing.T) {
	srv, err := testserver.Start(okHandler(nil))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Send(protocol.NewCommand("BOGUS"))
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "ERR unknown command 'BOGUS'", serverErr.Message)
}

func TestSendReportsDisconnectedByPeer(t *testing.T) {
	srv, err := testserver.Start(func(req testserver.Request) testserver.Response {
		// Close without replying: the peer vanishes mid-read.
		return testserver.Response{Drop: true, CloseAfter: true}
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Send(protocol.NewCommand("PING"))
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.True(t, errors.Is(err, ErrDisconnected))
}

func TestWriteOnClosedConnectionFails(t *testing.T) {
	srv, err := testserver.Start(okHandler(nil))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	err = conn.Write(protocol.NewCommand("PING"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConnected))
}

func TestReconnectReplaysHandshake(t *testing.T) {
	var log commandLog
	srv, err := testserver.Start(okHandler(&log))
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(
		WithAddr(srv.Host(), srv.Port()),
		WithAuth("", "secret"),
		WithDatabase(2),
	)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Reconnect())

	assert.Equal(t, 2, srv.Accepted(), "reconnect must dial a fresh transport")
	assert.Equal(t, 2, log.count("AUTH"), "reconnect must replay authentication")
	assert.Equal(t, 2, log.count("SELECT"), "reconnect must replay database selection")
	assert.Equal(t, StateReady, conn.State())
	assert.NoError(t, conn.Ping())
}

func TestCommandHelpers(t *testing.T) {
	store := map[string]string{}
	var mu sync.Mutex

	srv, err := testserver.Start(func(req testserver.Request) testserver.Response {
		mu.Lock()
		defer mu.Unlock()
		switch req.Verb {
		case "SET":
			store[req.Arg(0)] = req.Arg(1)
			return testserver.OK()
		case "GET":
			v, ok := store[req.Arg(0)]
			if !ok {
				return testserver.Respond(testserver.NullBulk())
			}
			return testserver.Respond(testserver.Bulk(v))
		case "DEL":
			n := int64(0)
			for _, k := range req.Args {
				if _, ok := store[k]; ok {
					delete(store, k)
					n++
				}
			}
			return testserver.Respond(testserver.Int(n))
		case "ECHO":
			return testserver.Respond(testserver.Bulk(req.Arg(0)))
		default:
			return testserver.Respond(testserver.Err("ERR unknown command"))
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Set("k", []byte("v")))

	val, found, err := conn.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), val)

	_, found, err = conn.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	echoed, err := conn.Echo("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", echoed)

	n, err := conn.Del("k", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHashCommands(t *testing.T) {
	hash := map[string]string{}
	order := []string{}
	var mu sync.Mutex

	srv, err := testserver.Start(func(req testserver.Request) testserver.Response {
		mu.Lock()
		defer mu.Unlock()
		switch req.Verb {
		case "HSET":
			created := int64(0)
			for i := 1; i+1 < len(req.Args); i += 2 {
				field, value := req.Arg(i), req.Arg(i+1)
				if _, ok := hash[field]; !ok {
					created++
					order = append(order, field)
				}
				hash[field] = value
			}
			return testserver.Respond(testserver.Int(created))
		case "HGET":
			v, ok := hash[req.Arg(1)]
			if !ok {
				return testserver.Respond(testserver.NullBulk())
			}
			return testserver.Respond(testserver.Bulk(v))
		case "HGETALL":
			elems := make([]protocol.Value, 0, 2*len(order))
			for _, f := range order {
				elems = append(elems, testserver.Bulk(f), testserver.Bulk(hash[f]))
			}
			return testserver.Respond(testserver.Array(elems...))
		case "HDEL":
			n := int64(0)
			for _, f := range req.Args[1:] {
				if _, ok := hash[f]; ok {
					delete(hash, f)
					n++
				}
			}
			return testserver.Respond(testserver.Int(n))
		case "HEXISTS":
			if _, ok := hash[req.Arg(1)]; ok {
				return testserver.Respond(testserver.Int(1))
			}
			return testserver.Respond(testserver.Int(0))
		case "HLEN":
			return testserver.Respond(testserver.Int(int64(len(hash))))
		default:
			return testserver.Respond(testserver.Err("ERR unknown command"))
		}
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	created, err := conn.HSet("h", protocol.StringPairs("f1", "v1", "f2", "v2"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	v, found, err := conn.HGet("h", "f1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v1"), v)

	all, err := conn.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "v2"}, all)

	exists, err := conn.HExists("h", "f2")
	require.NoError(t, err)
	assert.True(t, exists)

	length, err := conn.HLen("h")
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	removed, err := conn.HDel("h", "f1", "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestHGetAllAcceptsMapReply(t *testing.T) {
	srv, err := testserver.Start(func(req testserver.Request) testserver.Response {
		return testserver.Respond(protocol.Value{
			Type: protocol.TypeMap,
			Map: []protocol.MapEntry{
				{Key: testserver.Bulk("f1"), Value: testserver.Bulk("v1")},
				{Key: testserver.Bulk("f2"), Value: testserver.Bulk("v2")},
			},
		})
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := Connect(WithAddr(srv.Host(), srv.Port()))
	require.NoError(t, err)
	defer conn.Close()

	all, err := conn.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "v1", "f2": "v2"}, all)
}

func TestConfigValidation(t *testing.T) {
	_, err := Connect(WithAddr("", 6379))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Connect(WithDatabase(-1))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Connect(WithSentinel(SentinelConfig{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Connect(WithLogger(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

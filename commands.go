package redisclient

import (
	"strconv"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// This file carries the command helpers the driver itself needs (handshake,
// discovery) plus a small general-purpose surface used by the CLI and
// tests. The full per-operation command catalog is deliberately out of
// scope; anything not covered here can be sent through Send with a
// hand-built protocol.Command.

// auth sends AUTH with the configured credential. An empty username
// selects the legacy single-argument form.
func (c *Conn) auth(username, password string) error {
	cmd := protocol.NewCommand("AUTH")
	if username != "" {
		cmd.Arg(protocol.String(username))
	}
	cmd.Arg(protocol.String(password))

	_, err := c.Send(cmd)
	return err
}

// selectDatabase sends SELECT for a non-default logical database.
func (c *Conn) selectDatabase(db int) error {
	_, err := c.Send(protocol.NewCommand("SELECT", protocol.Int(db)))
	return err
}

// Ping checks connection liveness.
func (c *Conn) Ping() error {
	_, err := c.Send(protocol.NewCommand("PING"))
	return err
}

// Echo returns the message sent, round-tripped through the server.
func (c *Conn) Echo(msg string) (string, error) {
	v, err := c.Send(protocol.NewCommand("ECHO", protocol.String(msg)))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Set stores a key.
func (c *Conn) Set(key string, value []byte) error {
	_, err := c.Send(protocol.NewCommand("SET", protocol.String(key), protocol.Bytes(value)))
	return err
}

// Get fetches a key. The second return value reports whether the key exists.
func (c *Conn) Get(key string) ([]byte, bool, error) {
	v, err := c.Send(protocol.NewCommand("GET", protocol.String(key)))
	if err != nil {
		return nil, false, err
	}
	if v.IsNull {
		return nil, false, nil
	}
	return v.Bytes(), true, nil
}

// Del removes keys and returns how many existed.
func (c *Conn) Del(keys ...string) (int64, error) {
	v, err := c.Send(protocol.NewCommand("DEL", protocol.Strings(keys...)))
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// HSet sets hash fields from an ordered field/value list and returns the
// number of fields newly created.
func (c *Conn) HSet(key string, fields protocol.MapArgs[protocol.StringArg, protocol.StringArg]) (int64, error) {
	v, err := c.Send(protocol.NewCommand("HSET", protocol.String(key), fields))
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// HGet fetches one hash field. The second return value reports existence.
func (c *Conn) HGet(key, field string) ([]byte, bool, error) {
	v, err := c.Send(protocol.NewCommand("HGET", protocol.String(key), protocol.String(field)))
	if err != nil {
		return nil, false, err
	}
	if v.IsNull {
		return nil, false, nil
	}
	return v.Bytes(), true, nil
}

// HGetAll fetches every field of a hash. Both the RESP3 map shape and the
// RESP2 flat-array shape are accepted.
func (c *Conn) HGetAll(key string) (map[string]string, error) {
	v, err := c.Send(protocol.NewCommand("HGETALL", protocol.String(key)))
	if err != nil {
		return nil, err
	}

	result := make(map[string]string)
	switch v.Type {
	case protocol.TypeMap:
		for _, e := range v.Map {
			result[e.Key.String()] = e.Value.String()
		}
	case protocol.TypeArray:
		if len(v.Array)%2 != 0 {
			return nil, &ProtocolError{Message: "HGETALL array reply has odd length"}
		}
		for i := 0; i < len(v.Array); i += 2 {
			result[v.Array[i].String()] = v.Array[i+1].String()
		}
	default:
		return nil, &ProtocolError{Message: "HGETALL reply is neither map nor array"}
	}
	return result, nil
}

// HDel removes hash fields and returns how many existed.
func (c *Conn) HDel(key string, fields ...string) (int64, error) {
	v, err := c.Send(protocol.NewCommand("HDEL", protocol.String(key), protocol.Strings(fields...)))
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// HExists reports whether a hash field exists.
func (c *Conn) HExists(key, field string) (bool, error) {
	v, err := c.Send(protocol.NewCommand("HEXISTS", protocol.String(key), protocol.String(field)))
	if err != nil {
		return false, err
	}
	if v.Type == protocol.TypeBoolean {
		return v.Bool, nil
	}
	return v.Int() == 1, nil
}

// HLen returns the number of fields in a hash.
func (c *Conn) HLen(key string) (int64, error) {
	v, err := c.Send(protocol.NewCommand("HLEN", protocol.String(key)))
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// Role queries the server's replication role.
func (c *Conn) Role() (Role, error) {
	v, err := c.Send(protocol.NewCommand("ROLE"))
	if err != nil {
		return Role{}, err
	}
	return parseRole(v)
}

// SentinelGetMasterAddrByName asks a sentinel for the current master
// address of a monitored service. A nil endpoint with nil error means the
// sentinel does not know the service.
func (c *Conn) SentinelGetMasterAddrByName(serviceName string) (*Endpoint, error) {
	v, err := c.Send(protocol.NewCommand("SENTINEL",
		protocol.String("get-master-addr-by-name"), protocol.String(serviceName)))
	if err != nil {
		return nil, err
	}

	if v.IsNull {
		return nil, nil
	}
	if v.Type != protocol.TypeArray || len(v.Array) != 2 {
		return nil, &ProtocolError{Message: "malformed get-master-addr-by-name reply"}
	}

	port, err := strconv.Atoi(v.Array[1].String())
	if err != nil {
		return nil, &ProtocolError{Message: "malformed master port in sentinel reply", Err: err}
	}

	return &Endpoint{Host: v.Array[0].String(), Port: port}, nil
}

package redisclient

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"

	luaparse "github.com/yuin/gopher-lua/parse"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// Script is a client-side handle for a server-evaluated Lua script: the
// source, its SHA1 digest, and an optional local syntax check so obviously
// broken scripts are rejected before a round trip.
type Script struct {
	source string
	sha1   string
}

// NewScript creates a script handle and computes its digest.
func NewScript(source string) *Script {
	sum := sha1.Sum([]byte(source))
	return &Script{
		source: source,
		sha1:   hex.EncodeToString(sum[:]),
	}
}

// Source returns the script source.
func (s *Script) Source() string {
	return s.source
}

// Sha1 returns the hex SHA1 digest the server caches the script under.
func (s *Script) Sha1() string {
	return s.sha1
}

// Check parses the script locally with the same grammar the server's Lua
// interpreter uses. It catches syntax errors without a server round trip;
// runtime errors are still only discovered on evaluation.
func (s *Script) Check() error {
	_, err := luaparse.Parse(strings.NewReader(s.source), "script")
	if err != nil {
		return &ClientError{Message: "script failed local syntax check", Err: err}
	}
	return nil
}

// EvalOn evaluates the script on a connection, trying the cached digest
// first and falling back to shipping the full source when the server
// replies NOSCRIPT.
func (s *Script) EvalOn(c *Conn, keys []string, args ...protocol.Arg) (protocol.Value, error) {
	v, err := c.EvalSha(s.sha1).Keys(keys...).Args(args...).Run()
	if err == nil {
		return v, nil
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) && strings.HasPrefix(serverErr.Message, "NOSCRIPT") {
		return c.Eval(s.source).Keys(keys...).Args(args...).Run()
	}
	return protocol.Value{}, err
}

package redisclient

import (
	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// EvalBuilder assembles an EVAL/EVALSHA command incrementally. The wire
// form requires a key-count field between the script and the first
// argument; the builder inserts it exactly once: either when keys are
// declared, or as an explicit zero when arguments arrive with no keys
// declared.
type EvalBuilder struct {
	conn      *Conn
	cmd       *protocol.Command
	keysAdded bool
}

// Eval starts an EVAL command for a script source.
func (c *Conn) Eval(script string) *EvalBuilder {
	return &EvalBuilder{
		conn: c,
		cmd:  protocol.NewCommand("EVAL", protocol.String(script)),
	}
}

// EvalSha starts an EVALSHA command for a cached script digest.
func (c *Conn) EvalSha(sha1 string) *EvalBuilder {
	return &EvalBuilder{
		conn: c,
		cmd:  protocol.NewCommand("EVALSHA", protocol.String(sha1)),
	}
}

// Keys declares the keys the script accesses. The key-count field is
// written immediately, followed by the keys themselves, ahead of any
// non-key arguments.
func (b *EvalBuilder) Keys(keys ...string) *EvalBuilder {
	list := protocol.Strings(keys...)
	b.cmd.Arg(protocol.Int(list.NumArgs())).Arg(list)
	b.keysAdded = true
	return b
}

// Args appends non-key script arguments. If no keys were ever declared the
// explicit zero key-count field is written first; once any key-count field
// exists it is never re-inserted.
func (b *EvalBuilder) Args(args ...protocol.Arg) *EvalBuilder {
	if !b.keysAdded {
		// numkeys = 0
		b.cmd.Arg(protocol.Int(0))
		b.keysAdded = true
	}
	for _, a := range args {
		b.cmd.Arg(a)
	}
	return b
}

// Command finalizes the frame without sending it. A builder that never saw
// Keys or Args still emits the explicit zero key-count field.
func (b *EvalBuilder) Command() *protocol.Command {
	if !b.keysAdded {
		b.cmd.Arg(protocol.Int(0))
		b.keysAdded = true
	}
	return b.cmd
}

// Run sends the assembled command and returns the raw reply value.
func (b *EvalBuilder) Run() (protocol.Value, error) {
	return b.conn.Send(b.Command())
}

// ScriptLoad loads a script into the server's script cache without
// executing it and returns the SHA1 digest under which it was cached.
func (c *Conn) ScriptLoad(script string) (string, error) {
	v, err := c.Send(protocol.NewCommand("SCRIPT",
		protocol.String("LOAD"), protocol.String(script)))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

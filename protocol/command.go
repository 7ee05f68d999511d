package protocol

import "strings"

// Command is an outbound verb plus its ordered argument list. Commands are
// built incrementally and only ever grow; arguments are never removed.
type Command struct {
	verb string
	args CommandArgs
}

// NewCommand creates a command for the given verb.
func NewCommand(verb string, args ...Arg) *Command {
	c := &Command{verb: verb}
	for _, a := range args {
		a.WriteArgs(&c.args)
	}
	return c
}

// Arg appends a serializable value and returns the command for chaining.
func (c *Command) Arg(a Arg) *Command {
	a.WriteArgs(&c.args)
	return c
}

// Verb returns the command verb.
func (c *Command) Verb() string {
	return c.verb
}

// Args returns the command's raw argument list.
func (c *Command) Args() *CommandArgs {
	return &c.args
}

// ArgCount returns the number of raw arguments appended so far.
func (c *Command) ArgCount() int {
	return c.args.Len()
}

// String renders the command for logging. Arguments are rendered as-is;
// binary payloads may not be printable.
func (c *Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.verb)
	for _, item := range c.args.items {
		sb.WriteByte(' ')
		sb.Write(item)
	}
	return sb.String()
}

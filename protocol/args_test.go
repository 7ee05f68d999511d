package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// collect writes an arg and returns the produced raw tokens as strings.
func collect(a protocol.Arg) []string {
	var args protocol.CommandArgs
	a.WriteArgs(&args)
	out := make([]string, 0, args.Len())
	for _, item := range args.Items() {
		out = append(out, string(item))
	}
	return out
}

func TestNumArgsMatchesWrittenArgs(t *testing.T) {
	tests := []struct {
		name string
		arg  protocol.Arg
	}{
		{"int", protocol.Int(42)},
		{"negative int", protocol.Int(int8(-7))},
		{"uint", protocol.Uint(uint16(65535))},
		{"float", protocol.Float(3.5)},
		{"bool", protocol.Bool(true)},
		{"bytes", protocol.Bytes([]byte{0, 1, 2})},
		{"empty bytes", protocol.Bytes(nil)},
		{"string", protocol.String("hello")},
		{"none", protocol.None[protocol.StringArg]()},
		{"some", protocol.Some(protocol.Int(1))},
		{"some single", protocol.SomeSingle(protocol.String("x"))},
		{"none single", protocol.NoneSingle[protocol.IntArg]()},
		{"list of ints", protocol.List[protocol.IntArg]{1, 2, 3}},
		{"list of optionals", protocol.List[protocol.Optional[protocol.IntArg]]{
			protocol.Some(protocol.Int(1)),
			protocol.None[protocol.IntArg](),
			protocol.Some(protocol.Int(3)),
		}},
		{"single list", protocol.Strings("a", "b", "c")},
		{"empty single list", protocol.Strings()},
		{"map", protocol.StringPairs("f1", "v1", "f2", "v2")},
		{"pair", protocol.Pair[protocol.StringArg, protocol.IntArg]{First: "min", Second: 10}},
		{"triple", protocol.Triple[protocol.StringArg, protocol.IntArg, protocol.BoolArg]{
			First: "a", Second: 1, Third: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			produced := collect(tt.arg)
			assert.Equal(t, tt.arg.NumArgs(), len(produced),
				"NumArgs must equal the number of raw arguments actually written")
		})
	}
}

func TestScalarFormatting(t *testing.T) {
	tests := []struct {
		name     string
		arg      protocol.Arg
		expected []string
	}{
		{"zero int", protocol.Int(0), []string{"0"}},
		{"negative int", protocol.Int(-7), []string{"-7"}},
		{"max-width int", protocol.Int(int64(9223372036854775807)), []string{"9223372036854775807"}},
		{"uint", protocol.Uint(uint64(18446744073709551615)), []string{"18446744073709551615"}},
		{"true", protocol.Bool(true), []string{"1"}},
		{"false", protocol.Bool(false), []string{"0"}},
		{"float", protocol.Float(3.5), []string{"3.5"}},
		{"float fraction", protocol.Float(0.1), []string{"0.1"}},
		{"float integral", protocol.Float(float32(2)), []string{"2"}},
		{"string", protocol.String("hello"), []string{"hello"}},
		{"empty string", protocol.String(""), []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, collect(tt.arg))
		})
	}
}

func TestBytesAreBinarySafeAndCopied(t *testing.T) {
	src := []byte{'a', 0, '\r', '\n', 0, 'b'}

	var args protocol.CommandArgs
	protocol.Bytes(src).WriteArgs(&args)

	// Mutating the source afterwards must not leak into the stored arg.
	src[0] = 'X'

	require.Equal(t, 1, args.Len())
	assert.Equal(t, []byte{'a', 0, '\r', '\n', 0, 'b'}, args.Items()[0])
}

func TestOptionalProducesZeroOrOne(t *testing.T) {
	assert.Empty(t, collect(protocol.None[protocol.StringArg]()))
	assert.Equal(t, []string{"present"}, collect(protocol.Some(protocol.String("present"))))
}

func TestMapWritesKeyThenValuePerEntry(t *testing.T) {
	m := protocol.StringPairs("f1", "v1", "f2", "v2")
	assert.Equal(t, []string{"f1", "v1", "f2", "v2"}, collect(m))
	assert.Equal(t, 4, m.NumArgs())
}

func TestTupleWritesFieldsLeftToRight(t *testing.T) {
	p := protocol.Pair[protocol.StringArg, protocol.IntArg]{First: "LIMIT", Second: 10}
	assert.Equal(t, []string{"LIMIT", "10"}, collect(p))

	tr := protocol.Triple[protocol.StringArg, protocol.IntArg, protocol.IntArg]{
		First: "range", Second: 0, Third: -1,
	}
	assert.Equal(t, []string{"range", "0", "-1"}, collect(tr))
}

func TestSingleListCountEqualsLength(t *testing.T) {
	keys := protocol.Strings("k1", "k2", "k3")
	assert.Equal(t, 3, keys.NumArgs())
	assert.Equal(t, len(keys), keys.NumArgs())
}

func TestStringPairsPanicsOnOddCount(t *testing.T) {
	assert.Panics(t, func() { protocol.StringPairs("only-key") })
}

func TestCommandAppendsOnly(t *testing.T) {
	cmd := protocol.NewCommand("GEORADIUS", protocol.String("key"))
	assert.Equal(t, 1, cmd.ArgCount())

	cmd.Arg(protocol.Float(15.087)).Arg(protocol.Float(37.502)).Arg(protocol.Int(200))
	assert.Equal(t, 4, cmd.ArgCount())
	assert.Equal(t, "GEORADIUS", cmd.Verb())
	assert.Equal(t, "GEORADIUS key 15.087 37.502 200", cmd.String())
}

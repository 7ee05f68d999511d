package protocol

import "strconv"

// CommandArgs is the ordered list of raw wire arguments of a command.
// Every argument is an opaque byte sequence; the framing below carries
// explicit lengths, so no escaping is ever applied.
type CommandArgs struct {
	items [][]byte
}

// Append adds one raw argument. The bytes are copied so later mutation of
// the caller's buffer cannot leak into an encoded frame.
func (a *CommandArgs) Append(raw []byte) {
	buf := make([]byte, len(raw))
	copy(buf, raw)
	a.items = append(a.items, buf)
}

// AppendString adds one raw argument from a string.
func (a *CommandArgs) AppendString(s string) {
	a.items = append(a.items, []byte(s))
}

// Len returns the number of raw arguments appended so far.
func (a *CommandArgs) Len() int {
	return len(a.items)
}

// Items returns the raw arguments in append order. The slice is shared;
// callers must not mutate it.
func (a *CommandArgs) Items() [][]byte {
	return a.items
}

// Arg is the capability a value must satisfy to be serialized into wire
// arguments. WriteArgs appends zero or more raw arguments; NumArgs reports
// how many it would append, and the two must always agree.
//
// The set of implementations is closed: values enter only through the typed
// constructors below, so an unsupported type fails at compile time rather
// than falling back to runtime reflection.
type Arg interface {
	WriteArgs(args *CommandArgs)
	NumArgs() int
}

// SingleArg is the refinement of Arg guaranteeing exactly one raw argument
// per present value. Collections used as repeated-field lists (key lists,
// field lists) require it so each element maps to exactly one wire token.
type SingleArg interface {
	Arg
	singleArg()
}

// Local numeric constraints; they keep every integer and float width
// funneling through a single formatting rule.
type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type float interface {
	~float32 | ~float64
}

// IntArg serializes as decimal ASCII with no superfluous leading zero or sign.
type IntArg int64

// Int builds an IntArg from any signed integer width.
func Int[I signed](v I) IntArg { return IntArg(int64(v)) }

func (i IntArg) WriteArgs(args *CommandArgs) {
	args.items = append(args.items, strconv.AppendInt(nil, int64(i), 10))
}

func (i IntArg) NumArgs() int { return 1 }
func (i IntArg) singleArg()   {}

// UintArg serializes as decimal ASCII.
type UintArg uint64

// Uint builds a UintArg from any unsigned integer width.
func Uint[U unsigned](v U) UintArg { return UintArg(uint64(v)) }

func (u UintArg) WriteArgs(args *CommandArgs) {
	args.items = append(args.items, strconv.AppendUint(nil, uint64(u), 10))
}

func (u UintArg) NumArgs() int { return 1 }
func (u UintArg) singleArg()   {}

// FloatArg serializes as the shortest decimal ASCII that round-trips.
type FloatArg float64

// Float builds a FloatArg from either float width.
func Float[F float](v F) FloatArg { return FloatArg(float64(v)) }

func (f FloatArg) WriteArgs(args *CommandArgs) {
	args.items = append(args.items, strconv.AppendFloat(nil, float64(f), 'g', -1, 64))
}

func (f FloatArg) NumArgs() int { return 1 }
func (f FloatArg) singleArg()   {}

// BoolArg serializes as "1" or "0".
type BoolArg bool

// Bool builds a BoolArg.
func Bool(v bool) BoolArg { return BoolArg(v) }

func (b BoolArg) WriteArgs(args *CommandArgs) {
	if b {
		args.AppendString("1")
	} else {
		args.AppendString("0")
	}
}

func (b BoolArg) NumArgs() int { return 1 }
func (b BoolArg) singleArg()   {}

// BytesArg serializes verbatim; binary safe, embedded zero bytes included.
type BytesArg []byte

// Bytes builds a BytesArg. Fixed-size byte arrays are passed as b[:].
func Bytes(p []byte) BytesArg { return BytesArg(p) }

func (b BytesArg) WriteArgs(args *CommandArgs) {
	args.Append(b)
}

func (b BytesArg) NumArgs() int { return 1 }
func (b BytesArg) singleArg()   {}

// StringArg serializes verbatim.
type StringArg string

// String builds a StringArg from any string-kinded type.
func String[S ~string](s S) StringArg { return StringArg(s) }

func (s StringArg) WriteArgs(args *CommandArgs) {
	args.AppendString(string(s))
}

func (s StringArg) NumArgs() int { return 1 }
func (s StringArg) singleArg()   {}

// Optional produces zero arguments when empty and the wrapped value's
// arguments when present.
type Optional[T Arg] struct {
	value   T
	present bool
}

// Some builds a present Optional.
func Some[T Arg](v T) Optional[T] { return Optional[T]{value: v, present: true} }

// None builds an absent Optional.
func None[T Arg]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) WriteArgs(args *CommandArgs) {
	if o.present {
		o.value.WriteArgs(args)
	}
}

func (o Optional[T]) NumArgs() int {
	if o.present {
		return o.value.NumArgs()
	}
	return 0
}

// OptionalSingle is an Optional constrained to SingleArg payloads; unlike
// Optional it still qualifies where a single wire token is required.
type OptionalSingle[T SingleArg] struct {
	value   T
	present bool
}

// SomeSingle builds a present OptionalSingle.
func SomeSingle[T SingleArg](v T) OptionalSingle[T] {
	return OptionalSingle[T]{value: v, present: true}
}

// NoneSingle builds an absent OptionalSingle.
func NoneSingle[T SingleArg]() OptionalSingle[T] { return OptionalSingle[T]{} }

func (o OptionalSingle[T]) WriteArgs(args *CommandArgs) {
	if o.present {
		o.value.WriteArgs(args)
	}
}

func (o OptionalSingle[T]) NumArgs() int {
	if o.present {
		return 1
	}
	return 0
}

func (o OptionalSingle[T]) singleArg() {}

// List appends each element in slice order. Elements may themselves expand
// to multiple arguments.
type List[T Arg] []T

func (l List[T]) WriteArgs(args *CommandArgs) {
	for _, e := range l {
		e.WriteArgs(args)
	}
}

func (l List[T]) NumArgs() int {
	n := 0
	for _, e := range l {
		n += e.NumArgs()
	}
	return n
}

// SingleList is a List whose elements are guaranteed to produce exactly one
// argument each, so its NumArgs equals its length (needed for key-count
// prefixes).
type SingleList[T SingleArg] []T

func (l SingleList[T]) WriteArgs(args *CommandArgs) {
	for _, e := range l {
		e.WriteArgs(args)
	}
}

func (l SingleList[T]) NumArgs() int { return len(l) }

// Entry is one key/value pair of a MapArgs.
type Entry[K SingleArg, V SingleArg] struct {
	Key   K
	Value V
}

// MapArgs appends key then value for each entry, in entry order.
type MapArgs[K SingleArg, V SingleArg] []Entry[K, V]

func (m MapArgs[K, V]) WriteArgs(args *CommandArgs) {
	for _, e := range m {
		e.Key.WriteArgs(args)
		e.Value.WriteArgs(args)
	}
}

func (m MapArgs[K, V]) NumArgs() int { return 2 * len(m) }

// Pair is a fixed-arity tuple appended left to right.
type Pair[A Arg, B Arg] struct {
	First  A
	Second B
}

func (p Pair[A, B]) WriteArgs(args *CommandArgs) {
	p.First.WriteArgs(args)
	p.Second.WriteArgs(args)
}

func (p Pair[A, B]) NumArgs() int {
	return p.First.NumArgs() + p.Second.NumArgs()
}

// Triple is a three-field tuple appended left to right.
type Triple[A Arg, B Arg, C Arg] struct {
	First  A
	Second B
	Third  C
}

func (t Triple[A, B, C]) WriteArgs(args *CommandArgs) {
	t.First.WriteArgs(args)
	t.Second.WriteArgs(args)
	t.Third.WriteArgs(args)
}

func (t Triple[A, B, C]) NumArgs() int {
	return t.First.NumArgs() + t.Second.NumArgs() + t.Third.NumArgs()
}

// Strings is a convenience for the most common repeated field: a list of
// plain string tokens.
func Strings(ss ...string) SingleList[StringArg] {
	l := make(SingleList[StringArg], len(ss))
	for i, s := range ss {
		l[i] = StringArg(s)
	}
	return l
}

// StringPairs builds an ordered string map from alternating key/value
// tokens. It panics on an odd count, which is a programming error.
func StringPairs(kv ...string) MapArgs[StringArg, StringArg] {
	if len(kv)%2 != 0 {
		panic("protocol: StringPairs requires an even number of tokens")
	}
	m := make(MapArgs[StringArg, StringArg], 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m = append(m, Entry[StringArg, StringArg]{Key: StringArg(kv[i]), Value: StringArg(kv[i+1])})
	}
	return m
}

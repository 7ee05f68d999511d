package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a RESP value
type ValueType byte

const (
	// RESP2 value types
	TypeSimpleString ValueType = '+'
	TypeError        ValueType = '-'
	TypeInteger      ValueType = ':'
	TypeBulkString   ValueType = '$'
	TypeArray        ValueType = '*'

	// RESP3 value types
	TypeNull           ValueType = '_'
	TypeDouble         ValueType = ','
	TypeBoolean        ValueType = '#'
	TypeBlobError      ValueType = '!'
	TypeVerbatimString ValueType = '='
	TypeMap            ValueType = '%'
	TypeSet            ValueType = '~'
	TypeBigNumber      ValueType = '('
	TypePush           ValueType = '>'
)

// summarizeThreshold is the array length above which replies are logged
// abbreviated instead of fully rendered.
const summarizeThreshold = 100

// MapEntry is a single key/value pair of a map reply. Entries keep the
// order in which the server sent them.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value represents a parsed RESP value. The Type tag selects which of the
// payload fields is meaningful.
type Value struct {
	Type    ValueType
	Data    []byte // simple strings, errors, bulk strings, verbatim, big numbers
	Integer int64
	Double  float64
	Bool    bool
	Array   []Value    // arrays, sets, pushes
	Map     []MapEntry // maps, ordered as received
	IsNull  bool
}

// Null is the canonical null reply value.
var Null = Value{Type: TypeNull, IsNull: true}

// String returns a string representation of the value
func (v Value) String() string {
	switch v.Type {
	case TypeSimpleString, TypeError, TypeBlobError, TypeBigNumber, TypeVerbatimString:
		return string(v.Data)
	case TypeInteger:
		return strconv.FormatInt(v.Integer, 10)
	case TypeDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case TypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeBulkString:
		if v.IsNull {
			return "(nil)"
		}
		return string(v.Data)
	case TypeArray, TypeSet, TypePush:
		if v.IsNull {
			return "(nil)"
		}
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeMap:
		parts := make([]string, len(v.Map))
		for i, e := range v.Map {
			parts[i] = e.Key.String() + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TypeNull:
		return "(nil)"
	default:
		return fmt.Sprintf("unknown type %c", v.Type)
	}
}

// Bytes returns the byte payload of the value
func (v Value) Bytes() []byte {
	return v.Data
}

// Int returns the integer payload, or 0 if the value is not an integer
func (v Value) Int() int64 {
	return v.Integer
}

// Float returns the double payload. Integer replies are widened so callers
// can treat numeric replies uniformly.
func (v Value) Float() float64 {
	if v.Type == TypeInteger {
		return float64(v.Integer)
	}
	return v.Double
}

// IsError returns true if this is an error value (simple or blob)
func (v Value) IsError() bool {
	return v.Type == TypeError || v.Type == TypeBlobError
}

// ErrorMessage returns the error message if this is an error value
func (v Value) ErrorMessage() string {
	if v.IsError() {
		return string(v.Data)
	}
	return ""
}

// Summary returns a loggable rendering of the value. Array-like replies
// longer than 100 elements are abbreviated; the value itself is untouched.
func (v Value) Summary() string {
	if (v.Type == TypeArray || v.Type == TypeSet || v.Type == TypePush) && len(v.Array) > summarizeThreshold {
		return fmt.Sprintf("%c[... %d elements]", v.Type, len(v.Array))
	}
	return v.String()
}

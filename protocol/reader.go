package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	// CRLF is the Redis protocol line terminator
	CRLF = "\r\n"

	// maxBulkSize is the maximum size for bulk strings (1GB)
	maxBulkSize = 1024 * 1024 * 1024

	// maxArraySize is the maximum size for arrays, maps and sets
	maxArraySize = 1024 * 1024
)

var crlfBytes = []byte(CRLF)

// Reader is a streaming RESP reader. It buffers partial frames across
// reads of the underlying stream and yields exactly one Value per complete
// frame, in server order.
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a new streaming RESP reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br: bufio.NewReader(r),
	}
}

// Reset discards any buffered bytes and rebinds the reader to a new
// underlying stream. Used when a connection replaces its transport, so
// bytes from two transport generations are never mixed.
func (r *Reader) Reset(rd io.Reader) {
	r.br.Reset(rd)
}

// ReadNext reads the next RESP value from the stream. On a cleanly closed
// stream with no partial frame it returns io.EOF.
func (r *Reader) ReadNext() (Value, error) {
	typeByte, err := r.br.ReadByte()
	if err != nil {
		return Value{}, err
	}

	switch ValueType(typeByte) {
	case TypeSimpleString:
		return r.readLineValue(TypeSimpleString)
	case TypeError:
		return r.readLineValue(TypeError)
	case TypeInteger:
		return r.readInteger()
	case TypeBulkString:
		return r.readBulkString(TypeBulkString)
	case TypeBlobError:
		return r.readBulkString(TypeBlobError)
	case TypeVerbatimString:
		return r.readBulkString(TypeVerbatimString)
	case TypeArray:
		return r.readAggregate(TypeArray)
	case TypeSet:
		return r.readAggregate(TypeSet)
	case TypePush:
		return r.readAggregate(TypePush)
	case TypeMap:
		return r.readMap()
	case TypeDouble:
		return r.readDouble()
	case TypeBoolean:
		return r.readBoolean()
	case TypeBigNumber:
		return r.readLineValue(TypeBigNumber)
	case TypeNull:
		return r.readNull()
	default:
		if typeByte == 0 {
			return Value{}, fmt.Errorf("unknown RESP type: empty byte (connection may be closed)")
		}
		return Value{}, fmt.Errorf("unknown RESP type: %c (0x%02x)", typeByte, typeByte)
	}
}

// readLineValue reads a single-line value whose payload is the line itself
func (r *Reader) readLineValue(t ValueType) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	return Value{
		Type: t,
		Data: line,
	}, nil
}

// readInteger reads an integer value
func (r *Reader) readInteger() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	integer, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid integer: %s", line)
	}

	return Value{
		Type:    TypeInteger,
		Integer: integer,
	}, nil
}

// readDouble reads a double value, including the inf/-inf/nan spellings
func (r *Reader) readDouble() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	var f float64
	switch string(line) {
	case "inf":
		f = math.Inf(1)
	case "-inf":
		f = math.Inf(-1)
	case "nan":
		f = math.NaN()
	default:
		f, err = strconv.ParseFloat(string(line), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid double: %s", line)
		}
	}

	return Value{
		Type:   TypeDouble,
		Double: f,
	}, nil
}

// readBoolean reads a boolean value ("#t" or "#f")
func (r *Reader) readBoolean() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	if len(line) != 1 || (line[0] != 't' && line[0] != 'f') {
		return Value{}, fmt.Errorf("invalid boolean: %s", line)
	}

	return Value{
		Type: TypeBoolean,
		Bool: line[0] == 't',
	}, nil
}

// readNull reads the RESP3 null value ("_\r\n")
func (r *Reader) readNull() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	if len(line) != 0 {
		return Value{}, fmt.Errorf("invalid null value: %s", line)
	}
	return Null, nil
}

// readBulkString reads a length-prefixed payload (bulk strings, blob
// errors, verbatim strings)
func (r *Reader) readBulkString(t ValueType) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	length, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid bulk string length: %s", line)
	}

	// RESP2 null bulk string
	if length == -1 {
		return Value{
			Type:   t,
			IsNull: true,
		}, nil
	}

	if length < 0 || length > maxBulkSize {
		return Value{}, fmt.Errorf("invalid bulk string length: %d", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.br, data); err != nil {
		return Value{}, err
	}

	if err := r.expectCRLF(); err != nil {
		return Value{}, err
	}

	return Value{
		Type: t,
		Data: data,
	}, nil
}

// readAggregate reads an array-shaped value (array, set, push)
func (r *Reader) readAggregate(t ValueType) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	length, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid array length: %s", line)
	}

	// RESP2 null array
	if length == -1 {
		return Value{
			Type:   t,
			IsNull: true,
		}, nil
	}

	if length < 0 || length > maxArraySize {
		return Value{}, fmt.Errorf("invalid array length: %d", length)
	}

	array := make([]Value, length)
	for i := int64(0); i < length; i++ {
		value, err := r.ReadNext()
		if err != nil {
			return Value{}, err
		}
		array[i] = value
	}

	return Value{
		Type:  t,
		Array: array,
	}, nil
}

// readMap reads a map value, preserving server-declared entry order
func (r *Reader) readMap() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	length, err := parseInt64(line)
	if err != nil {
		return Value{}, fmt.Errorf("invalid map length: %s", line)
	}

	if length < 0 || length > maxArraySize {
		return Value{}, fmt.Errorf("invalid map length: %d", length)
	}

	entries := make([]MapEntry, length)
	for i := int64(0); i < length; i++ {
		key, err := r.ReadNext()
		if err != nil {
			return Value{}, err
		}
		value, err := r.ReadNext()
		if err != nil {
			return Value{}, err
		}
		entries[i] = MapEntry{Key: key, Value: value}
	}

	return Value{
		Type: TypeMap,
		Map:  entries,
	}, nil
}

// parseInt64 parses an int64 from a byte slice without allocation
func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}

	var neg bool
	var i int

	switch b[0] {
	case '-':
		neg = true
		i = 1
	case '+':
		i = 1
	default:
		i = 0
	}

	if i >= len(b) {
		return 0, strconv.ErrSyntax
	}

	var n int64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, strconv.ErrSyntax
		}

		if n > (1<<63-1)/10 {
			return 0, strconv.ErrRange
		}

		n = n*10 + int64(b[i]-'0')
	}

	if neg {
		return -n, nil
	}
	return n, nil
}

// readLine reads a line terminated by CRLF
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read line: %w", err)
	}

	// Remove CRLF - must have at least \r\n
	if len(line) < 2 {
		return nil, fmt.Errorf("line too short (%d bytes), expected CRLF terminator", len(line))
	}

	if !bytes.HasSuffix(line, crlfBytes) {
		lastTwo := line[len(line)-2:]
		return nil, fmt.Errorf("missing CRLF terminator, got [%d, %d] instead of [13, 10]", lastTwo[0], lastTwo[1])
	}

	return line[:len(line)-2], nil
}

// expectCRLF reads and validates CRLF terminator
func (r *Reader) expectCRLF() error {
	crlf := make([]byte, 2)
	n, err := io.ReadFull(r.br, crlf)
	if err != nil {
		return fmt.Errorf("failed to read CRLF terminator (read %d/2 bytes): %w", n, err)
	}

	if !bytes.Equal(crlf, crlfBytes) {
		return fmt.Errorf("expected CRLF terminator [13, 10], got [%d, %d]", crlf[0], crlf[1])
	}

	return nil
}

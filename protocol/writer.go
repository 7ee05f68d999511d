package protocol

import (
	"bufio"
	"io"
	"strconv"
)

// Writer encodes outbound command frames. A command is framed as an array
// of length-prefixed bulk strings: verb first, then arguments in list order.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter creates a new RESP protocol writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		bw: bufio.NewWriter(w),
	}
}

// WriteCommand writes one full command frame. The frame is buffered;
// callers flush explicitly so exactly one frame goes out per exchange.
func (w *Writer) WriteCommand(cmd *Command) error {
	if _, err := w.bw.WriteString("*"); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(strconv.Itoa(1 + cmd.ArgCount())); err != nil {
		return err
	}
	if err := w.writeCRLF(); err != nil {
		return err
	}

	if err := w.writeBulk([]byte(cmd.Verb())); err != nil {
		return err
	}

	for _, arg := range cmd.Args().Items() {
		if err := w.writeBulk(arg); err != nil {
			return err
		}
	}

	return nil
}

// WriteRawCommand writes a command built from plain string tokens. Used by
// fixtures and tools that do not go through the typed argument layer.
func (w *Writer) WriteRawCommand(verb string, args ...string) error {
	cmd := NewCommand(verb, Strings(args...))
	return w.WriteCommand(cmd)
}

// WriteValue writes a RESP value; the inverse of Reader.ReadNext. Only the
// shapes a server can emit are supported, since this is what the test
// fixtures speak back to the client.
func (w *Writer) WriteValue(v Value) error {
	switch v.Type {
	case TypeSimpleString:
		return w.writeLine(byte(TypeSimpleString), v.Data)
	case TypeError:
		return w.writeLine(byte(TypeError), v.Data)
	case TypeBigNumber:
		return w.writeLine(byte(TypeBigNumber), v.Data)
	case TypeInteger:
		return w.writeLine(byte(TypeInteger), strconv.AppendInt(nil, v.Integer, 10))
	case TypeDouble:
		return w.writeLine(byte(TypeDouble), strconv.AppendFloat(nil, v.Double, 'g', -1, 64))
	case TypeBoolean:
		if v.Bool {
			return w.writeLine(byte(TypeBoolean), []byte("t"))
		}
		return w.writeLine(byte(TypeBoolean), []byte("f"))
	case TypeNull:
		return w.writeLine(byte(TypeNull), nil)
	case TypeBulkString, TypeBlobError, TypeVerbatimString:
		if v.IsNull {
			return w.writeLine(byte(TypeBulkString), []byte("-1"))
		}
		if err := w.writeLine(byte(v.Type), strconv.AppendInt(nil, int64(len(v.Data)), 10)); err != nil {
			return err
		}
		if _, err := w.bw.Write(v.Data); err != nil {
			return err
		}
		return w.writeCRLF()
	case TypeArray, TypeSet, TypePush:
		if v.IsNull {
			return w.writeLine(byte(TypeArray), []byte("-1"))
		}
		if err := w.writeLine(byte(v.Type), strconv.AppendInt(nil, int64(len(v.Array)), 10)); err != nil {
			return err
		}
		for _, e := range v.Array {
			if err := w.WriteValue(e); err != nil {
				return err
			}
		}
		return nil
	case TypeMap:
		if err := w.writeLine(byte(TypeMap), strconv.AppendInt(nil, int64(len(v.Map)), 10)); err != nil {
			return err
		}
		for _, e := range v.Map {
			if err := w.WriteValue(e.Key); err != nil {
				return err
			}
			if err := w.WriteValue(e.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnsupportedTypeError{Type: v.Type}
	}
}

// Flush flushes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Reset resets the writer to write to a new underlying writer
func (w *Writer) Reset(writer io.Writer) {
	w.bw.Reset(writer)
}

// writeBulk writes one length-prefixed bulk string
func (w *Writer) writeBulk(data []byte) error {
	if _, err := w.bw.WriteString("$"); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(strconv.Itoa(len(data))); err != nil {
		return err
	}
	if err := w.writeCRLF(); err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return err
	}
	return w.writeCRLF()
}

// writeLine writes a type byte, a payload and the CRLF terminator
func (w *Writer) writeLine(t byte, payload []byte) error {
	if err := w.bw.WriteByte(t); err != nil {
		return err
	}
	if _, err := w.bw.Write(payload); err != nil {
		return err
	}
	return w.writeCRLF()
}

// writeCRLF writes the CRLF terminator
func (w *Writer) writeCRLF() error {
	_, err := w.bw.WriteString(CRLF)
	return err
}

// UnsupportedTypeError reports an attempt to encode a value type the
// writer does not speak.
type UnsupportedTypeError struct {
	Type ValueType
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported value type: " + string(byte(e.Type))
}

package redisclient

import (
	"errors"
	"fmt"
)

// Error types for specific failure scenarios
var (
	// ErrDisconnected indicates the peer closed the stream before a reply arrived
	ErrDisconnected = errors.New("disconnected by peer")

	// ErrNotConnected indicates an operation was attempted on a connection
	// that has no live transport
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidConfig indicates invalid configuration options
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TransportError represents an I/O failure establishing or using the
// underlying stream.
type TransportError struct {
	Addr string
	Err  error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s: %v", e.Addr, e.Err)
}

// Unwrap returns the wrapped error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError represents a malformed or unexpected frame.
type ProtocolError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// Unwrap returns the wrapped error
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ServerError represents an explicit error reply from the peer. The
// message is preserved verbatim.
type ServerError struct {
	Message string
}

// Error implements the error interface
func (e *ServerError) Error() string {
	return e.Message
}

// ClientError represents local misuse of the driver, including the
// synthesized "disconnected by peer" failure.
type ClientError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("client error: %s", e.Message)
}

// Unwrap returns the wrapped error
func (e *ClientError) Unwrap() error {
	return e.Err
}

// SentinelFailureCause classifies why sentinel discovery terminated
// without a master.
type SentinelFailureCause int

const (
	// SentinelUnreachable means no sentinel endpoint ever answered a query
	// during the run
	SentinelUnreachable SentinelFailureCause = iota

	// SentinelMasterUnknown means at least one sentinel answered but none
	// currently names a master for the service
	SentinelMasterUnknown
)

// String returns a human-readable rendering of the cause
func (c SentinelFailureCause) String() string {
	switch c {
	case SentinelUnreachable:
		return "all sentinel instances are unreachable"
	case SentinelMasterUnknown:
		return "master is unknown by all sentinel instances"
	default:
		return "unknown sentinel failure"
	}
}

// SentinelError represents exhausted master discovery. Cause distinguishes
// a network partition from an election still in progress.
type SentinelError struct {
	Service string
	Cause   SentinelFailureCause
}

// Error implements the error interface
func (e *SentinelError) Error() string {
	return fmt.Sprintf("sentinel discovery for service %q failed: %s", e.Service, e.Cause)
}

// Package protocol implements the Redis serialization protocol (RESP)
// wire codec used by the client driver.
//
// The package provides:
//
//   - Streaming RESP2/RESP3 reading with Reader, yielding one Value per
//     complete frame
//   - Command frame encoding with Writer (arrays of length-prefixed bulk
//     strings)
//   - A typed, compile-time-checked argument serialization layer (Arg,
//     SingleArg and the generic container types) feeding CommandArgs
//
// The parsers are designed for streaming use: partial frames are buffered
// across reads of the underlying stream and values are produced in server
// order. All payloads are binary safe.
package protocol

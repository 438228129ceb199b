// Package wire implements the DNS wire-format codec: a fixed 512-byte
// cursor, RFC 1035 ยง4.1.4 name compression, and the header/question/record
// state machine. See RFC 1035 ยง4 for the message format this package
// encodes and decodes.
package wire

import "errors"

// ErrEndOfBuffer is returned by any Cursor operation that would read past,
// write past, or otherwise reference an offset beyond the fixed 512-byte
// buffer.
var ErrEndOfBuffer = errors.New("wire: end of buffer")

// ErrMalformedName is returned when a domain name cannot be decoded safely,
// either because its compression pointers form a cycle (or simply chain
// past the jump budget) or because a label exceeds 63 bytes on encode.
var ErrMalformedName = errors.New("wire: malformed name")

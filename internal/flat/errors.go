package flat

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrOutOfBounds    = errors.New("offset out of buffer bounds")
	ErrBufferTooSmall = errors.New("buffer too small for root offset")
	ErrBadUnionTag    = errors.New("union tag outside declared set")
	ErrBadIdentifier  = errors.New("file identifier mismatch")
)

// CorruptError describes a malformed-buffer condition in enough detail to
// locate it. It always wraps one of the sentinel errors above.
type CorruptError struct {
	Err  error  // Sentinel cause (ErrOutOfBounds, ErrBadUnionTag, ...)
	Pos  uint32 // Byte position the access started from
	Need uint32 // Bytes the access required at Pos
	Len  uint32 // Total buffer length
	What string // What was being resolved (e.g. "vtable", "string length")
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	if e.Need != 0 {
		return fmt.Sprintf("corrupt buffer: %s: %v (pos=%d need=%d len=%d)",
			e.What, e.Err, e.Pos, e.Need, e.Len)
	}
	return fmt.Sprintf("corrupt buffer: %s: %v (pos=%d len=%d)", e.What, e.Err, e.Pos, e.Len)
}

// Unwrap returns the sentinel cause.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

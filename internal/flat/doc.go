// Package flat implements the MODL flat buffer encoding: an offset-based,
// random-access binary table format.
//
// A finished buffer is one contiguous little-endian byte region:
//
//	Layout:
//	  [4 bytes: root table offset (uint32 LE)]
//	  [4 bytes: file identifier, e.g. "MODL" (optional)]
//	  [body: tables, vectors, strings, vtables]
//
// Every cross-object reference is a small relative offset, never an absolute
// address, so a buffer can be written to disk, memory-mapped and read in
// place without a parsing pass.
//
// Records are tables: each table instance starts with a signed displacement
// to its vtable, a per-type array of 16-bit byte offsets indexed by field
// slot. A zero vtable entry means the field was elided and the reader reports
// the schema default. This indirection is what makes field addition across
// schema versions safe in both directions.
//
// The write side (Builder) allocates from the end of a scratch buffer
// backward, so every child object has a final offset before its parent is
// started. The read side (Table) is zero-copy and lazy: no byte is touched
// until a field accessor asks for it, and every access is bounds-checked so
// a corrupt buffer surfaces as an error rather than a default value.
package flat

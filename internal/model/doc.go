// Package model provides the Go-native view of a MODL computation graph and
// the conversions between it and the wire buffer.
//
// A Model value owns ordinary Go slices and strings; Encode serializes it
// into one immutable byte buffer (children before parents, single pass) and
// Decode materializes a buffer back into a Model. Decoding is lenient by
// default: unknown trailing fields are ignored and a newer schemaVersion is
// not an error. Strict mode escalates version mismatch and producer-contract
// violations to hard failures.
//
// The producer contracts the format itself cannot check (unique node ids,
// constant payload length matching the shape product, input indices in
// range) are verified by Validate, which reports every violation, not only
// the first.
package model

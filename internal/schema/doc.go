// Package schema defines the record types of the MODL model container:
// Model, Graph, Node, the per-operator attribute tables, and the enums and
// unions tying them together.
//
// Each table type is a thin read view over internal/flat plus a write helper
// that serializes one instance into a Builder. Field slot numbers and
// defaults are part of the wire contract and must not be reordered; new
// fields may only be appended as new trailing slots.
package schema

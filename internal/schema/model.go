package schema

import (
	"github.com/modl-ml/modl/internal/flat"
)

// Graph is an ordered sequence of node references. Node order is significant:
// it is assumed to already be a valid evaluation order, and the encoding does
// not re-derive or validate it.
type Graph struct {
	flat.Table
}

// Nodes returns the vector of node offsets.
func (g Graph) Nodes() (flat.Vector, bool, error) {
	return g.VectorField(0, 4)
}

// Node resolves node i of the graph.
func (g Graph) Node(i int) (Node, error) {
	nodes, present, err := g.Nodes()
	if err != nil {
		return Node{}, err
	}
	if !present {
		return Node{}, &flat.CorruptError{Err: flat.ErrOutOfBounds, Pos: g.Pos, What: "graph nodes"}
	}
	t, err := nodes.Table(i)
	if err != nil {
		return Node{}, err
	}
	return Node{Table: t}, nil
}

// WriteGraph serializes a graph from already-written node offsets.
func WriteGraph(b *flat.Builder, nodes []uint32) uint32 {
	b.StartVector(4, uint32(len(nodes)), 4)
	for i := len(nodes) - 1; i >= 0; i-- {
		b.PrependUOffset(nodes[i])
	}
	nodesOff := b.EndVector(len(nodes))
	b.StartObject(1)
	b.PrependUOffsetSlot(0, nodesOff)
	return b.EndObject()
}

// Model is the root of a serialized artifact.
type Model struct {
	flat.Table
}

// SchemaVersion is the writer's declared schema revision. Readers treat an
// unrecognized newer version as "read the fields you understand", not as a
// hard failure, unless configured strict.
func (m Model) SchemaVersion() (int32, error) {
	return m.Int32Field(0, 0)
}

// Graph returns the model's graph.
func (m Model) Graph() (Graph, bool, error) {
	t, present, err := m.TableField(1)
	return Graph{Table: t}, present, err
}

// WriteModel serializes the root table from an already-written graph offset.
func WriteModel(b *flat.Builder, schemaVersion int32, graph uint32) uint32 {
	b.StartObject(2)
	b.PrependUOffsetSlot(1, graph)
	b.PrependInt32Slot(0, schemaVersion, 0)
	return b.EndObject()
}

// GetRootAsModel resolves the buffer's root table as a Model.
func GetRootAsModel(buf []byte) (Model, error) {
	t, err := flat.GetRoot(buf)
	if err != nil {
		return Model{}, err
	}
	return Model{Table: t}, nil
}

// GetSizePrefixedRootAsModel is GetRootAsModel for size-prefixed buffers.
func GetSizePrefixedRootAsModel(buf []byte) (Model, error) {
	t, err := flat.GetSizePrefixedRoot(buf)
	if err != nil {
		return Model{}, err
	}
	return Model{Table: t}, nil
}

// BufferHasIdentifier reports whether buf carries the MODL identifier.
func BufferHasIdentifier(buf []byte) bool {
	return flat.BufferHasIdentifier(buf, Identifier)
}

// SizePrefixedBufferHasIdentifier is BufferHasIdentifier for size-prefixed
// buffers.
func SizePrefixedBufferHasIdentifier(buf []byte) bool {
	return flat.SizePrefixedBufferHasIdentifier(buf, Identifier)
}

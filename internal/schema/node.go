package schema

import (
	"fmt"

	"github.com/modl-ml/modl/internal/flat"
)

// OperatorNode represents one computation step in a graph.
type OperatorNode struct {
	flat.Table
}

func (n OperatorNode) Type() (OperatorType, error) {
	v, err := n.Int8Field(0, 0)
	if err != nil {
		return 0, err
	}
	t := OperatorType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("operator type %d: %w", v, flat.ErrBadUnionTag)
	}
	return t, nil
}

// AttrsType returns the union tag selecting the attribute table. An
// unrecognized tag is a decode error: unlike a missing scalar there is no
// safe default variant to substitute.
func (n OperatorNode) AttrsType() (OperatorAttrs, error) {
	v, err := n.Uint8Field(1, 0)
	if err != nil {
		return 0, err
	}
	a := OperatorAttrs(v)
	if !a.Valid() {
		return 0, fmt.Errorf("operator attrs tag %d: %w", v, flat.ErrBadUnionTag)
	}
	return a, nil
}

// Attrs returns the raw attribute table; reinterpret it per AttrsType.
func (n OperatorNode) Attrs() (flat.Table, bool, error) {
	return n.UnionField(2)
}

// Inputs returns the operator's input references: indices into the graph's
// node list, resolved by the consumer.
func (n OperatorNode) Inputs() (flat.Vector, bool, error) {
	return n.VectorField(3, 4)
}

// WriteOperatorNode serializes one instance. attrs must be the offset of a
// table matching attrsType, or zero with AttrsNone.
func WriteOperatorNode(b *flat.Builder, opType OperatorType, attrsType OperatorAttrs, attrs uint32, inputs []uint32) uint32 {
	var inputsOff uint32
	if inputs != nil {
		inputsOff = b.CreateUint32Vector(inputs)
	}
	b.StartObject(4)
	b.PrependUOffsetSlot(3, inputsOff)
	b.PrependUOffsetSlot(2, attrs)
	b.PrependUint8Slot(1, uint8(attrsType), 0)
	b.PrependInt8Slot(0, int8(opType), 0)
	return b.EndObject()
}

// FloatData is a flat float32 payload for a ConstantNode.
type FloatData struct {
	flat.Table
}

func (d FloatData) Data() (flat.Vector, bool, error) {
	return d.VectorField(0, 4)
}

func WriteFloatData(b *flat.Builder, data []float32) uint32 {
	dataOff := b.CreateFloat32Vector(data)
	b.StartObject(1)
	b.PrependUOffsetSlot(0, dataOff)
	return b.EndObject()
}

// IntData is a flat int32 payload for a ConstantNode.
type IntData struct {
	flat.Table
}

func (d IntData) Data() (flat.Vector, bool, error) {
	return d.VectorField(0, 4)
}

func WriteIntData(b *flat.Builder, data []int32) uint32 {
	dataOff := b.CreateInt32Vector(data)
	b.StartObject(1)
	b.PrependUOffsetSlot(0, dataOff)
	return b.EndObject()
}

// ConstantNode is an embedded tensor literal.
type ConstantNode struct {
	flat.Table
}

// Shape returns the dimension sizes. An empty shape denotes a scalar.
func (n ConstantNode) Shape() (flat.Vector, bool, error) {
	return n.VectorField(0, 4)
}

func (n ConstantNode) DataType() (ConstantData, error) {
	v, err := n.Uint8Field(1, 0)
	if err != nil {
		return 0, err
	}
	d := ConstantData(v)
	if !d.Valid() {
		return 0, fmt.Errorf("constant data tag %d: %w", v, flat.ErrBadUnionTag)
	}
	return d, nil
}

// Data returns the raw payload table; reinterpret it per DataType.
func (n ConstantNode) Data() (flat.Table, bool, error) {
	return n.UnionField(2)
}

func WriteConstantNode(b *flat.Builder, shape []uint32, dataType ConstantData, data uint32) uint32 {
	var shapeOff uint32
	if shape != nil {
		shapeOff = b.CreateUint32Vector(shape)
	}
	b.StartObject(3)
	b.PrependUOffsetSlot(2, data)
	b.PrependUint8Slot(1, uint8(dataType), 0)
	b.PrependUOffsetSlot(0, shapeOff)
	return b.EndObject()
}

// ValueNode marks a runtime value. It carries no fields; it exists so a
// Node's kind tag can distinguish values from operators and constants.
type ValueNode struct {
	flat.Table
}

func WriteValueNode(b *flat.Builder) uint32 {
	b.StartObject(0)
	return b.EndObject()
}

// Node is a named graph vertex.
type Node struct {
	flat.Table
}

// ID returns the node's identifier, unique within a graph by producer
// contract.
func (n Node) ID() (string, bool, error) {
	return n.StringField(0)
}

func (n Node) Kind() (NodeKind, error) {
	v, err := n.Uint8Field(1, 0)
	if err != nil {
		return 0, err
	}
	k := NodeKind(v)
	if !k.Valid() {
		return 0, fmt.Errorf("node kind tag %d: %w", v, flat.ErrBadUnionTag)
	}
	return k, nil
}

// Data returns the raw payload table; reinterpret it per Kind.
func (n Node) Data() (flat.Table, bool, error) {
	return n.UnionField(2)
}

func WriteNode(b *flat.Builder, id string, kind NodeKind, data uint32) uint32 {
	idOff := b.CreateString(id)
	b.StartObject(3)
	b.PrependUOffsetSlot(2, data)
	b.PrependUint8Slot(1, uint8(kind), 0)
	b.PrependUOffsetSlot(0, idOff)
	return b.EndObject()
}

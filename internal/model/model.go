package model

import (
	"github.com/modl-ml/modl/internal/schema"
)

// CurrentSchemaVersion is the schema revision this package writes.
const CurrentSchemaVersion int32 = 1

// Model is the root of a computation-graph artifact.
type Model struct {
	SchemaVersion int32
	Graph         Graph
}

// Graph is an ordered sequence of nodes. The order is significant: producers
// emit nodes in a valid evaluation order and consumers rely on it.
type Graph struct {
	Nodes []Node
}

// Node is a named graph vertex. Data selects what the node is; a nil Data is
// the valid "no payload" state, distinct from an empty payload.
type Node struct {
	ID   string
	Data NodeData
}

// NodeData is the closed set of node payloads: *Operator, *Constant, *Value.
type NodeData interface {
	nodeKind() schema.NodeKind
}

// Operator is a computation step.
type Operator struct {
	Type schema.OperatorType
	// Attrs parameterizes the operator; nil for operators without
	// parameters.
	Attrs Attrs
	// Inputs are indices into the graph's node list. A nil slice encodes an
	// absent vector; an empty non-nil slice encodes a present empty one.
	Inputs []uint32
}

func (*Operator) nodeKind() schema.NodeKind { return schema.NodeKindOperator }

// Constant is an embedded tensor literal. Data length must equal the product
// of Shape (producer contract, checked by Validate).
type Constant struct {
	// Shape holds the dimension sizes; empty means scalar.
	Shape []uint32
	Data  ConstantPayload
}

func (*Constant) nodeKind() schema.NodeKind { return schema.NodeKindConstant }

// Value marks a runtime value with no embedded payload.
type Value struct{}

func (*Value) nodeKind() schema.NodeKind { return schema.NodeKindValue }

// ConstantPayload is the closed set of constant payloads: FloatData, IntData.
type ConstantPayload interface {
	payloadKind() schema.ConstantData
	payloadLen() int
}

// FloatData is a flat float32 payload.
type FloatData []float32

func (FloatData) payloadKind() schema.ConstantData { return schema.ConstantFloat }
func (d FloatData) payloadLen() int                { return len(d) }

// IntData is a flat int32 payload.
type IntData []int32

func (IntData) payloadKind() schema.ConstantData { return schema.ConstantInt }
func (d IntData) payloadLen() int                { return len(d) }

// Attrs is the closed set of operator attribute records.
type Attrs interface {
	attrsKind() schema.OperatorAttrs
}

// BatchNormalizationAttrs parameterizes BatchNormalization.
type BatchNormalizationAttrs struct {
	Epsilon float32
}

func (*BatchNormalizationAttrs) attrsKind() schema.OperatorAttrs {
	return schema.AttrsBatchNormalization
}

// ClipAttrs parameterizes Clip.
type ClipAttrs struct {
	Min float32
	Max float32
}

func (*ClipAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsClip }

// ConcatAttrs parameterizes Concat.
type ConcatAttrs struct {
	Dim uint32
}

func (*ConcatAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsConcat }

// Conv2dAttrs parameterizes Conv2d.
type Conv2dAttrs struct {
	PadMode       schema.PadMode
	PadHorizontal uint32
	PadVertical   uint32
	Groups        uint32
	Stride        uint32
}

func (*Conv2dAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsConv2d }

// ConvTranspose2dAttrs parameterizes ConvTranspose2d.
type ConvTranspose2dAttrs struct {
	Stride uint32
}

func (*ConvTranspose2dAttrs) attrsKind() schema.OperatorAttrs {
	return schema.AttrsConvTranspose2d
}

// GatherAttrs parameterizes Gather.
type GatherAttrs struct {
	Axis uint32
}

func (*GatherAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsGather }

// GemmAttrs parameterizes Gemm.
type GemmAttrs struct {
	Alpha      float32
	Beta       float32
	TransposeA bool
	TransposeB bool
}

func (*GemmAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsGemm }

// LeakyReluAttrs parameterizes LeakyRelu.
type LeakyReluAttrs struct {
	Alpha float32
}

func (*LeakyReluAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsLeakyRelu }

// MaxPool2dAttrs parameterizes MaxPool2d.
type MaxPool2dAttrs struct {
	KernelSize    uint32
	PadMode       schema.PadMode
	PadHorizontal uint32
	PadVertical   uint32
	Stride        uint32
}

func (*MaxPool2dAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsMaxPool2d }

// Pad2dAttrs parameterizes Pad2d.
type Pad2dAttrs struct {
	PadLeft   uint32
	PadRight  uint32
	PadTop    uint32
	PadBottom uint32
}

func (*Pad2dAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsPad2d }

// UnsqueezeAttrs parameterizes Unsqueeze.
type UnsqueezeAttrs struct {
	Axes []uint32
}

func (*UnsqueezeAttrs) attrsKind() schema.OperatorAttrs { return schema.AttrsUnsqueeze }

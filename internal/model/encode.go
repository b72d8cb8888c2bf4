package model

import (
	"fmt"

	"github.com/modl-ml/modl/internal/flat"
	"github.com/modl-ml/modl/internal/schema"
)

// Encode serializes m into one immutable buffer carrying the MODL
// identifier. Children are written before the parents that reference them,
// so the buffer is complete in a single pass.
func Encode(m *Model) ([]byte, error) {
	return encode(m, false)
}

// EncodeSizePrefixed is Encode with a leading 4-byte total-length prefix for
// stream framing.
func EncodeSizePrefixed(m *Model) ([]byte, error) {
	return encode(m, true)
}

func encode(m *Model, sizePrefixed bool) ([]byte, error) {
	b := flat.NewBuilder(1024)

	nodeOffs := make([]uint32, len(m.Graph.Nodes))
	for i := range m.Graph.Nodes {
		off, err := encodeNode(b, &m.Graph.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("encode node %d: %w", i, err)
		}
		nodeOffs[i] = off
	}

	graphOff := schema.WriteGraph(b, nodeOffs)
	rootOff := schema.WriteModel(b, m.SchemaVersion, graphOff)

	if sizePrefixed {
		b.FinishSizePrefixed(rootOff, schema.Identifier)
	} else {
		b.Finish(rootOff, schema.Identifier)
	}
	return b.FinishedBytes(), nil
}

func encodeNode(b *flat.Builder, n *Node) (uint32, error) {
	var (
		kind schema.NodeKind
		data uint32
	)
	switch d := n.Data.(type) {
	case nil:
		kind = schema.NodeKindNone
	case *Operator:
		off, err := encodeOperator(b, d)
		if err != nil {
			return 0, err
		}
		kind, data = schema.NodeKindOperator, off
	case *Constant:
		off, err := encodeConstant(b, d)
		if err != nil {
			return 0, err
		}
		kind, data = schema.NodeKindConstant, off
	case *Value:
		kind, data = schema.NodeKindValue, schema.WriteValueNode(b)
	default:
		return 0, fmt.Errorf("node %q: unsupported payload type %T", n.ID, n.Data)
	}
	return schema.WriteNode(b, n.ID, kind, data), nil
}

func encodeOperator(b *flat.Builder, op *Operator) (uint32, error) {
	if !op.Type.Valid() {
		return 0, fmt.Errorf("operator type %d out of range", op.Type)
	}
	attrsKind := schema.AttrsNone
	var attrsOff uint32
	if op.Attrs != nil {
		attrsKind = op.Attrs.attrsKind()
		attrsOff = encodeAttrs(b, op.Attrs)
	}
	return schema.WriteOperatorNode(b, op.Type, attrsKind, attrsOff, op.Inputs), nil
}

func encodeAttrs(b *flat.Builder, attrs Attrs) uint32 {
	switch a := attrs.(type) {
	case *BatchNormalizationAttrs:
		return schema.WriteBatchNormalizationAttrs(b, a.Epsilon)
	case *ClipAttrs:
		return schema.WriteClipAttrs(b, a.Min, a.Max)
	case *ConcatAttrs:
		return schema.WriteConcatAttrs(b, a.Dim)
	case *Conv2dAttrs:
		return schema.WriteConv2dAttrs(b, a.PadMode, a.PadHorizontal, a.PadVertical, a.Groups, a.Stride)
	case *ConvTranspose2dAttrs:
		return schema.WriteConvTranspose2dAttrs(b, a.Stride)
	case *GatherAttrs:
		return schema.WriteGatherAttrs(b, a.Axis)
	case *GemmAttrs:
		return schema.WriteGemmAttrs(b, a.Alpha, a.Beta, a.TransposeA, a.TransposeB)
	case *LeakyReluAttrs:
		return schema.WriteLeakyReluAttrs(b, a.Alpha)
	case *MaxPool2dAttrs:
		return schema.WriteMaxPool2dAttrs(b, a.KernelSize, a.PadMode, a.PadHorizontal, a.PadVertical, a.Stride)
	case *Pad2dAttrs:
		return schema.WritePad2dAttrs(b, a.PadLeft, a.PadRight, a.PadTop, a.PadBottom)
	case *UnsqueezeAttrs:
		return schema.WriteUnsqueezeAttrs(b, a.Axes)
	default:
		panic(fmt.Sprintf("model: unknown attrs type %T", attrs))
	}
}

func encodeConstant(b *flat.Builder, c *Constant) (uint32, error) {
	dataKind := schema.ConstantNone
	var dataOff uint32
	switch d := c.Data.(type) {
	case nil:
	case FloatData:
		dataKind, dataOff = schema.ConstantFloat, schema.WriteFloatData(b, d)
	case IntData:
		dataKind, dataOff = schema.ConstantInt, schema.WriteIntData(b, d)
	default:
		return 0, fmt.Errorf("unsupported constant payload type %T", c.Data)
	}
	return schema.WriteConstantNode(b, c.Shape, dataKind, dataOff), nil
}

package model

import (
	"fmt"

	"github.com/modl-ml/modl/internal/flat"
	"github.com/modl-ml/modl/internal/schema"
)

// DecodeOptions controls decoding.
type DecodeOptions struct {
	// SizePrefixed expects a 4-byte total-length prefix before the buffer.
	SizePrefixed bool
	// Strict requires the MODL identifier, rejects schema versions newer
	// than CurrentSchemaVersion and runs Validate on the result. The
	// default is lenient: read what is understood, ignore the rest.
	Strict bool
}

// Decode materializes a buffer into a Model.
func Decode(buf []byte) (*Model, error) {
	return DecodeWithOptions(buf, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(buf []byte, opts DecodeOptions) (*Model, error) {
	var (
		root schema.Model
		err  error
	)
	if opts.SizePrefixed {
		if opts.Strict && !schema.SizePrefixedBufferHasIdentifier(buf) {
			return nil, ErrMissingIdentifier
		}
		root, err = schema.GetSizePrefixedRootAsModel(buf)
	} else {
		if opts.Strict && !schema.BufferHasIdentifier(buf) {
			return nil, ErrMissingIdentifier
		}
		root, err = schema.GetRootAsModel(buf)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	version, err := root.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if opts.Strict && version > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: %d (newest supported: %d)", ErrUnsupportedVersion, version, CurrentSchemaVersion)
	}

	m := &Model{SchemaVersion: version}

	graph, present, err := root.Graph()
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	if present {
		if m.Graph, err = decodeGraph(graph); err != nil {
			return nil, err
		}
	}

	if opts.Strict {
		if err := Validate(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeGraph(g schema.Graph) (Graph, error) {
	nodes, present, err := g.Nodes()
	if err != nil {
		return Graph{}, fmt.Errorf("read graph nodes: %w", err)
	}
	if !present {
		return Graph{}, nil
	}
	out := Graph{Nodes: make([]Node, nodes.Len())}
	for i := 0; i < nodes.Len(); i++ {
		t, err := nodes.Table(i)
		if err != nil {
			return Graph{}, fmt.Errorf("resolve node %d: %w", i, err)
		}
		if out.Nodes[i], err = decodeNode(schema.Node{Table: t}); err != nil {
			return Graph{}, fmt.Errorf("decode node %d: %w", i, err)
		}
	}
	return out, nil
}

func decodeNode(n schema.Node) (Node, error) {
	id, _, err := n.ID()
	if err != nil {
		return Node{}, fmt.Errorf("read id: %w", err)
	}
	out := Node{ID: id}

	kind, err := n.Kind()
	if err != nil {
		return Node{}, err
	}
	if kind == schema.NodeKindNone {
		return out, nil
	}

	data, present, err := n.Data()
	if err != nil {
		return Node{}, fmt.Errorf("read payload: %w", err)
	}
	if !present {
		// A non-NONE tag promises a payload table.
		return Node{}, &flat.CorruptError{Err: flat.ErrBadUnionTag, Pos: n.Pos, What: fmt.Sprintf("node kind %s without payload", kind)}
	}

	switch kind {
	case schema.NodeKindOperator:
		op, err := decodeOperator(schema.OperatorNode{Table: data})
		if err != nil {
			return Node{}, err
		}
		out.Data = op
	case schema.NodeKindConstant:
		c, err := decodeConstant(schema.ConstantNode{Table: data})
		if err != nil {
			return Node{}, err
		}
		out.Data = c
	case schema.NodeKindValue:
		out.Data = &Value{}
	}
	return out, nil
}

func decodeOperator(n schema.OperatorNode) (*Operator, error) {
	opType, err := n.Type()
	if err != nil {
		return nil, err
	}
	op := &Operator{Type: opType}

	attrsKind, err := n.AttrsType()
	if err != nil {
		return nil, err
	}
	if attrsKind != schema.AttrsNone {
		attrs, present, err := n.Attrs()
		if err != nil {
			return nil, fmt.Errorf("read attrs: %w", err)
		}
		if !present {
			return nil, &flat.CorruptError{Err: flat.ErrBadUnionTag, Pos: n.Pos, What: fmt.Sprintf("attrs tag %s without payload", attrsKind)}
		}
		if op.Attrs, err = decodeAttrs(attrsKind, attrs); err != nil {
			return nil, err
		}
	}

	inputs, present, err := n.Inputs()
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	if present {
		op.Inputs = inputs.Uint32s()
	}
	return op, nil
}

//nolint:gocyclo,cyclop // One arm per declared attribute table; splitting obscures the dispatch.
func decodeAttrs(kind schema.OperatorAttrs, t flat.Table) (Attrs, error) {
	collect := func(errs ...error) error {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	}

	switch kind {
	case schema.AttrsBatchNormalization:
		a := schema.BatchNormalizationAttrs{Table: t}
		out := &BatchNormalizationAttrs{}
		var err error
		out.Epsilon, err = a.Epsilon()
		return out, err
	case schema.AttrsClip:
		a := schema.ClipAttrs{Table: t}
		out := &ClipAttrs{}
		var errMin, errMax error
		out.Min, errMin = a.Min()
		out.Max, errMax = a.Max()
		return out, collect(errMin, errMax)
	case schema.AttrsConcat:
		a := schema.ConcatAttrs{Table: t}
		out := &ConcatAttrs{}
		var err error
		out.Dim, err = a.Dim()
		return out, err
	case schema.AttrsConv2d:
		a := schema.Conv2dAttrs{Table: t}
		out := &Conv2dAttrs{}
		var e1, e2, e3, e4, e5 error
		out.PadMode, e1 = a.PadMode()
		out.PadHorizontal, e2 = a.PadHorizontal()
		out.PadVertical, e3 = a.PadVertical()
		out.Groups, e4 = a.Groups()
		out.Stride, e5 = a.Stride()
		return out, collect(e1, e2, e3, e4, e5)
	case schema.AttrsConvTranspose2d:
		a := schema.ConvTranspose2dAttrs{Table: t}
		out := &ConvTranspose2dAttrs{}
		var err error
		out.Stride, err = a.Stride()
		return out, err
	case schema.AttrsGather:
		a := schema.GatherAttrs{Table: t}
		out := &GatherAttrs{}
		var err error
		out.Axis, err = a.Axis()
		return out, err
	case schema.AttrsGemm:
		a := schema.GemmAttrs{Table: t}
		out := &GemmAttrs{}
		var e1, e2, e3, e4 error
		out.Alpha, e1 = a.Alpha()
		out.Beta, e2 = a.Beta()
		out.TransposeA, e3 = a.TransposeA()
		out.TransposeB, e4 = a.TransposeB()
		return out, collect(e1, e2, e3, e4)
	case schema.AttrsLeakyRelu:
		a := schema.LeakyReluAttrs{Table: t}
		out := &LeakyReluAttrs{}
		var err error
		out.Alpha, err = a.Alpha()
		return out, err
	case schema.AttrsMaxPool2d:
		a := schema.MaxPool2dAttrs{Table: t}
		out := &MaxPool2dAttrs{}
		var e1, e2, e3, e4, e5 error
		out.KernelSize, e1 = a.KernelSize()
		out.PadMode, e2 = a.PadMode()
		out.PadHorizontal, e3 = a.PadHorizontal()
		out.PadVertical, e4 = a.PadVertical()
		out.Stride, e5 = a.Stride()
		return out, collect(e1, e2, e3, e4, e5)
	case schema.AttrsPad2d:
		a := schema.Pad2dAttrs{Table: t}
		out := &Pad2dAttrs{}
		var e1, e2, e3, e4 error
		out.PadLeft, e1 = a.PadLeft()
		out.PadRight, e2 = a.PadRight()
		out.PadTop, e3 = a.PadTop()
		out.PadBottom, e4 = a.PadBottom()
		return out, collect(e1, e2, e3, e4)
	case schema.AttrsUnsqueeze:
		a := schema.UnsqueezeAttrs{Table: t}
		out := &UnsqueezeAttrs{}
		axes, present, err := a.Axes()
		if err != nil {
			return nil, err
		}
		if present {
			out.Axes = axes.Uint32s()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("attrs tag %d: %w", kind, flat.ErrBadUnionTag)
	}
}

func decodeConstant(n schema.ConstantNode) (*Constant, error) {
	c := &Constant{}

	shape, present, err := n.Shape()
	if err != nil {
		return nil, fmt.Errorf("read shape: %w", err)
	}
	if present {
		c.Shape = shape.Uint32s()
	}

	dataKind, err := n.DataType()
	if err != nil {
		return nil, err
	}
	if dataKind == schema.ConstantNone {
		return c, nil
	}

	data, present, err := n.Data()
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if !present {
		return nil, &flat.CorruptError{Err: flat.ErrBadUnionTag, Pos: n.Pos, What: fmt.Sprintf("constant data tag %s without payload", dataKind)}
	}

	switch dataKind {
	case schema.ConstantFloat:
		d := schema.FloatData{Table: data}
		vec, present, err := d.Data()
		if err != nil {
			return nil, fmt.Errorf("read float payload: %w", err)
		}
		c.Data = FloatData(nil)
		if present {
			c.Data = FloatData(vec.Float32s())
		}
	case schema.ConstantInt:
		d := schema.IntData{Table: data}
		vec, present, err := d.Data()
		if err != nil {
			return nil, fmt.Errorf("read int payload: %w", err)
		}
		c.Data = IntData(nil)
		if present {
			c.Data = IntData(vec.Int32s())
		}
	}
	return c, nil
}

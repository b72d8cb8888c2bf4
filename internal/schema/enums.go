package schema

// Identifier is the 4-byte file identifier embedded after the root offset.
const Identifier = "MODL"

// OperatorType identifies the computation an OperatorNode performs.
type OperatorType int8

// Operator types.
const (
	OpAdd OperatorType = iota
	OpBatchNormalization
	OpClip
	OpConcat
	OpConv2d
	OpConvTranspose2d
	OpGather
	OpGemm
	OpGlobalAveragePool
	OpLeakyRelu
	OpMatMul
	OpMaxPool2d
	OpMul
	OpPad2d
	OpRelu
	OpReshape
	OpShape
	OpSigmoid
	OpSlice
	OpUnsqueeze
)

// Valid reports whether t is a declared operator type.
func (t OperatorType) Valid() bool {
	return t >= OpAdd && t <= OpUnsqueeze
}

// String returns a human-readable name for the operator type.
func (t OperatorType) String() string {
	switch t {
	case OpAdd:
		return "Add"
	case OpBatchNormalization:
		return "BatchNormalization"
	case OpClip:
		return "Clip"
	case OpConcat:
		return "Concat"
	case OpConv2d:
		return "Conv2d"
	case OpConvTranspose2d:
		return "ConvTranspose2d"
	case OpGather:
		return "Gather"
	case OpGemm:
		return "Gemm"
	case OpGlobalAveragePool:
		return "GlobalAveragePool"
	case OpLeakyRelu:
		return "LeakyRelu"
	case OpMatMul:
		return "MatMul"
	case OpMaxPool2d:
		return "MaxPool2d"
	case OpMul:
		return "Mul"
	case OpPad2d:
		return "Pad2d"
	case OpRelu:
		return "Relu"
	case OpReshape:
		return "Reshape"
	case OpShape:
		return "Shape"
	case OpSigmoid:
		return "Sigmoid"
	case OpSlice:
		return "Slice"
	case OpUnsqueeze:
		return "Unsqueeze"
	default:
		return "unknown"
	}
}

// PadMode selects how Conv2d and MaxPool2d derive padding.
type PadMode int8

// Padding modes.
const (
	PadSame PadMode = iota
	PadFixed
)

// Valid reports whether m is a declared padding mode.
func (m PadMode) Valid() bool {
	return m == PadSame || m == PadFixed
}

// String returns a human-readable name for the padding mode.
func (m PadMode) String() string {
	switch m {
	case PadSame:
		return "Same"
	case PadFixed:
		return "Fixed"
	default:
		return "unknown"
	}
}

// NodeKind is the union tag selecting a Node's payload type.
type NodeKind uint8

// Node payload kinds.
const (
	NodeKindNone NodeKind = iota
	NodeKindOperator
	NodeKindConstant
	NodeKindValue
)

// Valid reports whether k is a declared node kind.
func (k NodeKind) Valid() bool {
	return k <= NodeKindValue
}

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeKindNone:
		return "NONE"
	case NodeKindOperator:
		return "OperatorNode"
	case NodeKindConstant:
		return "ConstantNode"
	case NodeKindValue:
		return "ValueNode"
	default:
		return "unknown"
	}
}

// OperatorAttrs is the union tag selecting which attribute table, if any,
// accompanies an OperatorNode. AttrsNone is valid for operators with no
// parameters.
type OperatorAttrs uint8

// Attribute table kinds.
const (
	AttrsNone OperatorAttrs = iota
	AttrsBatchNormalization
	AttrsClip
	AttrsConcat
	AttrsConv2d
	AttrsConvTranspose2d
	AttrsGather
	AttrsGemm
	AttrsLeakyRelu
	AttrsMaxPool2d
	AttrsPad2d
	AttrsUnsqueeze
)

// Valid reports whether a is a declared attribute kind.
func (a OperatorAttrs) Valid() bool {
	return a <= AttrsUnsqueeze
}

// String returns a human-readable name for the attribute kind.
func (a OperatorAttrs) String() string {
	switch a {
	case AttrsNone:
		return "NONE"
	case AttrsBatchNormalization:
		return "BatchNormalizationAttrs"
	case AttrsClip:
		return "ClipAttrs"
	case AttrsConcat:
		return "ConcatAttrs"
	case AttrsConv2d:
		return "Conv2dAttrs"
	case AttrsConvTranspose2d:
		return "ConvTranspose2dAttrs"
	case AttrsGather:
		return "GatherAttrs"
	case AttrsGemm:
		return "GemmAttrs"
	case AttrsLeakyRelu:
		return "LeakyReluAttrs"
	case AttrsMaxPool2d:
		return "MaxPool2dAttrs"
	case AttrsPad2d:
		return "Pad2dAttrs"
	case AttrsUnsqueeze:
		return "UnsqueezeAttrs"
	default:
		return "unknown"
	}
}

// ConstantData is the union tag selecting a ConstantNode's payload type.
type ConstantData uint8

// Constant payload kinds.
const (
	ConstantNone ConstantData = iota
	ConstantFloat
	ConstantInt
)

// Valid reports whether d is a declared constant payload kind.
func (d ConstantData) Valid() bool {
	return d <= ConstantInt
}

// String returns a human-readable name for the constant payload kind.
func (d ConstantData) String() string {
	switch d {
	case ConstantNone:
		return "NONE"
	case ConstantFloat:
		return "FloatData"
	case ConstantInt:
		return "IntData"
	default:
		return "unknown"
	}
}

package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/modl-ml/modl/internal/schema"
)

// attrsForOp maps each operator type to the attribute table it accepts.
// Operators without an entry take no parameters.
var attrsForOp = map[schema.OperatorType]schema.OperatorAttrs{
	schema.OpBatchNormalization: schema.AttrsBatchNormalization,
	schema.OpClip:               schema.AttrsClip,
	schema.OpConcat:             schema.AttrsConcat,
	schema.OpConv2d:             schema.AttrsConv2d,
	schema.OpConvTranspose2d:    schema.AttrsConvTranspose2d,
	schema.OpGather:             schema.AttrsGather,
	schema.OpGemm:               schema.AttrsGemm,
	schema.OpLeakyRelu:          schema.AttrsLeakyRelu,
	schema.OpMaxPool2d:          schema.AttrsMaxPool2d,
	schema.OpPad2d:              schema.AttrsPad2d,
	schema.OpUnsqueeze:          schema.AttrsUnsqueeze,
}

// Validate checks the producer contracts the wire format cannot enforce on
// its own: node id uniqueness, constant payload length against the shape
// product, operator input indices against the node count, and attribute
// records against their operator type. Every violation is reported, not just
// the first.
func Validate(m *Model) error {
	var result *multierror.Error

	seen := make(map[string]int, len(m.Graph.Nodes))
	for i, n := range m.Graph.Nodes {
		if prev, ok := seen[n.ID]; ok {
			result = multierror.Append(result, fmt.Errorf("node %d: %w: %q already used by node %d", i, ErrDuplicateNodeID, n.ID, prev))
		} else {
			seen[n.ID] = i
		}

		switch d := n.Data.(type) {
		case *Operator:
			result = multierror.Append(result, validateOperator(i, n.ID, d, len(m.Graph.Nodes)))
		case *Constant:
			result = multierror.Append(result, validateConstant(i, n.ID, d))
		}
	}

	return result.ErrorOrNil()
}

func validateOperator(idx int, id string, op *Operator, nodeCount int) error {
	var result *multierror.Error

	if !op.Type.Valid() {
		result = multierror.Append(result, fmt.Errorf("node %d (%q): operator type %d out of range", idx, id, op.Type))
	}

	want, hasAttrs := attrsForOp[op.Type]
	switch {
	case op.Attrs == nil:
		// NONE is always a valid attrs state, even for parameterized
		// operators: every attribute field has a default.
	case !hasAttrs:
		result = multierror.Append(result, fmt.Errorf("node %d (%q): %w: %s takes no attributes, got %s",
			idx, id, ErrAttrsMismatch, op.Type, op.Attrs.attrsKind()))
	case op.Attrs.attrsKind() != want:
		result = multierror.Append(result, fmt.Errorf("node %d (%q): %w: %s expects %s, got %s",
			idx, id, ErrAttrsMismatch, op.Type, want, op.Attrs.attrsKind()))
	}

	for j, in := range op.Inputs {
		if in >= uint32(nodeCount) {
			result = multierror.Append(result, fmt.Errorf("node %d (%q): input %d: %w: %d >= %d",
				idx, id, j, ErrInputOutOfRange, in, nodeCount))
		}
	}

	return result.ErrorOrNil()
}

func validateConstant(idx int, id string, c *Constant) error {
	if c.Data == nil {
		return nil
	}
	want := 1
	for _, dim := range c.Shape {
		want *= int(dim)
	}
	if got := c.Data.payloadLen(); got != want {
		return fmt.Errorf("node %d (%q): %w: shape %v wants %d elements, payload has %d",
			idx, id, ErrShapeMismatch, c.Shape, want, got)
	}
	return nil
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modl-ml/modl/internal/schema"
)

func TestValidateOK(t *testing.T) {
	m := &Model{
		SchemaVersion: 1,
		Graph: Graph{Nodes: []Node{
			{ID: "x", Data: &Value{}},
			{ID: "w", Data: &Constant{Shape: []uint32{2, 3}, Data: FloatData{1, 2, 3, 4, 5, 6}}},
			{ID: "y", Data: &Operator{Type: schema.OpMatMul, Inputs: []uint32{0, 1}}},
		}},
	}
	assert.NoError(t, Validate(m))
}

func TestValidateDuplicateID(t *testing.T) {
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "x", Data: &Value{}},
		{ID: "x", Data: &Value{}},
	}}}
	err := Validate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNodeID)
}

func TestValidateShapeMismatch(t *testing.T) {
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "w", Data: &Constant{Shape: []uint32{2, 2}, Data: FloatData{1, 2, 3}}},
	}}}
	err := Validate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestValidateScalarShape(t *testing.T) {
	// Empty shape means scalar: exactly one element.
	ok := &Model{Graph: Graph{Nodes: []Node{
		{ID: "c", Data: &Constant{Data: IntData{5}}},
	}}}
	assert.NoError(t, Validate(ok))

	bad := &Model{Graph: Graph{Nodes: []Node{
		{ID: "c", Data: &Constant{Data: IntData{5, 6}}},
	}}}
	assert.ErrorIs(t, Validate(bad), ErrShapeMismatch)
}

func TestValidateConstantWithoutPayload(t *testing.T) {
	// No payload at all is a valid state whatever the shape says.
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "c", Data: &Constant{Shape: []uint32{4}}},
	}}}
	assert.NoError(t, Validate(m))
}

func TestValidateInputOutOfRange(t *testing.T) {
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "y", Data: &Operator{Type: schema.OpRelu, Inputs: []uint32{0, 1}}},
	}}}
	err := Validate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputOutOfRange)
}

func TestValidateAttrsMismatch(t *testing.T) {
	// Conv2d attributes on a MatMul.
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "x", Data: &Value{}},
		{ID: "y", Data: &Operator{Type: schema.OpMatMul, Attrs: &Conv2dAttrs{Stride: 2}, Inputs: []uint32{0}}},
	}}}
	err := Validate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAttrsMismatch)
}

func TestValidateMissingAttrsAllowed(t *testing.T) {
	// Every attribute field has a default, so NONE attrs are valid even for
	// parameterized operators.
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "x", Data: &Value{}},
		{ID: "y", Data: &Operator{Type: schema.OpConv2d, Inputs: []uint32{0}}},
	}}}
	assert.NoError(t, Validate(m))
}

func TestValidateReportsEveryViolation(t *testing.T) {
	m := &Model{Graph: Graph{Nodes: []Node{
		{ID: "x", Data: &Value{}},
		{ID: "x", Data: &Constant{Shape: []uint32{2}, Data: FloatData{1}}},
		{ID: "y", Data: &Operator{Type: schema.OpRelu, Inputs: []uint32{9}}},
	}}}
	err := Validate(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateNodeID)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.ErrorIs(t, err, ErrInputOutOfRange)
}

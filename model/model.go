// Copyright 2025 MODL Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model is the public API for reading and writing MODL model
// buffers: a flat, offset-based, random-access container for neural-network
// computation graphs.
//
// A buffer is encoded once and is immutable afterwards; any number of
// readers may consume it concurrently without synchronization.
//
// Example:
//
//	m := &model.Model{
//	    SchemaVersion: model.CurrentSchemaVersion,
//	    Graph: model.Graph{Nodes: []model.Node{
//	        {ID: "x", Data: &model.Value{}},
//	        {ID: "w", Data: &model.Constant{Shape: []uint32{2, 2}, Data: model.FloatData{1, 2, 3, 4}}},
//	        {ID: "y", Data: &model.Operator{Type: model.OpMatMul, Inputs: []uint32{0, 1}}},
//	    }},
//	}
//	buf, err := model.Encode(m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	back, err := model.Decode(buf)
package model

import (
	"github.com/modl-ml/modl/internal/model"
	"github.com/modl-ml/modl/internal/schema"
)

// CurrentSchemaVersion is the schema revision this package writes.
const CurrentSchemaVersion = model.CurrentSchemaVersion

// Identifier is the 4-byte file identifier carried by finished buffers.
const Identifier = schema.Identifier

// Graph value types.
type (
	// Model is the root of a computation-graph artifact.
	Model = model.Model
	// Graph is an ordered sequence of nodes in evaluation order.
	Graph = model.Graph
	// Node is a named graph vertex.
	Node = model.Node
	// NodeData is the closed set of node payloads.
	NodeData = model.NodeData
	// Operator is a computation step.
	Operator = model.Operator
	// Constant is an embedded tensor literal.
	Constant = model.Constant
	// Value marks a runtime value with no embedded payload.
	Value = model.Value
	// ConstantPayload is the closed set of constant payloads.
	ConstantPayload = model.ConstantPayload
	// FloatData is a flat float32 payload.
	FloatData = model.FloatData
	// IntData is a flat int32 payload.
	IntData = model.IntData
)

// Attribute records.
type (
	Attrs                   = model.Attrs
	BatchNormalizationAttrs = model.BatchNormalizationAttrs
	ClipAttrs               = model.ClipAttrs
	ConcatAttrs             = model.ConcatAttrs
	Conv2dAttrs             = model.Conv2dAttrs
	ConvTranspose2dAttrs    = model.ConvTranspose2dAttrs
	GatherAttrs             = model.GatherAttrs
	GemmAttrs               = model.GemmAttrs
	LeakyReluAttrs          = model.LeakyReluAttrs
	MaxPool2dAttrs          = model.MaxPool2dAttrs
	Pad2dAttrs              = model.Pad2dAttrs
	UnsqueezeAttrs          = model.UnsqueezeAttrs
)

// OperatorType identifies the computation an Operator performs.
type OperatorType = schema.OperatorType

// Operator types.
const (
	OpAdd                = schema.OpAdd
	OpBatchNormalization = schema.OpBatchNormalization
	OpClip               = schema.OpClip
	OpConcat             = schema.OpConcat
	OpConv2d             = schema.OpConv2d
	OpConvTranspose2d    = schema.OpConvTranspose2d
	OpGather             = schema.OpGather
	OpGemm               = schema.OpGemm
	OpGlobalAveragePool  = schema.OpGlobalAveragePool
	OpLeakyRelu          = schema.OpLeakyRelu
	OpMatMul             = schema.OpMatMul
	OpMaxPool2d          = schema.OpMaxPool2d
	OpMul                = schema.OpMul
	OpPad2d              = schema.OpPad2d
	OpRelu               = schema.OpRelu
	OpReshape            = schema.OpReshape
	OpShape              = schema.OpShape
	OpSigmoid            = schema.OpSigmoid
	OpSlice              = schema.OpSlice
	OpUnsqueeze          = schema.OpUnsqueeze
)

// PadMode selects how Conv2d and MaxPool2d derive padding.
type PadMode = schema.PadMode

// Padding modes.
const (
	PadSame  = schema.PadSame
	PadFixed = schema.PadFixed
)

// DecodeOptions controls decoding.
type DecodeOptions = model.DecodeOptions

// File provides memory-mapped, zero-copy access to a model file.
type File = model.File

// Common errors.
var (
	ErrUnsupportedVersion = model.ErrUnsupportedVersion
	ErrMissingIdentifier  = model.ErrMissingIdentifier
	ErrDuplicateNodeID    = model.ErrDuplicateNodeID
	ErrShapeMismatch      = model.ErrShapeMismatch
	ErrInputOutOfRange    = model.ErrInputOutOfRange
	ErrAttrsMismatch      = model.ErrAttrsMismatch
)

// Encode serializes m into one immutable buffer.
func Encode(m *Model) ([]byte, error) {
	return model.Encode(m)
}

// EncodeSizePrefixed is Encode with a leading 4-byte length prefix for
// stream framing.
func EncodeSizePrefixed(m *Model) ([]byte, error) {
	return model.EncodeSizePrefixed(m)
}

// Decode materializes a buffer into a Model, leniently.
func Decode(buf []byte) (*Model, error) {
	return model.Decode(buf)
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(buf []byte, opts DecodeOptions) (*Model, error) {
	return model.DecodeWithOptions(buf, opts)
}

// Validate checks the producer contracts the wire format cannot enforce,
// reporting every violation.
func Validate(m *Model) error {
	return model.Validate(m)
}

// OpenFile memory-maps a model file for zero-copy reading.
func OpenFile(path string) (*File, error) {
	return model.OpenFile(path)
}

// Load reads and materializes a model file in one call.
func Load(path string, opts DecodeOptions) (*Model, error) {
	return model.Load(path, opts)
}

// Save encodes m and writes it to path.
func Save(path string, m *Model) error {
	return model.Save(path, m)
}

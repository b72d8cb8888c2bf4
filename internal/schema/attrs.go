package schema

import (
	"github.com/modl-ml/modl/internal/flat"
)

// BatchNormalizationAttrs parameterizes a BatchNormalization operator.
type BatchNormalizationAttrs struct {
	flat.Table
}

func (a BatchNormalizationAttrs) Epsilon() (float32, error) {
	return a.Float32Field(0, 0)
}

// WriteBatchNormalizationAttrs serializes one instance and returns its offset.
func WriteBatchNormalizationAttrs(b *flat.Builder, epsilon float32) uint32 {
	b.StartObject(1)
	b.PrependFloat32Slot(0, epsilon, 0)
	return b.EndObject()
}

// ClipAttrs parameterizes a Clip operator.
type ClipAttrs struct {
	flat.Table
}

func (a ClipAttrs) Min() (float32, error) {
	return a.Float32Field(0, 0)
}

func (a ClipAttrs) Max() (float32, error) {
	return a.Float32Field(1, 0)
}

func WriteClipAttrs(b *flat.Builder, min, max float32) uint32 {
	b.StartObject(2)
	b.PrependFloat32Slot(1, max, 0)
	b.PrependFloat32Slot(0, min, 0)
	return b.EndObject()
}

// ConcatAttrs parameterizes a Concat operator.
type ConcatAttrs struct {
	flat.Table
}

func (a ConcatAttrs) Dim() (uint32, error) {
	return a.Uint32Field(0, 0)
}

func WriteConcatAttrs(b *flat.Builder, dim uint32) uint32 {
	b.StartObject(1)
	b.PrependUint32Slot(0, dim, 0)
	return b.EndObject()
}

// Conv2dAttrs parameterizes a Conv2d operator.
type Conv2dAttrs struct {
	flat.Table
}

func (a Conv2dAttrs) PadMode() (PadMode, error) {
	v, err := a.Int8Field(0, 0)
	return PadMode(v), err
}

func (a Conv2dAttrs) PadHorizontal() (uint32, error) {
	return a.Uint32Field(1, 0)
}

func (a Conv2dAttrs) PadVertical() (uint32, error) {
	return a.Uint32Field(2, 0)
}

func (a Conv2dAttrs) Groups() (uint32, error) {
	return a.Uint32Field(3, 0)
}

func (a Conv2dAttrs) Stride() (uint32, error) {
	return a.Uint32Field(4, 0)
}

func WriteConv2dAttrs(b *flat.Builder, padMode PadMode, padH, padV, groups, stride uint32) uint32 {
	b.StartObject(5)
	b.PrependUint32Slot(4, stride, 0)
	b.PrependUint32Slot(3, groups, 0)
	b.PrependUint32Slot(2, padV, 0)
	b.PrependUint32Slot(1, padH, 0)
	b.PrependInt8Slot(0, int8(padMode), 0)
	return b.EndObject()
}

// ConvTranspose2dAttrs parameterizes a ConvTranspose2d operator.
type ConvTranspose2dAttrs struct {
	flat.Table
}

func (a ConvTranspose2dAttrs) Stride() (uint32, error) {
	return a.Uint32Field(0, 0)
}

func WriteConvTranspose2dAttrs(b *flat.Builder, stride uint32) uint32 {
	b.StartObject(1)
	b.PrependUint32Slot(0, stride, 0)
	return b.EndObject()
}

// GatherAttrs parameterizes a Gather operator.
type GatherAttrs struct {
	flat.Table
}

func (a GatherAttrs) Axis() (uint32, error) {
	return a.Uint32Field(0, 0)
}

func WriteGatherAttrs(b *flat.Builder, axis uint32) uint32 {
	b.StartObject(1)
	b.PrependUint32Slot(0, axis, 0)
	return b.EndObject()
}

// GemmAttrs parameterizes a Gemm operator.
type GemmAttrs struct {
	flat.Table
}

func (a GemmAttrs) Alpha() (float32, error) {
	return a.Float32Field(0, 0)
}

func (a GemmAttrs) Beta() (float32, error) {
	return a.Float32Field(1, 0)
}

func (a GemmAttrs) TransposeA() (bool, error) {
	return a.BoolField(2, false)
}

func (a GemmAttrs) TransposeB() (bool, error) {
	return a.BoolField(3, false)
}

func WriteGemmAttrs(b *flat.Builder, alpha, beta float32, transposeA, transposeB bool) uint32 {
	b.StartObject(4)
	b.PrependBoolSlot(3, transposeB, false)
	b.PrependBoolSlot(2, transposeA, false)
	b.PrependFloat32Slot(1, beta, 0)
	b.PrependFloat32Slot(0, alpha, 0)
	return b.EndObject()
}

// LeakyReluAttrs parameterizes a LeakyRelu operator.
type LeakyReluAttrs struct {
	flat.Table
}

func (a LeakyReluAttrs) Alpha() (float32, error) {
	return a.Float32Field(0, 0)
}

func WriteLeakyReluAttrs(b *flat.Builder, alpha float32) uint32 {
	b.StartObject(1)
	b.PrependFloat32Slot(0, alpha, 0)
	return b.EndObject()
}

// MaxPool2dAttrs parameterizes a MaxPool2d operator.
type MaxPool2dAttrs struct {
	flat.Table
}

func (a MaxPool2dAttrs) KernelSize() (uint32, error) {
	return a.Uint32Field(0, 0)
}

func (a MaxPool2dAttrs) PadMode() (PadMode, error) {
	v, err := a.Int8Field(1, 0)
	return PadMode(v), err
}

func (a MaxPool2dAttrs) PadHorizontal() (uint32, error) {
	return a.Uint32Field(2, 0)
}

func (a MaxPool2dAttrs) PadVertical() (uint32, error) {
	return a.Uint32Field(3, 0)
}

func (a MaxPool2dAttrs) Stride() (uint32, error) {
	return a.Uint32Field(4, 0)
}

func WriteMaxPool2dAttrs(b *flat.Builder, kernelSize uint32, padMode PadMode, padH, padV, stride uint32) uint32 {
	b.StartObject(5)
	b.PrependUint32Slot(4, stride, 0)
	b.PrependUint32Slot(3, padV, 0)
	b.PrependUint32Slot(2, padH, 0)
	b.PrependInt8Slot(1, int8(padMode), 0)
	b.PrependUint32Slot(0, kernelSize, 0)
	return b.EndObject()
}

// Pad2dAttrs parameterizes a Pad2d operator.
type Pad2dAttrs struct {
	flat.Table
}

func (a Pad2dAttrs) PadLeft() (uint32, error) {
	return a.Uint32Field(0, 0)
}

func (a Pad2dAttrs) PadRight() (uint32, error) {
	return a.Uint32Field(1, 0)
}

func (a Pad2dAttrs) PadTop() (uint32, error) {
	return a.Uint32Field(2, 0)
}

func (a Pad2dAttrs) PadBottom() (uint32, error) {
	return a.Uint32Field(3, 0)
}

func WritePad2dAttrs(b *flat.Builder, left, right, top, bottom uint32) uint32 {
	b.StartObject(4)
	b.PrependUint32Slot(3, bottom, 0)
	b.PrependUint32Slot(2, top, 0)
	b.PrependUint32Slot(1, right, 0)
	b.PrependUint32Slot(0, left, 0)
	return b.EndObject()
}

// UnsqueezeAttrs parameterizes an Unsqueeze operator.
type UnsqueezeAttrs struct {
	flat.Table
}

func (a UnsqueezeAttrs) Axes() (flat.Vector, bool, error) {
	return a.VectorField(0, 4)
}

func WriteUnsqueezeAttrs(b *flat.Builder, axes []uint32) uint32 {
	var axesOff uint32
	if axes != nil {
		axesOff = b.CreateUint32Vector(axes)
	}
	b.StartObject(1)
	b.PrependUOffsetSlot(0, axesOff)
	return b.EndObject()
}

package flat

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTwoFieldTable writes a table with uint32 slots 0 and 1 and finishes
// the buffer with it as root.
func buildTwoFieldTable(t *testing.T, a, b uint32) []byte {
	t.Helper()
	bld := NewBuilder(64)
	bld.StartObject(2)
	bld.PrependUint32Slot(1, b, 0)
	bld.PrependUint32Slot(0, a, 0)
	root := bld.EndObject()
	bld.Finish(root, "")
	return bld.FinishedBytes()
}

func TestTableRoundTrip(t *testing.T) {
	buf := buildTwoFieldTable(t, 7, 9)

	root, err := GetRoot(buf)
	require.NoError(t, err)

	a, err := root.Uint32Field(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), a)

	b, err := root.Uint32Field(1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), b)
}

func TestDefaultElision(t *testing.T) {
	// Omitting a default-valued field and writing it explicitly must decode
	// identically.
	elided := buildTwoFieldTable(t, 7, 0)

	bld := NewBuilder(64)
	bld.StartObject(2)
	bld.PrependUint32(0) // force the default onto the wire
	bld.slot(1)
	bld.PrependUint32Slot(0, 7, 0)
	bld.Finish(bld.EndObject(), "")
	explicit := bld.FinishedBytes()

	for _, buf := range [][]byte{elided, explicit} {
		root, err := GetRoot(buf)
		require.NoError(t, err)
		a, err := root.Uint32Field(0, 0)
		require.NoError(t, err)
		b, err := root.Uint32Field(1, 0)
		require.NoError(t, err)
		assert.Equal(t, uint32(7), a)
		assert.Equal(t, uint32(0), b)
	}
	// The elided form must also be smaller.
	assert.Less(t, len(elided), len(explicit))
}

func TestForwardCompatibility(t *testing.T) {
	// A writer with more declared slots than the reader knows about: the
	// reader resolves the slots it understands and never touches the rest.
	bld := NewBuilder(64)
	bld.StartObject(4)
	bld.PrependUint32Slot(3, 99, 0)
	bld.PrependUint32Slot(2, 88, 0)
	bld.PrependUint32Slot(1, 9, 0)
	bld.PrependUint32Slot(0, 7, 0)
	bld.Finish(bld.EndObject(), "")

	root, err := GetRoot(bld.FinishedBytes())
	require.NoError(t, err)
	a, err := root.Uint32Field(0, 0)
	require.NoError(t, err)
	b, err := root.Uint32Field(1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), a)
	assert.Equal(t, uint32(9), b)
}

func TestBackwardCompatibility(t *testing.T) {
	// A reader expecting trailing slots an old writer never declared gets
	// defaults for them, not errors.
	buf := buildTwoFieldTable(t, 7, 9)

	root, err := GetRoot(buf)
	require.NoError(t, err)
	for slot := uint16(2); slot < 5; slot++ {
		v, err := root.Uint32Field(slot, 42)
		require.NoError(t, err)
		assert.Equal(t, uint32(42), v, "slot %d", slot)
	}
}

// vtablePos resolves the vtable position of the table at pos.
func vtablePos(t *testing.T, buf []byte, pos uint32) uint32 {
	t.Helper()
	disp := int32(binary.LittleEndian.Uint32(buf[pos:]))
	return uint32(int64(pos) - int64(disp))
}

func TestVtableDeduplication(t *testing.T) {
	bld := NewBuilder(64)

	bld.StartObject(2)
	bld.PrependUint32Slot(1, 2, 0)
	bld.PrependUint32Slot(0, 1, 0)
	first := bld.EndObject()

	bld.StartObject(2)
	bld.PrependUint32Slot(1, 20, 0)
	bld.PrependUint32Slot(0, 10, 0)
	second := bld.EndObject()

	bld.StartVector(4, 2, 4)
	bld.PrependUOffset(second)
	bld.PrependUOffset(first)
	vec := bld.EndVector(2)

	bld.StartObject(1)
	bld.PrependUOffsetSlot(0, vec)
	bld.Finish(bld.EndObject(), "")
	buf := bld.FinishedBytes()

	// Identical field-presence patterns share one vtable region.
	firstPos := uint32(len(buf)) - first
	secondPos := uint32(len(buf)) - second
	assert.Equal(t, vtablePos(t, buf, firstPos), vtablePos(t, buf, secondPos))
}

func TestStringRoundTrip(t *testing.T) {
	bld := NewBuilder(64)
	s := bld.CreateString("hello")
	empty := bld.CreateString("")
	bld.StartObject(2)
	bld.PrependUOffsetSlot(1, empty)
	bld.PrependUOffsetSlot(0, s)
	bld.Finish(bld.EndObject(), "")

	root, err := GetRoot(bld.FinishedBytes())
	require.NoError(t, err)

	got, present, err := root.StringField(0)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "hello", got)

	// Present-but-empty is distinct from absent.
	got, present, err = root.StringField(1)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "", got)
}

func TestStringNulTerminated(t *testing.T) {
	bld := NewBuilder(64)
	s := bld.CreateString("abc")
	bld.StartObject(1)
	bld.PrependUOffsetSlot(0, s)
	bld.Finish(bld.EndObject(), "")
	buf := bld.FinishedBytes()

	root, err := GetRoot(buf)
	require.NoError(t, err)
	v, present, err := root.vectorField(0, 1, "string")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, byte(0), buf[v.start+v.length])
}

func TestVectorRoundTrip(t *testing.T) {
	bld := NewBuilder(64)
	vec := bld.CreateFloat32Vector([]float32{1.5, -2.5, 3})
	bld.StartObject(1)
	bld.PrependUOffsetSlot(0, vec)
	bld.Finish(bld.EndObject(), "")

	root, err := GetRoot(bld.FinishedBytes())
	require.NoError(t, err)
	v, present, err := root.VectorField(0, 4)
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, []float32{1.5, -2.5, 3}, v.Float32s())

	elem, err := v.Float32(1)
	require.NoError(t, err)
	assert.Equal(t, float32(-2.5), elem)

	_, err = v.Float32(3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestAbsentVector(t *testing.T) {
	bld := NewBuilder(64)
	bld.StartObject(1)
	bld.Finish(bld.EndObject(), "")

	root, err := GetRoot(bld.FinishedBytes())
	require.NoError(t, err)
	_, present, err := root.VectorField(0, 4)
	require.NoError(t, err)
	assert.False(t, present)
}

func TestFinishWithIdentifier(t *testing.T) {
	bld := NewBuilder(64)
	bld.StartObject(1)
	bld.PrependUint32Slot(0, 5, 0)
	bld.Finish(bld.EndObject(), "MODL")
	buf := bld.FinishedBytes()

	assert.True(t, BufferHasIdentifier(buf, "MODL"))
	assert.False(t, BufferHasIdentifier(buf, "XXXX"))

	root, err := GetRoot(buf)
	require.NoError(t, err)
	v, err := root.Uint32Field(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}

func TestFinishSizePrefixed(t *testing.T) {
	bld := NewBuilder(64)
	bld.StartObject(1)
	bld.PrependUint32Slot(0, 5, 0)
	bld.FinishSizePrefixed(bld.EndObject(), "MODL")
	buf := bld.FinishedBytes()

	size := binary.LittleEndian.Uint32(buf)
	assert.Equal(t, int(size)+SizeUOffset, len(buf))
	assert.True(t, SizePrefixedBufferHasIdentifier(buf, "MODL"))

	root, err := GetSizePrefixedRoot(buf)
	require.NoError(t, err)
	v, err := root.Uint32Field(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}

func TestBuilderGrows(t *testing.T) {
	bld := NewBuilder(16)
	vals := make([]uint32, 1000)
	for i := range vals {
		vals[i] = uint32(i)
	}
	vec := bld.CreateUint32Vector(vals)
	bld.StartObject(1)
	bld.PrependUOffsetSlot(0, vec)
	bld.Finish(bld.EndObject(), "")

	root, err := GetRoot(bld.FinishedBytes())
	require.NoError(t, err)
	v, present, err := root.VectorField(0, 4)
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, vals, v.Uint32s())
}

func TestBuilderPanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() {
		bld := NewBuilder(64)
		bld.EndObject() // no StartObject
	})
	assert.Panics(t, func() {
		bld := NewBuilder(64)
		bld.StartObject(1)
		bld.StartObject(1) // nested object
	})
	assert.Panics(t, func() {
		bld := NewBuilder(64)
		bld.StartObject(0)
		bld.Finish(bld.EndObject(), "TOOLONGID")
	})
}

func TestCorruptBuffers(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrBufferTooSmall},
		{"short", []byte{1, 2}, ErrBufferTooSmall},
		{"root past end", []byte{0xFF, 0xFF, 0, 0}, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetRoot(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ce *CorruptError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestTruncatedTableErrorsNotDefaults(t *testing.T) {
	buf := buildTwoFieldTable(t, 7, 9)

	// Cut the buffer short so the table body is gone: field access must
	// fail, never report a default.
	trunc := buf[:6]
	root := Table{Buf: trunc, Pos: binary.LittleEndian.Uint32(buf)}
	_, err := root.Uint32Field(0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

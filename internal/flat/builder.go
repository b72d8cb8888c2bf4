package flat

import (
	"encoding/binary"
	"math"
)

// Builder constructs a buffer back to front: children are finished, and
// therefore addressable, before the parent that references them is started.
// A Builder is single-writer state and must not be shared across goroutines.
//
// Protocol violations (ending an object that was never started, adding slots
// out of nesting, reusing a finished builder) are caller bugs and panic; they
// are never reachable from decoding untrusted input.
type Builder struct {
	buf       []byte
	head      uint32 // index of the first written byte; writes move it down
	minalign  uint32
	vtable    []uint32 // field offsets (from buffer end) of the open object
	objectEnd uint32
	vtables   map[string]uint32 // serialized vtable bytes -> offset from end
	nested    bool
	finished  bool
}

// NewBuilder returns a Builder with an initial scratch capacity.
func NewBuilder(initialSize int) *Builder {
	if initialSize <= 0 {
		initialSize = 1024
	}
	return &Builder{
		buf:      make([]byte, initialSize),
		head:     uint32(initialSize),
		minalign: 1,
		vtables:  make(map[string]uint32),
	}
}

// offset returns the number of bytes written so far; it is also the offset
// of the most recently placed value, measured from the buffer end.
func (b *Builder) offset() uint32 {
	return uint32(len(b.buf)) - b.head
}

// FinishedBytes returns the completed buffer. Valid only after Finish.
func (b *Builder) FinishedBytes() []byte {
	b.assertFinished()
	return b.buf[b.head:]
}

func (b *Builder) assertNotNested() {
	if b.nested {
		panic("flat: object construction already in progress")
	}
}

func (b *Builder) assertNested() {
	if !b.nested {
		panic("flat: no object construction in progress")
	}
}

func (b *Builder) assertFinished() {
	if !b.finished {
		panic("flat: buffer not finished")
	}
}

func (b *Builder) assertNotFinished() {
	if b.finished {
		panic("flat: buffer already finished")
	}
}

// grow doubles the scratch buffer, keeping written bytes anchored at the end
// so all offsets-from-end stay valid.
func (b *Builder) grow() {
	oldLen := len(b.buf)
	if oldLen&0xC0000000 != 0 {
		panic("flat: buffer cannot grow past 1 GiB")
	}
	newBuf := make([]byte, oldLen*2)
	copy(newBuf[oldLen:], b.buf)
	b.buf = newBuf
	b.head += uint32(oldLen)
}

// prep aligns for a value of the given size that will be written after
// additional trailing bytes, growing the buffer as needed.
func (b *Builder) prep(size, additional uint32) {
	if size > b.minalign {
		b.minalign = size
	}
	// Pad so the value ends up aligned once the trailing bytes are in place.
	align := (^(uint32(len(b.buf)) - b.head + additional) + 1) & (size - 1)
	for b.head < align+size+additional {
		b.grow()
	}
	for i := uint32(0); i < align; i++ {
		b.head--
		b.buf[b.head] = 0
	}
}

func (b *Builder) placeByte(v byte) {
	b.head--
	b.buf[b.head] = v
}

func (b *Builder) placeUint16(v uint16) {
	b.head -= 2
	binary.LittleEndian.PutUint16(b.buf[b.head:], v)
}

func (b *Builder) placeUint32(v uint32) {
	b.head -= 4
	binary.LittleEndian.PutUint32(b.buf[b.head:], v)
}

func (b *Builder) placeUint64(v uint64) {
	b.head -= 8
	binary.LittleEndian.PutUint64(b.buf[b.head:], v)
}

// Prepends of bare scalars (vector elements, union tags already in tables).

func (b *Builder) PrependBool(v bool) {
	b.prep(1, 0)
	if v {
		b.placeByte(1)
	} else {
		b.placeByte(0)
	}
}

func (b *Builder) PrependUint8(v uint8) {
	b.prep(1, 0)
	b.placeByte(v)
}

func (b *Builder) PrependInt8(v int8) {
	b.prep(1, 0)
	b.placeByte(byte(v))
}

func (b *Builder) PrependUint16(v uint16) {
	b.prep(2, 0)
	b.placeUint16(v)
}

func (b *Builder) PrependUint32(v uint32) {
	b.prep(4, 0)
	b.placeUint32(v)
}

func (b *Builder) PrependInt32(v int32) {
	b.prep(4, 0)
	b.placeUint32(uint32(v))
}

func (b *Builder) PrependUint64(v uint64) {
	b.prep(8, 0)
	b.placeUint64(v)
}

func (b *Builder) PrependInt64(v int64) {
	b.prep(8, 0)
	b.placeUint64(uint64(v))
}

func (b *Builder) PrependFloat32(v float32) {
	b.prep(4, 0)
	b.placeUint32(math.Float32bits(v))
}

func (b *Builder) PrependFloat64(v float64) {
	b.prep(8, 0)
	b.placeUint64(math.Float64bits(v))
}

// PrependUOffset writes a relative reference to an already-finished child at
// offset off.
func (b *Builder) PrependUOffset(off uint32) {
	b.prep(SizeUOffset, 0)
	if off > b.offset() {
		panic("flat: offset points past the written region")
	}
	b.placeUint32(b.offset() - off + SizeUOffset)
}

// StartObject opens a table with the given number of declared field slots.
func (b *Builder) StartObject(numFields int) {
	b.assertNotNested()
	b.assertNotFinished()
	b.nested = true
	if cap(b.vtable) < numFields {
		b.vtable = make([]uint32, numFields)
	} else {
		b.vtable = b.vtable[:numFields]
		for i := range b.vtable {
			b.vtable[i] = 0
		}
	}
	b.objectEnd = b.offset()
}

// slot records the just-written field as occupying the given slot.
func (b *Builder) slot(slot int) {
	b.assertNested()
	b.vtable[slot] = b.offset()
}

// Slot field writers: the value is elided when it equals the schema default,
// so the reader reports it via the vtable instead of stored bytes.

func (b *Builder) PrependBoolSlot(slot int, v, def bool) {
	if v != def {
		b.PrependBool(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependInt8Slot(slot int, v, def int8) {
	if v != def {
		b.PrependInt8(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependUint8Slot(slot int, v, def uint8) {
	if v != def {
		b.PrependUint8(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependUint16Slot(slot int, v, def uint16) {
	if v != def {
		b.PrependUint16(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependInt32Slot(slot int, v, def int32) {
	if v != def {
		b.PrependInt32(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependUint32Slot(slot int, v, def uint32) {
	if v != def {
		b.PrependUint32(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependInt64Slot(slot int, v, def int64) {
	if v != def {
		b.PrependInt64(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependFloat32Slot(slot int, v, def float32) {
	if v != def {
		b.PrependFloat32(v)
		b.slot(slot)
	}
}

func (b *Builder) PrependFloat64Slot(slot int, v, def float64) {
	if v != def {
		b.PrependFloat64(v)
		b.slot(slot)
	}
}

// PrependUOffsetSlot records an offset field; zero means absent.
func (b *Builder) PrependUOffsetSlot(slot int, off uint32) {
	if off != 0 {
		b.PrependUOffset(off)
		b.slot(slot)
	}
}

// EndObject closes the open table, writes (or reuses) its vtable and returns
// the table's offset.
func (b *Builder) EndObject() uint32 {
	b.assertNested()
	b.nested = false

	// Placeholder for the vtable displacement; patched below.
	b.prep(SizeSOffset, 0)
	b.placeUint32(0)
	objectOffset := b.offset()

	// Trailing absent slots carry no information; trim them so structurally
	// identical tables serialize identical vtables.
	n := len(b.vtable)
	for n > 0 && b.vtable[n-1] == 0 {
		n--
	}

	vtBytes := make([]byte, (n+2)*SizeVOffset)
	binary.LittleEndian.PutUint16(vtBytes[0:], uint16(len(vtBytes)))
	binary.LittleEndian.PutUint16(vtBytes[2:], uint16(objectOffset-b.objectEnd))
	for i := 0; i < n; i++ {
		if b.vtable[i] != 0 {
			binary.LittleEndian.PutUint16(vtBytes[(i+2)*SizeVOffset:], uint16(objectOffset-b.vtable[i]))
		}
	}

	// Vtable bytes are position-independent, so byte-equal vtables are
	// interchangeable and one stored copy serves every matching table.
	vtOffset, ok := b.vtables[string(vtBytes)]
	if !ok {
		b.prep(SizeVOffset, uint32(len(vtBytes))-SizeVOffset)
		b.head -= uint32(len(vtBytes))
		copy(b.buf[b.head:], vtBytes)
		vtOffset = b.offset()
		b.vtables[string(vtBytes)] = vtOffset
	}

	tableStart := uint32(len(b.buf)) - objectOffset
	binary.LittleEndian.PutUint32(b.buf[tableStart:], uint32(int32(vtOffset)-int32(objectOffset)))

	b.vtable = b.vtable[:0]
	return objectOffset
}

// StartVector prepares a vector write. Elements are prepended afterwards in
// reverse index order, then EndVector seals the length.
func (b *Builder) StartVector(elemSize, numElems, alignment uint32) {
	b.assertNotNested()
	b.assertNotFinished()
	b.nested = true
	b.prep(SizeUOffset, elemSize*numElems)
	b.prep(alignment, elemSize*numElems)
}

// EndVector writes the element count and returns the vector's offset.
func (b *Builder) EndVector(numElems int) uint32 {
	b.assertNested()
	b.nested = false
	b.placeUint32(uint32(numElems))
	return b.offset()
}

// CreateString writes a NUL-terminated string and returns its offset.
func (b *Builder) CreateString(s string) uint32 {
	b.assertNotNested()
	b.assertNotFinished()
	b.prep(SizeUOffset, uint32(len(s))+1)
	b.placeByte(0)
	b.head -= uint32(len(s))
	copy(b.buf[b.head:], s)
	b.placeUint32(uint32(len(s)))
	return b.offset()
}

// CreateUint32Vector writes a uint32 vector in one call.
func (b *Builder) CreateUint32Vector(vs []uint32) uint32 {
	b.StartVector(4, uint32(len(vs)), 4)
	for i := len(vs) - 1; i >= 0; i-- {
		b.PrependUint32(vs[i])
	}
	return b.EndVector(len(vs))
}

// CreateInt32Vector writes an int32 vector in one call.
func (b *Builder) CreateInt32Vector(vs []int32) uint32 {
	b.StartVector(4, uint32(len(vs)), 4)
	for i := len(vs) - 1; i >= 0; i-- {
		b.PrependInt32(vs[i])
	}
	return b.EndVector(len(vs))
}

// CreateFloat32Vector writes a float32 vector in one call.
func (b *Builder) CreateFloat32Vector(vs []float32) uint32 {
	b.StartVector(4, uint32(len(vs)), 4)
	for i := len(vs) - 1; i >= 0; i-- {
		b.PrependFloat32(vs[i])
	}
	return b.EndVector(len(vs))
}

func (b *Builder) finish(root uint32, identifier string, sizePrefix bool) {
	b.assertNotNested()
	b.assertNotFinished()
	extra := uint32(SizeUOffset)
	if identifier != "" {
		if len(identifier) != IdentifierLength {
			panic("flat: file identifier must be exactly 4 bytes")
		}
		extra += IdentifierLength
	}
	if sizePrefix {
		extra += SizeUOffset
	}
	b.prep(b.minalign, extra)
	if identifier != "" {
		// Building backward, so the identifier lands just after the root
		// offset in the finished buffer.
		for i := IdentifierLength - 1; i >= 0; i-- {
			b.placeByte(identifier[i])
		}
	}
	b.PrependUOffset(root)
	if sizePrefix {
		b.placeUint32(b.offset())
	}
	b.finished = true
}

// Finish designates root as the buffer's root table. A non-empty identifier
// is embedded after the root offset for format sniffing.
func (b *Builder) Finish(root uint32, identifier string) {
	b.finish(root, identifier, false)
}

// FinishSizePrefixed is Finish with a leading 4-byte total-length prefix,
// for framing concatenated buffers over a stream.
func (b *Builder) FinishSizePrefixed(root uint32, identifier string) {
	b.finish(root, identifier, true)
}

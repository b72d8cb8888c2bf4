package flat

import (
	"encoding/binary"
	"math"
)

// Widths of the three offset kinds used by the encoding.
const (
	SizeUOffset = 4 // unsigned offset to a child object
	SizeSOffset = 4 // signed displacement from a table to its vtable
	SizeVOffset = 2 // vtable entry
)

// IdentifierLength is the length of a file identifier.
const IdentifierLength = 4

// Table is a lazy, zero-copy view of one table instance inside a finished
// buffer. Pos is the absolute byte position of the table start. Accessors
// never copy and never read a byte outside [0, len(Buf)); any access that
// would is reported as a *CorruptError.
type Table struct {
	Buf []byte
	Pos uint32
}

// Vector is a view of a length-prefixed sequence of fixed-stride elements.
// The zero Vector behaves as an empty one.
type Vector struct {
	buf    []byte
	start  uint32 // position of the first element
	length uint32
	stride uint32
}

// GetRoot resolves the root table of a finished buffer.
func GetRoot(buf []byte) (Table, error) {
	if len(buf) < SizeUOffset {
		return Table{}, &CorruptError{Err: ErrBufferTooSmall, Need: SizeUOffset, Len: uint32(len(buf)), What: "root offset"}
	}
	t := Table{Buf: buf}
	root, err := t.uint32At(0, "root offset")
	if err != nil {
		return Table{}, err
	}
	if uint64(root) >= uint64(len(buf)) {
		return Table{}, &CorruptError{Err: ErrOutOfBounds, Pos: root, Len: uint32(len(buf)), What: "root table"}
	}
	t.Pos = root
	return t, nil
}

// GetSizePrefixedRoot resolves the root table of a buffer that starts with a
// 4-byte total-length prefix.
func GetSizePrefixedRoot(buf []byte) (Table, error) {
	if len(buf) < SizeUOffset {
		return Table{}, &CorruptError{Err: ErrBufferTooSmall, Need: SizeUOffset, Len: uint32(len(buf)), What: "size prefix"}
	}
	size := binary.LittleEndian.Uint32(buf)
	if uint64(size)+SizeUOffset > uint64(len(buf)) {
		return Table{}, &CorruptError{Err: ErrOutOfBounds, Pos: 0, Need: size + SizeUOffset, Len: uint32(len(buf)), What: "size prefix"}
	}
	root, err := GetRoot(buf[SizeUOffset : SizeUOffset+size])
	if err != nil {
		return Table{}, err
	}
	// Re-anchor on the full buffer so positions stay absolute.
	return Table{Buf: buf, Pos: root.Pos + SizeUOffset}, nil
}

// BufferHasIdentifier reports whether the 4 bytes following the root offset
// equal ident.
func BufferHasIdentifier(buf []byte, ident string) bool {
	if len(ident) != IdentifierLength || len(buf) < SizeUOffset+IdentifierLength {
		return false
	}
	return string(buf[SizeUOffset:SizeUOffset+IdentifierLength]) == ident
}

// SizePrefixedBufferHasIdentifier is BufferHasIdentifier for size-prefixed
// buffers.
func SizePrefixedBufferHasIdentifier(buf []byte, ident string) bool {
	if len(buf) < SizeUOffset {
		return false
	}
	return BufferHasIdentifier(buf[SizeUOffset:], ident)
}

// check verifies that need bytes starting at pos lie inside the buffer.
func (t Table) check(pos, need uint32, what string) error {
	if uint64(pos)+uint64(need) > uint64(len(t.Buf)) {
		return &CorruptError{Err: ErrOutOfBounds, Pos: pos, Need: need, Len: uint32(len(t.Buf)), What: what}
	}
	return nil
}

func (t Table) uint8At(pos uint32, what string) (uint8, error) {
	if err := t.check(pos, 1, what); err != nil {
		return 0, err
	}
	return t.Buf[pos], nil
}

func (t Table) uint16At(pos uint32, what string) (uint16, error) {
	if err := t.check(pos, 2, what); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(t.Buf[pos:]), nil
}

func (t Table) uint32At(pos uint32, what string) (uint32, error) {
	if err := t.check(pos, 4, what); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(t.Buf[pos:]), nil
}

func (t Table) uint64At(pos uint32, what string) (uint64, error) {
	if err := t.check(pos, 8, what); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(t.Buf[pos:]), nil
}

// fieldOffset resolves field slot to its byte offset within the table, via
// the vtable. Zero means the field is absent.
func (t Table) fieldOffset(slot uint16) (uint32, error) {
	disp, err := t.uint32At(t.Pos, "vtable displacement")
	if err != nil {
		return 0, err
	}
	vt := int64(t.Pos) - int64(int32(disp))
	if vt < 0 || vt+SizeVOffset > int64(len(t.Buf)) {
		return 0, &CorruptError{Err: ErrOutOfBounds, Pos: t.Pos, Len: uint32(len(t.Buf)), What: "vtable"}
	}
	vtPos := uint32(vt)
	vtLen, err := t.uint16At(vtPos, "vtable length")
	if err != nil {
		return 0, err
	}
	entry := uint32(SizeVOffset*2 + SizeVOffset*slot)
	if entry+SizeVOffset > uint32(vtLen) {
		// Written by an older schema that had fewer slots.
		return 0, nil
	}
	off, err := t.uint16At(vtPos+entry, "vtable entry")
	if err != nil {
		return 0, err
	}
	return uint32(off), nil
}

// Scalar field accessors. A zero vtable entry yields the schema default
// without touching table bytes.

func (t Table) BoolField(slot uint16, def bool) (bool, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint8At(t.Pos+off, "bool field")
	return v != 0, err
}

func (t Table) Int8Field(slot uint16, def int8) (int8, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint8At(t.Pos+off, "int8 field")
	return int8(v), err
}

func (t Table) Uint8Field(slot uint16, def uint8) (uint8, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	return t.uint8At(t.Pos+off, "uint8 field")
}

func (t Table) Uint16Field(slot uint16, def uint16) (uint16, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	return t.uint16At(t.Pos+off, "uint16 field")
}

func (t Table) Int32Field(slot uint16, def int32) (int32, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint32At(t.Pos+off, "int32 field")
	return int32(v), err
}

func (t Table) Uint32Field(slot uint16, def uint32) (uint32, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	return t.uint32At(t.Pos+off, "uint32 field")
}

func (t Table) Int64Field(slot uint16, def int64) (int64, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint64At(t.Pos+off, "int64 field")
	return int64(v), err
}

func (t Table) Uint64Field(slot uint16, def uint64) (uint64, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	return t.uint64At(t.Pos+off, "uint64 field")
}

func (t Table) Float32Field(slot uint16, def float32) (float32, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint32At(t.Pos+off, "float32 field")
	return math.Float32frombits(v), err
}

func (t Table) Float64Field(slot uint16, def float64) (float64, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return def, err
	}
	v, err := t.uint64At(t.Pos+off, "float64 field")
	return math.Float64frombits(v), err
}

// indirect follows the uoffset stored at pos.
func (t Table) indirect(pos uint32, what string) (uint32, error) {
	rel, err := t.uint32At(pos, what)
	if err != nil {
		return 0, err
	}
	target := uint64(pos) + uint64(rel)
	if target >= uint64(len(t.Buf)) {
		return 0, &CorruptError{Err: ErrOutOfBounds, Pos: pos, Need: rel, Len: uint32(len(t.Buf)), What: what}
	}
	return uint32(target), nil
}

// TableField resolves an offset field to a nested table view. The bool
// reports presence.
func (t Table) TableField(slot uint16) (Table, bool, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return Table{}, false, err
	}
	pos, err := t.indirect(t.Pos+off, "table offset")
	if err != nil {
		return Table{}, false, err
	}
	return Table{Buf: t.Buf, Pos: pos}, true, nil
}

// StringField resolves a string field. The bool reports presence; an absent
// string is distinct from a present empty one.
func (t Table) StringField(slot uint16) (string, bool, error) {
	v, present, err := t.vectorField(slot, 1, "string")
	if err != nil || !present {
		return "", present, err
	}
	return string(v.buf[v.start : v.start+v.length]), true, nil
}

// VectorField resolves a vector field of the given element stride.
func (t Table) VectorField(slot uint16, stride uint32) (Vector, bool, error) {
	return t.vectorField(slot, stride, "vector")
}

func (t Table) vectorField(slot uint16, stride uint32, what string) (Vector, bool, error) {
	off, err := t.fieldOffset(slot)
	if err != nil || off == 0 {
		return Vector{}, false, err
	}
	pos, err := t.indirect(t.Pos+off, what+" offset")
	if err != nil {
		return Vector{}, false, err
	}
	length, err := t.uint32At(pos, what+" length")
	if err != nil {
		return Vector{}, false, err
	}
	start := pos + SizeUOffset
	if uint64(start)+uint64(length)*uint64(stride) > uint64(len(t.Buf)) {
		return Vector{}, false, &CorruptError{Err: ErrOutOfBounds, Pos: pos, Need: length * stride, Len: uint32(len(t.Buf)), What: what + " body"}
	}
	return Vector{buf: t.Buf, start: start, length: length, stride: stride}, true, nil
}

// UnionField resolves the table half of a union field. Tag dispatch is the
// caller's job; this only follows the offset.
func (t Table) UnionField(slot uint16) (Table, bool, error) {
	return t.TableField(slot)
}

// Len returns the element count.
func (v Vector) Len() int {
	return int(v.length)
}

// Bytes returns the raw element region, zero-copy. The slice aliases the
// underlying buffer and must not be mutated.
func (v Vector) Bytes() []byte {
	return v.buf[v.start : v.start+v.length*v.stride]
}

// elemPos bounds-checks index i and returns its absolute position.
func (v Vector) elemPos(i int) (uint32, error) {
	if i < 0 || uint32(i) >= v.length {
		return 0, &CorruptError{Err: ErrOutOfBounds, Pos: v.start, Need: uint32(i), Len: v.length, What: "vector index"}
	}
	return v.start + uint32(i)*v.stride, nil
}

// Uint32 returns element i of a uint32 vector.
func (v Vector) Uint32(i int) (uint32, error) {
	pos, err := v.elemPos(i)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v.buf[pos:]), nil
}

// Int32 returns element i of an int32 vector.
func (v Vector) Int32(i int) (int32, error) {
	u, err := v.Uint32(i)
	return int32(u), err
}

// Float32 returns element i of a float32 vector.
func (v Vector) Float32(i int) (float32, error) {
	u, err := v.Uint32(i)
	return math.Float32frombits(u), err
}

// Table resolves element i of a vector of table offsets.
func (v Vector) Table(i int) (Table, error) {
	pos, err := v.elemPos(i)
	if err != nil {
		return Table{}, err
	}
	t := Table{Buf: v.buf}
	tablePos, err := t.indirect(pos, "vector element offset")
	if err != nil {
		return Table{}, err
	}
	t.Pos = tablePos
	return t, nil
}

// Uint32s decodes the whole vector into a fresh slice.
func (v Vector) Uint32s() []uint32 {
	out := make([]uint32, v.length)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(v.buf[v.start+uint32(i)*v.stride:])
	}
	return out
}

// Int32s decodes the whole vector into a fresh slice.
func (v Vector) Int32s() []int32 {
	out := make([]int32, v.length)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(v.buf[v.start+uint32(i)*v.stride:]))
	}
	return out
}

// Float32s decodes the whole vector into a fresh slice.
func (v Vector) Float32s() []float32 {
	out := make([]float32, v.length)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(v.buf[v.start+uint32(i)*v.stride:]))
	}
	return out
}
